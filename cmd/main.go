package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"

	"txt-chat/moderation"
	"txt-chat/observability"
	"txt-chat/runtime"
	"txt-chat/runtime/workers"
	"txt-chat/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting, so every defer executes before the process
// exits and the wiring stays testable outside of main.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Moderation
	replacement, err := CharacterRune(config.CharReplacement)
	if err != nil {
		return err
	}
	words := censoredWords(config.CensoredWords)
	moderator, err := moderation.NewModerator(words, replacement)
	if err != nil {
		return fmt.Errorf("building moderator: %w", err)
	}
	if len(words) > 0 {
		log.Info(fmt.Sprintf("%d censored words loaded", len(words)))
	}

	// 3. Core state shared by every connection
	stats := observability.NewStats()
	directory := runtime.NewDirectory()
	bus := runtime.NewBus(config.BufferSize)
	chatService := services.NewChatService(log, directory, bus, moderator, stats)

	// 4. Supervision
	supervisor := workers.NewSupervisor(log, config.RestartInterval)
	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)
	supervisor.
		Add(workers.NewListenerWorker(log, addr, chatService, bus, stats)).
		Add(workers.NewReporterWorker(log, stats, directory, config.ReportInterval))

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 6. Blocks until the context is canceled and all workers drained
	log.Info("Starting supervisor and all workers", "addr", addr)
	supervisor.Run(ctx)

	// 7. Final cleanup
	bus.Close()
	log.Info("Program stopped cleanly")
	return nil
}

// censoredWords parses the comma-separated configuration value, dropping
// blanks.
func censoredWords(raw string) []string {
	if raw == "" {
		return nil
	}
	trimmed := lo.Map(strings.Split(raw, ","), func(word string, _ int) string {
		return strings.TrimSpace(word)
	})
	return lo.Filter(trimmed, func(word string, _ int) bool {
		return word != ""
	})
}
