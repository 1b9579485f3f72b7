package main

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"

	"txt-chat/client"
	"txt-chat/domain"
	"txt-chat/runtime"
	"txt-chat/wire"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables. The username may
// also be passed as the first command-line argument.
type Config struct {
	ServerAddress string `env:"CHAT_SERVER_ADDR,default=localhost:9090"`
	Username      string `env:"CHAT_USERNAME,default=anonymous"`
	LogLevel      string `env:"LOG_LEVEL,default=INFO"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	// 1. Load configuration from environment variables.
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	username := config.Username
	if len(os.Args) > 1 {
		username = os.Args[1]
	}

	// 2. Setup context to handle termination signals (Ctrl+C).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Connect and register.
	conn, err := net.Dial("tcp", config.ServerAddress)
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to server at %s: %w", config.ServerAddress, err)
	}
	transport := runtime.NewLineTransport(conn)
	defer func() {
		log.Info("Closing connection...")
		_ = transport.Close()
	}()

	welcome, err := transport.ReadLine()
	if err != nil {
		return exitRuntime, fmt.Errorf("reading welcome line: %w", err)
	}
	color.Green.Println(welcome)

	if err := transport.WriteLine(wire.Encode(domain.Register{Username: username})); err != nil {
		return exitRuntime, fmt.Errorf("registering user: %w", err)
	}

	state := client.NewState(username)

	// 4. Reader loop: fold every server line into the mirror and print it.
	readerDone := make(chan error, 1)
	go func() {
		for {
			line, err := transport.ReadLine()
			if err != nil {
				readerDone <- err
				return
			}

			kind, payload := wire.ParseResponse(line)
			if kind == wire.ResponseChat {
				color.Cyan.Printf(">> %s\n", line)
			} else {
				color.Yellow.Printf(">> %s\n", line)
			}
			if notice := state.ApplyResponse(kind, payload); notice != "" {
				log.Info(notice)
			}
		}
	}()

	// 5. Input loop: local directives or bare text to the current room.
	inputLines := make(chan string)
	go func() {
		defer close(inputLines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			inputLines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return exitOK, nil
		case err := <-readerDone:
			return exitRuntime, fmt.Errorf("connection closed: %w", err)
		case line, ok := <-inputLines:
			if !ok {
				return exitOK, nil
			}
			if line == "" {
				continue
			}

			action, err := state.HandleInput(line)
			if err != nil {
				log.Warn(err.Error())
				continue
			}

			switch action.Kind {
			case client.ActionSend:
				if err := transport.WriteLine(action.Line); err != nil {
					return exitRuntime, fmt.Errorf("failed to send line: %w", err)
				}
			case client.ActionNotice:
				log.Info(action.Notice)
			case client.ActionListRooms:
				renderRooms(state)
			}
		}
	}
}

// renderRooms prints the joined rooms with markers for the current and
// personal room.
func renderRooms(state *client.State) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ROOM ID", "CURRENT", "PERSONAL"})
	for _, roomID := range state.JoinedRooms() {
		table.Append([]string{
			roomID,
			mark(roomID == state.CurrentRoom()),
			mark(roomID == state.PersonalRoom()),
		})
	}
	table.Render()
}

func mark(yes bool) string {
	if yes {
		return "x"
	}
	return ""
}
