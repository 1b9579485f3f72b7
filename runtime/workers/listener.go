package workers

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"txt-chat/contract"
	"txt-chat/observability"
	"txt-chat/runtime"
)

var _ contract.Worker = (*ListenerWorker)(nil)

// ListenerWorker is the TCP accept loop, run under the supervisor. Each
// accepted connection gets its own session goroutine; sessions are not
// individually supervised, a dying session only takes its own connection
// down.
type ListenerWorker struct {
	log   *slog.Logger
	addr  string
	svc   contract.IChatService
	bus   *runtime.Bus
	stats *observability.Stats
}

func NewListenerWorker(log *slog.Logger, addr string, svc contract.IChatService,
	bus *runtime.Bus, stats *observability.Stats) *ListenerWorker {
	return &ListenerWorker{log: log, addr: addr, svc: svc, bus: bus, stats: stats}
}

func (w *ListenerWorker) Run(ctx context.Context) error {
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", w.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", w.addr, err)
	}

	// Unblocks Accept when the supervisor shuts us down.
	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	w.log.Info("Server listening", "addr", w.addr)

	var sessions sync.WaitGroup
	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				w.log.Info("Listener stopped, waiting for sessions to drain")
				sessions.Wait()
				return nil
			}
			w.log.Warn("Failed to accept connection", "error", err)
			continue
		}

		w.log.Info("Accepted connection", "remote", conn.RemoteAddr().String())

		session := runtime.NewSession(w.svc, w.bus, runtime.NewLineTransport(conn), w.stats, w.log)
		sessions.Add(1)
		go func() {
			defer sessions.Done()
			if err := session.Run(ctx); err != nil {
				w.log.Warn("Session ended with error", "error", err)
			}
		}()
	}
}
