package workers

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

// flakyWorker panics a configured number of times before finishing cleanly.
type flakyWorker struct {
	calls      atomic.Int32
	panicsLeft atomic.Int32
}

func (w *flakyWorker) Run(_ context.Context) error {
	w.calls.Add(1)
	if w.panicsLeft.Add(-1) >= 0 {
		panic("boom")
	}
	return nil
}

// blockingWorker runs until its context is canceled.
type blockingWorker struct {
	started chan struct{}
}

func (w *blockingWorker) Run(ctx context.Context) error {
	close(w.started)
	<-ctx.Done()
	return nil
}

func TestSupervisor_Restarts_Panicking_Worker(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	// Given a worker that panics twice before succeeding
	worker := &flakyWorker{}
	worker.panicsLeft.Store(2)
	supervisor := NewSupervisor(log, 10*time.Millisecond)
	supervisor.Add(worker)

	// When the supervisor runs it
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	supervisor.Run(ctx)

	// Then the worker was restarted after each panic and finished
	req.Equal(int32(3), worker.calls.Load())
	req.NoError(ctx.Err(), "Run must return because the worker finished, not because of the deadline")
}

func TestSupervisor_Does_Not_Restart_Clean_Workers(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	worker := &flakyWorker{}
	supervisor := NewSupervisor(log, 10*time.Millisecond)
	supervisor.Add(worker)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	supervisor.Run(ctx)

	req.Equal(int32(1), worker.calls.Load())
}

func TestSupervisor_Stop_Cancels_Running_Workers(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	worker := &blockingWorker{started: make(chan struct{})}
	supervisor := NewSupervisor(log, 10*time.Millisecond)
	supervisor.Add(worker)

	done := make(chan struct{})
	go func() {
		defer close(done)
		supervisor.Run(context.Background())
	}()

	// Stop only makes sense once the worker holds the supervised context
	select {
	case <-worker.started:
	case <-time.After(2 * time.Second):
		t.Fatal("worker never started")
	}
	supervisor.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor did not drain its workers after Stop")
	}
}
