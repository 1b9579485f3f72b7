package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"

	"txt-chat/contract"
	"txt-chat/observability"
	"txt-chat/runtime"
)

var _ contract.Worker = (*ReporterWorker)(nil)

// ReporterWorker periodically logs service counters together with the
// process's own memory, CPU, and OS status.
type ReporterWorker struct {
	log       *slog.Logger
	stats     *observability.Stats
	directory *runtime.Directory
	interval  time.Duration
}

func NewReporterWorker(log *slog.Logger, stats *observability.Stats,
	directory *runtime.Directory, interval time.Duration) *ReporterWorker {
	return &ReporterWorker{log: log, stats: stats, directory: directory, interval: interval}
}

func (w *ReporterWorker) Run(ctx context.Context) error {
	w.log.Info("Starting reporter worker", "interval", w.interval)

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			rss, cpu, status, err := selfStats(proc)
			if err != nil {
				w.log.Error("Failed to collect self stats", "err", err)
				continue
			}

			snapshot := w.stats.GetLatest()
			users, rooms := w.directory.Counts()

			w.log.Info("Service report",
				"active_sessions", snapshot.ActiveSessions,
				"users", users,
				"rooms", rooms,
				"messages_published", snapshot.MessagesPublished,
				"bus_dropped", snapshot.BusDropped,
				"ram_bytes", rss,
				"cpu_percent", cpu,
				"pid_status", status)
		}
	}
}

// selfStats retrieves technical metrics (memory, CPU, and OS status) for the given process.
func selfStats(p *process.Process) (uint64, float64, string, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, "", err
	}

	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, "", err
	}

	status, err := p.Status()
	if err != nil {
		return 0, 0, "", err
	}
	return memInfo.RSS, cpuPercent, status, nil
}
