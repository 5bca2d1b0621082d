package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/vaultdeck/vaultdeck/internal/audit"
	"github.com/vaultdeck/vaultdeck/internal/observability"
	"github.com/vaultdeck/vaultdeck/internal/queue/redisclient"
)

type EventSink interface {
	Insert(ctx context.Context, e audit.Event) error
}

type Dequeuer interface {
	Dequeue(ctx context.Context, timeout time.Duration) ([]byte, error)
	Ping(ctx context.Context) error
}

type Config struct {
	PollTimeout   time.Duration
	ShutdownGrace time.Duration
	WorkerID      string
}

// Worker drains the audit queue into the security_events table.
type Worker struct {
	cfg   Config
	queue Dequeuer
	sink  EventSink
	log   *slog.Logger
	prom  *observability.Prom

	readyMu sync.RWMutex
	ready   bool
}

func New(cfg Config, queue Dequeuer, sink EventSink, log *slog.Logger, prom *observability.Prom) *Worker {
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 2 * time.Second
	}

	return &Worker{
		cfg:   cfg,
		queue: queue,
		sink:  sink,
		log:   log,
		prom:  prom,
	}
}

func (w *Worker) Run(ctx context.Context) error {
	w.setReady(true)
	defer w.setReady(false)

	w.log.Info("audit worker started", "worker_id", w.cfg.WorkerID)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("audit worker received shutdown signal")
			return nil
		default:
		}

		processed, err := w.ProcessOne(ctx)

		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			w.log.Error("audit drain error", "err", err)
			// queue or db trouble: back off instead of spinning
			sleepCtx(ctx, ExponentialBackoff(1))
			continue
		}

		if !processed {
			continue
		}
	}
}

// ProcessOne pops and persists a single event. Returns false when the queue
// was empty for the whole poll window.
func (w *Worker) ProcessOne(ctx context.Context) (bool, error) {
	payload, err := w.queue.Dequeue(ctx, w.cfg.PollTimeout)

	if err != nil {
		if errors.Is(err, redisclient.ErrEmpty) {
			return false, nil
		}
		return false, err
	}

	e, err := audit.Decode(payload)

	if err != nil {
		// a malformed payload can never succeed; drop it, keep the queue moving
		w.log.Warn("dropping malformed audit payload", "err", err)

		if w.prom != nil {
			w.prom.AuditResults.WithLabelValues("dropped").Inc()
		}
		return true, nil
	}

	start := time.Now()

	insertCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err = w.sink.Insert(insertCtx, e)
	cancel()

	if w.prom != nil {
		result := "done"
		if err != nil {
			result = "failed"
		}
		w.prom.AuditResults.WithLabelValues(result).Inc()
		w.prom.AuditDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
	}

	if err != nil {
		return true, err
	}

	return true, nil
}

func (w *Worker) setReady(v bool) {
	w.readyMu.Lock()
	w.ready = v
	w.readyMu.Unlock()
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
