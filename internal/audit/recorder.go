package audit

import (
	"context"
	"log/slog"
	"time"
)

type Enqueuer interface {
	Enqueue(ctx context.Context, payload []byte) error
}

// Recorder publishes events onto the queue. Failures are logged and dropped;
// the security log must never block or fail a login/registration response.
type Recorder struct {
	queue Enqueuer
	log   *slog.Logger
}

func NewRecorder(queue Enqueuer, log *slog.Logger) *Recorder {
	return &Recorder{queue: queue, log: log}
}

func (r *Recorder) Record(e Event) {
	if r == nil || r.queue == nil {
		return
	}

	b, err := Encode(e)

	if err != nil {
		r.log.Warn("audit event dropped", "err", err, "type", string(e.Type))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := r.queue.Enqueue(ctx, b); err != nil {
		r.log.Warn("audit enqueue failed", "err", err, "type", string(e.Type))
	}
}
