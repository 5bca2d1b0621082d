package worker_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/vaultdeck/vaultdeck/internal/audit"
	"github.com/vaultdeck/vaultdeck/internal/queue/redisclient"
	"github.com/vaultdeck/vaultdeck/internal/queue/worker"
)

type fakeQueue struct {
	payloads [][]byte
}

func (f *fakeQueue) Dequeue(_ context.Context, _ time.Duration) ([]byte, error) {
	if len(f.payloads) == 0 {
		return nil, redisclient.ErrEmpty
	}

	p := f.payloads[0]
	f.payloads = f.payloads[1:]

	return p, nil
}

func (f *fakeQueue) Ping(context.Context) error { return nil }

type fakeSink struct {
	inserted []audit.Event
	insertFn func(ctx context.Context, e audit.Event) error
}

func (f *fakeSink) Insert(ctx context.Context, e audit.Event) error {
	if f.insertFn != nil {
		return f.insertFn(ctx, e)
	}

	f.inserted = append(f.inserted, e)
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newWorker(q *fakeQueue, s *fakeSink) *worker.Worker {
	return worker.New(worker.Config{
		PollTimeout: 10 * time.Millisecond,
		WorkerID:    "test-worker",
	}, q, s, quietLogger(), nil)
}

func TestProcessOne_PersistsEvent(t *testing.T) {
	e := audit.NewEvent(audit.EventLogin, audit.StatusSuccess)
	e.UserID = "user-1"
	e.Email = "alice@example.com"

	payload, err := audit.Encode(e)

	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	q := &fakeQueue{payloads: [][]byte{payload}}
	s := &fakeSink{}

	processed, err := newWorker(q, s).ProcessOne(context.Background())

	if err != nil {
		t.Fatalf("ProcessOne: %v", err)
	}

	if !processed {
		t.Fatal("expected a processed event")
	}

	if len(s.inserted) != 1 {
		t.Fatalf("inserted %d events, want 1", len(s.inserted))
	}

	if s.inserted[0].ID != e.ID {
		t.Errorf("inserted id = %q, want %q", s.inserted[0].ID, e.ID)
	}
}

func TestProcessOne_EmptyQueue(t *testing.T) {
	q := &fakeQueue{}
	s := &fakeSink{}

	processed, err := newWorker(q, s).ProcessOne(context.Background())

	if err != nil {
		t.Fatalf("ProcessOne: %v", err)
	}

	if processed {
		t.Fatal("nothing was queued, nothing should be processed")
	}
}

func TestProcessOne_MalformedPayloadIsDropped(t *testing.T) {
	good := audit.NewEvent(audit.EventRegister, audit.StatusFailure)
	goodPayload, err := audit.Encode(good)

	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	q := &fakeQueue{payloads: [][]byte{[]byte("{not json"), goodPayload}}
	s := &fakeSink{}
	w := newWorker(q, s)

	// malformed: consumed without an error, nothing persisted
	processed, err := w.ProcessOne(context.Background())

	if err != nil || !processed {
		t.Fatalf("ProcessOne = (%v, %v), want (true, nil)", processed, err)
	}

	if len(s.inserted) != 0 {
		t.Fatal("malformed payload reached the sink")
	}

	// the queue keeps moving afterwards
	processed, err = w.ProcessOne(context.Background())

	if err != nil || !processed {
		t.Fatalf("ProcessOne = (%v, %v), want (true, nil)", processed, err)
	}

	if len(s.inserted) != 1 {
		t.Fatalf("inserted %d events, want 1", len(s.inserted))
	}
}

func TestProcessOne_SinkFailureSurfaces(t *testing.T) {
	e := audit.NewEvent(audit.EventLogin, audit.StatusFailure)
	payload, err := audit.Encode(e)

	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	q := &fakeQueue{payloads: [][]byte{payload}}
	s := &fakeSink{
		insertFn: func(context.Context, audit.Event) error {
			return errors.New("db down")
		},
	}

	processed, err := newWorker(q, s).ProcessOne(context.Background())

	if !processed {
		t.Fatal("the payload was consumed, processed should be true")
	}

	if err == nil {
		t.Fatal("sink failure must surface so the loop backs off")
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	q := &fakeQueue{}
	s := &fakeSink{}
	w := newWorker(q, s)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)

	go func() {
		done <- w.Run(ctx)
	}()

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}
