package audit

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Event is one security log entry. Auth handlers record them fire-and-forget;
// a separate worker drains the queue into Postgres.
type Event struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId,omitempty"`
	Email      string    `json:"email,omitempty"`
	Type       EventType `json:"type"`
	Status     Status    `json:"status"`
	Detail     string    `json:"detail,omitempty"`
	IP         string    `json:"ip,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

type EventType string

const (
	EventLogin    EventType = "login"
	EventRegister EventType = "register"
)

func (t EventType) IsValid() bool {
	switch t {
	case EventLogin, EventRegister:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusSuccess, StatusFailure:
		return true
	default:
		return false
	}
}

var (
	ErrInvalidEventType = errors.New("invalid event type")
	ErrInvalidStatus    = errors.New("invalid event status")
	ErrInvalidEvent     = errors.New("invalid event payload")
)

// NewEvent stamps id and time; the caller fills in identity and outcome.
func NewEvent(t EventType, status Status) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		Status:     status,
		OccurredAt: time.Now().UTC(),
	}
}

func (e Event) Validate() error {
	if !e.Type.IsValid() {
		return ErrInvalidEventType
	}
	if !e.Status.IsValid() {
		return ErrInvalidStatus
	}
	if e.ID == "" || e.OccurredAt.IsZero() {
		return ErrInvalidEvent
	}
	return nil
}
