package audit

import (
	"encoding/json"
	"fmt"
)

// Encode serializes an event for the queue. Invalid events are rejected here
// rather than at the consumer, where the original context is gone.
func Encode(e Event) ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	b, err := json.Marshal(e)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}

	return b, nil
}

func Decode(raw []byte) (Event, error) {
	if len(raw) == 0 {
		return Event{}, ErrInvalidEvent
	}

	var e Event

	if err := json.Unmarshal(raw, &e); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}

	if err := e.Validate(); err != nil {
		return Event{}, err
	}

	return e, nil
}
