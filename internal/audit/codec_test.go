package audit

import (
	"errors"
	"testing"
	"time"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	e := NewEvent(EventLogin, StatusSuccess)
	e.UserID = "u-1"
	e.Email = "a@x.com"
	e.IP = "127.0.0.1"

	b, err := Encode(e)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	got, err := Decode(b)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if got.ID != e.ID || got.Type != e.Type || got.Status != e.Status || got.Email != e.Email {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, e)
	}
}

func TestEncodeRejectsInvalidType(t *testing.T) {
	e := Event{
		ID:         "x",
		Type:       EventType("password_change"),
		Status:     StatusSuccess,
		OccurredAt: time.Now().UTC(),
	}

	_, err := Encode(e)

	if !errors.Is(err, ErrInvalidEventType) {
		t.Fatalf("got %v, want ErrInvalidEventType", err)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	cases := [][]byte{nil, {}, []byte("{"), []byte(`{"type":"login"}`)}

	for _, raw := range cases {
		if _, err := Decode(raw); err == nil {
			t.Fatalf("decode accepted %q", raw)
		}
	}
}
