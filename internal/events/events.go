// Package events publishes account change notifications for downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const (
	TypeAccountCreated         = "account.created"
	TypeAccountProfileUpdated  = "account.profile.updated"
	TypeAccountPasswordUpdated = "account.password.updated"
)

// Event is the JSON payload sent to the broker.
type Event struct {
	Type       string    `json:"type"`
	Nickname   string    `json:"nickname"`
	OccurredAt time.Time `json:"occurred_at"`
}

// New stamps an event of the given type for an account.
func New(eventType, nickname string) Event {
	return Event{
		Type:       eventType,
		Nickname:   nickname,
		OccurredAt: time.Now().UTC(),
	}
}

// Decode parses a message body produced by a Publisher.
func Decode(body []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(body, &e); err != nil {
		return Event{}, fmt.Errorf("failed to decode event: %w", err)
	}
	return e, nil
}

// Publisher sends events to a broker.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Nop discards every event.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, Event) error { return nil }
