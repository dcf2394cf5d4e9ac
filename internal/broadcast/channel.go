package broadcast

import (
	"context"
	"time"

	"github.com/mcoot/bullscows/internal/model"
)

// Scope is the audience of a broadcast event
type Scope string

const (
	ScopeRoom   Scope = "room"
	ScopeGlobal Scope = "global"
)

// Event is a single message delivered to subscribers
type Event struct {
	Type      model.EventType `json:"type"`
	RoomID    model.RoomID    `json:"roomId,omitempty"`
	Payload   any             `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// Channel fans events out to subscribers.
// Publishing is fire-and-forget: a returned error only means the event could
// not be handed to the transport and must never fail the caller's operation.
type Channel interface {
	PublishToRoom(ctx context.Context, roomID model.RoomID, event Event) error
	PublishGlobal(ctx context.Context, event Event) error
	// CloseRoom stops delivery for a room once its queued events have been sent
	CloseRoom(ctx context.Context, roomID model.RoomID) error
}
