package mocks

import (
	"context"
	"sync"

	"github.com/mcoot/bullscows/internal/broadcast"
	"github.com/mcoot/bullscows/internal/model"
)

// RecordedEvent is an event captured by RecordingChannel
type RecordedEvent struct {
	Scope  broadcast.Scope
	RoomID model.RoomID
	Event  broadcast.Event
}

// RecordingChannel is a broadcast.Channel that records everything published to it
type RecordingChannel struct {
	mu           sync.Mutex
	events       []RecordedEvent
	closedRooms  []model.RoomID
	PublishError error
}

// Ensure RecordingChannel implements Channel
var _ broadcast.Channel = (*RecordingChannel)(nil)

// NewRecordingChannel creates an empty RecordingChannel
func NewRecordingChannel() *RecordingChannel {
	return &RecordingChannel{}
}

func (c *RecordingChannel) PublishToRoom(ctx context.Context, roomID model.RoomID, event broadcast.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.PublishError != nil {
		return c.PublishError
	}
	c.events = append(c.events, RecordedEvent{Scope: broadcast.ScopeRoom, RoomID: roomID, Event: event})
	return nil
}

func (c *RecordingChannel) PublishGlobal(ctx context.Context, event broadcast.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.PublishError != nil {
		return c.PublishError
	}
	c.events = append(c.events, RecordedEvent{Scope: broadcast.ScopeGlobal, RoomID: event.RoomID, Event: event})
	return nil
}

func (c *RecordingChannel) CloseRoom(ctx context.Context, roomID model.RoomID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closedRooms = append(c.closedRooms, roomID)
	return nil
}

// Events returns a copy of every recorded event in publish order
func (c *RecordingChannel) Events() []RecordedEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]RecordedEvent(nil), c.events...)
}

// Types returns the recorded event types in publish order
func (c *RecordingChannel) Types() []model.EventType {
	c.mu.Lock()
	defer c.mu.Unlock()
	types := make([]model.EventType, len(c.events))
	for i, e := range c.events {
		types[i] = e.Event.Type
	}
	return types
}

// OfType returns the recorded events with the given type
func (c *RecordingChannel) OfType(t model.EventType) []RecordedEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []RecordedEvent
	for _, e := range c.events {
		if e.Event.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// ClosedRooms returns the rooms passed to CloseRoom
func (c *RecordingChannel) ClosedRooms() []model.RoomID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.RoomID(nil), c.closedRooms...)
}

// Reset clears all recorded state
func (c *RecordingChannel) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = nil
	c.closedRooms = nil
}
