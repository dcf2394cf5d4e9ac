package broadcast

import (
	"context"
	"log/slog"

	"github.com/mcoot/bullscows/internal/dependencies/clock"
	"github.com/mcoot/bullscows/internal/metrics"
	"github.com/mcoot/bullscows/internal/model"
)

// Policy decides the scope of each event type. Unlisted events are room scoped.
type Policy struct {
	global map[model.EventType]bool
}

// NewPolicy builds a policy that sends the named events globally
func NewPolicy(globalEvents []string) Policy {
	p := Policy{global: make(map[model.EventType]bool, len(globalEvents))}
	for _, name := range globalEvents {
		p.global[model.EventType(name)] = true
	}
	return p
}

// ScopeOf returns the audience for an event type
func (p Policy) ScopeOf(t model.EventType) Scope {
	if p.global[t] {
		return ScopeGlobal
	}
	return ScopeRoom
}

// Emitter stamps events and routes them to the channel according to the policy
type Emitter struct {
	channel Channel
	policy  Policy
	clock   clock.Clock
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewEmitter creates a new Emitter
func NewEmitter(channel Channel, policy Policy, clk clock.Clock, logger *slog.Logger, m *metrics.Metrics) *Emitter {
	return &Emitter{
		channel: channel,
		policy:  policy,
		clock:   clk,
		logger:  logger.With(slog.String("component", "emitter")),
		metrics: m,
	}
}

// Emit publishes an event for a room. Failures are logged and never returned.
func (e *Emitter) Emit(ctx context.Context, roomID model.RoomID, eventType model.EventType, payload any) {
	event := Event{
		Type:      eventType,
		RoomID:    roomID,
		Payload:   payload,
		Timestamp: e.clock.Now(),
	}

	scope := e.policy.ScopeOf(eventType)
	var err error
	if scope == ScopeGlobal {
		err = e.channel.PublishGlobal(ctx, event)
	} else {
		err = e.channel.PublishToRoom(ctx, roomID, event)
	}
	if err != nil {
		e.logger.Error("failed to publish event",
			slog.String("room_id", string(roomID)),
			slog.String("event", string(eventType)),
			slog.String("scope", string(scope)),
			slog.Any("error", err))
		return
	}
	e.metrics.EventsPublished.WithLabelValues(string(eventType), string(scope)).Inc()
}

// CloseRoom ends delivery for a room after queued events drain
func (e *Emitter) CloseRoom(ctx context.Context, roomID model.RoomID) {
	if err := e.channel.CloseRoom(ctx, roomID); err != nil {
		e.logger.Error("failed to close room channel",
			slog.String("room_id", string(roomID)),
			slog.Any("error", err))
	}
}
