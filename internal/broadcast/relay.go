package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/bullscows/internal/model"
)

// DefaultRelayChannel is the Redis pub/sub channel shared by every instance
const DefaultRelayChannel = "bullscows:events"

type relayKind string

const (
	relayRoom   relayKind = "room"
	relayGlobal relayKind = "global"
	relayClose  relayKind = "close"
)

// relayMessage is the wire format on the Redis channel
type relayMessage struct {
	Kind   relayKind    `json:"kind"`
	RoomID model.RoomID `json:"roomId,omitempty"`
	Event  *relayEvent  `json:"event,omitempty"`
	Origin string       `json:"origin"`
}

type relayEvent struct {
	Type      model.EventType `json:"type"`
	RoomID    model.RoomID    `json:"roomId,omitempty"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp json.RawMessage `json:"timestamp"`
}

// Relay is a Channel that fans events out through Redis pub/sub so every
// server instance sharing the store delivers them to its local subscribers.
// Delivery to local hubs happens only through the subscription, keeping a
// single ordered path per room.
type Relay struct {
	client  *redis.Client
	local   *HubManager
	channel string
	origin  string
	logger  *slog.Logger

	ready     chan struct{}
	readyOnce sync.Once
}

// Ensure Relay implements Channel
var _ Channel = (*Relay)(nil)

// NewRelay creates a relay over client that feeds the local hub manager.
// origin identifies this instance in log lines.
func NewRelay(client *redis.Client, local *HubManager, channel, origin string, logger *slog.Logger) *Relay {
	if channel == "" {
		channel = DefaultRelayChannel
	}
	return &Relay{
		client:  client,
		local:   local,
		channel: channel,
		origin:  origin,
		logger:  logger.With(slog.String("component", "relay")),
		ready:   make(chan struct{}),
	}
}

// PublishToRoom implements Channel
func (r *Relay) PublishToRoom(ctx context.Context, roomID model.RoomID, event Event) error {
	return r.publish(ctx, relayRoom, roomID, &event)
}

// PublishGlobal implements Channel
func (r *Relay) PublishGlobal(ctx context.Context, event Event) error {
	return r.publish(ctx, relayGlobal, "", &event)
}

// CloseRoom implements Channel
func (r *Relay) CloseRoom(ctx context.Context, roomID model.RoomID) error {
	return r.publish(ctx, relayClose, roomID, nil)
}

func (r *Relay) publish(ctx context.Context, kind relayKind, roomID model.RoomID, event *Event) error {
	msg := relayMessage{Kind: kind, RoomID: roomID, Origin: r.origin}
	if event != nil {
		encoded, err := encodeRelayEvent(event)
		if err != nil {
			return err
		}
		msg.Event = encoded
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal relay message: %w", err)
	}
	if err := r.client.Publish(ctx, r.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish relay message: %w", err)
	}
	return nil
}

func encodeRelayEvent(event *Event) (*relayEvent, error) {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}
	ts, err := json.Marshal(event.Timestamp)
	if err != nil {
		return nil, err
	}
	return &relayEvent{
		Type:      event.Type,
		RoomID:    event.RoomID,
		Payload:   payload,
		Timestamp: ts,
	}, nil
}

func (e *relayEvent) toEvent() (Event, error) {
	event := Event{
		Type:    e.Type,
		RoomID:  e.RoomID,
		Payload: e.Payload,
	}
	if len(e.Timestamp) > 0 {
		if err := json.Unmarshal(e.Timestamp, &event.Timestamp); err != nil {
			return Event{}, err
		}
	}
	return event, nil
}

// Ready is closed once the subscription is confirmed
func (r *Relay) Ready() <-chan struct{} {
	return r.ready
}

// Run consumes the Redis channel until ctx is cancelled
func (r *Relay) Run(ctx context.Context) error {
	pubsub := r.client.Subscribe(ctx, r.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", r.channel, err)
	}
	r.readyOnce.Do(func() { close(r.ready) })
	r.logger.Info("relay subscribed", slog.String("channel", r.channel), slog.String("origin", r.origin))

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("relay stopped")
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			r.handle(msg.Payload)
		}
	}
}

func (r *Relay) handle(data string) {
	var msg relayMessage
	if err := json.Unmarshal([]byte(data), &msg); err != nil {
		r.logger.Warn("relay message discarded", slog.Any("error", err))
		return
	}

	ctx := context.Background()
	switch msg.Kind {
	case relayClose:
		_ = r.local.CloseRoom(ctx, msg.RoomID)
	case relayRoom, relayGlobal:
		if msg.Event == nil {
			return
		}
		event, err := msg.Event.toEvent()
		if err != nil {
			r.logger.Warn("relay event discarded", slog.Any("error", err))
			return
		}
		if msg.Kind == relayGlobal {
			_ = r.local.PublishGlobal(ctx, event)
		} else {
			_ = r.local.PublishToRoom(ctx, msg.RoomID, event)
		}
	default:
		r.logger.Warn("unknown relay message kind", slog.String("kind", string(msg.Kind)))
	}
}
