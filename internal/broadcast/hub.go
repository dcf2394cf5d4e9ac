package broadcast

import (
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/bullscows/internal/metrics"
	"github.com/mcoot/bullscows/internal/model"
)

const (
	// Buffer size for each subscriber's outgoing events
	subscriberBufferSize = 256

	// Buffer size for the hub's inbound queue
	hubQueueSize = 256
)

// Subscriber receives events from a single hub
type Subscriber struct {
	id          string
	send        chan Event
	connectedAt time.Time
}

// ID returns the identifier the subscriber registered with
func (s *Subscriber) ID() string {
	return s.id
}

// Events is closed when the subscriber is unregistered or the hub stops
func (s *Subscriber) Events() <-chan Event {
	return s.send
}

// Hub delivers events for a single room (or the global channel) to its
// subscribers. One goroutine drains the queue, so events reach every
// subscriber in publish order.
type Hub struct {
	roomID      model.RoomID
	subscribers map[*Subscriber]bool
	mu          sync.RWMutex
	logger      *slog.Logger
	metrics     *metrics.Metrics

	// Channels for managing subscribers
	register   chan *Subscriber
	unregister chan *Subscriber
	queue      chan Event
	done       chan struct{}

	// queueMu guards closing the queue against concurrent publishers
	queueMu sync.RWMutex
	closed  bool
}

// NewHub creates a new Hub for a room. An empty roomID denotes the global hub.
func NewHub(roomID model.RoomID, logger *slog.Logger, m *metrics.Metrics) *Hub {
	return &Hub{
		roomID:      roomID,
		subscribers: make(map[*Subscriber]bool),
		logger:      logger.With(slog.String("room_id", string(roomID))),
		metrics:     m,
		register:    make(chan *Subscriber),
		unregister:  make(chan *Subscriber),
		queue:       make(chan Event, hubQueueSize),
		done:        make(chan struct{}),
	}
}

// Run starts the hub's event loop. It returns after Close once every queued event is delivered.
func (h *Hub) Run() {
	h.logger.Debug("hub started")
	defer close(h.done)
	for {
		select {
		case sub := <-h.register:
			h.mu.Lock()
			h.subscribers[sub] = true
			count := len(h.subscribers)
			h.mu.Unlock()
			h.logger.Info("subscriber registered",
				slog.String("subscriber_id", sub.id),
				slog.Int("total_subscribers", count))

		case sub := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.subscribers[sub]; ok {
				delete(h.subscribers, sub)
				close(sub.send)
				count := len(h.subscribers)
				h.mu.Unlock()
				h.logger.Info("subscriber unregistered",
					slog.String("subscriber_id", sub.id),
					slog.Duration("connection_duration", time.Since(sub.connectedAt)),
					slog.Int("total_subscribers", count))
			} else {
				h.mu.Unlock()
			}

		case event, ok := <-h.queue:
			if !ok {
				h.shutdown()
				return
			}
			h.deliver(event)
		}
	}
}

func (h *Hub) deliver(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	dropped := 0
	for sub := range h.subscribers {
		select {
		case sub.send <- event:
		default:
			dropped++
			h.logger.Warn("event dropped - subscriber buffer full",
				slog.String("subscriber_id", sub.id),
				slog.String("event", string(event.Type)))
		}
	}
	if dropped > 0 {
		h.metrics.EventsDropped.WithLabelValues(string(event.Type)).Add(float64(dropped))
	}
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	count := len(h.subscribers)
	for sub := range h.subscribers {
		close(sub.send)
		delete(h.subscribers, sub)
	}
	h.mu.Unlock()
	h.logger.Info("hub stopped", slog.Int("disconnected_subscribers", count))
}

// Subscribe registers a new subscriber. On a stopped hub the returned
// subscriber's channel is already closed.
func (h *Hub) Subscribe(id string) *Subscriber {
	sub := &Subscriber{
		id:          id,
		send:        make(chan Event, subscriberBufferSize),
		connectedAt: time.Now(),
	}
	select {
	case h.register <- sub:
	case <-h.done:
		close(sub.send)
	}
	return sub
}

// Unsubscribe removes a subscriber from the hub
func (h *Hub) Unsubscribe(sub *Subscriber) {
	select {
	case h.unregister <- sub:
	case <-h.done:
	}
}

// Publish queues an event for delivery. It blocks while the queue is full and
// reports false if the hub has been closed.
func (h *Hub) Publish(event Event) bool {
	h.queueMu.RLock()
	defer h.queueMu.RUnlock()
	if h.closed {
		return false
	}
	h.queue <- event
	return true
}

// Close stops accepting events. Already queued events are still delivered
// before subscribers are disconnected.
func (h *Hub) Close() {
	h.queueMu.Lock()
	defer h.queueMu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	close(h.queue)
}

// Done is closed once the hub's loop has exited
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// SubscriberCount returns the number of connected subscribers
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
