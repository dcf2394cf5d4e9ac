package broadcast

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mcoot/bullscows/internal/metrics"
	"github.com/mcoot/bullscows/internal/model"
)

// HubManager manages hubs for all rooms plus the global hub.
// It is the in-process Channel implementation.
type HubManager struct {
	hubs    map[model.RoomID]*Hub
	global  *Hub
	mu      sync.RWMutex
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Ensure HubManager implements Channel
var _ Channel = (*HubManager)(nil)

// NewHubManager creates a new HubManager and starts its global hub
func NewHubManager(logger *slog.Logger, m *metrics.Metrics) *HubManager {
	logger = logger.With(slog.String("component", "broadcast"))
	global := NewHub("", logger, m)
	go global.Run()
	return &HubManager{
		hubs:    make(map[model.RoomID]*Hub),
		global:  global,
		logger:  logger,
		metrics: m,
	}
}

// GetOrCreateHub returns the hub for a room, creating one if it doesn't exist
func (m *HubManager) GetOrCreateHub(roomID model.RoomID) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[roomID]; ok {
		return hub
	}

	hub := NewHub(roomID, m.logger, m.metrics)
	m.hubs[roomID] = hub
	go hub.Run()
	return hub
}

// RoomLookup reports whether a room still exists, returning its lookup error otherwise
type RoomLookup func(ctx context.Context, roomID model.RoomID) error

// GetLiveHub returns the hub for a room that lookup confirms is live.
// The room is checked again once the hub exists: if it was deleted in
// between, its hub removal may already have run, so the new hub is dropped.
func (m *HubManager) GetLiveHub(ctx context.Context, roomID model.RoomID, lookup RoomLookup) (*Hub, error) {
	if err := lookup(ctx, roomID); err != nil {
		return nil, err
	}

	hub := m.GetOrCreateHub(roomID)
	if err := lookup(ctx, roomID); err != nil {
		m.RemoveHub(roomID)
		return nil, err
	}
	return hub, nil
}

// GetHub returns the hub for a room, or nil if it doesn't exist
func (m *HubManager) GetHub(roomID model.RoomID) *Hub {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hubs[roomID]
}

// Global returns the hub that receives globally scoped events
func (m *HubManager) Global() *Hub {
	return m.global
}

// RemoveHub closes a room's hub after its queue drains and forgets it
func (m *HubManager) RemoveHub(roomID model.RoomID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[roomID]; ok {
		hub.Close()
		delete(m.hubs, roomID)
		m.logger.Info("hub removed", slog.String("room_id", string(roomID)))
	}
}

// CleanupEmptyHubs removes room hubs with no subscribers
func (m *HubManager) CleanupEmptyHubs() {
	m.mu.Lock()
	defer m.mu.Unlock()

	removedCount := 0
	for id, hub := range m.hubs {
		if hub.SubscriberCount() == 0 {
			hub.Close()
			delete(m.hubs, id)
			removedCount++
		}
	}
	if removedCount > 0 {
		m.logger.Info("empty hubs cleaned up", slog.Int("removed", removedCount))
	}
}

// HubCount returns the number of live room hubs
func (m *HubManager) HubCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.hubs)
}

// Close stops every hub, including the global one
func (m *HubManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, hub := range m.hubs {
		hub.Close()
		delete(m.hubs, id)
	}
	m.global.Close()
}

// PublishToRoom queues an event on the room's hub. Rooms nobody follows have no hub.
func (m *HubManager) PublishToRoom(ctx context.Context, roomID model.RoomID, event Event) error {
	hub := m.GetHub(roomID)
	if hub == nil {
		return nil
	}
	hub.Publish(event)
	return nil
}

// PublishGlobal queues an event on the global hub
func (m *HubManager) PublishGlobal(ctx context.Context, event Event) error {
	m.global.Publish(event)
	return nil
}

// CloseRoom implements Channel
func (m *HubManager) CloseRoom(ctx context.Context, roomID model.RoomID) error {
	m.RemoveHub(roomID)
	return nil
}
