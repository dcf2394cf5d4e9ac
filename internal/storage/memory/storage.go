package memory

import (
	"context"
	"sync"

	"github.com/mcoot/bullscows/internal/model"
	"github.com/mcoot/bullscows/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Rooms are cloned on the way in and out so callers never share state with the store.
type Storage struct {
	mu sync.RWMutex

	rooms  map[model.RoomID]*model.Room
	guests map[model.GuestID]*model.Guest
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		rooms:  make(map[model.RoomID]*model.Room),
		guests: make(map[model.GuestID]*model.Guest),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Close is a no-op
func (s *Storage) Close() error {
	return nil
}

// Room operations

func (s *Storage) CreateRoom(ctx context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.rooms[room.ID]; exists {
		return model.ErrRoomExists
	}
	room.Version = 1
	s.rooms[room.ID] = room.Clone()
	return nil
}

func (s *Storage) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return room.Clone(), nil
}

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.rooms[room.ID]
	if !ok {
		return model.ErrRoomNotFound
	}
	if current.Version != room.Version {
		return model.ErrVersionConflict
	}
	room.Version++
	s.rooms[room.ID] = room.Clone()
	return nil
}

func (s *Storage) DeleteRoom(ctx context.Context, id model.RoomID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
	return nil
}

func (s *Storage) ListRooms(ctx context.Context) ([]*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rooms := make([]*model.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, room.Clone())
	}
	storage.SortRooms(rooms)
	return rooms, nil
}

// Guest operations

func (s *Storage) SaveGuest(ctx context.Context, guest *model.Guest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := *guest
	s.guests[guest.ID] = &g
	return nil
}

func (s *Storage) GetGuest(ctx context.Context, id model.GuestID) (*model.Guest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	guest, ok := s.guests[id]
	if !ok {
		return nil, model.ErrGuestNotFound
	}
	g := *guest
	return &g, nil
}

func (s *Storage) DeleteGuest(ctx context.Context, id model.GuestID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.guests, id)
	return nil
}

// Len returns the number of stored rooms
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

