package storage

import (
	"context"

	"github.com/mcoot/bullscows/internal/model"
)

// RoomStore persists Room aggregates.
//
// Implementations enforce optimistic concurrency on SaveRoom: the save only
// succeeds if the stored version still equals room.Version, in which case
// room.Version is incremented in place. Otherwise ErrVersionConflict is returned.
type RoomStore interface {
	// CreateRoom stores a new room at version 1. Returns ErrRoomExists if the id is taken.
	CreateRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error)
	SaveRoom(ctx context.Context, room *model.Room) error
	// DeleteRoom is idempotent
	DeleteRoom(ctx context.Context, id model.RoomID) error
	// ListRooms returns all rooms ordered by creation time
	ListRooms(ctx context.Context) ([]*model.Room, error)
}

// GuestStore persists guest identities
type GuestStore interface {
	SaveGuest(ctx context.Context, guest *model.Guest) error
	GetGuest(ctx context.Context, id model.GuestID) (*model.Guest, error)
	DeleteGuest(ctx context.Context, id model.GuestID) error
}

// Storage defines the interface for data persistence
type Storage interface {
	RoomStore
	GuestStore

	// Close releases backend connections
	Close() error
}
