package storage

import (
	"sync"

	"github.com/mcoot/bullscows/internal/model"
)

// RoomLocks is a keyed mutex serialising mutations of a single room.
// Entries are reference counted and removed once no goroutine holds or waits on them.
type RoomLocks struct {
	mu    sync.Mutex
	locks map[model.RoomID]*roomLock
}

type roomLock struct {
	mu   sync.Mutex
	refs int
}

// NewRoomLocks creates an empty lock table
func NewRoomLocks() *RoomLocks {
	return &RoomLocks{
		locks: make(map[model.RoomID]*roomLock),
	}
}

// Lock blocks until the room's lock is held and returns the function that releases it
func (l *RoomLocks) Lock(id model.RoomID) (unlock func()) {
	l.mu.Lock()
	rl, ok := l.locks[id]
	if !ok {
		rl = &roomLock{}
		l.locks[id] = rl
	}
	rl.refs++
	l.mu.Unlock()

	rl.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			rl.mu.Unlock()

			l.mu.Lock()
			rl.refs--
			if rl.refs == 0 {
				delete(l.locks, id)
			}
			l.mu.Unlock()
		})
	}
}

// Len returns the number of rooms with a held or awaited lock
func (l *RoomLocks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
