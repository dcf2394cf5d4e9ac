package storage

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomLocks_SerialisesSameRoom(t *testing.T) {
	locks := NewRoomLocks()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("room-1")
			defer unlock()

			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
	assert.Equal(t, 0, locks.Len(), "idle entries should be freed")
}

func TestRoomLocks_DifferentRoomsDoNotBlock(t *testing.T) {
	locks := NewRoomLocks()
	unlockA := locks.Lock("room-a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := locks.Lock("room-b")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different room blocked")
	}
}

func TestRoomLocks_UnlockIsIdempotent(t *testing.T) {
	locks := NewRoomLocks()
	unlock := locks.Lock("room-1")
	unlock()
	unlock()

	require.Equal(t, 0, locks.Len())
	relock := locks.Lock("room-1")
	relock()
}
