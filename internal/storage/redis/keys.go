package redis

import (
	"fmt"

	"github.com/mcoot/bullscows/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "bullscows"

// roomKey returns the Redis key for a Room
func roomKey(id model.RoomID) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, id)
}

// roomIndexKey returns the Redis key for the SET of live room ids
func roomIndexKey() string {
	return fmt.Sprintf("%s:idx:rooms", keyPrefix)
}

// guestKey returns the Redis key for a Guest
func guestKey(id model.GuestID) string {
	return fmt.Sprintf("%s:guest:%s", keyPrefix, id)
}
