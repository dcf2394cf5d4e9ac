package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/mcoot/bullscows/internal/model"
)

// DefaultMaxUpdateRetries bounds UpdateRoom when the caller passes a non-positive limit
const DefaultMaxUpdateRetries = 3

// UpdateRoom loads a room, applies fn and saves it. On a version conflict the
// room is re-fetched and fn re-applied, up to maxRetries additional times.
// An error returned by fn aborts the update and is returned unchanged.
func UpdateRoom(ctx context.Context, store RoomStore, id model.RoomID, maxRetries int, fn func(room *model.Room) error) (*model.Room, error) {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxUpdateRetries
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		room, err := store.GetRoom(ctx, id)
		if err != nil {
			return nil, err
		}

		if err := fn(room); err != nil {
			return nil, err
		}

		err = store.SaveRoom(ctx, room)
		if err == nil {
			return room, nil
		}
		if !errors.Is(err, model.ErrVersionConflict) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("room %s: giving up after %d retries: %w", id, maxRetries, lastErr)
}
