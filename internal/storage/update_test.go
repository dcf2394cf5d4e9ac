package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/bullscows/internal/model"
	"github.com/mcoot/bullscows/internal/storage"
	"github.com/mcoot/bullscows/internal/storage/memory"
	"github.com/mcoot/bullscows/internal/storage/storagetest"
)

// conflictingStore always reports a version conflict on save
type conflictingStore struct {
	*memory.Storage
	saves int
}

func (c *conflictingStore) SaveRoom(ctx context.Context, room *model.Room) error {
	c.saves++
	return model.ErrVersionConflict
}

func TestUpdateRoom_GivesUpAfterMaxRetries(t *testing.T) {
	ctx := context.Background()
	store := &conflictingStore{Storage: memory.New()}
	require.NoError(t, store.CreateRoom(ctx, storagetest.NewRoom("room-1", time.Now())))

	_, err := storage.UpdateRoom(ctx, store, "room-1", 2, func(*model.Room) error { return nil })
	assert.ErrorIs(t, err, model.ErrVersionConflict)
	assert.Equal(t, 3, store.saves)
}

func TestUpdateRoom_MutationErrorAborts(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.CreateRoom(ctx, storagetest.NewRoom("room-1", time.Now())))

	boom := errors.New("boom")
	_, err := storage.UpdateRoom(ctx, store, "room-1", 3, func(r *model.Room) error {
		r.Players[0].Score = 10
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := store.GetRoom(ctx, "room-1")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Players[0].Score)
	assert.Equal(t, int64(1), got.Version)
}

func TestUpdateRoom_MissingRoom(t *testing.T) {
	_, err := storage.UpdateRoom(context.Background(), memory.New(), "nope", 3, func(*model.Room) error { return nil })
	assert.ErrorIs(t, err, model.ErrRoomNotFound)
}

func TestUpdateRoom_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := storage.UpdateRoom(ctx, memory.New(), "room-1", 3, func(*model.Room) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
