package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRoom() *Room {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return &Room{
		ID:              "room-1",
		Players:         []Player{NewPlayer(" Alice ", "u1", now), NewPlayer("Bob", "", now)},
		ExpectedPlayers: 3,
		OwnerID:         "u1",
		Secret:          "1234",
		Status:          RoomStatusWaiting,
	}
}

func TestRoom_GetPlayer(t *testing.T) {
	room := newTestRoom()

	p := room.GetPlayer("  Alice")
	require.NotNil(t, p)
	assert.Equal(t, "Alice", p.Name)
	assert.Equal(t, PlayerStatusOngoing, p.Status)

	p.Attempts = 3
	assert.Equal(t, 3, room.Players[0].Attempts, "GetPlayer should return a pointer into the room")

	assert.Nil(t, room.GetPlayer("Carol"))
}

func TestRoom_OwnerAndIsFull(t *testing.T) {
	room := newTestRoom()
	assert.Equal(t, "Alice", room.Owner().Name)
	assert.False(t, room.IsFull())

	room.Players = append(room.Players, NewPlayer("Carol", "", time.Time{}))
	assert.True(t, room.IsFull())

	empty := &Room{}
	assert.Nil(t, empty.Owner())
}

func TestRoom_CloneIsDeep(t *testing.T) {
	room := newTestRoom()
	room.Attempts = []GuessRecord{{PlayerName: "Alice", Guess: "1111", Bulls: 1}}

	c := room.Clone()
	c.Players[0].Score = 10
	c.Attempts[0].Bulls = 4
	c.Players = append(c.Players, NewPlayer("Carol", "", time.Time{}))

	assert.Equal(t, 0, room.Players[0].Score)
	assert.Equal(t, 1, room.Attempts[0].Bulls)
	assert.Len(t, room.Players, 2)
}

func TestRoom_SnapshotOmitsSecret(t *testing.T) {
	room := newTestRoom()
	snap := room.Snapshot()

	assert.Equal(t, room.ID, snap.ID)
	assert.Equal(t, "u1", snap.GameOwner)
	assert.Len(t, snap.Players, 2)
	assert.NotNil(t, snap.Attempts)

	state := room.State()
	assert.Equal(t, RoomStatusWaiting, state.Status)
	assert.Empty(t, state.Attempts)
}
