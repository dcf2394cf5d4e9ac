// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"
	"fmt"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/bullscows/internal/model"
	"github.com/mcoot/bullscows/internal/storage"
)

// StoreSuite runs the storage contract against the backend returned by NewStore.
// Backends embed it and set NewStore in their own SetupTest.
type StoreSuite struct {
	suite.Suite
	Store storage.Storage
	Ctx   context.Context
}

// NewRoom builds a room fixture with the owner as the only player
func NewRoom(id model.RoomID, createdAt time.Time) *model.Room {
	return &model.Room{
		ID:              id,
		Players:         []model.Player{model.NewPlayer("Alice", "u1", createdAt)},
		ExpectedPlayers: 2,
		OwnerID:         "u1",
		Secret:          "1234",
		Status:          model.RoomStatusWaiting,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}
}

func (s *StoreSuite) now() time.Time {
	return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func (s *StoreSuite) TestCreateAndGetRoom() {
	room := NewRoom("room-1", s.now())
	s.Require().NoError(s.Store.CreateRoom(s.Ctx, room))
	s.Equal(int64(1), room.Version)

	got, err := s.Store.GetRoom(s.Ctx, "room-1")
	s.Require().NoError(err)
	s.Equal(room.ID, got.ID)
	s.Equal("1234", got.Secret)
	s.Equal(2, got.ExpectedPlayers)
	s.Equal(model.RoomStatusWaiting, got.Status)
	s.Equal(int64(1), got.Version)
	s.Require().Len(got.Players, 1)
	s.Equal("Alice", got.Players[0].Name)
	s.Equal("u1", got.Players[0].Username)
	s.Equal(model.PlayerStatusOngoing, got.Players[0].Status)
	s.True(room.CreatedAt.Equal(got.CreatedAt))
}

func (s *StoreSuite) TestCreateRoomDuplicateID() {
	s.Require().NoError(s.Store.CreateRoom(s.Ctx, NewRoom("room-1", s.now())))
	err := s.Store.CreateRoom(s.Ctx, NewRoom("room-1", s.now()))
	s.ErrorIs(err, model.ErrRoomExists)
}

func (s *StoreSuite) TestGetRoomNotFound() {
	_, err := s.Store.GetRoom(s.Ctx, "nonexistent")
	s.ErrorIs(err, model.ErrRoomNotFound)
	s.ErrorIs(err, model.ErrNotFound)
}

func (s *StoreSuite) TestSaveRoomBumpsVersion() {
	room := NewRoom("room-1", s.now())
	s.Require().NoError(s.Store.CreateRoom(s.Ctx, room))

	loaded, err := s.Store.GetRoom(s.Ctx, "room-1")
	s.Require().NoError(err)
	loaded.Players = append(loaded.Players, model.NewPlayer("Bob", "", s.now()))
	loaded.Attempts = append(loaded.Attempts, model.GuessRecord{PlayerName: "Bob", Guess: "1243", Bulls: 2, Cows: 2, At: s.now()})
	loaded.Status = model.RoomStatusInProgress
	s.Require().NoError(s.Store.SaveRoom(s.Ctx, loaded))
	s.Equal(int64(2), loaded.Version)

	got, err := s.Store.GetRoom(s.Ctx, "room-1")
	s.Require().NoError(err)
	s.Equal(int64(2), got.Version)
	s.Len(got.Players, 2)
	s.Equal(model.RoomStatusInProgress, got.Status)
	s.Require().Len(got.Attempts, 1)
	s.Equal("1243", got.Attempts[0].Guess)
}

func (s *StoreSuite) TestSaveRoomStaleVersionConflicts() {
	s.Require().NoError(s.Store.CreateRoom(s.Ctx, NewRoom("room-1", s.now())))

	first, err := s.Store.GetRoom(s.Ctx, "room-1")
	s.Require().NoError(err)
	second, err := s.Store.GetRoom(s.Ctx, "room-1")
	s.Require().NoError(err)

	first.Players = append(first.Players, model.NewPlayer("Bob", "", s.now()))
	s.Require().NoError(s.Store.SaveRoom(s.Ctx, first))

	second.Players = append(second.Players, model.NewPlayer("Carol", "", s.now()))
	err = s.Store.SaveRoom(s.Ctx, second)
	s.ErrorIs(err, model.ErrVersionConflict)
	s.Equal(int64(1), second.Version, "failed save must not bump the caller's version")

	got, err := s.Store.GetRoom(s.Ctx, "room-1")
	s.Require().NoError(err)
	s.Require().Len(got.Players, 2)
	s.Equal("Bob", got.Players[1].Name)
}

func (s *StoreSuite) TestSaveRoomMissing() {
	room := NewRoom("ghost", s.now())
	room.Version = 1
	err := s.Store.SaveRoom(s.Ctx, room)
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StoreSuite) TestReturnedRoomIsDetached() {
	s.Require().NoError(s.Store.CreateRoom(s.Ctx, NewRoom("room-1", s.now())))

	got, err := s.Store.GetRoom(s.Ctx, "room-1")
	s.Require().NoError(err)
	got.Players[0].Score = 99

	again, err := s.Store.GetRoom(s.Ctx, "room-1")
	s.Require().NoError(err)
	s.Equal(0, again.Players[0].Score)
}

func (s *StoreSuite) TestDeleteRoomIsIdempotent() {
	s.Require().NoError(s.Store.CreateRoom(s.Ctx, NewRoom("room-1", s.now())))

	s.Require().NoError(s.Store.DeleteRoom(s.Ctx, "room-1"))
	s.Require().NoError(s.Store.DeleteRoom(s.Ctx, "room-1"))
	s.Require().NoError(s.Store.DeleteRoom(s.Ctx, "never-existed"))

	_, err := s.Store.GetRoom(s.Ctx, "room-1")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StoreSuite) TestListRoomsOrderedByCreation() {
	base := s.now()
	for i := 3; i >= 1; i-- {
		id := model.RoomID(fmt.Sprintf("room-%d", i))
		s.Require().NoError(s.Store.CreateRoom(s.Ctx, NewRoom(id, base.Add(time.Duration(i)*time.Minute))))
	}

	rooms, err := s.Store.ListRooms(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(rooms, 3)
	s.Equal(model.RoomID("room-1"), rooms[0].ID)
	s.Equal(model.RoomID("room-2"), rooms[1].ID)
	s.Equal(model.RoomID("room-3"), rooms[2].ID)

	s.Require().NoError(s.Store.DeleteRoom(s.Ctx, "room-2"))
	rooms, err = s.Store.ListRooms(s.Ctx)
	s.Require().NoError(err)
	s.Len(rooms, 2)
}

func (s *StoreSuite) TestListRoomsEmpty() {
	rooms, err := s.Store.ListRooms(s.Ctx)
	s.Require().NoError(err)
	s.Empty(rooms)
}

func (s *StoreSuite) TestUpdateRoomRetriesOnConflict() {
	s.Require().NoError(s.Store.CreateRoom(s.Ctx, NewRoom("room-1", s.now())))

	calls := 0
	room, err := storage.UpdateRoom(s.Ctx, s.Store, "room-1", 3, func(r *model.Room) error {
		calls++
		if calls == 1 {
			// Another writer sneaks in between our load and save
			other, err := s.Store.GetRoom(s.Ctx, "room-1")
			s.Require().NoError(err)
			other.Players[0].Score = 5
			s.Require().NoError(s.Store.SaveRoom(s.Ctx, other))
		}
		r.Players[0].Attempts++
		return nil
	})
	s.Require().NoError(err)
	s.Equal(2, calls)
	s.Equal(int64(3), room.Version)

	got, err := s.Store.GetRoom(s.Ctx, "room-1")
	s.Require().NoError(err)
	s.Equal(5, got.Players[0].Score)
	s.Equal(1, got.Players[0].Attempts)
}

func (s *StoreSuite) TestGuestLifecycle() {
	guest := &model.Guest{ID: "guest-1", DisplayName: "Alice", CreatedAt: s.now()}
	s.Require().NoError(s.Store.SaveGuest(s.Ctx, guest))

	got, err := s.Store.GetGuest(s.Ctx, "guest-1")
	s.Require().NoError(err)
	s.Equal("Alice", got.DisplayName)
	s.True(guest.CreatedAt.Equal(got.CreatedAt))

	s.Require().NoError(s.Store.DeleteGuest(s.Ctx, "guest-1"))
	s.Require().NoError(s.Store.DeleteGuest(s.Ctx, "guest-1"))

	_, err = s.Store.GetGuest(s.Ctx, "guest-1")
	s.ErrorIs(err, model.ErrGuestNotFound)
}
