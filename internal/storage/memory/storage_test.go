package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/bullscows/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.StoreSuite
	storage *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.Store = s.storage
	s.Ctx = context.Background()
}

func (s *StorageSuite) TestLen() {
	s.Equal(0, s.storage.Len())
	s.Require().NoError(s.storage.CreateRoom(s.Ctx, storagetest.NewRoom("room-1", time.Now())))
	s.Equal(1, s.storage.Len())
	s.Require().NoError(s.storage.DeleteRoom(s.Ctx, "room-1"))
	s.Equal(0, s.storage.Len())
}

func (s *StorageSuite) TestCreateRoomCopiesInput() {
	room := storagetest.NewRoom("room-1", time.Now())
	s.Require().NoError(s.storage.CreateRoom(s.Ctx, room))

	room.Players[0].Name = "Mallory"

	got, err := s.storage.GetRoom(s.Ctx, "room-1")
	s.Require().NoError(err)
	s.Equal("Alice", got.Players[0].Name)
}
