package mongo

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/bullscows/internal/model"
	"github.com/mcoot/bullscows/internal/storage/storagetest"
)

// Set BULLSCOWS_TEST_MONGO_URI (e.g. mongodb://localhost:27017) to run against a live server
const testURIEnv = "BULLSCOWS_TEST_MONGO_URI"

type StorageSuite struct {
	storagetest.StoreSuite
	storage *Storage
}

func TestStorageSuite(t *testing.T) {
	if os.Getenv(testURIEnv) == "" {
		t.Skipf("%s not set", testURIEnv)
	}
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.Ctx = context.Background()

	cfg := DefaultConfig()
	cfg.URI = os.Getenv(testURIEnv)
	cfg.Database = fmt.Sprintf("bullscows_test_%d", time.Now().UnixNano())
	cfg.ConnectionTimeout = 5 * time.Second

	store, err := New(s.Ctx, cfg)
	s.Require().NoError(err)
	s.storage = store
	s.Store = store
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.db.Drop(s.Ctx)
		_ = s.storage.Close()
	}
}

func TestRoomDocumentRoundTrip(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	room := storagetest.NewRoom("room-1", now)
	room.Players[0].Score = 7
	room.Players[0].TimeTaken = 1500
	room.Attempts = []model.GuessRecord{{PlayerName: "Alice", Guess: "1243", Bulls: 2, Cows: 2, At: now}}
	room.Version = 4

	doc := toRoomDocument(room)
	assert.Equal(t, "room-1", doc.ID)
	assert.Equal(t, "waiting", doc.Status)
	assert.Equal(t, "ongoing", doc.Players[0].Status)

	back := doc.toModel()
	assert.Equal(t, room, back)
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(context.Background(), Config{Database: "x"})
	assert.Error(t, err)

	_, err = New(context.Background(), Config{URI: "mongodb://localhost:27017"})
	assert.Error(t, err)
}
