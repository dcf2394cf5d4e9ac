package guest

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/bullscows/internal/dependencies/mocks"
	"github.com/mcoot/bullscows/internal/model"
	"github.com/mcoot/bullscows/internal/storage/memory"
	"github.com/mcoot/bullscows/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.service = New(s.storage, s.clock, s.random, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestRegisterSucceeds() {
	s.random.QueueUUID("guest-1")

	guest, err := s.service.Register(s.ctx, "  Alice ")
	s.Require().NoError(err)

	s.Equal(model.GuestID("guest-1"), guest.ID)
	s.Equal("Alice", guest.DisplayName)
	s.Equal(s.clock.Now(), guest.CreatedAt)

	stored, err := s.storage.GetGuest(s.ctx, "guest-1")
	s.Require().NoError(err)
	s.Equal("Alice", stored.DisplayName)
}

func (s *ServiceSuite) TestRegisterValidation() {
	_, err := s.service.Register(s.ctx, "   ")
	s.ErrorIs(err, model.ErrValidation)

	_, err = s.service.Register(s.ctx, strings.Repeat("x", MaxDisplayNameLength+1))
	s.ErrorIs(err, model.ErrValidation)
}

func (s *ServiceSuite) TestRegisterIssuesDistinctIDs() {
	a, err := s.service.Register(s.ctx, "Alice")
	s.Require().NoError(err)
	b, err := s.service.Register(s.ctx, "Alice")
	s.Require().NoError(err)
	s.NotEqual(a.ID, b.ID)
}

func (s *ServiceSuite) TestGetAndDelete() {
	guest, err := s.service.Register(s.ctx, "Alice")
	s.Require().NoError(err)

	got, err := s.service.Get(s.ctx, guest.ID)
	s.Require().NoError(err)
	s.Equal(guest.DisplayName, got.DisplayName)

	s.Require().NoError(s.service.Delete(s.ctx, guest.ID))
	s.Require().NoError(s.service.Delete(s.ctx, guest.ID))

	_, err = s.service.Get(s.ctx, guest.ID)
	s.ErrorIs(err, model.ErrGuestNotFound)
}
