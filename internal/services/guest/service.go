package guest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/bullscows/internal/dependencies/clock"
	"github.com/mcoot/bullscows/internal/dependencies/random"
	"github.com/mcoot/bullscows/internal/model"
	"github.com/mcoot/bullscows/internal/storage"
)

// MaxDisplayNameLength caps guest display names
const MaxDisplayNameLength = 64

// Service registers lightweight guest identities. Guests carry no
// credentials; their id only tags a player's moves.
type Service struct {
	storage storage.GuestStore
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a new guest Service
func New(storage storage.GuestStore, clock clock.Clock, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger.With(slog.String("component", "guest")),
	}
}

// Register creates a guest with the given display name
func (s *Service) Register(ctx context.Context, displayName string) (*model.Guest, error) {
	name := model.NormalizeName(displayName)
	if name == "" {
		return nil, fmt.Errorf("%w: display name is required", model.ErrValidation)
	}
	if len(name) > MaxDisplayNameLength {
		return nil, fmt.Errorf("%w: display name is longer than %d characters", model.ErrValidation, MaxDisplayNameLength)
	}

	guest := &model.Guest{
		ID:          model.GuestID(s.random.UUID()),
		DisplayName: name,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.storage.SaveGuest(ctx, guest); err != nil {
		return nil, err
	}

	s.logger.Info("guest registered", slog.String("guest_id", string(guest.ID)))
	return guest, nil
}

// Get retrieves a guest by id
func (s *Service) Get(ctx context.Context, id model.GuestID) (*model.Guest, error) {
	return s.storage.GetGuest(ctx, id)
}

// Delete removes a guest. Deleting an unknown guest is not an error.
func (s *Service) Delete(ctx context.Context, id model.GuestID) error {
	return s.storage.DeleteGuest(ctx, id)
}

// ServiceInterface defines the interface for guest operations
type ServiceInterface interface {
	Register(ctx context.Context, displayName string) (*model.Guest, error)
	Get(ctx context.Context, id model.GuestID) (*model.Guest, error)
	Delete(ctx context.Context, id model.GuestID) error
}

// Ensure Service implements ServiceInterface
var _ ServiceInterface = (*Service)(nil)
