package room

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mcoot/bullscows/internal/broadcast"
	"github.com/mcoot/bullscows/internal/dependencies/clock"
	"github.com/mcoot/bullscows/internal/dependencies/random"
	"github.com/mcoot/bullscows/internal/metrics"
	"github.com/mcoot/bullscows/internal/model"
	"github.com/mcoot/bullscows/internal/storage"
	"github.com/mcoot/bullscows/internal/tracing"
)

const (
	// maxIDAttempts bounds regeneration when a room id collides
	maxIDAttempts = 5

	MatchReadyMessage = "All players have joined. The match can start."
)

// Config holds room lifecycle settings
type Config struct {
	// MaxUpdateRetries bounds re-applying a mutation after a version conflict
	MaxUpdateRetries int
}

// DefaultConfig returns sensible defaults for the room controller
func DefaultConfig() Config {
	return Config{
		MaxUpdateRetries: storage.DefaultMaxUpdateRetries,
	}
}

// Controller manages room creation, admission and removal
type Controller struct {
	storage storage.RoomStore
	locks   *storage.RoomLocks
	emitter *broadcast.Emitter
	clock   clock.Clock
	random  random.Random
	cfg     Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// NewController creates a new room Controller
func NewController(
	storage storage.RoomStore,
	locks *storage.RoomLocks,
	emitter *broadcast.Emitter,
	clock clock.Clock,
	random random.Random,
	cfg Config,
	logger *slog.Logger,
	m *metrics.Metrics,
	tracer trace.Tracer,
) *Controller {
	return &Controller{
		storage: storage,
		locks:   locks,
		emitter: emitter,
		clock:   clock,
		random:  random,
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "room")),
		metrics: m,
		tracer:  tracer,
	}
}

// CreateRoom creates a room with the owner as its only player and a fresh secret
func (c *Controller) CreateRoom(ctx context.Context, ownerName string, expectedPlayers int, ownerID string) (*model.Room, error) {
	ctx, span := c.tracer.Start(ctx, "room.CreateRoom")
	defer span.End()
	span.SetAttributes(attribute.Int("room.expected_players", expectedPlayers))

	name := model.NormalizeName(ownerName)
	if name == "" {
		return nil, fmt.Errorf("%w: player name is required", model.ErrValidation)
	}
	if expectedPlayers < 1 {
		return nil, fmt.Errorf("%w: expected players must be at least 1", model.ErrValidation)
	}

	now := c.clock.Now()
	status := model.RoomStatusWaiting
	if expectedPlayers == 1 {
		status = model.RoomStatusInProgress
	}

	room := &model.Room{
		Players:         []model.Player{model.NewPlayer(name, ownerID, now)},
		ExpectedPlayers: expectedPlayers,
		OwnerID:         ownerID,
		Secret:          c.generateSecret(),
		Status:          status,
		Attempts:        []model.GuessRecord{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// Generate unique room id
	var err error
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		room.ID = model.RoomID(c.random.UUID())
		err = c.storage.CreateRoom(ctx, room)
		if !errors.Is(err, model.ErrRoomExists) {
			break
		}
	}
	if err != nil {
		tracing.RecordError(span, err, "failed to create room")
		return nil, err
	}

	span.SetAttributes(attribute.String("room.id", string(room.ID)))
	c.metrics.RoomsCreated.Inc()
	c.metrics.ActiveRooms.Inc()
	c.logger.Info("room created",
		slog.String("room_id", string(room.ID)),
		slog.String("owner", name),
		slog.Int("expected_players", expectedPlayers))

	if room.IsFull() {
		c.emitter.Emit(ctx, room.ID, model.EventStartMatch, model.MessagePayload{Message: MatchReadyMessage})
	}

	return room, nil
}

// generateSecret draws each digit independently; repeats are allowed
func (c *Controller) generateSecret() string {
	var b strings.Builder
	for i := 0; i < model.SecretLength; i++ {
		b.WriteByte(byte('0' + c.random.Intn(10)))
	}
	return b.String()
}

// JoinRoom admits a player to a room. Checks run in order: room exists,
// name not taken, room not full.
func (c *Controller) JoinRoom(ctx context.Context, roomID model.RoomID, playerName, playerID string) (*model.Room, error) {
	ctx, span := c.tracer.Start(ctx, "room.JoinRoom")
	defer span.End()
	span.SetAttributes(attribute.String("room.id", string(roomID)))

	name := model.NormalizeName(playerName)
	if name == "" {
		c.metrics.Joins.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: player name is required", model.ErrValidation)
	}

	unlock := c.locks.Lock(roomID)
	defer unlock()

	var joined model.Player
	room, err := c.UpdateLocked(ctx, roomID, func(r *model.Room) error {
		if r.GetPlayer(name) != nil {
			return model.ErrDuplicatePlayer
		}
		if r.IsFull() {
			return model.ErrRoomFull
		}

		joined = model.NewPlayer(name, playerID, c.clock.Now())
		r.Players = append(r.Players, joined)
		if r.IsFull() && r.Status == model.RoomStatusWaiting {
			r.Status = model.RoomStatusInProgress
		}
		return nil
	})
	if err != nil {
		c.metrics.Joins.WithLabelValues(joinOutcome(err)).Inc()
		tracing.RecordError(span, err, "failed to join room")
		return nil, err
	}

	c.metrics.Joins.WithLabelValues("ok").Inc()
	c.logger.Info("player joined",
		slog.String("room_id", string(roomID)),
		slog.String("player", name),
		slog.Int("player_count", len(room.Players)),
		slog.Int("expected_players", room.ExpectedPlayers))

	c.emitter.Emit(ctx, roomID, model.EventPlayerJoined, model.PlayerJoinedPayload{
		Player:          joined,
		PlayerCount:     len(room.Players),
		ExpectedPlayers: room.ExpectedPlayers,
	})
	c.emitter.Emit(ctx, roomID, model.EventRoomStateUpdate, room.State())
	if len(room.Players) == room.ExpectedPlayers {
		c.emitter.Emit(ctx, roomID, model.EventStartMatch, model.MessagePayload{Message: MatchReadyMessage})
	} else {
		c.emitter.Emit(ctx, roomID, model.EventWaitingPlayers, model.MessagePayload{
			Message: waitingMessage(room.ExpectedPlayers - len(room.Players)),
		})
	}

	return room, nil
}

func waitingMessage(missing int) string {
	if missing == 1 {
		return "Waiting for 1 more player to join."
	}
	return fmt.Sprintf("Waiting for %d more players to join.", missing)
}

func joinOutcome(err error) string {
	switch {
	case errors.Is(err, model.ErrRoomFull):
		return "room_full"
	case errors.Is(err, model.ErrDuplicatePlayer):
		return "duplicate"
	case errors.Is(err, model.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

// DeleteRoom removes a room. Deleting an absent room is not an error.
func (c *Controller) DeleteRoom(ctx context.Context, roomID model.RoomID) error {
	ctx, span := c.tracer.Start(ctx, "room.DeleteRoom")
	defer span.End()
	span.SetAttributes(attribute.String("room.id", string(roomID)))

	unlock := c.locks.Lock(roomID)
	defer unlock()

	return c.RemoveLocked(ctx, roomID)
}

// GetRoom retrieves a room by id
func (c *Controller) GetRoom(ctx context.Context, roomID model.RoomID) (*model.Room, error) {
	return c.storage.GetRoom(ctx, roomID)
}

// ListRooms returns every live room
func (c *Controller) ListRooms(ctx context.Context) ([]*model.Room, error) {
	return c.storage.ListRooms(ctx)
}

// Leaderboard returns the room's players by score, highest first. Ties keep join order.
func (c *Controller) Leaderboard(ctx context.Context, roomID model.RoomID) ([]model.Player, error) {
	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	players := append([]model.Player(nil), room.Players...)
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Score > players[j].Score
	})
	return players, nil
}

// Lock acquires the room's mutation lock. Callers must hold it for UpdateLocked and RemoveLocked.
func (c *Controller) Lock(roomID model.RoomID) (unlock func()) {
	return c.locks.Lock(roomID)
}

// UpdateLocked applies fn to the stored room and persists it, retrying on version conflicts
func (c *Controller) UpdateLocked(ctx context.Context, roomID model.RoomID, fn func(r *model.Room) error) (*model.Room, error) {
	applied := 0
	room, err := storage.UpdateRoom(ctx, c.storage, roomID, c.cfg.MaxUpdateRetries, func(r *model.Room) error {
		applied++
		if err := fn(r); err != nil {
			return err
		}
		r.UpdatedAt = c.clock.Now()
		return nil
	})
	if applied > 1 {
		c.metrics.UpdateConflicts.Add(float64(applied - 1))
		c.logger.Warn("room update retried after version conflict",
			slog.String("room_id", string(roomID)),
			slog.Int("attempts", applied))
	}
	return room, err
}

// RemoveLocked deletes the room and closes its broadcast channel once queued events drain
func (c *Controller) RemoveLocked(ctx context.Context, roomID model.RoomID) error {
	if _, err := c.storage.GetRoom(ctx, roomID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil
		}
		return err
	}

	if err := c.storage.DeleteRoom(ctx, roomID); err != nil {
		return err
	}

	c.metrics.ActiveRooms.Dec()
	c.emitter.CloseRoom(ctx, roomID)
	c.logger.Info("room deleted", slog.String("room_id", string(roomID)))
	return nil
}

// ControllerInterface defines the interface for room operations
type ControllerInterface interface {
	CreateRoom(ctx context.Context, ownerName string, expectedPlayers int, ownerID string) (*model.Room, error)
	JoinRoom(ctx context.Context, roomID model.RoomID, playerName, playerID string) (*model.Room, error)
	DeleteRoom(ctx context.Context, roomID model.RoomID) error
	GetRoom(ctx context.Context, roomID model.RoomID) (*model.Room, error)
	ListRooms(ctx context.Context) ([]*model.Room, error)
	Leaderboard(ctx context.Context, roomID model.RoomID) ([]model.Player, error)
}

// Ensure Controller implements ControllerInterface
var _ ControllerInterface = (*Controller)(nil)
