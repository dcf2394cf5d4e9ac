package match

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mcoot/bullscows/internal/broadcast"
	"github.com/mcoot/bullscows/internal/dependencies/clock"
	"github.com/mcoot/bullscows/internal/metrics"
	"github.com/mcoot/bullscows/internal/model"
	"github.com/mcoot/bullscows/internal/services/room"
	"github.com/mcoot/bullscows/internal/services/scoring"
	"github.com/mcoot/bullscows/internal/tracing"
)

// GuessOutcome is the scored result of a submitted guess
type GuessOutcome struct {
	RoomID     model.RoomID
	PlayerName string
	Guess      string
	Bulls      int
	Cows       int
	Result     string
	Attempts   int
	Won        bool
}

// Controller runs the match state machine: guesses, attempts, completion and scores
type Controller struct {
	rooms   *room.Controller
	scoring *scoring.Service
	emitter *broadcast.Emitter
	clock   clock.Clock
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// NewController creates a new match Controller
func NewController(
	rooms *room.Controller,
	scoringService *scoring.Service,
	emitter *broadcast.Emitter,
	clock clock.Clock,
	logger *slog.Logger,
	m *metrics.Metrics,
	tracer trace.Tracer,
) *Controller {
	return &Controller{
		rooms:   rooms,
		scoring: scoringService,
		emitter: emitter,
		clock:   clock,
		logger:  logger.With(slog.String("component", "match")),
		metrics: m,
		tracer:  tracer,
	}
}

// activePlayer returns the named player of a room that is still being played
func activePlayer(r *model.Room, playerName string) (*model.Player, error) {
	// A finished room is about to be deleted; treat it as already gone
	if r.Status == model.RoomStatusFinished {
		return nil, model.ErrRoomNotFound
	}
	p := r.GetPlayer(playerName)
	if p == nil {
		return nil, fmt.Errorf("%w: %q", model.ErrPlayerNotFound, model.NormalizeName(playerName))
	}
	return p, nil
}

// SubmitGuess scores a guess and broadcasts the result. A guess with four
// bulls ends the match: the win is saved together with the guess, gameOver is
// broadcast and the room is deleted.
func (c *Controller) SubmitGuess(ctx context.Context, roomID model.RoomID, playerName, guess string) (*GuessOutcome, error) {
	ctx, span := c.tracer.Start(ctx, "match.SubmitGuess")
	defer span.End()
	span.SetAttributes(attribute.String("room.id", string(roomID)))

	if err := c.scoring.ValidateCode(guess); err != nil {
		c.metrics.Guesses.WithLabelValues("invalid").Inc()
		return nil, err
	}

	unlock := c.rooms.Lock(roomID)
	defer unlock()

	outcome := &GuessOutcome{RoomID: roomID, Guess: guess}
	// scored is the room state after the guess, before a win finishes it
	var scored model.RoomStatePayload
	r, err := c.rooms.UpdateLocked(ctx, roomID, func(r *model.Room) error {
		p, err := activePlayer(r, playerName)
		if err != nil {
			return err
		}

		result, err := c.scoring.Score(guess, r.Secret)
		if err != nil {
			return err
		}

		p.Attempts++
		r.Attempts = append(r.Attempts, model.GuessRecord{
			PlayerName: p.Name,
			Guess:      guess,
			Bulls:      result.Bulls,
			Cows:       result.Cows,
			At:         c.clock.Now(),
		})

		outcome.PlayerName = p.Name
		outcome.Bulls = result.Bulls
		outcome.Cows = result.Cows
		outcome.Result = scoring.ResultMessage(result)
		outcome.Attempts = p.Attempts
		outcome.Won = result.IsWin()

		scored = r.State()
		if outcome.Won {
			// The win is part of this save; a concurrent winner re-reads a finished room
			p.Status = model.PlayerStatusWon
			r.Status = model.RoomStatusFinished
		}
		return nil
	})
	if err != nil {
		c.metrics.Guesses.WithLabelValues("rejected").Inc()
		tracing.RecordError(span, err, "failed to submit guess")
		return nil, err
	}

	c.emitter.Emit(ctx, roomID, model.EventGuessResult, model.GuessResultPayload{
		PlayerName: outcome.PlayerName,
		Cows:       outcome.Cows,
		Bulls:      outcome.Bulls,
		Result:     outcome.Result,
	})
	c.emitter.Emit(ctx, roomID, model.EventRoomStateUpdate, scored)

	if !outcome.Won {
		c.metrics.Guesses.WithLabelValues("scored").Inc()
		return outcome, nil
	}

	c.metrics.Guesses.WithLabelValues("won").Inc()
	c.finish(ctx, r, outcome)
	return outcome, nil
}

// finish announces a saved win and deletes the room. The room lock must be held.
func (c *Controller) finish(ctx context.Context, r *model.Room, outcome *GuessOutcome) {
	c.emitter.Emit(ctx, r.ID, model.EventRoomStateUpdate, r.State())
	c.emitter.Emit(ctx, r.ID, model.EventGameOver, model.GameWonPayload{
		Winner: outcome.PlayerName,
		Score:  outcome.Bulls,
	})

	c.metrics.GamesWon.Inc()
	c.logger.Info("match won",
		slog.String("room_id", string(r.ID)),
		slog.String("winner", outcome.PlayerName),
		slog.Int("attempts", outcome.Attempts))

	// A finished room already rejects every operation
	if err := c.rooms.RemoveLocked(ctx, r.ID); err != nil {
		c.logger.Error("failed to delete finished room",
			slog.String("room_id", string(r.ID)),
			slog.String("error", err.Error()))
	}
}

// RecordAttempt counts an attempt for a player without scoring a guess
func (c *Controller) RecordAttempt(ctx context.Context, roomID model.RoomID, playerName string) error {
	ctx, span := c.tracer.Start(ctx, "match.RecordAttempt")
	defer span.End()
	span.SetAttributes(attribute.String("room.id", string(roomID)))

	unlock := c.rooms.Lock(roomID)
	defer unlock()

	r, err := c.rooms.UpdateLocked(ctx, roomID, func(r *model.Room) error {
		p, err := activePlayer(r, playerName)
		if err != nil {
			return err
		}
		p.Attempts++
		return nil
	})
	if err != nil {
		tracing.RecordError(span, err, "failed to record attempt")
		return err
	}

	c.emitter.Emit(ctx, roomID, model.EventRoomStateUpdate, r.State())
	return nil
}

// CompleteGame marks a player as done without winning (e.g. the timer ran out).
// The room stays alive for the remaining players.
func (c *Controller) CompleteGame(ctx context.Context, roomID model.RoomID, playerName string, timeTaken int64) error {
	ctx, span := c.tracer.Start(ctx, "match.CompleteGame")
	defer span.End()
	span.SetAttributes(attribute.String("room.id", string(roomID)))

	if timeTaken < 0 {
		return fmt.Errorf("%w: time taken must not be negative", model.ErrValidation)
	}

	unlock := c.rooms.Lock(roomID)
	defer unlock()

	var completedBy string
	r, err := c.rooms.UpdateLocked(ctx, roomID, func(r *model.Room) error {
		p, err := activePlayer(r, playerName)
		if err != nil {
			return err
		}
		p.Status = model.PlayerStatusCompleted
		p.TimeTaken = timeTaken
		completedBy = p.Name
		return nil
	})
	if err != nil {
		tracing.RecordError(span, err, "failed to complete game")
		return err
	}

	c.metrics.GamesCompleted.Inc()
	c.logger.Info("player completed game",
		slog.String("room_id", string(roomID)),
		slog.String("player", completedBy),
		slog.Int64("time_taken_ms", timeTaken))

	c.emitter.Emit(ctx, roomID, model.EventGameOver, model.GameCompletedPayload{
		Room:        r.Snapshot(),
		CompletedBy: completedBy,
	})
	return nil
}

// UpdateScore assigns a player's score
func (c *Controller) UpdateScore(ctx context.Context, roomID model.RoomID, playerName string, score int) error {
	ctx, span := c.tracer.Start(ctx, "match.UpdateScore")
	defer span.End()
	span.SetAttributes(attribute.String("room.id", string(roomID)))

	unlock := c.rooms.Lock(roomID)
	defer unlock()

	var name string
	_, err := c.rooms.UpdateLocked(ctx, roomID, func(r *model.Room) error {
		p, err := activePlayer(r, playerName)
		if err != nil {
			return err
		}
		p.Score = score
		name = p.Name
		return nil
	})
	if err != nil {
		tracing.RecordError(span, err, "failed to update score")
		return err
	}

	c.emitter.Emit(ctx, roomID, model.EventScoreUpdated, model.ScoreUpdatedPayload{
		PlayerName: name,
		Score:      score,
	})
	return nil
}

// ControllerInterface defines the interface for match operations
type ControllerInterface interface {
	SubmitGuess(ctx context.Context, roomID model.RoomID, playerName, guess string) (*GuessOutcome, error)
	RecordAttempt(ctx context.Context, roomID model.RoomID, playerName string) error
	CompleteGame(ctx context.Context, roomID model.RoomID, playerName string, timeTaken int64) error
	UpdateScore(ctx context.Context, roomID model.RoomID, playerName string, score int) error
}

// Ensure Controller implements ControllerInterface
var _ ControllerInterface = (*Controller)(nil)
