package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/bullscows/internal/api/request"
	"github.com/mcoot/bullscows/internal/api/response"
	"github.com/mcoot/bullscows/internal/model"
	"github.com/mcoot/bullscows/internal/services/match"
)

// MatchHandler handles in-match endpoints. A missing room is reported as
// GAME_ENDED since rooms are deleted once won.
type MatchHandler struct {
	matchController match.ControllerInterface
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(matchController match.ControllerInterface) *MatchHandler {
	return &MatchHandler{
		matchController: matchController,
	}
}

// Guess handles POST /api/v1/rooms/{id}/guesses
func (h *MatchHandler) Guess(w http.ResponseWriter, r *http.Request) {
	id := model.RoomID(mux.Vars(r)["id"])

	var req request.GuessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	outcome, err := h.matchController.SubmitGuess(r.Context(), id, req.PlayerName, req.Guess)
	if err != nil {
		WriteMatchError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GuessResultFromOutcome(outcome))
}

// Attempt handles POST /api/v1/rooms/{id}/attempts
func (h *MatchHandler) Attempt(w http.ResponseWriter, r *http.Request) {
	id := model.RoomID(mux.Vars(r)["id"])

	var req request.AttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.matchController.RecordAttempt(r.Context(), id, req.PlayerName); err != nil {
		WriteMatchError(w, err)
		return
	}

	response.NoContent(w)
}

// Complete handles POST /api/v1/rooms/{id}/complete
func (h *MatchHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id := model.RoomID(mux.Vars(r)["id"])

	var req request.CompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.matchController.CompleteGame(r.Context(), id, req.PlayerName, req.TimeTaken); err != nil {
		WriteMatchError(w, err)
		return
	}

	response.NoContent(w)
}

// UpdateScore handles PUT /api/v1/rooms/{id}/players/{name}/score
func (h *MatchHandler) UpdateScore(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := model.RoomID(vars["id"])

	var req request.UpdateScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Score == nil {
		WriteError(w, NewInvalidRequestError("score is required"))
		return
	}

	if err := h.matchController.UpdateScore(r.Context(), id, vars["name"], *req.Score); err != nil {
		WriteMatchError(w, err)
		return
	}

	response.NoContent(w)
}
