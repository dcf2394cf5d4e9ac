package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/bullscows/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeInvalidGuess    = "INVALID_GUESS"
	CodeRoomNotFound    = "ROOM_NOT_FOUND"
	CodePlayerNotFound  = "PLAYER_NOT_FOUND"
	CodeGuestNotFound   = "GUEST_NOT_FOUND"
	CodeDuplicatePlayer = "DUPLICATE_PLAYER"
	CodeRoomFull        = "ROOM_FULL"
	CodeConflict        = "CONFLICT"
	CodeGameEnded       = "GAME_ENDED"
	CodeInternalError   = "INTERNAL_ERROR"
)

// GameEndedMessage is reported when a match operation targets a room that no longer exists
const GameEndedMessage = "game already ended"

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	status, apiErr := Resolve(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: apiErr})
}

// WriteMatchError is WriteError for match operations (see ResolveMatch)
func WriteMatchError(w http.ResponseWriter, err error) {
	status, apiErr := ResolveMatch(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: apiErr})
}

// Resolve maps an error to its HTTP status and client-facing body
func Resolve(err error) (int, APIError) {
	he := toHTTPError(err)
	return he.status, he.apiError
}

// ResolveMatch is Resolve for match operations, where a missing room means
// the game has already been won
func ResolveMatch(err error) (int, APIError) {
	if errors.Is(err, model.ErrRoomNotFound) {
		return http.StatusGone, APIError{CodeGameEnded, GameEndedMessage}
	}
	return Resolve(err)
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrRoomNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRoomNotFound, "Room not found"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrGuestNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGuestNotFound, "Guest not found"}}
	case errors.Is(err, model.ErrDuplicatePlayer):
		return &httpError{http.StatusConflict, APIError{CodeDuplicatePlayer, "Player name already taken in this room"}}
	case errors.Is(err, model.ErrRoomFull):
		return &httpError{http.StatusConflict, APIError{CodeRoomFull, "Room is full"}}
	case errors.Is(err, model.ErrVersionConflict):
		return &httpError{http.StatusConflict, APIError{CodeConflict, "Room was modified concurrently, try again"}}
	case errors.Is(err, model.ErrInvalidInput):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidGuess, err.Error()}}
	case errors.Is(err, model.ErrValidation):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, err.Error()}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
