package handler

import (
	"net/http"

	"github.com/mcoot/bullscows/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest  = apierr.CodeInvalidRequest
	CodeInvalidGuess    = apierr.CodeInvalidGuess
	CodeRoomNotFound    = apierr.CodeRoomNotFound
	CodePlayerNotFound  = apierr.CodePlayerNotFound
	CodeGuestNotFound   = apierr.CodeGuestNotFound
	CodeDuplicatePlayer = apierr.CodeDuplicatePlayer
	CodeRoomFull        = apierr.CodeRoomFull
	CodeConflict        = apierr.CodeConflict
	CodeGameEnded       = apierr.CodeGameEnded
	CodeInternalError   = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// WriteMatchError writes an error response for a match operation
func WriteMatchError(w http.ResponseWriter, err error) {
	apierr.WriteMatchError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return apierr.NewInternalError()
}
