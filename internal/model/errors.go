package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// ErrValidation covers malformed request shapes (e.g. expected players < 1)
	ErrValidation = errors.New("validation failed")
	// ErrInvalidInput covers malformed guesses and secrets
	ErrInvalidInput = errors.New("invalid input")

	ErrNotFound       = errors.New("not found")
	ErrRoomNotFound   = fmt.Errorf("room %w", ErrNotFound)
	ErrPlayerNotFound = fmt.Errorf("player %w", ErrNotFound)
	ErrGuestNotFound  = fmt.Errorf("guest %w", ErrNotFound)

	// Room errors
	ErrDuplicatePlayer = errors.New("player already in the room")
	ErrRoomFull        = errors.New("room is already full")
	ErrRoomExists      = errors.New("room already exists")

	// ErrVersionConflict means the room changed between load and save
	ErrVersionConflict = errors.New("room was modified concurrently")
)
