package model

import "time"

// GuestID identifies a guest user
type GuestID string

// Guest is a lightweight identity record used only to tag a player's moves.
// It carries no credentials.
type Guest struct {
	ID          GuestID
	DisplayName string
	CreatedAt   time.Time
}
