package model

import (
	"strings"
	"time"
)

// PlayerStatus tracks a player's progress through a match
type PlayerStatus string

const (
	PlayerStatusOngoing   PlayerStatus = "ongoing"
	PlayerStatusWon       PlayerStatus = "won"
	PlayerStatusCompleted PlayerStatus = "completed" // finished without winning (e.g. time ran out)
)

// Player is a participant inside a single room.
// Name is the identity key within the room and is always stored trimmed.
type Player struct {
	Name      string       `json:"name"`
	Username  string       `json:"username,omitempty"` // guest/user id that tags the player's moves
	Attempts  int          `json:"attempts"`
	TimeTaken int64        `json:"timeTaken"` // milliseconds
	Score     int          `json:"score"`
	Status    PlayerStatus `json:"gameStatus"`
	JoinedAt  time.Time    `json:"joinedAt"`
}

// NewPlayer creates a player with default match state
func NewPlayer(name, username string, joinedAt time.Time) Player {
	return Player{
		Name:     NormalizeName(name),
		Username: username,
		Status:   PlayerStatusOngoing,
		JoinedAt: joinedAt,
	}
}

// NormalizeName trims a player name into its identity form
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}
