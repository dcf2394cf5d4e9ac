package model

import "time"

// RoomID uniquely identifies a room
type RoomID string

// RoomStatus represents the current phase of a room
type RoomStatus string

const (
	RoomStatusWaiting    RoomStatus = "waiting"     // Fewer players than expected
	RoomStatusInProgress RoomStatus = "in_progress" // All expected players have joined
	RoomStatusFinished   RoomStatus = "finished"    // A player guessed the secret
)

// SecretLength is the number of digits in a room's secret
const SecretLength = 4

// GuessRecord is one scored guess in a room's history
type GuessRecord struct {
	PlayerName string    `json:"playerName"`
	Guess      string    `json:"guess"`
	Bulls      int       `json:"bulls"`
	Cows       int       `json:"cows"`
	At         time.Time `json:"at"`
}

// Room is a single match session. Secret must never reach a client.
type Room struct {
	ID              RoomID
	Players         []Player // join order; Players[0] is the owner
	ExpectedPlayers int
	OwnerID         string
	Secret          string
	Status          RoomStatus
	Attempts        []GuessRecord

	// Version is bumped by the store on every successful save
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetPlayer returns the player with the given name (trimmed), or nil if absent
func (r *Room) GetPlayer(name string) *Player {
	key := NormalizeName(name)
	for i := range r.Players {
		if r.Players[i].Name == key {
			return &r.Players[i]
		}
	}
	return nil
}

// Owner returns the room's creator, or nil for an empty room
func (r *Room) Owner() *Player {
	if len(r.Players) == 0 {
		return nil
	}
	return &r.Players[0]
}

// IsFull returns true when no more players can join
func (r *Room) IsFull() bool {
	return len(r.Players) >= r.ExpectedPlayers
}

// Clone returns a deep copy so callers can mutate without touching shared state
func (r *Room) Clone() *Room {
	c := *r
	c.Players = append([]Player(nil), r.Players...)
	c.Attempts = append([]GuessRecord(nil), r.Attempts...)
	return &c
}
