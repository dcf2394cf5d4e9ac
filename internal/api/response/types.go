package response

import (
	"time"

	"github.com/mcoot/bullscows/internal/model"
	"github.com/mcoot/bullscows/internal/services/match"
)

// Guest represents a guest in API responses
type Guest struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// GuestFromModel converts a model.Guest to a response Guest
func GuestFromModel(g *model.Guest) Guest {
	return Guest{
		ID:          string(g.ID),
		DisplayName: g.DisplayName,
		CreatedAt:   g.CreatedAt,
	}
}

// Player represents a room player in API responses
type Player struct {
	Name      string `json:"name"`
	Username  string `json:"username,omitempty"`
	Attempts  int    `json:"attempts"`
	TimeTaken int64  `json:"time_taken"`
	Score     int    `json:"score"`
	Status    string `json:"game_status"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p model.Player) Player {
	return Player{
		Name:      p.Name,
		Username:  p.Username,
		Attempts:  p.Attempts,
		TimeTaken: p.TimeTaken,
		Score:     p.Score,
		Status:    string(p.Status),
	}
}

// PlayersFromModel converts a player list, preserving order
func PlayersFromModel(players []model.Player) []Player {
	out := make([]Player, len(players))
	for i, p := range players {
		out[i] = PlayerFromModel(p)
	}
	return out
}

// Attempt is one scored guess in a room's history
type Attempt struct {
	PlayerName string    `json:"player_name"`
	Guess      string    `json:"guess"`
	Bulls      int       `json:"bulls"`
	Cows       int       `json:"cows"`
	At         time.Time `json:"at"`
}

// Room represents a room in API responses. The secret is never included.
type Room struct {
	ID              string    `json:"id"`
	Status          string    `json:"status"`
	ExpectedPlayers int       `json:"expected_players"`
	GameOwner       string    `json:"game_owner,omitempty"`
	Players         []Player  `json:"players"`
	Attempts        []Attempt `json:"attempts"`
	CreatedAt       time.Time `json:"created_at"`
}

// RoomFromModel converts a model.Room to a response Room
func RoomFromModel(r *model.Room) Room {
	attempts := make([]Attempt, len(r.Attempts))
	for i, a := range r.Attempts {
		attempts[i] = Attempt{
			PlayerName: a.PlayerName,
			Guess:      a.Guess,
			Bulls:      a.Bulls,
			Cows:       a.Cows,
			At:         a.At,
		}
	}
	return Room{
		ID:              string(r.ID),
		Status:          string(r.Status),
		ExpectedPlayers: r.ExpectedPlayers,
		GameOwner:       r.OwnerID,
		Players:         PlayersFromModel(r.Players),
		Attempts:        attempts,
		CreatedAt:       r.CreatedAt,
	}
}

// RoomSummary is the room list entry
type RoomSummary struct {
	ID              string `json:"id"`
	Status          string `json:"status"`
	PlayerCount     int    `json:"player_count"`
	ExpectedPlayers int    `json:"expected_players"`
}

// RoomSummaryFromModel converts a model.Room to a RoomSummary
func RoomSummaryFromModel(r *model.Room) RoomSummary {
	return RoomSummary{
		ID:              string(r.ID),
		Status:          string(r.Status),
		PlayerCount:     len(r.Players),
		ExpectedPlayers: r.ExpectedPlayers,
	}
}

// GuessResult is the response after submitting a guess
type GuessResult struct {
	PlayerName string `json:"player_name"`
	Guess      string `json:"guess"`
	Bulls      int    `json:"bulls"`
	Cows       int    `json:"cows"`
	Result     string `json:"result"`
	Attempts   int    `json:"attempts"`
	Won        bool   `json:"won"`
}

// GuessResultFromOutcome converts a match.GuessOutcome
func GuessResultFromOutcome(o *match.GuessOutcome) GuessResult {
	return GuessResult{
		PlayerName: o.PlayerName,
		Guess:      o.Guess,
		Bulls:      o.Bulls,
		Cows:       o.Cows,
		Result:     o.Result,
		Attempts:   o.Attempts,
		Won:        o.Won,
	}
}

// Leaderboard lists a room's players by score, highest first
type Leaderboard struct {
	RoomID  string   `json:"room_id"`
	Players []Player `json:"players"`
}

// Health is the health check response
type Health struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}
