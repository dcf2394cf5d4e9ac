package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Guest:
		o.printGuest(v)
	case Room:
		o.printRoom(v)
	case []RoomSummary:
		o.printRoomList(v)
	case GuessResult:
		o.printGuessResult(v)
	case Leaderboard:
		o.printLeaderboard(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Guest response type (matches API)
type Guest struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// Player response type
type Player struct {
	Name      string `json:"name"`
	Username  string `json:"username,omitempty"`
	Attempts  int    `json:"attempts"`
	TimeTaken int64  `json:"time_taken"`
	Score     int    `json:"score"`
	Status    string `json:"game_status"`
}

// Attempt response type
type Attempt struct {
	PlayerName string `json:"player_name"`
	Guess      string `json:"guess"`
	Bulls      int    `json:"bulls"`
	Cows       int    `json:"cows"`
}

// Room response type
type Room struct {
	ID              string    `json:"id"`
	Status          string    `json:"status"`
	ExpectedPlayers int       `json:"expected_players"`
	GameOwner       string    `json:"game_owner,omitempty"`
	Players         []Player  `json:"players"`
	Attempts        []Attempt `json:"attempts"`
}

// RoomSummary response type
type RoomSummary struct {
	ID              string `json:"id"`
	Status          string `json:"status"`
	PlayerCount     int    `json:"player_count"`
	ExpectedPlayers int    `json:"expected_players"`
}

// GuessResult response type
type GuessResult struct {
	PlayerName string `json:"player_name"`
	Guess      string `json:"guess"`
	Bulls      int    `json:"bulls"`
	Cows       int    `json:"cows"`
	Result     string `json:"result"`
	Attempts   int    `json:"attempts"`
	Won        bool   `json:"won"`
}

// Leaderboard response type
type Leaderboard struct {
	RoomID  string   `json:"room_id"`
	Players []Player `json:"players"`
}

// HealthResult response type
type HealthResult struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}

func (o *Output) printGuest(g Guest) {
	_, _ = fmt.Fprintf(o.w, "Guest: %s (%s)\n", g.DisplayName, g.ID)
}

func (o *Output) printRoom(r Room) {
	_, _ = fmt.Fprintf(o.w, "Room: %s\n", r.ID)
	_, _ = fmt.Fprintf(o.w, "Status: %s\n", r.Status)
	_, _ = fmt.Fprintf(o.w, "Players (%d/%d):\n", len(r.Players), r.ExpectedPlayers)
	for i, p := range r.Players {
		ownerStr := ""
		if i == 0 {
			ownerStr = " [owner]"
		}
		_, _ = fmt.Fprintf(o.w, "  - %s: %d attempts, score %d, %s%s\n", p.Name, p.Attempts, p.Score, p.Status, ownerStr)
	}
	if len(r.Attempts) > 0 {
		_, _ = fmt.Fprintln(o.w, "Guesses:")
		for _, a := range r.Attempts {
			_, _ = fmt.Fprintf(o.w, "  %s %s -> %dB %dC\n", a.PlayerName, a.Guess, a.Bulls, a.Cows)
		}
	}
}

func (o *Output) printRoomList(rooms []RoomSummary) {
	if len(rooms) == 0 {
		_, _ = fmt.Fprintln(o.w, "No rooms")
		return
	}
	for _, r := range rooms {
		_, _ = fmt.Fprintf(o.w, "%s  %-11s %d/%d\n", r.ID, r.Status, r.PlayerCount, r.ExpectedPlayers)
	}
}

func (o *Output) printGuessResult(g GuessResult) {
	_, _ = fmt.Fprintf(o.w, "%s guessed %s: %d bulls, %d cows\n", g.PlayerName, g.Guess, g.Bulls, g.Cows)
	if g.Won {
		_, _ = fmt.Fprintln(o.w, strings.TrimSpace(g.Result))
	}
}

func (o *Output) printLeaderboard(l Leaderboard) {
	_, _ = fmt.Fprintf(o.w, "Leaderboard for %s:\n", l.RoomID)
	for i, p := range l.Players {
		_, _ = fmt.Fprintf(o.w, "  %d. %s - %d points (%d attempts)\n", i+1, p.Name, p.Score, p.Attempts)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	_, _ = fmt.Fprintf(o.w, "Status: %s\n", h.Status)
	if h.Storage != "" {
		_, _ = fmt.Fprintf(o.w, "Storage: %s\n", h.Storage)
	}
}
