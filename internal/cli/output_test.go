package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutput_TextRoom(t *testing.T) {
	var buf bytes.Buffer
	NewOutput("text", &buf).Print(Room{
		ID:              "room-1",
		Status:          "in_progress",
		ExpectedPlayers: 2,
		Players: []Player{
			{Name: "Alice", Attempts: 1, Score: 10, Status: "in_progress"},
			{Name: "Bob", Status: "in_progress"},
		},
		Attempts: []Attempt{{PlayerName: "Alice", Guess: "1243", Bulls: 2, Cows: 2}},
	})

	out := buf.String()
	assert.Contains(t, out, "Room: room-1")
	assert.Contains(t, out, "Players (2/2):")
	assert.Contains(t, out, "Alice: 1 attempts, score 10, in_progress [owner]")
	assert.NotContains(t, out, "Bob: 0 attempts, score 0, in_progress [owner]")
	assert.Contains(t, out, "Alice 1243 -> 2B 2C")
}

func TestOutput_TextGuessResult(t *testing.T) {
	var buf bytes.Buffer
	NewOutput("text", &buf).Print(GuessResult{
		PlayerName: "Bob",
		Guess:      "1234",
		Bulls:      4,
		Result:     "Bob wins!\n",
		Won:        true,
	})

	assert.Equal(t, "Bob guessed 1234: 4 bulls, 0 cows\nBob wins!\n", buf.String())
}

func TestOutput_EmptyRoomList(t *testing.T) {
	var buf bytes.Buffer
	NewOutput("text", &buf).Print([]RoomSummary{})
	assert.Equal(t, "No rooms\n", buf.String())
}

func TestOutput_JSONMessage(t *testing.T) {
	var buf bytes.Buffer
	NewOutput("json", &buf).PrintMessage("Guest forgotten")

	var msg map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &msg))
	assert.Equal(t, "Guest forgotten", msg["message"])
}

func TestOutput_UnknownTypeFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	NewOutput("text", &buf).Print(map[string]int{"rooms": 3})

	var got map[string]int
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 3, got["rooms"])
}
