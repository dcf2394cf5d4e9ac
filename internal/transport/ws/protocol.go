package ws

import (
	"encoding/json"

	"github.com/mcoot/bullscows/internal/model"
)

// Envelope is the wire format in both directions: {"type": ..., "payload": {...}}
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Inbound message types
const (
	TypeCreateRoom    = "createRoom"
	TypeJoinRoom      = "joinRoom"
	TypeMakeGuess     = "makeGuess"
	TypeRecordAttempt = "recordAttempt"
	TypeGameCompleted = "gameCompleted"
	TypeUpdateScore   = "updateScore"
	TypeSubscribe     = "subscribe"
)

// errorReplies maps each inbound type to the event reporting its failure
var errorReplies = map[string]model.EventType{
	TypeCreateRoom:    model.EventCreateRoomError,
	TypeJoinRoom:      model.EventJoinRoomError,
	TypeMakeGuess:     model.EventGuessError,
	TypeRecordAttempt: model.EventPlayerAttemptError,
	TypeGameCompleted: model.EventGameCompletedError,
	TypeUpdateScore:   model.EventUpdateScoreError,
	TypeSubscribe:     model.EventSubscribeError,
}

// matchTypes report a missing room as "game already ended"
var matchTypes = map[string]bool{
	TypeMakeGuess:     true,
	TypeRecordAttempt: true,
	TypeGameCompleted: true,
	TypeUpdateScore:   true,
}

type CreateRoomPayload struct {
	PlayerName      string `json:"playerName"`
	ExpectedPlayers int    `json:"expectedPlayers"`
	Username        string `json:"username"`
}

type JoinRoomPayload struct {
	RoomID     model.RoomID `json:"roomId"`
	PlayerName string       `json:"playerName"`
	Username   string       `json:"username"`
}

type MakeGuessPayload struct {
	RoomID     model.RoomID `json:"roomId"`
	PlayerName string       `json:"playerName"`
	Guess      string       `json:"guess"`
}

type RecordAttemptPayload struct {
	RoomID     model.RoomID `json:"roomId"`
	PlayerName string       `json:"playerName"`
}

type GameCompletedPayload struct {
	RoomID     model.RoomID `json:"roomId"`
	PlayerName string       `json:"playerName"`
	TimeTaken  int64        `json:"timeTaken"`
}

type UpdateScorePayload struct {
	RoomID     model.RoomID `json:"roomId"`
	PlayerName string       `json:"playerName"`
	Score      int          `json:"score"`
}

type SubscribePayload struct {
	RoomID model.RoomID `json:"roomId"`
}

// SubscribedPayload confirms a room subscription
type SubscribedPayload struct {
	RoomID model.RoomID `json:"roomId"`
}
