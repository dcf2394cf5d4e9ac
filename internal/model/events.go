package model

// EventType identifies the type of event
type EventType string

const (
	// Requester-directed replies
	EventRoomCreated        EventType = "roomCreated"
	EventJoinedRoom         EventType = "joinedRoom"
	EventCreateRoomError    EventType = "createRoomError"
	EventJoinRoomError      EventType = "joinRoomError"
	EventGuessError         EventType = "guessError"
	EventPlayerAttemptError EventType = "playerAttemptError"
	EventGameCompletedError EventType = "gameCompletedError"
	EventUpdateScoreError   EventType = "updateScoreError"
	EventSubscribeError     EventType = "subscribeError"
	EventSubscribed         EventType = "subscribed"

	// Room events
	EventPlayerJoined    EventType = "playerJoined"
	EventRoomStateUpdate EventType = "roomStateUpdate"
	EventStartMatch      EventType = "startMatch"
	EventWaitingPlayers  EventType = "waitingPlayers"

	// Match events
	EventGuessResult  EventType = "guessResult"
	EventScoreUpdated EventType = "scoreUpdated"
	EventGameOver     EventType = "gameOver"
)

// AllEventTypes lists the broadcastable event types
var AllEventTypes = []EventType{
	EventPlayerJoined,
	EventRoomStateUpdate,
	EventStartMatch,
	EventWaitingPlayers,
	EventGuessResult,
	EventScoreUpdated,
	EventGameOver,
}

// RoomCreatedPayload is sent to the creator of a room
type RoomCreatedPayload struct {
	RoomID RoomID `json:"roomId"`
}

// JoinedRoomPayload is sent to a player after a successful join
type JoinedRoomPayload struct {
	RoomID  RoomID   `json:"roomId"`
	Players []Player `json:"players"`
}

// ErrorPayload is the body of every <op>Error event
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PlayerJoinedPayload contains data for player joined events
type PlayerJoinedPayload struct {
	Player          Player `json:"player"`
	PlayerCount     int    `json:"playerCount"`
	ExpectedPlayers int    `json:"expectedPlayers"`
}

// RoomStatePayload is the public state of a room, broadcast after every mutation
type RoomStatePayload struct {
	Status   RoomStatus    `json:"status"`
	Players  []Player      `json:"players"`
	Attempts []GuessRecord `json:"attempts"`
}

// MessagePayload carries a human readable notice (startMatch, waitingPlayers)
type MessagePayload struct {
	Message string `json:"message"`
}

// GuessResultPayload contains the scored result of a guess
type GuessResultPayload struct {
	PlayerName string `json:"playerName"`
	Cows       int    `json:"cows"`
	Bulls      int    `json:"bulls"`
	Result     string `json:"result"`
}

// ScoreUpdatedPayload contains a player's new score
type ScoreUpdatedPayload struct {
	PlayerName string `json:"playerName"`
	Score      int    `json:"score"`
}

// GameWonPayload is the gameOver payload when a player guesses the secret
type GameWonPayload struct {
	Winner string `json:"winner"`
	Score  int    `json:"score"`
}

// GameCompletedPayload is the gameOver payload when a player reports completion
type GameCompletedPayload struct {
	Room        RoomSnapshot `json:"room"`
	CompletedBy string       `json:"completedBy"`
}

// RoomSnapshot is the client-facing view of a room. It never contains the secret.
type RoomSnapshot struct {
	ID              RoomID        `json:"id"`
	Players         []Player      `json:"players"`
	ExpectedPlayers int           `json:"expectedPlayers"`
	GameOwner       string        `json:"gameOwner"`
	Status          RoomStatus    `json:"status"`
	Attempts        []GuessRecord `json:"attempts"`
}

// Snapshot returns the client-facing view of the room
func (r *Room) Snapshot() RoomSnapshot {
	players := append([]Player{}, r.Players...)
	attempts := append([]GuessRecord{}, r.Attempts...)
	return RoomSnapshot{
		ID:              r.ID,
		Players:         players,
		ExpectedPlayers: r.ExpectedPlayers,
		GameOwner:       r.OwnerID,
		Status:          r.Status,
		Attempts:        attempts,
	}
}

// State returns the roomStateUpdate payload for the room
func (r *Room) State() RoomStatePayload {
	return RoomStatePayload{
		Status:   r.Status,
		Players:  append([]Player{}, r.Players...),
		Attempts: append([]GuessRecord{}, r.Attempts...),
	}
}
