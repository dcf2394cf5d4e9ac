package request

// CreateGuestRequest is the request body for registering a guest
type CreateGuestRequest struct {
	DisplayName string `json:"display_name"`
}

// CreateRoomRequest is the request body for creating a room
type CreateRoomRequest struct {
	PlayerName      string `json:"player_name"`
	ExpectedPlayers int    `json:"expected_players"`
	// Username defaults to the X-Guest-ID guest when omitted
	Username string `json:"username,omitempty"`
}

// JoinRoomRequest is the request body for joining a room
type JoinRoomRequest struct {
	PlayerName string `json:"player_name"`
	Username   string `json:"username,omitempty"`
}

// GuessRequest is the request body for submitting a guess
type GuessRequest struct {
	PlayerName string `json:"player_name"`
	Guess      string `json:"guess"`
}

// AttemptRequest is the request body for recording an attempt
type AttemptRequest struct {
	PlayerName string `json:"player_name"`
}

// CompleteRequest is the request body for reporting a finished game
type CompleteRequest struct {
	PlayerName string `json:"player_name"`
	TimeTaken  int64  `json:"time_taken"`
}

// UpdateScoreRequest is the request body for setting a player's score
type UpdateScoreRequest struct {
	Score *int `json:"score"`
}
