package mongo

import (
	"time"

	"github.com/mcoot/bullscows/internal/model"
)

type playerDocument struct {
	Name      string    `bson:"name"`
	Username  string    `bson:"username,omitempty"`
	Attempts  int       `bson:"attempts"`
	TimeTaken int64     `bson:"time_taken"`
	Score     int       `bson:"score"`
	Status    string    `bson:"game_status"`
	JoinedAt  time.Time `bson:"joined_at"`
}

type guessDocument struct {
	PlayerName string    `bson:"player_name"`
	Guess      string    `bson:"guess"`
	Bulls      int       `bson:"bulls"`
	Cows       int       `bson:"cows"`
	At         time.Time `bson:"at"`
}

type roomDocument struct {
	ID              string           `bson:"_id"`
	Players         []playerDocument `bson:"players"`
	ExpectedPlayers int              `bson:"expected_players"`
	OwnerID         string           `bson:"owner_id"`
	Secret          string           `bson:"secret"`
	Status          string           `bson:"status"`
	Attempts        []guessDocument  `bson:"attempts"`
	Version         int64            `bson:"version"`
	CreatedAt       time.Time        `bson:"created_at"`
	UpdatedAt       time.Time        `bson:"updated_at"`
}

type guestDocument struct {
	ID          string    `bson:"_id"`
	DisplayName string    `bson:"display_name"`
	CreatedAt   time.Time `bson:"created_at"`
}

func toRoomDocument(r *model.Room) roomDocument {
	doc := roomDocument{
		ID:              string(r.ID),
		Players:         make([]playerDocument, len(r.Players)),
		ExpectedPlayers: r.ExpectedPlayers,
		OwnerID:         r.OwnerID,
		Secret:          r.Secret,
		Status:          string(r.Status),
		Attempts:        make([]guessDocument, len(r.Attempts)),
		Version:         r.Version,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	for i, p := range r.Players {
		doc.Players[i] = playerDocument{
			Name:      p.Name,
			Username:  p.Username,
			Attempts:  p.Attempts,
			TimeTaken: p.TimeTaken,
			Score:     p.Score,
			Status:    string(p.Status),
			JoinedAt:  p.JoinedAt,
		}
	}
	for i, a := range r.Attempts {
		doc.Attempts[i] = guessDocument(a)
	}
	return doc
}

func (d roomDocument) toModel() *model.Room {
	room := &model.Room{
		ID:              model.RoomID(d.ID),
		Players:         make([]model.Player, len(d.Players)),
		ExpectedPlayers: d.ExpectedPlayers,
		OwnerID:         d.OwnerID,
		Secret:          d.Secret,
		Status:          model.RoomStatus(d.Status),
		Attempts:        make([]model.GuessRecord, len(d.Attempts)),
		Version:         d.Version,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
	for i, p := range d.Players {
		room.Players[i] = model.Player{
			Name:      p.Name,
			Username:  p.Username,
			Attempts:  p.Attempts,
			TimeTaken: p.TimeTaken,
			Score:     p.Score,
			Status:    model.PlayerStatus(p.Status),
			JoinedAt:  p.JoinedAt,
		}
	}
	for i, a := range d.Attempts {
		room.Attempts[i] = model.GuessRecord(a)
	}
	return room
}
