package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/bullscows/internal/api/middleware"
	"github.com/mcoot/bullscows/internal/api/request"
	"github.com/mcoot/bullscows/internal/api/response"
	"github.com/mcoot/bullscows/internal/model"
	"github.com/mcoot/bullscows/internal/services/room"
)

// RoomHandler handles room-related endpoints
type RoomHandler struct {
	roomController room.ControllerInterface
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(roomController room.ControllerInterface) *RoomHandler {
	return &RoomHandler{
		roomController: roomController,
	}
}

// Create handles POST /api/v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	username := middleware.Username(r.Context(), req.Username)
	rm, err := h.roomController.CreateRoom(r.Context(), req.PlayerName, req.ExpectedPlayers, username)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, response.RoomFromModel(rm))
}

// List handles GET /api/v1/rooms
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.roomController.ListRooms(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	summaries := make([]response.RoomSummary, len(rooms))
	for i, rm := range rooms {
		summaries[i] = response.RoomSummaryFromModel(rm)
	}
	response.JSON(w, http.StatusOK, summaries)
}

// Get handles GET /api/v1/rooms/{id}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.RoomID(mux.Vars(r)["id"])

	rm, err := h.roomController.GetRoom(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(rm))
}

// Delete handles DELETE /api/v1/rooms/{id}
func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := model.RoomID(mux.Vars(r)["id"])

	if err := h.roomController.DeleteRoom(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Join handles POST /api/v1/rooms/{id}/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	id := model.RoomID(mux.Vars(r)["id"])

	var req request.JoinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	username := middleware.Username(r.Context(), req.Username)
	rm, err := h.roomController.JoinRoom(r.Context(), id, req.PlayerName, username)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(rm))
}

// Leaderboard handles GET /api/v1/rooms/{id}/leaderboard
func (h *RoomHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	id := model.RoomID(mux.Vars(r)["id"])

	players, err := h.roomController.Leaderboard(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Leaderboard{
		RoomID:  string(id),
		Players: response.PlayersFromModel(players),
	})
}

// LegacyLeaderboard handles GET /leaderboard/{roomId}, which answers with a
// bare player array
func (h *RoomHandler) LegacyLeaderboard(w http.ResponseWriter, r *http.Request) {
	id := model.RoomID(mux.Vars(r)["roomId"])

	players, err := h.roomController.Leaderboard(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayersFromModel(players))
}

// LegacyPlayers handles GET /players, which lists every room in full
func (h *RoomHandler) LegacyPlayers(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.roomController.ListRooms(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	out := make([]response.Room, len(rooms))
	for i, rm := range rooms {
		out[i] = response.RoomFromModel(rm)
	}
	response.JSON(w, http.StatusOK, out)
}
