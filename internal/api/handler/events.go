package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/bullscows/internal/broadcast"
	"github.com/mcoot/bullscows/internal/metrics"
	"github.com/mcoot/bullscows/internal/model"
	"github.com/mcoot/bullscows/internal/services/room"
	"github.com/mcoot/bullscows/internal/transport/sse"
)

// EventsHandler streams room events over Server-Sent Events
type EventsHandler struct {
	roomController room.ControllerInterface
	hubManager     *broadcast.HubManager
	logger         *slog.Logger
	metrics        *metrics.Metrics
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(roomController room.ControllerInterface, hubManager *broadcast.HubManager, logger *slog.Logger, m *metrics.Metrics) *EventsHandler {
	return &EventsHandler{
		roomController: roomController,
		hubManager:     hubManager,
		logger:         logger.With(slog.String("component", "sse")),
		metrics:        m,
	}
}

// Stream handles GET /api/v1/rooms/{id}/events
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	id := model.RoomID(mux.Vars(r)["id"])

	// Only live rooms get a hub
	hub, err := h.hubManager.GetLiveHub(r.Context(), id, h.roomExists)
	if err != nil {
		WriteError(w, err)
		return
	}

	logger := h.logger.With(slog.String("room_id", string(id)))
	sse.NewStream(hub, h.hubManager.Global(), logger, h.metrics).ServeHTTP(w, r)
}

func (h *EventsHandler) roomExists(ctx context.Context, id model.RoomID) error {
	_, err := h.roomController.GetRoom(ctx, id)
	return err
}
