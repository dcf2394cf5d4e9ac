package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/bullscows/internal/api/request"
	"github.com/mcoot/bullscows/internal/api/response"
	"github.com/mcoot/bullscows/internal/model"
	"github.com/mcoot/bullscows/internal/services/guest"
)

// GuestHandler handles guest-related endpoints
type GuestHandler struct {
	guestService guest.ServiceInterface
}

// NewGuestHandler creates a new guest handler
func NewGuestHandler(guestService guest.ServiceInterface) *GuestHandler {
	return &GuestHandler{
		guestService: guestService,
	}
}

// Create handles POST /api/v1/guests
func (h *GuestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGuestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	g, err := h.guestService.Register(r.Context(), req.DisplayName)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, response.GuestFromModel(g))
}

// Get handles GET /api/v1/guests/{id}
func (h *GuestHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.GuestID(mux.Vars(r)["id"])

	g, err := h.guestService.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GuestFromModel(g))
}

// Delete handles DELETE /api/v1/guests/{id}
func (h *GuestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := model.GuestID(mux.Vars(r)["id"])

	if err := h.guestService.Delete(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
