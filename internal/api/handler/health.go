package handler

import (
	"net/http"

	"github.com/mcoot/bullscows/internal/api/response"
)

// HealthHandler reports liveness
type HealthHandler struct {
	storageType string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(storageType string) *HealthHandler {
	return &HealthHandler{storageType: storageType}
}

// Health handles GET /health and GET /api/v1/health
func (h *HealthHandler) Health(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok", Storage: h.storageType})
}
