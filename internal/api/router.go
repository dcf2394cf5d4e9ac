package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/mcoot/bullscows/internal/api/handler"
	"github.com/mcoot/bullscows/internal/api/middleware"
	"github.com/mcoot/bullscows/internal/broadcast"
	"github.com/mcoot/bullscows/internal/dependencies/clock"
	"github.com/mcoot/bullscows/internal/metrics"
	"github.com/mcoot/bullscows/internal/services/guest"
	"github.com/mcoot/bullscows/internal/services/match"
	"github.com/mcoot/bullscows/internal/services/room"
	"github.com/mcoot/bullscows/internal/transport/ws"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	Metrics         *metrics.Metrics
	Clock           clock.Clock
	HubManager      *broadcast.HubManager
	GuestService    guest.ServiceInterface
	RoomController  room.ControllerInterface
	MatchController match.ControllerInterface
	// StorageType is reported by the health check
	StorageType string
	// AllowedOrigins restricts WebSocket upgrades (empty accepts any)
	AllowedOrigins []string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	guestHandler := handler.NewGuestHandler(cfg.GuestService)
	roomHandler := handler.NewRoomHandler(cfg.RoomController)
	matchHandler := handler.NewMatchHandler(cfg.MatchController)
	eventsHandler := handler.NewEventsHandler(cfg.RoomController, cfg.HubManager, cfg.Logger, cfg.Metrics)
	healthHandler := handler.NewHealthHandler(cfg.StorageType)

	wsCfg := ws.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		wsCfg.AllowedOrigins = cfg.AllowedOrigins
	}
	gateway := ws.NewGateway(cfg.RoomController, cfg.MatchController, cfg.HubManager, cfg.Clock, wsCfg, cfg.Logger, cfg.Metrics)

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)
	metricsMiddleware := middleware.Metrics(cfg.Metrics)
	guestMiddleware := middleware.Guest(cfg.GuestService)

	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(metricsMiddleware)

	// API subrouter
	api := r.PathPrefix("/api/v1").Subrouter()

	// Guest routes
	api.HandleFunc("/guests", guestHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/guests/{id}", guestHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/guests/{id}", guestHandler.Delete).Methods(http.MethodDelete)

	// Room routes (X-Guest-ID optional)
	rooms := api.PathPrefix("/rooms").Subrouter()
	rooms.Use(guestMiddleware)
	rooms.HandleFunc("", roomHandler.Create).Methods(http.MethodPost)
	rooms.HandleFunc("", roomHandler.List).Methods(http.MethodGet)
	rooms.HandleFunc("/{id}", roomHandler.Get).Methods(http.MethodGet)
	rooms.HandleFunc("/{id}", roomHandler.Delete).Methods(http.MethodDelete)
	rooms.HandleFunc("/{id}/join", roomHandler.Join).Methods(http.MethodPost)
	rooms.HandleFunc("/{id}/leaderboard", roomHandler.Leaderboard).Methods(http.MethodGet)
	rooms.HandleFunc("/{id}/events", eventsHandler.Stream).Methods(http.MethodGet)

	// Match routes
	rooms.HandleFunc("/{id}/guesses", matchHandler.Guess).Methods(http.MethodPost)
	rooms.HandleFunc("/{id}/attempts", matchHandler.Attempt).Methods(http.MethodPost)
	rooms.HandleFunc("/{id}/complete", matchHandler.Complete).Methods(http.MethodPost)
	rooms.HandleFunc("/{id}/players/{name}/score", matchHandler.UpdateScore).Methods(http.MethodPut)

	api.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)

	// Realtime gateway and operational endpoints
	r.Handle("/ws", gateway).Methods(http.MethodGet)
	r.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)
	r.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)

	// Legacy unversioned paths
	r.HandleFunc("/leaderboard/{roomId}", roomHandler.LegacyLeaderboard).Methods(http.MethodGet)
	r.HandleFunc("/players", roomHandler.LegacyPlayers).Methods(http.MethodGet)

	return otelhttp.NewHandler(r, "bullscows")
}
