package ws

import (
	"log/slog"
	"net/http"
	"net/url"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/mcoot/bullscows/internal/broadcast"
	"github.com/mcoot/bullscows/internal/dependencies/clock"
	"github.com/mcoot/bullscows/internal/metrics"
	"github.com/mcoot/bullscows/internal/services/match"
	"github.com/mcoot/bullscows/internal/services/room"
)

const transportLabel = "ws"

// Config holds gateway settings
type Config struct {
	// AllowedOrigins lists accepted Origin hosts; "*" accepts any
	AllowedOrigins []string
}

// DefaultConfig accepts connections from any origin
func DefaultConfig() Config {
	return Config{AllowedOrigins: []string{"*"}}
}

// Gateway upgrades HTTP requests to WebSocket connections and dispatches
// their messages to the room and match controllers
type Gateway struct {
	rooms    room.ControllerInterface
	matches  match.ControllerInterface
	hubs     *broadcast.HubManager
	clock    clock.Clock
	upgrader websocket.Upgrader
	logger   *slog.Logger
	metrics  *metrics.Metrics

	nextID atomic.Uint64
}

// NewGateway creates a new Gateway
func NewGateway(
	rooms room.ControllerInterface,
	matches match.ControllerInterface,
	hubs *broadcast.HubManager,
	clock clock.Clock,
	cfg Config,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Gateway {
	return &Gateway{
		rooms:   rooms,
		matches: matches,
		hubs:    hubs,
		clock:   clock,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(cfg.AllowedOrigins),
		},
		logger:  logger.With(slog.String("component", "ws")),
		metrics: m,
	}
}

func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		for _, a := range allowed {
			if a == "*" || a == u.Host || a == origin {
				return true
			}
		}
		return false
	}
}

// ServeHTTP upgrades the connection and runs its pumps until it closes
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an error response
		g.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	c := newClient(r.Context(), g, conn, g.nextID.Add(1))
	g.metrics.Subscribers.WithLabelValues(transportLabel).Inc()
	c.logger.Info("client connected", slog.String("remote_addr", r.RemoteAddr))

	c.follow(g.hubs.Global(), "")
	go c.writePump()
	c.readPump()

	g.metrics.Subscribers.WithLabelValues(transportLabel).Dec()
	c.logger.Info("client disconnected")
}
