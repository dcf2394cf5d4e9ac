package sse

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mcoot/bullscows/internal/broadcast"
	"github.com/mcoot/bullscows/internal/metrics"
)

const (
	// Time between keepalive comments
	pingPeriod = 30 * time.Second

	transportLabel = "sse"
)

// Stream serves a single Server-Sent Events connection
type Stream struct {
	room    *broadcast.Hub
	global  *broadcast.Hub
	logger  *slog.Logger
	metrics *metrics.Metrics

	// pingPeriod is overridable in tests
	pingPeriod time.Duration
}

// NewStream creates a stream following a room hub and, when global is not
// nil, the global hub as well.
func NewStream(room, global *broadcast.Hub, logger *slog.Logger, m *metrics.Metrics) *Stream {
	return &Stream{
		room:       room,
		global:     global,
		logger:     logger,
		metrics:    m,
		pingPeriod: pingPeriod,
	}
}

// ServeHTTP writes events until the client disconnects or the room hub closes
func (s *Stream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Check if SSE is supported
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	// The server write timeout would otherwise cut long-lived streams
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	subscriberID := r.RemoteAddr
	roomSub := s.room.Subscribe(subscriberID)
	defer s.room.Unsubscribe(roomSub)

	var globalEvents <-chan broadcast.Event
	if s.global != nil {
		globalSub := s.global.Subscribe(subscriberID)
		defer s.global.Unsubscribe(globalSub)
		globalEvents = globalSub.Events()
	}

	s.metrics.Subscribers.WithLabelValues(transportLabel).Inc()
	defer s.metrics.Subscribers.WithLabelValues(transportLabel).Dec()

	_, _ = w.Write([]byte("event: connected\ndata: {\"status\":\"connected\"}\n\n"))
	flusher.Flush()

	ticker := time.NewTicker(s.pingPeriod)
	defer ticker.Stop()

	for {
		var message []byte
		select {
		case event, ok := <-roomSub.Events():
			if !ok {
				// Room ended; tell the client before hanging up
				_, _ = w.Write(formatSSEMessage("closed", `{"status":"closed"}`))
				flusher.Flush()
				return
			}
			message = s.encode(event)

		case event, ok := <-globalEvents:
			if !ok {
				globalEvents = nil
				continue
			}
			message = s.encode(event)

		case <-ticker.C:
			message = []byte(": keepalive\n\n")

		case <-r.Context().Done():
			return
		}

		if message == nil {
			continue
		}
		if _, err := w.Write(message); err != nil {
			return
		}
		flusher.Flush()
	}
}

func (s *Stream) encode(event broadcast.Event) []byte {
	data, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("failed to encode event",
			slog.String("event", string(event.Type)),
			slog.String("error", err.Error()))
		return nil
	}
	return formatSSEMessage(string(event.Type), string(data))
}

// formatSSEMessage formats a message for SSE transmission
func formatSSEMessage(eventName, data string) []byte {
	var b strings.Builder
	b.WriteString("event: " + eventName + "\n")
	// SSE requires each line of data to be prefixed with "data: "
	for _, line := range splitLines(data) {
		b.WriteString("data: " + line + "\n")
	}
	b.WriteString("\n")
	return []byte(b.String())
}

// splitLines splits a string into lines, handling various line endings
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}
