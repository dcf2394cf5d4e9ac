package sse

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/bullscows/internal/broadcast"
	"github.com/mcoot/bullscows/internal/metrics"
	"github.com/mcoot/bullscows/internal/model"
	"github.com/mcoot/bullscows/internal/testutil"
)

func TestFormatSSEMessage(t *testing.T) {
	tests := []struct {
		name      string
		eventName string
		data      string
		expected  string
	}{
		{
			name:      "single line data",
			eventName: "guessResult",
			data:      `{"bulls":1}`,
			expected:  "event: guessResult\ndata: {\"bulls\":1}\n\n",
		},
		{
			name:      "multi-line data",
			eventName: "roomStateUpdate",
			data:      "{\n  \"status\": \"waiting\"\n}",
			expected:  "event: roomStateUpdate\ndata: {\ndata:   \"status\": \"waiting\"\ndata: }\n\n",
		},
		{
			name:      "empty data",
			eventName: "ping",
			data:      "",
			expected:  "event: ping\ndata: \n\n",
		},
		{
			name:      "data with carriage returns",
			eventName: "test",
			data:      "line1\r\nline2",
			expected:  "event: test\ndata: line1\ndata: line2\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(formatSSEMessage(tt.eventName, tt.data)))
		})
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"single line", "hello", []string{"hello"}},
		{"two lines", "line1\nline2", []string{"line1", "line2"}},
		{"trailing newline", "line1\n", []string{"line1"}},
		{"empty string", "", []string{""}},
		{"crlf line endings", "line1\r\nline2\r\n", []string{"line1", "line2"}},
		{"blank line kept", "a\n\nb", []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, splitLines(tt.input))
		})
	}
}

type sseFrame struct {
	event string
	data  string
}

// readFrame reads lines until the blank line ending a frame, skipping comments
func readFrame(t *testing.T, r *bufio.Reader) sseFrame {
	t.Helper()
	var frame sseFrame
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimSuffix(line, "\n")
		switch {
		case line == "":
			if frame.event != "" {
				return frame
			}
		case strings.HasPrefix(line, ":"):
		case strings.HasPrefix(line, "event: "):
			frame.event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			frame.data += strings.TrimPrefix(line, "data: ")
		}
	}
}

func waitForSubscribers(t *testing.T, hub *broadcast.Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return hub.SubscriberCount() == n
	}, time.Second, 5*time.Millisecond)
}

func TestStreamDeliversRoomAndGlobalEvents(t *testing.T) {
	logger := testutil.NopLogger()
	m := metrics.New()

	room := broadcast.NewHub("room-1", logger, m)
	go room.Run()
	global := broadcast.NewHub("", logger, m)
	go global.Run()
	defer global.Close()

	server := httptest.NewServer(NewStream(room, global, logger, m))
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	assert.Equal(t, "connected", readFrame(t, reader).event)

	waitForSubscribers(t, room, 1)
	waitForSubscribers(t, global, 1)

	room.Publish(broadcast.Event{
		Type:    model.EventGuessResult,
		RoomID:  "room-1",
		Payload: model.GuessResultPayload{PlayerName: "Alice", Bulls: 2, Cows: 1},
	})

	frame := readFrame(t, reader)
	assert.Equal(t, string(model.EventGuessResult), frame.event)

	var decoded struct {
		Type    string `json:"type"`
		RoomID  string `json:"roomId"`
		Payload struct {
			PlayerName string `json:"playerName"`
			Bulls      int    `json:"bulls"`
		} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal([]byte(frame.data), &decoded))
	assert.Equal(t, "room-1", decoded.RoomID)
	assert.Equal(t, "Alice", decoded.Payload.PlayerName)
	assert.Equal(t, 2, decoded.Payload.Bulls)

	global.Publish(broadcast.Event{Type: model.EventGameOver, Payload: model.GameWonPayload{Winner: "Bob", Score: 4}})
	assert.Equal(t, string(model.EventGameOver), readFrame(t, reader).event)

	// Closing the room hub ends the stream
	room.Close()
	assert.Equal(t, "closed", readFrame(t, reader).event)

	waitForSubscribers(t, global, 0)
}

func TestStreamSendsKeepalive(t *testing.T) {
	logger := testutil.NopLogger()
	m := metrics.New()

	room := broadcast.NewHub("room-1", logger, m)
	go room.Run()
	defer room.Close()

	stream := NewStream(room, nil, logger, m)
	stream.pingPeriod = 10 * time.Millisecond

	server := httptest.NewServer(stream)
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	assert.Equal(t, "connected", readFrame(t, reader).event)

	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if line == ": keepalive\n" {
			return
		}
	}
}
