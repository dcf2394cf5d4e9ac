package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/bullscows/internal/api"
	"github.com/mcoot/bullscows/internal/cli"
	"github.com/mcoot/bullscows/internal/factory"
	"github.com/mcoot/bullscows/internal/model"
	"github.com/mcoot/bullscows/internal/testutil"
)

// cliRunner runs bullsctl commands in-process against a test server
type cliRunner struct {
	serverURL string
	guestFile string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()
	return &cliRunner{
		serverURL: serverURL,
		guestFile: filepath.Join(t.TempDir(), "guest"),
	}
}

func (r *cliRunner) run(ctx context.Context, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--guest-file", r.guestFile,
		"--output", "json",
	}, args...)

	cmd := cli.NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(fullArgs)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func (r *cliRunner) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := r.run(context.Background(), args...)
	require.NoError(t, err, "bullsctl %s: %s", strings.Join(args, " "), out)
	return out
}

// testServer manages an in-process HTTP server for e2e tests
type testServer struct {
	app *factory.TestApp
	url string
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	router := api.NewRouter(api.RouterConfig{
		Logger:          testutil.NopLogger(),
		Metrics:         app.Metrics,
		Clock:           app.Clock,
		HubManager:      app.HubManager,
		GuestService:    app.GuestService,
		RoomController:  app.RoomController,
		MatchController: app.MatchController,
		StorageType:     factory.StorageTypeMemory,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		srv.Close()
		_ = app.Close()
	})

	return &testServer{app: app, url: srv.URL}
}

func decode[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

// Response types for JSON parsing
type guestResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type roomResponse struct {
	ID              string `json:"id"`
	Status          string `json:"status"`
	ExpectedPlayers int    `json:"expected_players"`
	GameOwner       string `json:"game_owner"`
	Players         []struct {
		Name     string `json:"name"`
		Username string `json:"username"`
	} `json:"players"`
}

type guessResponse struct {
	Bulls int  `json:"bulls"`
	Cows  int  `json:"cows"`
	Won   bool `json:"won"`
}

type leaderboardResponse struct {
	Players []struct {
		Name  string `json:"name"`
		Score int    `json:"score"`
	} `json:"players"`
}

type healthResponse struct {
	Status string `json:"status"`
}

func TestCLIHealth(t *testing.T) {
	ts := startTestServer(t)
	runner := newCLIRunner(t, ts.url)

	health := decode[healthResponse](t, runner.mustRun(t, "health"))
	assert.Equal(t, "ok", health.Status)
}

func TestCLIGuestIsRememberedAndTagsRooms(t *testing.T) {
	ts := startTestServer(t)
	runner := newCLIRunner(t, ts.url)

	guest := decode[guestResponse](t, runner.mustRun(t, "guest", "register", "--name", "Alice"))
	assert.Equal(t, "Alice", guest.DisplayName)

	shown := decode[guestResponse](t, runner.mustRun(t, "guest", "show"))
	assert.Equal(t, guest.ID, shown.ID)

	room := decode[roomResponse](t, runner.mustRun(t, "room", "create", "--name", "Alice", "--players", "2"))
	assert.Equal(t, guest.ID, room.GameOwner)
	require.Len(t, room.Players, 1)
	assert.Equal(t, guest.ID, room.Players[0].Username)

	runner.mustRun(t, "guest", "forget")
	_, err := runner.run(context.Background(), "guest", "show")
	assert.Error(t, err)
}

func TestCLIFullMatch(t *testing.T) {
	ts := startTestServer(t)
	ts.app.QueueSecret("1234")
	runner := newCLIRunner(t, ts.url)

	room := decode[roomResponse](t, runner.mustRun(t, "room", "create", "--name", "Alice"))
	assert.Equal(t, "waiting", room.Status)

	joined := decode[roomResponse](t, runner.mustRun(t, "room", "join", room.ID, "--name", "Bob"))
	assert.Equal(t, "in_progress", joined.Status)
	assert.Len(t, joined.Players, 2)

	_, err := runner.run(context.Background(), "room", "join", room.ID, "--name", "Carol")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ROOM_FULL")

	guess := decode[guessResponse](t, runner.mustRun(t, "guess", room.ID, "4321", "--name", "Bob"))
	assert.Equal(t, 0, guess.Bulls)
	assert.Equal(t, 4, guess.Cows)

	runner.mustRun(t, "attempt", room.ID, "--name", "Alice")
	runner.mustRun(t, "score", room.ID, "30", "--name", "Bob")

	board := decode[leaderboardResponse](t, runner.mustRun(t, "room", "leaderboard", room.ID))
	require.Len(t, board.Players, 2)
	assert.Equal(t, "Bob", board.Players[0].Name)
	assert.Equal(t, 30, board.Players[0].Score)

	guess = decode[guessResponse](t, runner.mustRun(t, "guess", room.ID, "1234", "--name", "Alice"))
	assert.True(t, guess.Won)

	_, err = runner.run(context.Background(), "guess", room.ID, "1234", "--name", "Bob")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GAME_ENDED")
}

func TestCLICompleteAndDelete(t *testing.T) {
	ts := startTestServer(t)
	runner := newCLIRunner(t, ts.url)

	room := decode[roomResponse](t, runner.mustRun(t, "room", "create", "--name", "Alice", "--players", "1"))
	assert.Equal(t, "in_progress", room.Status)

	runner.mustRun(t, "complete", room.ID, "--name", "Alice", "--time", "5000")

	got := decode[roomResponse](t, runner.mustRun(t, "room", "get", room.ID))
	assert.Equal(t, room.ID, got.ID)

	runner.mustRun(t, "room", "delete", room.ID)
	_, err := runner.run(context.Background(), "room", "get", room.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ROOM_NOT_FOUND")
}

func TestCLIEventsStream(t *testing.T) {
	ts := startTestServer(t)
	runner := newCLIRunner(t, ts.url)

	room := decode[roomResponse](t, runner.mustRun(t, "room", "create", "--name", "Alice"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var (
		wg     sync.WaitGroup
		out    string
		runErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		out, runErr = runner.run(ctx, "events", room.ID, "--json")
	}()

	// The stream subscribes asynchronously; wait for its hub subscriber
	require.Eventually(t, func() bool {
		hub := ts.app.HubManager.GetHub(model.RoomID(room.ID))
		return hub != nil && hub.SubscriberCount() > 0
	}, 2*time.Second, 10*time.Millisecond)

	// Drive the room directly while the CLI holds its package-level config
	roomID := model.RoomID(room.ID)
	_, err := ts.app.RoomController.JoinRoom(ctx, roomID, "Bob", "")
	require.NoError(t, err)
	require.NoError(t, ts.app.RoomController.DeleteRoom(ctx, roomID))

	wg.Wait()
	require.NoError(t, runErr, out)
	assert.Contains(t, out, `"event":"connected"`)
	assert.Contains(t, out, `"event":"playerJoined"`)
	assert.Contains(t, out, `"event":"startMatch"`)
	assert.Contains(t, out, `"event":"closed"`)
}
