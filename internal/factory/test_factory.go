package factory

import (
	"time"

	"github.com/mcoot/bullscows/internal/dependencies/mocks"
	"github.com/mcoot/bullscows/internal/metrics"
	"github.com/mcoot/bullscows/internal/services/room"
	"github.com/mcoot/bullscows/internal/storage/memory"
	"github.com/mcoot/bullscows/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	MemStore   *memory.Storage
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockClock, mockRandom, metrics.New(), testutil.NopTracer(),
		room.DefaultConfig(), nil, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		MemStore:   store,
	}
}

// QueueSecret makes the next created room use the given 4-digit secret
func (t *TestApp) QueueSecret(secret string) {
	digits := make([]int, 0, len(secret))
	for _, r := range secret {
		digits = append(digits, int(r-'0'))
	}
	t.MockRandom.QueueIntn(digits...)
}
