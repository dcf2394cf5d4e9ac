package broadcast

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/bullscows/internal/metrics"
	"github.com/mcoot/bullscows/internal/model"
	"github.com/mcoot/bullscows/internal/testutil"
)

func newTestManager(t *testing.T) *HubManager {
	t.Helper()
	m := NewHubManager(testutil.NopLogger(), metrics.New())
	t.Cleanup(m.Close)
	return m
}

func receive(t *testing.T, sub *Subscriber) Event {
	t.Helper()
	select {
	case ev, ok := <-sub.Events():
		require.True(t, ok, "subscriber channel closed")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestHub_DeliversInPublishOrder(t *testing.T) {
	m := newTestManager(t)
	hub := m.GetOrCreateHub("room-1")
	sub := hub.Subscribe("s1")

	for i := 0; i < 100; i++ {
		require.NoError(t, m.PublishToRoom(context.Background(), "room-1", Event{Type: model.EventGuessResult, Payload: i}))
	}

	for i := 0; i < 100; i++ {
		ev := receive(t, sub)
		assert.Equal(t, i, ev.Payload)
	}
}

func TestHub_CloseDrainsQueuedEvents(t *testing.T) {
	m := newTestManager(t)
	hub := m.GetOrCreateHub("room-1")
	sub := hub.Subscribe("s1")

	ctx := context.Background()
	require.NoError(t, m.PublishToRoom(ctx, "room-1", Event{Type: model.EventGuessResult}))
	require.NoError(t, m.PublishToRoom(ctx, "room-1", Event{Type: model.EventRoomStateUpdate}))
	require.NoError(t, m.PublishToRoom(ctx, "room-1", Event{Type: model.EventGameOver}))
	require.NoError(t, m.CloseRoom(ctx, "room-1"))

	var got []model.EventType
	for ev := range sub.Events() {
		got = append(got, ev.Type)
	}
	assert.Equal(t, []model.EventType{model.EventGuessResult, model.EventRoomStateUpdate, model.EventGameOver}, got)

	select {
	case <-hub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}
	assert.Nil(t, m.GetHub("room-1"))
	assert.False(t, hub.Publish(Event{Type: model.EventGameOver}))
}

func TestHub_SubscribeAfterCloseGetsClosedChannel(t *testing.T) {
	m := newTestManager(t)
	hub := m.GetOrCreateHub("room-1")
	m.RemoveHub("room-1")
	<-hub.Done()

	sub := hub.Subscribe("late")
	_, ok := <-sub.Events()
	assert.False(t, ok)
	hub.Unsubscribe(sub)
}

func TestHub_UnsubscribeClosesChannel(t *testing.T) {
	m := newTestManager(t)
	hub := m.GetOrCreateHub("room-1")
	sub := hub.Subscribe("s1")
	assert.Equal(t, 1, hub.SubscriberCount())

	hub.Unsubscribe(sub)
	_, ok := <-sub.Events()
	assert.False(t, ok)
	assert.Equal(t, 0, hub.SubscriberCount())
}

func TestHub_SlowSubscriberDoesNotBlockOthers(t *testing.T) {
	m := newTestManager(t)
	hub := m.GetOrCreateHub("room-1")
	slow := hub.Subscribe("slow")
	fast := hub.Subscribe("fast")

	total := subscriberBufferSize + 10
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < total; i++ {
			if _, ok := <-fast.Events(); !ok {
				return
			}
		}
	}()

	for i := 0; i < total; i++ {
		hub.Publish(Event{Type: model.EventRoomStateUpdate, Payload: i})
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("fast subscriber starved")
	}
	assert.Len(t, slow.Events(), subscriberBufferSize)
}

func TestHubManager_RoomsAreIsolated(t *testing.T) {
	m := newTestManager(t)
	a := m.GetOrCreateHub("room-a").Subscribe("a")
	b := m.GetOrCreateHub("room-b").Subscribe("b")
	g := m.Global().Subscribe("g")

	ctx := context.Background()
	require.NoError(t, m.PublishToRoom(ctx, "room-a", Event{Type: model.EventPlayerJoined, RoomID: "room-a"}))
	require.NoError(t, m.PublishGlobal(ctx, Event{Type: model.EventGameOver, RoomID: "room-b"}))

	assert.Equal(t, model.EventPlayerJoined, receive(t, a).Type)
	assert.Equal(t, model.EventGameOver, receive(t, g).Type)

	select {
	case ev := <-b.Events():
		t.Fatalf("room-b received %v", ev.Type)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubManager_PublishWithoutHubIsNoop(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.PublishToRoom(context.Background(), "nobody-listens", Event{Type: model.EventGuessResult}))
	assert.Equal(t, 0, m.HubCount())
}

func TestHubManager_CleanupEmptyHubs(t *testing.T) {
	m := newTestManager(t)
	for i := 0; i < 3; i++ {
		m.GetOrCreateHub(model.RoomID(fmt.Sprintf("room-%d", i)))
	}
	sub := m.GetOrCreateHub("room-0").Subscribe("keep")
	require.Eventually(t, func() bool { return m.GetHub("room-0").SubscriberCount() == 1 }, time.Second, 5*time.Millisecond)

	m.CleanupEmptyHubs()
	assert.Equal(t, 1, m.HubCount())
	assert.NotNil(t, m.GetHub("room-0"))
	m.GetHub("room-0").Unsubscribe(sub)
}

func TestHubManager_GetLiveHub(t *testing.T) {
	m := newTestManager(t)
	live := func(ctx context.Context, id model.RoomID) error { return nil }

	hub, err := m.GetLiveHub(context.Background(), "room-1", live)
	require.NoError(t, err)
	assert.Same(t, m.GetHub("room-1"), hub)

	gone := func(ctx context.Context, id model.RoomID) error { return model.ErrRoomNotFound }
	_, err = m.GetLiveHub(context.Background(), "room-2", gone)
	assert.ErrorIs(t, err, model.ErrRoomNotFound)
	assert.Nil(t, m.GetHub("room-2"))
}

func TestHubManager_GetLiveHubDropsHubOfRoomDeletedMeanwhile(t *testing.T) {
	m := newTestManager(t)

	// The room exists at the first check and is gone by the second,
	// after its hub removal already ran
	checks := 0
	lookup := func(ctx context.Context, id model.RoomID) error {
		checks++
		if checks > 1 {
			return model.ErrRoomNotFound
		}
		return nil
	}

	hub, err := m.GetLiveHub(context.Background(), "room-1", lookup)
	assert.ErrorIs(t, err, model.ErrRoomNotFound)
	assert.Nil(t, hub)
	assert.Nil(t, m.GetHub("room-1"))
	assert.Equal(t, 0, m.HubCount())
}
