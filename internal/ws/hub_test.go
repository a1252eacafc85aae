package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHub_PublishBoardEvent tests serialization and the timestamp default.
func TestHub_PublishBoardEvent(t *testing.T) {
	hub := NewHub()

	hub.PublishBoardEvent(BoardEvent{
		Type:         EventTaskClaimed,
		ProjectID:    "p1",
		AssignmentID: "a1",
		TaskID:       "t1",
		UserName:     "Ana",
	})

	select {
	case payload := <-hub.Broadcast:
		var event BoardEvent
		require.NoError(t, json.Unmarshal(payload, &event))
		assert.Equal(t, EventTaskClaimed, event.Type)
		assert.Equal(t, "t1", event.TaskID)
		assert.False(t, event.At.IsZero())
	case <-time.After(time.Second):
		t.Fatal("expected a broadcast payload")
	}
}

// TestHub_PublishBoardEvent_FullQueue tests that a saturated broadcast queue
// drops events instead of blocking the publisher.
func TestHub_PublishBoardEvent_FullQueue(t *testing.T) {
	hub := NewHub()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < cap(hub.Broadcast)+10; i++ {
			hub.PublishBoardEvent(BoardEvent{Type: EventTasksIngested, Count: i})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher blocked on a full broadcast queue")
	}
	assert.Len(t, hub.Broadcast, cap(hub.Broadcast))
}

// TestHub_RegisterUnregister tests client bookkeeping through the run loop.
func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{Hub: hub, Send: make(chan []byte, 8)}
	hub.Register <- client
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.PublishBoardEvent(BoardEvent{Type: EventTaskTransitioned, TaskID: "t1"})
	select {
	case payload := <-client.Send:
		assert.Contains(t, string(payload), EventTaskTransitioned)
	case <-time.After(time.Second):
		t.Fatal("client did not receive the broadcast")
	}

	hub.Unregister <- client
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)

	// The send channel is closed on unregister.
	_, open := <-client.Send
	assert.False(t, open)
}
