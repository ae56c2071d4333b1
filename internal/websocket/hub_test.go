package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"airicepest-be/internal/pkg/logger"
	"airicepest-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(logger.NewNopLogger())
	go hub.Run(ctx)
	return hub, cancel
}

func TestHub_BroadcastReachesClients(t *testing.T) {
	hub, cancel := startHub(t)
	defer cancel()

	a := &Client{Hub: hub, UserID: uuid.New(), Send: make(chan []byte, 4)}
	b := &Client{Hub: hub, UserID: uuid.New(), Send: make(chan []byte, 4)}
	hub.register <- a
	hub.register <- b
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	at := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	hub.Broadcast(events.New(events.FeedbackSubmitted, at, map[string]interface{}{"id": "f1"}))

	for _, c := range []*Client{a, b} {
		select {
		case msg := <-c.Send:
			var decoded map[string]interface{}
			require.NoError(t, json.Unmarshal(msg, &decoded))
			assert.Equal(t, events.FeedbackSubmitted, decoded["type"])
			assert.Equal(t, map[string]interface{}{"id": "f1"}, decoded["data"])
		case <-time.After(time.Second):
			t.Fatal("client did not receive broadcast")
		}
	}
}

func TestHub_Unregister(t *testing.T) {
	hub, cancel := startHub(t)
	defer cancel()

	c := &Client{Hub: hub, UserID: uuid.New(), Send: make(chan []byte, 1)}
	hub.register <- c
	hub.unregister <- c
	hub.unregister <- c // second unregister is a no-op

	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
	_, open := <-c.Send
	assert.False(t, open)
}

func TestHub_DropsSlowClient(t *testing.T) {
	hub, cancel := startHub(t)
	defer cancel()

	slow := &Client{Hub: hub, UserID: uuid.New(), Send: make(chan []byte)} // unbuffered, never read
	hub.register <- slow

	hub.Broadcast(events.New(events.UserLogin, time.Now(), nil))
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestHub_LeaveAndJoinAfterStop(t *testing.T) {
	hub, cancel := startHub(t)
	c := &Client{Hub: hub, UserID: uuid.New(), Send: make(chan []byte, 1)}
	require.True(t, hub.join(c))
	cancel()

	left := make(chan struct{})
	go func() {
		hub.leave(c)
		close(left)
	}()
	select {
	case <-left:
	case <-time.After(time.Second):
		t.Fatal("leave blocked after the hub stopped")
	}

	select {
	case <-hub.done:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
	late := &Client{Hub: hub, UserID: uuid.New(), Send: make(chan []byte, 1)}
	assert.False(t, hub.join(late))
}

func TestHub_StopClosesClients(t *testing.T) {
	hub, cancel := startHub(t)
	c := &Client{Hub: hub, UserID: uuid.New(), Send: make(chan []byte, 1)}
	hub.register <- c
	cancel()

	select {
	case _, open := <-c.Send:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("send channel not closed on shutdown")
	}
}
