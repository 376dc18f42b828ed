package feed

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivelinehq/driveline/internal/sync"
)

func newFeedServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()

	hub := NewHub()
	router := gin.New()
	router.GET("/api/v1/events", hub.WebsocketHandler)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return hub, srv
}

func dialFeed(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := strings.Replace(srv.URL, "http://", "ws://", 1) + "/api/v1/events"
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	return conn
}

func waitSubscribers(t *testing.T, hub *Hub, want int) {
	t.Helper()

	deadline := time.After(3 * time.Second)
	for hub.Subscribers() != want {
		select {
		case <-deadline:
			t.Fatalf("subscribers never reached %d", want)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestHub_BroadcastsNotifications(t *testing.T) {
	hub, srv := newFeedServer(t)

	conn := dialFeed(t, srv)
	defer conn.Close(websocket.StatusNormalClosure, "done")
	waitSubscribers(t, hub, 1)

	sent := &sync.Notification{
		OwnerID:  "owner1",
		Kind:     sync.EventCreated,
		FileName: "notes.md",
	}
	require.NoError(t, hub.Notify(context.Background(), sent))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var got sync.Notification
	require.NoError(t, wsjson.Read(ctx, conn, &got))
	assert.Equal(t, "owner1", got.OwnerID)
	assert.Equal(t, sync.EventCreated, got.Kind)
	assert.Equal(t, "notes.md", got.FileName)
}

func TestHub_FanOutToAllSubscribers(t *testing.T) {
	hub, srv := newFeedServer(t)

	connA := dialFeed(t, srv)
	defer connA.Close(websocket.StatusNormalClosure, "done")
	connB := dialFeed(t, srv)
	defer connB.Close(websocket.StatusNormalClosure, "done")
	waitSubscribers(t, hub, 2)

	require.NoError(t, hub.Notify(context.Background(), &sync.Notification{
		OwnerID:  "owner1",
		Kind:     sync.EventModified,
		FileName: "a.md",
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, conn := range []*websocket.Conn{connA, connB} {
		var got sync.Notification
		require.NoError(t, wsjson.Read(ctx, conn, &got))
		assert.Equal(t, "a.md", got.FileName)
	}
}

func TestHub_RemovesClosedSubscribers(t *testing.T) {
	hub, srv := newFeedServer(t)

	conn := dialFeed(t, srv)
	waitSubscribers(t, hub, 1)

	conn.Close(websocket.StatusNormalClosure, "done")
	waitSubscribers(t, hub, 0)

	// no subscribers left, broadcast is a no-op
	require.NoError(t, hub.Notify(context.Background(), &sync.Notification{OwnerID: "owner1"}))
}

func TestHub_Shutdown(t *testing.T) {
	hub, srv := newFeedServer(t)

	conn := dialFeed(t, srv)
	defer conn.Close(websocket.StatusNormalClosure, "done")
	waitSubscribers(t, hub, 1)

	hub.Shutdown(context.Background())
	assert.Equal(t, 0, hub.Subscribers())
}
