package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	stdsync "sync"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/drivelinehq/driveline/internal/server/handlers/api"
	"github.com/drivelinehq/driveline/internal/sync"
)

// Hub broadcasts sync completion notices to websocket subscribers.
// It implements sync.Notifier, so it can sit next to the chat notifier in a
// MultiNotifier.
type Hub struct {
	mu      stdsync.RWMutex
	clients map[string]*feedClient
	wg      stdsync.WaitGroup
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*feedClient),
	}
}

// WebsocketHandler upgrades the connection and subscribes it to the feed.
func (h *Hub) WebsocketHandler(ctx *gin.Context) {
	conn, err := websocket.Accept(ctx.Writer, ctx.Request, nil)
	if err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest, fmt.Errorf("websocket accept failed: %w", err))
		return
	}

	client := newFeedClient(conn, uuid.NewString())
	client.Start(context.Background())

	h.mu.Lock()
	h.clients[client.ConnID] = client
	active := len(h.clients)
	h.mu.Unlock()
	slog.Debug("feed registered", "connId", client.ConnID, "active", active)

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		<-client.Closed

		h.mu.Lock()
		delete(h.clients, client.ConnID)
		active := len(h.clients)
		h.mu.Unlock()
		slog.Debug("feed removed", "connId", client.ConnID, "active", active)
	}()
}

// Notify implements sync.Notifier by broadcasting to every subscriber.
// Slow subscribers get dropped notices rather than blocking the pipeline.
func (h *Hub) Notify(ctx context.Context, n *sync.Notification) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		select {
		case client.Tx <- n:
		default:
			slog.Warn("feed send buffer full", "connId", client.ConnID, "owner", n.OwnerID)
		}
	}
	return nil
}

// Subscribers returns the number of connected clients.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Shutdown(ctx context.Context) {
	h.mu.Lock()
	clients := make([]*feedClient, 0, len(h.clients))
	for _, client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.Unlock()

	for _, client := range clients {
		client.Close()
	}

	h.wg.Wait()
	slog.Info("feed hub shutdown")
}

var _ sync.Notifier = (*Hub)(nil)
