package feed

import (
	"context"
	"log/slog"
	stdsync "sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/drivelinehq/driveline/internal/sync"
)

const (
	writeTimeout   = 10 * time.Second
	shutdownReason = "shutdown"
)

// feedClient is one connected event feed subscriber.
type feedClient struct {
	ConnID string
	Tx     chan *sync.Notification
	Closed chan struct{}

	conn      *websocket.Conn
	done      chan struct{}
	closeOnce stdsync.Once
	wg        stdsync.WaitGroup
}

func newFeedClient(conn *websocket.Conn, connID string) *feedClient {
	return &feedClient{
		ConnID: connID,
		Tx:     make(chan *sync.Notification, 64),
		Closed: make(chan struct{}),
		done:   make(chan struct{}),
		conn:   conn,
	}
}

func (c *feedClient) Start(ctx context.Context) {
	slog.Debug("feed client start", "connId", c.ConnID)
	c.wg.Add(2)
	go c.writeLoop(ctx)
	go c.readLoop(ctx)
}

func (c *feedClient) Close() {
	c.closeConnection(websocket.StatusNormalClosure, shutdownReason)
	c.wg.Wait()
}

func (c *feedClient) closeConnection(status websocket.StatusCode, reason string) {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close(status, reason)
		c.wg.Wait()
		close(c.Closed)
		slog.Debug("feed client closed", "connId", c.ConnID)
	})
}

// readLoop only watches for the peer closing the connection. The feed is
// one-way; anything the client sends is discarded.
func (c *feedClient) readLoop(ctx context.Context) {
	defer func() {
		c.wg.Done()
		c.closeConnection(websocket.StatusNormalClosure, shutdownReason)
	}()

	for {
		if _, _, err := c.conn.Read(ctx); err != nil {
			return
		}
	}
}

func (c *feedClient) writeLoop(ctx context.Context) {
	defer func() {
		c.wg.Done()
		c.closeConnection(websocket.StatusNormalClosure, shutdownReason)
	}()

	for {
		select {
		case n := <-c.Tx:
			ctxWrite, cancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(ctxWrite, c.conn, n)
			cancel()
			if err != nil {
				slog.Warn("feed client write", "connId", c.ConnID, "error", err)
				return
			}

		case <-c.done:
			return

		case <-ctx.Done():
			return
		}
	}
}
