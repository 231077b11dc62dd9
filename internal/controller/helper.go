package controller

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"
)

type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

func (c *controller) registerWriter(conn *websocket.Conn) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.writers[conn] = &sync.Mutex{}
}

func (c *controller) unregisterWriter(conn *websocket.Conn) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	delete(c.writers, conn)
}

func (c *controller) writeToConn(ctx context.Context, conn *websocket.Conn, output *Output) error {
	c.writeMu.Lock()
	mu, ok := c.writers[conn]
	c.writeMu.Unlock()
	if !ok {
		// conn already torn down, nothing to deliver to
		return nil
	}

	mu.Lock()
	defer mu.Unlock()

	return conn.WriteJSON(output)
}

// broadcast delivers output to every conn, best-effort: a failed write
// on one member never affects delivery to the others.
func (c *controller) broadcast(ctx context.Context, conns []*websocket.Conn, output *Output) {
	for _, conn := range conns {
		if err := c.writeToConn(ctx, conn, output); err != nil {
			c.logger.InfoContext(ctx, "failed to write to conn", "error", err)
		}
	}
}

func (c *controller) writeError(ctx context.Context, conn *websocket.Conn, message string) {
	if err := c.writeToConn(ctx, conn, &Output{
		Type:    "error",
		Payload: map[string]any{"error": message},
	}); err != nil {
		c.logger.InfoContext(ctx, "failed to write error", "error", err)
	}
}
