package controller

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vidsync/server/internal/service/room"
	"github.com/vidsync/server/pkg/ctxlogger"
)

func (c *controller) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade to websocket", "error", err)
		return
	}

	clientId := uuid.NewString()
	ctx := context.WithValue(r.Context(), clientIdCtxKey, clientId)
	ctx = ctxlogger.AppendCtx(ctx, slog.String("client_id", clientId))

	c.registerWriter(conn)
	defer c.disconnect(ctx, conn)

	if err := c.roomService.ConnectClient(ctx, &room.ConnectClientParams{
		Conn:     conn,
		ClientId: clientId,
	}); err != nil {
		c.logger.WarnContext(ctx, "failed to connect client", "error", err)
		return
	}

	c.logger.InfoContext(ctx, "client connected")

	if err := c.getWSRouter().ServeConn(ctx, conn); err != nil {
		c.logger.DebugContext(ctx, "read loop ended", "error", err)
	}
}

// disconnect runs the implicit leave before the connection is
// discarded: membership is gone and the count final by the time the
// leave notice reaches the remaining members.
func (c *controller) disconnect(ctx context.Context, conn *websocket.Conn) {
	resp, err := c.roomService.DisconnectClient(ctx, &room.DisconnectClientParams{Conn: conn})
	if err != nil {
		c.logger.InfoContext(ctx, "failed to disconnect client", "error", err)
	} else if resp.Left {
		c.broadcastViewerChange(ctx, resp.Conns, resp.ViewerCount, fmt.Sprintf("%s left the video", resp.UserLabel))
	}

	c.unregisterWriter(conn)
	conn.Close()

	c.logger.InfoContext(ctx, "client disconnected")
}

func (c *controller) broadcastViewerChange(ctx context.Context, conns []*websocket.Conn, count int, message string) {
	c.broadcast(ctx, conns, &Output{
		Type: "viewer-update",
		Payload: viewerUpdatePayload{
			ViewerCount: count,
			Message:     message,
		},
	})
	c.broadcast(ctx, conns, &Output{
		Type:    "viewer-count",
		Payload: viewerCountPayload{Count: count},
	})
}
