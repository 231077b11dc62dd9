package controller

import (
	"context"

	"github.com/gorilla/websocket"

	"github.com/vidsync/server/pkg/wsrouter"
)

func (c *controller) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()

	// room
	wsrouter.Handle(mux, "join-video", c.handleJoinVideo)
	wsrouter.Handle(mux, "leave-video", c.handleLeaveVideo)

	// playback
	wsrouter.Handle(mux, "sync-playback", c.handleSyncPlayback)
	wsrouter.Handle(mux, "stream-request", c.handleStreamRequest)

	// progress
	wsrouter.Handle(mux, "progress-update", c.handleProgressUpdate)
	wsrouter.Handle(mux, "get-progress", c.handleGetProgress)

	// chat
	wsrouter.Handle(mux, "send-comment", c.handleSendComment)
	wsrouter.Handle(mux, "send-reaction", c.handleSendReaction)

	mux.OnError(func(ctx context.Context, conn *websocket.Conn, err error) {
		c.logger.InfoContext(ctx, "websocket message failed",
			"message_type", wsrouter.GetMessageTypeFromCtx(ctx),
			"error", err,
		)
		c.writeError(ctx, conn, err.Error())
	})

	return mux
}
