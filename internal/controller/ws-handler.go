package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/vidsync/server/internal/library"
	"github.com/vidsync/server/internal/service/room"
	"github.com/vidsync/server/internal/stream"
)

var ErrValidation = errors.New("validation error")

type viewerUpdatePayload struct {
	ViewerCount int    `json:"viewerCount"`
	Message     string `json:"message"`
}

type viewerCountPayload struct {
	Count int `json:"count"`
}

type JoinVideoInput struct {
	VideoId string `json:"videoId" validate:"required"`
	UserId  string `json:"userId" validate:"required"`
}

func (c *controller) handleJoinVideo(ctx context.Context, conn *websocket.Conn, input JoinVideoInput) error {
	if validationErrors, ok := c.validate.Validate(input); !ok {
		return fmt.Errorf("%w: %v", ErrValidation, validationErrors)
	}

	clientId := c.getClientIdFromCtx(ctx)

	joinResp, err := c.roomService.JoinVideo(ctx, &room.JoinVideoParams{
		ClientId:  clientId,
		VideoId:   input.VideoId,
		UserLabel: input.UserId,
	})
	if err != nil {
		return fmt.Errorf("failed to join video: %w", err)
	}

	c.broadcastViewerChange(ctx, joinResp.Conns, joinResp.ViewerCount,
		fmt.Sprintf("%s joined the video", input.UserId))

	return nil
}

type LeaveVideoInput struct {
	VideoId string `json:"videoId"`
}

func (c *controller) handleLeaveVideo(ctx context.Context, conn *websocket.Conn, input LeaveVideoInput) error {
	clientId := c.getClientIdFromCtx(ctx)

	leaveResp, err := c.roomService.LeaveVideo(ctx, &room.LeaveVideoParams{ClientId: clientId})
	if err != nil {
		if errors.Is(err, room.ErrNotInRoom) {
			return nil
		}
		return fmt.Errorf("failed to leave video: %w", err)
	}

	c.broadcastViewerChange(ctx, leaveResp.Conns, leaveResp.ViewerCount,
		fmt.Sprintf("%s left the video", leaveResp.UserLabel))

	return nil
}

type ProgressUpdateInput struct {
	VideoId     string  `json:"videoId" validate:"required"`
	UserId      string  `json:"userId" validate:"required"`
	CurrentTime float64 `json:"currentTime" validate:"gte=0"`
	Duration    float64 `json:"duration" validate:"gte=0"`
	Percentage  float64 `json:"percentage"`
}

func (c *controller) handleProgressUpdate(ctx context.Context, conn *websocket.Conn, input ProgressUpdateInput) error {
	if validationErrors, ok := c.validate.Validate(input); !ok {
		return fmt.Errorf("%w: %v", ErrValidation, validationErrors)
	}

	clientId := c.getClientIdFromCtx(ctx)

	updateResp, err := c.roomService.UpdateProgress(ctx, &room.UpdateProgressParams{
		ClientId:    clientId,
		VideoId:     input.VideoId,
		UserLabel:   input.UserId,
		CurrentTime: input.CurrentTime,
		Duration:    input.Duration,
		Percentage:  input.Percentage,
	})
	if err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}

	c.broadcast(ctx, updateResp.Conns, &Output{
		Type: "viewer-progress",
		Payload: map[string]any{
			"userId":      input.UserId,
			"currentTime": input.CurrentTime,
			"percentage":  input.Percentage,
		},
	})

	return nil
}

type GetProgressInput struct {
	VideoId string `json:"videoId" validate:"required"`
	UserId  string `json:"userId" validate:"required"`
}

func (c *controller) handleGetProgress(ctx context.Context, conn *websocket.Conn, input GetProgressInput) error {
	if validationErrors, ok := c.validate.Validate(input); !ok {
		return fmt.Errorf("%w: %v", ErrValidation, validationErrors)
	}

	getResp, err := c.roomService.GetProgress(ctx, &room.GetProgressParams{
		VideoId:   input.VideoId,
		UserLabel: input.UserId,
	})
	if err != nil {
		return fmt.Errorf("failed to get progress: %w", err)
	}

	// point response to the sender, never broadcast
	return c.writeToConn(ctx, conn, &Output{
		Type: "progress-data",
		Payload: map[string]any{
			"record": getResp.Record,
		},
	})
}

type SyncPlaybackInput struct {
	VideoId     string  `json:"videoId" validate:"required"`
	Action      string  `json:"action" validate:"required,oneof=play pause seek"`
	CurrentTime float64 `json:"currentTime" validate:"gte=0"`
}

func (c *controller) handleSyncPlayback(ctx context.Context, conn *websocket.Conn, input SyncPlaybackInput) error {
	if validationErrors, ok := c.validate.Validate(input); !ok {
		return fmt.Errorf("%w: %v", ErrValidation, validationErrors)
	}

	clientId := c.getClientIdFromCtx(ctx)

	syncResp, err := c.roomService.SyncPlayback(ctx, &room.SyncPlaybackParams{
		ClientId:    clientId,
		VideoId:     input.VideoId,
		Action:      input.Action,
		CurrentTime: input.CurrentTime,
	})
	if err != nil {
		return fmt.Errorf("failed to sync playback: %w", err)
	}

	c.broadcast(ctx, syncResp.Conns, &Output{
		Type: "playback-sync",
		Payload: map[string]any{
			"action":      syncResp.Action,
			"currentTime": syncResp.CurrentTime,
			"timestamp":   syncResp.Timestamp,
		},
	})

	return nil
}

type SendCommentInput struct {
	VideoId string `json:"videoId" validate:"required"`
	UserId  string `json:"userId" validate:"required"`
	Message string `json:"message" validate:"required,max=1000"`
}

func (c *controller) handleSendComment(ctx context.Context, conn *websocket.Conn, input SendCommentInput) error {
	if validationErrors, ok := c.validate.Validate(input); !ok {
		return fmt.Errorf("%w: %v", ErrValidation, validationErrors)
	}

	clientId := c.getClientIdFromCtx(ctx)

	commentResp, err := c.roomService.SendComment(ctx, &room.SendCommentParams{
		ClientId:  clientId,
		VideoId:   input.VideoId,
		UserLabel: input.UserId,
		Message:   input.Message,
	})
	if err != nil {
		return fmt.Errorf("failed to send comment: %w", err)
	}

	c.broadcast(ctx, commentResp.Conns, &Output{
		Type: "new-comment",
		Payload: map[string]any{
			"id":        commentResp.Id,
			"userId":    commentResp.UserLabel,
			"message":   commentResp.Message,
			"timestamp": commentResp.Timestamp,
		},
	})

	return nil
}

type SendReactionInput struct {
	VideoId     string  `json:"videoId" validate:"required"`
	Reaction    string  `json:"reaction" validate:"required,max=32"`
	CurrentTime float64 `json:"currentTime" validate:"gte=0"`
}

func (c *controller) handleSendReaction(ctx context.Context, conn *websocket.Conn, input SendReactionInput) error {
	if validationErrors, ok := c.validate.Validate(input); !ok {
		return fmt.Errorf("%w: %v", ErrValidation, validationErrors)
	}

	clientId := c.getClientIdFromCtx(ctx)

	reactionResp, err := c.roomService.SendReaction(ctx, &room.SendReactionParams{
		ClientId:    clientId,
		VideoId:     input.VideoId,
		Reaction:    input.Reaction,
		CurrentTime: input.CurrentTime,
	})
	if err != nil {
		return fmt.Errorf("failed to send reaction: %w", err)
	}

	c.broadcast(ctx, reactionResp.Conns, &Output{
		Type: "video-reaction",
		Payload: map[string]any{
			"reaction":    reactionResp.Reaction,
			"currentTime": reactionResp.CurrentTime,
			"timestamp":   reactionResp.Timestamp,
		},
	})

	return nil
}

type StreamRequestInput struct {
	VideoId   string `json:"videoId" validate:"required"`
	Start     int64  `json:"start" validate:"gte=0"`
	ChunkSize int64  `json:"chunkSize"`
}

// handleStreamRequest serves one bounded chunk of the file over the
// live channel. Errors go to the sender as a stream-error event, they
// never fail the connection.
func (c *controller) handleStreamRequest(ctx context.Context, conn *websocket.Conn, input StreamRequestInput) error {
	if validationErrors, ok := c.validate.Validate(input); !ok {
		return fmt.Errorf("%w: %v", ErrValidation, validationErrors)
	}

	video, err := c.library.Get(input.VideoId)
	if err != nil {
		message := "stream error"
		switch {
		case errors.Is(err, library.ErrNotFound):
			message = "video not found"
		case errors.Is(err, library.ErrAccessDenied):
			message = "access denied"
		}
		return c.writeStreamError(ctx, conn, message)
	}

	if input.Start >= video.Size {
		return c.writeStreamError(ctx, conn, "range not satisfiable")
	}

	window := c.chunkWindow
	if input.ChunkSize > 0 && input.ChunkSize < window {
		window = input.ChunkSize
	}

	end := input.Start + window - 1
	if end > video.Size-1 {
		end = video.Size - 1
	}

	plan := stream.Plan{Start: input.Start, End: end, Size: video.Size, Partial: true}
	data, err := stream.ReadWindow(video.Path, plan)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to read chunk", "video_id", input.VideoId, "error", err)
		return c.writeStreamError(ctx, conn, "stream error")
	}

	return c.writeToConn(ctx, conn, &Output{
		Type: "stream-chunk",
		Payload: map[string]any{
			"data":    data,
			"start":   plan.Start,
			"end":     plan.End,
			"total":   plan.Size,
			"hasMore": plan.End < plan.Size-1,
		},
	})
}

func (c *controller) writeStreamError(ctx context.Context, conn *websocket.Conn, message string) error {
	return c.writeToConn(ctx, conn, &Output{
		Type:    "stream-error",
		Payload: map[string]any{"error": message},
	})
}
