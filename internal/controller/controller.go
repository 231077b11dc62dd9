package controller

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/vidsync/server/internal/library"
	"github.com/vidsync/server/internal/service/room"
	"github.com/vidsync/server/pkg/validator"
)

type iRoomService interface {
	ConnectClient(context.Context, *room.ConnectClientParams) error
	DisconnectClient(context.Context, *room.DisconnectClientParams) (room.DisconnectClientResponse, error)
	JoinVideo(context.Context, *room.JoinVideoParams) (room.JoinVideoResponse, error)
	LeaveVideo(context.Context, *room.LeaveVideoParams) (room.LeaveVideoResponse, error)
	UpdateProgress(context.Context, *room.UpdateProgressParams) (room.UpdateProgressResponse, error)
	GetProgress(context.Context, *room.GetProgressParams) (room.GetProgressResponse, error)
	SyncPlayback(context.Context, *room.SyncPlaybackParams) (room.SyncPlaybackResponse, error)
	SendComment(context.Context, *room.SendCommentParams) (room.SendCommentResponse, error)
	SendReaction(context.Context, *room.SendReactionParams) (room.SendReactionResponse, error)
}

type iLibrary interface {
	Get(id string) (library.Video, error)
	List() []library.Video
}

type Config struct {
	// ChunkWindow caps the byte span served for open-ended range
	// requests and for live-channel chunk transfers.
	ChunkWindow int64
}

type controller struct {
	roomService iRoomService
	library     iLibrary
	upgrader    websocket.Upgrader
	validate    *validator.Validator
	logger      *slog.Logger
	chunkWindow int64

	// gorilla allows one concurrent writer per conn; broadcasts from
	// different rooms' handlers can target the same conn, so every
	// write goes through a per-conn lock.
	writeMu sync.Mutex
	writers map[*websocket.Conn]*sync.Mutex
}

func NewController(roomService iRoomService, lib iLibrary, cfg *Config, logger *slog.Logger) *controller {
	return &controller{
		roomService: roomService,
		library:     lib,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		validate:    validator.NewValidator(),
		logger:      logger,
		chunkWindow: cfg.ChunkWindow,
		writers:     make(map[*websocket.Conn]*sync.Mutex),
	}
}
