package room

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// The relays never store anything: sync commands, comments and
// reactions are broadcast once and dropped.

type SyncPlaybackParams struct {
	ClientId    string
	VideoId     string
	Action      string
	CurrentTime float64
}

type SyncPlaybackResponse struct {
	Action      string
	CurrentTime float64
	Timestamp   int64
	Conns       []*websocket.Conn
}

func (s service) SyncPlayback(ctx context.Context, params *SyncPlaybackParams) (SyncPlaybackResponse, error) {
	return SyncPlaybackResponse{
		Action:      params.Action,
		CurrentTime: params.CurrentTime,
		Timestamp:   time.Now().UnixMilli(),
		Conns:       s.roomConns(params.VideoId, params.ClientId),
	}, nil
}

type SendCommentParams struct {
	ClientId  string
	VideoId   string
	UserLabel string
	Message   string
}

type SendCommentResponse struct {
	Id        string
	UserLabel string
	Message   string
	Timestamp int64
	Conns     []*websocket.Conn
}

func (s service) SendComment(ctx context.Context, params *SendCommentParams) (SendCommentResponse, error) {
	return SendCommentResponse{
		Id:        uuid.NewString(),
		UserLabel: params.UserLabel,
		Message:   params.Message,
		Timestamp: time.Now().UnixMilli(),
		// comments go to the whole room, sender included
		Conns: s.roomConns(params.VideoId, ""),
	}, nil
}

type SendReactionParams struct {
	ClientId    string
	VideoId     string
	Reaction    string
	CurrentTime float64
}

type SendReactionResponse struct {
	Reaction    string
	CurrentTime float64
	Timestamp   int64
	Conns       []*websocket.Conn
}

func (s service) SendReaction(ctx context.Context, params *SendReactionParams) (SendReactionResponse, error) {
	return SendReactionResponse{
		Reaction:    params.Reaction,
		CurrentTime: params.CurrentTime,
		Timestamp:   time.Now().UnixMilli(),
		Conns:       s.roomConns(params.VideoId, ""),
	}, nil
}
