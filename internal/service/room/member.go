package room

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"
)

type ConnectClientParams struct {
	Conn     *websocket.Conn
	ClientId string
}

func (s service) ConnectClient(ctx context.Context, params *ConnectClientParams) error {
	if err := s.connRepo.Add(params.Conn, params.ClientId); err != nil {
		s.logger.InfoContext(ctx, "failed to connect client", "client_id", params.ClientId, "error", err)
		return fmt.Errorf("%w: %s", ErrAlreadyConnected, params.ClientId)
	}

	return nil
}

type JoinVideoParams struct {
	ClientId  string
	VideoId   string
	UserLabel string
}

type JoinVideoResponse struct {
	ViewerCount int
	UserLabel   string
	Conns       []*websocket.Conn
}

// JoinVideo adds the client to the video's room. Joining is idempotent
// at the set level; a repeated join still triggers a broadcast, which
// mirrors how the room behaves on reconnects.
func (s service) JoinVideo(ctx context.Context, params *JoinVideoParams) (JoinVideoResponse, error) {
	count := s.roomRepo.Join(params.ClientId, params.VideoId, params.UserLabel)

	return JoinVideoResponse{
		ViewerCount: count,
		UserLabel:   params.UserLabel,
		Conns:       s.roomConns(params.VideoId, ""),
	}, nil
}

type LeaveVideoParams struct {
	ClientId string
}

type LeaveVideoResponse struct {
	VideoId     string
	ViewerCount int
	UserLabel   string
	Conns       []*websocket.Conn
}

// LeaveVideo removes the client from its current room. The returned
// conns are the remaining members. ErrNotInRoom when the client has no
// active room; callers treat that as a no-op.
func (s service) LeaveVideo(ctx context.Context, params *LeaveVideoParams) (LeaveVideoResponse, error) {
	session, _ := s.roomRepo.GetSession(params.ClientId)

	videoId, count, ok := s.roomRepo.Leave(params.ClientId)
	if !ok {
		return LeaveVideoResponse{}, ErrNotInRoom
	}

	return LeaveVideoResponse{
		VideoId:     videoId,
		ViewerCount: count,
		UserLabel:   session.UserLabel,
		Conns:       s.roomConns(videoId, ""),
	}, nil
}

type DisconnectClientParams struct {
	Conn *websocket.Conn
}

type DisconnectClientResponse struct {
	VideoId     string
	ViewerCount int
	UserLabel   string
	Left        bool
	Conns       []*websocket.Conn
}

// DisconnectClient tears down a connection: the implicit leave runs
// before the connection mapping is discarded, so room membership never
// outlives its session and the returned count is already final when
// the leave notice goes out.
func (s service) DisconnectClient(ctx context.Context, params *DisconnectClientParams) (DisconnectClientResponse, error) {
	clientId, err := s.connRepo.GetClientId(params.Conn)
	if err != nil {
		return DisconnectClientResponse{}, fmt.Errorf("%w: unknown connection", ErrClientNotFound)
	}

	resp := DisconnectClientResponse{}

	leaveResp, err := s.LeaveVideo(ctx, &LeaveVideoParams{ClientId: clientId})
	if err == nil {
		resp.VideoId = leaveResp.VideoId
		resp.ViewerCount = leaveResp.ViewerCount
		resp.UserLabel = leaveResp.UserLabel
		resp.Conns = leaveResp.Conns
		resp.Left = true
	}

	if _, err := s.connRepo.RemoveByClientId(clientId); err != nil {
		s.logger.InfoContext(ctx, "failed to remove connection", "client_id", clientId, "error", err)
	}

	return resp, nil
}
