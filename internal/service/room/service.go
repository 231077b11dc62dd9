package room

import (
	"errors"
	"log/slog"

	"github.com/gorilla/websocket"

	progressrepo "github.com/vidsync/server/internal/repository/progress/inmemory"
	roomrepo "github.com/vidsync/server/internal/repository/room/inmemory"
)

var (
	ErrNotInRoom        = errors.New("client is not in a room")
	ErrClientNotFound   = errors.New("client not found")
	ErrAlreadyConnected = errors.New("client already connected")
)

type iRoomRepo interface {
	Join(clientId, videoId, userLabel string) int
	Leave(clientId string) (videoId string, count int, ok bool)
	Members(videoId string) []string
	Count(videoId string) int
	GetSession(clientId string) (roomrepo.Session, bool)
}

type iConnRepo interface {
	Add(conn *websocket.Conn, clientId string) error
	RemoveByClientId(clientId string) (*websocket.Conn, error)
	GetClientId(conn *websocket.Conn) (string, error)
	GetConn(clientId string) (*websocket.Conn, error)
	GetConns(clientIds []string) []*websocket.Conn
}

type iProgressRepo interface {
	Set(userLabel, videoId string, record progressrepo.Record)
	Get(userLabel, videoId string) (progressrepo.Record, bool)
}

type service struct {
	roomRepo     iRoomRepo
	connRepo     iConnRepo
	progressRepo iProgressRepo
	logger       *slog.Logger
}

func NewService(roomRepo iRoomRepo, connRepo iConnRepo, progressRepo iProgressRepo, logger *slog.Logger) *service {
	return &service{
		roomRepo:     roomRepo,
		connRepo:     connRepo,
		progressRepo: progressRepo,
		logger:       logger,
	}
}

// roomConns returns the connections of every member of videoId's room,
// skipping excludeClientId when non-empty.
func (s service) roomConns(videoId, excludeClientId string) []*websocket.Conn {
	memberIds := s.roomRepo.Members(videoId)

	if excludeClientId != "" {
		filtered := memberIds[:0]
		for _, memberId := range memberIds {
			if memberId != excludeClientId {
				filtered = append(filtered, memberId)
			}
		}
		memberIds = filtered
	}

	return s.connRepo.GetConns(memberIds)
}
