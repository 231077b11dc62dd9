package room

import (
	"context"
	"time"

	"github.com/gorilla/websocket"

	progressrepo "github.com/vidsync/server/internal/repository/progress/inmemory"
)

type UpdateProgressParams struct {
	ClientId    string
	VideoId     string
	UserLabel   string
	CurrentTime float64
	Duration    float64
	Percentage  float64
}

type UpdateProgressResponse struct {
	Record progressrepo.Record
	Conns  []*websocket.Conn
}

// UpdateProgress overwrites the (user, video) progress record and
// returns the conns of every other room member.
func (s service) UpdateProgress(ctx context.Context, params *UpdateProgressParams) (UpdateProgressResponse, error) {
	record := progressrepo.Record{
		CurrentTime: params.CurrentTime,
		Duration:    params.Duration,
		Percentage:  params.Percentage,
		LastUpdated: time.Now(),
	}
	s.progressRepo.Set(params.UserLabel, params.VideoId, record)

	return UpdateProgressResponse{
		Record: record,
		Conns:  s.roomConns(params.VideoId, params.ClientId),
	}, nil
}

type GetProgressParams struct {
	VideoId   string
	UserLabel string
}

type GetProgressResponse struct {
	Record *progressrepo.Record
}

// GetProgress returns the last stored record, or a nil Record when the
// (user, video) pair has never reported progress.
func (s service) GetProgress(ctx context.Context, params *GetProgressParams) (GetProgressResponse, error) {
	record, ok := s.progressRepo.Get(params.UserLabel, params.VideoId)
	if !ok {
		return GetProgressResponse{}, nil
	}

	return GetProgressResponse{Record: &record}, nil
}
