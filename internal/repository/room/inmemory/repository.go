package inmemory

import (
	"sync"
	"time"
)

type Session struct {
	VideoId   string
	UserLabel string
	JoinedAt  time.Time
}

// Repo owns both the room membership sets and the per-client sessions
// under one mutex, so a client is in a room's set exactly when its
// session points at that room. Rooms are keyed by the opaque video id.
type Repo struct {
	mu       sync.RWMutex
	rooms    map[string]map[string]struct{}
	sessions map[string]Session
}

func NewRepo() *Repo {
	return &Repo{
		rooms:    make(map[string]map[string]struct{}),
		sessions: make(map[string]Session),
	}
}

// Join adds the client to videoId's room and creates or updates its
// session. A client already in another room is moved. Returns the new
// member count of the joined room.
func (r *Repo) Join(clientId, videoId, userLabel string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session, ok := r.sessions[clientId]; ok && session.VideoId != "" && session.VideoId != videoId {
		r.removeLocked(clientId, session.VideoId)
	}

	room, ok := r.rooms[videoId]
	if !ok {
		room = make(map[string]struct{})
		r.rooms[videoId] = room
	}
	room[clientId] = struct{}{}

	r.sessions[clientId] = Session{
		VideoId:   videoId,
		UserLabel: userLabel,
		JoinedAt:  time.Now(),
	}

	return len(room)
}

// Leave removes the client from its current room and deletes the
// session. Returns the room it left and the remaining member count;
// ok is false when the client had no session.
func (r *Repo) Leave(clientId string) (videoId string, count int, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[clientId]
	if !ok {
		return "", 0, false
	}

	delete(r.sessions, clientId)

	if session.VideoId == "" {
		return "", 0, false
	}

	r.removeLocked(clientId, session.VideoId)
	return session.VideoId, len(r.rooms[session.VideoId]), true
}

// removeLocked drops clientId from videoId's set and deletes the room
// entry entirely once empty.
func (r *Repo) removeLocked(clientId, videoId string) {
	room, ok := r.rooms[videoId]
	if !ok {
		return
	}

	delete(room, clientId)
	if len(room) == 0 {
		delete(r.rooms, videoId)
	}
}

func (r *Repo) Members(videoId string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room := r.rooms[videoId]
	members := make([]string, 0, len(room))
	for clientId := range room {
		members = append(members, clientId)
	}

	return members
}

func (r *Repo) Count(videoId string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rooms[videoId])
}

func (r *Repo) HasRoom(videoId string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.rooms[videoId]
	return ok
}

func (r *Repo) GetSession(clientId string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[clientId]
	return session, ok
}
