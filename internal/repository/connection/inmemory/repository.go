package inmemory

import (
	"errors"
	"sync"

	"github.com/gorilla/websocket"
)

var (
	ErrNotFound      = errors.New("connection not found")
	ErrAlreadyExists = errors.New("connection already exists")
)

// Repo is a bidirectional map between live websocket connections and
// client ids.
type Repo struct {
	mu       sync.RWMutex
	connList map[*websocket.Conn]string
	idList   map[string]*websocket.Conn
}

func NewRepo() *Repo {
	return &Repo{
		connList: make(map[*websocket.Conn]string),
		idList:   make(map[string]*websocket.Conn),
	}
}

func (r *Repo) Add(conn *websocket.Conn, clientId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.connList[conn] != "" || r.idList[clientId] != nil {
		return ErrAlreadyExists
	}

	r.connList[conn] = clientId
	r.idList[clientId] = conn

	return nil
}

func (r *Repo) RemoveByClientId(clientId string) (*websocket.Conn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.idList[clientId]
	if !ok {
		return nil, ErrNotFound
	}

	delete(r.connList, conn)
	delete(r.idList, clientId)

	return conn, nil
}

func (r *Repo) GetClientId(conn *websocket.Conn) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clientId, ok := r.connList[conn]
	if !ok {
		return "", ErrNotFound
	}

	return clientId, nil
}

func (r *Repo) GetConn(clientId string) (*websocket.Conn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.idList[clientId]
	if !ok {
		return nil, ErrNotFound
	}

	return conn, nil
}

func (r *Repo) GetConns(clientIds []string) []*websocket.Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := make([]*websocket.Conn, 0, len(clientIds))
	for _, clientId := range clientIds {
		if conn, ok := r.idList[clientId]; ok {
			conns = append(conns, conn)
		}
	}

	return conns
}
