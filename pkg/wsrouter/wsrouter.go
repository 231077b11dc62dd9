package wsrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
)

var ErrMalformedPayload = errors.New("malformed payload")

type message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type HandlerFunc func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error

// ErrorFunc is called when a handler returns an error or an unknown
// message type arrives. The read loop keeps running afterwards.
type ErrorFunc func(ctx context.Context, conn *websocket.Conn, err error)

type WSRouter struct {
	routes  map[string]HandlerFunc
	onError ErrorFunc
}

func New() *WSRouter {
	return &WSRouter{routes: make(map[string]HandlerFunc)}
}

func (r *WSRouter) OnError(f ErrorFunc) {
	r.onError = f
}

func (r *WSRouter) HandleRaw(messageType string, handler HandlerFunc) {
	r.routes[messageType] = handler
}

// Handle registers a handler with a typed payload. The payload is
// decoded from JSON before the handler runs; a decode failure is
// reported as ErrMalformedPayload.
func Handle[T any](r *WSRouter, messageType string, handler func(ctx context.Context, conn *websocket.Conn, input T) error) {
	r.HandleRaw(messageType, func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
		var input T
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &input); err != nil {
				return fmt.Errorf("%w: %s", ErrMalformedPayload, err)
			}
		}

		return handler(ctx, conn, input)
	})
}

// ServeConn drains messages from conn until a read error occurs.
// Handlers run sequentially, so one connection's messages are never
// reordered relative to each other.
func (r *WSRouter) ServeConn(ctx context.Context, conn *websocket.Conn) error {
	for {
		var msg message
		if err := conn.ReadJSON(&msg); err != nil {
			return err
		}

		handler, ok := r.routes[msg.Type]
		if !ok {
			if r.onError != nil {
				r.onError(ctx, conn, fmt.Errorf("unknown message type: %s", msg.Type))
			}
			continue
		}

		msgCtx := context.WithValue(ctx, messageTypeKey, msg.Type)
		if err := handler(msgCtx, conn, msg.Payload); err != nil {
			if r.onError != nil {
				r.onError(msgCtx, conn, err)
			}
		}
	}
}
