package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// ErrConnectionGone marks a push target whose channel is closed. The
// dispatcher prunes such connections from the registry.
var ErrConnectionGone = errors.New("realtime: connection gone")

// Pusher delivers one message to one connection.
type Pusher interface {
	Send(ctx context.Context, connectionID string, message any) error
}

// Hub tracks the live gorilla connections owned by this process and
// serializes writes per connection (gorilla allows one writer at a time).
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*liveConn
	log   *slog.Logger
}

type liveConn struct {
	sock *websocket.Conn
	mu   sync.Mutex
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		conns: make(map[string]*liveConn),
		log:   log,
	}
}

// Add attaches a live socket under the given connection ID.
func (h *Hub) Add(connectionID string, sock *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[connectionID] = &liveConn{sock: sock}
}

// Remove detaches the socket. The caller closes it.
func (h *Hub) Remove(connectionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, connectionID)
}

// Len returns the number of live local connections.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Send writes one JSON message to the connection. A missing or closed
// connection reports ErrConnectionGone.
func (h *Hub) Send(ctx context.Context, connectionID string, message any) error {
	h.mu.RLock()
	lc, ok := h.conns[connectionID]
	h.mu.RUnlock()

	if !ok {
		return ErrConnectionGone
	}

	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	lc.mu.Lock()
	err = lc.sock.WriteMessage(websocket.TextMessage, data)
	lc.mu.Unlock()

	if err != nil {
		// Any write failure on a websocket is terminal for that peer.
		h.Remove(connectionID)
		return errors.Join(ErrConnectionGone, err)
	}
	return nil
}

// CloseAll closes every live socket. Called on shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, lc := range h.conns {
		lc.mu.Lock()
		_ = lc.sock.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
		)
		_ = lc.sock.Close()
		lc.mu.Unlock()
		delete(h.conns, id)
	}
}
