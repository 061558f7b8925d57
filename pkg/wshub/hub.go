package wshub

import (
	"context"
	"errors"
	"sync"

	"github.com/fieldworks/fleet-tracking/pkg/logger"
	wrap "github.com/fieldworks/fleet-tracking/pkg/logger/wrapper"
	"github.com/google/uuid"
)

var (
	ErrEmptyConn      = errors.New("connection is empty")
	ErrConnIsNotFound = errors.New("connection not found")
)

// Hub keeps all active dispatch-console WebSocket connections and broadcasts
// live location updates to them.
type Hub struct {
	clients map[uuid.UUID]*Conn
	l       logger.Logger
	mu      sync.Mutex
}

func NewHub(l logger.Logger) *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]*Conn),
		l:       l,
	}
}

// Add registers a connection. An existing connection for the same client is
// closed and replaced.
func (h *Hub) Add(newConn *Conn) error {
	if newConn == nil {
		return ErrEmptyConn
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := wrap.WithAction(context.Background(), "add_ws_connection")

	if existing, ok := h.clients[newConn.clientID]; ok {
		h.l.Warn(ctx, "replacing existing connection", "client_id", existing.clientID)
		if err := existing.Close(); err != nil {
			h.l.Warn(ctx, "failed to close existing conn",
				"client_id", existing.clientID,
				"err", err.Error(),
			)
		}
	}

	h.clients[newConn.clientID] = newConn
	return nil
}

// Remove closes conn and evicts it only if it is still the registered
// connection for its client. A connection already replaced by Add is closed
// without touching the replacement, so a stale handler cleaning up after a
// reconnect cannot drop the live connection.
func (h *Hub) Remove(conn *Conn) error {
	if conn == nil {
		return ErrEmptyConn
	}

	h.mu.Lock()
	current, registered := h.clients[conn.clientID]
	if registered && current == conn {
		delete(h.clients, conn.clientID)
	}
	h.mu.Unlock()

	if err := conn.Close(); err != nil {
		h.l.Warn(wrap.WithAction(context.Background(), "ws_connection_remove"),
			"failed to close conn",
			"client_id", conn.clientID,
			"err", err.Error(),
		)
	}

	if !registered || current != conn {
		return ErrConnIsNotFound
	}
	return nil
}

// Delete removes and closes the connection for clientID.
func (h *Hub) Delete(clientID uuid.UUID) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn, ok := h.clients[clientID]
	if !ok {
		return ErrConnIsNotFound
	}

	if err := conn.Close(); err != nil {
		h.l.Warn(wrap.WithAction(context.Background(), "ws_connection_delete"),
			"failed to close conn",
			"client_id", clientID,
			"err", err.Error(),
		)
	}

	delete(h.clients, clientID)
	return nil
}

// Broadcast sends msg to every connected client. Connections that fail to
// write are dropped.
func (h *Hub) Broadcast(msg any) {
	h.mu.Lock()
	clients := make([]*Conn, 0, len(h.clients))
	for _, conn := range h.clients {
		clients = append(clients, conn)
	}
	h.mu.Unlock()

	for _, conn := range clients {
		if err := conn.Send(msg); err != nil {
			h.l.Warn(wrap.WithAction(context.Background(), "ws_broadcast"),
				"dropping unresponsive connection",
				"client_id", conn.clientID,
				"err", err.Error(),
			)
			_ = h.Remove(conn)
		}
	}
}

// Len returns the number of active connections.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close closes every connection.
func (h *Hub) Close() {
	ctx := wrap.WithAction(context.Background(), "hub_close")

	h.mu.Lock()
	clients := make([]*Conn, 0, len(h.clients))
	for _, conn := range h.clients {
		clients = append(clients, conn)
	}
	h.mu.Unlock()

	for _, conn := range clients {
		_ = h.Remove(conn)
	}

	h.l.Info(ctx, "all websocket connections closed")
}
