// Package ws implements the real-time event channel: a websocket hub that
// fans events out to authenticated connections by user, by role, or to all.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"fulfillment/internal/adapters/in/auth"
)

// session is one live client connection the hub can push frames to.
type session interface {
	Send(message []byte) error
	Close() error
}

// connection pairs a session with the principal that authenticated it.
type connection struct {
	principal auth.Principal
	session   session
}

// envelope is the wire shape of every pushed event.
type envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Hub keeps the set of live connections and delivers events to them.
// Delivery is best-effort: a connection that errors on write is dropped,
// and a client that connects after an event was emitted never sees it.
type Hub struct {
	mu          sync.RWMutex
	connections map[*connection]struct{}
	logger      *slog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		connections: make(map[*connection]struct{}),
		logger:      logger.With("component", "ws_hub"),
	}
}

// Register adds an authenticated session and returns the handle needed to
// unregister it when the socket closes.
func (h *Hub) Register(principal auth.Principal, s session) *connection {
	conn := &connection{principal: principal, session: s}

	h.mu.Lock()
	h.connections[conn] = struct{}{}
	h.mu.Unlock()

	return conn
}

// Unregister removes a connection. Safe to call more than once.
func (h *Hub) Unregister(conn *connection) {
	h.mu.Lock()
	delete(h.connections, conn)
	h.mu.Unlock()
}

// ConnectionCount reports the number of live connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// PublishToUser delivers an event to every live connection of one user.
func (h *Hub) PublishToUser(ctx context.Context, userID string, event string, payload any) {
	h.deliver(ctx, event, payload, func(c *connection) bool {
		return c.principal.UserID == userID
	})
}

// PublishToRole delivers an event to every connected user holding the role.
func (h *Hub) PublishToRole(ctx context.Context, role string, event string, payload any) {
	h.deliver(ctx, event, payload, func(c *connection) bool {
		return c.principal.Role == role
	})
}

// Broadcast delivers an event to all connections.
func (h *Hub) Broadcast(ctx context.Context, event string, payload any) {
	h.deliver(ctx, event, payload, func(*connection) bool { return true })
}

func (h *Hub) deliver(ctx context.Context, event string, payload any, match func(*connection) bool) {
	message, err := json.Marshal(envelope{Event: event, Data: payload})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to encode event", "event", event, "error", err)
		return
	}

	h.mu.RLock()
	targets := make([]*connection, 0, len(h.connections))
	for conn := range h.connections {
		if match(conn) {
			targets = append(targets, conn)
		}
	}
	h.mu.RUnlock()

	for _, conn := range targets {
		if err := conn.session.Send(message); err != nil {
			h.logger.WarnContext(ctx, "dropping connection after failed send",
				"event", event, "user_id", conn.principal.UserID, "error", err)
			h.Unregister(conn)
			_ = conn.session.Close()
		}
	}
}
