// Package realtime implements the in-process registry that maps user
// identities to live websocket channels and fans out named events to
// them. Delivery is best-effort: events for users with no live channel
// are dropped silently, and a failed write never surfaces to callers.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"pawhaven/internal/middleware"
	"pawhaven/internal/observability"

	"github.com/gofiber/websocket/v2"
)

const (
	// Max connections per user (multiple tabs/devices).
	maxConnsPerUser = 12
	// Max total connections for the process.
	maxTotalConns = 10000
)

// Event is the wire envelope for server-to-client events.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Hub maps userID -> set of connected clients. A single Hub instance
// is created at startup and injected into the domain services; it is
// never reached through package-level state.
type Hub struct {
	mu         sync.RWMutex
	conns      map[uint]map[*Client]struct{}
	totalConns int
}

// NewHub creates a new Hub instance.
func NewHub() *Hub {
	return &Hub{
		conns: make(map[uint]map[*Client]struct{}),
	}
}

// Register associates a connection with a user identity. Returns an
// error when connection limits are exceeded.
func (h *Hub) Register(userID uint, conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.totalConns >= maxTotalConns {
		return nil, errors.New("server connection limit reached")
	}

	m, ok := h.conns[userID]
	if !ok {
		m = make(map[*Client]struct{})
		h.conns[userID] = m
	}

	if len(m) >= maxConnsPerUser {
		return nil, errors.New("user connection limit reached")
	}

	client := NewClient(h, conn, userID)
	m[client] = struct{}{}
	h.totalConns++

	return client, nil
}

// UnregisterClient removes a client from its user's room. Safe to call
// more than once and for clients that were never registered.
func (h *Hub) UnregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m, ok := h.conns[client.UserID]; ok {
		if _, exists := m[client]; exists {
			delete(m, client)
			h.totalConns--
		}
		if len(m) == 0 {
			delete(h.conns, client.UserID)
		}
	}
}

// EmitToUser delivers a named event to every channel currently
// associated with the user identity. A user with no channels is a
// no-op. Marshal failures are logged and swallowed.
func (h *Hub) EmitToUser(userID uint, event string, payload any) {
	data, err := json.Marshal(Event{Type: event, Payload: payload})
	if err != nil {
		middleware.Logger.Error("failed to marshal realtime event",
			slog.String("event", event), slog.String("error", err.Error()))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	clients, ok := h.conns[userID]
	if !ok {
		return
	}
	observability.RealtimeEventsTotal.WithLabelValues(event).Inc()
	for c := range clients {
		c.TrySend(data)
	}
}

// IsOnline reports whether a user currently has at least one active channel.
func (h *Hub) IsOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	clients, ok := h.conns[userID]
	return ok && len(clients) > 0
}

// ConnectionCount returns the number of channels for a user.
func (h *Hub) ConnectionCount(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[userID])
}

// Shutdown gracefully closes all websocket connections.
func (h *Hub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, userConns := range h.conns {
		for client := range userConns {
			if client.Conn == nil {
				continue
			}
			if err := client.Conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "Server shutting down")); err != nil {
				middleware.Logger.Warn("failed to write close message",
					slog.Any("user_id", userID), slog.String("error", err.Error()))
			}
			if err := client.Conn.Close(); err != nil {
				middleware.Logger.Warn("failed to close websocket",
					slog.Any("user_id", userID), slog.String("error", err.Error()))
			}
		}
	}
	h.conns = make(map[uint]map[*Client]struct{})
	h.totalConns = 0

	return nil
}
