// Package websocket notifies connected clients when a sync lands for their
// family. Clients subscribe with a sharing code and only see events for that
// code; there is no cross-family traffic.
package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Event is broadcast to every client watching a sharing code after its rows
// are replaced.
type Event struct {
	Type        string `json:"type"`
	SharingCode string `json:"sharingCode"`
	ChoreCount  int    `json:"choreCount"`
	MemberCount int    `json:"memberCount"`
	SyncedAt    int64  `json:"syncedAt"`
}

// Hub maintains active clients grouped by sharing code.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
	logger  *slog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
		logger:  logger,
	}
}

// Register adds a client under its sharing code.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group, ok := h.clients[c.code]
	if !ok {
		group = make(map[*Client]struct{})
		h.clients[c.code] = group
	}
	group[c] = struct{}{}
	h.logger.Debug("client registered", "code", c.code, "clients", len(group))
}

// Unregister removes a client and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group, ok := h.clients[c.code]
	if !ok {
		return
	}
	if _, ok := group[c]; ok {
		delete(group, c)
		close(c.send)
	}
	if len(group) == 0 {
		delete(h.clients, c.code)
	}
}

// Broadcast sends the event to every client registered under its sharing
// code. Clients with a full send buffer are skipped rather than blocked on.
func (h *Hub) Broadcast(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("marshal event", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[ev.SharingCode] {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("client send buffer full, dropping event", "code", ev.SharingCode)
		}
	}
}

// ClientCount returns how many clients watch the given code.
func (h *Hub) ClientCount(code string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[code])
}
