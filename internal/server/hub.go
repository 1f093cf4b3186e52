package server

import (
	"context"
	"encoding/json"
	"sync"

	charmlog "github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/specmap/specmap/pkg/observability"
)

// Event is the envelope for every websocket message pushed to clients.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Hub tracks connected websocket clients and fans events out to them.
// Clients that fail a write are dropped; slow readers are the client's
// problem, not the server's.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	logger  *charmlog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *charmlog.Logger) *Hub {
	if logger == nil {
		logger = charmlog.Default()
	}
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
		logger:  logger,
	}
}

// Register adds a client connection.
func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
	h.logger.Debug("client connected", "clients", len(h.clients))
}

// Unregister removes a client connection and closes it.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[conn] {
		delete(h.clients, conn)
		_ = conn.Close()
	}
	h.logger.Debug("client disconnected", "clients", len(h.clients))
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast sends an event to every connected client. The payload is
// marshalled once; clients whose write fails are dropped.
func (h *Hub) Broadcast(ctx context.Context, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("marshal broadcast payload", "event", event, "err", err)
		return
	}
	msg, err := json.Marshal(Event{Type: event, Data: data})
	if err != nil {
		h.logger.Error("marshal broadcast envelope", "event", event, "err", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			delete(h.clients, conn)
			_ = conn.Close()
		}
	}
	observability.Server().OnBroadcast(ctx, event, len(h.clients))
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		_ = conn.Close()
		delete(h.clients, conn)
	}
}
