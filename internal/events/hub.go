// Package events pushes dataset load notifications to dashboard pages over
// WebSocket.
package events

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/statsboard/statsboard/internal/catalog"
)

// TypeSnapshotLoaded announces a newly loaded dataset.
const TypeSnapshotLoaded = "snapshot.loaded"

// Message is one server-to-client frame.
type Message struct {
	Type      string    `json:"type"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

// SnapshotLoaded is the payload of TypeSnapshotLoaded.
type SnapshotLoaded struct {
	ID           string            `json:"id"`
	LoadedAt     time.Time         `json:"loadedAt"`
	Competitions []string          `json:"competitions"`
	RecordCount  int               `json:"recordCount"`
	Errors       map[string]string `json:"errors"`
}

// NewSnapshotLoaded builds the announcement for snap.
func NewSnapshotLoaded(snap *catalog.Snapshot) Message {
	return Message{
		Type: TypeSnapshotLoaded,
		Payload: SnapshotLoaded{
			ID:           snap.ID.String(),
			LoadedAt:     snap.LoadedAt,
			Competitions: snap.Competitions,
			RecordCount:  snap.RecordCount(),
			Errors:       snap.Errors(),
		},
		Timestamp: time.Now().UTC(),
	}
}

// Hub tracks connected clients and fans messages out to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// Attach registers conn and starts its pumps. The connection is closed when
// the peer goes away, falls behind, or the hub is closed.
func (h *Hub) Attach(conn *websocket.Conn) string {
	c := newClient(uuid.New().String(), conn)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return c.id
	}
	h.clients[c] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()

	slog.Debug("events client connected", "clientId", c.id, "clients", total)

	go c.writePump()
	go c.readPump(h)
	return c.id
}

// Publish sends msg to every client without blocking. Clients whose buffer is
// full are disconnected.
func (h *Hub) Publish(msg Message) {
	var slow []*client

	h.mu.RLock()
	for c := range h.clients {
		if !c.trySend(msg) {
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		slog.Warn("events client too slow; disconnecting", "clientId", c.id)
		h.detach(c)
	}
}

// PublishSnapshot announces snap. It matches catalog.WithListener.
func (h *Hub) PublishSnapshot(snap *catalog.Snapshot) {
	h.Publish(NewSnapshotLoaded(snap))
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) detach(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		slog.Debug("events client disconnected", "clientId", c.id, "clients", len(h.clients))
	}
}
