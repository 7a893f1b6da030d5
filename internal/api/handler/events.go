package handler

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/gorilla/websocket"

	"github.com/statsboard/statsboard/internal/api/middleware"
	"github.com/statsboard/statsboard/internal/events"
)

// EventsHandler upgrades GET /api/v1/events to a WebSocket that receives a
// message after every dataset load.
type EventsHandler struct {
	hub      *events.Hub
	upgrader websocket.Upgrader
}

// NewEventsHandler creates a new EventsHandler. Origins lists the allowed
// Origin headers; "*" or an empty list allows any.
func NewEventsHandler(hub *events.Hub, origins []string) *EventsHandler {
	return &EventsHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(origins) == 0 || slices.Contains(origins, "*") || slices.Contains(origins, origin)
			},
		},
	}
}

// ServeHTTP handles the upgrade. Failed upgrades have already been answered
// by the upgrader.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err, "requestId", middleware.GetRequestID(r.Context()))
		return
	}
	h.hub.Attach(conn)
}
