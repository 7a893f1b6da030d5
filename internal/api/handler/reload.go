package handler

import (
	"log/slog"
	"net/http"

	"github.com/statsboard/statsboard/internal/api/middleware"
	"github.com/statsboard/statsboard/internal/api/response"
)

// ReloadHandler handles POST /admin/reload.
type ReloadHandler struct {
	reloader Reloader
}

// NewReloadHandler creates a new ReloadHandler.
func NewReloadHandler(reloader Reloader) *ReloadHandler {
	return &ReloadHandler{reloader: reloader}
}

// ServeHTTP reloads the source file. On failure the previous snapshot stays
// in service.
func (h *ReloadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	snap, err := h.reloader.Reload(r.Context())
	if err != nil {
		slog.Error("forced reload failed", "error", err)
		response.Err(w, http.StatusInternalServerError, response.CodeReloadFailed, err.Error(), requestID)
		return
	}

	response.Success(w, http.StatusOK, toLoadResponse(snap), requestID)
}
