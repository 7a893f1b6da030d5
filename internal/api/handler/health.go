package handler

import (
	"net/http"

	"github.com/statsboard/statsboard/internal/api/middleware"
	"github.com/statsboard/statsboard/internal/api/response"
)

// HealthHandler handles the GET /health endpoint.
type HealthHandler struct {
	source  SnapshotSource
	db      DBPinger
	version string
}

// NewHealthHandler creates a new HealthHandler. db may be nil when no
// database is configured.
func NewHealthHandler(source SnapshotSource, db DBPinger, version string) *HealthHandler {
	return &HealthHandler{
		source:  source,
		db:      db,
		version: version,
	}
}

type datasetStatus struct {
	Loaded       bool              `json:"loaded"`
	LoadID       *string           `json:"loadId"`
	LoadedAt     *string           `json:"loadedAt"`
	Competitions int               `json:"competitions"`
	Errors       map[string]string `json:"errors"`
}

type databaseStatus struct {
	Configured bool `json:"configured"`
	Connected  bool `json:"connected"`
}

type healthData struct {
	Status   string         `json:"status"`
	Version  string         `json:"version"`
	Dataset  datasetStatus  `json:"dataset"`
	Database databaseStatus `json:"database"`
}

// ServeHTTP handles the health check request.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	status := "healthy"
	ds := datasetStatus{Errors: map[string]string{}}
	if snap, err := h.source.Current(); err == nil {
		id := snap.ID.String()
		loadedAt := formatTime(snap.LoadedAt)
		ds = datasetStatus{
			Loaded:       true,
			LoadID:       &id,
			LoadedAt:     &loadedAt,
			Competitions: len(snap.Competitions),
			Errors:       snap.Errors(),
		}
	} else {
		status = "degraded"
	}

	db := databaseStatus{Configured: h.db != nil}
	if h.db != nil {
		db.Connected = h.db.Ping(r.Context()) == nil
		if !db.Connected {
			status = "degraded"
		}
	}

	data := healthData{
		Status:   status,
		Version:  h.version,
		Dataset:  ds,
		Database: db,
	}

	response.Success(w, http.StatusOK, data, requestID)
}
