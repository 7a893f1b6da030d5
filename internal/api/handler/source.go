package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/statsboard/statsboard/internal/api/response"
	"github.com/statsboard/statsboard/internal/catalog"
	"github.com/statsboard/statsboard/internal/dashboard"
	"github.com/statsboard/statsboard/internal/dataset"
)

// SnapshotSource provides the currently loaded snapshot.
type SnapshotSource interface {
	Current() (*catalog.Snapshot, error)
}

// Reloader forces a fresh load of the source file.
type Reloader interface {
	Reload(ctx context.Context) (*catalog.Snapshot, error)
}

// DBPinger checks database connectivity.
type DBPinger interface {
	Ping(ctx context.Context) error
}

const timeFormat = "2006-01-02T15:04:05Z"

// loadResponse is the API representation of one load of the source file.
type loadResponse struct {
	ID           string            `json:"id"`
	Source       string            `json:"source"`
	LoadedAt     string            `json:"loadedAt"`
	ModTime      string            `json:"modTime"`
	Competitions []string          `json:"competitions"`
	Errors       map[string]string `json:"errors"`
	RecordCount  int               `json:"recordCount"`
}

func toLoadResponse(s *catalog.Snapshot) loadResponse {
	return loadResponse{
		ID:           s.ID.String(),
		Source:       s.Source,
		LoadedAt:     s.LoadedAt.UTC().Format(timeFormat),
		ModTime:      s.ModTime.UTC().Format(timeFormat),
		Competitions: nonNil(s.Competitions),
		Errors:       s.Errors(),
		RecordCount:  s.RecordCount(),
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// competitionParam reads the {competition} path parameter. Names may carry
// spaces, so an escaped raw value is unescaped.
func competitionParam(r *http.Request) string {
	raw := chi.URLParam(r, "competition")
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

// writeDatasetError maps catalog and dataset errors to envelope codes.
func writeDatasetError(w http.ResponseWriter, err error, requestID string) {
	var cellErr *dataset.CellError
	switch {
	case errors.Is(err, catalog.ErrNotLoaded):
		response.Err(w, http.StatusServiceUnavailable, response.CodeNotReady, "No dataset has been loaded yet", requestID)
	case errors.Is(err, dataset.ErrUnknownCompetition):
		response.Err(w, http.StatusNotFound, response.CodeNotFound, "Competition not found", requestID)
	case errors.Is(err, dataset.ErrMissingColumn), errors.As(err, &cellErr):
		response.Err(w, http.StatusUnprocessableEntity, response.CodeInvalidDataset, err.Error(), requestID)
	default:
		slog.Error("failed to read dataset", "error", err)
		response.Err(w, http.StatusInternalServerError, response.CodeInternal, "Failed to read dataset", requestID)
	}
}

// optionalColumns are table columns backed by a source column the file may omit.
var optionalColumns = []string{
	dashboard.ColSquad, dashboard.ColAge, dashboard.ColMatchesPlayed,
	dashboard.ColPenalties, dashboard.ColPenaltyAttempts,
}

// availableColumns drops optional columns the dataset does not carry.
func availableColumns(ds *catalog.Dataset, cols []string) []string {
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		if !slices.Contains(optionalColumns, c) || ds.HasColumn(c) {
			out = append(out, c)
		}
	}
	return out
}

// missingColumn returns the first requested column the dataset does not carry.
func missingColumn(ds *catalog.Dataset, cols []string) (string, bool) {
	for _, c := range cols {
		if slices.Contains(optionalColumns, c) && !ds.HasColumn(c) {
			return c, true
		}
	}
	return "", false
}
