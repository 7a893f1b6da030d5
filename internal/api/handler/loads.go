package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/statsboard/statsboard/internal/api/middleware"
	"github.com/statsboard/statsboard/internal/api/response"
	"github.com/statsboard/statsboard/internal/api/validation"
	"github.com/statsboard/statsboard/internal/dashboard"
	"github.com/statsboard/statsboard/internal/database"
)

// LoadHandler serves the history of persisted loads.
type LoadHandler struct {
	repo database.Repository
}

// NewLoadHandler creates a new LoadHandler.
func NewLoadHandler(repo database.Repository) *LoadHandler {
	return &LoadHandler{repo: repo}
}

type loadRecordsData struct {
	LoadID      string          `json:"loadId"`
	Competition string          `json:"competition"`
	Table       dashboard.Table `json:"table"`
}

func loadFromRecord(l *database.Load) loadResponse {
	errs := l.Errors
	if errs == nil {
		errs = map[string]string{}
	}
	return loadResponse{
		ID:           l.ID.String(),
		Source:       l.Source,
		LoadedAt:     formatTime(l.LoadedAt),
		ModTime:      formatTime(l.ModTime),
		Competitions: nonNil(l.Competitions),
		Errors:       errs,
		RecordCount:  l.RecordCount,
	}
}

// List handles GET /api/v1/loads.
func (h *LoadHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	filter := database.ListFilter{
		Page:  1,
		Limit: 20,
	}
	if v := r.URL.Query().Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			response.Err(w, http.StatusBadRequest, response.CodeInvalidParam, "page must be a positive integer", requestID)
			return
		}
		filter.Page = page
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			response.Err(w, http.StatusBadRequest, response.CodeInvalidParam, "limit must be a positive integer", requestID)
			return
		}
		filter.Limit = limit
	}

	result, err := h.repo.List(r.Context(), filter)
	if err != nil {
		slog.Error("failed to list loads", "error", err)
		response.Err(w, http.StatusInternalServerError, response.CodeInternal, "Failed to list loads", requestID)
		return
	}

	items := make([]loadResponse, 0, len(result.Loads))
	for i := range result.Loads {
		items = append(items, loadFromRecord(&result.Loads[i]))
	}

	response.SuccessList(w, http.StatusOK, items, result.Total, result.Page, result.Limit, requestID)
}

// GetByID handles GET /api/v1/loads/{id}.
func (h *LoadHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	load, ok := h.load(w, r, requestID)
	if !ok {
		return
	}

	response.Success(w, http.StatusOK, loadFromRecord(load), requestID)
}

// Records handles GET /api/v1/loads/{id}/competitions/{competition}/players.
func (h *LoadHandler) Records(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	q, fieldErrors := validation.ParseViewQuery(r.URL.Query(), dashboard.DefaultTopN)
	if len(fieldErrors) > 0 {
		response.Invalid(w, fieldErrors, requestID)
		return
	}

	load, ok := h.load(w, r, requestID)
	if !ok {
		return
	}
	competition := competitionParam(r)
	if !slices.Contains(load.Competitions, competition) {
		response.Err(w, http.StatusNotFound, response.CodeNotFound, "Competition not found", requestID)
		return
	}

	records, err := h.repo.Records(r.Context(), load.ID, competition)
	if err != nil {
		slog.Error("failed to read load records", "error", err, "id", load.ID, "competition", competition)
		response.Err(w, http.StatusInternalServerError, response.CodeInternal, "Failed to read load records", requestID)
		return
	}

	cols := q.Columns
	if cols == nil {
		cols = dashboard.Columns
	}
	response.Success(w, http.StatusOK, loadRecordsData{
		LoadID:      load.ID.String(),
		Competition: competition,
		Table:       dashboard.Project(dashboard.FilterByPositions(records, q.Positions), cols),
	}, requestID)
}

func (h *LoadHandler) load(w http.ResponseWriter, r *http.Request, requestID string) (*database.Load, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, response.CodeInvalidID, "Invalid UUID format", requestID)
		return nil, false
	}

	load, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			response.Err(w, http.StatusNotFound, response.CodeNotFound, "Load not found", requestID)
			return nil, false
		}
		slog.Error("failed to get load", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, response.CodeInternal, "Failed to get load", requestID)
		return nil, false
	}
	return load, true
}
