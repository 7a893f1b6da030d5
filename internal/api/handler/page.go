package handler

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/a-h/templ"

	"github.com/statsboard/statsboard/internal/api/middleware"
	"github.com/statsboard/statsboard/internal/api/response"
	"github.com/statsboard/statsboard/internal/config"
	"github.com/statsboard/statsboard/internal/templates"
)

// PageHandler renders the dashboard shell at GET /.
type PageHandler struct {
	source    SnapshotSource
	dashboard config.Dashboard
	version   string
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(source SnapshotSource, d config.Dashboard, version string) *PageHandler {
	return &PageHandler{source: source, dashboard: d, version: version}
}

// ServeHTTP renders the page. The competition and view query parameters
// preselect the competition and menu entry; unknown values fall back to the
// first entry.
func (h *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data := templates.DashboardPageData{
		Title:   h.dashboard.Title,
		Club:    h.dashboard.Club,
		Version: h.version,
		Menu:    h.dashboard.Menu,
	}
	if len(data.Menu) > 0 {
		data.Active = data.Menu[0].Key
	}
	view := r.URL.Query().Get("view")
	if slices.ContainsFunc(data.Menu, func(m config.MenuItem) bool { return m.Key == view }) {
		data.Active = view
	}

	if snap, err := h.source.Current(); err == nil {
		data.Ready = true
		data.Competitions = snap.Competitions
		if len(snap.Competitions) > 0 {
			data.Selected = snap.Competitions[0]
		}
		if c := r.URL.Query().Get("competition"); slices.Contains(snap.Competitions, c) {
			data.Selected = c
		}
	}

	templ.Handler(templates.DashboardPage(data), templ.WithErrorHandler(renderError)).ServeHTTP(w, r)
}

func renderError(_ *http.Request, err error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Error("failed to render dashboard page", "error", err)
		response.Err(w, http.StatusInternalServerError, response.CodeInternal, "Failed to render page", middleware.GetRequestID(r.Context()))
	})
}
