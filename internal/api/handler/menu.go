package handler

import (
	"net/http"

	"github.com/statsboard/statsboard/internal/api/middleware"
	"github.com/statsboard/statsboard/internal/api/response"
	"github.com/statsboard/statsboard/internal/config"
)

// MenuHandler handles GET /api/v1/menu.
type MenuHandler struct {
	dashboard config.Dashboard
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(d config.Dashboard) *MenuHandler {
	return &MenuHandler{dashboard: d}
}

type menuData struct {
	Title string            `json:"title"`
	Club  string            `json:"club"`
	TopN  int               `json:"topN"`
	Items []config.MenuItem `json:"items"`
}

// ServeHTTP writes the dashboard menu.
func (h *MenuHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	response.Success(w, http.StatusOK, menuData{
		Title: h.dashboard.Title,
		Club:  h.dashboard.Club,
		TopN:  h.dashboard.TopN,
		Items: h.dashboard.Menu,
	}, requestID)
}
