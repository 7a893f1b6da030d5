package handler

import (
	"fmt"
	"net/http"

	"github.com/statsboard/statsboard/internal/api/middleware"
	"github.com/statsboard/statsboard/internal/api/response"
	"github.com/statsboard/statsboard/internal/api/validation"
	"github.com/statsboard/statsboard/internal/catalog"
	"github.com/statsboard/statsboard/internal/dashboard"
	"github.com/statsboard/statsboard/internal/stats"
)

// CompetitionHandler serves the dashboard views of one competition.
type CompetitionHandler struct {
	source  SnapshotSource
	topN    int
	ageBins int
}

// NewCompetitionHandler creates a new CompetitionHandler.
func NewCompetitionHandler(source SnapshotSource, topN, ageBins int) *CompetitionHandler {
	if topN < 1 {
		topN = dashboard.DefaultTopN
	}
	if ageBins < 1 {
		ageBins = dashboard.DefaultAgeBins
	}
	return &CompetitionHandler{source: source, topN: topN, ageBins: ageBins}
}

type competitionResponse struct {
	Name    string `json:"name"`
	Players int    `json:"players"`
	Error   string `json:"error,omitempty"`
}

type scorerResponse struct {
	Player          string         `json:"player"`
	Position        stats.Position `json:"position"`
	NonPenaltyGoals int            `json:"nonPenaltyGoals"`
}

type playersData struct {
	Competition string           `json:"competition"`
	Positions   []stats.Position `json:"positions"`
	Table       dashboard.Table  `json:"table"`
}

type overviewData struct {
	Competition          string                    `json:"competition"`
	Metrics              dashboard.OverviewMetrics `json:"metrics"`
	PositionDistribution []dashboard.PositionCount `json:"positionDistribution"`
	AgeHistogram         []dashboard.AgeBin        `json:"ageHistogram"`
}

type topScorersData struct {
	Competition string           `json:"competition"`
	TopScorers  []scorerResponse `json:"topScorers"`
	Table       dashboard.Table  `json:"table"`
}

type positionStatsData struct {
	Competition  string                      `json:"competition"`
	Averages     []dashboard.PositionAverage `json:"averages"`
	Group        *stats.Position             `json:"group"`
	Contributors dashboard.Table             `json:"contributors"`
}

type cardsData struct {
	Competition string                    `json:"competition"`
	Cards       []dashboard.CardKind      `json:"cards"`
	ByPosition  []dashboard.PositionCards `json:"byPosition"`
	Recipients  dashboard.Table           `json:"recipients"`
}

// List handles GET /api/v1/competitions.
func (h *CompetitionHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	snap, err := h.source.Current()
	if err != nil {
		writeDatasetError(w, err, requestID)
		return
	}

	items := make([]competitionResponse, 0, len(snap.Competitions))
	for _, ds := range snap.Datasets() {
		item := competitionResponse{Name: ds.Competition, Players: len(ds.Records)}
		if ds.Err != nil {
			item.Error = ds.Err.Error()
		}
		items = append(items, item)
	}

	response.Success(w, http.StatusOK, items, requestID)
}

// Players handles GET /api/v1/competitions/{competition}/players.
func (h *CompetitionHandler) Players(w http.ResponseWriter, r *http.Request) {
	ds, q, ok := h.prepare(w, r)
	if !ok {
		return
	}
	requestID := middleware.GetRequestID(r.Context())

	cols, ok := h.columns(w, ds, q, dashboard.DataFrameColumns, requestID)
	if !ok {
		return
	}

	records := dashboard.FilterByPositions(ds.Records, q.Positions)
	switch q.Sort {
	case validation.SortPer90:
		records = dashboard.SortByPer90(records)
	case validation.SortGoals:
		records = dashboard.SortByGoals(records)
	}

	response.Success(w, http.StatusOK, playersData{
		Competition: ds.Competition,
		Positions:   nonNil(dashboard.PositionsPresent(records)),
		Table:       dashboard.Project(records, cols),
	}, requestID)
}

// Overview handles GET /api/v1/competitions/{competition}/overview.
func (h *CompetitionHandler) Overview(w http.ResponseWriter, r *http.Request) {
	ds, q, ok := h.prepare(w, r)
	if !ok {
		return
	}
	requestID := middleware.GetRequestID(r.Context())

	records := dashboard.FilterByPositions(ds.Records, q.Positions)
	response.Success(w, http.StatusOK, overviewData{
		Competition:          ds.Competition,
		Metrics:              dashboard.Overview(records),
		PositionDistribution: dashboard.PositionDistribution(records),
		AgeHistogram:         dashboard.AgeHistogram(records, h.ageBins),
	}, requestID)
}

// TopScorers handles GET /api/v1/competitions/{competition}/top-scorers.
func (h *CompetitionHandler) TopScorers(w http.ResponseWriter, r *http.Request) {
	ds, q, ok := h.prepare(w, r)
	if !ok {
		return
	}
	requestID := middleware.GetRequestID(r.Context())

	cols, ok := h.columns(w, ds, q, dashboard.ScorerColumns, requestID)
	if !ok {
		return
	}

	records := dashboard.FilterByPositions(ds.Records, q.Positions)
	top := dashboard.TopScorers(records, q.Limit)
	scorers := make([]scorerResponse, 0, len(top))
	for _, rec := range top {
		scorers = append(scorers, scorerResponse{
			Player:          rec.Player,
			Position:        rec.Position,
			NonPenaltyGoals: rec.NonPenaltyGoals,
		})
	}

	response.Success(w, http.StatusOK, topScorersData{
		Competition: ds.Competition,
		TopScorers:  scorers,
		Table:       dashboard.Project(dashboard.SortByGoals(records), cols),
	}, requestID)
}

// PositionStats handles GET /api/v1/competitions/{competition}/position-stats.
// Without a group parameter the first filtered record's group is shown.
func (h *CompetitionHandler) PositionStats(w http.ResponseWriter, r *http.Request) {
	ds, q, ok := h.prepare(w, r)
	if !ok {
		return
	}
	requestID := middleware.GetRequestID(r.Context())

	records := dashboard.FilterByPositions(ds.Records, q.Positions)
	data := positionStatsData{
		Competition: ds.Competition,
		Averages:    dashboard.PositionAverages(records),
	}

	group := q.Group
	if group == "" && len(records) > 0 {
		group = records[0].Position
	}
	cols := dashboard.ContributorColumns(ds.HasColumn(dashboard.ColSquad))
	if group != "" {
		data.Group = &group
		data.Contributors = dashboard.Project(dashboard.TopContributors(records, group), cols)
	} else {
		data.Contributors = dashboard.Project(nil, cols)
	}

	response.Success(w, http.StatusOK, data, requestID)
}

// Cards handles GET /api/v1/competitions/{competition}/cards.
func (h *CompetitionHandler) Cards(w http.ResponseWriter, r *http.Request) {
	ds, q, ok := h.prepare(w, r)
	if !ok {
		return
	}
	requestID := middleware.GetRequestID(r.Context())

	records := dashboard.FilterByPositions(ds.Records, q.Positions)
	recipients, err := dashboard.CardRecipients(records, q.Cards)
	if err != nil {
		response.Invalid(w, []validation.FieldError{{Field: "cards", Message: err.Error()}}, requestID)
		return
	}

	response.Success(w, http.StatusOK, cardsData{
		Competition: ds.Competition,
		Cards:       q.Cards,
		ByPosition:  dashboard.CardsByPosition(records),
		Recipients:  dashboard.Project(recipients, dashboard.CardColumns(q.Cards, ds.HasColumn(dashboard.ColSquad))),
	}, requestID)
}

// prepare validates the query and resolves the competition dataset, writing
// the error response when either fails.
func (h *CompetitionHandler) prepare(w http.ResponseWriter, r *http.Request) (*catalog.Dataset, validation.ViewQuery, bool) {
	requestID := middleware.GetRequestID(r.Context())

	q, fieldErrors := validation.ParseViewQuery(r.URL.Query(), h.topN)
	if len(fieldErrors) > 0 {
		response.Invalid(w, fieldErrors, requestID)
		return nil, q, false
	}

	snap, err := h.source.Current()
	if err != nil {
		writeDatasetError(w, err, requestID)
		return nil, q, false
	}
	ds, err := snap.Dataset(competitionParam(r))
	if err != nil {
		writeDatasetError(w, err, requestID)
		return nil, q, false
	}
	return ds, q, true
}

// columns resolves the table columns: the requested ones, or defaults
// trimmed to what the dataset carries.
func (h *CompetitionHandler) columns(w http.ResponseWriter, ds *catalog.Dataset, q validation.ViewQuery, defaults []string, requestID string) ([]string, bool) {
	if q.Columns == nil {
		return availableColumns(ds, defaults), true
	}
	if c, missing := missingColumn(ds, q.Columns); missing {
		response.Invalid(w, []validation.FieldError{{Field: "columns", Message: fmt.Sprintf("column %q is not available for %s", c, ds.Competition)}}, requestID)
		return nil, false
	}
	return q.Columns, true
}
