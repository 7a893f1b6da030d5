package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statsboard/statsboard/internal/api/handler"
	"github.com/statsboard/statsboard/internal/catalog"
)

func newCompetitionHandler(t *testing.T) *handler.CompetitionHandler {
	t.Helper()
	return handler.NewCompetitionHandler(loadedSource(t), 10, 20)
}

func competitionParams(name string) map[string]string {
	return map[string]string{"competition": name}
}

// ===== GET /api/v1/competitions =====

func TestCompetitionList(t *testing.T) {
	t.Parallel()
	h := newCompetitionHandler(t)

	req, w := makeChiRequest(http.MethodGet, "/api/v1/competitions", nil, nil)
	h.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	items := parseEnvelope(t, w)["data"].([]interface{})
	require.Len(t, items, 2)

	first := items[0].(map[string]interface{})
	assert.Equal(t, "Copa del Rey", first["name"])
	assert.Contains(t, first["error"], "CrdR")

	second := items[1].(map[string]interface{})
	assert.Equal(t, laLiga, second["name"])
	assert.Equal(t, 5.0, second["players"])
	assert.NotContains(t, second, "error")
}

func TestCompetitionList_NotLoaded(t *testing.T) {
	t.Parallel()
	h := handler.NewCompetitionHandler(&fakeSource{err: catalog.ErrNotLoaded}, 10, 20)

	req, w := makeChiRequest(http.MethodGet, "/api/v1/competitions", nil, nil)
	h.List(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "NOT_READY", errorCode(t, parseEnvelope(t, w)))
}

// ===== Dataset errors =====

func TestCompetition_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		source      *fakeSource
		competition string
		query       string
		status      int
		code        string
	}{
		{"unknown competition", loadedSource(t), "Serie A", "", http.StatusNotFound, "NOT_FOUND"},
		{"missing column", loadedSource(t), "Copa del Rey", "", http.StatusUnprocessableEntity, "INVALID_DATASET"},
		{"not loaded", &fakeSource{err: catalog.ErrNotLoaded}, laLiga, "", http.StatusServiceUnavailable, "NOT_READY"},
		{"invalid positions", loadedSource(t), laLiga, "?positions=ST", http.StatusBadRequest, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := handler.NewCompetitionHandler(tt.source, 10, 20)

			req, w := makeChiRequest(http.MethodGet, "/overview"+tt.query, nil, competitionParams(tt.competition))
			h.Overview(w, req)

			assert.Equal(t, tt.status, w.Code)
			env := parseEnvelope(t, w)
			assert.Nil(t, env["data"])
			assert.Equal(t, tt.code, errorCode(t, env))
		})
	}
}

func TestCompetition_EscapedName(t *testing.T) {
	t.Parallel()
	h := newCompetitionHandler(t)

	req, w := makeChiRequest(http.MethodGet, "/overview", nil, competitionParams("La%20Liga"))
	h.Overview(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

// ===== GET .../players =====

func TestPlayers_DefaultColumns(t *testing.T) {
	t.Parallel()
	h := newCompetitionHandler(t)

	req, w := makeChiRequest(http.MethodGet, "/players", nil, competitionParams(laLiga))
	h.Players(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := parseEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, laLiga, data["competition"])
	assert.Equal(t, []interface{}{"GK", "DF", "MF", "FW"}, data["positions"])
	assert.Equal(t,
		[]interface{}{"Player", "Pos", "Age", "MP", "Min", "Gls", "Ast", "G+A"},
		tableColumns(t, data, "table"))

	rows := tableRows(t, data, "table")
	require.Len(t, rows, 5)
	assert.Equal(t, []interface{}{"Ter Stegen", "GK", 32.0, 30.0, 2700.0, 0.0, 1.0, 1.0}, rows[0])
	assert.Equal(t, []interface{}{"Ter Stegen", "Araujo", "Pedri", "Lewandowski", "Youngster"}, firstCells(rows))
}

func TestPlayers_FilterAndSortByPer90(t *testing.T) {
	t.Parallel()
	h := newCompetitionHandler(t)

	req, w := makeChiRequest(http.MethodGet, "/players?positions=FW,MF&sort=per90&columns=Player,Position,G%2BA_per90", nil, competitionParams(laLiga))
	h.Players(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := parseEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, []interface{}{"MF", "FW"}, data["positions"])

	rows := tableRows(t, data, "table")
	require.Len(t, rows, 3)
	assert.Equal(t, []interface{}{"Lewandowski", "Pedri", "Youngster"}, firstCells(rows))

	lewy := rows[0].([]interface{})
	assert.Equal(t, "FW", lewy[1])
	assert.InDelta(t, 24.0/(2800.0/90.0), lewy[2], 1e-9)

	youngster := rows[2].([]interface{})
	assert.Equal(t, "MF", youngster[1], "FW,MF matches the midfield rule first")
	assert.Nil(t, youngster[2], "zero minutes has no per 90 rate")
}

func TestPlayers_UnknownColumn(t *testing.T) {
	t.Parallel()
	h := newCompetitionHandler(t)

	req, w := makeChiRequest(http.MethodGet, "/players?columns=Player,xG", nil, competitionParams(laLiga))
	h.Players(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := parseEnvelope(t, w)
	apiErr := env["error"].(map[string]interface{})
	details := apiErr["details"].([]interface{})
	require.Len(t, details, 1)
	assert.Equal(t, "columns", details[0].(map[string]interface{})["field"])
}

// ===== GET .../overview =====

func TestOverview(t *testing.T) {
	t.Parallel()
	h := newCompetitionHandler(t)

	req, w := makeChiRequest(http.MethodGet, "/overview", nil, competitionParams(laLiga))
	h.Overview(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := parseEnvelope(t, w)["data"].(map[string]interface{})

	metrics := data["metrics"].(map[string]interface{})
	assert.Equal(t, 5.0, metrics["totalPlayers"])
	assert.Equal(t, 25.0, metrics["totalGoals"])
	assert.Equal(t, 12.0, metrics["totalAssists"])
	assert.Equal(t, 26.0, metrics["averageAge"])
	assert.Equal(t, 1940.0, metrics["averageMinutes"])
	assert.Equal(t, 11.0, metrics["totalYellowCards"])
	assert.Equal(t, 1.0, metrics["totalRedCards"])

	dist := data["positionDistribution"].([]interface{})
	require.Len(t, dist, 5)
	counts := map[string]float64{}
	for _, d := range dist {
		m := d.(map[string]interface{})
		counts[m["position"].(string)] = m["players"].(float64)
	}
	assert.Equal(t, map[string]float64{"GK": 1, "DF": 1, "MF": 2, "FW": 1, "Other": 0}, counts)

	bins := data["ageHistogram"].([]interface{})
	assert.Len(t, bins, 20)
	total := 0.0
	for _, b := range bins {
		total += b.(map[string]interface{})["players"].(float64)
	}
	assert.Equal(t, 5.0, total)
}

func TestOverview_FilteredToNothing(t *testing.T) {
	t.Parallel()
	h := newCompetitionHandler(t)

	req, w := makeChiRequest(http.MethodGet, "/overview?positions=Other", nil, competitionParams(laLiga))
	h.Overview(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := parseEnvelope(t, w)["data"].(map[string]interface{})
	metrics := data["metrics"].(map[string]interface{})
	assert.Equal(t, 0.0, metrics["totalPlayers"])
	assert.Equal(t, 0.0, metrics["averageAge"])
	assert.Empty(t, data["ageHistogram"])
}

// ===== GET .../top-scorers =====

func TestTopScorers(t *testing.T) {
	t.Parallel()
	h := newCompetitionHandler(t)

	req, w := makeChiRequest(http.MethodGet, "/top-scorers?limit=2", nil, competitionParams(laLiga))
	h.TopScorers(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := parseEnvelope(t, w)["data"].(map[string]interface{})

	scorers := data["topScorers"].([]interface{})
	require.Len(t, scorers, 2)
	top := scorers[0].(map[string]interface{})
	assert.Equal(t, "Lewandowski", top["player"])
	assert.Equal(t, 16.0, top["nonPenaltyGoals"])
	assert.Equal(t, "Pedri", scorers[1].(map[string]interface{})["player"])

	assert.Len(t, tableColumns(t, data, "table"), 9)
	rows := tableRows(t, data, "table")
	assert.Equal(t, []interface{}{"Lewandowski", "Pedri", "Araujo", "Ter Stegen", "Youngster"}, firstCells(rows))
}

// ===== GET .../position-stats =====

func TestPositionStats_DefaultGroupIsFirstPlayers(t *testing.T) {
	t.Parallel()
	h := newCompetitionHandler(t)

	req, w := makeChiRequest(http.MethodGet, "/position-stats", nil, competitionParams(laLiga))
	h.PositionStats(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := parseEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "GK", data["group"])
	assert.Equal(t,
		[]interface{}{"Player", "Squad", "Pos", "Gls", "Ast", "G+A"},
		tableColumns(t, data, "contributors"))
	assert.Equal(t, []interface{}{"Ter Stegen"}, firstCells(tableRows(t, data, "contributors")))

	averages := data["averages"].([]interface{})
	require.Len(t, averages, 4)
	mf := averages[2].(map[string]interface{})
	assert.Equal(t, "MF", mf["position"])
	assert.Equal(t, 2.0, mf["averageGoals"])
	assert.Equal(t, 3.0, mf["averageAssists"])
	assert.InDelta(t, 10.0/(2200.0/90.0), mf["averagePer90"], 1e-9, "undefined rates are left out")
}

func TestPositionStats_SelectedGroup(t *testing.T) {
	t.Parallel()
	h := newCompetitionHandler(t)

	req, w := makeChiRequest(http.MethodGet, "/position-stats?group=MF", nil, competitionParams(laLiga))
	h.PositionStats(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := parseEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "MF", data["group"])
	assert.Equal(t, []interface{}{"Pedri", "Youngster"}, firstCells(tableRows(t, data, "contributors")))
}

func TestPositionStats_NoPlayers(t *testing.T) {
	t.Parallel()
	h := newCompetitionHandler(t)

	req, w := makeChiRequest(http.MethodGet, "/position-stats?positions=Other", nil, competitionParams(laLiga))
	h.PositionStats(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := parseEnvelope(t, w)["data"].(map[string]interface{})
	assert.Nil(t, data["group"])
	assert.Empty(t, data["averages"])
	assert.Empty(t, tableRows(t, data, "contributors"))
}

// ===== GET .../cards =====

func TestCards_BothKinds(t *testing.T) {
	t.Parallel()
	h := newCompetitionHandler(t)

	req, w := makeChiRequest(http.MethodGet, "/cards", nil, competitionParams(laLiga))
	h.Cards(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := parseEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, []interface{}{"yellow", "red"}, data["cards"])
	assert.Equal(t,
		[]interface{}{"Player", "Position", "Pos", "Squad", "CrdY", "CrdR"},
		tableColumns(t, data, "recipients"))
	assert.Equal(t,
		[]interface{}{"Araujo", "Pedri", "Ter Stegen", "Lewandowski"},
		firstCells(tableRows(t, data, "recipients")))

	byPosition := data["byPosition"].([]interface{})
	require.Len(t, byPosition, 4)
	df := byPosition[1].(map[string]interface{})
	assert.Equal(t, "DF", df["position"])
	assert.Equal(t, 5.0, df["yellowCards"])
	assert.Equal(t, 1.0, df["redCards"])
}

func TestCards_RedOnly(t *testing.T) {
	t.Parallel()
	h := newCompetitionHandler(t)

	req, w := makeChiRequest(http.MethodGet, "/cards?cards=red", nil, competitionParams(laLiga))
	h.Cards(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := parseEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, []interface{}{"Player", "Position", "Pos", "Squad", "CrdR"}, tableColumns(t, data, "recipients"))
	assert.Equal(t, []interface{}{"Araujo"}, firstCells(tableRows(t, data, "recipients")))
}

func TestCards_NoKindSelected(t *testing.T) {
	t.Parallel()
	h := newCompetitionHandler(t)

	req, w := makeChiRequest(http.MethodGet, "/cards?cards=", nil, competitionParams(laLiga))
	h.Cards(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, parseEnvelope(t, w)))
}
