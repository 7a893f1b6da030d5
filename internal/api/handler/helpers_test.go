package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/statsboard/statsboard/internal/catalog"
	"github.com/statsboard/statsboard/internal/dataset"
)

// squadCSV carries one complete competition and one that lacks CrdR.
const squadCSV = `,Player,La Liga,La Liga,La Liga,La Liga,La Liga,La Liga,La Liga,La Liga,La Liga,La Liga,La Liga,La Liga,La Liga,Copa del Rey,Copa del Rey,Copa del Rey,Copa del Rey,Copa del Rey,Copa del Rey,Copa del Rey
,Player,Player,Squad,Pos,Age,MP,Min,Gls,Ast,G-PK,PK,PKatt,CrdY,CrdR,Player,Pos,Min,Gls,Ast,G-PK,CrdY
0,Ter Stegen,Ter Stegen,Barcelona,GK,32-100,30,2700,0,1,0,0,0,2,0,Ter Stegen,GK,360,0,0,0,0
1,Araujo,Araujo,Barcelona,DF,25-050,25,2000,2,0,2,0,0,5,1,Araujo,DF,270,0,0,0,1
2,Pedri,Pedri,Barcelona,MF,21-300,28,2200,4,6,4,0,0,3,0,Pedri,MF,300,1,1,1,0
3,Lewandowski,Lewandowski,Barcelona,FW,35-200,33,2800,19,5,16,3,4,1,0,Lewandowski,FW,350,2,0,2,0
4,Youngster,Youngster,Barcelona,"FW,MF",17-010,1,0,0,0,0,0,0,0,0,Youngster,MF,0,0,0,0,0
`

const laLiga = "La Liga"

type fakeSource struct {
	snap *catalog.Snapshot
	err  error
}

func (f *fakeSource) Current() (*catalog.Snapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.snap, nil
}

type fakeReloader struct {
	snap  *catalog.Snapshot
	err   error
	calls int
}

func (f *fakeReloader) Reload(_ context.Context) (*catalog.Snapshot, error) {
	f.calls++
	return f.snap, f.err
}

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error {
	return m.err
}

func sampleSnapshot(t *testing.T) *catalog.Snapshot {
	t.Helper()
	tbl, err := dataset.Parse(strings.NewReader(squadCSV))
	require.NoError(t, err)
	now := time.Date(2024, 5, 26, 12, 0, 0, 0, time.UTC)
	return catalog.Build(tbl, "players.csv", now.Add(-time.Hour), now)
}

func loadedSource(t *testing.T) *fakeSource {
	t.Helper()
	return &fakeSource{snap: sampleSnapshot(t)}
}

func makeChiRequest(method, path string, body []byte, params map[string]string) (*http.Request, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	w := httptest.NewRecorder()

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	return req, w
}

func parseEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var env map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &env)
	require.NoError(t, err, "failed to parse response body")
	return env
}

func errorCode(t *testing.T, env map[string]interface{}) string {
	t.Helper()
	apiErr, ok := env["error"].(map[string]interface{})
	require.True(t, ok, "expected an error object")
	return apiErr["code"].(string)
}

// tableRows returns the rows of a projected table in the response data.
func tableRows(t *testing.T, data map[string]interface{}, key string) []interface{} {
	t.Helper()
	tbl, ok := data[key].(map[string]interface{})
	require.True(t, ok, "expected table %q", key)
	return tbl["rows"].([]interface{})
}

func tableColumns(t *testing.T, data map[string]interface{}, key string) []interface{} {
	t.Helper()
	tbl, ok := data[key].(map[string]interface{})
	require.True(t, ok, "expected table %q", key)
	return tbl["columns"].([]interface{})
}

// firstCells returns column 0 of every row.
func firstCells(rows []interface{}) []interface{} {
	out := make([]interface{}, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.([]interface{})[0])
	}
	return out
}
