package handler_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/statsboard/statsboard/internal/api/handler"
	"github.com/statsboard/statsboard/internal/catalog"
)

func serveHealth(t *testing.T, h *handler.HealthHandler) map[string]interface{} {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	env := parseEnvelope(t, w)
	assert.Nil(t, env["error"])
	assert.NotNil(t, env["meta"])
	return env["data"].(map[string]interface{})
}

func TestHealthHandler_Healthy(t *testing.T) {
	// Arrange
	source := loadedSource(t)
	h := handler.NewHealthHandler(source, &mockDBPinger{}, "0.1.0")

	// Act
	data := serveHealth(t, h)

	// Assert
	assert.Equal(t, "healthy", data["status"])
	assert.Equal(t, "0.1.0", data["version"])

	ds := data["dataset"].(map[string]interface{})
	assert.Equal(t, true, ds["loaded"])
	assert.Equal(t, source.snap.ID.String(), ds["loadId"])
	assert.Equal(t, "2024-05-26T12:00:00Z", ds["loadedAt"])
	assert.Equal(t, 2.0, ds["competitions"])
	assert.Contains(t, ds["errors"], "Copa del Rey")

	db := data["database"].(map[string]interface{})
	assert.Equal(t, true, db["configured"])
	assert.Equal(t, true, db["connected"])
}

func TestHealthHandler_NotLoaded(t *testing.T) {
	h := handler.NewHealthHandler(&fakeSource{err: catalog.ErrNotLoaded}, nil, "0.1.0")

	data := serveHealth(t, h)

	assert.Equal(t, "degraded", data["status"])
	ds := data["dataset"].(map[string]interface{})
	assert.Equal(t, false, ds["loaded"])
	assert.Nil(t, ds["loadId"])
	db := data["database"].(map[string]interface{})
	assert.Equal(t, false, db["configured"])
}

func TestHealthHandler_DatabaseDown(t *testing.T) {
	h := handler.NewHealthHandler(loadedSource(t), &mockDBPinger{err: errors.New("connection refused")}, "0.1.0")

	data := serveHealth(t, h)

	assert.Equal(t, "degraded", data["status"])
	db := data["database"].(map[string]interface{})
	assert.Equal(t, true, db["configured"])
	assert.Equal(t, false, db["connected"])
}
