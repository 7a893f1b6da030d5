package templates_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statsboard/statsboard/internal/config"
	"github.com/statsboard/statsboard/internal/templates"
)

func render(t *testing.T, data templates.DashboardPageData) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, templates.DashboardPage(data).Render(context.Background(), &buf))
	return buf.String()
}

func TestDashboardPage_Ready(t *testing.T) {
	body := render(t, templates.DashboardPageData{
		Title:        "Stats",
		Club:         "FC Barcelona",
		Version:      "1.0.0",
		Menu:         config.DefaultDashboard().Menu,
		Active:       config.MenuCards,
		Competitions: []string{"Copa del Rey", "La Liga"},
		Selected:     "La Liga",
		Ready:        true,
	})

	assert.Contains(t, body, "<title>Stats</title>")
	assert.Contains(t, body, "<option>Copa del Rey</option>")
	assert.Contains(t, body, "<option selected>La Liga</option>")
	assert.Contains(t, body, `href="?competition=La+Liga&amp;view=overview"`)
	assert.Contains(t, body, `class="active">Cards &amp; Discipline</a>`)
	assert.Contains(t, body, `data-competition="La Liga"`)
	assert.Contains(t, body, "/api/v1/events")
	assert.NotContains(t, body, "No dataset has been loaded yet.")
}

func TestDashboardPage_EscapesText(t *testing.T) {
	body := render(t, templates.DashboardPageData{
		Title:        `<script>alert("x")</script>`,
		Competitions: []string{"A & B"},
		Selected:     "A & B",
		Ready:        true,
	})

	assert.NotContains(t, body, `<script>alert`)
	assert.Contains(t, body, "&lt;script&gt;")
	assert.Contains(t, body, "<option selected>A &amp; B</option>")
}

func TestDashboardPage_NotReady(t *testing.T) {
	body := render(t, templates.DashboardPageData{Title: "Stats"})

	assert.Contains(t, body, "No dataset has been loaded yet.")
	assert.NotContains(t, body, `id="view"`)
}

func TestDashboardPage_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := templates.DashboardPage(templates.DashboardPageData{}).Render(ctx, &buf)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, buf.Len())
}
