package templates

import "github.com/statsboard/statsboard/internal/config"

// DashboardPageData is everything the dashboard shell renders.
type DashboardPageData struct {
	Title        string
	Club         string
	Version      string
	Menu         []config.MenuItem
	Active       string
	Competitions []string
	Selected     string
	Ready        bool
}
