package config

import (
	"fmt"
	"os"
	"slices"

	"sigs.k8s.io/yaml"
)

// Menu keys understood by the dashboard page.
const (
	MenuOverview      = "overview"
	MenuTopScorers    = "top-scorers"
	MenuPositionStats = "position-stats"
	MenuCards         = "cards"
	MenuDataFrame     = "data-frame"
)

var menuKeys = []string{MenuOverview, MenuTopScorers, MenuPositionStats, MenuCards, MenuDataFrame}

// MenuItem is one entry of the dashboard sidebar.
type MenuItem struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Icon  string `json:"icon"`
}

// Dashboard holds presentation settings read from an optional YAML file.
type Dashboard struct {
	Title   string     `json:"title"`
	Club    string     `json:"club"`
	Menu    []MenuItem `json:"menu"`
	TopN    int        `json:"topN"`
	AgeBins int        `json:"ageBins"`
}

// DefaultDashboard returns the built-in dashboard settings.
func DefaultDashboard() Dashboard {
	return Dashboard{
		Title: "Football Player Statistics Analysis",
		Club:  "FC Barcelona",
		Menu: []MenuItem{
			{Key: MenuOverview, Title: "Overview", Icon: "house"},
			{Key: MenuTopScorers, Title: "Top Scorers", Icon: "trophy"},
			{Key: MenuPositionStats, Title: "Position Stats", Icon: "bar-chart"},
			{Key: MenuCards, Title: "Cards & Discipline", Icon: "grid"},
			{Key: MenuDataFrame, Title: "Data Frame", Icon: "table"},
		},
		TopN:    10,
		AgeBins: 20,
	}
}

// LoadDashboard reads dashboard settings from path. An empty path returns the
// defaults; fields left out of the file keep their default values.
func LoadDashboard(path string) (Dashboard, error) {
	d := DefaultDashboard()
	if path == "" {
		return d, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Dashboard{}, fmt.Errorf("reading dashboard config: %w", err)
	}
	// Decoding into the default slice would merge entries index by index.
	d.Menu = nil
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return Dashboard{}, fmt.Errorf("parsing dashboard config: %w", err)
	}
	if d.Menu == nil {
		d.Menu = DefaultDashboard().Menu
	}

	if err := d.validate(); err != nil {
		return Dashboard{}, err
	}
	return d, nil
}

func (d Dashboard) validate() error {
	if len(d.Menu) == 0 {
		return fmt.Errorf("dashboard config: menu must not be empty")
	}
	for _, item := range d.Menu {
		if !slices.Contains(menuKeys, item.Key) {
			return fmt.Errorf("dashboard config: unknown menu key %q", item.Key)
		}
		if item.Title == "" {
			return fmt.Errorf("dashboard config: menu item %q needs a title", item.Key)
		}
	}
	if d.TopN < 1 {
		return fmt.Errorf("dashboard config: topN must be positive")
	}
	if d.AgeBins < 1 {
		return fmt.Errorf("dashboard config: ageBins must be positive")
	}
	return nil
}
