package dashboard

import (
	"cmp"
	"math"
	"slices"

	"github.com/statsboard/statsboard/internal/stats"
)

// DefaultTopN is the number of players shown by the top scorer chart.
const DefaultTopN = 10

// DefaultAgeBins is the number of age histogram bins.
const DefaultAgeBins = 20

// FilterByPositions keeps records whose group is in groups. An empty groups
// keeps every record.
func FilterByPositions(records []stats.PlayerRecord, groups []stats.Position) []stats.PlayerRecord {
	if len(groups) == 0 {
		return slices.Clone(records)
	}
	out := make([]stats.PlayerRecord, 0, len(records))
	for _, r := range records {
		if slices.Contains(groups, r.Position) {
			out = append(out, r)
		}
	}
	return out
}

// PositionsPresent returns the distinct groups in records, in display order.
func PositionsPresent(records []stats.PlayerRecord) []stats.Position {
	var out []stats.Position
	for _, p := range stats.Positions {
		if slices.ContainsFunc(records, func(r stats.PlayerRecord) bool { return r.Position == p }) {
			out = append(out, p)
		}
	}
	return out
}

// OverviewMetrics are the headline numbers of the overview page.
type OverviewMetrics struct {
	TotalPlayers     int     `json:"totalPlayers"`
	TotalGoals       int     `json:"totalGoals"`
	TotalAssists     int     `json:"totalAssists"`
	AverageAge       float64 `json:"averageAge"`
	AverageMinutes   int     `json:"averageMinutes"`
	TotalYellowCards int     `json:"totalYellowCards"`
	TotalRedCards    int     `json:"totalRedCards"`
}

// Overview computes the headline metrics. Averages over no records are zero.
func Overview(records []stats.PlayerRecord) OverviewMetrics {
	m := OverviewMetrics{TotalPlayers: len(records)}
	var age, minutes float64
	for _, r := range records {
		m.TotalGoals += r.Goals
		m.TotalAssists += r.Assists
		m.TotalYellowCards += r.YellowCards
		m.TotalRedCards += r.RedCards
		age += r.Age
		minutes += r.Minutes
	}
	if n := float64(len(records)); n > 0 {
		m.AverageAge = math.Round(age/n*10) / 10
		m.AverageMinutes = int(minutes / n)
	}
	return m
}

// PositionCount is one bar of the position distribution.
type PositionCount struct {
	Position stats.Position `json:"position"`
	Players  int            `json:"players"`
}

// PositionDistribution counts players per group, listing every group.
func PositionDistribution(records []stats.PlayerRecord) []PositionCount {
	out := make([]PositionCount, len(stats.Positions))
	for i, p := range stats.Positions {
		out[i].Position = p
	}
	for _, r := range records {
		if i := r.Position.Rank(); i < len(out) {
			out[i].Players++
		}
	}
	return out
}

// AgeBin is one histogram bar covering [Low, High); the last bin includes High.
type AgeBin struct {
	Low     float64 `json:"low"`
	High    float64 `json:"high"`
	Players int     `json:"players"`
}

// AgeHistogram splits the age range into equal-width bins.
func AgeHistogram(records []stats.PlayerRecord, bins int) []AgeBin {
	if len(records) == 0 || bins < 1 {
		return []AgeBin{}
	}

	lo, hi := records[0].Age, records[0].Age
	for _, r := range records[1:] {
		lo = min(lo, r.Age)
		hi = max(hi, r.Age)
	}
	if lo == hi {
		return []AgeBin{{Low: lo, High: hi, Players: len(records)}}
	}

	width := (hi - lo) / float64(bins)
	out := make([]AgeBin, bins)
	for i := range out {
		out[i].Low = lo + float64(i)*width
		out[i].High = lo + float64(i+1)*width
	}
	out[bins-1].High = hi

	for _, r := range records {
		i := min(int((r.Age-lo)/width), bins-1)
		out[i].Players++
	}
	return out
}

// TopScorers returns the n records with the most non-penalty goals.
func TopScorers(records []stats.PlayerRecord, n int) []stats.PlayerRecord {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b stats.PlayerRecord) int {
		return cmp.Compare(b.NonPenaltyGoals, a.NonPenaltyGoals)
	})
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// SortByGoals orders records by goals, descending.
func SortByGoals(records []stats.PlayerRecord) []stats.PlayerRecord {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b stats.PlayerRecord) int {
		return cmp.Compare(b.Goals, a.Goals)
	})
	return out
}

// SortByPer90 orders records by G+A per 90, descending, with undefined rates last.
func SortByPer90(records []stats.PlayerRecord) []stats.PlayerRecord {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b stats.PlayerRecord) int {
		va, okA := a.GoalsPlusAssistsPer90.Value()
		vb, okB := b.GoalsPlusAssistsPer90.Value()
		switch {
		case okA && okB:
			return cmp.Compare(vb, va)
		case okA:
			return -1
		case okB:
			return 1
		default:
			return 0
		}
	})
	return out
}

// PositionAverage is the mean output of one group.
type PositionAverage struct {
	Position       stats.Position `json:"position"`
	AverageGoals   float64        `json:"averageGoals"`
	AverageAssists float64        `json:"averageAssists"`
	AveragePer90   *float64       `json:"averagePer90"`
}

// PositionAverages computes mean goals and assists for each present group.
// Undefined per 90 rates are left out of the per 90 mean.
func PositionAverages(records []stats.PlayerRecord) []PositionAverage {
	var out []PositionAverage
	for _, p := range PositionsPresent(records) {
		var goals, assists, per90 float64
		var n, defined int
		for _, r := range records {
			if r.Position != p {
				continue
			}
			n++
			goals += float64(r.Goals)
			assists += float64(r.Assists)
			if v, ok := r.GoalsPlusAssistsPer90.Value(); ok {
				per90 += v
				defined++
			}
		}
		avg := PositionAverage{
			Position:       p,
			AverageGoals:   goals / float64(n),
			AverageAssists: assists / float64(n),
		}
		if defined > 0 {
			v := per90 / float64(defined)
			avg.AveragePer90 = &v
		}
		out = append(out, avg)
	}
	if out == nil {
		out = []PositionAverage{}
	}
	return out
}

// TopContributors returns the records of one group ordered by goals, then assists.
func TopContributors(records []stats.PlayerRecord, group stats.Position) []stats.PlayerRecord {
	out := FilterByPositions(records, []stats.Position{group})
	slices.SortStableFunc(out, func(a, b stats.PlayerRecord) int {
		if c := cmp.Compare(b.Goals, a.Goals); c != 0 {
			return c
		}
		return cmp.Compare(b.Assists, a.Assists)
	})
	return out
}

// PositionCards is the card total of one group.
type PositionCards struct {
	Position    stats.Position `json:"position"`
	YellowCards int            `json:"yellowCards"`
	RedCards    int            `json:"redCards"`
}

// CardsByPosition sums cards for each present group.
func CardsByPosition(records []stats.PlayerRecord) []PositionCards {
	present := PositionsPresent(records)
	out := make([]PositionCards, len(present))
	for i, p := range present {
		out[i].Position = p
		for _, r := range records {
			if r.Position == p {
				out[i].YellowCards += r.YellowCards
				out[i].RedCards += r.RedCards
			}
		}
	}
	return out
}
