package dashboard

import (
	"fmt"
	"slices"

	"github.com/statsboard/statsboard/internal/stats"
)

// Column names of the projected tables. Stat columns are the data source's
// names; Position and G+A_per90 are derived.
const (
	ColPlayer          = stats.ColPlayer
	ColSquad           = stats.ColSquad
	ColPos             = stats.ColPos
	ColPosition        = "Position"
	ColAge             = stats.ColAge
	ColMatchesPlayed   = stats.ColMatchesPlayed
	ColMinutes         = stats.ColMinutes
	ColGoals           = stats.ColGoals
	ColAssists         = stats.ColAssists
	ColGoalsAssists    = stats.ColGoalsAssists
	ColNonPenaltyGoals = stats.ColNonPenaltyGoals
	ColPenalties       = stats.ColPenalties
	ColPenaltyAttempts = stats.ColPenaltyAttempts
	ColYellowCards     = stats.ColYellowCards
	ColRedCards        = stats.ColRedCards
	ColPer90           = "G+A_per90"
)

// Columns lists every column a table can show, in default order.
var Columns = []string{
	ColPlayer, ColSquad, ColPos, ColPosition, ColAge, ColMatchesPlayed, ColMinutes,
	ColGoals, ColAssists, ColGoalsAssists, ColNonPenaltyGoals, ColPenalties,
	ColPenaltyAttempts, ColYellowCards, ColRedCards, ColPer90,
}

var (
	// ScorerColumns are the default columns of the scorer detail table.
	ScorerColumns = []string{ColPlayer, ColGoals, ColAssists, ColGoalsAssists, ColNonPenaltyGoals, ColPenalties, ColPenaltyAttempts, ColYellowCards, ColRedCards}
	// DataFrameColumns are the default columns of the full dataset table.
	DataFrameColumns = []string{ColPlayer, ColPos, ColAge, ColMatchesPlayed, ColMinutes, ColGoals, ColAssists, ColGoalsAssists}
)

// ContributorColumns are the columns of the top contributors table.
func ContributorColumns(hasSquad bool) []string {
	if hasSquad {
		return []string{ColPlayer, ColSquad, ColPos, ColGoals, ColAssists, ColGoalsAssists}
	}
	return []string{ColPlayer, ColPos, ColGoals, ColAssists, ColGoalsAssists}
}

// UnknownColumnError names a requested column that no table can show.
type UnknownColumnError struct {
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column %q", e.Column)
}

// CheckColumns returns an UnknownColumnError for the first invalid name.
func CheckColumns(columns []string) error {
	for _, c := range columns {
		if !slices.Contains(Columns, c) {
			return &UnknownColumnError{Column: c}
		}
	}
	return nil
}

// Table is a projection of records onto named columns.
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Project builds a table with the given columns. Columns must have passed
// CheckColumns.
func Project(records []stats.PlayerRecord, columns []string) Table {
	t := Table{Columns: columns, Rows: make([][]any, 0, len(records))}
	for _, r := range records {
		row := make([]any, len(columns))
		for i, c := range columns {
			row[i] = value(r, c)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func value(r stats.PlayerRecord, column string) any {
	switch column {
	case ColPlayer:
		return r.Player
	case ColSquad:
		return r.Squad
	case ColPos:
		return r.Pos
	case ColPosition:
		return r.Position
	case ColAge:
		return r.Age
	case ColMatchesPlayed:
		return r.MatchesPlayed
	case ColMinutes:
		return r.Minutes
	case ColGoals:
		return r.Goals
	case ColAssists:
		return r.Assists
	case ColGoalsAssists:
		return r.GoalsPlusAssists
	case ColNonPenaltyGoals:
		return r.NonPenaltyGoals
	case ColPenalties:
		return r.Penalties
	case ColPenaltyAttempts:
		return r.PenaltyAttempts
	case ColYellowCards:
		return r.YellowCards
	case ColRedCards:
		return r.RedCards
	case ColPer90:
		return r.GoalsPlusAssistsPer90
	}
	return nil
}
