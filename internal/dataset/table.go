package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/statsboard/statsboard/internal/stats"
)

// RequiredColumns must be present for a competition to be extracted.
var RequiredColumns = []string{stats.ColPlayer, stats.ColPos, stats.ColMinutes, stats.ColGoals, stats.ColAssists, stats.ColNonPenaltyGoals, stats.ColYellowCards, stats.ColRedCards}

const unnamedPrefix = "Unnamed:"

// Column is one header cell pair: the outer group and the inner stat name.
type Column struct {
	Group string
	Name  string
}

// Table is a parsed CSV with a two-level column header.
type Table struct {
	columns []Column
	rows    [][]string
}

// LoadFile opens and parses the CSV at path.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return t, nil
}

// Parse reads a CSV whose first row holds competition groups and second row
// holds stat names. Blank header cells are named "Unnamed: <i>_level_<n>".
func Parse(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	outer, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrMissingHeader
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}
	inner, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrMissingHeader
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	width := max(len(outer), len(inner))
	columns := make([]Column, width)
	for i := range columns {
		columns[i] = Column{
			Group: headerCell(outer, i, 0),
			Name:  headerCell(inner, i, 1),
		}
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, rec)
	}

	return &Table{columns: columns, rows: rows}, nil
}

func headerCell(rec []string, i, level int) string {
	if i < len(rec) {
		if v := strings.TrimSpace(rec[i]); v != "" {
			return v
		}
	}
	return fmt.Sprintf("%s %d_level_%d", unnamedPrefix, i, level)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Competitions returns the outer header groups sorted by name, excluding the
// Player group and unnamed index columns.
func (t *Table) Competitions() []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range t.columns {
		if seen[c.Group] || !isCompetition(c.Group) {
			continue
		}
		seen[c.Group] = true
		out = append(out, c.Group)
	}
	slices.Sort(out)
	return out
}

func isCompetition(group string) bool {
	return group != stats.ColPlayer && !strings.HasPrefix(group, unnamedPrefix)
}

// Columns returns the stat names available under competition, in file order.
func (t *Table) Columns(competition string) []string {
	var out []string
	for _, c := range t.columns {
		if c.Group == competition {
			out = append(out, c.Name)
		}
	}
	return out
}

// index maps stat names to column positions for one competition. A top-level
// Player group backs the Player column when the competition lacks its own.
func (t *Table) index(competition string) (map[string]int, bool) {
	idx := make(map[string]int)
	found := false
	for i, c := range t.columns {
		if c.Group != competition {
			continue
		}
		found = true
		if _, dup := idx[c.Name]; !dup {
			idx[c.Name] = i
		}
	}
	if !found {
		return nil, false
	}
	if _, ok := idx[stats.ColPlayer]; !ok {
		for i, c := range t.columns {
			if c.Group == stats.ColPlayer {
				idx[stats.ColPlayer] = i
				break
			}
		}
	}
	return idx, true
}

// Rows extracts the flattened rows for one competition.
func (t *Table) Rows(competition string) ([]stats.RawRow, error) {
	idx, ok := t.index(competition)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCompetition, competition)
	}
	for _, name := range RequiredColumns {
		if _, ok := idx[name]; !ok {
			return nil, &MissingColumnError{Competition: competition, Column: name}
		}
	}

	out := make([]stats.RawRow, 0, len(t.rows))
	for n, rec := range t.rows {
		rr := rowReader{competition: competition, idx: idx, rec: rec, row: n + 1}
		row := stats.RawRow{
			Player:          rr.text(stats.ColPlayer),
			Squad:           rr.text(stats.ColSquad),
			Pos:             rr.text(stats.ColPos),
			Age:             rr.age(),
			MatchesPlayed:   rr.count(stats.ColMatchesPlayed),
			Minutes:         rr.number(stats.ColMinutes),
			Goals:           rr.count(stats.ColGoals),
			Assists:         rr.count(stats.ColAssists),
			NonPenaltyGoals: rr.count(stats.ColNonPenaltyGoals),
			Penalties:       rr.count(stats.ColPenalties),
			PenaltyAttempts: rr.count(stats.ColPenaltyAttempts),
			YellowCards:     rr.count(stats.ColYellowCards),
			RedCards:        rr.count(stats.ColRedCards),
		}
		if _, ok := idx[stats.ColGoalsAssists]; ok {
			row.GoalsPlusAssists = rr.count(stats.ColGoalsAssists)
		} else {
			row.GoalsPlusAssists = row.Goals + row.Assists
		}
		if rr.err != nil {
			return nil, rr.err
		}
		if row.Player == "" && row.Pos == "" {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

// rowReader reads typed cells from one record and keeps the first error.
type rowReader struct {
	competition string
	idx         map[string]int
	rec         []string
	row         int
	err         error
}

func (r *rowReader) text(col string) string {
	i, ok := r.idx[col]
	if !ok || i >= len(r.rec) {
		return ""
	}
	return strings.TrimSpace(r.rec[i])
}

func (r *rowReader) number(col string) float64 {
	raw := r.text(col)
	v, err := parseNumber(raw)
	if err != nil {
		r.fail(col, raw, err)
		return 0
	}
	return v
}

// count accepts whole numbers, including the "3.0" form of float columns.
func (r *rowReader) count(col string) int {
	v := r.number(col)
	if v != math.Trunc(v) {
		r.fail(col, r.text(col), errNotWhole)
		return 0
	}
	return int(v)
}

// age accepts "25", "25.0" and the "years-days" form "25-123".
func (r *rowReader) age() float64 {
	raw := r.text(stats.ColAge)
	if years, _, ok := strings.Cut(raw, "-"); ok {
		raw = years
	}
	v, err := parseNumber(raw)
	if err != nil {
		r.fail(stats.ColAge, r.text(stats.ColAge), err)
		return 0
	}
	return v
}

func (r *rowReader) fail(col, raw string, err error) {
	if r.err == nil {
		r.err = &CellError{Competition: r.competition, Column: col, Row: r.row, Value: raw, Err: err}
	}
}

var (
	errNotCount = errors.New("must be a non-negative finite number")
	errNotWhole = errors.New("must be a whole number")
)

// parseNumber treats blank and NaN cells as zero and strips thousands separators.
func parseNumber(raw string) (float64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" || strings.EqualFold(s, "nan") {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, errNotCount
	}
	return v, nil
}
