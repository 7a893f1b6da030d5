package stats

import (
	"encoding/json"
	"math"
)

// Position is a coarse role bucket derived from raw position codes.
type Position string

const (
	PositionGK    Position = "GK"
	PositionDF    Position = "DF"
	PositionMF    Position = "MF"
	PositionFW    Position = "FW"
	PositionOther Position = "Other"
)

// Positions lists every position group in display order.
var Positions = []Position{PositionGK, PositionDF, PositionMF, PositionFW, PositionOther}

// ParsePosition resolves a group name. It is exact and case-sensitive;
// raw scouting codes go through ClassifyPosition instead.
func ParsePosition(s string) (Position, bool) {
	for _, p := range Positions {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// Rank returns the display order index of p.
func (p Position) Rank() int {
	for i, q := range Positions {
		if p == q {
			return i
		}
	}
	return len(Positions)
}

// Per90 is a per-90-minutes rate that may be undefined (zero minutes played).
// The zero value is undefined.
type Per90 struct {
	value   float64
	defined bool
}

// Undefined returns the undefined rate.
func Undefined() Per90 {
	return Per90{}
}

// DefinedPer90 wraps a finite rate. Non-finite inputs yield Undefined.
func DefinedPer90(v float64) Per90 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Per90{}
	}
	return Per90{value: v, defined: true}
}

// Value returns the rate and whether it is defined.
func (p Per90) Value() (float64, bool) {
	return p.value, p.defined
}

// Defined reports whether the rate carries a number.
func (p Per90) Defined() bool {
	return p.defined
}

// MarshalJSON encodes an undefined rate as null.
func (p Per90) MarshalJSON() ([]byte, error) {
	if !p.defined {
		return []byte("null"), nil
	}
	return json.Marshal(p.value)
}

// UnmarshalJSON accepts a number or null.
func (p *Per90) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*p = Per90{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*p = DefinedPer90(v)
	return nil
}

// RawRow is one flattened CSV row for a single competition.
type RawRow struct {
	Player           string
	Squad            string
	Pos              string
	Age              float64
	MatchesPlayed    int
	Minutes          float64
	Goals            int
	Assists          int
	GoalsPlusAssists int
	NonPenaltyGoals  int
	Penalties        int
	PenaltyAttempts  int
	YellowCards      int
	RedCards         int
}

// PlayerRecord is a RawRow with its derived fields.
type PlayerRecord struct {
	RawRow
	Position              Position
	GoalsPlusAssistsPer90 Per90
}

// Raw returns the input fields the record was derived from.
func (r PlayerRecord) Raw() RawRow {
	return r.RawRow
}
