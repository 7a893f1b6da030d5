package stats

import "strings"

type positionRule struct {
	group Position
	codes []string
}

// positionRules are evaluated in order; the first rule with a code contained
// in the raw string wins.
var positionRules = []positionRule{
	{group: PositionGK, codes: []string{"GK"}},
	{group: PositionDF, codes: []string{"CB", "RB", "LB", "FB", "DF"}},
	{group: PositionMF, codes: []string{"DM", "CM", "LM", "RM", "WM", "MF"}},
	{group: PositionFW, codes: []string{"AM", "LW", "RW", "FW"}},
}

// ClassifyPosition maps a raw position string such as "DF,MF" to its group.
// Matching is by substring, not by token: "DM" anywhere in raw is enough.
func ClassifyPosition(raw string) Position {
	for _, rule := range positionRules {
		for _, code := range rule.codes {
			if strings.Contains(raw, code) {
				return rule.group
			}
		}
	}
	return PositionOther
}

// DerivePer90 normalizes goals plus assists to a 90 minute rate.
// Zero minutes yields Undefined rather than an infinity.
func DerivePer90(goalsPlusAssists, minutes float64) Per90 {
	if minutes <= 0 {
		return Undefined()
	}
	return DefinedPer90(goalsPlusAssists / (minutes / 90))
}

// Derive computes the derived fields for a single row.
func Derive(row RawRow) PlayerRecord {
	return PlayerRecord{
		RawRow:                row,
		Position:              ClassifyPosition(row.Pos),
		GoalsPlusAssistsPer90: DerivePer90(float64(row.GoalsPlusAssists), row.Minutes),
	}
}

// Preprocess derives every row independently and preserves input order.
func Preprocess(rows []RawRow) []PlayerRecord {
	out := make([]PlayerRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, Derive(row))
	}
	return out
}
