package dashboard

import (
	"cmp"
	"errors"
	"slices"

	"github.com/statsboard/statsboard/internal/stats"
)

// CardKind selects yellow or red cards.
type CardKind string

const (
	CardYellow CardKind = "yellow"
	CardRed    CardKind = "red"
)

// ErrNoCardKind is returned when no card type is selected.
var ErrNoCardKind = errors.New("select at least one card type")

// ParseCardKind resolves a card type name.
func ParseCardKind(s string) (CardKind, bool) {
	switch CardKind(s) {
	case CardYellow, CardRed:
		return CardKind(s), true
	}
	return "", false
}

// CardRecipients lists players who received a selected card type. With both
// kinds selected, players are ordered by total cards.
func CardRecipients(records []stats.PlayerRecord, kinds []CardKind) ([]stats.PlayerRecord, error) {
	yellow := slices.Contains(kinds, CardYellow)
	red := slices.Contains(kinds, CardRed)
	if !yellow && !red {
		return nil, ErrNoCardKind
	}

	var key func(stats.PlayerRecord) int
	switch {
	case yellow && red:
		key = func(r stats.PlayerRecord) int { return r.YellowCards + r.RedCards }
	case yellow:
		key = func(r stats.PlayerRecord) int { return r.YellowCards }
	default:
		key = func(r stats.PlayerRecord) int { return r.RedCards }
	}

	out := make([]stats.PlayerRecord, 0, len(records))
	for _, r := range records {
		if (yellow && r.YellowCards > 0) || (red && r.RedCards > 0) {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b stats.PlayerRecord) int {
		return cmp.Compare(key(b), key(a))
	})
	return out, nil
}

// CardColumns are the table columns for the selected card kinds.
func CardColumns(kinds []CardKind, hasSquad bool) []string {
	cols := []string{ColPlayer, ColPosition, ColPos}
	if hasSquad {
		cols = append(cols, ColSquad)
	}
	if slices.Contains(kinds, CardYellow) {
		cols = append(cols, ColYellowCards)
	}
	if slices.Contains(kinds, CardRed) {
		cols = append(cols, ColRedCards)
	}
	return cols
}
