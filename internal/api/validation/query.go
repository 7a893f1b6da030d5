package validation

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/statsboard/statsboard/internal/dashboard"
	"github.com/statsboard/statsboard/internal/stats"
)

// MaxLimit caps the limit query parameter.
const MaxLimit = 100

// SortPer90 orders the players table by G+A per 90.
const SortPer90 = "per90"

// SortGoals orders the players table by goals.
const SortGoals = "goals"

// FieldError represents a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ViewQuery holds the selection state of a dashboard view. Nil slices mean
// the parameter was absent.
type ViewQuery struct {
	Positions []stats.Position
	Columns   []string
	Limit     int
	Cards     []dashboard.CardKind
	Group     stats.Position
	Sort      string
}

// ParseViewQuery validates the view parameters in q. Limit defaults to
// defaultLimit and card types default to yellow and red.
// Returns a slice of field errors; empty slice means valid.
func ParseViewQuery(q url.Values, defaultLimit int) (ViewQuery, []FieldError) {
	var errs []FieldError
	vq := ViewQuery{
		Limit: defaultLimit,
		Cards: []dashboard.CardKind{dashboard.CardYellow, dashboard.CardRed},
	}

	if q.Has("positions") {
		for _, v := range splitList(q.Get("positions")) {
			p, ok := stats.ParsePosition(v)
			if !ok {
				errs = append(errs, FieldError{Field: "positions", Message: fmt.Sprintf("unknown position group %q; must be one of GK, DF, MF, FW, Other", v)})
				continue
			}
			if !slices.Contains(vq.Positions, p) {
				vq.Positions = append(vq.Positions, p)
			}
		}
	}

	if q.Has("columns") {
		cols := splitList(q.Get("columns"))
		if len(cols) == 0 {
			errs = append(errs, FieldError{Field: "columns", Message: "columns must name at least one column"})
		} else if err := dashboard.CheckColumns(cols); err != nil {
			errs = append(errs, FieldError{Field: "columns", Message: err.Error()})
		} else {
			vq.Columns = cols
		}
	}

	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > MaxLimit {
			errs = append(errs, FieldError{Field: "limit", Message: fmt.Sprintf("limit must be an integer between 1 and %d", MaxLimit)})
		} else {
			vq.Limit = limit
		}
	}

	if q.Has("cards") {
		vq.Cards = nil
		for _, v := range splitList(q.Get("cards")) {
			k, ok := dashboard.ParseCardKind(v)
			if !ok {
				errs = append(errs, FieldError{Field: "cards", Message: fmt.Sprintf("unknown card type %q; must be yellow or red", v)})
				continue
			}
			if !slices.Contains(vq.Cards, k) {
				vq.Cards = append(vq.Cards, k)
			}
		}
		if len(vq.Cards) == 0 && len(errs) == 0 {
			errs = append(errs, FieldError{Field: "cards", Message: dashboard.ErrNoCardKind.Error()})
		}
	}

	if v := q.Get("group"); v != "" {
		p, ok := stats.ParsePosition(v)
		if !ok {
			errs = append(errs, FieldError{Field: "group", Message: fmt.Sprintf("unknown position group %q", v)})
		} else {
			vq.Group = p
		}
	}

	if v := q.Get("sort"); v != "" {
		if v != SortPer90 && v != SortGoals {
			errs = append(errs, FieldError{Field: "sort", Message: "sort must be per90 or goals"})
		} else {
			vq.Sort = v
		}
	}

	return vq, errs
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
