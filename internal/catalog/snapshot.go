package catalog

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/statsboard/statsboard/internal/dataset"
	"github.com/statsboard/statsboard/internal/stats"
)

// ErrNotLoaded is returned before the first successful load.
var ErrNotLoaded = errors.New("no dataset loaded")

// Dataset is the derived table for one competition.
type Dataset struct {
	Competition string
	Columns     []string
	Records     []stats.PlayerRecord
	Err         error
}

// HasColumn reports whether the source file carried the stat column.
func (d *Dataset) HasColumn(name string) bool {
	return slices.Contains(d.Columns, name)
}

// Snapshot is one immutable load of the source file.
type Snapshot struct {
	ID           uuid.UUID
	Source       string
	LoadedAt     time.Time
	ModTime      time.Time
	Competitions []string
	datasets     map[string]*Dataset
}

// Build derives every competition of t. A competition whose rows cannot be
// extracted is kept with its error so the others stay usable.
func Build(t *dataset.Table, source string, modTime, loadedAt time.Time) *Snapshot {
	snap := &Snapshot{
		ID:           uuid.New(),
		Source:       source,
		LoadedAt:     loadedAt,
		ModTime:      modTime,
		Competitions: t.Competitions(),
		datasets:     make(map[string]*Dataset),
	}

	for _, comp := range snap.Competitions {
		ds := &Dataset{Competition: comp, Columns: t.Columns(comp)}
		rows, err := t.Rows(comp)
		if err != nil {
			ds.Err = err
		} else {
			ds.Records = stats.Preprocess(rows)
		}
		snap.datasets[comp] = ds
	}

	return snap
}

// Dataset returns the derived table for competition. The returned error is
// dataset.ErrUnknownCompetition or the extraction error recorded at load time.
func (s *Snapshot) Dataset(competition string) (*Dataset, error) {
	ds, ok := s.datasets[competition]
	if !ok {
		return nil, fmt.Errorf("%w: %q", dataset.ErrUnknownCompetition, competition)
	}
	if ds.Err != nil {
		return ds, ds.Err
	}
	return ds, nil
}

// Datasets returns every competition's table in header order.
func (s *Snapshot) Datasets() []*Dataset {
	out := make([]*Dataset, 0, len(s.Competitions))
	for _, comp := range s.Competitions {
		out = append(out, s.datasets[comp])
	}
	return out
}

// Errors maps each competition that failed extraction to its error message.
func (s *Snapshot) Errors() map[string]string {
	out := make(map[string]string)
	for comp, ds := range s.datasets {
		if ds.Err != nil {
			out[comp] = ds.Err.Error()
		}
	}
	return out
}

// RecordCount is the number of derived records across all competitions.
func (s *Snapshot) RecordCount() int {
	n := 0
	for _, ds := range s.datasets {
		n += len(ds.Records)
	}
	return n
}
