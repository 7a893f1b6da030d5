package dataset

import (
	"errors"
	"fmt"
)

// ErrMissingHeader is returned when the file has fewer than two header rows.
var ErrMissingHeader = errors.New("dataset must have a two-row column header")

// ErrUnknownCompetition is returned when a competition is not present in the header.
var ErrUnknownCompetition = errors.New("competition not found")

// ErrMissingColumn is wrapped by MissingColumnError.
var ErrMissingColumn = errors.New("required column missing")

// MissingColumnError reports a required stat column absent from a competition.
type MissingColumnError struct {
	Competition string
	Column      string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("competition %q: column %q: %v", e.Competition, e.Column, ErrMissingColumn)
}

func (e *MissingColumnError) Unwrap() error {
	return ErrMissingColumn
}

// CellError reports a value that could not be parsed as a number.
type CellError struct {
	Competition string
	Column      string
	Row         int // 1-based data row, header excluded
	Value       string
	Err         error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("competition %q: row %d: column %q: invalid value %q: %v", e.Competition, e.Row, e.Column, e.Value, e.Err)
}

func (e *CellError) Unwrap() error {
	return e.Err
}
