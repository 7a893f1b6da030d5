package database

import (
	"time"

	"github.com/google/uuid"
)

// Load represents a row in the snapshots table.
type Load struct {
	ID           uuid.UUID
	Source       string
	LoadedAt     time.Time
	ModTime      time.Time
	Competitions []string
	Errors       map[string]string
	RecordCount  int
}

// ListFilter holds pagination for listing loads.
type ListFilter struct {
	Page  int // default 1
	Limit int // default 20
}

// ListResult holds the result of a paginated list query.
type ListResult struct {
	Loads []Load
	Total int
	Page  int
	Limit int
}
