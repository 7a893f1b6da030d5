package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/statsboard/statsboard/internal/catalog"
	"github.com/statsboard/statsboard/internal/stats"
)

// ErrNotFound is returned when a snapshot record is not found.
var ErrNotFound = errors.New("snapshot not found")

// ErrDuplicateSnapshot is returned when a snapshot ID was already stored.
var ErrDuplicateSnapshot = errors.New("snapshot already stored")

// Repository persists derived snapshots and lists past loads.
type Repository interface {
	SaveSnapshot(ctx context.Context, snap *catalog.Snapshot) error
	GetByID(ctx context.Context, id uuid.UUID) (*Load, error)
	List(ctx context.Context, filter ListFilter) (*ListResult, error)
	Records(ctx context.Context, id uuid.UUID, competition string) ([]stats.PlayerRecord, error)
}

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

var recordColumns = []string{
	"snapshot_id", "competition", "row_index", "player", "squad", "pos", "position_group",
	"age", "matches_played", "minutes", "goals", "assists", "goals_assists",
	"non_penalty_goals", "penalties", "penalty_attempts", "yellow_cards", "red_cards", "ga_per90",
}

// SaveSnapshot writes the load row and every derived record in one transaction.
func (r *PostgresRepository) SaveSnapshot(ctx context.Context, snap *catalog.Snapshot) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO snapshots (id, source, loaded_at, mod_time, competitions, errors, record_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		snap.ID, snap.Source, snap.LoadedAt, snap.ModTime, snap.Competitions, snap.Errors(), snap.RecordCount(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateSnapshot
		}
		return fmt.Errorf("inserting snapshot: %w", err)
	}

	var rows [][]any
	for _, ds := range snap.Datasets() {
		for i, rec := range ds.Records {
			rows = append(rows, recordRow(snap.ID, ds.Competition, i, rec))
		}
	}

	if len(rows) > 0 {
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{"player_records"}, recordColumns, pgx.CopyFromRows(rows)); err != nil {
			return fmt.Errorf("copying player records: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	return nil
}

func recordRow(id uuid.UUID, competition string, i int, rec stats.PlayerRecord) []any {
	var per90 *float64
	if v, ok := rec.GoalsPlusAssistsPer90.Value(); ok {
		per90 = &v
	}
	return []any{
		id, competition, i, rec.Player, rec.Squad, rec.Pos, string(rec.Position),
		rec.Age, rec.MatchesPlayed, rec.Minutes, rec.Goals, rec.Assists, rec.GoalsPlusAssists,
		rec.NonPenaltyGoals, rec.Penalties, rec.PenaltyAttempts, rec.YellowCards, rec.RedCards, per90,
	}
}

// GetByID retrieves a single load by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Load, error) {
	var l Load
	err := r.pool.QueryRow(ctx, `
		SELECT id, source, loaded_at, mod_time, competitions, errors, record_count
		FROM snapshots
		WHERE id = $1`, id,
	).Scan(&l.ID, &l.Source, &l.LoadedAt, &l.ModTime, &l.Competitions, &l.Errors, &l.RecordCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning snapshot row: %w", err)
	}
	return &l, nil
}

// List retrieves a page of loads, newest first.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) (*ListResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM snapshots").Scan(&total); err != nil {
		return nil, fmt.Errorf("counting snapshots: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	rows, err := r.pool.Query(ctx, `
		SELECT id, source, loaded_at, mod_time, competitions, errors, record_count
		FROM snapshots
		ORDER BY loaded_at DESC
		LIMIT $1 OFFSET $2`, filter.Limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	loads := []Load{}
	for rows.Next() {
		var l Load
		if err := rows.Scan(&l.ID, &l.Source, &l.LoadedAt, &l.ModTime, &l.Competitions, &l.Errors, &l.RecordCount); err != nil {
			return nil, fmt.Errorf("scanning snapshot row: %w", err)
		}
		loads = append(loads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshot rows: %w", err)
	}

	return &ListResult{
		Loads: loads,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// Records reads back the derived records of one competition in file order.
func (r *PostgresRepository) Records(ctx context.Context, id uuid.UUID, competition string) ([]stats.PlayerRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT player, squad, pos, position_group, age, matches_played, minutes,
		       goals, assists, goals_assists, non_penalty_goals, penalties,
		       penalty_attempts, yellow_cards, red_cards, ga_per90
		FROM player_records
		WHERE snapshot_id = $1 AND competition = $2
		ORDER BY row_index`, id, competition)
	if err != nil {
		return nil, fmt.Errorf("querying player records: %w", err)
	}
	defer rows.Close()

	records := []stats.PlayerRecord{}
	for rows.Next() {
		var (
			rec   stats.PlayerRecord
			group string
			per90 *float64
		)
		err := rows.Scan(
			&rec.Player, &rec.Squad, &rec.Pos, &group, &rec.Age, &rec.MatchesPlayed, &rec.Minutes,
			&rec.Goals, &rec.Assists, &rec.GoalsPlusAssists, &rec.NonPenaltyGoals, &rec.Penalties,
			&rec.PenaltyAttempts, &rec.YellowCards, &rec.RedCards, &per90,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning player record: %w", err)
		}
		rec.Position = stats.Position(group)
		if per90 != nil {
			rec.GoalsPlusAssistsPer90 = stats.DefinedPer90(*per90)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating player records: %w", err)
	}
	return records, nil
}
