package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a pgxpool.Pool used to persist derived snapshots.
type DB struct {
	pool *pgxpool.Pool
}

// New parses databaseURL, opens a pool and verifies it with a ping.
func New(ctx context.Context, databaseURL string) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	db.pool.Close()
}

// Ping verifies the database connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Pool returns the underlying pool for repository use.
func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id           UUID PRIMARY KEY,
	source       TEXT NOT NULL,
	loaded_at    TIMESTAMPTZ NOT NULL,
	mod_time     TIMESTAMPTZ NOT NULL,
	competitions TEXT[] NOT NULL,
	errors       JSONB NOT NULL DEFAULT '{}',
	record_count INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS player_records (
	snapshot_id      UUID NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
	competition      TEXT NOT NULL,
	row_index        INTEGER NOT NULL,
	player           TEXT NOT NULL,
	squad            TEXT NOT NULL,
	pos              TEXT NOT NULL,
	position_group   TEXT NOT NULL,
	age              DOUBLE PRECISION NOT NULL,
	matches_played   INTEGER NOT NULL,
	minutes          DOUBLE PRECISION NOT NULL,
	goals            INTEGER NOT NULL,
	assists          INTEGER NOT NULL,
	goals_assists    INTEGER NOT NULL,
	non_penalty_goals INTEGER NOT NULL,
	penalties        INTEGER NOT NULL,
	penalty_attempts INTEGER NOT NULL,
	yellow_cards     INTEGER NOT NULL,
	red_cards        INTEGER NOT NULL,
	ga_per90         DOUBLE PRECISION,
	PRIMARY KEY (snapshot_id, competition, row_index)
);

CREATE INDEX IF NOT EXISTS player_records_position_idx
	ON player_records (snapshot_id, competition, position_group);
`

// Migrate creates the snapshot tables if they do not exist.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}
