package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	pool     *pgxpool.Pool
	poolOnce sync.Once
	poolErr  error
)

// InitDB opens the shared connection pool once per process.
func InitDB(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	poolOnce.Do(func() {
		if dsn == "" {
			poolErr = fmt.Errorf("DATABASE_URL is not set")
			return
		}
		config, err := pgxpool.ParseConfig(dsn)
		if err != nil {
			poolErr = fmt.Errorf("failed to parse database config: %w", err)
			return
		}
		pool, poolErr = pgxpool.NewWithConfig(ctx, config)
	})
	return pool, poolErr
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS cashflow_snapshots (
	id       UUID NOT NULL,
	project  TEXT NOT NULL,
	version  TEXT NOT NULL,
	bundle   JSONB NOT NULL,
	saved_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (project, version)
)`

// PostgresStore keeps bundles as JSONB rows keyed by project and version.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates the snapshot table if needed.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("create snapshot table: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Save(ctx context.Context, b Bundle) (Bundle, error) {
	b, err := prepare(ctx, s, b)
	if err != nil {
		return Bundle{}, err
	}
	data, err := json.Marshal(b)
	if err != nil {
		return Bundle{}, fmt.Errorf("failed to marshal bundle: %w", err)
	}

	query := `
		INSERT INTO cashflow_snapshots (id, project, version, bundle, saved_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (project, version)
		DO UPDATE SET
			id = EXCLUDED.id,
			bundle = EXCLUDED.bundle,
			saved_at = EXCLUDED.saved_at`
	if _, err := s.pool.Exec(ctx, query, b.ID.String(), b.Project, b.Version, data, b.SavedAt); err != nil {
		return Bundle{}, fmt.Errorf("failed to save snapshot: %w", err)
	}
	return b, nil
}

func (s *PostgresStore) Load(ctx context.Context, project, version string) (Bundle, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT bundle FROM cashflow_snapshots WHERE project = $1 AND version = $2`,
		project, version,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return Bundle{}, fmt.Errorf("%s/%s: %w", project, version, ErrNotFound)
	}
	if err != nil {
		return Bundle{}, fmt.Errorf("failed to load snapshot: %w", err)
	}
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return Bundle{}, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return b, nil
}

func (s *PostgresStore) List(ctx context.Context, project string) ([]Entry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id::text, project, version, saved_at
		FROM cashflow_snapshots
		WHERE $1::text = '' OR project = $1
		ORDER BY project, saved_at, version`, project)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e       Entry
			id      string
			savedAt time.Time
		)
		if err := rows.Scan(&id, &e.Project, &e.Version, &savedAt); err != nil {
			return nil, err
		}
		if e.ID, err = parseID(id); err != nil {
			return nil, err
		}
		e.SavedAt = savedAt.UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Duplicate(ctx context.Context, project, from, to string) (Bundle, error) {
	return duplicate(ctx, s, project, from, to)
}

func (s *PostgresStore) Delete(ctx context.Context, project, version string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM cashflow_snapshots WHERE project = $1 AND version = $2`, project, version)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s/%s: %w", project, version, ErrNotFound)
	}
	return nil
}

// Close is a no-op: the pool is shared by the process.
func (s *PostgresStore) Close() error { return nil }
