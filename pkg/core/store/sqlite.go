package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS cashflow_snapshots (
	id       TEXT NOT NULL,
	project  TEXT NOT NULL,
	version  TEXT NOT NULL,
	bundle   TEXT NOT NULL,
	saved_at INTEGER NOT NULL,
	PRIMARY KEY (project, version)
)`

// SQLiteStore keeps bundles in a single local database file.
type SQLiteStore struct {
	sqlDB *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(sqliteSchema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create snapshot table: %w", err)
	}
	return &SQLiteStore{sqlDB: sqlDB}, nil
}

func toMillis(t time.Time) int64 { return t.UTC().UnixMilli() }

func fromMillis(v int64) time.Time { return time.UnixMilli(v).UTC() }

func (s *SQLiteStore) Save(ctx context.Context, b Bundle) (Bundle, error) {
	if err := ctx.Err(); err != nil {
		return Bundle{}, err
	}
	b, err := prepare(ctx, s, b)
	if err != nil {
		return Bundle{}, err
	}
	data, err := json.Marshal(b)
	if err != nil {
		return Bundle{}, fmt.Errorf("marshal bundle: %w", err)
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO cashflow_snapshots (id, project, version, bundle, saved_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (project, version) DO UPDATE SET
		   id = excluded.id,
		   bundle = excluded.bundle,
		   saved_at = excluded.saved_at`,
		b.ID.String(), b.Project, b.Version, string(data), toMillis(b.SavedAt),
	)
	if err != nil {
		return Bundle{}, fmt.Errorf("save snapshot: %w", err)
	}
	return b, nil
}

func (s *SQLiteStore) Load(ctx context.Context, project, version string) (Bundle, error) {
	var data string
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT bundle FROM cashflow_snapshots WHERE project = ? AND version = ?`, project, version,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return Bundle{}, fmt.Errorf("%s/%s: %w", project, version, ErrNotFound)
	}
	if err != nil {
		return Bundle{}, fmt.Errorf("load snapshot: %w", err)
	}
	var b Bundle
	if err := json.Unmarshal([]byte(data), &b); err != nil {
		return Bundle{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return b, nil
}

func (s *SQLiteStore) List(ctx context.Context, project string) ([]Entry, error) {
	query := `SELECT id, project, version, saved_at FROM cashflow_snapshots`
	var args []any
	if project != "" {
		query += ` WHERE project = ?`
		args = append(args, project)
	}
	query += ` ORDER BY project, saved_at, version`

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e     Entry
			id    string
			saved int64
		)
		if err := rows.Scan(&id, &e.Project, &e.Version, &saved); err != nil {
			return nil, err
		}
		if e.ID, err = parseID(id); err != nil {
			return nil, err
		}
		e.SavedAt = fromMillis(saved)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Duplicate(ctx context.Context, project, from, to string) (Bundle, error) {
	return duplicate(ctx, s, project, from, to)
}

func (s *SQLiteStore) Delete(ctx context.Context, project, version string) error {
	res, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM cashflow_snapshots WHERE project = ? AND version = ?`, project, version)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s/%s: %w", project, version, ErrNotFound)
	}
	return nil
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid snapshot id %q: %w", s, err)
	}
	return id, nil
}
