package store

import (
	"context"
	"fmt"
)

// Backends accepted by Open.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config selects and locates a backend.
type Config struct {
	Backend string // file (default), sqlite or postgres
	Path    string // directory for file, database file for sqlite
	DSN     string // connection string for postgres
}

// Open returns the configured backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", BackendFile:
		return NewFileStore(cfg.Path)
	case BackendSQLite:
		path := cfg.Path
		if path == "" {
			path = "snapshots.db"
		}
		return OpenSQLite(path)
	case BackendPostgres:
		pool, err := InitDB(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return NewPostgresStore(ctx, pool)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
