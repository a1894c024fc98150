// Package store persists named projection snapshots (parameters, sales plan and chapters) so that
// scenarios can be saved, reloaded, compared and copied. Projections themselves are never stored:
// they are recomputed from the bundle on load.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Cokul/pres-prom-inmob/pkg/core/cashflow"
	"github.com/Cokul/pres-prom-inmob/pkg/core/utils"
)

var (
	// ErrNotFound is returned when no snapshot exists for a project/version pair.
	ErrNotFound = errors.New("snapshot not found")
	// ErrExists is returned when a copy would overwrite an existing snapshot.
	ErrExists = errors.New("snapshot already exists")
	// ErrInvalidName is returned for project or version names that cannot be stored.
	ErrInvalidName = errors.New("invalid snapshot name")
)

// Bundle is one saved scenario.
type Bundle struct {
	ID         uuid.UUID                  `json:"id"`
	Project    string                     `json:"project"`
	Version    string                     `json:"version"`
	Notes      string                     `json:"notes,omitempty"`
	Parameters cashflow.ProjectParameters `json:"parameters"`
	Plan       cashflow.SalesPlan         `json:"plan"`
	Chapters   []cashflow.CostChapter     `json:"chapters,omitempty"` // empty means the built-in table
	SavedAt    time.Time                  `json:"saved_at"`
}

// Entry is the listing view of a bundle.
type Entry struct {
	ID      uuid.UUID `json:"id"`
	Project string    `json:"project"`
	Version string    `json:"version"`
	SavedAt time.Time `json:"saved_at"`
}

func (b Bundle) entry() Entry {
	return Entry{ID: b.ID, Project: b.Project, Version: b.Version, SavedAt: b.SavedAt}
}

// Run recomputes the projection described by the bundle.
func (b Bundle) Run() (*cashflow.Projection, error) {
	var chapters []cashflow.CostChapter
	if len(b.Chapters) > 0 {
		chapters = b.Chapters
	}
	return cashflow.Project(b.Parameters, b.Plan, chapters)
}

// Encode renders the bundle as indented JSON.
func (b Bundle) Encode() ([]byte, error) {
	return json.MarshalIndent(b, "", "  ")
}

// DecodeBundle reads a bundle from JSON, tolerating hand edits (comments, trailing commas, Hjson).
func DecodeBundle(data []byte) (Bundle, error) {
	var b Bundle
	if _, err := utils.SmartParse(string(data), &b); err != nil {
		return Bundle{}, fmt.Errorf("decode bundle: %w", err)
	}
	return b, nil
}

// Store is implemented by every snapshot backend.
type Store interface {
	// Save inserts or replaces the snapshot for b.Project/b.Version, stamps SavedAt and returns
	// the stored bundle. The ID is the one already stored for the project/version, or a fresh one;
	// any ID on b is ignored.
	Save(ctx context.Context, b Bundle) (Bundle, error)
	Load(ctx context.Context, project, version string) (Bundle, error)
	// List returns the snapshots of project, or of every project when project is empty,
	// ordered by project, save time and version.
	List(ctx context.Context, project string) ([]Entry, error)
	// Duplicate copies from into a new version to under a fresh ID.
	Duplicate(ctx context.Context, project, from, to string) (Bundle, error)
	Delete(ctx context.Context, project, version string) error
	Close() error
}

// ValidateName rejects empty names and names that could escape a directory.
func ValidateName(kind, name string) error {
	n := strings.TrimSpace(name)
	switch {
	case n == "":
		return fmt.Errorf("%w: %s name is required", ErrInvalidName, kind)
	case n != name:
		return fmt.Errorf("%w: %s name %q has leading or trailing spaces", ErrInvalidName, kind, name)
	case n == "." || n == ".." || strings.ContainsAny(n, `/\`):
		return fmt.Errorf("%w: %s name %q is not allowed", ErrInvalidName, kind, name)
	}
	return nil
}

func validateKey(project, version string) error {
	if err := ValidateName("project", project); err != nil {
		return err
	}
	return ValidateName("version", version)
}

// prepare validates the key and stamps ID and save time. The incoming ID is ignored: a snapshot
// keeps the ID of the project/version it overwrites and gets a fresh one otherwise.
func prepare(ctx context.Context, s Store, b Bundle) (Bundle, error) {
	if err := validateKey(b.Project, b.Version); err != nil {
		return Bundle{}, err
	}
	existing, err := s.Load(ctx, b.Project, b.Version)
	switch {
	case err == nil && existing.ID != uuid.Nil:
		b.ID = existing.ID
	case err == nil, errors.Is(err, ErrNotFound):
		b.ID = uuid.New()
	default:
		return Bundle{}, err
	}
	b.SavedAt = time.Now().UTC().Truncate(time.Millisecond)
	return b, nil
}

// duplicate implements Store.Duplicate on top of Load and Save.
func duplicate(ctx context.Context, s Store, project, from, to string) (Bundle, error) {
	if err := validateKey(project, to); err != nil {
		return Bundle{}, err
	}
	src, err := s.Load(ctx, project, from)
	if err != nil {
		return Bundle{}, err
	}
	if _, err := s.Load(ctx, project, to); err == nil {
		return Bundle{}, fmt.Errorf("%s/%s: %w", project, to, ErrExists)
	} else if !errors.Is(err, ErrNotFound) {
		return Bundle{}, err
	}
	src.Version = to
	return s.Save(ctx, src)
}
