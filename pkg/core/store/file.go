package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileStore keeps each bundle as <dir>/<project>/<version>.json. Files can be edited by hand;
// they are read back leniently.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed. An empty dir defaults to .cache/snapshots.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = filepath.Join(".cache", "snapshots")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(project, version string) string {
	return filepath.Join(s.dir, project, version+".json")
}

func (s *FileStore) Save(ctx context.Context, b Bundle) (Bundle, error) {
	if err := ctx.Err(); err != nil {
		return Bundle{}, err
	}
	b, err := prepare(ctx, s, b)
	if err != nil {
		return Bundle{}, err
	}
	data, err := b.Encode()
	if err != nil {
		return Bundle{}, fmt.Errorf("encode bundle: %w", err)
	}

	path := s.path(b.Project, b.Version)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Bundle{}, err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return Bundle{}, err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return Bundle{}, err
	}
	if err := tmp.Close(); err != nil {
		return Bundle{}, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return Bundle{}, fmt.Errorf("write snapshot: %w", err)
	}
	return b, nil
}

func (s *FileStore) Load(ctx context.Context, project, version string) (Bundle, error) {
	if err := validateKey(project, version); err != nil {
		return Bundle{}, err
	}
	data, err := os.ReadFile(s.path(project, version))
	if errors.Is(err, fs.ErrNotExist) {
		return Bundle{}, fmt.Errorf("%s/%s: %w", project, version, ErrNotFound)
	}
	if err != nil {
		return Bundle{}, err
	}
	b, err := DecodeBundle(data)
	if err != nil {
		return Bundle{}, fmt.Errorf("%s/%s: %w", project, version, err)
	}
	// The file location is authoritative over whatever the content says.
	b.Project, b.Version = project, version
	return b, nil
}

func (s *FileStore) List(ctx context.Context, project string) ([]Entry, error) {
	projects := []string{project}
	if project == "" {
		dirs, err := os.ReadDir(s.dir)
		if err != nil {
			return nil, err
		}
		projects = projects[:0]
		for _, d := range dirs {
			if d.IsDir() {
				projects = append(projects, d.Name())
			}
		}
	}

	var out []Entry
	for _, p := range projects {
		files, err := os.ReadDir(filepath.Join(s.dir, p))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			name := f.Name()
			if f.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != ".json" {
				continue
			}
			b, err := s.Load(ctx, p, strings.TrimSuffix(name, ".json"))
			if err != nil {
				fmt.Printf("[STORE] skipping unreadable snapshot %s/%s: %v\n", p, name, err)
				continue
			}
			out = append(out, b.entry())
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Project != b.Project {
			return a.Project < b.Project
		}
		if !a.SavedAt.Equal(b.SavedAt) {
			return a.SavedAt.Before(b.SavedAt)
		}
		return a.Version < b.Version
	})
	return out, nil
}

func (s *FileStore) Duplicate(ctx context.Context, project, from, to string) (Bundle, error) {
	return duplicate(ctx, s, project, from, to)
}

func (s *FileStore) Delete(ctx context.Context, project, version string) error {
	if err := validateKey(project, version); err != nil {
		return err
	}
	err := os.Remove(s.path(project, version))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s/%s: %w", project, version, ErrNotFound)
	}
	return err
}

func (s *FileStore) Close() error { return nil }
