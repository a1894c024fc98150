package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Cokul/pres-prom-inmob/pkg/core/calendar"
	"github.com/Cokul/pres-prom-inmob/pkg/core/cashflow"
)

func sampleBundle(version string) Bundle {
	start := calendar.MustParseMonth("2025-01")
	deed := calendar.MustParseMonth("2026-02")
	return Bundle{
		Project:    "torre-sur",
		Version:    version,
		Parameters: cashflow.DefaultParameters(start),
		Plan: cashflow.SalesPlan{Units: []cashflow.UnitSale{
			{Price: 210000, Sold: start.AddMonths(2), Deed: &deed},
			{Price: 230000, Sold: start.AddMonths(5)},
		}},
		Chapters: cashflow.DefaultChapters()[:3],
	}
}

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	saved, err := s.Save(ctx, sampleBundle("base"))
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, saved.ID)
	require.False(t, saved.SavedAt.IsZero())

	loaded, err := s.Load(ctx, "torre-sur", "base")
	require.NoError(t, err)
	require.Equal(t, saved.ID, loaded.ID)
	require.Equal(t, saved.Parameters, loaded.Parameters)
	require.Equal(t, saved.Plan, loaded.Plan)
	require.Equal(t, saved.Chapters, loaded.Chapters)
	require.True(t, saved.SavedAt.Equal(loaded.SavedAt))

	p, err := loaded.Run()
	require.NoError(t, err)
	require.Len(t, p.Execution.Chapters, 3)

	_, err = s.Load(ctx, "torre-sur", "missing")
	require.ErrorIs(t, err, ErrNotFound)

	copied, err := s.Duplicate(ctx, "torre-sur", "base", "optimista")
	require.NoError(t, err)
	require.NotEqual(t, saved.ID, copied.ID)
	require.Equal(t, "optimista", copied.Version)

	_, err = s.Duplicate(ctx, "torre-sur", "base", "optimista")
	require.ErrorIs(t, err, ErrExists)
	_, err = s.Duplicate(ctx, "torre-sur", "missing", "other")
	require.ErrorIs(t, err, ErrNotFound)

	other := sampleBundle("base")
	other.Project = "bloque-b"
	_, err = s.Save(ctx, other)
	require.NoError(t, err)

	entries, err := s.List(ctx, "torre-sur")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "base", entries[0].Version)
	require.Equal(t, "optimista", entries[1].Version)

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "bloque-b", all[0].Project)

	// Overwrite keeps a single row and its ID.
	again := loaded
	again.Notes = "revised prices"
	again.ID = uuid.New()
	resaved, err := s.Save(ctx, again)
	require.NoError(t, err)
	require.Equal(t, saved.ID, resaved.ID)
	entries, err = s.List(ctx, "torre-sur")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.NoError(t, s.Delete(ctx, "torre-sur", "optimista"))
	require.ErrorIs(t, s.Delete(ctx, "torre-sur", "optimista"), ErrNotFound)

	_, err = s.Save(ctx, Bundle{Project: "", Version: "x"})
	require.ErrorIs(t, err, ErrInvalidName)
	_, err = s.Save(ctx, Bundle{Project: "../etc", Version: "x"})
	require.ErrorIs(t, err, ErrInvalidName)
}

func TestSaveAsNewVersionGetsFreshID(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	v1, err := s.Save(ctx, sampleBundle("v1"))
	require.NoError(t, err)

	// round trip through the exported file, as `snapshot load -o` then `snapshot save` does
	data, err := v1.Encode()
	require.NoError(t, err)
	edited, err := DecodeBundle(data)
	require.NoError(t, err)
	require.Equal(t, v1.ID, edited.ID)
	edited.Version = "v2"

	v2, err := s.Save(ctx, edited)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, v2.ID)
	require.NotEqual(t, v1.ID, v2.ID)

	loaded, err := s.Load(ctx, "torre-sur", "v2")
	require.NoError(t, err)
	require.Equal(t, v2.ID, loaded.ID)

	stillV1, err := s.Load(ctx, "torre-sur", "v1")
	require.NoError(t, err)
	require.Equal(t, v1.ID, stillV1.ID)
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	exerciseStore(t, s)
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "snapshots.db"))
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := InitDB(ctx, dsn)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `DROP TABLE IF EXISTS cashflow_snapshots`)
	require.NoError(t, err)

	s, err := NewPostgresStore(ctx, pool)
	require.NoError(t, err)
	exerciseStore(t, s)
}

func TestFileStoreReadsHandEditedBundle(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	hand := `{
  // edited by hand
  project: ignored
  version: ignored
  parameters: {
    units: 4
    built_area: 400
    average_price: 180000
    execution_cost_per_area: 700
    construction_start: "2025-02"
    commercialization_start: "2025-01"
    construction_months: 12
    payments: { reservation_fee: 3000, contract_rate: 0.1, deferred_rate: 0.1 }
  }
  plan: { monthly: { "2025-03": 4 } }
}`
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "casa"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "casa", "v1.json"), []byte(hand), 0o644))

	b, err := s.Load(context.Background(), "casa", "v1")
	require.NoError(t, err)
	require.Equal(t, "casa", b.Project)
	require.Equal(t, "v1", b.Version)
	require.Equal(t, 4, b.Parameters.Units)
	require.Equal(t, "2025-02", b.Parameters.ConstructionStart.String())
	require.Equal(t, 4, b.Plan.Monthly[calendar.MustParseMonth("2025-03")])

	_, err = b.Run()
	require.NoError(t, err)
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), Config{Backend: "redis"})
	require.Error(t, err)
}
