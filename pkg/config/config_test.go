package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Cokul/pres-prom-inmob/pkg/core/calendar"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"CASHFLOW_STORE", "CASHFLOW_STORE_PATH", "DATABASE_URL", "CASHFLOW_API_ADDR", "CASHFLOW_ALLOW_ORIGIN", "CASHFLOW_DISCOUNT_RATE"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cashflow.yaml")
	yml := `
store:
  backend: sqlite
  path: data/snapshots.db
valuation:
  annual_discount_rate: 0.1
project:
  units: 12
  built_area: 1500
  average_price: 250000
  execution_cost_per_area: 900
  construction_start: 2026-03
  commercialization_start: 2026-01
  construction_months: 20
  payments:
    reservation_fee: 5000
    contract_rate: 0.2
    deferred_rate: 0.1
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))
	t.Chdir(dir)
	clearEnv(t)
	t.Setenv("CASHFLOW_API_ADDR", ":9090")
	t.Setenv("CASHFLOW_DISCOUNT_RATE", "0.12")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "sqlite", cfg.Store.Backend)
	require.Equal(t, "data/snapshots.db", cfg.StoreOptions().Path)
	require.Equal(t, ":9090", cfg.API.Addr)
	require.Equal(t, 0.12, cfg.Valuation.AnnualDiscountRate)

	p := cfg.ProjectDefaults(calendar.MustParseMonth("2025-01"))
	require.Equal(t, 12, p.Units)
	require.Equal(t, "2026-03", p.ConstructionStart.String())
}

func TestLoadRejectsBadSettings(t *testing.T) {
	t.Chdir(t.TempDir())
	clearEnv(t)

	t.Setenv("CASHFLOW_STORE", "postgres")
	t.Setenv("DATABASE_URL", "")
	_, err := Load("")
	require.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
