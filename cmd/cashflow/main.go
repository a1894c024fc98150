// Command cashflow runs projections, manages saved scenarios and imports spreadsheet tables from the
// command line.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Cokul/pres-prom-inmob/pkg/config"
	"github.com/Cokul/pres-prom-inmob/pkg/core/store"
)

type app struct {
	configPath string
	cfg        config.Config
}

func main() {
	a := &app{}
	root := &cobra.Command{
		Use:           "cashflow",
		Short:         "Monthly cash-flow projections for residential developments",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file (default config/cashflow.yaml)")

	root.AddCommand(a.projectCmd(), a.snapshotCmd(), a.importCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(1)
	}
}

// openStore opens the configured snapshot backend.
func (a *app) openStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, a.cfg.StoreOptions())
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", a.cfg.Store.Backend, err)
	}
	return st, nil
}
