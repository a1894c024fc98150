package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Cokul/pres-prom-inmob/pkg/core/calendar"
	"github.com/Cokul/pres-prom-inmob/pkg/core/cashflow"
	"github.com/Cokul/pres-prom-inmob/pkg/core/ingest"
)

func (a *app) importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Read budget and sales tables from CSV, HTML or XLSX files",
	}
	cmd.AddCommand(a.importChaptersCmd(), importSalesCmd())
	return cmd
}

func writeJSON(w io.Writer, out string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if out != "" {
		return os.WriteFile(out, data, 0o644)
	}
	_, err = w.Write(data)
	return err
}

func (a *app) importChaptersCmd() *cobra.Command {
	var (
		out      string
		expected float64
	)
	cmd := &cobra.Command{
		Use:   "chapters <file>",
		Short: "Convert a budget table to cost chapters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := importChapters(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("expected") {
				params := a.cfg.ProjectDefaults(calendar.MonthOf(time.Now()))
				expected = cashflow.TotalExecutionCost(params).InexactFloat64()
			}
			audit := auditBudget(res, expected)
			fmt.Fprintf(os.Stderr, "[IMPORT] %d chapters, %d rows skipped\n", len(res.Chapters), len(res.Skipped))
			if audit != nil {
				fmt.Fprintf(os.Stderr, "[IMPORT] budget %.2f: %s\n", audit.Imported, audit.Status)
			}
			return writeJSON(cmd.OutOrStdout(), out, res.Chapters)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the chapters to a JSON file")
	cmd.Flags().Float64Var(&expected, "expected", 0, "execution cost the budget should add up to (default from config)")
	return cmd
}

func importSalesCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "sales <file>",
		Short: "Convert a sales table to a sales plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := ingest.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			plan, err := ingest.SalesPlanFromTable(t)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			fmt.Fprintf(os.Stderr, "[IMPORT] %s plan, %d units\n", plan.Mode(), plan.UnitsSold())
			return writeJSON(cmd.OutOrStdout(), out, plan)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the plan to a JSON file")
	return cmd
}
