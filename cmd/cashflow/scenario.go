package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Cokul/pres-prom-inmob/pkg/core/calendar"
	"github.com/Cokul/pres-prom-inmob/pkg/core/cashflow"
	"github.com/Cokul/pres-prom-inmob/pkg/core/ingest"
	"github.com/Cokul/pres-prom-inmob/pkg/core/store"
)

// scenarioFlags are shared by every command that builds a bundle from files.
type scenarioFlags struct {
	scenario string
	start    string
	sales    string
	chapters string
	notes    string
}

func (f *scenarioFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.scenario, "scenario", "", "bundle file (JSON or Hjson) with parameters, plan and chapters")
	cmd.Flags().StringVar(&f.start, "start", "", "construction start (YYYY-MM) of the reference project")
	cmd.Flags().StringVar(&f.sales, "sales", "", "sales plan table (csv, html or xlsx), replaces the scenario plan")
	cmd.Flags().StringVar(&f.chapters, "chapters", "", "budget table (csv, html or xlsx), replaces the scenario chapters")
	cmd.Flags().StringVar(&f.notes, "notes", "", "free text stored with the snapshot")
}

// bundle assembles the scenario: a bundle file or the configured reference project, then the
// optional tables on top.
func (a *app) bundle(f scenarioFlags) (store.Bundle, error) {
	var b store.Bundle
	if f.scenario != "" {
		data, err := os.ReadFile(f.scenario)
		if err != nil {
			return b, err
		}
		if b, err = store.DecodeBundle(data); err != nil {
			return b, fmt.Errorf("%s: %w", f.scenario, err)
		}
	} else {
		start := calendar.MonthOf(time.Now())
		if f.start != "" {
			m, err := calendar.ParseMonth(f.start)
			if err != nil {
				return b, err
			}
			start = m
		}
		b.Parameters = a.cfg.ProjectDefaults(start)
	}

	if f.sales != "" {
		t, err := ingest.ReadFile(f.sales)
		if err != nil {
			return b, fmt.Errorf("%s: %w", f.sales, err)
		}
		if b.Plan, err = ingest.SalesPlanFromTable(t); err != nil {
			return b, fmt.Errorf("%s: %w", f.sales, err)
		}
	}

	if f.chapters != "" {
		res, err := importChapters(f.chapters)
		if err != nil {
			return b, err
		}
		b.Chapters = res.Chapters
		auditBudget(res, cashflow.TotalExecutionCost(b.Parameters).InexactFloat64())
	}

	if f.notes != "" {
		b.Notes = f.notes
	}
	return b, nil
}

func importChapters(path string) (ingest.ChapterImport, error) {
	t, err := ingest.ReadFile(path)
	if err != nil {
		return ingest.ChapterImport{}, fmt.Errorf("%s: %w", path, err)
	}
	res, err := ingest.ImportChapters(t)
	if err != nil {
		return ingest.ChapterImport{}, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

// auditBudget warns when an imported budget does not add up to the expected execution cost.
func auditBudget(res ingest.ChapterImport, expected float64) *ingest.AuditCheckpoint {
	if res.Budget == 0 {
		return nil
	}
	audit := ingest.VerifyBudget(res.Budget, expected)
	if audit.Status == ingest.StatusMismatch {
		fmt.Fprintf(os.Stderr, "[WARNING] Imported budget %.2f differs from execution cost %.2f by %.1f%%; weights are renormalised\n",
			audit.Imported, audit.Expected, audit.VariancePct)
	}
	return &audit
}

// splitKey accepts project/version in one argument.
func splitKey(s string) (project, version string, err error) {
	project, version, ok := strings.Cut(s, "/")
	if !ok {
		return "", "", fmt.Errorf("snapshot %q must be written project/version", s)
	}
	return project, version, nil
}
