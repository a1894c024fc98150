package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Cokul/pres-prom-inmob/pkg/core/cashflow"
	"github.com/Cokul/pres-prom-inmob/pkg/core/report"
	"github.com/Cokul/pres-prom-inmob/pkg/core/store"
	"github.com/Cokul/pres-prom-inmob/pkg/core/validate"
	"github.com/Cokul/pres-prom-inmob/pkg/core/valuation"
)

func (a *app) projectCmd() *cobra.Command {
	var (
		flags    scenarioFlags
		snapshot string
		format   string
		out      string
		name     string
		rate     float64
	)
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Run a projection and print or export it",
		Example: `  cashflow project --start 2026-03 --sales ventas.csv
  cashflow project --snapshot torre-sur/base --format xlsx --out torre-sur.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var b store.Bundle
			var err error
			if snapshot != "" {
				b, err = a.loadSnapshot(cmd, snapshot)
			} else {
				b, err = a.bundle(flags)
			}
			if err != nil {
				return err
			}

			p, err := b.Run()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("rate") {
				rate = a.cfg.Valuation.AnnualDiscountRate
			}
			if name == "" {
				name = b.Project
			}
			summary := valuation.Summarize(p, valuation.SummaryInput{AnnualDiscountRate: rate})

			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if err := render(w, format, name, p, summary); err != nil {
				return err
			}
			for _, warning := range validate.EscrowWarnings(p.Rows) {
				fmt.Fprintf(os.Stderr, "[WARNING] %s\n", warning)
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&snapshot, "snapshot", "", "run a saved scenario (project/version)")
	cmd.Flags().StringVarP(&format, "format", "f", "summary", "summary, json, csv, xlsx, md or html")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to a file instead of stdout")
	cmd.Flags().StringVar(&name, "name", "", "project name shown in reports")
	cmd.Flags().Float64Var(&rate, "rate", 0, "annual discount rate (default from config)")
	return cmd
}

func (a *app) loadSnapshot(cmd *cobra.Command, key string) (store.Bundle, error) {
	project, version, err := splitKey(key)
	if err != nil {
		return store.Bundle{}, err
	}
	st, err := a.openStore(cmd.Context())
	if err != nil {
		return store.Bundle{}, err
	}
	defer st.Close()
	return st.Load(cmd.Context(), project, version)
}

func render(w io.Writer, format, name string, p *cashflow.Projection, s valuation.Summary) error {
	switch format {
	case "summary":
		return writeSummary(w, p, s)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Projection   *cashflow.Projection        `json:"projection"`
			Summary      valuation.Summary           `json:"summary"`
			Verification validate.VerificationResult `json:"verification"`
		}{p, s, validate.CheckProjection(p)})
	case "csv":
		return report.WriteCSV(w, p.Rows, report.DefaultCSVOptions())
	case "xlsx":
		return report.WriteXLSX(w, p)
	case "md", "markdown":
		_, err := io.WriteString(w, report.Markdown(p, s, name))
		return err
	case "html":
		html, err := report.HTML(report.Markdown(p, s, name))
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, html)
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func writeSummary(w io.Writer, p *cashflow.Projection, s valuation.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Horizon\t%s .. %s\t\n", s.First, s.Last)
	fmt.Fprintf(tw, "Delivery\t%s\t\n", p.Dates.Delivery)
	fmt.Fprintf(tw, "Units sold\t%d / %d\t\n", s.UnitsSold, s.Units)
	fmt.Fprintf(tw, "Revenue\t%s\t\n", s.Revenue.StringFixed(2))
	fmt.Fprintf(tw, "Commission\t%s\t\n", s.Commission.StringFixed(2))
	fmt.Fprintf(tw, "Execution cost\t%s\t\n", s.ExecutionCost.StringFixed(2))
	fmt.Fprintf(tw, "Other costs\t%s\t\n", s.OtherCosts.StringFixed(2))
	fmt.Fprintf(tw, "Margin\t%s (%.2f%%)\t\n", s.Margin.StringFixed(2), s.MarginPct)
	fmt.Fprintf(tw, "Peak funding\t%s (%s)\t\n", s.PeakFunding.StringFixed(2), s.PeakFundingMonth)
	fmt.Fprintf(tw, "NPV @ %.2f%%\t%.2f\t\n", s.AnnualDiscountRate*100, s.NPV)
	if s.AnnualIRR != nil {
		fmt.Fprintf(tw, "IRR (annual)\t%.2f%%\t\n", *s.AnnualIRR*100)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	res := validate.CheckProjection(p)
	if !res.OK {
		for _, f := range res.FailedChecks {
			fmt.Fprintf(w, "[CHECK FAILED] %s\n", f)
		}
	}
	return nil
}
