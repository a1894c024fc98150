package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Cokul/pres-prom-inmob/pkg/core/store"
	"github.com/Cokul/pres-prom-inmob/pkg/core/validate"
	"github.com/Cokul/pres-prom-inmob/pkg/core/valuation"
)

func main() {
	mode := flag.String("mode", "calculate", "Mode: check or calculate")
	dataStr := flag.String("data", "", "Scenario bundle (JSON or Hjson)")
	rate := flag.Float64("rate", 0.08, "Annual discount rate")
	flag.Parse()

	if *dataStr == "" {
		fmt.Println("Error: No data provided")
		os.Exit(1)
	}

	b, err := store.DecodeBundle([]byte(*dataStr))
	if err != nil {
		fmt.Printf("Error unmarshaling data: %v\n", err)
		os.Exit(1)
	}

	switch *mode {
	case "check":
		os.Exit(runChecks(os.Stdout, b))
	case "calculate":
		os.Exit(runCalculations(os.Stdout, b, *rate))
	default:
		fmt.Printf("Unknown mode: %s\n", *mode)
		os.Exit(2)
	}
}

func runChecks(w io.Writer, b store.Bundle) int {
	p, err := b.Run()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	}
	res := validate.CheckProjection(p)
	for _, warning := range res.Warnings {
		fmt.Fprintf(w, "Warning: %s\n", warning)
	}
	if !res.OK {
		for _, f := range res.FailedChecks {
			fmt.Fprintf(w, "Error: %s\n", f)
		}
		return 1
	}
	fmt.Fprintf(w, "Success: %d checks passed\n", len(res.Checks))
	return 0
}

func runCalculations(w io.Writer, b store.Bundle, rate float64) int {
	p, err := b.Run()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	}
	out, err := json.MarshalIndent(valuation.Summarize(p, valuation.SummaryInput{AnnualDiscountRate: rate}), "", "  ")
	if err != nil {
		fmt.Fprintf(w, "Error marshaling summary: %v\n", err)
		return 1
	}
	fmt.Fprintln(w, string(out))
	return 0
}
