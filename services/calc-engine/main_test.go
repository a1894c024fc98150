package main

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/Cokul/pres-prom-inmob/pkg/core/calendar"
	"github.com/Cokul/pres-prom-inmob/pkg/core/cashflow"
	"github.com/Cokul/pres-prom-inmob/pkg/core/store"
)

func bundle() store.Bundle {
	start := calendar.MustParseMonth("2025-01")
	return store.Bundle{
		Parameters: cashflow.DefaultParameters(start),
		Plan:       cashflow.SalesPlan{Monthly: map[calendar.Month]int{start: 20}},
	}
}

func TestRunChecks(t *testing.T) {
	var buf bytes.Buffer
	if code := runChecks(&buf, bundle()); code != 0 {
		t.Fatalf("exit code = %d, output %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "Success:") {
		t.Errorf("output = %s", buf.String())
	}
}

func TestRunCalculations(t *testing.T) {
	tests := []struct {
		name string
		rate float64
		code int
		want string
	}{
		{"summary", 0.08, 0, `"units_sold": 20`},
		{"unencodable rate", math.NaN(), 1, "Error marshaling summary"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if code := runCalculations(&buf, bundle(), tt.rate); code != tt.code {
				t.Errorf("exit code = %d, want %d", code, tt.code)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output = %s", buf.String())
			}
		})
	}
}

func TestRunRejectsInvalidBundle(t *testing.T) {
	b := bundle()
	b.Parameters.Units = 0
	var buf bytes.Buffer
	if code := runCalculations(&buf, b, 0.08); code != 1 {
		t.Errorf("exit code = %d", code)
	}
}
