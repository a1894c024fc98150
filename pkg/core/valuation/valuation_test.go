package valuation

import (
	"errors"
	"math"
	"testing"

	"github.com/Cokul/pres-prom-inmob/pkg/core/calendar"
	"github.com/Cokul/pres-prom-inmob/pkg/core/cashflow"
)

func TestNPV(t *testing.T) {
	tests := []struct {
		name     string
		flows    []float64
		rate     float64
		expected float64
	}{
		{"undiscounted", []float64{-100, 50, 60}, 0, 10},
		{"break-even at 10%", []float64{-100, 110}, 0.10, 0},
		{"two periods", []float64{-100, 0, 121}, 0.10, 0},
		{"empty", nil, 0.05, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NPV(tt.flows, tt.rate)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("NPV = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIRR(t *testing.T) {
	tests := []struct {
		name     string
		flows    []float64
		expected float64
	}{
		{"one period", []float64{-100, 110}, 0.10},
		{"two periods", []float64{-100, 0, 121}, 0.10},
		{"loss", []float64{-100, 90}, -0.10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IRR(tt.flows)
			if err != nil {
				t.Fatalf("IRR: %v", err)
			}
			if math.Abs(got-tt.expected) > 1e-6 {
				t.Errorf("IRR = %v, want %v", got, tt.expected)
			}
		})
	}

	if _, err := IRR([]float64{-1, -2}); !errors.Is(err, ErrNoSignChange) {
		t.Errorf("expected ErrNoSignChange, got %v", err)
	}
}

func TestRateConversion(t *testing.T) {
	annual := 0.12
	if got := AnnualRate(MonthlyRate(annual)); math.Abs(got-annual) > 1e-12 {
		t.Errorf("round trip = %v", got)
	}
}

func TestCalculateDiscountRate(t *testing.T) {
	res := CalculateDiscountRate(DiscountRateInput{
		RiskFreeRate:       0.03,
		DevelopmentPremium: 0.09,
		PreTaxCostOfDebt:   0.05,
		TaxRate:            0.25,
		LoanToCost:         0.6,
	})
	// 0.12*0.4 + 0.0375*0.6
	if math.Abs(res.AnnualRate-0.0705) > 1e-12 {
		t.Errorf("AnnualRate = %v, want 0.0705", res.AnnualRate)
	}
}

func TestSummarize(t *testing.T) {
	start := calendar.MustParseMonth("2025-01")
	plan := cashflow.SalesPlan{Monthly: map[calendar.Month]int{start: 10, start.AddMonths(3): 10}}
	p, err := cashflow.Project(cashflow.DefaultParameters(start), plan, nil)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}

	s := Summarize(p, SummaryInput{AnnualDiscountRate: 0})

	if s.UnitsSold != 20 || s.Units != 20 {
		t.Errorf("units %d/%d", s.UnitsSold, s.Units)
	}
	if got := s.Revenue.InexactFloat64(); math.Abs(got-4840000) > 0.001 {
		t.Errorf("revenue = %v", got)
	}
	if got := s.ExecutionCost.InexactFloat64(); math.Abs(got+1500000) > 0.17 {
		t.Errorf("execution = %v", got)
	}
	if got := s.ExecutionCostWithTax.InexactFloat64(); math.Abs(got+1650000) > 0.2 {
		t.Errorf("execution with tax = %v", got)
	}
	if !s.Revenue.Add(s.TotalCosts).Equal(s.Margin) {
		t.Errorf("revenue %s + costs %s != margin %s", s.Revenue, s.TotalCosts, s.Margin)
	}
	if math.Abs(s.NPV-s.Margin.InexactFloat64()) > 0.01 {
		t.Errorf("NPV at 0%% = %v, margin %s", s.NPV, s.Margin)
	}
	if s.PeakFunding.IsNegative() {
		t.Errorf("peak funding %s", s.PeakFunding)
	}
	if s.MarginPct <= 0 || s.MarginPct >= 100 {
		t.Errorf("margin pct %v", s.MarginPct)
	}
}
