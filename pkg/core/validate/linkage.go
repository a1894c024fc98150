package validate

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Cokul/pres-prom-inmob/pkg/core/cashflow"
	"github.com/Cokul/pres-prom-inmob/pkg/core/series"
)

// =============================================================================
// SCHEDULE LINKAGE
// =============================================================================

// CheckExecution links the chapter allocation back to the execution budget:
// every chapter's months add up to its total, and the chapter totals add up to
// minus the execution cost within one cent per chapter.
func CheckExecution(p *cashflow.Projection) []Check {
	var checks []Check
	sum := decimal.Zero
	for _, a := range p.Execution.Chapters {
		checks = append(checks, newCheck(
			fmt.Sprintf("chapter %q months", a.Chapter.Name),
			a.TotalCost, a.Monthly.Total(), decimal.Zero,
		))
		sum = sum.Add(a.TotalCost)
	}
	tolerance := CentTolerance.Mul(decimal.NewFromInt(int64(len(p.Execution.Chapters))))
	checks = append(checks, newCheck(
		"chapter totals vs execution cost",
		cashflow.TotalExecutionCost(p.Parameters).Neg(), sum, tolerance,
	))
	return checks
}

// CheckRevenue links the revenue schedule to the sales plan: tranche totals equal the
// tax-inclusive price of every sold unit.
func CheckRevenue(p *cashflow.Projection) Check {
	expected := decimal.Zero
	params := p.Parameters
	if p.Plan.Mode() == cashflow.Itemized {
		for _, u := range p.Plan.Units {
			expected = expected.Add(cashflow.TaxInclusive(u.Price, params.SalesTaxRate))
		}
	} else {
		unit := cashflow.TaxInclusive(params.AveragePrice, params.SalesTaxRate)
		expected = unit.Mul(decimal.NewFromInt(int64(p.Plan.UnitsSold())))
	}
	return newCheck("revenue vs sold units", expected, p.Revenue.Total.Total(), decimal.Zero)
}

// CheckRows links the consolidated table to the schedules it was built from and verifies
// the running balance.
func CheckRows(p *cashflow.Projection) []Check {
	running := decimal.Zero
	rowRevenue, rowExecution, rowOther := decimal.Zero, decimal.Zero, decimal.Zero
	gaps := 0
	for i, r := range p.Rows {
		if i > 0 && r.Month != p.Rows[i-1].Month.AddMonths(1) {
			gaps++
		}
		running = running.Add(r.MonthlyFlow)
		rowRevenue = rowRevenue.Add(r.TotalRevenue)
		rowExecution = rowExecution.Add(r.ExecutionCost)
		rowOther = rowOther.Add(r.OtherCosts)
	}

	last := decimal.Zero
	if n := len(p.Rows); n > 0 {
		last = p.Rows[n-1].CumulativeFlow
	}
	other := series.Sum(p.Indirect.Total, p.Financial).Total()

	return []Check{
		newCheck("cumulative flow vs sum of monthly flows", running, last, decimal.Zero),
		newCheck("table revenue vs schedule", p.Revenue.Total.Total(), rowRevenue, decimal.Zero),
		newCheck("table execution vs schedule", p.Execution.Total.Total(), rowExecution, decimal.Zero),
		newCheck("table other costs vs schedules", other, rowOther, decimal.Zero),
		newCheck("missing months", decimal.Zero, decimal.NewFromInt(int64(gaps)), decimal.Zero),
	}
}
