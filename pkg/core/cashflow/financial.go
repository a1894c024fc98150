package cashflow

import (
	"github.com/shopspring/decimal"

	"github.com/Cokul/pres-prom-inmob/pkg/core/series"
)

// ScheduleFinancing charges the per-unit financing cost the month after each sale.
func ScheduleFinancing(params ProjectParameters, plan SalesPlan) series.Monthly {
	out := series.New()
	perUnit := series.Cents(decimal.NewFromFloat(params.FinancingCostPerUnit)).Neg()

	if plan.Mode() == Itemized {
		for _, u := range plan.Units {
			out.Add(u.Sold.AddMonths(ContractLag), perUnit)
		}
		return out
	}
	for m, n := range plan.Monthly {
		if n > 0 {
			out.Add(m.AddMonths(ContractLag), perUnit.Mul(decimal.NewFromInt(int64(n))))
		}
	}
	return out
}
