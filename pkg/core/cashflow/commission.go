package cashflow

import (
	"github.com/shopspring/decimal"

	"github.com/Cokul/pres-prom-inmob/pkg/core/series"
)

// CommissionFor returns the (negative) sales commission on a month's tax-inclusive revenue.
// The commission is charged on the price net of sales tax and itself carries the services tax.
func CommissionFor(revenue decimal.Decimal, commissionRate, salesTaxRate, otherTaxRate float64) decimal.Decimal {
	one := decimal.NewFromInt(1)
	base := revenue.Div(one.Add(decimal.NewFromFloat(salesTaxRate)))
	fee := base.Mul(decimal.NewFromFloat(commissionRate)).Mul(one.Add(decimal.NewFromFloat(otherTaxRate)))
	return series.Cents(fee).Neg()
}

// ScheduleCommission derives the commission series month by month from total revenue.
func ScheduleCommission(revenue series.Monthly, params ProjectParameters) series.Monthly {
	out := make(series.Monthly, len(revenue))
	for m, v := range revenue {
		out[m] = CommissionFor(v, params.CommissionRate, params.SalesTaxRate, params.OtherTaxRate)
	}
	return out
}
