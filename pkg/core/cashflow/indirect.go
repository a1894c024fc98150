package cashflow

import (
	"github.com/shopspring/decimal"

	"github.com/Cokul/pres-prom-inmob/pkg/core/series"
)

// IndirectCosts groups land, technical fees and administration expenses.
type IndirectCosts struct {
	Land          series.Monthly `json:"land"`
	TechnicalFees series.Monthly `json:"technical_fees"`
	Admin         series.Monthly `json:"admin"`
	Total         series.Monthly `json:"total"`
}

var (
	half        = decimal.RequireFromString("0.5")
	feeAtFinish = decimal.RequireFromString("0.3")
)

// ScheduleIndirect places the land purchase and the fee and admin milestones.
//
// Technical fees: half at construction start, 30% at construction end and the remaining 20% spread
// over every month from start to end inclusive. Admin: half at construction start, half at delivery.
func ScheduleIndirect(params ProjectParameters) IndirectCosts {
	dates := params.KeyDates()
	exec := TotalExecutionCost(params)

	land := series.New()
	land.Add(dates.CommercializationStart, series.Cents(decimal.NewFromFloat(params.LandCost)).Neg())

	fees := series.New()
	feeTotal := series.Cents(exec.Mul(decimal.NewFromFloat(params.TechnicalFeeRate))).Neg()
	atStart := series.Cents(feeTotal.Mul(half))
	atEnd := series.Cents(feeTotal.Mul(feeAtFinish))
	fees.Add(dates.ConstructionStart, atStart)
	fees.Add(dates.ConstructionEnd, atEnd)
	spread := feeTotal.Sub(atStart).Sub(atEnd)
	// start..end inclusive: the end month takes a share as well as the 30% instalment
	for i, share := range series.Split(spread, params.ConstructionMonths+1) {
		fees.Add(dates.ConstructionStart.AddMonths(i), share)
	}

	admin := series.New()
	adminTotal := series.Cents(exec.Mul(decimal.NewFromFloat(params.AdminRate))).Neg()
	first := series.Cents(adminTotal.Mul(half))
	admin.Add(dates.ConstructionStart, first)
	admin.Add(dates.Delivery, adminTotal.Sub(first))

	return IndirectCosts{
		Land:          land,
		TechnicalFees: fees,
		Admin:         admin,
		Total:         series.Sum(land, fees, admin),
	}
}
