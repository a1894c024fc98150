package valuation

import (
	"github.com/shopspring/decimal"

	"github.com/Cokul/pres-prom-inmob/pkg/core/calendar"
	"github.com/Cokul/pres-prom-inmob/pkg/core/cashflow"
)

// SummaryInput carries the valuation assumptions that are not part of the projection.
type SummaryInput struct {
	AnnualDiscountRate float64
}

// Summary is the headline view of a projection: totals, margin, funding need and returns.
// Cost figures keep the projection's sign (negative).
type Summary struct {
	First calendar.Month `json:"first"`
	Last  calendar.Month `json:"last"`

	Units     int `json:"units"`
	UnitsSold int `json:"units_sold"`

	Revenue              decimal.Decimal `json:"revenue"`
	Commission           decimal.Decimal `json:"commission"`
	ExecutionCost        decimal.Decimal `json:"execution_cost"`
	ExecutionCostWithTax decimal.Decimal `json:"execution_cost_with_tax"`
	LandCost             decimal.Decimal `json:"land_cost"`
	TechnicalFees        decimal.Decimal `json:"technical_fees"`
	AdminExpenses        decimal.Decimal `json:"admin_expenses"`
	FinancialCosts       decimal.Decimal `json:"financial_costs"`
	OtherCosts           decimal.Decimal `json:"other_costs"`
	TotalCosts           decimal.Decimal `json:"total_costs"`

	Margin    decimal.Decimal `json:"margin"`
	MarginPct float64         `json:"margin_pct"` // of revenue

	PeakFunding      decimal.Decimal `json:"peak_funding"` // largest cumulative shortfall, positive
	PeakFundingMonth calendar.Month  `json:"peak_funding_month"`

	EscrowDeficit  decimal.Decimal `json:"escrow_deficit"`
	EscrowBreaches int             `json:"escrow_breaches"`

	AnnualDiscountRate float64  `json:"annual_discount_rate"`
	NPV                float64  `json:"npv"`
	MonthlyIRR         *float64 `json:"monthly_irr,omitempty"`
	AnnualIRR          *float64 `json:"annual_irr,omitempty"`
}

// Summarize aggregates the consolidated table of p.
func Summarize(p *cashflow.Projection, input SummaryInput) Summary {
	s := Summary{
		Units:              p.Parameters.Units,
		UnitsSold:          p.Plan.UnitsSold(),
		AnnualDiscountRate: input.AnnualDiscountRate,
	}
	if len(p.Rows) == 0 {
		return s
	}
	s.First, s.Last = p.Rows[0].Month, p.Rows[len(p.Rows)-1].Month
	s.PeakFundingMonth = s.First

	flows := make([]float64, len(p.Rows))
	lowest := decimal.Zero
	for i, r := range p.Rows {
		s.Revenue = s.Revenue.Add(r.TotalRevenue)
		s.Commission = s.Commission.Add(r.Commission)
		s.ExecutionCost = s.ExecutionCost.Add(r.ExecutionCost)
		s.LandCost = s.LandCost.Add(r.LandCost)
		s.TechnicalFees = s.TechnicalFees.Add(r.TechnicalFees)
		s.AdminExpenses = s.AdminExpenses.Add(r.AdminExpenses)
		s.FinancialCosts = s.FinancialCosts.Add(r.FinancialCosts)
		s.OtherCosts = s.OtherCosts.Add(r.OtherCosts)

		if r.CumulativeFlow.LessThan(lowest) {
			lowest = r.CumulativeFlow
			s.PeakFundingMonth = r.Month
		}
		if r.EscrowDeficit.IsNegative() {
			s.EscrowDeficit = s.EscrowDeficit.Add(r.EscrowDeficit)
			s.EscrowBreaches++
		}
		flows[i] = r.MonthlyFlow.InexactFloat64()
	}

	s.ExecutionCostWithTax = s.ExecutionCost.Mul(decimal.NewFromInt(1).Add(decimal.NewFromFloat(p.Parameters.ExecutionTaxRate))).Round(2)
	s.TotalCosts = s.Commission.Add(s.ExecutionCost).Add(s.OtherCosts)
	s.Margin = p.Rows[len(p.Rows)-1].CumulativeFlow
	if !s.Revenue.IsZero() {
		s.MarginPct = s.Margin.Div(s.Revenue).InexactFloat64() * 100
	}
	s.PeakFunding = lowest.Neg()

	s.NPV = NPV(flows, MonthlyRate(input.AnnualDiscountRate))
	if monthly, err := IRR(flows); err == nil {
		annual := AnnualRate(monthly)
		s.MonthlyIRR, s.AnnualIRR = &monthly, &annual
	}
	return s
}
