package valuation

import "math"

// DiscountRateInput builds a project discount rate from the capital structure of the development.
type DiscountRateInput struct {
	RiskFreeRate       float64
	DevelopmentPremium float64 // developer's equity risk premium over the risk-free rate
	PreTaxCostOfDebt   float64
	TaxRate            float64
	LoanToCost         float64 // share of total cost funded by the development loan, 0..1
}

// DiscountRateResult holds the blended rate and its components.
type DiscountRateResult struct {
	CostOfEquity float64
	CostOfDebt   float64 // after tax
	WeightDebt   float64
	WeightEquity float64
	AnnualRate   float64
}

// CalculateDiscountRate blends equity and loan cost by loan-to-cost weight.
func CalculateDiscountRate(input DiscountRateInput) DiscountRateResult {
	// Ke = Rf + premium
	ke := input.RiskFreeRate + input.DevelopmentPremium
	// Kd = PreTaxKd * (1 - t)
	kd := input.PreTaxCostOfDebt * (1 - input.TaxRate)

	wd := math.Min(math.Max(input.LoanToCost, 0), 1)
	we := 1 - wd

	return DiscountRateResult{
		CostOfEquity: ke,
		CostOfDebt:   kd,
		WeightDebt:   wd,
		WeightEquity: we,
		AnnualRate:   ke*we + kd*wd,
	}
}

// MonthlyRate converts an effective annual rate to its monthly equivalent.
func MonthlyRate(annual float64) float64 {
	return math.Pow(1+annual, 1.0/12) - 1
}

// AnnualRate converts an effective monthly rate to its annual equivalent.
func AnnualRate(monthly float64) float64 {
	return math.Pow(1+monthly, 12) - 1
}
