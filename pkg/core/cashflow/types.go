// Package cashflow projects the monthly cash flow of a residential development: client payment
// tranches, sales commissions, construction cost by chapter, indirect and financing costs, and the
// consolidated project and escrow-account balances.
//
// Every function in this package is pure. Inputs are passed by value and never mutated, so
// independent projections can run side by side.
package cashflow

import (
	"math"

	"github.com/Cokul/pres-prom-inmob/pkg/core/calendar"
)

// PaymentTerms defines how each unit's tax-inclusive price is collected.
// The deed tranche is whatever remains after the other three.
type PaymentTerms struct {
	ReservationFee float64 `json:"reservation_fee" yaml:"reservation_fee"` // flat, per unit
	ContractRate   float64 `json:"contract_rate" yaml:"contract_rate"`     // fraction of tax-inclusive price
	DeferredRate   float64 `json:"deferred_rate" yaml:"deferred_rate"`     // fraction of tax-inclusive price
}

// ProjectParameters are the scalar inputs of a projection. Rates are fractions (0.10 = 10%).
type ProjectParameters struct {
	Units                int     `json:"units" yaml:"units"`
	BuiltArea            float64 `json:"built_area" yaml:"built_area"` // m²
	AveragePrice         float64 `json:"average_price" yaml:"average_price"`
	LandCost             float64 `json:"land_cost" yaml:"land_cost"`
	ExecutionCostPerArea float64 `json:"execution_cost_per_area" yaml:"execution_cost_per_area"`
	TechnicalFeeRate     float64 `json:"technical_fee_rate" yaml:"technical_fee_rate"` // % of execution cost
	AdminRate            float64 `json:"admin_rate" yaml:"admin_rate"`                 // % of execution cost
	FinancingCostPerUnit float64 `json:"financing_cost_per_unit" yaml:"financing_cost_per_unit"`
	CommissionRate       float64 `json:"commission_rate" yaml:"commission_rate"` // on price net of sales tax

	SalesTaxRate     float64 `json:"sales_tax_rate" yaml:"sales_tax_rate"`
	ExecutionTaxRate float64 `json:"execution_tax_rate" yaml:"execution_tax_rate"`
	OtherTaxRate     float64 `json:"other_tax_rate" yaml:"other_tax_rate"` // purchased services

	ConstructionStart      calendar.Month `json:"construction_start" yaml:"construction_start"`
	CommercializationStart calendar.Month `json:"commercialization_start" yaml:"commercialization_start"`
	ConstructionMonths     int            `json:"construction_months" yaml:"construction_months"`

	Payments PaymentTerms `json:"payments" yaml:"payments"`
}

// DefaultParameters returns the reference project used when nothing else is supplied:
// 20 homes on 2,000 m², both construction and sales starting at start.
func DefaultParameters(start calendar.Month) ProjectParameters {
	return ProjectParameters{
		Units:                  20,
		BuiltArea:              2000,
		AveragePrice:           220000,
		LandCost:               300000,
		ExecutionCostPerArea:   750,
		TechnicalFeeRate:       0.06,
		AdminRate:              0.03,
		FinancingCostPerUnit:   2000,
		CommissionRate:         0.04,
		SalesTaxRate:           0.10,
		ExecutionTaxRate:       0.10,
		OtherTaxRate:           0.21,
		ConstructionStart:      start,
		CommercializationStart: start,
		ConstructionMonths:     18,
		Payments: PaymentTerms{
			ReservationFee: 6000,
			ContractRate:   0.15,
			DeferredRate:   0.10,
		},
	}
}

// KeyDates derives the construction end and delivery months.
func (p ProjectParameters) KeyDates() calendar.KeyDates {
	return calendar.NewKeyDates(p.ConstructionStart, p.ConstructionMonths, p.CommercializationStart)
}

// Validate checks every scalar bound and returns a *ConfigurationError for the first violation.
func (p ProjectParameters) Validate() error {
	amounts := []struct {
		field string
		value float64
	}{
		{"built_area", p.BuiltArea},
		{"average_price", p.AveragePrice},
		{"land_cost", p.LandCost},
		{"execution_cost_per_area", p.ExecutionCostPerArea},
		{"financing_cost_per_unit", p.FinancingCostPerUnit},
		{"payments.reservation_fee", p.Payments.ReservationFee},
	}
	for _, a := range amounts {
		if math.IsNaN(a.value) || math.IsInf(a.value, 0) {
			return &ConfigurationError{Field: a.field, Value: a.value, Reason: "must be a finite number"}
		}
		if a.value < 0 {
			return &ConfigurationError{Field: a.field, Value: a.value, Reason: "must not be negative"}
		}
	}

	rates := []struct {
		field string
		value float64
	}{
		{"technical_fee_rate", p.TechnicalFeeRate},
		{"admin_rate", p.AdminRate},
		{"commission_rate", p.CommissionRate},
		{"sales_tax_rate", p.SalesTaxRate},
		{"execution_tax_rate", p.ExecutionTaxRate},
		{"other_tax_rate", p.OtherTaxRate},
		{"payments.contract_rate", p.Payments.ContractRate},
		{"payments.deferred_rate", p.Payments.DeferredRate},
	}
	for _, r := range rates {
		if math.IsNaN(r.value) || r.value < 0 || r.value > 1 {
			return &ConfigurationError{Field: r.field, Value: r.value, Reason: "must be a fraction between 0 and 1"}
		}
	}

	if p.Units < 1 {
		return &ConfigurationError{Field: "units", Value: float64(p.Units), Reason: "must be at least 1"}
	}
	if p.ConstructionMonths < 1 {
		return &ConfigurationError{Field: "construction_months", Value: float64(p.ConstructionMonths), Reason: "must be at least 1"}
	}
	if p.Payments.ContractRate+p.Payments.DeferredRate > 1 {
		return &ConfigurationError{
			Field:  "payments",
			Value:  p.Payments.ContractRate + p.Payments.DeferredRate,
			Reason: "contract and deferred tranches exceed the full price",
		}
	}
	return nil
}

// PlanMode tells which SalesPlan representation is active.
type PlanMode int

const (
	// Aggregate plans give the number of units sold per month at the average price.
	Aggregate PlanMode = iota
	// Itemized plans list each unit with its own price and dates.
	Itemized
)

func (m PlanMode) String() string {
	if m == Itemized {
		return "itemized"
	}
	return "aggregate"
}

// UnitSale is a single sold unit in an itemized plan.
type UnitSale struct {
	Price float64         `json:"price"`
	Sold  calendar.Month  `json:"sold"`
	Deed  *calendar.Month `json:"deed,omitempty"` // explicit deed date, optional
}

// SalesPlan is either an aggregate month -> units mapping or an itemized unit list, never both.
type SalesPlan struct {
	Monthly map[calendar.Month]int `json:"monthly,omitempty"`
	Units   []UnitSale             `json:"units,omitempty"`
}

// Mode reports the active representation. An empty plan is aggregate.
func (p SalesPlan) Mode() PlanMode {
	if len(p.Units) > 0 {
		return Itemized
	}
	return Aggregate
}

// UnitsSold counts the units across the plan.
func (p SalesPlan) UnitsSold() int {
	if p.Mode() == Itemized {
		return len(p.Units)
	}
	total := 0
	for _, u := range p.Monthly {
		total += u
	}
	return total
}

// Validate checks the plan against the project inventory.
func (p SalesPlan) Validate(available int) error {
	if len(p.Monthly) > 0 && len(p.Units) > 0 {
		return &ConfigurationError{Field: "plan", Reason: "aggregate and itemized sales cannot be combined"}
	}
	for m, u := range p.Monthly {
		if u < 0 {
			return &ConfigurationError{Field: "plan.monthly." + m.String(), Value: float64(u), Reason: "must not be negative"}
		}
	}
	for _, u := range p.Units {
		if math.IsNaN(u.Price) || math.IsInf(u.Price, 0) || u.Price < 0 {
			return &ConfigurationError{Field: "plan.units.price", Value: u.Price, Reason: "must be a non-negative number"}
		}
	}
	if p.Mode() == Aggregate {
		if planned := p.UnitsSold(); planned > available {
			return &OversoldError{Planned: planned, Available: available}
		}
	}
	return nil
}
