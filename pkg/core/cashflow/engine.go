package cashflow

import (
	"github.com/Cokul/pres-prom-inmob/pkg/core/calendar"
	"github.com/Cokul/pres-prom-inmob/pkg/core/series"
)

// Projection is the complete result of one run.
type Projection struct {
	Parameters ProjectParameters `json:"parameters"`
	Dates      calendar.KeyDates `json:"dates"`
	Plan       SalesPlan         `json:"plan"`

	Revenue    RevenueSchedule   `json:"revenue"`
	Commission series.Monthly    `json:"commission"`
	Execution  ExecutionSchedule `json:"execution"`
	Indirect   IndirectCosts     `json:"indirect"`
	Financial  series.Monthly    `json:"financial"`

	Rows []ConsolidatedRow `json:"rows"`
}

// Project validates the inputs and runs every scheduler, then consolidates. A nil chapter list
// selects DefaultChapters. No partial projection is returned on error.
func Project(params ProjectParameters, plan SalesPlan, chapters []CostChapter) (*Projection, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if chapters == nil {
		chapters = DefaultChapters()
	}

	revenue, err := ScheduleRevenue(params, plan)
	if err != nil {
		return nil, err
	}
	execution, err := AllocateExecution(params, chapters)
	if err != nil {
		return nil, err
	}

	p := &Projection{
		Parameters: params,
		Dates:      params.KeyDates(),
		Plan:       clonePlan(plan),
		Revenue:    revenue,
		Commission: ScheduleCommission(revenue.Total, params),
		Execution:  execution,
		Indirect:   ScheduleIndirect(params),
		Financial:  ScheduleFinancing(params, plan),
	}
	p.Rows = Consolidate(ConsolidationInput{
		Revenue:    p.Revenue,
		Commission: p.Commission,
		Execution:  p.Execution.Total,
		Indirect:   p.Indirect,
		Financial:  p.Financial,
	})
	return p, nil
}

// Row returns the consolidated row for m.
func (p *Projection) Row(m calendar.Month) (ConsolidatedRow, bool) {
	if len(p.Rows) == 0 {
		return ConsolidatedRow{}, false
	}
	i := int(m - p.Rows[0].Month)
	if i < 0 || i >= len(p.Rows) {
		return ConsolidatedRow{}, false
	}
	return p.Rows[i], true
}

func clonePlan(plan SalesPlan) SalesPlan {
	out := SalesPlan{}
	if plan.Monthly != nil {
		out.Monthly = make(map[calendar.Month]int, len(plan.Monthly))
		for m, n := range plan.Monthly {
			out.Monthly[m] = n
		}
	}
	if plan.Units != nil {
		out.Units = append([]UnitSale(nil), plan.Units...)
	}
	return out
}
