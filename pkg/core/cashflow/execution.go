package cashflow

import (
	"github.com/shopspring/decimal"

	"github.com/Cokul/pres-prom-inmob/pkg/core/calendar"
	"github.com/Cokul/pres-prom-inmob/pkg/core/series"
)

// ChapterAllocation is one chapter's share of the execution cost spread over its months.
type ChapterAllocation struct {
	Chapter   CostChapter     `json:"chapter"` // weight renormalised
	TotalCost decimal.Decimal `json:"total_cost"`
	First     calendar.Month  `json:"first"`
	Last      calendar.Month  `json:"last"`
	Monthly   series.Monthly  `json:"monthly"`
}

// ExecutionSchedule is the construction cost per month, in total and by chapter.
type ExecutionSchedule struct {
	Total    series.Monthly      `json:"total"`
	Chapters []ChapterAllocation `json:"chapters"`
}

// TotalExecutionCost is built area times cost per m², positive, to the cent.
func TotalExecutionCost(params ProjectParameters) decimal.Decimal {
	return series.Cents(decimal.NewFromFloat(params.BuiltArea).Mul(decimal.NewFromFloat(params.ExecutionCostPerArea)))
}

// AllocateExecution distributes the execution cost across chapters by weight and each chapter evenly
// over its duration. Chapter months sum exactly to the chapter total.
func AllocateExecution(params ProjectParameters, chapters []CostChapter) (ExecutionSchedule, error) {
	if err := ValidateChapters(chapters); err != nil {
		return ExecutionSchedule{}, err
	}
	normalized, err := NormalizeWeights(chapters)
	if err != nil {
		return ExecutionSchedule{}, err
	}

	total := TotalExecutionCost(params)
	hundred := decimal.NewFromInt(100)
	sched := ExecutionSchedule{
		Total:    series.New(),
		Chapters: make([]ChapterAllocation, 0, len(normalized)),
	}

	for _, c := range normalized {
		cost := series.Cents(decimal.NewFromFloat(c.Weight).Div(hundred).Mul(total)).Neg()
		first := params.ConstructionStart.AddMonths(c.StartOffset)
		alloc := ChapterAllocation{
			Chapter:   c,
			TotalCost: cost,
			First:     first,
			Last:      first.AddMonths(c.Duration - 1),
			Monthly:   series.New(),
		}
		for i, share := range series.Split(cost, c.Duration) {
			alloc.Monthly.Add(first.AddMonths(i), share)
		}
		sched.Total = series.Sum(sched.Total, alloc.Monthly)
		sched.Chapters = append(sched.Chapters, alloc)
	}

	if first, last, ok := sched.Total.Span(); ok {
		sched.Total.Dense(first, last)
	}
	return sched, nil
}
