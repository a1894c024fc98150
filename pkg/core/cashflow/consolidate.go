package cashflow

import (
	"github.com/shopspring/decimal"

	"github.com/Cokul/pres-prom-inmob/pkg/core/calendar"
	"github.com/Cokul/pres-prom-inmob/pkg/core/series"
)

// ConsolidatedRow is one month of the project table. Costs are negative.
type ConsolidatedRow struct {
	Month calendar.Month `json:"month"`

	Reservation  decimal.Decimal `json:"reservation"`
	Contract     decimal.Decimal `json:"contract"`
	Deferred     decimal.Decimal `json:"deferred"`
	Deed         decimal.Decimal `json:"deed"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	Commission   decimal.Decimal `json:"commission"`
	NetRevenue   decimal.Decimal `json:"net_revenue"`

	ExecutionCost  decimal.Decimal `json:"execution_cost"`
	LandCost       decimal.Decimal `json:"land_cost"`
	TechnicalFees  decimal.Decimal `json:"technical_fees"`
	AdminExpenses  decimal.Decimal `json:"admin_expenses"`
	FinancialCosts decimal.Decimal `json:"financial_costs"`
	OtherCosts     decimal.Decimal `json:"other_costs"`

	MonthlyFlow    decimal.Decimal `json:"monthly_flow"`
	CumulativeFlow decimal.Decimal `json:"cumulative_flow"`

	EscrowInflow  decimal.Decimal `json:"escrow_inflow"`
	EscrowOutflow decimal.Decimal `json:"escrow_outflow"`
	EscrowNetFlow decimal.Decimal `json:"escrow_net_flow"`
	EscrowBalance decimal.Decimal `json:"escrow_balance"`
	EscrowDeficit decimal.Decimal `json:"escrow_deficit"`
}

// ConsolidationInput carries the outputs of every scheduler.
type ConsolidationInput struct {
	Revenue    RevenueSchedule
	Commission series.Monthly
	Execution  series.Monthly
	Indirect   IndirectCosts
	Financial  series.Monthly
}

// Consolidate joins every series into a dense, chronologically ordered table and computes the project
// and escrow balances.
//
// Only client pre-payments (reservation, contract, deferred) feed the escrow account and only
// execution cost is paid from it. Deed proceeds are collected outside it.
func Consolidate(in ConsolidationInput) []ConsolidatedRow {
	months := series.Union(
		in.Revenue.Total, in.Revenue.Reservation, in.Revenue.Contract, in.Revenue.Deferred, in.Revenue.Deed,
		in.Commission, in.Execution,
		in.Indirect.Land, in.Indirect.TechnicalFees, in.Indirect.Admin,
		in.Financial,
	)
	if len(months) == 0 {
		return nil
	}
	first, last := months[0], months[len(months)-1]

	rows := make([]ConsolidatedRow, 0, int(last-first)+1)
	cumulative := decimal.Zero
	escrowNet := make([]decimal.Decimal, 0, cap(rows))

	for m := first; m <= last; m++ {
		r := ConsolidatedRow{
			Month:          m,
			Reservation:    in.Revenue.Reservation.Get(m),
			Contract:       in.Revenue.Contract.Get(m),
			Deferred:       in.Revenue.Deferred.Get(m),
			Deed:           in.Revenue.Deed.Get(m),
			Commission:     in.Commission.Get(m),
			ExecutionCost:  in.Execution.Get(m),
			LandCost:       in.Indirect.Land.Get(m),
			TechnicalFees:  in.Indirect.TechnicalFees.Get(m),
			AdminExpenses:  in.Indirect.Admin.Get(m),
			FinancialCosts: in.Financial.Get(m),
		}
		r.TotalRevenue = r.Reservation.Add(r.Contract).Add(r.Deferred).Add(r.Deed)
		r.NetRevenue = r.TotalRevenue.Add(r.Commission)
		r.OtherCosts = r.LandCost.Add(r.TechnicalFees).Add(r.AdminExpenses).Add(r.FinancialCosts)
		r.MonthlyFlow = r.NetRevenue.Add(r.ExecutionCost).Add(r.OtherCosts)
		cumulative = cumulative.Add(r.MonthlyFlow)
		r.CumulativeFlow = cumulative

		r.EscrowInflow = r.Reservation.Add(r.Contract).Add(r.Deferred)
		r.EscrowOutflow = r.ExecutionCost
		r.EscrowNetFlow = r.EscrowInflow.Add(r.EscrowOutflow)
		escrowNet = append(escrowNet, r.EscrowNetFlow)

		rows = append(rows, r)
	}

	balances, deficits := FoldEscrow(escrowNet)
	for i := range rows {
		rows[i].EscrowBalance = balances[i]
		rows[i].EscrowDeficit = deficits[i]
	}
	return rows
}

// FoldEscrow runs the escrow account month by month. Whenever the balance would go negative it is
// reset to zero and the shortfall is recorded as that month's deficit, to be funded from outside.
func FoldEscrow(net []decimal.Decimal) (balances, deficits []decimal.Decimal) {
	balances = make([]decimal.Decimal, len(net))
	deficits = make([]decimal.Decimal, len(net))
	running := decimal.Zero
	for i, n := range net {
		running = running.Add(n)
		if running.IsNegative() {
			deficits[i] = running
			running = decimal.Zero
		} else {
			deficits[i] = decimal.Zero
		}
		balances[i] = running
	}
	return balances, deficits
}
