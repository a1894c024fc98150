// Package report renders a projection for people: CSV and XLSX tables for spreadsheets and a Markdown
// summary that can be turned into HTML.
package report

import (
	"github.com/shopspring/decimal"

	"github.com/Cokul/pres-prom-inmob/pkg/core/cashflow"
)

// Column is one money column of the consolidated table.
type Column struct {
	Key     string
	English string
	Spanish string
	Value   func(cashflow.ConsolidatedRow) decimal.Decimal
}

// Columns lists the consolidated table in display order, after the month column.
var Columns = []Column{
	{"reservation", "Reservation", "Reserva", func(r cashflow.ConsolidatedRow) decimal.Decimal { return r.Reservation }},
	{"contract", "Contract", "Contrato", func(r cashflow.ConsolidatedRow) decimal.Decimal { return r.Contract }},
	{"deferred", "Deferred", "Aplazado", func(r cashflow.ConsolidatedRow) decimal.Decimal { return r.Deferred }},
	{"deed", "Deed", "Escritura", func(r cashflow.ConsolidatedRow) decimal.Decimal { return r.Deed }},
	{"total_revenue", "Total revenue", "Ingresos totales", func(r cashflow.ConsolidatedRow) decimal.Decimal { return r.TotalRevenue }},
	{"commission", "Commission", "Comisiones", func(r cashflow.ConsolidatedRow) decimal.Decimal { return r.Commission }},
	{"net_revenue", "Net revenue", "Ingresos netos", func(r cashflow.ConsolidatedRow) decimal.Decimal { return r.NetRevenue }},
	{"execution_cost", "Execution cost", "Coste de ejecución", func(r cashflow.ConsolidatedRow) decimal.Decimal { return r.ExecutionCost }},
	{"land_cost", "Land", "Suelo", func(r cashflow.ConsolidatedRow) decimal.Decimal { return r.LandCost }},
	{"technical_fees", "Technical fees", "Honorarios técnicos", func(r cashflow.ConsolidatedRow) decimal.Decimal { return r.TechnicalFees }},
	{"admin_expenses", "Admin expenses", "Gastos de administración", func(r cashflow.ConsolidatedRow) decimal.Decimal { return r.AdminExpenses }},
	{"financial_costs", "Financial costs", "Gastos financieros", func(r cashflow.ConsolidatedRow) decimal.Decimal { return r.FinancialCosts }},
	{"other_costs", "Other costs", "Otros costes", func(r cashflow.ConsolidatedRow) decimal.Decimal { return r.OtherCosts }},
	{"monthly_flow", "Monthly flow", "Flujo mensual", func(r cashflow.ConsolidatedRow) decimal.Decimal { return r.MonthlyFlow }},
	{"cumulative_flow", "Cumulative flow", "Flujo acumulado", func(r cashflow.ConsolidatedRow) decimal.Decimal { return r.CumulativeFlow }},
	{"escrow_inflow", "Escrow inflow", "Entradas cuenta especial", func(r cashflow.ConsolidatedRow) decimal.Decimal { return r.EscrowInflow }},
	{"escrow_outflow", "Escrow outflow", "Salidas cuenta especial", func(r cashflow.ConsolidatedRow) decimal.Decimal { return r.EscrowOutflow }},
	{"escrow_net_flow", "Escrow net flow", "Flujo neto cuenta especial", func(r cashflow.ConsolidatedRow) decimal.Decimal { return r.EscrowNetFlow }},
	{"escrow_balance", "Escrow balance", "Saldo cuenta especial", func(r cashflow.ConsolidatedRow) decimal.Decimal { return r.EscrowBalance }},
	{"escrow_deficit", "Escrow deficit", "Déficit cuenta especial", func(r cashflow.ConsolidatedRow) decimal.Decimal { return r.EscrowDeficit }},
}

// Language selects header labels.
type Language string

const (
	English Language = "en"
	Spanish Language = "es"
)

func (l Language) month() string {
	if l == Spanish {
		return "Mes"
	}
	return "Month"
}

func (c Column) label(l Language) string {
	if l == Spanish {
		return c.Spanish
	}
	return c.English
}

// Header returns the month label followed by every column label.
func Header(l Language) []string {
	out := make([]string, 0, len(Columns)+1)
	out = append(out, l.month())
	for _, c := range Columns {
		out = append(out, c.label(l))
	}
	return out
}
