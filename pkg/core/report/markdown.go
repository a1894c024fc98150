package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Cokul/pres-prom-inmob/pkg/core/cashflow"
	"github.com/Cokul/pres-prom-inmob/pkg/core/utils"
	"github.com/Cokul/pres-prom-inmob/pkg/core/validate"
	"github.com/Cokul/pres-prom-inmob/pkg/core/valuation"
)

var printer = message.NewPrinter(language.Spanish)

func money(d decimal.Decimal) string {
	return printer.Sprintf("%.2f €", d.InexactFloat64())
}

func percent(f float64) string {
	return printer.Sprintf("%.2f %%", f)
}

// Markdown renders the summary document of a projection: key dates, totals, returns and warnings.
func Markdown(p *cashflow.Projection, s valuation.Summary, name string) string {
	var b strings.Builder
	if name == "" {
		name = "Proyecto"
	}
	fmt.Fprintf(&b, "# %s\n\n", name)

	b.WriteString("## Fechas clave\n\n")
	b.WriteString("| Hito | Mes |\n|---|---|\n")
	fmt.Fprintf(&b, "| Inicio de obra | %s |\n", p.Dates.ConstructionStart)
	fmt.Fprintf(&b, "| Fin de obra | %s |\n", p.Dates.ConstructionEnd)
	fmt.Fprintf(&b, "| Entrega | %s |\n", p.Dates.Delivery)
	fmt.Fprintf(&b, "| Inicio de comercialización | %s |\n", p.Dates.CommercializationStart)
	if len(p.Rows) > 0 {
		fmt.Fprintf(&b, "| Horizonte | %s a %s |\n", s.First, s.Last)
	}

	b.WriteString("\n## Resumen\n\n")
	b.WriteString("| Concepto | Importe |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Viviendas vendidas | %d de %d |\n", s.UnitsSold, s.Units)
	for _, line := range []struct {
		label string
		value decimal.Decimal
	}{
		{"Ingresos totales", s.Revenue},
		{"Comisiones", s.Commission},
		{"Coste de ejecución", s.ExecutionCost},
		{"Coste de ejecución con IVA", s.ExecutionCostWithTax},
		{"Suelo", s.LandCost},
		{"Honorarios técnicos", s.TechnicalFees},
		{"Gastos de administración", s.AdminExpenses},
		{"Gastos financieros", s.FinancialCosts},
		{"Costes totales", s.TotalCosts},
		{"Margen", s.Margin},
	} {
		fmt.Fprintf(&b, "| %s | %s |\n", line.label, money(line.value))
	}
	fmt.Fprintf(&b, "| Margen sobre ingresos | %s |\n", percent(s.MarginPct))
	fmt.Fprintf(&b, "| Necesidad máxima de financiación | %s (%s) |\n", money(s.PeakFunding), s.PeakFundingMonth)

	b.WriteString("\n## Rentabilidad\n\n")
	fmt.Fprintf(&b, "- VAN al %s anual: %s\n", percent(s.AnnualDiscountRate*100), money(decimal.NewFromFloat(s.NPV)))
	if s.AnnualIRR != nil {
		fmt.Fprintf(&b, "- TIR anual: %s\n", percent(*s.AnnualIRR*100))
	} else {
		b.WriteString("- TIR: no definida\n")
	}

	if warnings := validate.EscrowWarnings(p.Rows); len(warnings) > 0 {
		b.WriteString("\n## Avisos\n\n")
		for _, w := range warnings {
			fmt.Fprintf(&b, "> **Aviso:** %s\n", w)
		}
	}
	return b.String()
}

// HTML converts a Markdown document to an HTML fragment.
func HTML(md string) (string, error) {
	return utils.RenderHTML(md)
}
