package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Cokul/pres-prom-inmob/pkg/core/calendar"
	"github.com/Cokul/pres-prom-inmob/pkg/core/cashflow"
	"github.com/Cokul/pres-prom-inmob/pkg/core/valuation"
)

func sampleProjection(t *testing.T, plan cashflow.SalesPlan) *cashflow.Projection {
	t.Helper()
	start := calendar.MustParseMonth("2025-01")
	p, err := cashflow.Project(cashflow.DefaultParameters(start), plan, nil)
	require.NoError(t, err)
	return p
}

func soldPlan() cashflow.SalesPlan {
	start := calendar.MustParseMonth("2025-01")
	return cashflow.SalesPlan{Monthly: map[calendar.Month]int{start: 10, start.AddMonths(2): 10}}
}

func TestWriteCSV(t *testing.T) {
	p := sampleProjection(t, soldPlan())

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, p.Rows, CSVOptions{}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(p.Rows)+1)
	require.Equal(t, Header(English), records[0])
	require.Equal(t, p.Rows[0].Month.String(), records[1][0])
	require.Equal(t, p.Rows[0].TotalRevenue.StringFixed(2), records[1][5])
}

func TestWriteCSVSpanish(t *testing.T) {
	p := sampleProjection(t, soldPlan())

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, p.Rows, DefaultCSVOptions()))

	r := csv.NewReader(&buf)
	r.Comma = ';'
	records, err := r.ReadAll()
	require.NoError(t, err)
	require.Equal(t, "Mes", records[0][0])

	last := records[len(records)-1]
	want := strings.Replace(p.Rows[len(p.Rows)-1].CumulativeFlow.StringFixed(2), ".", ",", 1)
	require.Equal(t, want, last[15])
}

func TestWriteCSVRejectsAmbiguousDecimalComma(t *testing.T) {
	err := WriteCSV(&bytes.Buffer{}, nil, CSVOptions{DecimalComma: true})
	require.Error(t, err)
}

func TestWriteXLSX(t *testing.T) {
	p := sampleProjection(t, soldPlan())

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, p))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{FlowSheet, ChaptersSheet}, f.GetSheetList())

	flow, err := f.GetRows(FlowSheet)
	require.NoError(t, err)
	require.Len(t, flow, len(p.Rows)+1)
	require.Equal(t, "Mes", flow[0][0])
	require.Equal(t, p.Rows[0].Month.String(), flow[1][0])

	chapters, err := f.GetRows(ChaptersSheet)
	require.NoError(t, err)
	// header, 17 chapters, total line
	require.Len(t, chapters, 19)
	require.Equal(t, "Actuaciones previas", chapters[1][0])
	require.Equal(t, "Total", chapters[18][0])
	require.Len(t, chapters[0], 5+19)
	require.Equal(t, "2025-01", chapters[0][5])
}

func TestWriteXLSXNilProjection(t *testing.T) {
	require.Error(t, WriteXLSX(&bytes.Buffer{}, nil))
}

func TestMarkdownAndHTML(t *testing.T) {
	p := sampleProjection(t, soldPlan())
	s := valuation.Summarize(p, valuation.SummaryInput{AnnualDiscountRate: 0.08})

	md := Markdown(p, s, "Residencial Norte")
	require.True(t, strings.HasPrefix(md, "# Residencial Norte\n"))
	require.Contains(t, md, "## Fechas clave")
	require.Contains(t, md, "| Viviendas vendidas | 20 de 20 |")
	require.Contains(t, md, "TIR")

	html, err := HTML(md)
	require.NoError(t, err)
	require.Contains(t, html, "<h1>Residencial Norte</h1>")
	require.Contains(t, html, "<table>")
}

func TestMarkdownWarnsOnEscrowBreach(t *testing.T) {
	p := sampleProjection(t, cashflow.SalesPlan{})
	s := valuation.Summarize(p, valuation.SummaryInput{})

	md := Markdown(p, s, "")
	require.Contains(t, md, "# Proyecto")
	require.Contains(t, md, "## Avisos")
	require.Contains(t, md, "escrow balance breached")
}
