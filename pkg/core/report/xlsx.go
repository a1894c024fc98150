package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Cokul/pres-prom-inmob/pkg/core/calendar"
	"github.com/Cokul/pres-prom-inmob/pkg/core/cashflow"
)

// Sheet names of the workbook produced by WriteXLSX.
const (
	FlowSheet     = "Flujo"
	ChaptersSheet = "Capitulos"
)

const moneyFormat = "#,##0.00"

// WriteXLSX writes a workbook with the consolidated table and the execution cost by chapter.
func WriteXLSX(w io.Writer, p *cashflow.Projection) error {
	if p == nil {
		return fmt.Errorf("nil projection")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", FlowSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(ChaptersSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	styles, err := newStyles(f)
	if err != nil {
		return err
	}
	if err := writeFlowSheet(f, styles, p.Rows); err != nil {
		return err
	}
	if err := writeChaptersSheet(f, styles, p.Execution); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

type sheetStyles struct {
	header int
	money  int
}

func newStyles(f *excelize.File) (sheetStyles, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", WrapText: true},
	})
	if err != nil {
		return sheetStyles{}, fmt.Errorf("failed to create header style: %w", err)
	}
	format := moneyFormat
	money, err := f.NewStyle(&excelize.Style{CustomNumFmt: &format})
	if err != nil {
		return sheetStyles{}, fmt.Errorf("failed to create number style: %w", err)
	}
	return sheetStyles{header: header, money: money}, nil
}

func writeHeader(f *excelize.File, sheet string, styles sheetStyles, labels []string) error {
	row := make([]interface{}, len(labels))
	for i, l := range labels {
		row[i] = l
	}
	if err := f.SetSheetRow(sheet, "A1", &row); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}
	last, _ := excelize.CoordinatesToCellName(len(labels), 1)
	if err := f.SetCellStyle(sheet, "A1", last, styles.header); err != nil {
		return err
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		XSplit:      1,
		TopLeftCell: "B2",
		ActivePane:  "bottomRight",
	})
}

func writeFlowSheet(f *excelize.File, styles sheetStyles, rows []cashflow.ConsolidatedRow) error {
	if err := writeHeader(f, FlowSheet, styles, Header(Spanish)); err != nil {
		return err
	}

	for i, r := range rows {
		values := make([]interface{}, 0, len(Columns)+1)
		values = append(values, r.Month.String())
		for _, c := range Columns {
			values = append(values, c.Value(r).InexactFloat64())
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(FlowSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %s: %w", r.Month, err)
		}
	}

	if len(rows) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(Columns)+1, len(rows)+1)
		if err := f.SetCellStyle(FlowSheet, "B2", last, styles.money); err != nil {
			return err
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(Columns) + 1)
	if err := f.SetColWidth(FlowSheet, "A", "A", 10); err != nil {
		return err
	}
	return f.SetColWidth(FlowSheet, "B", lastCol, 16)
}

// writeChaptersSheet lays chapters out as rows and the execution months as columns.
func writeChaptersSheet(f *excelize.File, styles sheetStyles, exec cashflow.ExecutionSchedule) error {
	const fixed = 5
	labels := []string{"Capítulo", "Peso %", "Inicio", "Fin", "Total"}

	first, last, ok := exec.Total.Span()
	var months []calendar.Month
	if ok {
		var err error
		if months, err = calendar.Months(first, last); err != nil {
			return err
		}
	}
	for _, m := range months {
		labels = append(labels, m.String())
	}
	if err := writeHeader(f, ChaptersSheet, styles, labels); err != nil {
		return err
	}

	for i, c := range exec.Chapters {
		values := []interface{}{
			c.Chapter.Name,
			c.Chapter.Weight,
			c.First.String(),
			c.Last.String(),
			c.TotalCost.InexactFloat64(),
		}
		for _, m := range months {
			values = append(values, c.Monthly.Get(m).InexactFloat64())
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(ChaptersSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write chapter %q: %w", c.Chapter.Name, err)
		}
	}

	totalRow := len(exec.Chapters) + 2
	values := []interface{}{"Total", nil, nil, nil, exec.Total.Total().InexactFloat64()}
	for _, m := range months {
		values = append(values, exec.Total.Get(m).InexactFloat64())
	}
	cell, _ := excelize.CoordinatesToCellName(1, totalRow)
	if err := f.SetSheetRow(ChaptersSheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write chapter totals: %w", err)
	}

	from, _ := excelize.CoordinatesToCellName(fixed, 2)
	to, _ := excelize.CoordinatesToCellName(fixed+len(months), totalRow)
	if err := f.SetCellStyle(ChaptersSheet, from, to, styles.money); err != nil {
		return err
	}
	return f.SetColWidth(ChaptersSheet, "A", "A", 34)
}
