package ingest

import (
	"strings"

	"github.com/Cokul/pres-prom-inmob/pkg/core/cashflow"
)

// ChapterImport is the result of reading a budget table.
type ChapterImport struct {
	Chapters []cashflow.CostChapter
	Budget   float64 // sum of the amount column, 0 when the table carries weights
	Skipped  []int   // 1-based data rows ignored as blank or total lines
}

// ChaptersFromTable builds cost chapters from a budget table and normalises their weights.
func ChaptersFromTable(t Table) ([]cashflow.CostChapter, error) {
	res, err := ImportChapters(t)
	if err != nil {
		return nil, err
	}
	return res.Chapters, nil
}

// ImportChapters reads a chapter name column plus an amount (or weight) column. Start and duration
// columns are optional; missing schedules come from cashflow.ImportedSchedule.
// A cell that cannot be read fails the whole import with *cashflow.ChapterImportError.
func ImportChapters(t Table) (ChapterImport, error) {
	cols := t.Columns()
	nameCol := index(cols, ColChapter)
	valueCol := index(cols, ColAmount)
	usesAmounts := valueCol >= 0
	if !usesAmounts {
		valueCol = index(cols, ColWeight)
	}
	if nameCol < 0 || valueCol < 0 {
		return ChapterImport{}, &cashflow.ChapterImportError{
			Value:  strings.Join(t.Header, " | "),
			Reason: "table needs a chapter column and an amount or weight column",
		}
	}
	startCol, durCol := index(cols, ColStart), index(cols, ColDuration)

	var res ChapterImport
	var chapters []cashflow.CostChapter
	for i := range t.Rows {
		row := i + 1
		name := t.Cell(i, nameCol)
		raw := t.Cell(i, valueCol)
		if (name == "" && raw == "") || isTotalLine(name) {
			res.Skipped = append(res.Skipped, row)
			continue
		}
		if name == "" {
			return ChapterImport{}, &cashflow.ChapterImportError{Row: row, Value: raw, Reason: "missing chapter name"}
		}
		v, err := ParseAmount(raw)
		if err != nil {
			return ChapterImport{}, &cashflow.ChapterImportError{Row: row, Chapter: name, Value: raw, Reason: "amount is not a number", Err: err}
		}

		off, dur := cashflow.ImportedSchedule(name, len(chapters))
		if c := t.Cell(i, startCol); c != "" {
			if off, err = ParseCount(c); err != nil {
				return ChapterImport{}, &cashflow.ChapterImportError{Row: row, Chapter: name, Value: c, Reason: "invalid start month", Err: err}
			}
		}
		if c := t.Cell(i, durCol); c != "" {
			if dur, err = ParseCount(c); err != nil {
				return ChapterImport{}, &cashflow.ChapterImportError{Row: row, Chapter: name, Value: c, Reason: "invalid duration", Err: err}
			}
		}

		if usesAmounts {
			res.Budget += v
		}
		chapters = append(chapters, cashflow.CostChapter{Name: name, Weight: v, StartOffset: off, Duration: dur})
	}

	if err := cashflow.ValidateChapters(chapters); err != nil {
		return ChapterImport{}, err
	}
	normalized, err := cashflow.NormalizeWeights(chapters)
	if err != nil {
		return ChapterImport{}, err
	}
	res.Chapters = normalized
	return res, nil
}

func isTotalLine(name string) bool {
	n := NormalizeHeader(name)
	return n == "total" || strings.HasPrefix(n, "total ") || n == "suma"
}
