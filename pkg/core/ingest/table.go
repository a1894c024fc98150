// Package ingest reads tabular data (CSV, HTML tables, spreadsheets) and maps it onto the
// projection inputs: cost chapters and sales plans. It is the only place where user-supplied
// tables enter the system; the projection engine itself never reads files.
package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/xuri/excelize/v2"
)

// ErrNoTable is returned when the input holds no header row.
var ErrNoTable = errors.New("no table found")

// Table is a header row plus data rows, cells as raw strings.
type Table struct {
	Header []string
	Rows   [][]string
}

// Cell returns the trimmed cell at row/col, empty when the row is short or col is negative.
func (t Table) Cell(row, col int) string {
	if col < 0 || row < 0 || row >= len(t.Rows) || col >= len(t.Rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.Rows[row][col])
}

func newTable(records [][]string) (Table, error) {
	var t Table
	for _, rec := range records {
		if blank(rec) {
			continue
		}
		if t.Header == nil {
			t.Header = rec
			continue
		}
		t.Rows = append(t.Rows, rec)
	}
	if t.Header == nil {
		return Table{}, ErrNoTable
	}
	t.Header[0] = strings.TrimPrefix(t.Header[0], "\ufeff")
	return t, nil
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// =============================================================================
// READERS
// =============================================================================

// ReadCSV parses delimited text. The delimiter (comma, semicolon or tab) is sniffed from the
// first line, so spreadsheet exports with a decimal comma and ';' separators load unchanged.
func ReadCSV(r io.Reader) (Table, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(4096)
	if err != nil && err != io.EOF && !errors.Is(err, bufio.ErrBufferFull) {
		return Table{}, err
	}

	cr := csv.NewReader(br)
	cr.Comma = sniffDelimiter(head)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("read csv: %w", err)
	}
	return newTable(records)
}

func sniffDelimiter(sample []byte) rune {
	if i := bytes.IndexByte(sample, '\n'); i >= 0 {
		sample = sample[:i]
	}
	best, bestCount := ',', 0
	for _, d := range []rune{',', ';', '\t'} {
		if n := countOutsideQuotes(sample, byte(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

func countOutsideQuotes(line []byte, sep byte) int {
	n, quoted := 0, false
	for _, b := range line {
		switch {
		case b == '"':
			quoted = !quoted
		case b == sep && !quoted:
			n++
		}
	}
	return n
}

// ReadHTMLTable extracts the first <table> of an HTML document. Header cells may be th or td.
func ReadHTMLTable(r io.Reader) (Table, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Table{}, fmt.Errorf("parse html: %w", err)
	}
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return Table{}, ErrNoTable
	}

	var records [][]string
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		var rec []string
		row.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			rec = append(rec, strings.Join(strings.Fields(cell.Text()), " "))
		})
		if len(rec) > 0 {
			records = append(records, rec)
		}
	})
	return newTable(records)
}

// ReadXLSX reads a worksheet; an empty sheet name selects the first one.
func ReadXLSX(r io.Reader, sheet string) (Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Table{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return Table{}, ErrNoTable
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return Table{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return newTable(rows)
}

// ReadFile dispatches on the file extension. Unknown extensions are read as CSV.
func ReadFile(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return ReadHTMLTable(f)
	case ".xlsx", ".xlsm":
		return ReadXLSX(f, "")
	default:
		return ReadCSV(f)
	}
}
