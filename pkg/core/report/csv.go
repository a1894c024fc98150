package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/Cokul/pres-prom-inmob/pkg/core/cashflow"
)

// CSVOptions configures WriteCSV.
type CSVOptions struct {
	Comma        rune     // field delimiter, ',' when zero
	DecimalComma bool     // write 1234,56 instead of 1234.56
	Language     Language // header labels, English when empty
}

// DefaultCSVOptions matches what spreadsheet users in Spain expect.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{Comma: ';', DecimalComma: true, Language: Spanish}
}

// WriteCSV writes the consolidated table with a header row. Amounts are fixed to two decimals.
func WriteCSV(w io.Writer, rows []cashflow.ConsolidatedRow, opts CSVOptions) error {
	if opts.DecimalComma && (opts.Comma == 0 || opts.Comma == ',') {
		return fmt.Errorf("decimal comma needs a delimiter other than ','")
	}

	cw := csv.NewWriter(w)
	if opts.Comma != 0 {
		cw.Comma = opts.Comma
	}

	if err := cw.Write(Header(opts.Language)); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, len(Columns)+1)
	for _, r := range rows {
		record[0] = r.Month.String()
		for i, c := range Columns {
			v := c.Value(r).StringFixed(2)
			if opts.DecimalComma {
				v = strings.Replace(v, ".", ",", 1)
			}
			record[i+1] = v
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row %s: %w", r.Month, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
