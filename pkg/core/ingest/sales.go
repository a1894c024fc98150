package ingest

import (
	"fmt"

	"github.com/Cokul/pres-prom-inmob/pkg/core/calendar"
	"github.com/Cokul/pres-prom-inmob/pkg/core/cashflow"
)

// RowError points at the cell that could not be read.
type RowError struct {
	Row    int
	Column Column
	Value  string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d, %s %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// SalesPlanFromTable builds a sales plan. A price column selects an itemized plan (one unit per row,
// with sale and optional deed dates); otherwise month and unit columns give an aggregate plan, with
// repeated months added together. The plan is not checked against inventory here.
func SalesPlanFromTable(t Table) (cashflow.SalesPlan, error) {
	cols := t.Columns()
	if _, ok := cols[ColPrice]; ok {
		return itemizedPlan(t, cols)
	}
	return aggregatePlan(t, cols)
}

func aggregatePlan(t Table, cols map[Column]int) (cashflow.SalesPlan, error) {
	monthCol, unitsCol := index(cols, ColMonth), index(cols, ColUnits)
	if monthCol < 0 {
		monthCol = index(cols, ColSold)
	}
	if monthCol < 0 || unitsCol < 0 {
		return cashflow.SalesPlan{}, fmt.Errorf("sales table needs month and units columns, got %v", t.Header)
	}

	plan := cashflow.SalesPlan{Monthly: make(map[calendar.Month]int)}
	for i := range t.Rows {
		row := i + 1
		rawMonth, rawUnits := t.Cell(i, monthCol), t.Cell(i, unitsCol)
		if rawMonth == "" && rawUnits == "" {
			continue
		}
		m, err := ParseMonthCell(rawMonth)
		if err != nil {
			return cashflow.SalesPlan{}, &RowError{Row: row, Column: ColMonth, Value: rawMonth, Err: err}
		}
		u, err := ParseCount(rawUnits)
		if err != nil {
			return cashflow.SalesPlan{}, &RowError{Row: row, Column: ColUnits, Value: rawUnits, Err: err}
		}
		plan.Monthly[m] += u
	}
	return plan, nil
}

func itemizedPlan(t Table, cols map[Column]int) (cashflow.SalesPlan, error) {
	priceCol := index(cols, ColPrice)
	soldCol, soldKind := index(cols, ColSold), ColSold
	if soldCol < 0 {
		soldCol, soldKind = index(cols, ColMonth), ColMonth
	}
	if soldCol < 0 {
		return cashflow.SalesPlan{}, fmt.Errorf("itemized sales table needs a sale date column, got %v", t.Header)
	}
	deedCol := index(cols, ColDeed)

	var plan cashflow.SalesPlan
	for i := range t.Rows {
		row := i + 1
		rawPrice, rawSold := t.Cell(i, priceCol), t.Cell(i, soldCol)
		if rawPrice == "" && rawSold == "" {
			continue
		}
		price, err := ParseAmount(rawPrice)
		if err != nil {
			return cashflow.SalesPlan{}, &RowError{Row: row, Column: ColPrice, Value: rawPrice, Err: err}
		}
		sold, err := ParseMonthCell(rawSold)
		if err != nil {
			return cashflow.SalesPlan{}, &RowError{Row: row, Column: soldKind, Value: rawSold, Err: err}
		}
		unit := cashflow.UnitSale{Price: price, Sold: sold}
		if raw := t.Cell(i, deedCol); raw != "" {
			deed, err := ParseMonthCell(raw)
			if err != nil {
				return cashflow.SalesPlan{}, &RowError{Row: row, Column: ColDeed, Value: raw, Err: err}
			}
			unit.Deed = &deed
		}
		plan.Units = append(plan.Units, unit)
	}
	return plan, nil
}
