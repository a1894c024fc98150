package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Cokul/pres-prom-inmob/pkg/core/calendar"
	"github.com/Cokul/pres-prom-inmob/pkg/core/cashflow"
	"github.com/Cokul/pres-prom-inmob/pkg/core/valuation"
)

func TestSplitKey(t *testing.T) {
	p, v, err := splitKey("torre-sur/base")
	require.NoError(t, err)
	require.Equal(t, "torre-sur", p)
	require.Equal(t, "base", v)

	_, _, err = splitKey("torre-sur")
	require.Error(t, err)
}

func TestRender(t *testing.T) {
	start := calendar.MustParseMonth("2025-01")
	p, err := cashflow.Project(cashflow.DefaultParameters(start), cashflow.SalesPlan{
		Monthly: map[calendar.Month]int{start: 20},
	}, nil)
	require.NoError(t, err)
	s := valuation.Summarize(p, valuation.SummaryInput{AnnualDiscountRate: 0.08})

	var buf bytes.Buffer
	require.NoError(t, render(&buf, "summary", "", p, s))
	require.Contains(t, buf.String(), "Units sold")
	require.Contains(t, buf.String(), "4840000.00")
	require.NotContains(t, buf.String(), "CHECK FAILED")

	buf.Reset()
	require.NoError(t, render(&buf, "json", "", p, s))
	require.True(t, strings.HasPrefix(buf.String(), "{"))

	require.Error(t, render(&buf, "pdf", "", p, s))
}
