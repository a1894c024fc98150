package ingest

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Cokul/pres-prom-inmob/pkg/core/calendar"
)

// ParseAmount reads a money or percentage cell in either European ("1.234,56 €") or
// English ("1,234.56") notation. When both separators appear the last one is the decimal
// mark. A lone separator is a thousands separator when it repeats or when exactly three digits
// follow a non-zero integer part ("1.500", "2,000"); otherwise it is the decimal mark.
func ParseAmount(s string) (float64, error) {
	raw := s
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("€", "", "$", "", "%", "", " ", "", "\u00a0", "", "'", "").Replace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg, s = true, s[1:len(s)-1]
	}

	dot, comma := strings.LastIndex(s, "."), strings.LastIndex(s, ",")
	switch {
	case dot >= 0 && comma >= 0:
		if comma > dot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case comma >= 0:
		if thousands(s, ",") {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case dot >= 0:
		if thousands(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a number: %q", raw)
	}
	if neg {
		v = -v
	}
	return v, nil
}

func thousands(s, sep string) bool {
	if strings.Count(s, sep) > 1 {
		return true
	}
	i := strings.Index(s, sep)
	intPart := strings.TrimLeft(s[:i], "+-")
	return len(s)-i-1 == 3 && intPart != "" && strings.Trim(intPart, "0") != ""
}

// ParseCount reads a whole, non-negative number such as a unit count or a month offset.
func ParseCount(s string) (int, error) {
	v, err := ParseAmount(s)
	if err != nil {
		return 0, err
	}
	if v < 0 || v != math.Trunc(v) {
		return 0, fmt.Errorf("not a whole number: %q", s)
	}
	return int(v), nil
}

// ParseMonthCell accepts the month layouts understood by calendar.ParseMonth.
func ParseMonthCell(s string) (calendar.Month, error) {
	return calendar.ParseMonth(strings.TrimSpace(s))
}
