// Package series holds the month-keyed money series exchanged between projection components.
package series

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Cokul/pres-prom-inmob/pkg/core/calendar"
)

// Monthly maps a month to a signed amount. Revenues are positive, costs negative.
// Internally unordered; Months returns the keys sorted.
type Monthly map[calendar.Month]decimal.Decimal

// New returns an empty series.
func New() Monthly {
	return make(Monthly)
}

// Add accumulates v into month m.
func (s Monthly) Add(m calendar.Month, v decimal.Decimal) {
	s[m] = s.Get(m).Add(v)
}

// Get returns the amount for m, zero when absent.
func (s Monthly) Get(m calendar.Month) decimal.Decimal {
	if v, ok := s[m]; ok {
		return v
	}
	return decimal.Zero
}

// Months returns the months present in the series in chronological order.
func (s Monthly) Months() []calendar.Month {
	out := make([]calendar.Month, 0, len(s))
	for m := range s {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Span returns the first and last month present. ok is false for an empty series.
func (s Monthly) Span() (first, last calendar.Month, ok bool) {
	for m := range s {
		if !ok || m < first {
			first = m
		}
		if !ok || m > last {
			last = m
		}
		ok = true
	}
	return first, last, ok
}

// Total sums every month.
func (s Monthly) Total() decimal.Decimal {
	total := decimal.Zero
	for _, v := range s {
		total = total.Add(v)
	}
	return total
}

// Dense zero-fills every month between first and last inclusive. Months outside the range are kept.
func (s Monthly) Dense(first, last calendar.Month) Monthly {
	for m := first; m <= last; m++ {
		if _, ok := s[m]; !ok {
			s[m] = decimal.Zero
		}
	}
	return s
}

// Sum merges series with outer-join semantics: a month missing from one input counts as zero.
func Sum(inputs ...Monthly) Monthly {
	out := New()
	for _, in := range inputs {
		for m, v := range in {
			out.Add(m, v)
		}
	}
	return out
}

// Union returns every month present in any input, sorted.
func Union(inputs ...Monthly) []calendar.Month {
	seen := make(Monthly)
	for _, in := range inputs {
		for m := range in {
			seen[m] = decimal.Zero
		}
	}
	return seen.Months()
}

// Cents rounds an amount to two decimals, the precision every rendered figure uses.
func Cents(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}

// Split divides total into n cent-rounded shares whose sum is exactly total. The first n-1 shares are
// equal and the last absorbs the rounding remainder.
func Split(total decimal.Decimal, n int) []decimal.Decimal {
	if n <= 0 {
		return nil
	}
	share := total.DivRound(decimal.NewFromInt(int64(n)), 2)
	out := make([]decimal.Decimal, n)
	allocated := decimal.Zero
	for i := 0; i < n-1; i++ {
		out[i] = share
		allocated = allocated.Add(share)
	}
	out[n-1] = total.Sub(allocated)
	return out
}
