package valuation

import (
	"errors"
	"math"
)

// ErrNoSignChange is returned by IRR when the flows are all of one sign.
var ErrNoSignChange = errors.New("cash flows never change sign; IRR is undefined")

// NPV discounts monthly flows at a monthly rate. The first flow is not discounted.
func NPV(flows []float64, monthlyRate float64) float64 {
	npv := 0.0
	discount := 1.0
	for i, f := range flows {
		if i > 0 {
			discount /= 1 + monthlyRate
		}
		npv += f * discount
	}
	return npv
}

// IRR finds the monthly rate that zeroes the NPV by bisection over (-99%, 1000%] per month.
func IRR(flows []float64) (float64, error) {
	pos, neg := false, false
	for _, f := range flows {
		pos = pos || f > 0
		neg = neg || f < 0
	}
	if !pos || !neg {
		return 0, ErrNoSignChange
	}

	lo, hi := -0.99, 10.0
	fLo, fHi := NPV(flows, lo), NPV(flows, hi)
	if math.Signbit(fLo) == math.Signbit(fHi) {
		return 0, errors.New("IRR not bracketed in (-99%, 1000%] per month")
	}

	for i := 0; i < 200; i++ {
		mid := (lo + hi) / 2
		fMid := NPV(flows, mid)
		if math.Abs(fMid) < 1e-7 || hi-lo < 1e-12 {
			return mid, nil
		}
		if math.Signbit(fMid) == math.Signbit(fLo) {
			lo, fLo = mid, fMid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2, nil
}
