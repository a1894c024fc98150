package cashflow

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Cokul/pres-prom-inmob/pkg/core/calendar"
	"github.com/Cokul/pres-prom-inmob/pkg/core/series"
)

// Months between the payment milestones of a sale.
const (
	ContractLag = 1 // sale -> contract
	DeferredLag = 3 // contract -> deferred payment
)

// Tranches splits one unit's tax-inclusive price into its four payments.
type Tranches struct {
	Reservation decimal.Decimal `json:"reservation"`
	Contract    decimal.Decimal `json:"contract"`
	Deferred    decimal.Decimal `json:"deferred"`
	Deed        decimal.Decimal `json:"deed"`
}

// Total is the tax-inclusive price.
func (t Tranches) Total() decimal.Decimal {
	return t.Reservation.Add(t.Contract).Add(t.Deferred).Add(t.Deed)
}

// Scale multiplies every tranche by units.
func (t Tranches) Scale(units int) Tranches {
	u := decimal.NewFromInt(int64(units))
	return Tranches{
		Reservation: t.Reservation.Mul(u),
		Contract:    t.Contract.Mul(u),
		Deferred:    t.Deferred.Mul(u),
		Deed:        t.Deed.Mul(u),
	}
}

// TaxInclusive returns price × (1 + rate) rounded to cents.
func TaxInclusive(price, rate float64) decimal.Decimal {
	return series.Cents(decimal.NewFromFloat(price).Mul(decimal.NewFromInt(1).Add(decimal.NewFromFloat(rate))))
}

// UnitTranches computes the payment tranches of a single unit. The deed is the remainder, so the
// tranches always add up to the tax-inclusive price.
func UnitTranches(price float64, terms PaymentTerms, salesTaxRate float64) Tranches {
	gross := TaxInclusive(price, salesTaxRate)
	t := Tranches{
		Reservation: series.Cents(decimal.NewFromFloat(terms.ReservationFee)),
		Contract:    series.Cents(gross.Mul(decimal.NewFromFloat(terms.ContractRate))),
		Deferred:    series.Cents(gross.Mul(decimal.NewFromFloat(terms.DeferredRate))),
	}
	t.Deed = gross.Sub(t.Reservation).Sub(t.Contract).Sub(t.Deferred)
	return t
}

// DeedMonth resolves when a sold unit's deed is collected. Units sold on or after delivery are deeded
// the month after the sale (never before delivery), overriding any explicit date.
func DeedMonth(sold calendar.Month, explicit *calendar.Month, delivery calendar.Month) calendar.Month {
	if !sold.Before(delivery) {
		return calendar.Max(delivery, sold.AddMonths(1))
	}
	if explicit != nil {
		return *explicit
	}
	return delivery
}

// RevenueSchedule holds the client payments per month, one series per tranche plus their sum.
type RevenueSchedule struct {
	Reservation series.Monthly `json:"reservation"`
	Contract    series.Monthly `json:"contract"`
	Deferred    series.Monthly `json:"deferred"`
	Deed        series.Monthly `json:"deed"`
	Total       series.Monthly `json:"total"`
}

func (r *RevenueSchedule) book(sold, deed calendar.Month, t Tranches) {
	contract := sold.AddMonths(ContractLag)
	r.Reservation.Add(sold, t.Reservation)
	r.Contract.Add(contract, t.Contract)
	r.Deferred.Add(contract.AddMonths(DeferredLag), t.Deferred)
	r.Deed.Add(deed, t.Deed)
}

// ScheduleRevenue places every sold unit's tranches on the calendar. Aggregate plans are checked
// against the inventory first and fail with *OversoldError.
func ScheduleRevenue(params ProjectParameters, plan SalesPlan) (RevenueSchedule, error) {
	if err := plan.Validate(params.Units); err != nil {
		return RevenueSchedule{}, err
	}
	dates := params.KeyDates()
	r := RevenueSchedule{
		Reservation: series.New(),
		Contract:    series.New(),
		Deferred:    series.New(),
		Deed:        series.New(),
	}

	switch plan.Mode() {
	case Itemized:
		for _, u := range plan.Units {
			t := UnitTranches(u.Price, params.Payments, params.SalesTaxRate)
			r.book(u.Sold, DeedMonth(u.Sold, u.Deed, dates.Delivery), t)
		}
	default:
		unit := UnitTranches(params.AveragePrice, params.Payments, params.SalesTaxRate)
		months := make([]calendar.Month, 0, len(plan.Monthly))
		for m := range plan.Monthly {
			months = append(months, m)
		}
		sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })
		for _, m := range months {
			if n := plan.Monthly[m]; n > 0 {
				r.book(m, dates.Delivery, unit.Scale(n))
			}
		}
	}

	r.Total = series.Sum(r.Reservation, r.Contract, r.Deferred, r.Deed)

	// Horizon opens no later than commercialization start and closes no earlier than delivery.
	first, last := dates.CommercializationStart, dates.Delivery
	if f, l, ok := r.Total.Span(); ok {
		first, last = calendar.Min(first, f), calendar.Max(last, l)
	}
	for _, s := range []series.Monthly{r.Reservation, r.Contract, r.Deferred, r.Deed, r.Total} {
		s.Dense(first, last)
	}
	return r, nil
}
