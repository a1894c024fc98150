package calendar

import (
	"fmt"
	"iter"
)

// HandoverMonths is the fixed buffer between construction end and unit delivery.
const HandoverMonths = 3

// InvalidRangeError is returned when a month range is requested with first after last.
type InvalidRangeError struct {
	First Month
	Last  Month
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid month range: %s is after %s", e.First, e.Last)
}

// ConstructionEnd returns start + durationMonths.
func ConstructionEnd(start Month, durationMonths int) Month {
	return start.AddMonths(durationMonths)
}

// DeliveryDate returns the unit delivery month, HandoverMonths after construction end.
func DeliveryDate(constructionEnd Month) Month {
	return constructionEnd.AddMonths(HandoverMonths)
}

// MonthRange yields every month from first to last inclusive. The returned sequence is lazy
// and can be ranged over any number of times.
func MonthRange(first, last Month) (iter.Seq[Month], error) {
	if first > last {
		return nil, &InvalidRangeError{First: first, Last: last}
	}
	return func(yield func(Month) bool) {
		for m := first; m <= last; m++ {
			if !yield(m) {
				return
			}
		}
	}, nil
}

// Months collects MonthRange into a slice.
func Months(first, last Month) ([]Month, error) {
	seq, err := MonthRange(first, last)
	if err != nil {
		return nil, err
	}
	out := make([]Month, 0, int(last-first)+1)
	for m := range seq {
		out = append(out, m)
	}
	return out, nil
}

// KeyDates groups the project milestones derived from the construction schedule.
type KeyDates struct {
	ConstructionStart      Month `json:"construction_start"`
	ConstructionEnd        Month `json:"construction_end"`
	Delivery               Month `json:"delivery"`
	CommercializationStart Month `json:"commercialization_start"`
}

// NewKeyDates derives construction end and delivery from the start and duration.
func NewKeyDates(constructionStart Month, durationMonths int, commercializationStart Month) KeyDates {
	end := ConstructionEnd(constructionStart, durationMonths)
	return KeyDates{
		ConstructionStart:      constructionStart,
		ConstructionEnd:        end,
		Delivery:               DeliveryDate(end),
		CommercializationStart: commercializationStart,
	}
}
