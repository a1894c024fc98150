package calendar

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestMonthArithmetic(t *testing.T) {
	tests := []struct {
		name  string
		start string
		add   int
		want  string
	}{
		{"Same year", "2025-01", 5, "2025-06"},
		{"Year rollover", "2025-11", 3, "2026-02"},
		{"Negative", "2025-02", -3, "2024-11"},
		{"Long construction", "2025-06", 18, "2026-12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MustParseMonth(tt.start).AddMonths(tt.add).String()
			if got != tt.want {
				t.Errorf("%s + %d = %s, want %s", tt.start, tt.add, got, tt.want)
			}
		})
	}
}

func TestParseMonthIgnoresDay(t *testing.T) {
	a := MustParseMonth("2025-03-31")
	b := MustParseMonth("2025-03")
	if a != b {
		t.Errorf("expected %s == %s", a, b)
	}
	if a.Month() != time.March || a.Year() != 2025 {
		t.Errorf("unexpected decomposition: %d-%d", a.Year(), a.Month())
	}
	if _, err := ParseMonth("March"); err == nil {
		t.Error("expected error for malformed month")
	}
}

func TestKeyDates(t *testing.T) {
	kd := NewKeyDates(MustParseMonth("2025-01"), 18, MustParseMonth("2024-10"))
	if kd.ConstructionEnd.String() != "2026-07" {
		t.Errorf("construction end = %s, want 2026-07", kd.ConstructionEnd)
	}
	if kd.Delivery.String() != "2026-10" {
		t.Errorf("delivery = %s, want 2026-10", kd.Delivery)
	}
}

func TestMonthRange(t *testing.T) {
	seq, err := MonthRange(MustParseMonth("2025-11"), MustParseMonth("2026-02"))
	if err != nil {
		t.Fatalf("MonthRange failed: %v", err)
	}

	var first []string
	for m := range seq {
		first = append(first, m.String())
	}
	want := []string{"2025-11", "2025-12", "2026-01", "2026-02"}
	if len(first) != len(want) {
		t.Fatalf("got %v, want %v", first, want)
	}
	for i := range want {
		if first[i] != want[i] {
			t.Errorf("month %d = %s, want %s", i, first[i], want[i])
		}
	}

	// Restartable: a second pass yields the same sequence.
	count := 0
	for range seq {
		count++
	}
	if count != len(want) {
		t.Errorf("second pass yielded %d months, want %d", count, len(want))
	}

	single, err := Months(MustParseMonth("2025-05"), MustParseMonth("2025-05"))
	if err != nil || len(single) != 1 {
		t.Errorf("single month range = %v, %v", single, err)
	}
}

func TestMonthRangeInvalid(t *testing.T) {
	_, err := MonthRange(MustParseMonth("2026-01"), MustParseMonth("2025-12"))
	var rangeErr *InvalidRangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("expected InvalidRangeError, got %v", err)
	}
	if rangeErr.First.String() != "2026-01" {
		t.Errorf("unexpected First: %s", rangeErr.First)
	}
}

func TestMonthJSONKey(t *testing.T) {
	in := map[Month]int{MustParseMonth("2025-04"): 3}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"2025-04":3}` {
		t.Errorf("unexpected JSON: %s", data)
	}

	var out map[Month]int
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out[MustParseMonth("2025-04")] != 3 {
		t.Errorf("round trip lost value: %v", out)
	}
}
