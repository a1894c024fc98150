package cashflow

import (
	"fmt"
	"math"
	"strings"
)

// CostChapter is one construction budget line. Weight is a percentage of the execution cost;
// StartOffset counts months from construction start.
type CostChapter struct {
	Name        string  `json:"name"`
	Weight      float64 `json:"weight"`
	StartOffset int     `json:"start_offset"`
	Duration    int     `json:"duration"`
}

// Built-in budget breakdown for a mid-size residential block. Weights sum to 100.
var defaultChapters = []CostChapter{
	{"Actuaciones previas", 0.0008, 0, 3},
	{"Demoliciones", 0.03554, 0, 3},
	{"Acondicionamiento del terreno", 2.43289, 0, 3},
	{"Cimentaciones", 2.36372, 2, 4},
	{"Estructuras", 10.64831, 4, 4},
	{"Fachadas y particiones", 8.71951, 8, 4},
	{"Carpintería, cerrajería, vidrios y protecciones solares", 9.88736, 10, 5},
	{"Remates y ayudas", 1.11051, 12, 6},
	{"Instalaciones", 17.93712, 10, 6},
	{"Aislamientos e impermeabilizaciones", 1.36965, 4, 3},
	{"Cubiertas", 3.1591, 6, 2},
	{"Revestimientos y trasdosados", 19.7394, 12, 5},
	{"Señalización y equipamiento", 6.44508, 15, 2},
	{"Urbanización interior de la parcela", 14.79113, 13, 4},
	{"Gestión de residuos", 1.03846, 0, 17},
	{"Control de calidad y ensayos", 0.05725, 14, 5},
	{"Seguridad y salud", 0.26417, 0, 17},
}

// Fallback schedule for imported chapters that match no built-in name.
const defaultImportedDuration = 6

// DefaultChapters returns a fresh copy of the built-in 17-chapter table.
func DefaultChapters() []CostChapter {
	out := make([]CostChapter, len(defaultChapters))
	copy(out, defaultChapters)
	return out
}

// DefaultSchedule looks up the built-in offset and duration for a chapter name (case-insensitive).
func DefaultSchedule(name string) (offset, duration int, ok bool) {
	key := strings.TrimSpace(name)
	for _, c := range defaultChapters {
		if strings.EqualFold(c.Name, key) {
			return c.StartOffset, c.Duration, true
		}
	}
	return 0, 0, false
}

// ImportedSchedule returns the schedule for the row-th imported chapter (0-based):
// the built-in one when the name is known, otherwise offset=row and a six-month duration.
func ImportedSchedule(name string, row int) (offset, duration int) {
	if off, dur, ok := DefaultSchedule(name); ok {
		return off, dur
	}
	return row, defaultImportedDuration
}

// ChaptersFromAmounts converts budget amounts into weighted chapters using ImportedSchedule.
func ChaptersFromAmounts(names []string, amounts []float64) ([]CostChapter, error) {
	if len(names) != len(amounts) {
		return nil, &ChapterImportError{Reason: fmt.Sprintf("%d names for %d amounts", len(names), len(amounts))}
	}
	chapters := make([]CostChapter, len(names))
	for i, name := range names {
		off, dur := ImportedSchedule(name, i)
		chapters[i] = CostChapter{Name: name, Weight: amounts[i], StartOffset: off, Duration: dur}
	}
	return NormalizeWeights(chapters)
}

// NormalizeWeights returns a copy whose weights are rescaled to sum to 100.
// Negative or non-finite weights, or a zero total, are rejected.
func NormalizeWeights(chapters []CostChapter) ([]CostChapter, error) {
	if len(chapters) == 0 {
		return nil, &ChapterImportError{Reason: "no chapters"}
	}
	sum := 0.0
	for i, c := range chapters {
		if math.IsNaN(c.Weight) || math.IsInf(c.Weight, 0) {
			return nil, &ChapterImportError{Row: i + 1, Chapter: c.Name, Reason: "weight is not a finite number"}
		}
		if c.Weight < 0 {
			return nil, &ChapterImportError{Row: i + 1, Chapter: c.Name, Value: fmt.Sprint(c.Weight), Reason: "weight must not be negative"}
		}
		sum += c.Weight
	}
	if sum <= 0 {
		return nil, &ChapterImportError{Reason: "chapter weights sum to zero"}
	}

	out := make([]CostChapter, len(chapters))
	for i, c := range chapters {
		c.Weight = c.Weight / sum * 100
		out[i] = c
	}
	return out, nil
}

// ValidateChapters checks offsets and durations.
func ValidateChapters(chapters []CostChapter) error {
	for i, c := range chapters {
		if c.Duration < 1 {
			return &ChapterImportError{Row: i + 1, Chapter: c.Name, Value: fmt.Sprint(c.Duration), Reason: "duration must be at least one month"}
		}
		if c.StartOffset < 0 {
			return &ChapterImportError{Row: i + 1, Chapter: c.Name, Value: fmt.Sprint(c.StartOffset), Reason: "start offset must not be negative"}
		}
	}
	return nil
}
