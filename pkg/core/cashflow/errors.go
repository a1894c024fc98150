package cashflow

import "fmt"

// OversoldError is returned when an aggregate sales plan allocates more units than the project has.
type OversoldError struct {
	Planned   int
	Available int
}

func (e *OversoldError) Error() string {
	return fmt.Sprintf("sales plan allocates %d units but the project has %d", e.Planned, e.Available)
}

// ConfigurationError reports a scalar input that is negative or out of bounds.
type ConfigurationError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

// ChapterImportError reports malformed chapter weights or costs. The chapter is never silently
// zeroed; the caller decides whether to fall back to DefaultChapters.
type ChapterImportError struct {
	Row     int // 1-based data row, 0 when the whole table is at fault
	Chapter string
	Value   string
	Reason  string
	Err     error
}

func (e *ChapterImportError) Error() string {
	msg := "chapter import"
	if e.Row > 0 {
		msg += fmt.Sprintf(" row %d", e.Row)
	}
	if e.Chapter != "" {
		msg += fmt.Sprintf(" (%s)", e.Chapter)
	}
	msg += ": " + e.Reason
	if e.Value != "" {
		msg += fmt.Sprintf(" [%q]", e.Value)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ChapterImportError) Unwrap() error { return e.Err }
