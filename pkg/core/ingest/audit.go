package ingest

import "math"

// Checkpoint statuses.
const (
	StatusMatch      = "MATCH"
	StatusImmaterial = "IMMATERIAL"
	StatusMismatch   = "MATERIAL_MISMATCH"
)

// MaterialityPct is the variance, in percent of the expected figure, above which an imported
// budget is flagged.
const MaterialityPct = 5.0

// AuditCheckpoint compares an imported total against the figure the project parameters imply.
type AuditCheckpoint struct {
	Name        string  `json:"name"`
	Imported    float64 `json:"imported"`
	Expected    float64 `json:"expected"`
	Variance    float64 `json:"variance"`
	VariancePct float64 `json:"variance_pct"`
	Status      string  `json:"status"`
}

// VerifyBudget checks the budget read from a chapter table against the execution cost of the
// project (built area times cost per m²). A mismatch is a warning: weights are renormalised anyway.
func VerifyBudget(imported, expected float64) AuditCheckpoint {
	diff := imported - expected
	c := AuditCheckpoint{
		Name:     "chapter budget vs execution cost",
		Imported: imported,
		Expected: expected,
		Variance: diff,
		Status:   StatusMatch,
	}
	if math.Abs(diff) < 0.005 {
		return c
	}
	if expected == 0 {
		c.Status = StatusMismatch
		return c
	}
	c.VariancePct = diff / expected * 100
	if math.Abs(c.VariancePct) > MaterialityPct {
		c.Status = StatusMismatch
	} else {
		c.Status = StatusImmaterial
	}
	return c
}
