// Package validate re-checks a finished projection against the accounting identities it must satisfy.
// These functions can be called from tests, API handlers or the CLI to flag a projection whose tables
// should not be trusted, and to surface warnings the user must act on (escrow deficits).
package validate

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Cokul/pres-prom-inmob/pkg/core/cashflow"
)

// CentTolerance is the rounding slack allowed per independently rounded amount.
var CentTolerance = decimal.RequireFromString("0.01")

// Check is the outcome of a single identity.
type Check struct {
	Name       string          `json:"name"`
	Expected   decimal.Decimal `json:"expected"`
	Actual     decimal.Decimal `json:"actual"`
	Difference decimal.Decimal `json:"difference"`
	Tolerance  decimal.Decimal `json:"tolerance"`
	Passed     bool            `json:"passed"`
}

func newCheck(name string, expected, actual, tolerance decimal.Decimal) Check {
	diff := actual.Sub(expected)
	return Check{
		Name:       name,
		Expected:   expected,
		Actual:     actual,
		Difference: diff,
		Tolerance:  tolerance,
		Passed:     diff.Abs().LessThanOrEqual(tolerance),
	}
}

// VerificationResult holds every check plus user-facing warnings.
// OK is false only when an identity fails; warnings alone do not invalidate a projection.
type VerificationResult struct {
	OK           bool     `json:"ok"`
	Checks       []Check  `json:"checks"`
	FailedChecks []string `json:"failed_checks,omitempty"`
	Warnings     []string `json:"warnings,omitempty"`
}

func (r *VerificationResult) add(c Check) {
	r.Checks = append(r.Checks, c)
	if !c.Passed {
		r.OK = false
		r.FailedChecks = append(r.FailedChecks, fmt.Sprintf("%s: off by %s", c.Name, c.Difference.StringFixed(2)))
	}
}

// CheckProjection runs every identity and collects the escrow warnings.
func CheckProjection(p *cashflow.Projection) VerificationResult {
	res := VerificationResult{OK: true}
	if p == nil {
		res.OK = false
		res.FailedChecks = append(res.FailedChecks, "no projection")
		return res
	}

	for _, c := range CheckExecution(p) {
		res.add(c)
	}
	res.add(CheckRevenue(p))
	for _, c := range CheckRows(p) {
		res.add(c)
	}
	res.Warnings = append(res.Warnings, EscrowWarnings(p.Rows)...)
	return res
}

// EscrowWarnings reports the months whose escrow balance was breached.
func EscrowWarnings(rows []cashflow.ConsolidatedRow) []string {
	breaches := 0
	total := decimal.Zero
	first := ""
	for _, r := range rows {
		if r.EscrowDeficit.IsNegative() {
			if breaches == 0 {
				first = r.Month.String()
			}
			breaches++
			total = total.Add(r.EscrowDeficit)
		}
	}
	if breaches == 0 {
		return nil
	}
	return []string{fmt.Sprintf(
		"escrow balance breached in %d months (first %s, total %s); deficit must be funded externally",
		breaches, first, total.StringFixed(2),
	)}
}
