package validate

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Cokul/pres-prom-inmob/pkg/core/calendar"
	"github.com/Cokul/pres-prom-inmob/pkg/core/cashflow"
)

func project(t *testing.T, plan cashflow.SalesPlan) *cashflow.Projection {
	t.Helper()
	start := calendar.MustParseMonth("2025-01")
	p, err := cashflow.Project(cashflow.DefaultParameters(start), plan, nil)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	return p
}

func TestCheckProjectionPasses(t *testing.T) {
	start := calendar.MustParseMonth("2025-01")
	p := project(t, cashflow.SalesPlan{Monthly: map[calendar.Month]int{
		start: 10, start.AddMonths(2): 10,
	}})

	res := CheckProjection(p)
	if !res.OK {
		t.Fatalf("expected all checks to pass, failed: %v", res.FailedChecks)
	}
	if len(res.Checks) != 17+1+1+5 {
		t.Errorf("checks = %d", len(res.Checks))
	}
}

func TestCheckProjectionDetectsTampering(t *testing.T) {
	start := calendar.MustParseMonth("2025-01")
	p := project(t, cashflow.SalesPlan{Monthly: map[calendar.Month]int{start: 4}})

	p.Rows[3].CumulativeFlow = p.Rows[3].CumulativeFlow.Add(decimal.NewFromInt(1))
	p.Rows[len(p.Rows)-1].CumulativeFlow = p.Rows[len(p.Rows)-1].CumulativeFlow.Add(decimal.NewFromInt(5))

	res := CheckProjection(p)
	if res.OK {
		t.Fatal("expected failure after tampering with cumulative flow")
	}
	if len(res.FailedChecks) != 1 || !strings.Contains(res.FailedChecks[0], "cumulative") {
		t.Errorf("failed checks = %v", res.FailedChecks)
	}
}

func TestEscrowWarnings(t *testing.T) {
	// With no sales the escrow account receives nothing and every construction month is a breach.
	p := project(t, cashflow.SalesPlan{})
	res := CheckProjection(p)
	if !res.OK {
		t.Fatalf("identities should still hold: %v", res.FailedChecks)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "funded externally") {
		t.Errorf("warnings = %v", res.Warnings)
	}
	if !strings.Contains(res.Warnings[0], "breached in 19 months") {
		t.Errorf("unexpected breach count: %s", res.Warnings[0])
	}
}

func TestCheckProjectionNil(t *testing.T) {
	if res := CheckProjection(nil); res.OK {
		t.Error("nil projection must not verify")
	}
}
