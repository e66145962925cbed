package finance

import (
	"math"
	"testing"
	"time"

	"github.com/harmondigital/agencyhub/internal/store"
)

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func hourlyProject(id int64, rate float64) store.Project {
	return store.Project{ID: id, Name: "P", BillingType: store.BillingHourly, HourlyRate: rate}
}

func retainerProject(id int64, monthly float64) store.Project {
	return store.Project{ID: id, Name: "R", BillingType: store.BillingRetainer, RetainerMonthly: monthly}
}

func member(id int64, rate float64) store.TeamMember {
	return store.TeamMember{ID: id, HourlyRate: rate, Status: store.MemberActive}
}

func entry(projectID, memberID int64, hours float64, billable bool) store.TimeEntry {
	return store.TimeEntry{
		ProjectID: projectID,
		MemberID:  memberID,
		EntryDate: day("2026-08-01"),
		Hours:     hours,
		Billable:  billable,
	}
}

// ============================================================
// Zero-input and default behavior
// ============================================================

func TestComputeEmpty(t *testing.T) {
	sum := Compute(nil, nil, nil, 30)

	zero := Summary{}
	if sum != zero {
		t.Fatalf("expected all-zero summary, got %+v", sum)
	}
}

func TestComputeRangeDaysDefault(t *testing.T) {
	projects := []store.Project{retainerProject(1, 3000)}
	entries := []store.TimeEntry{entry(1, 1, 2, true)}

	// rangeDays <= 0 falls back to 30, giving the full monthly fee.
	sum := Compute(entries, projects, nil, 0)
	if sum.RetainerRevenue != 3000 {
		t.Fatalf("expected retainer 3000 with default range, got %v", sum.RetainerRevenue)
	}
}

// ============================================================
// Hourly revenue, billed/unbilled partition
// ============================================================

func TestComputeHourlyRevenue(t *testing.T) {
	projects := []store.Project{hourlyProject(1, 100)}
	members := []store.TeamMember{member(1, 40)}
	entries := []store.TimeEntry{
		entry(1, 1, 2, true),
		entry(1, 1, 3, true),
	}

	sum := Compute(entries, projects, members, 30)
	if sum.TotalHours != 5 {
		t.Fatalf("total hours: got %v, want 5", sum.TotalHours)
	}
	if sum.BillableHours != 5 {
		t.Fatalf("billable hours: got %v, want 5", sum.BillableHours)
	}
	if sum.HourlyRevenue != 500 {
		t.Fatalf("hourly revenue: got %v, want 500", sum.HourlyRevenue)
	}
	if sum.PayrollCost != 200 {
		t.Fatalf("payroll: got %v, want 200", sum.PayrollCost)
	}
	if sum.Profit != 300 {
		t.Fatalf("profit: got %v, want 300", sum.Profit)
	}
	if sum.ProfitMargin != 60 {
		t.Fatalf("margin: got %v, want 60", sum.ProfitMargin)
	}
}

func TestComputeBilledUnbilledPartition(t *testing.T) {
	projects := []store.Project{hourlyProject(1, 100)}
	billed := entry(1, 1, 2, true)
	billed.ClientBilled = true
	unbilled := entry(1, 1, 2, true)

	sum := Compute([]store.TimeEntry{billed, unbilled}, projects, nil, 30)
	if sum.BilledRevenue != 200 {
		t.Fatalf("billed: got %v, want 200", sum.BilledRevenue)
	}
	if sum.UnbilledRevenue != 200 {
		t.Fatalf("unbilled: got %v, want 200", sum.UnbilledRevenue)
	}
	if sum.HourlyRevenue != 400 {
		t.Fatalf("hourly: got %v, want 400", sum.HourlyRevenue)
	}
}

func TestComputeNonBillableExcludedFromRevenue(t *testing.T) {
	projects := []store.Project{hourlyProject(1, 100)}
	members := []store.TeamMember{member(1, 50)}
	entries := []store.TimeEntry{entry(1, 1, 4, false)}

	sum := Compute(entries, projects, members, 30)
	if sum.HourlyRevenue != 0 {
		t.Fatalf("non-billable produced revenue: %v", sum.HourlyRevenue)
	}
	if sum.BillableHours != 0 {
		t.Fatalf("billable hours: got %v, want 0", sum.BillableHours)
	}
	// Labor cost still accrues for unbillable work.
	if sum.PayrollCost != 200 {
		t.Fatalf("payroll: got %v, want 200", sum.PayrollCost)
	}
}

func TestComputeInternalProjectExclusion(t *testing.T) {
	p := store.Project{ID: 1, BillingType: store.BillingHourly, HourlyRate: 150, Internal: true}
	members := []store.TeamMember{member(1, 150)}
	entries := []store.TimeEntry{entry(1, 1, 4, true)}

	sum := Compute(entries, []store.Project{p}, members, 30)
	if sum.HourlyRevenue != 0 || sum.BilledRevenue != 0 || sum.UnbilledRevenue != 0 {
		t.Fatalf("internal project produced revenue: %+v", sum)
	}
	if sum.PayrollCost != 600 {
		t.Fatalf("payroll: got %v, want 600", sum.PayrollCost)
	}
}

func TestComputeInternalBillingTypeExclusion(t *testing.T) {
	p := store.Project{ID: 1, BillingType: store.BillingInternal, HourlyRate: 150}
	entries := []store.TimeEntry{entry(1, 1, 4, true)}

	sum := Compute(entries, []store.Project{p}, nil, 30)
	if sum.HourlyRevenue != 0 {
		t.Fatalf("internal billing type produced revenue: %v", sum.HourlyRevenue)
	}
}

// ============================================================
// Retainer proration
// ============================================================

func TestComputeRetainerProration(t *testing.T) {
	projects := []store.Project{retainerProject(1, 3000)}
	members := []store.TeamMember{member(1, 50)}
	entries := []store.TimeEntry{
		entry(1, 1, 5, true),
		entry(1, 1, 3, true),
	}

	sum := Compute(entries, projects, members, 30)
	if sum.RetainerRevenue != 3000 {
		t.Fatalf("retainer: got %v, want 3000", sum.RetainerRevenue)
	}
	// Retainer projects are excluded from the hourly calculation.
	if sum.HourlyRevenue != 0 {
		t.Fatalf("hourly: got %v, want 0", sum.HourlyRevenue)
	}
	if sum.PayrollCost != 400 {
		t.Fatalf("payroll: got %v, want 8h x 50 = 400", sum.PayrollCost)
	}
}

func TestComputeRetainer14DayRange(t *testing.T) {
	projects := []store.Project{retainerProject(1, 6000)}
	entries := []store.TimeEntry{entry(1, 1, 1, true)}

	sum := Compute(entries, projects, nil, 14)
	want := 6000.0 / 30 * 14
	if sum.RetainerRevenue != want {
		t.Fatalf("retainer: got %v, want %v", sum.RetainerRevenue, want)
	}
}

func TestComputeRetainerCountedOncePerProject(t *testing.T) {
	projects := []store.Project{retainerProject(1, 3000), retainerProject(2, 1500)}
	entries := []store.TimeEntry{
		entry(1, 1, 5, true),
		entry(1, 1, 3, true),
		entry(1, 2, 7, false),
		entry(2, 1, 1, true),
	}

	sum := Compute(entries, projects, nil, 30)
	if sum.RetainerRevenue != 4500 {
		t.Fatalf("retainer: got %v, want 4500", sum.RetainerRevenue)
	}
}

func TestComputeRetainerMissingMonthly(t *testing.T) {
	projects := []store.Project{retainerProject(1, 0)}
	entries := []store.TimeEntry{entry(1, 1, 5, true)}

	sum := Compute(entries, projects, nil, 30)
	if sum.RetainerRevenue != 0 {
		t.Fatalf("retainer with no monthly fee: got %v, want 0", sum.RetainerRevenue)
	}
}

// Retainer revenue is deliberately not additive: splitting one project's
// entries across two computations double-counts the retainer.
func TestComputeRetainerNotAdditive(t *testing.T) {
	projects := []store.Project{retainerProject(1, 3000)}
	a := []store.TimeEntry{entry(1, 1, 5, true)}
	b := []store.TimeEntry{entry(1, 1, 3, true)}

	whole := Compute(append(append([]store.TimeEntry{}, a...), b...), projects, nil, 30)
	split := Compute(a, projects, nil, 30).RetainerRevenue + Compute(b, projects, nil, 30).RetainerRevenue

	if whole.RetainerRevenue != 3000 {
		t.Fatalf("whole: got %v, want 3000", whole.RetainerRevenue)
	}
	if split != 6000 {
		t.Fatalf("split: got %v, want 6000 (double count)", split)
	}
}

// ============================================================
// Additivity of the partition-stable sums
// ============================================================

func TestComputeAdditivity(t *testing.T) {
	projects := []store.Project{hourlyProject(1, 100), hourlyProject(2, 80)}
	members := []store.TeamMember{member(1, 40), member(2, 60)}

	paid := entry(2, 2, 1.5, true)
	paid.ContractorPaid = true
	billed := entry(1, 1, 2.5, true)
	billed.ClientBilled = true

	a := []store.TimeEntry{entry(1, 1, 2, true), paid}
	b := []store.TimeEntry{billed, entry(2, 1, 4, false)}

	whole := Compute(append(append([]store.TimeEntry{}, a...), b...), projects, members, 30)
	sa := Compute(a, projects, members, 30)
	sb := Compute(b, projects, members, 30)

	checks := []struct {
		name        string
		whole, a, b float64
	}{
		{"TotalHours", whole.TotalHours, sa.TotalHours, sb.TotalHours},
		{"BillableHours", whole.BillableHours, sa.BillableHours, sb.BillableHours},
		{"HourlyRevenue", whole.HourlyRevenue, sa.HourlyRevenue, sb.HourlyRevenue},
		{"PayrollCost", whole.PayrollCost, sa.PayrollCost, sb.PayrollCost},
		{"BilledRevenue", whole.BilledRevenue, sa.BilledRevenue, sb.BilledRevenue},
		{"UnbilledRevenue", whole.UnbilledRevenue, sa.UnbilledRevenue, sb.UnbilledRevenue},
		{"PaidPayroll", whole.PaidPayroll, sa.PaidPayroll, sb.PaidPayroll},
		{"UnpaidPayroll", whole.UnpaidPayroll, sa.UnpaidPayroll, sb.UnpaidPayroll},
	}
	for _, c := range checks {
		if math.Abs(c.whole-(c.a+c.b)) > 1e-9 {
			t.Errorf("%s: whole %v != %v + %v", c.name, c.whole, c.a, c.b)
		}
	}
}

// ============================================================
// Missing references and margin bound
// ============================================================

func TestComputeMissingProjectAndMember(t *testing.T) {
	// No projects or members supplied at all.
	entries := []store.TimeEntry{entry(99, 42, 3, true)}

	sum := Compute(entries, nil, nil, 30)
	if sum.TotalHours != 3 {
		t.Fatalf("total hours: got %v, want 3", sum.TotalHours)
	}
	if sum.HourlyRevenue != 0 || sum.RetainerRevenue != 0 || sum.PayrollCost != 0 ||
		sum.BilledRevenue != 0 || sum.UnbilledRevenue != 0 ||
		sum.PaidPayroll != 0 || sum.UnpaidPayroll != 0 {
		t.Fatalf("dangling refs produced currency values: %+v", sum)
	}
}

func TestComputeMarginZeroRevenue(t *testing.T) {
	// Payroll cost with no revenue: profit is negative, margin must be 0, not NaN.
	members := []store.TeamMember{member(1, 100)}
	entries := []store.TimeEntry{entry(99, 1, 10, false)}

	sum := Compute(entries, nil, members, 30)
	if sum.Profit != -1000 {
		t.Fatalf("profit: got %v, want -1000", sum.Profit)
	}
	if sum.ProfitMargin != 0 {
		t.Fatalf("margin with zero revenue: got %v, want 0", sum.ProfitMargin)
	}
	if math.IsNaN(sum.ProfitMargin) || math.IsInf(sum.ProfitMargin, 0) {
		t.Fatalf("margin not finite: %v", sum.ProfitMargin)
	}
}

func TestComputePaidUnpaidPayrollPartition(t *testing.T) {
	members := []store.TeamMember{member(1, 50)}
	paid := entry(1, 1, 2, true)
	paid.ContractorPaid = true
	unpaid := entry(1, 1, 3, true)

	sum := Compute([]store.TimeEntry{paid, unpaid}, nil, members, 30)
	if sum.PaidPayroll != 100 {
		t.Fatalf("paid payroll: got %v, want 100", sum.PaidPayroll)
	}
	if sum.UnpaidPayroll != 150 {
		t.Fatalf("unpaid payroll: got %v, want 150", sum.UnpaidPayroll)
	}
	if sum.PayrollCost != 250 {
		t.Fatalf("total payroll: got %v, want 250", sum.PayrollCost)
	}
}
