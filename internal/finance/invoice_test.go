package finance

import (
	"strings"
	"testing"

	"github.com/harmondigital/agencyhub/internal/store"
)

func acctProject(id int64, billing store.BillingType, rate, monthly float64) store.Project {
	return store.Project{
		ID:              id,
		Name:            "Proj",
		BillingType:     billing,
		HourlyRate:      rate,
		RetainerMonthly: monthly,
	}
}

func TestBuildDraftHourlyLines(t *testing.T) {
	projects := []store.Project{acctProject(1, store.BillingHourly, 100, 0)}
	entries := []store.TimeEntry{
		entry(1, 1, 2, true),
		entry(1, 1, 3, true),
	}

	d := BuildDraft(7, projects, entries, day("2026-08-01"), day("2026-08-31"))
	if d.AccountID != 7 {
		t.Fatalf("account: got %d", d.AccountID)
	}
	if len(d.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(d.Lines))
	}
	l := d.Lines[0]
	if l.Hours != 5 || l.Rate != 100 || l.Amount != 500 {
		t.Fatalf("unexpected line: %+v", l)
	}
	if d.Subtotal != 500 {
		t.Fatalf("subtotal: got %v, want 500", d.Subtotal)
	}
	if len(d.EntryIDs) != 2 {
		t.Fatalf("expected 2 consolidated entries, got %d", len(d.EntryIDs))
	}
}

func TestBuildDraftSkipsBilledAndNonBillable(t *testing.T) {
	projects := []store.Project{acctProject(1, store.BillingHourly, 100, 0)}
	billed := entry(1, 1, 2, true)
	billed.ClientBilled = true
	entries := []store.TimeEntry{
		billed,
		entry(1, 1, 4, false),
	}

	d := BuildDraft(7, projects, entries, day("2026-08-01"), day("2026-08-31"))
	if len(d.Lines) != 0 {
		t.Fatalf("expected no lines, got %+v", d.Lines)
	}
	if d.Subtotal != 0 {
		t.Fatalf("subtotal: got %v, want 0", d.Subtotal)
	}
}

func TestBuildDraftRetainerLine(t *testing.T) {
	projects := []store.Project{acctProject(1, store.BillingRetainer, 0, 3000)}
	entries := []store.TimeEntry{
		entry(1, 1, 5, true),
		entry(1, 1, 3, true),
	}

	// 30-day period: full monthly fee, once, regardless of hours.
	d := BuildDraft(7, projects, entries, day("2026-08-01"), day("2026-08-31"))
	if len(d.Lines) != 1 {
		t.Fatalf("expected 1 retainer line, got %d", len(d.Lines))
	}
	if d.Lines[0].Amount != 3000 {
		t.Fatalf("retainer amount: got %v, want 3000", d.Lines[0].Amount)
	}
	if !strings.Contains(d.Lines[0].Description, "retainer") {
		t.Fatalf("description: %q", d.Lines[0].Description)
	}
	// Retainer lines consolidate no hourly entries.
	if len(d.EntryIDs) != 0 {
		t.Fatalf("expected no entry ids, got %v", d.EntryIDs)
	}
}

func TestBuildDraftRetainerProrated(t *testing.T) {
	projects := []store.Project{acctProject(1, store.BillingRetainer, 0, 6000)}
	entries := []store.TimeEntry{entry(1, 1, 1, true)}

	d := BuildDraft(7, projects, entries, day("2026-08-01"), day("2026-08-15"))
	want := 6000.0 / 30 * 14
	if d.Subtotal != want {
		t.Fatalf("subtotal: got %v, want %v", d.Subtotal, want)
	}
}

func TestBuildDraftInternalSkipped(t *testing.T) {
	p := acctProject(1, store.BillingHourly, 150, 0)
	p.Internal = true
	entries := []store.TimeEntry{entry(1, 1, 4, true)}

	d := BuildDraft(7, []store.Project{p}, entries, day("2026-08-01"), day("2026-08-31"))
	if len(d.Lines) != 0 {
		t.Fatalf("internal project billed: %+v", d.Lines)
	}
}

func TestBuildDraftMultipleProjectsSorted(t *testing.T) {
	projects := []store.Project{
		acctProject(2, store.BillingHourly, 80, 0),
		acctProject(1, store.BillingHourly, 100, 0),
	}
	entries := []store.TimeEntry{
		entry(2, 1, 1, true),
		entry(1, 1, 2, true),
	}

	d := BuildDraft(7, projects, entries, day("2026-08-01"), day("2026-08-31"))
	if len(d.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(d.Lines))
	}
	if d.Lines[0].ProjectID != 1 || d.Lines[1].ProjectID != 2 {
		t.Fatalf("lines not ordered by project id: %+v", d.Lines)
	}
	if d.Subtotal != 280 {
		t.Fatalf("subtotal: got %v, want 280", d.Subtotal)
	}
}
