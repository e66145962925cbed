// Package finance derives reporting metrics from time entries, project billing
// configurations, and team pay rates. Everything here is pure: no I/O, no
// mutation of inputs, and no fallible operations.
package finance

import (
	"github.com/harmondigital/agencyhub/internal/store"
)

// retainerDivisor prorates monthly retainers by elapsed days. Fixed at 30
// regardless of the calendar month; retainers are treated as pre-paid.
const retainerDivisor = 30

// DefaultRangeDays is the window assumed when no explicit range is set.
const DefaultRangeDays = 30

// Summary holds the reconciliation metrics for one set of time entries.
// Currency values are unrounded; the display layer rounds.
type Summary struct {
	TotalHours    float64
	BillableHours float64

	HourlyRevenue   float64
	RetainerRevenue float64
	TotalRevenue    float64

	PayrollCost float64

	BilledRevenue   float64
	UnbilledRevenue float64
	PaidPayroll     float64
	UnpaidPayroll   float64

	Profit       float64
	ProfitMargin float64 // percent, 0 when revenue is 0
}

// Compute reconciles revenue and cost for the given entries. The entries are
// expected to be date- and filter-restricted already; projects and members are
// the full collections, used only for rate lookup. rangeDays spans the active
// date filter and only affects retainer proration; values <= 0 fall back to
// DefaultRangeDays.
//
// An entry referencing a missing project or member still counts its hours
// toward TotalHours but contributes 0 to every currency-valued output.
func Compute(entries []store.TimeEntry, projects []store.Project, members []store.TeamMember, rangeDays int) Summary {
	if rangeDays <= 0 {
		rangeDays = DefaultRangeDays
	}

	projectByID := make(map[int64]store.Project, len(projects))
	for _, p := range projects {
		projectByID[p.ID] = p
	}
	memberByID := make(map[int64]store.TeamMember, len(members))
	for _, m := range members {
		memberByID[m.ID] = m
	}

	var sum Summary
	retainerSeen := make(map[int64]bool)

	for _, e := range entries {
		sum.TotalHours += e.Hours
		if e.Billable {
			sum.BillableHours += e.Hours
		}

		// Labor cost accrues for every logged hour, billable or not.
		if m, ok := memberByID[e.MemberID]; ok {
			cost := e.Hours * m.HourlyRate
			sum.PayrollCost += cost
			if e.ContractorPaid {
				sum.PaidPayroll += cost
			} else {
				sum.UnpaidPayroll += cost
			}
		}

		p, ok := projectByID[e.ProjectID]
		if !ok {
			continue
		}

		// Each distinct retainer project in range contributes its prorated
		// monthly fee once, independent of hours logged against it.
		if p.BillingType == store.BillingRetainer {
			if !retainerSeen[p.ID] {
				retainerSeen[p.ID] = true
				daily := p.RetainerMonthly / retainerDivisor
				sum.RetainerRevenue += daily * float64(rangeDays)
			}
			continue
		}

		if e.Billable && p.BillableToClient() {
			rev := e.Hours * p.HourlyRate
			sum.HourlyRevenue += rev
			if e.ClientBilled {
				sum.BilledRevenue += rev
			} else {
				sum.UnbilledRevenue += rev
			}
		}
	}

	sum.TotalRevenue = sum.HourlyRevenue + sum.RetainerRevenue
	sum.Profit = sum.TotalRevenue - sum.PayrollCost
	if sum.TotalRevenue > 0 {
		sum.ProfitMargin = sum.Profit / sum.TotalRevenue * 100
	}

	return sum
}
