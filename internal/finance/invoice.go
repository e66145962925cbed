package finance

import (
	"fmt"
	"sort"
	"time"

	"github.com/harmondigital/agencyhub/internal/store"
)

// Draft is a consolidated invoice candidate built from unbilled time. It is
// not persisted; the caller decides whether to store it and mark the source
// entries billed.
type Draft struct {
	AccountID   int64
	PeriodStart time.Time
	PeriodEnd   time.Time
	Lines       []store.InvoiceLine
	Subtotal    float64
	EntryIDs    []int64 // entries consolidated into the hourly lines
}

// BuildDraft consolidates an account's billable, not-yet-billed time in
// [periodStart, periodEnd) into per-project line items. Hourly-style projects
// get one line of summed hours at the project billing rate; each retainer
// project with a monthly fee gets a prorated retainer line covering the
// period. Internal projects and non-billable entries are skipped. Returns a
// draft with no lines when there is nothing to bill.
func BuildDraft(accountID int64, projects []store.Project, entries []store.TimeEntry, periodStart, periodEnd time.Time) Draft {
	d := Draft{
		AccountID:   accountID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
	}

	projectByID := make(map[int64]store.Project, len(projects))
	for _, p := range projects {
		projectByID[p.ID] = p
	}

	hoursByProject := make(map[int64]float64)
	retainerSeen := make(map[int64]bool)

	for _, e := range entries {
		p, ok := projectByID[e.ProjectID]
		if !ok {
			continue
		}
		if p.BillingType == store.BillingRetainer {
			retainerSeen[p.ID] = true
			continue
		}
		if !e.Billable || e.ClientBilled || !p.BillableToClient() {
			continue
		}
		hoursByProject[e.ProjectID] += e.Hours
		d.EntryIDs = append(d.EntryIDs, e.ID)
	}

	days := int(periodEnd.Sub(periodStart).Hours() / 24)
	if days <= 0 {
		days = DefaultRangeDays
	}

	ids := make([]int64, 0, len(hoursByProject))
	for id := range hoursByProject {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		p := projectByID[id]
		hours := hoursByProject[id]
		amount := hours * p.HourlyRate
		d.Lines = append(d.Lines, store.InvoiceLine{
			ProjectID:   id,
			Description: fmt.Sprintf("%s: %.2f hours @ %.2f/h", p.Name, hours, p.HourlyRate),
			Hours:       hours,
			Rate:        p.HourlyRate,
			Amount:      amount,
		})
		d.Subtotal += amount
	}

	rids := make([]int64, 0, len(retainerSeen))
	for id := range retainerSeen {
		rids = append(rids, id)
	}
	sort.Slice(rids, func(i, j int) bool { return rids[i] < rids[j] })

	for _, id := range rids {
		p := projectByID[id]
		if p.RetainerMonthly <= 0 {
			continue
		}
		amount := p.RetainerMonthly / retainerDivisor * float64(days)
		d.Lines = append(d.Lines, store.InvoiceLine{
			ProjectID:   id,
			Description: fmt.Sprintf("%s: retainer, %d days", p.Name, days),
			Rate:        p.RetainerMonthly,
			Amount:      amount,
		})
		d.Subtotal += amount
	}

	return d
}
