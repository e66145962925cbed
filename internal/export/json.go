package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/harmondigital/agencyhub/internal/finance"
	"github.com/harmondigital/agencyhub/internal/store"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	Summary    jsonSummary `json:"summary"`
	Entries    []jsonEntry `json:"entries"`
}

type jsonSummary struct {
	TotalHours      float64 `json:"total_hours"`
	BillableHours   float64 `json:"billable_hours"`
	HourlyRevenue   float64 `json:"hourly_revenue"`
	RetainerRevenue float64 `json:"retainer_revenue"`
	TotalRevenue    float64 `json:"total_revenue"`
	PayrollCost     float64 `json:"payroll_cost"`
	BilledRevenue   float64 `json:"billed_revenue"`
	UnbilledRevenue float64 `json:"unbilled_revenue"`
	PaidPayroll     float64 `json:"paid_payroll"`
	UnpaidPayroll   float64 `json:"unpaid_payroll"`
	Profit          float64 `json:"profit"`
	ProfitMargin    float64 `json:"profit_margin"`
}

type jsonEntry struct {
	ID             int64   `json:"id"`
	Date           string  `json:"date"`
	Project        string  `json:"project"`
	ProjectID      int64   `json:"project_id"`
	Member         string  `json:"member"`
	MemberID       int64   `json:"member_id"`
	Hours          float64 `json:"hours"`
	Billable       bool    `json:"billable"`
	Amount         float64 `json:"amount"`
	ClientBilled   bool    `json:"client_billed"`
	ContractorPaid bool    `json:"contractor_paid"`
	Notes          string  `json:"notes,omitempty"`
}

// ToJSON writes the entries plus a reconciliation summary computed over them.
func ToJSON(entries []store.TimeEntry, projects map[int64]*store.Project, members map[int64]*store.TeamMember, rangeDays int, path string) error {
	projectList := make([]store.Project, 0, len(projects))
	for _, p := range projects {
		projectList = append(projectList, *p)
	}
	memberList := make([]store.TeamMember, 0, len(members))
	for _, m := range members {
		memberList = append(memberList, *m)
	}
	sum := finance.Compute(entries, projectList, memberList, rangeDays)

	out := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(entries),
		Summary: jsonSummary{
			TotalHours:      sum.TotalHours,
			BillableHours:   sum.BillableHours,
			HourlyRevenue:   sum.HourlyRevenue,
			RetainerRevenue: sum.RetainerRevenue,
			TotalRevenue:    sum.TotalRevenue,
			PayrollCost:     sum.PayrollCost,
			BilledRevenue:   sum.BilledRevenue,
			UnbilledRevenue: sum.UnbilledRevenue,
			PaidPayroll:     sum.PaidPayroll,
			UnpaidPayroll:   sum.UnpaidPayroll,
			Profit:          sum.Profit,
			ProfitMargin:    sum.ProfitMargin,
		},
	}

	for _, e := range entries {
		projectName := "Unknown"
		var rate float64
		if p, ok := projects[e.ProjectID]; ok {
			projectName = p.Name
			rate = p.HourlyRate
		}
		memberName := "Unknown"
		if m, ok := members[e.MemberID]; ok {
			memberName = m.Name
		}

		out.Entries = append(out.Entries, jsonEntry{
			ID:             e.ID,
			Date:           e.EntryDate.Format("2006-01-02"),
			Project:        projectName,
			ProjectID:      e.ProjectID,
			Member:         memberName,
			MemberID:       e.MemberID,
			Hours:          e.Hours,
			Billable:       e.Billable,
			Amount:         e.Hours * rate,
			ClientBilled:   e.ClientBilled,
			ContractorPaid: e.ContractorPaid,
			Notes:          e.Notes,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
