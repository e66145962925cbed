package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/harmondigital/agencyhub/internal/store"
)

func ToCSV(entries []store.TimeEntry, projects map[int64]*store.Project, members map[int64]*store.TeamMember, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	header := []string{"ID", "Date", "Project", "Member", "Hours", "Billable", "Amount", "Client Billed", "Contractor Paid", "Notes"}
	if err := w.Write(header); err != nil {
		return err
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

		row := []string{
			fmt.Sprintf("%d", e.ID),
			e.EntryDate.Format("2006-01-02"),
			projectName,
			memberName,
			fmt.Sprintf("%.2f", e.Hours),
			formatBool(e.Billable),
			fmt.Sprintf("%.2f", e.Hours*rate),
			formatBool(e.ClientBilled),
			formatBool(e.ContractorPaid),
			e.Notes,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func formatBool(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
