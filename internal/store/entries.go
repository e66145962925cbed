package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

const dayFormat = "2006-01-02"

func (s *Store) LogEntry(projectID, memberID int64, taskID *int64, date time.Time, hours float64, billable bool, notes string) (*TimeEntry, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO time_entries (project_id, member_id, task_id, entry_date, hours, billable, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		projectID, memberID, taskID, date.Format(dayFormat), hours, boolToInt(billable), notes, now,
	)
	if err != nil {
		return nil, fmt.Errorf("log entry: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetEntry(id)
}

func (s *Store) GetEntry(id int64) (*TimeEntry, error) {
	e := &TimeEntry{}
	var entryDate, createdAt string
	var taskID sql.NullInt64
	var billable, billed, paid int

	err := s.db.QueryRow(
		`SELECT id, project_id, member_id, task_id, entry_date, hours, billable, client_billed, contractor_paid, notes, created_at
		 FROM time_entries WHERE id = ?`, id,
	).Scan(&e.ID, &e.ProjectID, &e.MemberID, &taskID, &entryDate, &e.Hours, &billable, &billed, &paid, &e.Notes, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("get entry %d: %w", id, err)
	}
	if taskID.Valid {
		e.TaskID = &taskID.Int64
	}
	e.EntryDate, _ = time.Parse(dayFormat, entryDate)
	e.Billable = billable == 1
	e.ClientBilled = billed == 1
	e.ContractorPaid = paid == 1
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return e, nil
}

func (s *Store) UpdateEntry(id int64, date time.Time, hours float64, billable bool, notes string) error {
	_, err := s.db.Exec(
		`UPDATE time_entries SET entry_date = ?, hours = ?, billable = ?, notes = ? WHERE id = ?`,
		date.Format(dayFormat), hours, boolToInt(billable), notes, id,
	)
	return err
}

func (s *Store) DeleteEntry(id int64) error {
	_, err := s.db.Exec(`DELETE FROM time_entries WHERE id = ?`, id)
	return err
}

// SetClientBilled flags an entry as invoiced (or not) to the client.
func (s *Store) SetClientBilled(id int64, billed bool) error {
	_, err := s.db.Exec(`UPDATE time_entries SET client_billed = ? WHERE id = ?`, boolToInt(billed), id)
	return err
}

// SetContractorPaid flags an entry as compensated (or not) to the member.
func (s *Store) SetContractorPaid(id int64, paid bool) error {
	_, err := s.db.Exec(`UPDATE time_entries SET contractor_paid = ? WHERE id = ?`, boolToInt(paid), id)
	return err
}

// MarkEntriesBilled flags a batch of entries as client-billed in one transaction.
// Used when a draft invoice consolidates them.
func (s *Store) MarkEntriesBilled(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin mark billed: %w", err)
	}
	for _, id := range ids {
		if _, err := tx.Exec(`UPDATE time_entries SET client_billed = 1 WHERE id = ?`, id); err != nil {
			tx.Rollback()
			return fmt.Errorf("mark entry %d billed: %w", id, err)
		}
	}
	return tx.Commit()
}

func (s *Store) ListEntries(f EntryFilter) ([]TimeEntry, error) {
	query := `SELECT id, project_id, member_id, task_id, entry_date, hours, billable, client_billed, contractor_paid, notes, created_at
	 FROM time_entries WHERE 1=1`
	var args []any

	if f.ProjectID != nil {
		query += ` AND project_id = ?`
		args = append(args, *f.ProjectID)
	}
	if f.MemberID != nil {
		query += ` AND member_id = ?`
		args = append(args, *f.MemberID)
	}
	if f.From != nil {
		query += ` AND entry_date >= ?`
		args = append(args, f.From.Format(dayFormat))
	}
	if f.To != nil {
		query += ` AND entry_date < ?`
		args = append(args, f.To.Format(dayFormat))
	}
	if f.Billable != nil {
		query += ` AND billable = ?`
		args = append(args, boolToInt(*f.Billable))
	}
	if f.ClientBilled != nil {
		query += ` AND client_billed = ?`
		args = append(args, boolToInt(*f.ClientBilled))
	}
	if f.ContractorPaid != nil {
		query += ` AND contractor_paid = ?`
		args = append(args, boolToInt(*f.ContractorPaid))
	}
	query += ` ORDER BY entry_date DESC, id DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []TimeEntry
	for rows.Next() {
		var e TimeEntry
		var entryDate, createdAt string
		var taskID sql.NullInt64
		var billable, billed, paid int
		if err := rows.Scan(&e.ID, &e.ProjectID, &e.MemberID, &taskID, &entryDate, &e.Hours, &billable, &billed, &paid, &e.Notes, &createdAt); err != nil {
			return nil, err
		}
		if taskID.Valid {
			e.TaskID = &taskID.Int64
		}
		e.EntryDate, _ = time.Parse(dayFormat, entryDate)
		e.Billable = billable == 1
		e.ClientBilled = billed == 1
		e.ContractorPaid = paid == 1
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListAccountEntries returns entries logged against an account's projects in
// [from, to), used by invoice consolidation.
func (s *Store) ListAccountEntries(accountID int64, from, to time.Time) ([]TimeEntry, error) {
	projects, err := s.ListAccountProjects(accountID)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(projects))
	args := make([]any, 0, len(projects)+2)
	for i, p := range projects {
		placeholders[i] = "?"
		args = append(args, p.ID)
	}
	args = append(args, from.Format(dayFormat), to.Format(dayFormat))

	query := fmt.Sprintf(
		`SELECT id, project_id, member_id, task_id, entry_date, hours, billable, client_billed, contractor_paid, notes, created_at
		 FROM time_entries
		 WHERE project_id IN (%s) AND entry_date >= ? AND entry_date < ?
		 ORDER BY entry_date, id`,
		strings.Join(placeholders, ","),
	)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list account entries: %w", err)
	}
	defer rows.Close()

	var entries []TimeEntry
	for rows.Next() {
		var e TimeEntry
		var entryDate, createdAt string
		var taskID sql.NullInt64
		var billable, billed, paid int
		if err := rows.Scan(&e.ID, &e.ProjectID, &e.MemberID, &taskID, &entryDate, &e.Hours, &billable, &billed, &paid, &e.Notes, &createdAt); err != nil {
			return nil, err
		}
		if taskID.Valid {
			e.TaskID = &taskID.Int64
		}
		e.EntryDate, _ = time.Parse(dayFormat, entryDate)
		e.Billable = billable == 1
		e.ClientBilled = billed == 1
		e.ContractorPaid = paid == 1
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetDailyHours returns per-project hour totals for each day in [from, to).
func (s *Store) GetDailyHours(from, to time.Time) ([]DailyHours, error) {
	rows, err := s.db.Query(`
		SELECT e.entry_date, e.project_id, p.name, p.billing_type,
		       COALESCE(SUM(e.hours), 0), COUNT(*)
		FROM time_entries e
		JOIN projects p ON p.id = e.project_id
		WHERE e.entry_date >= ? AND e.entry_date < ?
		GROUP BY e.entry_date, e.project_id
		ORDER BY e.entry_date, p.name`,
		from.Format(dayFormat), to.Format(dayFormat),
	)
	if err != nil {
		return nil, fmt.Errorf("daily hours: %w", err)
	}
	defer rows.Close()

	var out []DailyHours
	for rows.Next() {
		var dh DailyHours
		var billing string
		if err := rows.Scan(&dh.Date, &dh.ProjectID, &dh.ProjectName, &billing, &dh.TotalHours, &dh.EntryCount); err != nil {
			return nil, err
		}
		dh.BillingType = BillingType(billing)
		out = append(out, dh)
	}
	return out, rows.Err()
}

// GetTodayHours returns the total hours logged for today's date.
func (s *Store) GetTodayHours() (float64, error) {
	today := time.Now().UTC().Format(dayFormat)
	var total sql.NullFloat64
	err := s.db.QueryRow(
		`SELECT COALESCE(SUM(hours), 0) FROM time_entries WHERE entry_date = ?`, today,
	).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total.Float64, nil
}
