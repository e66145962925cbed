package store

import (
	"database/sql"
	"fmt"
	"time"
)

func (s *Store) CreateProject(accountID *int64, name string, billing BillingType, hourlyRate, retainerMonthly float64, internal bool) (*Project, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO projects (account_id, name, billing_type, hourly_rate, retainer_monthly, is_internal, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		accountID, name, string(billing), hourlyRate, retainerMonthly, boolToInt(internal), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetProject(id)
}

func (s *Store) GetProject(id int64) (*Project, error) {
	p := &Project{}
	var accountID sql.NullInt64
	var billing, createdAt, updatedAt string
	var internal, archived int
	err := s.db.QueryRow(
		`SELECT id, account_id, name, billing_type, hourly_rate, retainer_monthly, is_internal, archived, created_at, updated_at
		 FROM projects WHERE id = ?`, id,
	).Scan(&p.ID, &accountID, &p.Name, &billing, &p.HourlyRate, &p.RetainerMonthly, &internal, &archived, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("get project %d: %w", id, err)
	}
	if accountID.Valid {
		p.AccountID = &accountID.Int64
	}
	p.BillingType = BillingType(billing)
	p.Internal = internal == 1
	p.Archived = archived == 1
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return p, nil
}

func (s *Store) ListProjects(includeArchived bool) ([]Project, error) {
	query := `SELECT id, account_id, name, billing_type, hourly_rate, retainer_monthly, is_internal, archived, created_at, updated_at FROM projects`
	if !includeArchived {
		query += ` WHERE archived = 0`
	}
	query += ` ORDER BY name`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		var accountID sql.NullInt64
		var billing, createdAt, updatedAt string
		var internal, archived int
		if err := rows.Scan(&p.ID, &accountID, &p.Name, &billing, &p.HourlyRate, &p.RetainerMonthly, &internal, &archived, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		if accountID.Valid {
			p.AccountID = &accountID.Int64
		}
		p.BillingType = BillingType(billing)
		p.Internal = internal == 1
		p.Archived = archived == 1
		p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// ListAccountProjects returns non-archived projects belonging to an account.
func (s *Store) ListAccountProjects(accountID int64) ([]Project, error) {
	all, err := s.ListProjects(false)
	if err != nil {
		return nil, err
	}
	var out []Project
	for _, p := range all {
		if p.AccountID != nil && *p.AccountID == accountID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Store) UpdateProject(id int64, name string, billing BillingType, hourlyRate, retainerMonthly float64, internal bool) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE projects SET name = ?, billing_type = ?, hourly_rate = ?, retainer_monthly = ?, is_internal = ?, updated_at = ? WHERE id = ?`,
		name, string(billing), hourlyRate, retainerMonthly, boolToInt(internal), now, id,
	)
	return err
}

func (s *Store) ArchiveProject(id int64) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE projects SET archived = 1, updated_at = ? WHERE id = ?`, now, id,
	)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
