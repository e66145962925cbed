package store

import (
	"fmt"
	"time"
)

func (s *Store) CreateMember(name, role string, hourlyRate float64) (*TeamMember, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO team_members (name, role, hourly_rate, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		name, role, hourlyRate, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert member: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetMember(id)
}

func (s *Store) GetMember(id int64) (*TeamMember, error) {
	m := &TeamMember{}
	var status, createdAt, updatedAt string
	err := s.db.QueryRow(
		`SELECT id, name, role, hourly_rate, status, created_at, updated_at FROM team_members WHERE id = ?`, id,
	).Scan(&m.ID, &m.Name, &m.Role, &m.HourlyRate, &status, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("get member %d: %w", id, err)
	}
	m.Status = MemberStatus(status)
	m.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	m.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return m, nil
}

func (s *Store) ListMembers(includeInactive bool) ([]TeamMember, error) {
	query := `SELECT id, name, role, hourly_rate, status, created_at, updated_at FROM team_members`
	if !includeInactive {
		query += ` WHERE status = 'active'`
	}
	query += ` ORDER BY name`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []TeamMember
	for rows.Next() {
		var m TeamMember
		var status, createdAt, updatedAt string
		if err := rows.Scan(&m.ID, &m.Name, &m.Role, &m.HourlyRate, &status, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		m.Status = MemberStatus(status)
		m.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		m.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *Store) UpdateMember(id int64, name, role string, hourlyRate float64) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE team_members SET name = ?, role = ?, hourly_rate = ?, updated_at = ? WHERE id = ?`,
		name, role, hourlyRate, now, id,
	)
	return err
}

func (s *Store) SetMemberStatus(id int64, status MemberStatus) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE team_members SET status = ?, updated_at = ? WHERE id = ?`, string(status), now, id,
	)
	return err
}
