package store

import (
	"database/sql"
	"fmt"
	"time"
)

func (s *Store) CreateTask(projectID int64, memberID *int64, title string) (*Task, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO tasks (project_id, member_id, title, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		projectID, memberID, title, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetTask(id)
}

func (s *Store) GetTask(id int64) (*Task, error) {
	t := &Task{}
	var memberID sql.NullInt64
	var status, createdAt, updatedAt string
	err := s.db.QueryRow(
		`SELECT id, project_id, member_id, title, status, created_at, updated_at FROM tasks WHERE id = ?`, id,
	).Scan(&t.ID, &t.ProjectID, &memberID, &t.Title, &status, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	if memberID.Valid {
		t.MemberID = &memberID.Int64
	}
	t.Status = TaskStatus(status)
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	t.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return t, nil
}

func (s *Store) ListTasks(projectID int64) ([]Task, error) {
	rows, err := s.db.Query(
		`SELECT id, project_id, member_id, title, status, created_at, updated_at
		 FROM tasks WHERE project_id = ? ORDER BY status, id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var t Task
		var memberID sql.NullInt64
		var status, createdAt, updatedAt string
		if err := rows.Scan(&t.ID, &t.ProjectID, &memberID, &t.Title, &status, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		if memberID.Valid {
			t.MemberID = &memberID.Int64
		}
		t.Status = TaskStatus(status)
		t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		t.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) SetTaskStatus(id int64, status TaskStatus) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?`, string(status), now, id,
	)
	return err
}

func (s *Store) UpdateTask(id int64, memberID *int64, title string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE tasks SET member_id = ?, title = ?, updated_at = ? WHERE id = ?`,
		memberID, title, now, id,
	)
	return err
}

func (s *Store) DeleteTask(id int64) error {
	_, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	return err
}
