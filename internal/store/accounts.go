package store

import (
	"fmt"
	"time"
)

func (s *Store) CreateAccount(name, contactName, contactEmail string, status AccountStatus) (*Account, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO accounts (name, contact_name, contact_email, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		name, contactName, contactEmail, string(status), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert account: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetAccount(id)
}

func (s *Store) GetAccount(id int64) (*Account, error) {
	a := &Account{}
	var status, createdAt, updatedAt string
	err := s.db.QueryRow(
		`SELECT id, name, contact_name, contact_email, status, external_id, notes, created_at, updated_at
		 FROM accounts WHERE id = ?`, id,
	).Scan(&a.ID, &a.Name, &a.ContactName, &a.ContactEmail, &status, &a.ExternalID, &a.Notes, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("get account %d: %w", id, err)
	}
	a.Status = AccountStatus(status)
	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	a.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return a, nil
}

func (s *Store) ListAccounts() ([]Account, error) {
	rows, err := s.db.Query(
		`SELECT id, name, contact_name, contact_email, status, external_id, notes, created_at, updated_at
		 FROM accounts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		var a Account
		var status, createdAt, updatedAt string
		if err := rows.Scan(&a.ID, &a.Name, &a.ContactName, &a.ContactEmail, &status, &a.ExternalID, &a.Notes, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		a.Status = AccountStatus(status)
		a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		a.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (s *Store) UpdateAccount(id int64, name, contactName, contactEmail string, status AccountStatus) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE accounts SET name = ?, contact_name = ?, contact_email = ?, status = ?, updated_at = ? WHERE id = ?`,
		name, contactName, contactEmail, string(status), now, id,
	)
	return err
}

// LinkAccountCustomer records the payments-provider customer id for an account.
func (s *Store) LinkAccountCustomer(id int64, externalID string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE accounts SET external_id = ?, updated_at = ? WHERE id = ?`, externalID, now, id,
	)
	return err
}
