package store

import (
	"fmt"
	"time"
)

// CreateInvoice persists a draft invoice and its lines in one transaction.
func (s *Store) CreateInvoice(inv *Invoice) (*Invoice, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin invoice: %w", err)
	}

	res, err := tx.Exec(
		`INSERT INTO invoices (number, account_id, period_start, period_end, subtotal, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.Number, inv.AccountID, inv.PeriodStart.Format(dayFormat), inv.PeriodEnd.Format(dayFormat),
		inv.Subtotal, string(InvoiceDraft), now, now,
	)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("insert invoice: %w", err)
	}
	id, _ := res.LastInsertId()

	for _, l := range inv.Lines {
		if _, err := tx.Exec(
			`INSERT INTO invoice_lines (invoice_id, project_id, description, hours, rate, amount)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, l.ProjectID, l.Description, l.Hours, l.Rate, l.Amount,
		); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("insert invoice line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit invoice: %w", err)
	}
	return s.GetInvoice(id)
}

func (s *Store) GetInvoice(id int64) (*Invoice, error) {
	inv := &Invoice{}
	var periodStart, periodEnd, status, createdAt, updatedAt string
	err := s.db.QueryRow(
		`SELECT id, number, account_id, period_start, period_end, subtotal, status, external_id, created_at, updated_at
		 FROM invoices WHERE id = ?`, id,
	).Scan(&inv.ID, &inv.Number, &inv.AccountID, &periodStart, &periodEnd, &inv.Subtotal, &status, &inv.ExternalID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("get invoice %d: %w", id, err)
	}
	inv.PeriodStart, _ = time.Parse(dayFormat, periodStart)
	inv.PeriodEnd, _ = time.Parse(dayFormat, periodEnd)
	inv.Status = InvoiceStatus(status)
	inv.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	inv.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	rows, err := s.db.Query(
		`SELECT id, invoice_id, project_id, description, hours, rate, amount
		 FROM invoice_lines WHERE invoice_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("get invoice lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l InvoiceLine
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.ProjectID, &l.Description, &l.Hours, &l.Rate, &l.Amount); err != nil {
			return nil, err
		}
		inv.Lines = append(inv.Lines, l)
	}
	return inv, rows.Err()
}

// ListInvoices returns invoices, optionally restricted to one status.
func (s *Store) ListInvoices(status *InvoiceStatus) ([]Invoice, error) {
	query := `SELECT id, number, account_id, period_start, period_end, subtotal, status, external_id, created_at, updated_at
	 FROM invoices`
	var args []any
	if status != nil {
		query += ` WHERE status = ?`
		args = append(args, string(*status))
	}
	query += ` ORDER BY id DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []Invoice
	for rows.Next() {
		var inv Invoice
		var periodStart, periodEnd, st, createdAt, updatedAt string
		if err := rows.Scan(&inv.ID, &inv.Number, &inv.AccountID, &periodStart, &periodEnd, &inv.Subtotal, &st, &inv.ExternalID, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		inv.PeriodStart, _ = time.Parse(dayFormat, periodStart)
		inv.PeriodEnd, _ = time.Parse(dayFormat, periodEnd)
		inv.Status = InvoiceStatus(st)
		inv.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		inv.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// MarkInvoiceSynced records the payments-provider invoice id after a push.
func (s *Store) MarkInvoiceSynced(id int64, externalID string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE invoices SET status = ?, external_id = ?, updated_at = ? WHERE id = ?`,
		string(InvoiceSynced), externalID, now, id,
	)
	return err
}

func (s *Store) MarkInvoicePaid(id int64) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE invoices SET status = ?, updated_at = ? WHERE id = ?`, string(InvoicePaid), now, id,
	)
	return err
}

// NextInvoiceNumber generates a sequential number like HD-2026-0004.
func (s *Store) NextInvoiceNumber(prefix string, year int) (string, error) {
	pattern := fmt.Sprintf("%s-%d-%%", prefix, year)
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM invoices WHERE number LIKE ?`, pattern).Scan(&count)
	if err != nil {
		return "", fmt.Errorf("count invoices: %w", err)
	}
	return fmt.Sprintf("%s-%d-%04d", prefix, year, count+1), nil
}
