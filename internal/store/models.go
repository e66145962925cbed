package store

import (
	"fmt"
	"time"
)

// BillingType determines how a project's work is turned into revenue.
type BillingType string

const (
	BillingHourly   BillingType = "hourly"
	BillingFixed    BillingType = "fixed"
	BillingRetainer BillingType = "retainer"
	BillingInternal BillingType = "internal"
)

// ParseBillingType rejects unknown billing types at construction time instead
// of letting them flow through as silently-unpriced projects.
func ParseBillingType(s string) (BillingType, error) {
	switch BillingType(s) {
	case BillingHourly, BillingFixed, BillingRetainer, BillingInternal:
		return BillingType(s), nil
	}
	return "", fmt.Errorf("unknown billing type %q", s)
}

// MemberStatus is the employment state of a team member.
type MemberStatus string

const (
	MemberActive   MemberStatus = "active"
	MemberInactive MemberStatus = "inactive"
)

// AccountStatus is the relationship state of a client account.
type AccountStatus string

const (
	AccountActive   AccountStatus = "active"
	AccountProspect AccountStatus = "prospect"
	AccountFormer   AccountStatus = "former"
)

// TaskStatus is a column on the task board.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskReview     TaskStatus = "review"
	TaskDone       TaskStatus = "done"
)

// taskStatusOrder drives board column ordering and status advance/retreat.
var taskStatusOrder = []TaskStatus{TaskTodo, TaskInProgress, TaskReview, TaskDone}

// Next returns the following board column, or the same status at the end.
func (ts TaskStatus) Next() TaskStatus {
	for i, s := range taskStatusOrder {
		if s == ts && i < len(taskStatusOrder)-1 {
			return taskStatusOrder[i+1]
		}
	}
	return ts
}

// Prev returns the preceding board column, or the same status at the start.
func (ts TaskStatus) Prev() TaskStatus {
	for i, s := range taskStatusOrder {
		if s == ts && i > 0 {
			return taskStatusOrder[i-1]
		}
	}
	return ts
}

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft  InvoiceStatus = "draft"
	InvoiceSynced InvoiceStatus = "synced"
	InvoicePaid   InvoiceStatus = "paid"
)

type Account struct {
	ID           int64
	Name         string
	ContactName  string
	ContactEmail string
	Status       AccountStatus
	ExternalID   string // customer id at the payments provider
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Project struct {
	ID              int64
	AccountID       *int64 // nil for internal work
	Name            string
	BillingType     BillingType
	HourlyRate      float64 // billing rate charged to the client
	RetainerMonthly float64
	Internal        bool
	Archived        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BillableToClient reports whether the project's hours can ever be invoiced:
// not flagged internal and not on internal billing.
func (p Project) BillableToClient() bool {
	return !p.Internal && p.BillingType != BillingInternal
}

type TeamMember struct {
	ID         int64
	Name       string
	Role       string
	HourlyRate float64 // pay rate, distinct from project billing rates
	Status     MemberStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type TimeEntry struct {
	ID             int64
	ProjectID      int64
	MemberID       int64
	TaskID         *int64
	EntryDate      time.Time // day precision
	Hours          float64
	Billable       bool
	ClientBilled   bool
	ContractorPaid bool
	Notes          string
	CreatedAt      time.Time
}

type Task struct {
	ID        int64
	ProjectID int64
	MemberID  *int64
	Title     string
	Status    TaskStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Invoice struct {
	ID          int64
	Number      string
	AccountID   int64
	PeriodStart time.Time
	PeriodEnd   time.Time
	Subtotal    float64
	Status      InvoiceStatus
	ExternalID  string // invoice id at the payments provider
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Lines       []InvoiceLine
}

type InvoiceLine struct {
	ID          int64
	InvoiceID   int64
	ProjectID   int64
	Description string
	Hours       float64
	Rate        float64
	Amount      float64
}

type Setting struct {
	Key   string
	Value string
}

// EntryFilter is used to filter time entries in queries.
type EntryFilter struct {
	ProjectID      *int64
	MemberID       *int64
	From           *time.Time
	To             *time.Time
	Billable       *bool
	ClientBilled   *bool
	ContractorPaid *bool
	Limit          int
}

// DailyHours represents aggregated hours per project per day.
type DailyHours struct {
	Date        string
	ProjectID   int64
	ProjectName string
	BillingType BillingType
	TotalHours  float64
	EntryCount  int
}
