package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harmondigital/agencyhub/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewClients
	viewTasks
	viewTimesheet
	viewTeam
	viewReports
	viewSettings
)

var viewNames = []string{"Dashboard", "Clients", "Tasks", "Timesheet", "Team", "Reports", "Settings"}

// --- Messages ---

type timerStartedMsg struct {
	projectName string
}

type timerStoppedMsg struct {
	entry *store.TimeEntry
}

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

func okStatus(text string) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text}
	}
}

func errStatus(err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: err.Error(), isError: true}
	}
}

// --- Helpers ---

// today returns the current date truncated to day precision.
func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// windowStart returns the first day of a reporting window ending today.
func windowStart(days int) time.Time {
	return today().AddDate(0, 0, -(days - 1))
}

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func formatHours(h float64) string {
	return fmt.Sprintf("%.2fh", h)
}

// billingTypeLabel maps every billing type to a display label. Unknown values
// surface as "?" rather than an empty cell.
func billingTypeLabel(bt store.BillingType) string {
	switch bt {
	case store.BillingHourly:
		return "hourly"
	case store.BillingFixed:
		return "fixed"
	case store.BillingRetainer:
		return "retainer"
	case store.BillingInternal:
		return "internal"
	}
	return "?"
}

// taskStatusLabel maps every board column to a display label.
func taskStatusLabel(ts store.TaskStatus) string {
	switch ts {
	case store.TaskTodo:
		return "To Do"
	case store.TaskInProgress:
		return "In Progress"
	case store.TaskReview:
		return "Review"
	case store.TaskDone:
		return "Done"
	}
	return "?"
}

// taskStatusStyle maps every board column to a style.
func taskStatusStyle(ts store.TaskStatus) lipgloss.Style {
	switch ts {
	case store.TaskTodo:
		return mutedStyle
	case store.TaskInProgress:
		return highlightStyle
	case store.TaskReview:
		return warningStyle
	case store.TaskDone:
		return successStyle
	}
	return errorStyle
}

// accountStatusStyle maps every account status to a style.
func accountStatusStyle(as store.AccountStatus) lipgloss.Style {
	switch as {
	case store.AccountActive:
		return successStyle
	case store.AccountProspect:
		return warningStyle
	case store.AccountFormer:
		return mutedStyle
	}
	return errorStyle
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
