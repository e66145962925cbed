package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harmondigital/agencyhub/internal/cli"
	"github.com/harmondigital/agencyhub/internal/config"
	"github.com/harmondigital/agencyhub/internal/finance"
	"github.com/harmondigital/agencyhub/internal/store"
)

// dashboardModel shows the session timer, today's totals and a short window
// summary, plus the most recent entries.
type dashboardModel struct {
	store    *store.Store
	operator config.OperatorConfig
	currency string
	days     int

	timer timerModel

	projects []store.Project
	entries  []store.TimeEntry
	summary  finance.Summary
	today    float64
	drafts   int

	picking   bool
	pickerIdx int

	width  int
	height int
	err    error
}

func newDashboardModel(s *store.Store, operator config.OperatorConfig, currency string, days int) dashboardModel {
	m := dashboardModel{
		store:    s,
		operator: operator,
		currency: currency,
		days:     days,
		timer:    newTimerModel(),
	}
	m.refresh()
	return m
}

// refresh re-reads everything the dashboard shows. Called after every
// mutation so the view never renders stale state.
func (m *dashboardModel) refresh() {
	m.err = nil
	projects, err := m.store.ListProjects(false)
	if err != nil {
		m.err = err
		return
	}
	m.projects = projects

	limit := 8
	entries, err := m.store.ListEntries(store.EntryFilter{Limit: limit})
	if err != nil {
		m.err = err
		return
	}
	m.entries = entries

	today, err := m.store.GetTodayHours()
	if err != nil {
		m.err = err
		return
	}
	m.today = today

	m.summary = finance.Summary{}
	from := windowStart(m.days)
	window, err := m.store.ListEntries(store.EntryFilter{From: &from})
	if err != nil {
		m.err = err
		return
	}
	members, err := m.store.ListMembers(true)
	if err != nil {
		m.err = err
		return
	}
	all, err := m.store.ListProjects(true)
	if err != nil {
		m.err = err
		return
	}
	m.summary = finance.Compute(window, all, members, m.days)

	draft := store.InvoiceDraft
	invoices, err := m.store.ListInvoices(&draft)
	if err != nil {
		m.err = err
		return
	}
	m.drafts = len(invoices)
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.timer.tick()
		return m, nil

	case tea.KeyMsg:
		if m.picking {
			return m.updatePicker(msg)
		}
		switch {
		case key.Matches(msg, keys.Start):
			if m.timer.running() {
				return m, nil
			}
			if len(m.projects) == 0 {
				return m, func() tea.Msg {
					return statusMsg{text: "no projects yet, create one first", isError: true}
				}
			}
			m.picking = true
			m.pickerIdx = 0
			return m, nil

		case key.Matches(msg, keys.Stop):
			return m.stopTimer()

		case key.Matches(msg, keys.Pause):
			m.timer.toggle()
			return m, nil
		}
	}
	return m, nil
}

func (m dashboardModel) updatePicker(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.pickerIdx > 0 {
			m.pickerIdx--
		}
	case key.Matches(msg, keys.Down):
		if m.pickerIdx < len(m.projects)-1 {
			m.pickerIdx++
		}
	case key.Matches(msg, keys.Enter):
		p := m.projects[m.pickerIdx]
		m.timer.start(p.ID, p.Name)
		m.picking = false
		return m, func() tea.Msg {
			return timerStartedMsg{projectName: p.Name}
		}
	case key.Matches(msg, keys.Back):
		m.picking = false
	}
	return m, nil
}

// stopTimer converts the elapsed session into a logged time entry attributed
// to the operator's team member record.
func (m dashboardModel) stopTimer() (dashboardModel, tea.Cmd) {
	if !m.timer.running() {
		return m, nil
	}
	projectID := m.timer.projectID
	hours := m.timer.stop()
	if hours <= 0 {
		return m, func() tea.Msg {
			return statusMsg{text: "session too short, nothing logged", isError: true}
		}
	}
	memberID, err := m.operatorMemberID()
	if err != nil {
		return m, func() tea.Msg {
			return statusMsg{text: err.Error(), isError: true}
		}
	}
	billable := true
	if p, perr := m.store.GetProject(projectID); perr == nil {
		billable = p.BillableToClient()
	}
	entry, err := m.store.LogEntry(projectID, memberID, nil, today(), hours, billable, "")
	if err != nil {
		return m, func() tea.Msg {
			return statusMsg{text: "log entry: " + err.Error(), isError: true}
		}
	}
	m.refresh()
	return m, func() tea.Msg {
		return timerStoppedMsg{entry: entry}
	}
}

// operatorMemberID resolves the configured operator to a team member row by
// exact name match.
func (m dashboardModel) operatorMemberID() (int64, error) {
	members, err := m.store.ListMembers(true)
	if err != nil {
		return 0, err
	}
	for _, mem := range members {
		if mem.Name == m.operator.Name {
			return mem.ID, nil
		}
	}
	return 0, fmt.Errorf("no team member named %q, add one in the Team view", m.operator.Name)
}

func (m dashboardModel) View() string {
	if m.err != nil {
		return errorStyle.Render("dashboard: " + m.err.Error())
	}

	var sections []string
	sections = append(sections, m.timerPanel())
	if m.picking {
		sections = append(sections, m.pickerPanel())
	}
	sections = append(sections, m.statsPanel())
	sections = append(sections, m.recentPanel())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m dashboardModel) timerPanel() string {
	var b strings.Builder
	if m.timer.running() {
		style := timerRunningStyle
		label := "TRACKING"
		if m.timer.paused() {
			style = timerPausedStyle
			label = "PAUSED"
		}
		b.WriteString(style.Render(fmt.Sprintf("%s  %s", label, formatDuration(m.timer.currentElapsed()))))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(m.timer.projectName))
	} else {
		b.WriteString(mutedStyle.Render("timer idle, press s to start"))
	}
	return panelStyle.Width(panelWidth(m.width)).Render(b.String())
}

func (m dashboardModel) pickerPanel() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Track which project?"))
	b.WriteString("\n\n")
	for i, p := range m.projects {
		line := fmt.Sprintf("%s (%s)", p.Name, billingTypeLabel(p.BillingType))
		if i == m.pickerIdx {
			b.WriteString(selectedItemStyle.Render("> " + line))
		} else {
			b.WriteString(normalItemStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return activePanelStyle.Width(panelWidth(m.width)).Render(b.String())
}

func (m dashboardModel) statsPanel() string {
	cards := []string{
		metricCard("Today", formatHours(m.today)),
		metricCard(fmt.Sprintf("Hours (%dd)", m.days), formatHours(m.summary.TotalHours)),
	}
	if m.operator.CanSeeFinancials() {
		cards = append(cards,
			metricCard("Unbilled", cli.FormatMoney(m.summary.UnbilledRevenue, m.currency)),
			metricCard("Revenue", cli.FormatMoney(m.summary.TotalRevenue, m.currency)),
			metricCard("Draft invoices", fmt.Sprintf("%d", m.drafts)),
		)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (m dashboardModel) recentPanel() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Recent entries"))
	b.WriteString("\n\n")
	if len(m.entries) == 0 {
		b.WriteString(mutedStyle.Render("nothing logged yet"))
	}
	names := m.projectNames()
	for _, e := range m.entries {
		name := names[e.ProjectID]
		if name == "" {
			name = "?"
		}
		flags := ""
		if e.ClientBilled {
			flags += successStyle.Render(" billed")
		}
		b.WriteString(fmt.Sprintf("%s  %-20s %8s%s\n",
			mutedStyle.Render(e.EntryDate.Format("Jan 02")),
			name,
			formatHours(e.Hours),
			flags))
	}
	return panelStyle.Width(panelWidth(m.width)).Render(strings.TrimRight(b.String(), "\n"))
}

func (m dashboardModel) projectNames() map[int64]string {
	names := make(map[int64]string, len(m.projects))
	for _, p := range m.projects {
		names[p.ID] = p.Name
	}
	return names
}

func metricCard(label, value string) string {
	content := mutedStyle.Render(label) + "\n" + titleStyle.Render(value)
	return panelStyle.Render(content)
}

func panelWidth(w int) int {
	if w <= 0 {
		return 60
	}
	return min(w-4, 100)
}
