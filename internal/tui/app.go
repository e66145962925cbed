package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harmondigital/agencyhub/internal/config"
	"github.com/harmondigital/agencyhub/internal/export"
	"github.com/harmondigital/agencyhub/internal/store"
)

// App is the root Bubble Tea model.
type App struct {
	store  *store.Store
	cfg    config.Config
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	dashboard dashboardModel
	clients   clientsModel
	tasks     tasksModel
	timesheet timesheetModel
	team      teamModel
	reports   reportsModel
	settings  settingsModel

	help   help.Model
	status string
}

func NewApp(s *store.Store, cfg config.Config) App {
	h := help.New()
	h.ShowAll = false

	currency := cfg.General.Currency
	days := cfg.General.DefaultRangeDays

	return App{
		store:      s,
		cfg:        cfg,
		activeView: viewDashboard,
		dashboard:  newDashboardModel(s, cfg.Operator, currency, days),
		clients:    newClientsModel(s, currency),
		tasks:      newTasksModel(s),
		timesheet:  newTimesheetModel(s, currency),
		team:       newTeamModel(s, currency),
		reports:    newReportsModel(s, cfg.Operator, currency),
		settings:   newSettingsModel(s),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4
		a.dashboard.width, a.dashboard.height = a.width, contentHeight
		a.clients.width, a.clients.height = a.width, contentHeight
		a.tasks.width, a.tasks.height = a.width, contentHeight
		a.timesheet.width, a.timesheet.height = a.width, contentHeight
		a.team.width, a.team.height = a.width, contentHeight
		a.reports.setSize(a.width, contentHeight)
		a.settings.width, a.settings.height = a.width, contentHeight
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// Forms capture all input, including digits and q.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchView(viewDashboard)
		case key.Matches(msg, keys.Tab2):
			return a.switchView(viewClients)
		case key.Matches(msg, keys.Tab3):
			return a.switchView(viewTasks)
		case key.Matches(msg, keys.Tab4):
			return a.switchView(viewTimesheet)
		case key.Matches(msg, keys.Tab5):
			return a.switchView(viewTeam)
		case key.Matches(msg, keys.Tab6):
			return a.switchView(viewReports)
		case key.Matches(msg, keys.Tab7):
			return a.switchView(viewSettings)
		case key.Matches(msg, keys.Tab):
			if a.activeView == viewReports {
				// reports uses tab to switch its range
				return a.updateActiveView(msg)
			}
			next := (a.activeView + 1) % viewState(len(viewNames))
			return a.switchView(next)
		}

	case tickMsg:
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.Update(msg)
		return a, tea.Batch(tickCmd(), cmd)

	case statusMsg:
		a.status = msg.text
		return a, nil

	case timerStartedMsg:
		a.status = "tracking " + msg.projectName
		return a, nil

	case timerStoppedMsg:
		a.status = fmt.Sprintf("logged %s", formatHours(msg.entry.Hours))
		return a, nil

	case exportDoneMsg:
		a.status = "exported to " + msg.path
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

// switchView activates a view and re-reads its data so a mutation made in one
// view is visible in the next.
func (a App) switchView(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	switch v {
	case viewDashboard:
		a.dashboard.refresh()
	case viewClients:
		a.clients.refresh()
	case viewTasks:
		a.tasks.refresh()
	case viewTimesheet:
		a.timesheet.refresh()
	case viewTeam:
		a.team.refresh()
	case viewReports:
		a.reports.refresh()
	case viewSettings:
		a.settings.refresh()
	}
	return a, nil
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	case viewClients:
		a.clients, cmd = a.clients.Update(msg)
	case viewTasks:
		a.tasks, cmd = a.tasks.Update(msg)
	case viewTimesheet:
		a.timesheet, cmd = a.timesheet.Update(msg)
	case viewTeam:
		a.team, cmd = a.team.Update(msg)
	case viewReports:
		a.reports, cmd = a.reports.Update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.Update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewClients:
		return a.clients.mode == clientsAccountForm || a.clients.mode == clientsProjectForm
	case viewTasks:
		return a.tasks.mode == tasksForm
	case viewTimesheet:
		return a.timesheet.mode == timesheetForm
	case viewTeam:
		return a.team.mode == teamForm
	case viewSettings:
		return a.settings.editing
	}
	return false
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.View()
	case viewClients:
		content = a.clients.View()
	case viewTasks:
		content = a.tasks.View()
	case viewTimesheet:
		content = a.timesheet.View()
	case viewTeam:
		content = a.team.View()
	case viewReports:
		content = a.reports.View()
	case viewSettings:
		content = a.settings.View()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("agencyhub")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	timerInfo := ""
	if a.dashboard.timer.running() {
		elapsed := a.dashboard.timer.currentElapsed()
		timerInfo = successStyle.Render(" ● " + formatDuration(elapsed))
		if a.dashboard.timer.paused() {
			timerInfo = warningStyle.Render(" ⏸ " + formatDuration(elapsed))
		}
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	formats := []string{"CSV", "JSON"}
	var rows []string
	rows = append(rows, title, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	days := a.cfg.General.DefaultRangeDays
	return func() tea.Msg {
		entries, err := a.store.ListEntries(store.EntryFilter{})
		if err != nil {
			return statusMsg{text: fmt.Sprintf("export: %v", err), isError: true}
		}

		projects := make(map[int64]*store.Project)
		plist, _ := a.store.ListProjects(true)
		for i := range plist {
			projects[plist[i].ID] = &plist[i]
		}
		members := make(map[int64]*store.TeamMember)
		mlist, _ := a.store.ListMembers(true)
		for i := range mlist {
			members[mlist[i].ID] = &mlist[i]
		}

		home, _ := os.UserHomeDir()
		dateStr := time.Now().Format("2006-01-02")

		var path string
		if format == 0 {
			path = filepath.Join(home, fmt.Sprintf("agencyhub-export-%s.csv", dateStr))
			if err := export.ToCSV(entries, projects, members, path); err != nil {
				return statusMsg{text: fmt.Sprintf("csv export: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(home, fmt.Sprintf("agencyhub-export-%s.json", dateStr))
			if err := export.ToJSON(entries, projects, members, days, path); err != nil {
				return statusMsg{text: fmt.Sprintf("json export: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
