package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/harmondigital/agencyhub/internal/cli"
	"github.com/harmondigital/agencyhub/internal/store"
)

type timesheetMode int

const (
	timesheetList timesheetMode = iota
	timesheetForm
)

const timesheetPageSize = 200

// timesheetModel lists logged entries newest first and supports manual
// logging, editing and the billed/paid reconciliation toggles.
type timesheetModel struct {
	store    *store.Store
	currency string

	mode     timesheetMode
	entries  []store.TimeEntry
	projects []store.Project
	members  []store.TeamMember
	cursor   int

	form      *huh.Form
	editEntry *store.TimeEntry
	fProject  *string
	fMember   *string
	fDate     *string
	fHours    *string
	fBillable *bool
	fNotes    *string

	width  int
	height int
	err    error
}

func newTimesheetModel(s *store.Store, currency string) timesheetModel {
	m := timesheetModel{store: s, currency: currency}
	m.refresh()
	return m
}

func (m *timesheetModel) refresh() {
	m.err = nil
	entries, err := m.store.ListEntries(store.EntryFilter{Limit: timesheetPageSize})
	if err != nil {
		m.err = err
		return
	}
	m.entries = entries
	if m.cursor >= len(m.entries) {
		m.cursor = max(0, len(m.entries)-1)
	}
	projects, err := m.store.ListProjects(true)
	if err != nil {
		m.err = err
		return
	}
	m.projects = projects
	members, err := m.store.ListMembers(true)
	if err != nil {
		m.err = err
		return
	}
	m.members = members
}

func (m timesheetModel) Update(msg tea.Msg) (timesheetModel, tea.Cmd) {
	if m.mode == timesheetForm {
		return m.updateForm(msg)
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, keys.Down):
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, keys.New):
		return m.startForm(nil)
	case key.Matches(keyMsg, keys.Edit):
		if m.cursor < len(m.entries) {
			e := m.entries[m.cursor]
			return m.startForm(&e)
		}
	case key.Matches(keyMsg, keys.Delete):
		if m.cursor < len(m.entries) {
			if err := m.store.DeleteEntry(m.entries[m.cursor].ID); err != nil {
				return m, errStatus(err)
			}
			m.refresh()
			return m, okStatus("entry deleted")
		}
	case key.Matches(keyMsg, keys.Bill):
		if m.cursor < len(m.entries) {
			e := m.entries[m.cursor]
			if err := m.store.SetClientBilled(e.ID, !e.ClientBilled); err != nil {
				return m, errStatus(err)
			}
			m.refresh()
			return m, okStatus("billed flag " + toggledWord(!e.ClientBilled))
		}
	case key.Matches(keyMsg, keys.Pay):
		if m.cursor < len(m.entries) {
			e := m.entries[m.cursor]
			if err := m.store.SetContractorPaid(e.ID, !e.ContractorPaid); err != nil {
				return m, errStatus(err)
			}
			m.refresh()
			return m, okStatus("paid flag " + toggledWord(!e.ContractorPaid))
		}
	}
	return m, nil
}

func (m timesheetModel) startForm(edit *store.TimeEntry) (timesheetModel, tea.Cmd) {
	if len(m.projects) == 0 || len(m.members) == 0 {
		return m, errStatus(fmt.Errorf("need at least one project and one team member"))
	}
	project := m.projects[0].Name
	member := m.members[0].Name
	date := today().Format("2006-01-02")
	hours := ""
	billable := true
	notes := ""
	if edit != nil {
		date = edit.EntryDate.Format("2006-01-02")
		hours = strconv.FormatFloat(edit.Hours, 'f', -1, 64)
		billable = edit.Billable
		notes = edit.Notes
	}
	m.fProject, m.fMember, m.fDate = &project, &member, &date
	m.fHours, m.fBillable, m.fNotes = &hours, &billable, &notes
	m.editEntry = edit

	fields := []huh.Field{
		huh.NewInput().Title("Date (YYYY-MM-DD)").Value(m.fDate).Validate(validDate),
		huh.NewInput().Title("Hours").Value(m.fHours).Validate(positiveHours),
		huh.NewConfirm().Title("Billable?").Value(m.fBillable),
		huh.NewInput().Title("Notes").Value(m.fNotes),
	}
	if edit == nil {
		var popts, mopts []huh.Option[string]
		for _, p := range m.projects {
			popts = append(popts, huh.NewOption(p.Name, p.Name))
		}
		for _, mem := range m.members {
			mopts = append(mopts, huh.NewOption(mem.Name, mem.Name))
		}
		fields = append([]huh.Field{
			huh.NewSelect[string]().Title("Project").Value(m.fProject).Options(popts...),
			huh.NewSelect[string]().Title("Member").Value(m.fMember).Options(mopts...),
		}, fields...)
	}
	m.form = huh.NewForm(huh.NewGroup(fields...))
	m.mode = timesheetForm
	return m, nil
}

func (m timesheetModel) updateForm(msg tea.Msg) (timesheetModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, keys.Back) {
		m.form = nil
		m.mode = timesheetList
		return m, nil
	}
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State != huh.StateCompleted {
		return m, cmd
	}
	m.form = nil
	m.mode = timesheetList

	date, _ := time.Parse("2006-01-02", *m.fDate)
	hours, _ := strconv.ParseFloat(*m.fHours, 64)

	var err error
	note := "entry logged"
	if m.editEntry != nil {
		err = m.store.UpdateEntry(m.editEntry.ID, date, hours, *m.fBillable, *m.fNotes)
		note = "entry updated"
	} else {
		var projectID, memberID int64
		for _, p := range m.projects {
			if p.Name == *m.fProject {
				projectID = p.ID
			}
		}
		for _, mem := range m.members {
			if mem.Name == *m.fMember {
				memberID = mem.ID
			}
		}
		_, err = m.store.LogEntry(projectID, memberID, nil, date, hours, *m.fBillable, *m.fNotes)
	}
	if err != nil {
		return m, errStatus(err)
	}
	m.refresh()
	return m, okStatus(note)
}

func (m timesheetModel) View() string {
	if m.err != nil {
		return errorStyle.Render("timesheet: " + m.err.Error())
	}
	if m.mode == timesheetForm && m.form != nil {
		return m.form.View()
	}

	projectNames := make(map[int64]string, len(m.projects))
	rates := make(map[int64]float64, len(m.projects))
	for _, p := range m.projects {
		projectNames[p.ID] = p.Name
		rates[p.ID] = p.HourlyRate
	}
	memberNames := make(map[int64]string, len(m.members))
	for _, mem := range m.members {
		memberNames[mem.ID] = mem.Name
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Timesheet"))
	b.WriteString("\n\n")
	if len(m.entries) == 0 {
		b.WriteString(mutedStyle.Render("no entries logged"))
		b.WriteString("\n")
	}
	for i, e := range m.entries {
		project := projectNames[e.ProjectID]
		if project == "" {
			project = "?"
		}
		member := memberNames[e.MemberID]
		if member == "" {
			member = "?"
		}
		amount := ""
		if e.Billable {
			amount = cli.FormatMoney(e.Hours*rates[e.ProjectID], m.currency)
		}
		flags := entryFlags(e)
		line := fmt.Sprintf("%s  %-18s %-14s %7s %10s  %s",
			mutedStyle.Render(e.EntryDate.Format("2006-01-02")),
			project, member, formatHours(e.Hours), amount, flags)
		b.WriteString(cursorLine(i == m.cursor, line))
	}
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("n: log  e: edit  d: delete  b: billed  p: paid"))
	return panelStyle.Width(panelWidth(m.width)).Render(strings.TrimRight(b.String(), "\n"))
}

func entryFlags(e store.TimeEntry) string {
	var flags []string
	if !e.Billable {
		flags = append(flags, mutedStyle.Render("internal"))
	}
	if e.ClientBilled {
		flags = append(flags, successStyle.Render("billed"))
	}
	if e.ContractorPaid {
		flags = append(flags, highlightStyle.Render("paid"))
	}
	return strings.Join(flags, " ")
}

func toggledWord(on bool) string {
	if on {
		return "set"
	}
	return "cleared"
}

func validDate(s string) error {
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}
	return nil
}

func positiveHours(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return fmt.Errorf("hours must be a positive number")
	}
	return nil
}
