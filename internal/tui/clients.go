package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/harmondigital/agencyhub/internal/cli"
	"github.com/harmondigital/agencyhub/internal/store"
)

type clientsMode int

const (
	clientsList clientsMode = iota
	clientsProjects
	clientsAccountForm
	clientsProjectForm
)

// clientsModel manages accounts and, one level down, the projects that belong
// to each account. A synthetic last row hosts projects with no account.
type clientsModel struct {
	store    *store.Store
	currency string

	mode     clientsMode
	accounts []store.Account
	projects []store.Project
	cursor   int
	pcursor  int

	form        *huh.Form
	editAccount *store.Account
	editProject *store.Project

	// form fields; pointers so huh writes survive model copies
	fName     *string
	fContact  *string
	fEmail    *string
	fStatus   *string
	fBilling  *string
	fHourly   *string
	fRetainer *string
	fInternal *bool

	width  int
	height int
	err    error
}

func newClientsModel(s *store.Store, currency string) clientsModel {
	m := clientsModel{store: s, currency: currency}
	m.refresh()
	return m
}

func (m *clientsModel) refresh() {
	m.err = nil
	accounts, err := m.store.ListAccounts()
	if err != nil {
		m.err = err
		return
	}
	m.accounts = accounts
	if m.cursor > len(m.accounts) {
		m.cursor = len(m.accounts)
	}
	if m.mode == clientsProjects {
		m.loadProjects()
	}
}

// loadProjects fills m.projects for the account under the cursor; the row
// past the last account collects unassigned projects.
func (m *clientsModel) loadProjects() {
	m.err = nil
	if m.cursor < len(m.accounts) {
		projects, err := m.store.ListAccountProjects(m.accounts[m.cursor].ID)
		if err != nil {
			m.err = err
			return
		}
		m.projects = projects
	} else {
		all, err := m.store.ListProjects(true)
		if err != nil {
			m.err = err
			return
		}
		var unassigned []store.Project
		for _, p := range all {
			if p.AccountID == nil {
				unassigned = append(unassigned, p)
			}
		}
		m.projects = unassigned
	}
	if m.pcursor >= len(m.projects) {
		m.pcursor = max(0, len(m.projects)-1)
	}
}

func (m clientsModel) Update(msg tea.Msg) (clientsModel, tea.Cmd) {
	switch m.mode {
	case clientsAccountForm, clientsProjectForm:
		return m.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch m.mode {
	case clientsList:
		return m.updateList(keyMsg)
	case clientsProjects:
		return m.updateProjects(keyMsg)
	}
	return m, nil
}

func (m clientsModel) updateList(msg tea.KeyMsg) (clientsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.accounts) {
			m.cursor++
		}
	case key.Matches(msg, keys.Enter):
		m.mode = clientsProjects
		m.pcursor = 0
		m.loadProjects()
	case key.Matches(msg, keys.New):
		m.startAccountForm(nil)
	case key.Matches(msg, keys.Edit):
		if m.cursor < len(m.accounts) {
			a := m.accounts[m.cursor]
			m.startAccountForm(&a)
		}
	}
	return m, nil
}

func (m clientsModel) updateProjects(msg tea.KeyMsg) (clientsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		m.mode = clientsList
	case key.Matches(msg, keys.Up):
		if m.pcursor > 0 {
			m.pcursor--
		}
	case key.Matches(msg, keys.Down):
		if m.pcursor < len(m.projects)-1 {
			m.pcursor++
		}
	case key.Matches(msg, keys.New):
		m.startProjectForm(nil)
	case key.Matches(msg, keys.Edit):
		if m.pcursor < len(m.projects) {
			p := m.projects[m.pcursor]
			m.startProjectForm(&p)
		}
	case key.Matches(msg, keys.Delete):
		if m.pcursor < len(m.projects) {
			p := m.projects[m.pcursor]
			if p.Archived {
				return m, okStatus("project already archived")
			}
			if err := m.store.ArchiveProject(p.ID); err != nil {
				return m, errStatus(err)
			}
			m.loadProjects()
			return m, okStatus("project archived")
		}
	}
	return m, nil
}

func (m *clientsModel) startAccountForm(edit *store.Account) {
	name, contact, email := "", "", ""
	status := string(store.AccountActive)
	if edit != nil {
		name, contact, email = edit.Name, edit.ContactName, edit.ContactEmail
		status = string(edit.Status)
	}
	m.fName, m.fContact, m.fEmail, m.fStatus = &name, &contact, &email, &status
	m.editAccount = edit
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Client name").Value(m.fName).Validate(required),
			huh.NewInput().Title("Contact name").Value(m.fContact),
			huh.NewInput().Title("Contact email").Value(m.fEmail),
			huh.NewSelect[string]().Title("Status").Value(m.fStatus).Options(
				huh.NewOption("Active", string(store.AccountActive)),
				huh.NewOption("Prospect", string(store.AccountProspect)),
				huh.NewOption("Former", string(store.AccountFormer)),
			),
		),
	)
	m.mode = clientsAccountForm
}

func (m *clientsModel) startProjectForm(edit *store.Project) {
	name, hourly, retainer := "", "0", "0"
	billing := string(store.BillingHourly)
	internal := false
	if edit != nil {
		name = edit.Name
		billing = string(edit.BillingType)
		hourly = strconv.FormatFloat(edit.HourlyRate, 'f', -1, 64)
		retainer = strconv.FormatFloat(edit.RetainerMonthly, 'f', -1, 64)
		internal = edit.Internal
	}
	m.fName, m.fBilling, m.fHourly, m.fRetainer, m.fInternal = &name, &billing, &hourly, &retainer, &internal
	m.editProject = edit
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Project name").Value(m.fName).Validate(required),
			huh.NewSelect[string]().Title("Billing").Value(m.fBilling).Options(
				huh.NewOption("Hourly", string(store.BillingHourly)),
				huh.NewOption("Fixed", string(store.BillingFixed)),
				huh.NewOption("Retainer", string(store.BillingRetainer)),
				huh.NewOption("Internal", string(store.BillingInternal)),
			),
			huh.NewInput().Title("Hourly rate").Value(m.fHourly).Validate(numeric),
			huh.NewInput().Title("Retainer / month").Value(m.fRetainer).Validate(numeric),
			huh.NewConfirm().Title("Internal project?").Value(m.fInternal),
		),
	)
	m.mode = clientsProjectForm
}

func (m clientsModel) updateForm(msg tea.Msg) (clientsModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, keys.Back) {
		m.form = nil
		if m.mode == clientsProjectForm {
			m.mode = clientsProjects
		} else {
			m.mode = clientsList
		}
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	var err error
	var note string
	switch m.mode {
	case clientsAccountForm:
		if m.editAccount != nil {
			err = m.store.UpdateAccount(m.editAccount.ID, *m.fName, *m.fContact, *m.fEmail, store.AccountStatus(*m.fStatus))
			note = "client updated"
		} else {
			_, err = m.store.CreateAccount(*m.fName, *m.fContact, *m.fEmail, store.AccountStatus(*m.fStatus))
			note = "client created"
		}
		m.mode = clientsList
	case clientsProjectForm:
		hourly, _ := strconv.ParseFloat(*m.fHourly, 64)
		retainer, _ := strconv.ParseFloat(*m.fRetainer, 64)
		billing := store.BillingType(*m.fBilling)
		if m.editProject != nil {
			err = m.store.UpdateProject(m.editProject.ID, *m.fName, billing, hourly, retainer, *m.fInternal)
			note = "project updated"
		} else {
			var accountID *int64
			if m.cursor < len(m.accounts) {
				id := m.accounts[m.cursor].ID
				accountID = &id
			}
			_, err = m.store.CreateProject(accountID, *m.fName, billing, hourly, retainer, *m.fInternal)
			note = "project created"
		}
		m.mode = clientsProjects
	}
	m.form = nil
	if err != nil {
		return m, errStatus(err)
	}
	m.refresh()
	return m, okStatus(note)
}

func (m clientsModel) View() string {
	if m.err != nil {
		return errorStyle.Render("clients: " + m.err.Error())
	}
	switch m.mode {
	case clientsAccountForm, clientsProjectForm:
		if m.form != nil {
			return m.form.View()
		}
	case clientsProjects:
		return m.viewProjects()
	}
	return m.viewList()
}

func (m clientsModel) viewList() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Clients"))
	b.WriteString("\n\n")
	for i, a := range m.accounts {
		line := fmt.Sprintf("%-24s %-10s %s", a.Name,
			accountStatusStyle(a.Status).Render(string(a.Status)),
			mutedStyle.Render(a.ContactEmail))
		b.WriteString(cursorLine(i == m.cursor, line))
	}
	b.WriteString(cursorLine(m.cursor == len(m.accounts), mutedStyle.Render("(internal / unassigned)")))
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("enter: projects  n: new client  e: edit"))
	return panelStyle.Width(panelWidth(m.width)).Render(strings.TrimRight(b.String(), "\n"))
}

func (m clientsModel) viewProjects() string {
	owner := "(internal / unassigned)"
	if m.cursor < len(m.accounts) {
		owner = m.accounts[m.cursor].Name
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Projects: " + owner))
	b.WriteString("\n\n")
	if len(m.projects) == 0 {
		b.WriteString(mutedStyle.Render("no projects"))
		b.WriteString("\n")
	}
	for i, p := range m.projects {
		rate := cli.FormatMoney(p.HourlyRate, m.currency) + "/h"
		if p.BillingType == store.BillingRetainer {
			rate = cli.FormatMoney(p.RetainerMonthly, m.currency) + "/mo"
		}
		name := p.Name
		if p.Archived {
			name = mutedStyle.Render(name + " (archived)")
		}
		line := fmt.Sprintf("%-28s %-10s %s", name, billingTypeLabel(p.BillingType), rate)
		b.WriteString(cursorLine(i == m.pcursor, line))
	}
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("n: new  e: edit  d: archive  esc: back"))
	return panelStyle.Width(panelWidth(m.width)).Render(strings.TrimRight(b.String(), "\n"))
}

func cursorLine(selected bool, line string) string {
	if selected {
		return selectedItemStyle.Render("> ") + line + "\n"
	}
	return "  " + line + "\n"
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("required")
	}
	return nil
}

func numeric(s string) error {
	if s == "" {
		return nil
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return fmt.Errorf("must be a number")
	}
	return nil
}
