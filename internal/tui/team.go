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

type teamMode int

const (
	teamList teamMode = iota
	teamForm
)

// teamModel manages the roster of people whose hours drive payroll cost.
type teamModel struct {
	store    *store.Store
	currency string

	mode    teamMode
	members []store.TeamMember
	cursor  int

	form       *huh.Form
	editMember *store.TeamMember
	fName      *string
	fRole      *string
	fRate      *string

	width  int
	height int
	err    error
}

func newTeamModel(s *store.Store, currency string) teamModel {
	m := teamModel{store: s, currency: currency}
	m.refresh()
	return m
}

func (m *teamModel) refresh() {
	m.err = nil
	members, err := m.store.ListMembers(true)
	if err != nil {
		m.err = err
		return
	}
	m.members = members
	if m.cursor >= len(m.members) {
		m.cursor = max(0, len(m.members)-1)
	}
}

func (m teamModel) Update(msg tea.Msg) (teamModel, tea.Cmd) {
	if m.mode == teamForm {
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
		if m.cursor < len(m.members)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, keys.New):
		m.startForm(nil)
	case key.Matches(keyMsg, keys.Edit):
		if m.cursor < len(m.members) {
			mem := m.members[m.cursor]
			m.startForm(&mem)
		}
	case key.Matches(keyMsg, keys.Delete):
		if m.cursor < len(m.members) {
			mem := m.members[m.cursor]
			next := store.MemberActive
			if mem.Status == store.MemberActive {
				next = store.MemberInactive
			}
			if err := m.store.SetMemberStatus(mem.ID, next); err != nil {
				return m, errStatus(err)
			}
			m.refresh()
			return m, okStatus("member " + string(next))
		}
	}
	return m, nil
}

func (m *teamModel) startForm(edit *store.TeamMember) {
	name, role, rate := "", "", "0"
	if edit != nil {
		name, role = edit.Name, edit.Role
		rate = strconv.FormatFloat(edit.HourlyRate, 'f', -1, 64)
	}
	m.fName, m.fRole, m.fRate = &name, &role, &rate
	m.editMember = edit
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(m.fName).Validate(required),
			huh.NewInput().Title("Role").Value(m.fRole),
			huh.NewInput().Title("Hourly cost").Value(m.fRate).Validate(numeric),
		),
	)
	m.mode = teamForm
}

func (m teamModel) updateForm(msg tea.Msg) (teamModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, keys.Back) {
		m.form = nil
		m.mode = teamList
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
	m.mode = teamList

	rate, _ := strconv.ParseFloat(*m.fRate, 64)
	var err error
	note := "member added"
	if m.editMember != nil {
		err = m.store.UpdateMember(m.editMember.ID, *m.fName, *m.fRole, rate)
		note = "member updated"
	} else {
		_, err = m.store.CreateMember(*m.fName, *m.fRole, rate)
	}
	if err != nil {
		return m, errStatus(err)
	}
	m.refresh()
	return m, okStatus(note)
}

func (m teamModel) View() string {
	if m.err != nil {
		return errorStyle.Render("team: " + m.err.Error())
	}
	if m.mode == teamForm && m.form != nil {
		return m.form.View()
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Team"))
	b.WriteString("\n\n")
	if len(m.members) == 0 {
		b.WriteString(mutedStyle.Render("no team members yet"))
		b.WriteString("\n")
	}
	for i, mem := range m.members {
		status := successStyle.Render("active")
		if mem.Status != store.MemberActive {
			status = mutedStyle.Render("inactive")
		}
		line := fmt.Sprintf("%-20s %-16s %10s/h  %s",
			mem.Name, mutedStyle.Render(mem.Role),
			cli.FormatMoney(mem.HourlyRate, m.currency), status)
		b.WriteString(cursorLine(i == m.cursor, line))
	}
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("n: new  e: edit  d: toggle active"))
	return panelStyle.Width(panelWidth(m.width)).Render(strings.TrimRight(b.String(), "\n"))
}
