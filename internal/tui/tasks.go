package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/harmondigital/agencyhub/internal/store"
)

type tasksMode int

const (
	tasksPickProject tasksMode = iota
	tasksBoard
	tasksForm
)

// tasksModel is a per-project board: pick a project, then move tasks through
// todo, in_progress, review and done.
type tasksModel struct {
	store *store.Store

	mode     tasksMode
	projects []store.Project
	tasks    []store.Task
	members  []store.TeamMember
	pcursor  int
	cursor   int

	form    *huh.Form
	fTitle  *string
	fMember *string

	width  int
	height int
	err    error
}

func newTasksModel(s *store.Store) tasksModel {
	m := tasksModel{store: s}
	m.refresh()
	return m
}

func (m *tasksModel) refresh() {
	m.err = nil
	projects, err := m.store.ListProjects(false)
	if err != nil {
		m.err = err
		return
	}
	m.projects = projects
	if m.pcursor >= len(m.projects) {
		m.pcursor = max(0, len(m.projects)-1)
	}
	members, err := m.store.ListMembers(false)
	if err != nil {
		m.err = err
		return
	}
	m.members = members
	if m.mode == tasksBoard {
		m.loadTasks()
	}
}

func (m *tasksModel) loadTasks() {
	if len(m.projects) == 0 {
		m.tasks = nil
		return
	}
	tasks, err := m.store.ListTasks(m.projects[m.pcursor].ID)
	if err != nil {
		m.err = err
		return
	}
	m.tasks = tasks
	if m.cursor >= len(m.tasks) {
		m.cursor = max(0, len(m.tasks)-1)
	}
}

func (m tasksModel) Update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if m.mode == tasksForm {
		return m.updateForm(msg)
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.mode == tasksPickProject {
		return m.updatePicker(keyMsg)
	}
	return m.updateBoard(keyMsg)
}

func (m tasksModel) updatePicker(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.pcursor > 0 {
			m.pcursor--
		}
	case key.Matches(msg, keys.Down):
		if m.pcursor < len(m.projects)-1 {
			m.pcursor++
		}
	case key.Matches(msg, keys.Enter):
		if len(m.projects) > 0 {
			m.mode = tasksBoard
			m.cursor = 0
			m.loadTasks()
		}
	}
	return m, nil
}

func (m tasksModel) updateBoard(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		m.mode = tasksPickProject
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Right):
		if m.cursor < len(m.tasks) {
			t := m.tasks[m.cursor]
			if next := t.Status.Next(); next != t.Status {
				if err := m.store.SetTaskStatus(t.ID, next); err != nil {
					return m, errStatus(err)
				}
				m.loadTasks()
			}
		}
	case key.Matches(msg, keys.Left):
		if m.cursor < len(m.tasks) {
			t := m.tasks[m.cursor]
			if prev := t.Status.Prev(); prev != t.Status {
				if err := m.store.SetTaskStatus(t.ID, prev); err != nil {
					return m, errStatus(err)
				}
				m.loadTasks()
			}
		}
	case key.Matches(msg, keys.New):
		m.startForm()
	case key.Matches(msg, keys.Delete):
		if m.cursor < len(m.tasks) {
			if err := m.store.DeleteTask(m.tasks[m.cursor].ID); err != nil {
				return m, errStatus(err)
			}
			m.loadTasks()
			return m, okStatus("task deleted")
		}
	}
	return m, nil
}

func (m *tasksModel) startForm() {
	title, member := "", ""
	m.fTitle, m.fMember = &title, &member
	opts := []huh.Option[string]{huh.NewOption("(unassigned)", "")}
	for _, mem := range m.members {
		opts = append(opts, huh.NewOption(mem.Name, mem.Name))
	}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Task title").Value(m.fTitle).Validate(required),
			huh.NewSelect[string]().Title("Assignee").Value(m.fMember).Options(opts...),
		),
	)
	m.mode = tasksForm
}

func (m tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, keys.Back) {
		m.form = nil
		m.mode = tasksBoard
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
	m.mode = tasksBoard

	var memberID *int64
	for _, mem := range m.members {
		if mem.Name == *m.fMember {
			id := mem.ID
			memberID = &id
			break
		}
	}
	if _, err := m.store.CreateTask(m.projects[m.pcursor].ID, memberID, *m.fTitle); err != nil {
		return m, errStatus(err)
	}
	m.loadTasks()
	return m, okStatus("task created")
}

func (m tasksModel) View() string {
	if m.err != nil {
		return errorStyle.Render("tasks: " + m.err.Error())
	}
	switch m.mode {
	case tasksForm:
		if m.form != nil {
			return m.form.View()
		}
	case tasksBoard:
		return m.viewBoard()
	}
	return m.viewPicker()
}

func (m tasksModel) viewPicker() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Tasks: pick a project"))
	b.WriteString("\n\n")
	if len(m.projects) == 0 {
		b.WriteString(mutedStyle.Render("no active projects"))
	}
	for i, p := range m.projects {
		b.WriteString(cursorLine(i == m.pcursor, p.Name))
	}
	return panelStyle.Width(panelWidth(m.width)).Render(strings.TrimRight(b.String(), "\n"))
}

func (m tasksModel) viewBoard() string {
	project := m.projects[m.pcursor]
	memberNames := make(map[int64]string, len(m.members))
	for _, mem := range m.members {
		memberNames[mem.ID] = mem.Name
	}

	var cols []string
	for _, status := range []store.TaskStatus{store.TaskTodo, store.TaskInProgress, store.TaskReview, store.TaskDone} {
		var b strings.Builder
		b.WriteString(taskStatusStyle(status).Render(taskStatusLabel(status)))
		b.WriteString("\n\n")
		for i, t := range m.tasks {
			if t.Status != status {
				continue
			}
			who := ""
			if t.MemberID != nil {
				if name := memberNames[*t.MemberID]; name != "" {
					who = mutedStyle.Render(" @" + name)
				}
			}
			b.WriteString(cursorLine(i == m.cursor, t.Title+who))
		}
		cols = append(cols, panelStyle.Width(26).Render(strings.TrimRight(b.String(), "\n")))
	}

	board := lipgloss.JoinHorizontal(lipgloss.Top, cols...)
	header := titleStyle.Render("Board: "+project.Name) + "\n"
	footer := "\n" + footerStyle.Render(fmt.Sprintf("%d tasks  n: new  ←/→: move  d: delete  esc: projects", len(m.tasks)))
	return header + board + footer
}
