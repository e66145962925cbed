package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/harmondigital/agencyhub/internal/store"
)

// settingsModel edits the workspace settings stored alongside the data.
type settingsModel struct {
	store *store.Store

	editing bool
	form    *huh.Form

	fCurrency  *string
	fWeekStart *string
	fDays      *string
	fPrefix    *string

	width  int
	height int
	err    error

	currency  string
	weekStart string
	days      string
	prefix    string
}

func newSettingsModel(s *store.Store) settingsModel {
	m := settingsModel{store: s}
	m.refresh()
	return m
}

func (m *settingsModel) refresh() {
	m.err = nil
	all, err := m.store.GetAllSettings()
	if err != nil {
		m.err = err
		return
	}
	values := make(map[string]string, len(all))
	for _, s := range all {
		values[s.Key] = s.Value
	}
	get := func(key, def string) string {
		if v := values[key]; v != "" {
			return v
		}
		return def
	}
	m.currency = get("currency", "USD")
	m.weekStart = get("week_start", "monday")
	m.days = get("default_range_days", "30")
	m.prefix = get("invoice_prefix", "HD")
}

func (m settingsModel) Update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if m.editing {
		return m.updateForm(msg)
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.Matches(keyMsg, keys.Edit) || key.Matches(keyMsg, keys.Enter) {
		m.startForm()
	}
	return m, nil
}

func (m *settingsModel) startForm() {
	currency, weekStart := m.currency, m.weekStart
	days, prefix := m.days, m.prefix
	m.fCurrency, m.fWeekStart = &currency, &weekStart
	m.fDays, m.fPrefix = &days, &prefix
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Currency").Value(m.fCurrency).Options(
				huh.NewOption("USD", "USD"),
				huh.NewOption("EUR", "EUR"),
				huh.NewOption("GBP", "GBP"),
			),
			huh.NewSelect[string]().Title("Week starts on").Value(m.fWeekStart).Options(
				huh.NewOption("Monday", "monday"),
				huh.NewOption("Sunday", "sunday"),
			),
			huh.NewInput().Title("Default report window (days)").Value(m.fDays).Validate(positiveInt),
			huh.NewInput().Title("Invoice number prefix").Value(m.fPrefix).Validate(required),
		),
	)
	m.editing = true
}

func (m settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, keys.Back) {
		m.form = nil
		m.editing = false
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
	m.editing = false

	pairs := map[string]string{
		"currency":           *m.fCurrency,
		"week_start":         *m.fWeekStart,
		"default_range_days": *m.fDays,
		"invoice_prefix":     *m.fPrefix,
	}
	for k, v := range pairs {
		if err := m.store.SetSetting(k, v); err != nil {
			return m, errStatus(err)
		}
	}
	m.refresh()
	return m, okStatus("settings saved")
}

func (m settingsModel) View() string {
	if m.err != nil {
		return errorStyle.Render("settings: " + m.err.Error())
	}
	if m.editing && m.form != nil {
		return m.form.View()
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Settings"))
	b.WriteString("\n\n")
	row := func(label, value string) {
		b.WriteString(fmt.Sprintf("  %-28s %s\n", mutedStyle.Render(label), value))
	}
	row("Currency", m.currency)
	row("Week starts on", m.weekStart)
	row("Default report window", m.days+" days")
	row("Invoice number prefix", m.prefix)
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("e: edit"))
	return panelStyle.Width(panelWidth(m.width)).Render(strings.TrimRight(b.String(), "\n"))
}

func positiveInt(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return fmt.Errorf("must be a positive whole number")
	}
	return nil
}
