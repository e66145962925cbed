package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harmondigital/agencyhub/internal/cli"
	"github.com/harmondigital/agencyhub/internal/config"
	"github.com/harmondigital/agencyhub/internal/finance"
	"github.com/harmondigital/agencyhub/internal/store"
)

type reportRange int

const (
	reportWeek reportRange = iota
	reportMonth
)

func (r reportRange) days() int {
	if r == reportWeek {
		return 7
	}
	return finance.DefaultRangeDays
}

// reportsModel renders the reconciliation summary for a date window plus a
// per-day hours chart. Left/right moves the window back and forward in time.
type reportsModel struct {
	store    *store.Store
	operator config.OperatorConfig
	currency string

	mode   reportRange
	offset int // windows back from the current one (0 = current)

	summary finance.Summary
	daily   []store.DailyHours
	chart   barchart.Model

	width  int
	height int
	err    error
}

func newReportsModel(s *store.Store, operator config.OperatorConfig, currency string) reportsModel {
	m := reportsModel{
		store:    s,
		operator: operator,
		currency: currency,
		chart:    barchart.New(60, 10),
	}
	m.refresh()
	return m
}

func (m *reportsModel) setSize(w, h int) {
	m.width = w
	m.height = h
	m.buildChart()
}

// dateRange returns the [from, to) window for the current mode and offset.
func (m reportsModel) dateRange() (time.Time, time.Time) {
	days := m.mode.days()
	to := today().AddDate(0, 0, 1-days*m.offset)
	from := to.AddDate(0, 0, -days)
	return from, to
}

func (m *reportsModel) refresh() {
	m.err = nil
	from, to := m.dateRange()

	entries, err := m.store.ListEntries(store.EntryFilter{From: &from, To: &to})
	if err != nil {
		m.err = err
		return
	}
	projects, err := m.store.ListProjects(true)
	if err != nil {
		m.err = err
		return
	}
	members, err := m.store.ListMembers(true)
	if err != nil {
		m.err = err
		return
	}
	m.summary = finance.Compute(entries, projects, members, m.mode.days())

	daily, err := m.store.GetDailyHours(from, to)
	if err != nil {
		m.err = err
		return
	}
	m.daily = daily
	m.buildChart()
}

func (m reportsModel) Update(msg tea.Msg) (reportsModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, keys.Left):
		m.offset++
		m.refresh()
	case key.Matches(keyMsg, keys.Right):
		if m.offset > 0 {
			m.offset--
			m.refresh()
		}
	case key.Matches(keyMsg, keys.Tab):
		if m.mode == reportWeek {
			m.mode = reportMonth
		} else {
			m.mode = reportWeek
		}
		m.offset = 0
		m.refresh()
	}
	return m, nil
}

func (m *reportsModel) buildChart() {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 60
	}
	m.chart = barchart.New(chartWidth, 10)

	from, to := m.dateRange()
	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format("2006-01-02")

		var values []barchart.BarValue
		for _, dh := range m.daily {
			if dh.Date != dateStr {
				continue
			}
			style := highlightStyle
			if dh.BillingType == store.BillingInternal {
				style = mutedStyle
			}
			values = append(values, barchart.BarValue{
				Name:  dh.ProjectName,
				Value: dh.TotalHours,
				Style: style,
			})
		}
		if len(values) == 0 {
			values = []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
		}
		bars = append(bars, barchart.BarData{
			Label:  d.Format("02"),
			Values: values,
		})
	}
	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m reportsModel) View() string {
	if m.err != nil {
		return errorStyle.Render("reports: " + m.err.Error())
	}
	w := panelWidth(m.width)

	weekTab := inactiveTabStyle.Render("Week")
	monthTab := inactiveTabStyle.Render("30 days")
	if m.mode == reportWeek {
		weekTab = activeTabStyle.Render("Week")
	} else {
		monthTab = activeTabStyle.Render("30 days")
	}
	from, to := m.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s to %s",
		from.Format("Jan 02"), to.Add(-24*time.Hour).Format("Jan 02, 2006")))
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Reports"), "  ", weekTab, monthTab, "  ", dateLabel)

	nav := mutedStyle.Render("  ←/→: move window  tab: switch range")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", m.chart.View(), "", m.projectBreakdown(), "", m.summaryTable(), "", nav,
		),
	)
}

// projectBreakdown sums the window's daily rows into per-project hours.
func (m reportsModel) projectBreakdown() string {
	if len(m.daily) == 0 {
		return mutedStyle.Render("  no hours in this window")
	}
	totals := make(map[int64]float64)
	names := make(map[int64]string)
	var order []int64
	for _, dh := range m.daily {
		if _, seen := totals[dh.ProjectID]; !seen {
			order = append(order, dh.ProjectID)
			names[dh.ProjectID] = dh.ProjectName
		}
		totals[dh.ProjectID] += dh.TotalHours
	}
	var rows []string
	for _, id := range order {
		rows = append(rows, fmt.Sprintf("  %-28s %10s", names[id], formatHours(totals[id])))
	}
	return strings.Join(rows, "\n")
}

// summaryTable renders the reconciliation numbers. Cost and profit rows only
// appear for operators allowed to see financials.
func (m reportsModel) summaryTable() string {
	s := m.summary
	row := func(label, value string) string {
		return fmt.Sprintf("  %-20s %14s", label, value)
	}
	money := func(v float64) string {
		return cli.FormatMoney(v, m.currency)
	}

	rows := []string{
		row("Total hours", formatHours(s.TotalHours)),
		row("Billable hours", formatHours(s.BillableHours)),
		"",
		row("Hourly revenue", money(s.HourlyRevenue)),
		row("Retainer revenue", money(s.RetainerRevenue)),
		titleStyle.Render(row("Total revenue", money(s.TotalRevenue))),
		"",
		row("Billed", money(s.BilledRevenue)),
		row("Unbilled", warningStyle.Render(money(s.UnbilledRevenue))),
	}
	if m.operator.CanSeeFinancials() {
		profitStyle := successStyle
		if s.Profit < 0 {
			profitStyle = errorStyle
		}
		rows = append(rows,
			"",
			row("Payroll cost", money(s.PayrollCost)),
			row("Paid out", money(s.PaidPayroll)),
			row("Owed to team", warningStyle.Render(money(s.UnpaidPayroll))),
			"",
			titleStyle.Render(row("Profit", profitStyle.Render(money(s.Profit)))),
			row("Margin", cli.FormatPercent(s.ProfitMargin)),
		)
	}
	return strings.Join(rows, "\n")
}
