package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/harmondigital/agencyhub/internal/config"
	"github.com/harmondigital/agencyhub/internal/store"
)

func newTestApp(t *testing.T) App {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return NewApp(s, config.DefaultConfig())
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// ============================================================
// Helpers
// ============================================================

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{61 * time.Second, "00:01:01"},
		{3661 * time.Second, "01:01:01"},
		{25 * time.Hour, "25:00:00"},
	}
	for _, c := range cases {
		if got := formatDuration(c.d); got != c.want {
			t.Errorf("formatDuration(%v) = %q, want %q", c.d, got, c.want)
		}
	}
}

func TestRoundHours(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want float64
	}{
		{90 * time.Minute, 1.5},
		{time.Hour, 1},
		{27 * time.Minute, 0.45},
		{10 * time.Second, 0},
	}
	for _, c := range cases {
		if got := roundHours(c.d); got != c.want {
			t.Errorf("roundHours(%v) = %v, want %v", c.d, got, c.want)
		}
	}
}

func TestBillingTypeLabelExhaustive(t *testing.T) {
	for _, bt := range []store.BillingType{store.BillingHourly, store.BillingFixed, store.BillingRetainer, store.BillingInternal} {
		if billingTypeLabel(bt) == "?" {
			t.Errorf("no label for billing type %s", bt)
		}
	}
	if got := billingTypeLabel(store.BillingType("weekly")); got != "?" {
		t.Errorf("unknown billing type label = %q, want ?", got)
	}
}

func TestTaskStatusLabelExhaustive(t *testing.T) {
	for _, ts := range []store.TaskStatus{store.TaskTodo, store.TaskInProgress, store.TaskReview, store.TaskDone} {
		if taskStatusLabel(ts) == "?" {
			t.Errorf("no label for task status %s", ts)
		}
	}
}

// ============================================================
// Timer
// ============================================================

func TestTimerLifecycle(t *testing.T) {
	tm := newTimerModel()
	if tm.running() {
		t.Fatal("new timer should be stopped")
	}

	tm.start(1, "website")
	if !tm.running() || tm.paused() {
		t.Fatal("timer should be running after start")
	}

	tm.pause()
	if !tm.paused() {
		t.Fatal("timer should be paused")
	}
	tm.resume()
	if tm.paused() {
		t.Fatal("timer should be running after resume")
	}

	hours := tm.stop()
	if tm.running() {
		t.Fatal("timer should be stopped after stop")
	}
	if hours != 0 {
		t.Errorf("instant stop logged %v hours, want 0", hours)
	}
}

func TestTimerToggle(t *testing.T) {
	tm := newTimerModel()
	tm.toggle() // stopped: no-op
	if tm.running() {
		t.Fatal("toggle must not start a stopped timer")
	}
	tm.start(1, "website")
	tm.toggle()
	if !tm.paused() {
		t.Fatal("toggle should pause a running timer")
	}
	tm.toggle()
	if tm.paused() {
		t.Fatal("toggle should resume a paused timer")
	}
}

// ============================================================
// Root model
// ============================================================

func TestAppStartsOnDashboard(t *testing.T) {
	app := newTestApp(t)
	if app.activeView != viewDashboard {
		t.Errorf("initial view = %d, want dashboard", app.activeView)
	}
}

func TestAppViewSwitching(t *testing.T) {
	app := newTestApp(t)

	cases := []struct {
		key  rune
		want viewState
	}{
		{'2', viewClients},
		{'3', viewTasks},
		{'4', viewTimesheet},
		{'5', viewTeam},
		{'6', viewReports},
		{'7', viewSettings},
		{'1', viewDashboard},
	}
	var model tea.Model = app
	for _, c := range cases {
		model, _ = model.(App).Update(keyRune(c.key))
		if got := model.(App).activeView; got != c.want {
			t.Errorf("after pressing %q: view = %d, want %d", c.key, got, c.want)
		}
	}
}

func TestAppQuit(t *testing.T) {
	app := newTestApp(t)
	_, cmd := app.Update(keyRune('q'))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should produce tea.Quit")
	}
}

func TestAppStatusMessage(t *testing.T) {
	app := newTestApp(t)
	model, _ := app.Update(statusMsg{text: "saved"})
	if got := model.(App).status; got != "saved" {
		t.Errorf("status = %q, want saved", got)
	}
}

// ============================================================
// Settings
// ============================================================

func TestSettingsRefreshReadsStore(t *testing.T) {
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	m := newSettingsModel(s)
	if m.currency != "USD" || m.prefix != "HD" {
		t.Errorf("seeded defaults: currency=%q prefix=%q", m.currency, m.prefix)
	}

	if err := s.SetSetting("currency", "EUR"); err != nil {
		t.Fatalf("set: %v", err)
	}
	m.refresh()
	if m.currency != "EUR" {
		t.Errorf("currency after refresh = %q, want EUR", m.currency)
	}
}

// ============================================================
// Dashboard
// ============================================================

func TestOperatorMemberResolution(t *testing.T) {
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	cfg := config.DefaultConfig()
	cfg.Operator.Name = "Alex"
	d := newDashboardModel(s, cfg.Operator, "USD", 30)

	if _, err := d.operatorMemberID(); err == nil {
		t.Fatal("expected error with empty roster")
	}

	m, err := s.CreateMember("Alex", "Owner", 0)
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	id, err := d.operatorMemberID()
	if err != nil {
		t.Fatalf("resolve operator: %v", err)
	}
	if id != m.ID {
		t.Errorf("operator member id = %d, want %d", id, m.ID)
	}
}
