package tui

import (
	"math"
	"time"
)

// timerState tracks the current state of the session timer.
type timerState int

const (
	timerStopped timerState = iota
	timerRunning
	timerPaused
)

// timerModel accumulates a work session; stopping it yields fractional hours
// ready to be logged as a time entry.
type timerModel struct {
	state     timerState
	startTime time.Time
	elapsed   time.Duration
	pausedAt  time.Time
	pauseGap  time.Duration

	projectID   int64
	projectName string
}

func newTimerModel() timerModel {
	return timerModel{state: timerStopped}
}

func (t *timerModel) start(projectID int64, projectName string) {
	t.state = timerRunning
	t.startTime = time.Now()
	t.elapsed = 0
	t.pauseGap = 0
	t.projectID = projectID
	t.projectName = projectName
}

// stop ends the session and returns the elapsed duration as hours, rounded to
// two decimals.
func (t *timerModel) stop() float64 {
	if t.state == timerStopped {
		return 0
	}
	elapsed := t.currentElapsed()
	t.state = timerStopped
	t.elapsed = 0
	return roundHours(elapsed)
}

func (t *timerModel) pause() {
	if t.state != timerRunning {
		return
	}
	t.state = timerPaused
	t.pausedAt = time.Now()
}

func (t *timerModel) resume() {
	if t.state != timerPaused {
		return
	}
	t.pauseGap += time.Since(t.pausedAt)
	t.state = timerRunning
}

func (t *timerModel) toggle() {
	switch t.state {
	case timerRunning:
		t.pause()
	case timerPaused:
		t.resume()
	}
}

func (t *timerModel) tick() {
	if t.state == timerRunning {
		t.elapsed = time.Since(t.startTime) - t.pauseGap
	}
}

func (t timerModel) running() bool {
	return t.state != timerStopped
}

func (t timerModel) paused() bool {
	return t.state == timerPaused
}

func (t timerModel) currentElapsed() time.Duration {
	if t.state == timerStopped {
		return 0
	}
	if t.state == timerPaused {
		return time.Since(t.startTime) - t.pauseGap - time.Since(t.pausedAt)
	}
	return time.Since(t.startTime) - t.pauseGap
}

func roundHours(d time.Duration) float64 {
	return math.Round(d.Hours()*100) / 100
}
