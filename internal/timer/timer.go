package timer

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"hrms_tui/internal/attendance"
)

type State int

const (
	NotCheckedIn State = iota
	Working
	OnBreak
	CheckedOut
)

func (s State) String() string {
	switch s {
	case NotCheckedIn:
		return "not_checked_in"
	case Working:
		return "working"
	case OnBreak:
		return "on_break"
	case CheckedOut:
		return "checked_out"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ErrInvalidTransition is returned when an action is not allowed from the
// current state. The timer is left untouched.
var ErrInvalidTransition = errors.New("invalid timer transition")

// Event describes a state change, used to drive notifications.
type Event struct {
	From State
	To   State
	At   time.Time
	// Break is set when the event closed a break.
	Break time.Duration
}

// Display is a snapshot of what the dashboard renders for one tick.
type Display struct {
	State        State
	Work         string
	Break        string
	WorkElapsed  time.Duration
	BreakElapsed time.Duration
	TotalBreak   time.Duration
	Running      bool
}

// Timer owns the work/break bookkeeping for the current day. Nothing here is
// persisted: a fresh Timer always starts with zero breaks.
type Timer struct {
	mu           sync.RWMutex
	state        State
	day          attendance.Day
	session      attendance.WorkSession
	sessionStart time.Time
}

func New() *Timer {
	return &Timer{state: NotCheckedIn}
}

func (t *Timer) State() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// Day returns the last attendance record applied to the timer.
func (t *Timer) Day() attendance.Day {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.day
}

// SessionStart is the local instant the current session was entered.
func (t *Timer) SessionStart() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sessionStart
}

// CheckIn moves to Working after the backend accepted a check-in.
func (t *Timer) CheckIn(day attendance.Day, now time.Time) (Event, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != NotCheckedIn && t.state != CheckedOut {
		return Event{}, t.invalid(Working)
	}

	from := t.state
	t.resetBreaks()
	t.day = day
	t.session.CheckIn = now
	if day.CheckInTime != nil {
		t.session.CheckIn = *day.CheckInTime
	}
	t.sessionStart = now
	t.state = Working
	return Event{From: from, To: Working, At: now}, nil
}

func (t *Timer) StartBreak(now time.Time) (Event, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != Working {
		return Event{}, t.invalid(OnBreak)
	}
	t.session.Breaks = append(t.session.Breaks, attendance.BreakInterval{Start: now})
	t.state = OnBreak
	return Event{From: Working, To: OnBreak, At: now}, nil
}

func (t *Timer) EndBreak(now time.Time) (Event, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != OnBreak {
		return Event{}, t.invalid(Working)
	}
	d := t.closeBreak(now)
	t.state = Working
	return Event{From: OnBreak, To: Working, At: now, Break: d}, nil
}

// CheckOut moves to CheckedOut after the backend accepted a check-out. A
// running break is closed first.
func (t *Timer) CheckOut(day attendance.Day, now time.Time) (Event, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != Working && t.state != OnBreak {
		return Event{}, t.invalid(CheckedOut)
	}

	from := t.state
	var d time.Duration
	if from == OnBreak {
		d = t.closeBreak(now)
	}
	t.day = day
	t.resetBreaks()
	t.sessionStart = time.Time{}
	t.state = CheckedOut
	return Event{From: from, To: CheckedOut, At: now, Break: d}, nil
}

// Sync applies a record fetched from the backend, whatever the local state.
// The returned bool is false when the state did not change.
func (t *Timer) Sync(day attendance.Day, now time.Time) (Event, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	from := t.state
	t.day = day

	switch {
	case !day.CheckedIn():
		t.resetBreaks()
		t.session.CheckIn = time.Time{}
		t.sessionStart = time.Time{}
		t.state = NotCheckedIn
	case day.Open():
		sameSession := (from == Working || from == OnBreak) && t.session.CheckIn.Equal(*day.CheckInTime)
		if !sameSession {
			t.resetBreaks()
			t.sessionStart = now
			t.state = Working
		}
		t.session.CheckIn = *day.CheckInTime
	default:
		t.resetBreaks()
		t.session.CheckIn = *day.CheckInTime
		t.sessionStart = time.Time{}
		t.state = CheckedOut
	}

	if t.state == from {
		return Event{}, false
	}
	return Event{From: from, To: t.state, At: now}, true
}

// Tick computes the display for now without mutating the timer.
func (t *Timer) Tick(now time.Time) Display {
	t.mu.RLock()
	defer t.mu.RUnlock()

	d := Display{State: t.state, TotalBreak: t.session.TotalBreak(now)}

	switch t.state {
	case Working, OnBreak:
		if open, ok := t.session.OpenBreak(); ok {
			d.BreakElapsed = open.Duration(now)
		}
		d.WorkElapsed = t.session.Effective(now)
		d.Running = true
	case CheckedOut:
		if worked, ok := t.day.Worked(); ok {
			d.WorkElapsed = worked
		}
	}

	d.Work = attendance.FormatClock(d.WorkElapsed)
	d.Break = attendance.FormatClock(d.BreakElapsed)
	return d
}

// Breaks returns the breaks taken in the current session, oldest first. A
// running break is last, with a nil End.
func (t *Timer) Breaks() []attendance.BreakInterval {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]attendance.BreakInterval, len(t.session.Breaks))
	copy(out, t.session.Breaks)
	return out
}

// TotalBreak is the sum of completed breaks in the current session.
func (t *Timer) TotalBreak() time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.session.TotalBreak(time.Time{})
}

// closeBreak ends the running break at now. The caller checks the state.
func (t *Timer) closeBreak(now time.Time) time.Duration {
	last := len(t.session.Breaks) - 1
	if last < 0 || t.session.Breaks[last].End != nil {
		return 0
	}
	end := now
	if end.Before(t.session.Breaks[last].Start) {
		end = t.session.Breaks[last].Start
	}
	t.session.Breaks[last].End = &end
	return t.session.Breaks[last].Duration(now)
}

func (t *Timer) resetBreaks() {
	t.session.Breaks = nil
}

func (t *Timer) invalid(to State) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.state, to)
}
