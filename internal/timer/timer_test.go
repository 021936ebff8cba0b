package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hrms_tui/internal/attendance"
)

var t0 = time.Date(2024, time.August, 15, 9, 0, 0, 0, time.UTC)

func openDay(checkIn time.Time) attendance.Day {
	return attendance.Day{CheckInTime: &checkIn}
}

func closedDay(checkIn, checkOut time.Time, hours float64) attendance.Day {
	return attendance.Day{CheckInTime: &checkIn, CheckOutTime: &checkOut, TotalHours: &hours}
}

func TestNewTimerIsNotCheckedIn(t *testing.T) {
	tm := New()
	d := tm.Tick(t0)

	require.Equal(t, NotCheckedIn, d.State)
	require.False(t, d.Running)
	require.Equal(t, "00:00:00", d.Work)
	require.Equal(t, "00:00:00", d.Break)
}

func TestBreakScenario(t *testing.T) {
	tm := New()
	_, err := tm.CheckIn(openDay(t0), t0)
	require.NoError(t, err)

	_, err = tm.StartBreak(t0.Add(10 * time.Second))
	require.NoError(t, err)

	d := tm.Tick(t0.Add(25 * time.Second))
	require.Equal(t, OnBreak, d.State)
	require.Equal(t, 10*time.Second, d.WorkElapsed)
	require.Equal(t, "00:00:15", d.Break)

	ev, err := tm.EndBreak(t0.Add(40 * time.Second))
	require.NoError(t, err)
	require.Equal(t, 30*time.Second, ev.Break)
	require.Equal(t, 30*time.Second, tm.TotalBreak())

	d = tm.Tick(t0.Add(50 * time.Second))
	require.Equal(t, Working, d.State)
	require.Equal(t, 20*time.Second, d.WorkElapsed)
	require.Equal(t, "00:00:20", d.Work)
	require.Equal(t, "00:00:00", d.Break)
}

func TestWorkTimerFrozenDuringBreak(t *testing.T) {
	tm := New()
	_, err := tm.CheckIn(openDay(t0), t0)
	require.NoError(t, err)
	_, err = tm.StartBreak(t0.Add(time.Minute))
	require.NoError(t, err)

	first := tm.Tick(t0.Add(2 * time.Minute))
	second := tm.Tick(t0.Add(7 * time.Minute))
	require.Equal(t, first.Work, second.Work)
	require.Equal(t, time.Minute, second.WorkElapsed)
}

func TestTotalBreakIsSumOfIntervals(t *testing.T) {
	tm := New()
	_, err := tm.CheckIn(openDay(t0), t0)
	require.NoError(t, err)

	intervals := []struct{ start, length time.Duration }{
		{time.Minute, 5 * time.Second},
		{10 * time.Minute, 3 * time.Minute},
		{time.Hour, 17 * time.Second},
		{2 * time.Hour, 45 * time.Minute},
	}
	var want time.Duration
	for _, iv := range intervals {
		_, err := tm.StartBreak(t0.Add(iv.start))
		require.NoError(t, err)
		_, err = tm.EndBreak(t0.Add(iv.start + iv.length))
		require.NoError(t, err)
		want += iv.length
	}

	require.Equal(t, want, tm.TotalBreak())
	require.Len(t, tm.Breaks(), len(intervals))

	now := t0.Add(4 * time.Hour)
	require.Equal(t, 4*time.Hour-want, tm.Tick(now).WorkElapsed)
}

func TestRunningBreakIsListedOpen(t *testing.T) {
	tm := New()
	_, err := tm.CheckIn(openDay(t0), t0)
	require.NoError(t, err)
	_, err = tm.StartBreak(t0.Add(time.Minute))
	require.NoError(t, err)
	_, err = tm.EndBreak(t0.Add(2 * time.Minute))
	require.NoError(t, err)
	_, err = tm.StartBreak(t0.Add(5 * time.Minute))
	require.NoError(t, err)

	breaks := tm.Breaks()
	require.Len(t, breaks, 2)
	require.NotNil(t, breaks[0].End)
	require.Nil(t, breaks[1].End)
	require.Equal(t, time.Minute, tm.TotalBreak())

	now := t0.Add(8 * time.Minute)
	session := attendance.WorkSession{CheckIn: t0, Breaks: breaks}
	d := tm.Tick(now)
	require.Equal(t, session.Effective(now), d.WorkElapsed)
	require.Equal(t, 4*time.Minute, d.WorkElapsed)
	require.Equal(t, 3*time.Minute, d.BreakElapsed)
	require.Equal(t, time.Minute, d.TotalBreak)

	_, err = tm.EndBreak(now)
	require.NoError(t, err)
	require.Equal(t, 4*time.Minute, tm.TotalBreak())
	require.Equal(t, 4*time.Minute, tm.Tick(now).WorkElapsed)
}

func TestDisplayedWorkNeverNegative(t *testing.T) {
	tm := New()
	// server clock ahead of ours
	_, err := tm.CheckIn(openDay(t0.Add(time.Hour)), t0)
	require.NoError(t, err)

	d := tm.Tick(t0)
	require.Equal(t, time.Duration(0), d.WorkElapsed)
	require.Equal(t, "00:00:00", d.Work)

	_, err = tm.StartBreak(t0.Add(2 * time.Hour))
	require.NoError(t, err)
	// break start observed after "now"
	d = tm.Tick(t0.Add(time.Hour))
	require.GreaterOrEqual(t, d.WorkElapsed, time.Duration(0))
	require.GreaterOrEqual(t, d.BreakElapsed, time.Duration(0))
}

func TestCheckOutResetsBreaksAndUsesServerTotal(t *testing.T) {
	tm := New()
	_, err := tm.CheckIn(openDay(t0), t0)
	require.NoError(t, err)
	_, err = tm.StartBreak(t0.Add(time.Second))
	require.NoError(t, err)
	_, err = tm.EndBreak(t0.Add(3 * time.Second))
	require.NoError(t, err)

	ev, err := tm.CheckOut(closedDay(t0, t0.Add(5*time.Second), 0.5), t0.Add(5*time.Second))
	require.NoError(t, err)
	require.Equal(t, Working, ev.From)
	require.Equal(t, CheckedOut, ev.To)
	require.Equal(t, time.Duration(0), tm.TotalBreak())
	require.Empty(t, tm.Breaks())
	require.True(t, tm.SessionStart().IsZero())

	d := tm.Tick(t0.Add(time.Hour))
	require.Equal(t, CheckedOut, d.State)
	require.False(t, d.Running)
	// backend total of half an hour, not the five seconds seen locally
	require.Equal(t, "00:30:00", d.Work)

	_, err = tm.CheckIn(openDay(t0.Add(2*time.Hour)), t0.Add(2*time.Hour))
	require.NoError(t, err)
	require.Equal(t, time.Duration(0), tm.TotalBreak())
	require.Equal(t, Working, tm.State())
}

func TestCheckOutDuringBreakClosesIt(t *testing.T) {
	tm := New()
	_, err := tm.CheckIn(openDay(t0), t0)
	require.NoError(t, err)
	_, err = tm.StartBreak(t0.Add(time.Minute))
	require.NoError(t, err)

	ev, err := tm.CheckOut(closedDay(t0, t0.Add(3*time.Minute), 0.05), t0.Add(3*time.Minute))
	require.NoError(t, err)
	require.Equal(t, OnBreak, ev.From)
	require.Equal(t, 2*time.Minute, ev.Break)
	require.Equal(t, CheckedOut, tm.State())
}

func TestInvalidTransitionsLeaveStateUnchanged(t *testing.T) {
	tm := New()

	_, err := tm.StartBreak(t0)
	require.ErrorIs(t, err, ErrInvalidTransition)
	_, err = tm.EndBreak(t0)
	require.ErrorIs(t, err, ErrInvalidTransition)
	_, err = tm.CheckOut(attendance.Day{}, t0)
	require.ErrorIs(t, err, ErrInvalidTransition)
	require.Equal(t, NotCheckedIn, tm.State())

	_, err = tm.CheckIn(openDay(t0), t0)
	require.NoError(t, err)
	_, err = tm.CheckIn(openDay(t0), t0)
	require.ErrorIs(t, err, ErrInvalidTransition)
	_, err = tm.EndBreak(t0)
	require.ErrorIs(t, err, ErrInvalidTransition)
	require.Equal(t, Working, tm.State())
}

func TestSyncReconstructsFromBackend(t *testing.T) {
	tm := New()

	_, changed := tm.Sync(attendance.Day{}, t0)
	require.False(t, changed)
	require.Equal(t, NotCheckedIn, tm.State())

	ev, changed := tm.Sync(openDay(t0), t0.Add(time.Hour))
	require.True(t, changed)
	require.Equal(t, NotCheckedIn, ev.From)
	require.Equal(t, Working, ev.To)
	require.Equal(t, time.Duration(0), tm.TotalBreak())
	require.Equal(t, time.Hour, tm.Tick(t0.Add(time.Hour)).WorkElapsed)
}

func TestSyncKeepsBreaksForSameSession(t *testing.T) {
	tm := New()
	_, err := tm.CheckIn(openDay(t0), t0)
	require.NoError(t, err)
	_, err = tm.StartBreak(t0.Add(time.Minute))
	require.NoError(t, err)
	_, err = tm.EndBreak(t0.Add(2 * time.Minute))
	require.NoError(t, err)
	_, err = tm.StartBreak(t0.Add(3 * time.Minute))
	require.NoError(t, err)

	_, changed := tm.Sync(openDay(t0), t0.Add(4*time.Minute))
	require.False(t, changed)
	require.Equal(t, OnBreak, tm.State())
	require.Equal(t, time.Minute, tm.TotalBreak())
}

func TestSyncNewTimerLosesBreaks(t *testing.T) {
	before := New()
	_, err := before.CheckIn(openDay(t0), t0)
	require.NoError(t, err)
	_, err = before.StartBreak(t0.Add(time.Minute))
	require.NoError(t, err)
	_, err = before.EndBreak(t0.Add(11 * time.Minute))
	require.NoError(t, err)

	// a restart only has the backend record to go on
	after := New()
	after.Sync(before.Day(), t0.Add(time.Hour))
	require.Equal(t, Working, after.State())
	require.Equal(t, time.Duration(0), after.TotalBreak())
	require.Equal(t, time.Hour, after.Tick(t0.Add(time.Hour)).WorkElapsed)
}

func TestSyncClosedDay(t *testing.T) {
	tm := New()
	_, err := tm.CheckIn(openDay(t0), t0)
	require.NoError(t, err)

	ev, changed := tm.Sync(closedDay(t0, t0.Add(8*time.Hour), 8), t0.Add(8*time.Hour))
	require.True(t, changed)
	require.Equal(t, CheckedOut, ev.To)
	require.Equal(t, "08:00:00", tm.Tick(t0.Add(9*time.Hour)).Work)

	_, changed = tm.Sync(attendance.Day{}, t0.Add(24*time.Hour))
	require.True(t, changed)
	require.Equal(t, NotCheckedIn, tm.State())
	require.False(t, tm.Tick(t0.Add(24*time.Hour)).Running)
}

func TestStateString(t *testing.T) {
	require.Equal(t, "working", Working.String())
	require.Equal(t, "state(9)", State(9).String())
}
