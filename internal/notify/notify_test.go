package notify

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hrms_tui/internal/timer"
)

func TestTerminalRequiresPermission(t *testing.T) {
	var buf bytes.Buffer

	n := NewTerminal(&buf, Default)
	n.Notify("Checked in", "hello")
	require.Zero(t, buf.Len())

	n.SetPermission(Denied)
	n.Notify("Checked in", "hello")
	require.Zero(t, buf.Len())

	n.SetPermission(Granted)
	n.Notify("Checked in", "hello\x07world")
	require.Equal(t, "\x1b]9;Checked in: helloworld\x07\a", buf.String())
}

func TestParsePermission(t *testing.T) {
	require.Equal(t, Granted, ParsePermission(" Granted "))
	require.Equal(t, Denied, ParsePermission("off"))
	require.Equal(t, Default, ParsePermission(""))
	require.Equal(t, "denied", Denied.String())
}

func TestForEvent(t *testing.T) {
	at := time.Date(2024, time.August, 15, 13, 5, 0, 0, time.UTC)

	title, _ := ForEvent(timer.Event{From: timer.NotCheckedIn, To: timer.Working, At: at})
	require.Equal(t, "Checked in", title)

	title, body := ForEvent(timer.Event{From: timer.OnBreak, To: timer.Working, At: at, Break: 90 * time.Second})
	require.Equal(t, "Break ended", title)
	require.Contains(t, body, "00:01:30")

	title, _ = ForEvent(timer.Event{From: timer.Working, To: timer.CheckedOut, At: at})
	require.Equal(t, "Checked out", title)
}

func TestSendRecords(t *testing.T) {
	rec := &Recorder{}
	Send(rec, timer.Event{From: timer.Working, To: timer.OnBreak})
	Send(nil, timer.Event{})

	msgs := rec.All()
	require.Len(t, msgs, 1)
	require.Equal(t, "Break started", msgs[0].Title)
}
