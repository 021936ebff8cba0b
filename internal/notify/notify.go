// Package notify delivers best-effort desktop notifications for attendance
// transitions. A notifier never fails and never blocks the caller on
// permission.
package notify

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"hrms_tui/internal/attendance"
	"hrms_tui/internal/timer"
)

type Permission int

const (
	Default Permission = iota
	Granted
	Denied
)

func ParsePermission(s string) Permission {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "granted", "true", "yes", "on", "1":
		return Granted
	case "denied", "false", "no", "off", "0":
		return Denied
	}
	return Default
}

func (p Permission) String() string {
	switch p {
	case Granted:
		return "granted"
	case Denied:
		return "denied"
	}
	return "default"
}

type Notifier interface {
	Notify(title, body string)
}

// Terminal writes OSC 9 notifications, which most terminal emulators forward
// to the desktop. Anything but Granted drops the message.
type Terminal struct {
	mu         sync.Mutex
	out        io.Writer
	permission Permission
}

func NewTerminal(out io.Writer, permission Permission) *Terminal {
	return &Terminal{out: out, permission: permission}
}

func (t *Terminal) Permission() Permission {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.permission
}

func (t *Terminal) SetPermission(p Permission) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.permission = p
}

func (t *Terminal) Notify(title, body string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.permission != Granted || t.out == nil {
		return
	}
	msg := sanitize(title)
	if body != "" {
		msg += ": " + sanitize(body)
	}
	// write errors are ignored, the notification is a courtesy
	_, _ = fmt.Fprintf(t.out, "\x1b]9;%s\x07\a", msg)
}

// sanitize strips control characters that would end the escape sequence early.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}

// Message is a notification captured by Recorder.
type Message struct {
	Title string
	Body  string
}

// Recorder keeps every notification in memory.
type Recorder struct {
	mu       sync.Mutex
	Messages []Message
}

func (r *Recorder) Notify(title, body string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = append(r.Messages, Message{Title: title, Body: body})
}

func (r *Recorder) All() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.Messages))
	copy(out, r.Messages)
	return out
}

// ForEvent returns the title and body announcing a timer transition.
func ForEvent(ev timer.Event) (string, string) {
	at := ev.At.Format("15:04")
	switch ev.To {
	case timer.Working:
		if ev.From == timer.OnBreak {
			return "Break ended", fmt.Sprintf("Back to work at %s after %s", at, attendance.FormatClock(ev.Break))
		}
		return "Checked in", fmt.Sprintf("Work timer started at %s", at)
	case timer.OnBreak:
		return "Break started", fmt.Sprintf("Enjoy your break (%s)", at)
	case timer.CheckedOut:
		return "Checked out", fmt.Sprintf("Have a good evening (%s)", at)
	case timer.NotCheckedIn:
		return "Not checked in", "No attendance recorded for today"
	}
	return "Attendance", ev.To.String()
}

// Send announces ev through n.
func Send(n Notifier, ev timer.Event) {
	if n == nil {
		return
	}
	title, body := ForEvent(ev)
	n.Notify(title, body)
}
