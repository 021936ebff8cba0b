package internal

import (
	"fmt"
	"os"
	"strings"
	"time"

	"hrms_tui/internal/attendance"
	"hrms_tui/internal/hrms"
	"hrms_tui/internal/spreadsheet"

	tea "github.com/charmbracelet/bubbletea"
)

type msgRefresh struct{}

type msgLogin struct {
	session hrms.Session
	err     error
}

// msgToday carries a today-status result. Background results come from the
// periodic refresh and fail silently.
type msgToday struct {
	day        attendance.Day
	background bool
	err        error
}

type msgCheckIn struct {
	day attendance.Day
	err error
}

type msgCheckOut struct {
	day attendance.Day
	err error
}

type msgHistory struct {
	page attendance.Page
	err  error
}

type msgLeaves struct {
	mine    []hrms.Leave
	pending []hrms.Leave
	err     error
}

type msgLeaveSaved struct {
	text string
	err  error
}

type msgHolidays struct {
	holidays []hrms.Holiday
	err      error
}

type msgEmployees struct {
	employees []hrms.Employee
	err       error
}

type msgImported struct {
	result   spreadsheet.ImportResult
	rejected []spreadsheet.RowError
	err      error
}

type msgExported struct {
	path string
	err  error
}

// msgDone reports a finished mutation and an optional follow-up command.
type msgDone struct {
	text string
	next tea.Cmd
	err  error
}

// armRefresh schedules the next background refresh unless one is pending.
func (m *Model) armRefresh() tea.Cmd {
	if m.refreshArmed || m.refreshInterval <= 0 {
		return nil
	}
	m.refreshArmed = true
	return tea.Tick(m.refreshInterval, func(time.Time) tea.Msg {
		return msgRefresh{}
	})
}

func (m *Model) login(email, password string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()
		s, err := client.Login(ctx, strings.TrimSpace(email), password)
		return msgLogin{session: s, err: err}
	}
}

func (m *Model) fetchToday(background bool) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()
		day, err := client.TodayStatus(ctx)
		return msgToday{day: day, background: background, err: err}
	}
}

// checkIn awaits the check-in and then reloads today's status, so the timer
// is driven by the backend's view of the day.
func (m *Model) checkIn() tea.Cmd {
	client := m.client
	logger := m.logger
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()
		day, err := client.CheckIn(ctx)
		if err != nil {
			return msgCheckIn{err: err}
		}
		if status, err := client.TodayStatus(ctx); err == nil {
			day = status
		} else {
			logger.Printf("status after check-in: %v", err)
		}
		return msgCheckIn{day: day}
	}
}

func (m *Model) checkOut() tea.Cmd {
	client := m.client
	logger := m.logger
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()
		day, err := client.CheckOut(ctx)
		if err != nil {
			return msgCheckOut{err: err}
		}
		if status, err := client.TodayStatus(ctx); err == nil {
			day = status
		} else {
			logger.Printf("status after check-out: %v", err)
		}
		return msgCheckOut{day: day}
	}
}

func (m *Model) fetchHistory(offset int) tea.Cmd {
	client := m.client
	limit := m.pageSize
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()
		page, err := client.MyAttendance(ctx, offset, limit)
		return msgHistory{page: page, err: err}
	}
}

func (m *Model) fetchLeaves() tea.Cmd {
	client := m.client
	approver := m.Role.CanApproveLeaves()
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()
		mine, err := client.MyLeaves(ctx)
		if err != nil {
			return msgLeaves{err: err}
		}
		var pending []hrms.Leave
		if approver {
			if pending, err = client.PendingLeaves(ctx); err != nil {
				return msgLeaves{err: err}
			}
		}
		return msgLeaves{mine: mine, pending: pending}
	}
}

func (m *Model) applyLeave(req hrms.LeaveRequest) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()
		_, err := client.ApplyLeave(ctx, req)
		return msgLeaveSaved{text: "Leave requested", err: err}
	}
}

func (m *Model) decideLeave(id int64, status hrms.LeaveStatus) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()
		_, err := client.DecideLeave(ctx, id, status)
		return msgLeaveSaved{text: fmt.Sprintf("Leave %d %s", id, status), err: err}
	}
}

func (m *Model) fetchHolidays() tea.Cmd {
	client := m.client
	year := m.HolidayYear
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()
		holidays, err := client.ListHolidays(ctx, year)
		return msgHolidays{holidays: holidays, err: err}
	}
}

// employeePageSize bounds the admin list; the directory is small.
const employeePageSize = 500

func (m *Model) fetchEmployees() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()
		employees, err := client.ListEmployees(ctx, 0, employeePageSize)
		return msgEmployees{employees: employees, err: err}
	}
}

func (m *Model) deleteEmployee(e hrms.Employee) tea.Cmd {
	client := m.client
	next := m.fetchEmployees()
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()
		err := client.DeleteEmployee(ctx, e.ID)
		return msgDone{text: "Deleted " + e.Email, next: next, err: err}
	}
}

func (m *Model) updateEmployee(e hrms.Employee) tea.Cmd {
	client := m.client
	next := m.fetchEmployees()
	return func() tea.Msg {
		ctx, cancel := m.ctx()
		defer cancel()
		_, err := client.UpdateEmployee(ctx, e)
		return msgDone{text: "Updated " + e.Email, next: next, err: err}
	}
}

func (m *Model) importEmployees(path string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return msgImported{err: err}
		}
		defer f.Close()

		rows, err := spreadsheet.ReadRows(f, path)
		if err != nil {
			return msgImported{err: err}
		}
		parsed, rejected, err := spreadsheet.ParseEmployees(rows)
		if err != nil {
			return msgImported{err: err}
		}
		ctx, cancel := m.ctx()
		defer cancel()
		res, err := spreadsheet.Import(ctx, client, parsed)
		return msgImported{result: res, rejected: rejected, err: err}
	}
}

func (m *Model) exportEmployees(path string) tea.Cmd {
	employees := append([]hrms.Employee(nil), m.Employees...)
	return func() tea.Msg {
		return msgExported{path: path, err: writeFile(path, func(f *os.File) error {
			return spreadsheet.WriteEmployees(f, employees)
		})}
	}
}

func (m *Model) exportAttendance(path string) tea.Cmd {
	days := append([]attendance.Day(nil), m.History.Records...)
	return func() tea.Msg {
		return msgExported{path: path, err: writeFile(path, func(f *os.File) error {
			return spreadsheet.WriteAttendance(f, days, time.Local)
		})}
	}
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func normalizeFormDate(v string) (string, error) {
	if strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("required")
	}
	return spreadsheet.NormalizeDate(v)
}

func displayName(u hrms.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
