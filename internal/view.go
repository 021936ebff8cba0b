package internal

import (
	"fmt"
	"strings"
	"time"

	"hrms_tui/internal/attendance"
	"hrms_tui/internal/hrms"
	"hrms_tui/internal/timer"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true).
			Align(lipgloss.Center)

	itemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	itemSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("170")).
				Background(lipgloss.Color("235")).
				Padding(0, 1)

	timerDisplayStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("69")).
				Bold(true)

	timerRunningStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("82")).
				Bold(true)

	breakRunningStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("214")).
				Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170"))

	inputInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	logHeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	logTagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170"))

	logTimeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	inactiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	toastStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	toastErrStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

const (
	screenWidth  = 80
	screenHeight = 24
	listRows     = 12
)

var stateLabels = map[timer.State]string{
	timer.NotCheckedIn: "Not checked in",
	timer.Working:      "Working",
	timer.OnBreak:      "On break",
	timer.CheckedOut:   "Checked out",
}

func (m *Model) header(title string) string {
	return titleStyle.Width(screenWidth).Render(title) + "\n\n"
}

func (m *Model) footer(help string) string {
	var sb strings.Builder
	sb.WriteString("\n\n")
	sb.WriteString(helpStyle.Render(help))
	if m.Toast != "" {
		sb.WriteString("\n")
		if m.ToastErr {
			sb.WriteString(toastErrStyle.Render(m.Toast))
		} else {
			sb.WriteString(toastStyle.Render(m.Toast))
		}
	}
	return sb.String()
}

func (m *Model) mainView() string {
	var sb strings.Builder

	title := "HRMS Attendance"
	if m.Session.User.Email != "" {
		title += " | " + displayName(m.Session.User)
	}
	sb.WriteString(m.header(title))

	boxes := lipgloss.JoinHorizontal(lipgloss.Top,
		m.timerView(),
		"  ",
		m.todayView(),
	)
	sb.WriteString(boxes)

	help := "Check in: i | Check out: o | Break: b | History: h | Leaves: v | Holidays: c"
	if m.Role.CanManageEmployees() {
		help += " | Employees: e"
	}
	help += " | Refresh: r | Logout: x | Quit: q"
	sb.WriteString(m.footer(help))
	return sb.String()
}

func (m *Model) timerView() string {
	d := m.Display

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Status: %s\n\n", stateLabels[d.State]))

	sb.WriteString("Work   ")
	switch d.State {
	case timer.Working:
		sb.WriteString(timerRunningStyle.Render(d.Work))
	default:
		sb.WriteString(timerDisplayStyle.Render(d.Work))
	}
	sb.WriteString("\nBreak  ")
	if d.State == timer.OnBreak {
		sb.WriteString(breakRunningStyle.Render(d.Break))
	} else {
		sb.WriteString(inactiveStyle.Render(d.Break))
	}
	sb.WriteString(fmt.Sprintf("\n\nTotal break: %s\n", attendance.FormatClock(d.TotalBreak)))

	breaks := m.Timer.Breaks()
	if len(breaks) > 0 {
		sb.WriteString("\n")
		sb.WriteString(logHeaderStyle.Render("Breaks"))
		sb.WriteString("\n")
		start := max(len(breaks)-4, 0)
		for _, b := range breaks[start:] {
			sb.WriteString(formatBreak(b, m.now()))
			sb.WriteString("\n")
		}
	}

	return boxStyle.Width(34).Height(15).Render(sb.String())
}

func (m *Model) todayView() string {
	day := m.Timer.Day()

	var sb strings.Builder
	sb.WriteString(logHeaderStyle.Render("Today"))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("Check in:  %s\n", clockOrDash(day.CheckInTime)))
	sb.WriteString(fmt.Sprintf("Check out: %s\n", clockOrDash(day.CheckOutTime)))
	sb.WriteString(fmt.Sprintf("Hours:     %s\n", attendance.FormatHours(day.TotalHours)))
	if m.Busy {
		sb.WriteString("\n" + inactiveStyle.Render("Working..."))
	}
	if m.Role.CanManageEmployees() {
		sb.WriteString("\n\n" + logTagStyle.Render("["+string(m.Role)+"]"))
	}
	return boxStyle.Width(36).Height(15).Render(sb.String())
}

func (m *Model) loginView() string {
	emailLabel := m.fieldLabel("Email: ", 0)
	passLabel := m.fieldLabel("Password: ", 1)

	emailValue := m.Email
	if m.InputFocus == 0 {
		emailValue = inputStyle.Render(emailValue + "█")
	}
	passValue := strings.Repeat("*", len([]rune(m.Password)))
	if m.InputFocus == 1 {
		passValue = inputStyle.Render(passValue + "█")
	}

	help := "Tab: Switch | Enter: Log in | Esc: Quit"
	if m.Busy {
		help = "Logging in..."
	}

	form := fmt.Sprintf("%s\n\n%s%s\n\n%s%s%s",
		titleStyle.Render("HRMS Login"),
		emailLabel, emailValue,
		passLabel, passValue,
		m.footer(help),
	)

	return lipgloss.Place(
		screenWidth, screenHeight,
		lipgloss.Center, lipgloss.Center,
		boxStyle.Width(56).Render(form),
	)
}

func (m *Model) fieldLabel(label string, focus int) string {
	if m.InputFocus == focus {
		return inputStyle.Render("→ " + label)
	}
	return inputInactiveStyle.Render("  " + label)
}

func (m *Model) historyView() string {
	var sb strings.Builder
	title := "Attendance History"
	if m.Offline {
		title += " (cached)"
	}
	sb.WriteString(m.header(title))

	if len(m.History.Records) == 0 {
		sb.WriteString(inactiveStyle.Render("No attendance recorded yet."))
	} else {
		for i, day := range visible(m.History.Records, m.LogViewScroll) {
			line := formatDay(day)
			if i == 0 {
				sb.WriteString(itemSelectedStyle.Render(line))
			} else {
				sb.WriteString(itemStyle.Render(line))
			}
			sb.WriteString("\n")
		}
		if m.History.Total > 0 {
			page := m.HistoryOffset/max(m.pageSize, 1) + 1
			pages := (m.History.Total + m.pageSize - 1) / max(m.pageSize, 1)
			sb.WriteString(logTimeStyle.Render(fmt.Sprintf("\nPage %d of %d (%d records)", page, max(pages, 1), m.History.Total)))
		}
	}

	sb.WriteString(m.footer("Scroll: Up/Down | Page: Left/Right | Export: s | Back: Esc"))
	return sb.String()
}

func (m *Model) leavesView() string {
	var sb strings.Builder
	sb.WriteString(m.header("Leaves"))

	sb.WriteString(logHeaderStyle.Render("My leaves"))
	sb.WriteString("\n")
	if len(m.Leaves) == 0 {
		sb.WriteString(inactiveStyle.Render("  none") + "\n")
	}
	for _, l := range m.Leaves {
		sb.WriteString(formatLeave(l))
		sb.WriteString("\n")
	}

	help := "New: n | Back: Esc"
	if m.Role.CanApproveLeaves() {
		sb.WriteString("\n")
		sb.WriteString(logHeaderStyle.Render("Awaiting decision"))
		sb.WriteString("\n")
		if len(m.Pending) == 0 {
			sb.WriteString(inactiveStyle.Render("  none") + "\n")
		}
		for i, l := range m.Pending {
			line := fmt.Sprintf("%s  %s", l.EmployeeName, strings.TrimSpace(formatLeave(l)))
			if i == m.SelectedIndex {
				sb.WriteString(itemSelectedStyle.Render(line))
			} else {
				sb.WriteString(itemStyle.Render(line))
			}
			sb.WriteString("\n")
		}
		help = "Navigate: Up/Down | Approve: y | Reject: r | " + help
	}

	sb.WriteString(m.footer(help))
	return sb.String()
}

func (m *Model) leaveFormView() string {
	var sb strings.Builder
	for i, name := range leaveFields {
		value := m.LeaveForm[i]
		if m.InputFocus == i {
			value = inputStyle.Render(value + "█")
		}
		sb.WriteString(m.fieldLabel(name+": ", i))
		sb.WriteString(value)
		sb.WriteString("\n\n")
	}

	form := fmt.Sprintf("%s\n\n%s%s",
		titleStyle.Render("Apply for Leave"),
		sb.String(),
		m.footer(fmt.Sprintf("Tab: Switch (Focused: %s) | Enter: Next/Submit | Esc: Cancel", leaveFields[m.InputFocus])),
	)

	return lipgloss.Place(
		screenWidth, screenHeight,
		lipgloss.Center, lipgloss.Center,
		boxStyle.Width(60).Render(form),
	)
}

func (m *Model) employeeFormView() string {
	var sb strings.Builder
	for i, name := range employeeFields {
		value := m.EmployeeForm[i]
		if m.InputFocus == i {
			value = inputStyle.Render(value + "█")
		}
		sb.WriteString(m.fieldLabel(name+": ", i))
		sb.WriteString(value)
		sb.WriteString("\n\n")
	}

	form := fmt.Sprintf("%s\n%s\n\n%s%s",
		titleStyle.Render("Edit Employee"),
		inactiveStyle.Render(m.editing.Email),
		sb.String(),
		m.footer("Tab: Switch | Enter: Next/Save | Esc: Cancel"),
	)

	return lipgloss.Place(
		screenWidth, screenHeight,
		lipgloss.Center, lipgloss.Center,
		boxStyle.Width(60).Render(form),
	)
}

func (m *Model) holidaysView() string {
	var sb strings.Builder
	sb.WriteString(m.header(fmt.Sprintf("Holidays %d", m.HolidayYear)))

	if len(m.Holidays) == 0 {
		sb.WriteString(inactiveStyle.Render("No holidays listed for this year."))
	}
	for _, h := range visible(m.Holidays, m.LogViewScroll) {
		line := fmt.Sprintf("  %s  %s", logTimeStyle.Render(h.Date), h.Name)
		if h.Description != "" {
			line += " " + inactiveStyle.Render(h.Description)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	sb.WriteString(m.footer("Scroll: Up/Down | Year: Left/Right | Back: Esc"))
	return sb.String()
}

func (m *Model) employeesView() string {
	var sb strings.Builder
	sb.WriteString(m.header("Employees"))

	if len(m.Employees) == 0 {
		sb.WriteString(inactiveStyle.Render("No employees yet. Press 'i' to import a sheet."))
		sb.WriteString("\n")
	}
	start := max(m.SelectedIndex-listRows+1, 0)
	for i, e := range visible(m.Employees, start) {
		line := fmt.Sprintf("%-22s %-28s %s", truncate(e.Name, 22), truncate(e.Email, 28), e.Department)
		if start+i == m.SelectedIndex {
			sb.WriteString(itemSelectedStyle.Render(line))
		} else {
			sb.WriteString(itemStyle.Render(line))
		}
		sb.WriteString("\n")
	}

	if len(m.ImportErrors) > 0 {
		sb.WriteString("\n")
		sb.WriteString(logHeaderStyle.Render("Rejected rows"))
		sb.WriteString("\n")
		for _, e := range m.ImportErrors[:min(len(m.ImportErrors), 5)] {
			sb.WriteString(toastErrStyle.Render("  " + e))
			sb.WriteString("\n")
		}
	}

	sb.WriteString(m.footer("Navigate: Up/Down | Edit: u | Import: i | Export: s | Delete: d | Reload: r | Back: Esc"))
	return sb.String()
}

func (m *Model) pathPromptView() string {
	title := "Import employees"
	switch m.PendingPath {
	case PathExportEmployees:
		title = "Export employees"
	case PathExportAttendance:
		title = "Export attendance"
	}

	form := fmt.Sprintf("%s\n\n%s%s%s",
		titleStyle.Render(title),
		inputStyle.Render("→ File: "),
		inputStyle.Render(m.PathInput+"█"),
		m.footer("Enter: Confirm | Esc: Cancel"),
	)

	return lipgloss.Place(
		screenWidth, screenHeight,
		lipgloss.Center, lipgloss.Center,
		boxStyle.Width(60).Render(form),
	)
}

func formatDay(d attendance.Day) string {
	date := d.Date
	if date == "" && d.CheckInTime != nil {
		date = d.CheckInTime.Local().Format("2006-01-02")
	}
	return fmt.Sprintf("%s  %s → %s  %s",
		logTimeStyle.Render(date),
		clockOrDash(d.CheckInTime),
		clockOrDash(d.CheckOutTime),
		attendance.FormatHours(d.TotalHours),
	)
}

func formatBreak(b attendance.BreakInterval, now time.Time) string {
	end := "now"
	if b.End != nil {
		end = b.End.Local().Format("15:04")
	}
	return fmt.Sprintf("  %s  %s-%s  %s", logTagStyle.Render("●"), b.Start.Local().Format("15:04"), end, attendance.FormatClock(b.Duration(now)))
}

func formatLeave(l hrms.Leave) string {
	return fmt.Sprintf("  %s → %s  %s %s",
		logTimeStyle.Render(l.StartDate),
		logTimeStyle.Render(l.EndDate),
		l.LeaveType,
		logTagStyle.Render("["+string(l.Status)+"]"),
	)
}

func clockOrDash(t *time.Time) string {
	if t == nil {
		return "--:--"
	}
	return t.Local().Format("15:04:05")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// visible returns at most listRows items starting at from.
func visible[T any](items []T, from int) []T {
	if from >= len(items) {
		return nil
	}
	from = max(from, 0)
	return items[from:min(from+listRows, len(items))]
}
