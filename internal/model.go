package internal

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"time"

	"hrms_tui/internal/attendance"
	"hrms_tui/internal/auth"
	"hrms_tui/internal/hrms"
	"hrms_tui/internal/notify"
	"hrms_tui/internal/observability"
	"hrms_tui/internal/session"
	"hrms_tui/internal/timer"

	tea "github.com/charmbracelet/bubbletea"
)

// MsgTick drives the work and break clocks. main sends one per tick interval.
type MsgTick struct{}

type Screen int

const (
	ScreenLogin Screen = iota
	ScreenDashboard
	ScreenHistory
	ScreenLeaves
	ScreenLeaveForm
	ScreenHolidays
	ScreenEmployees
	ScreenEmployeeForm
	ScreenPathPrompt
)

type PathAction int

const (
	PathImportEmployees PathAction = iota
	PathExportEmployees
	PathExportAttendance
)

const (
	toastTTL       = 4 * time.Second
	sessionExpired = "Session expired, please log in again"
)

// Option configures optional behaviour for the Model.
type Option func(*Model)

func WithNotifier(n notify.Notifier) Option {
	return func(m *Model) { m.notifier = n }
}

func WithLogger(l *log.Logger) Option {
	return func(m *Model) { m.logger = l }
}

func WithMetrics(mt *observability.Metrics) Option {
	return func(m *Model) { m.metrics = mt }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

func WithRefreshInterval(d time.Duration) Option {
	return func(m *Model) { m.refreshInterval = d }
}

func WithPageSize(n int) Option {
	return func(m *Model) { m.pageSize = n }
}

func WithRequestTimeout(d time.Duration) Option {
	return func(m *Model) { m.requestTimeout = d }
}

type Model struct {
	Screen     Screen
	prevScreen Screen
	Session    hrms.Session
	Role       auth.Role
	Timer      *timer.Timer
	Display    timer.Display
	Busy       bool
	Err        error

	// Login form
	Email      string
	Password   string
	InputFocus int

	// Transient notification line
	Toast      string
	ToastErr   bool
	ToastUntil time.Time

	// History viewer state
	History       attendance.Page
	HistoryOffset int
	LogViewScroll int
	Offline       bool

	// Leaves
	Leaves        []hrms.Leave
	Pending       []hrms.Leave
	SelectedIndex int
	LeaveForm     [4]string

	Holidays     []hrms.Holiday
	HolidayYear  int
	Employees    []hrms.Employee
	EmployeeForm [4]string
	PathInput    string
	PendingPath  PathAction
	ImportErrors []string

	client          *hrms.Client
	repo            *session.Repository
	notifier        notify.Notifier
	logger          *log.Logger
	metrics         *observability.Metrics
	now             func() time.Time
	refreshInterval time.Duration
	requestTimeout  time.Duration
	pageSize        int
	refreshArmed    bool
	// synced is false until today's status has been applied once for the
	// current session. That first sync restores state without notifying.
	synced  bool
	editing hrms.Employee
}

// NewModel restores a stored session when there is one that has not expired.
func NewModel(client *hrms.Client, repo *session.Repository, opts ...Option) *Model {
	m := &Model{
		Screen:          ScreenLogin,
		Timer:           timer.New(),
		client:          client,
		repo:            repo,
		logger:          log.New(io.Discard, "", 0),
		now:             time.Now,
		refreshInterval: 30 * time.Second,
		requestTimeout:  15 * time.Second,
		pageSize:        10,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.HolidayYear = m.now().Year()

	s, err := repo.LoadSession()
	switch {
	case errors.Is(err, session.ErrNoSession):
	case err != nil:
		m.logger.Printf("load session: %v", err)
	default:
		claims, cerr := auth.ParseToken(s.Token)
		if cerr == nil && claims.Expired(m.now()) {
			m.logger.Printf("stored session for %s expired at %s", s.User.Email, claims.ExpiresAt)
			_ = repo.ClearSession()
			break
		}
		m.startSession(s)
	}
	m.Display = m.Timer.Tick(m.now())
	return m
}

func (m *Model) Init() tea.Cmd {
	if m.Screen == ScreenLogin {
		return nil
	}
	return tea.Batch(m.fetchToday(false), m.armRefresh())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MsgTick:
		now := m.now()
		m.Display = m.Timer.Tick(now)
		if m.Toast != "" && !now.Before(m.ToastUntil) {
			m.Toast = ""
		}
		return m, nil
	case msgRefresh:
		m.refreshArmed = false
		if m.Screen == ScreenLogin {
			return m, nil
		}
		return m, tea.Batch(m.fetchToday(true), m.armRefresh())
	case msgLogin:
		return m.handleLogin(msg)
	case msgToday:
		return m.handleToday(msg)
	case msgCheckIn:
		return m.handleCheckIn(msg)
	case msgCheckOut:
		return m.handleCheckOut(msg)
	case msgHistory:
		return m.handleHistory(msg)
	case msgLeaves:
		return m.handleLeaves(msg)
	case msgLeaveSaved:
		return m.handleLeaveSaved(msg)
	case msgHolidays:
		m.Busy = false
		if m.failed(msg.err) {
			return m, nil
		}
		m.Holidays = msg.holidays
		m.LogViewScroll = 0
		return m, nil
	case msgEmployees:
		m.Busy = false
		if m.failed(msg.err) {
			return m, nil
		}
		m.Employees = msg.employees
		if m.SelectedIndex >= len(m.Employees) {
			m.SelectedIndex = max(len(m.Employees)-1, 0)
		}
		return m, nil
	case msgImported:
		return m.handleImported(msg)
	case msgExported:
		m.Busy = false
		if m.failed(msg.err) {
			return m, nil
		}
		m.toast("Saved "+msg.path, false)
		return m, nil
	case msgDone:
		m.Busy = false
		if m.failed(msg.err) {
			return m, nil
		}
		m.toast(msg.text, false)
		return m, msg.next
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		return m, nil
	}
	return m, nil
}

func (m *Model) View() string {
	switch m.Screen {
	case ScreenLogin:
		return m.loginView()
	case ScreenHistory:
		return m.historyView()
	case ScreenLeaves:
		return m.leavesView()
	case ScreenLeaveForm:
		return m.leaveFormView()
	case ScreenHolidays:
		return m.holidaysView()
	case ScreenEmployees:
		return m.employeesView()
	case ScreenEmployeeForm:
		return m.employeeFormView()
	case ScreenPathPrompt:
		return m.pathPromptView()
	}
	return m.mainView()
}

// Close releases the local store. Breaks are not saved anywhere.
func (m *Model) Close() error {
	return m.repo.Close()
}

func (m *Model) startSession(s hrms.Session) {
	m.Session = s
	m.Role = s.Role()
	m.client.SetToken(s.Token)
	m.Screen = ScreenDashboard
}

// logout drops the stored session and every piece of per-user state.
func (m *Model) logout(reason string) {
	if err := m.repo.ClearSession(); err != nil {
		m.logger.Printf("clear session: %v", err)
	}
	m.client.SetToken("")
	m.Session = hrms.Session{}
	m.Role = auth.RoleUser
	m.Timer = timer.New()
	m.Display = m.Timer.Tick(m.now())
	m.History = attendance.Page{}
	m.Leaves, m.Pending, m.Employees, m.Holidays = nil, nil, nil, nil
	m.EmployeeForm = [4]string{}
	m.editing = hrms.Employee{}
	m.synced = false
	m.Password = ""
	m.InputFocus = 0
	m.Busy = false
	m.Screen = ScreenLogin
	if reason != "" {
		m.toast(reason, true)
	}
}

func (m *Model) toast(text string, isErr bool) {
	m.Toast = text
	m.ToastErr = isErr
	m.ToastUntil = m.now().Add(toastTTL)
}

// failed reports whether err needs handling and surfaces it. An expired
// session sends the user back to the login screen whatever was running. A
// refused permission (ErrForbidden) only shows a toast.
func (m *Model) failed(err error) bool {
	if err == nil {
		return false
	}
	m.Err = err
	if errors.Is(err, hrms.ErrUnauthorized) && m.Screen != ScreenLogin {
		m.logger.Printf("session rejected: %v", err)
		m.logout(sessionExpired)
		return true
	}
	m.toast(hrms.UserMessage(err), true)
	return true
}

func (m *Model) record(ev timer.Event) {
	m.metrics.RecordTransition(ev.From.String(), ev.To.String())
	notify.Send(m.notifier, ev)
	m.Display = m.Timer.Tick(m.now())
}

func (m *Model) handleLogin(msg msgLogin) (tea.Model, tea.Cmd) {
	m.Busy = false
	if msg.err != nil {
		m.Err = msg.err
		m.toast(hrms.UserMessage(msg.err), true)
		return m, nil
	}
	if err := m.repo.SaveSession(msg.session); err != nil {
		m.logger.Printf("save session: %v", err)
	}
	m.startSession(msg.session)
	m.Password = ""
	m.toast("Welcome, "+displayName(msg.session.User), false)
	return m, tea.Batch(m.fetchToday(false), m.armRefresh())
}

func (m *Model) handleToday(msg msgToday) (tea.Model, tea.Cmd) {
	// results still in flight from a session that has since ended
	if m.Screen == ScreenLogin {
		return m, nil
	}
	if msg.err != nil {
		if msg.background && !errors.Is(msg.err, hrms.ErrUnauthorized) {
			m.logger.Printf("background refresh: %v", msg.err)
			return m, nil
		}
		m.failed(msg.err)
		return m, nil
	}
	// last write wins: whatever arrives latest is applied
	now := m.now()
	if ev, changed := m.Timer.Sync(msg.day, now); changed && m.synced {
		m.record(ev)
	}
	m.synced = true
	m.metrics.RecordSync(now)
	m.Display = m.Timer.Tick(now)
	return m, nil
}

func (m *Model) handleCheckIn(msg msgCheckIn) (tea.Model, tea.Cmd) {
	m.Busy = false
	if m.Screen == ScreenLogin || m.failed(msg.err) {
		return m, nil
	}
	m.synced = true
	now := m.now()
	ev, err := m.Timer.CheckIn(msg.day, now)
	if err != nil {
		// a refresh got there first; align with the backend instead
		var changed bool
		if ev, changed = m.Timer.Sync(msg.day, now); !changed {
			m.Display = m.Timer.Tick(now)
			return m, nil
		}
	}
	m.record(ev)
	m.toast("Checked in", false)
	return m, nil
}

func (m *Model) handleCheckOut(msg msgCheckOut) (tea.Model, tea.Cmd) {
	m.Busy = false
	if m.Screen == ScreenLogin || m.failed(msg.err) {
		return m, nil
	}
	m.synced = true
	now := m.now()
	ev, err := m.Timer.CheckOut(msg.day, now)
	if err != nil {
		var changed bool
		if ev, changed = m.Timer.Sync(msg.day, now); !changed {
			m.Display = m.Timer.Tick(now)
			return m, nil
		}
	}
	m.record(ev)
	m.toast("Checked out", false)
	return m, nil
}

func (m *Model) handleHistory(msg msgHistory) (tea.Model, tea.Cmd) {
	m.Busy = false
	if msg.err != nil {
		if errors.Is(msg.err, hrms.ErrNetwork) {
			cached, err := m.repo.CachedHistory(m.pageSize)
			if err == nil && len(cached) > 0 {
				m.History = attendance.Page{Records: cached, Total: len(cached), Limit: m.pageSize}
				m.Offline = true
				m.toast("Offline, showing cached history", true)
				return m, nil
			}
		}
		m.failed(msg.err)
		return m, nil
	}
	m.History = msg.page
	m.HistoryOffset = msg.page.Offset
	m.LogViewScroll = 0
	m.Offline = false
	if err := m.repo.CacheHistory(msg.page.Records); err != nil {
		m.logger.Printf("cache history: %v", err)
	}
	return m, nil
}

func (m *Model) handleLeaves(msg msgLeaves) (tea.Model, tea.Cmd) {
	m.Busy = false
	if m.failed(msg.err) {
		return m, nil
	}
	m.Leaves = msg.mine
	m.Pending = msg.pending
	if m.SelectedIndex >= len(m.Pending) {
		m.SelectedIndex = max(len(m.Pending)-1, 0)
	}
	return m, nil
}

func (m *Model) handleLeaveSaved(msg msgLeaveSaved) (tea.Model, tea.Cmd) {
	m.Busy = false
	if m.failed(msg.err) {
		return m, nil
	}
	m.LeaveForm = [4]string{}
	m.InputFocus = 0
	m.Screen = ScreenLeaves
	m.toast(msg.text, false)
	return m, m.fetchLeaves()
}

func (m *Model) handleImported(msg msgImported) (tea.Model, tea.Cmd) {
	m.Busy = false
	m.ImportErrors = nil
	for _, re := range msg.rejected {
		m.ImportErrors = append(m.ImportErrors, re.Error())
	}
	for _, re := range msg.result.Failed {
		m.ImportErrors = append(m.ImportErrors, re.Error())
	}
	if m.failed(msg.err) {
		return m, nil
	}
	text := pluralize(len(msg.result.Created), "employee") + " imported"
	if n := len(m.ImportErrors); n > 0 {
		text += ", " + pluralize(n, "row") + " rejected"
	}
	m.toast(text, len(m.ImportErrors) > 0)
	return m, m.fetchEmployees()
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.Screen {
	case ScreenLogin:
		return m.handleLoginInput(msg)
	case ScreenHistory:
		return m.handleHistoryInput(msg)
	case ScreenLeaves:
		return m.handleLeavesInput(msg)
	case ScreenLeaveForm:
		return m.handleLeaveFormInput(msg)
	case ScreenHolidays:
		return m.handleHolidaysInput(msg)
	case ScreenEmployees:
		return m.handleEmployeesInput(msg)
	case ScreenEmployeeForm:
		return m.handleEmployeeFormInput(msg)
	case ScreenPathPrompt:
		return m.handlePathInput(msg)
	}
	return m.handleDashboardInput(msg)
}

func (m *Model) handleDashboardInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "i":
		if m.Busy {
			return m, nil
		}
		if st := m.Timer.State(); st != timer.NotCheckedIn && st != timer.CheckedOut {
			m.toast("Already checked in", true)
			return m, nil
		}
		m.Busy = true
		return m, m.checkIn()
	case "o":
		if m.Busy {
			return m, nil
		}
		if st := m.Timer.State(); st != timer.Working && st != timer.OnBreak {
			m.toast("You are not checked in", true)
			return m, nil
		}
		m.Busy = true
		return m, m.checkOut()
	case "b":
		now := m.now()
		var ev timer.Event
		var err error
		if m.Timer.State() == timer.OnBreak {
			ev, err = m.Timer.EndBreak(now)
		} else {
			ev, err = m.Timer.StartBreak(now)
		}
		if err != nil {
			m.toast("Check in before taking a break", true)
			return m, nil
		}
		m.record(ev)
	case "r":
		return m, m.fetchToday(false)
	case "h":
		m.Screen = ScreenHistory
		m.Busy = true
		return m, m.fetchHistory(0)
	case "v":
		m.Screen = ScreenLeaves
		m.SelectedIndex = 0
		m.Busy = true
		return m, m.fetchLeaves()
	case "c":
		m.Screen = ScreenHolidays
		m.LogViewScroll = 0
		m.Busy = true
		return m, m.fetchHolidays()
	case "e":
		if !m.Role.CanManageEmployees() {
			m.toast("Employee management needs an admin account", true)
			return m, nil
		}
		m.Screen = ScreenEmployees
		m.SelectedIndex = 0
		m.Busy = true
		return m, m.fetchEmployees()
	case "x":
		m.logout("Logged out")
	}
	return m, nil
}

func (m *Model) handleLoginInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "tab", "shift+tab", "up", "down":
		m.InputFocus = 1 - m.InputFocus
	case "enter":
		if m.InputFocus == 0 {
			m.InputFocus = 1
			return m, nil
		}
		if m.Email == "" || m.Password == "" {
			m.toast("Email and password are required", true)
			return m, nil
		}
		if m.Busy {
			return m, nil
		}
		m.Busy = true
		return m, m.login(m.Email, m.Password)
	case "backspace":
		if m.InputFocus == 0 {
			m.Email = dropLast(m.Email)
		} else {
			m.Password = dropLast(m.Password)
		}
	default:
		if r := msg.Runes; msg.Type == tea.KeyRunes && len(r) > 0 {
			if m.InputFocus == 0 {
				m.Email += string(r)
			} else {
				m.Password += string(r)
			}
		}
	}
	return m, nil
}

func (m *Model) handleHistoryInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "h":
		m.Screen = ScreenDashboard
	case "up", "k":
		if m.LogViewScroll > 0 {
			m.LogViewScroll--
		}
	case "down", "j":
		if m.LogViewScroll < len(m.History.Records)-1 {
			m.LogViewScroll++
		}
	case "right", "n":
		if m.History.HasNext() && !m.Busy {
			m.Busy = true
			return m, m.fetchHistory(m.HistoryOffset + m.pageSize)
		}
	case "left", "p":
		if m.HistoryOffset > 0 && !m.Busy {
			m.Busy = true
			return m, m.fetchHistory(max(m.HistoryOffset-m.pageSize, 0))
		}
	case "s":
		m.promptPath(PathExportAttendance, "attendance.xlsx")
	}
	return m, nil
}

func (m *Model) handleLeavesInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.Screen = ScreenDashboard
	case "up", "k":
		if m.SelectedIndex > 0 {
			m.SelectedIndex--
		}
	case "down", "j":
		if m.SelectedIndex < len(m.Pending)-1 {
			m.SelectedIndex++
		}
	case "n":
		m.Screen = ScreenLeaveForm
		m.LeaveForm = [4]string{}
		m.InputFocus = 0
	case "y", "r":
		if !m.Role.CanApproveLeaves() || len(m.Pending) == 0 || m.Busy {
			return m, nil
		}
		status := hrms.LeaveApproved
		if msg.String() == "r" {
			status = hrms.LeaveRejected
		}
		m.Busy = true
		return m, m.decideLeave(m.Pending[m.SelectedIndex].ID, status)
	}
	return m, nil
}

var leaveFields = [4]string{"Start date", "End date", "Type", "Reason"}

func (m *Model) handleLeaveFormInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Screen = ScreenLeaves
	case "tab", "down":
		m.InputFocus = (m.InputFocus + 1) % len(m.LeaveForm)
	case "shift+tab", "up":
		m.InputFocus = (m.InputFocus + len(m.LeaveForm) - 1) % len(m.LeaveForm)
	case "enter":
		if m.InputFocus < len(m.LeaveForm)-1 {
			m.InputFocus++
			return m, nil
		}
		req, err := m.leaveRequest()
		if err != nil {
			m.toast(err.Error(), true)
			return m, nil
		}
		if m.Busy {
			return m, nil
		}
		m.Busy = true
		return m, m.applyLeave(req)
	case "backspace":
		m.LeaveForm[m.InputFocus] = dropLast(m.LeaveForm[m.InputFocus])
	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.LeaveForm[m.InputFocus] += string(msg.Runes)
		}
	}
	return m, nil
}

func (m *Model) handleHolidaysInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "c":
		m.Screen = ScreenDashboard
	case "up", "k":
		if m.LogViewScroll > 0 {
			m.LogViewScroll--
		}
	case "down", "j":
		if m.LogViewScroll < len(m.Holidays)-1 {
			m.LogViewScroll++
		}
	case "left", "p":
		m.HolidayYear--
		m.Busy = true
		return m, m.fetchHolidays()
	case "right", "n":
		m.HolidayYear++
		m.Busy = true
		return m, m.fetchHolidays()
	}
	return m, nil
}

func (m *Model) handleEmployeesInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.Screen = ScreenDashboard
	case "up", "k":
		if m.SelectedIndex > 0 {
			m.SelectedIndex--
		}
	case "down", "j":
		if m.SelectedIndex < len(m.Employees)-1 {
			m.SelectedIndex++
		}
	case "r":
		m.Busy = true
		return m, m.fetchEmployees()
	case "i":
		m.ImportErrors = nil
		m.promptPath(PathImportEmployees, "")
	case "s":
		m.promptPath(PathExportEmployees, "employees.xlsx")
	case "u":
		if len(m.Employees) == 0 || m.Busy {
			return m, nil
		}
		e := m.Employees[m.SelectedIndex]
		m.editing = e
		m.EmployeeForm = [4]string{e.Name, e.Designation, e.Department, e.Role}
		m.InputFocus = 0
		m.Screen = ScreenEmployeeForm
	case "d":
		if len(m.Employees) == 0 || m.Busy {
			return m, nil
		}
		m.Busy = true
		return m, m.deleteEmployee(m.Employees[m.SelectedIndex])
	}
	return m, nil
}

var employeeFields = [4]string{"Name", "Designation", "Department", "Role"}

func (m *Model) handleEmployeeFormInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Screen = ScreenEmployees
	case "tab", "down":
		m.InputFocus = (m.InputFocus + 1) % len(m.EmployeeForm)
	case "shift+tab", "up":
		m.InputFocus = (m.InputFocus + len(m.EmployeeForm) - 1) % len(m.EmployeeForm)
	case "enter":
		if m.InputFocus < len(m.EmployeeForm)-1 {
			m.InputFocus++
			return m, nil
		}
		e, err := m.editedEmployee()
		if err != nil {
			m.toast(err.Error(), true)
			return m, nil
		}
		if m.Busy {
			return m, nil
		}
		m.Busy = true
		m.Screen = ScreenEmployees
		return m, m.updateEmployee(e)
	case "backspace":
		m.EmployeeForm[m.InputFocus] = dropLast(m.EmployeeForm[m.InputFocus])
	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.EmployeeForm[m.InputFocus] += string(msg.Runes)
		}
	}
	return m, nil
}

// editedEmployee applies the form to the employee being edited. Fields the
// form does not show are sent back unchanged.
func (m *Model) editedEmployee() (hrms.Employee, error) {
	e := m.editing
	e.Name = strings.TrimSpace(m.EmployeeForm[0])
	if e.Name == "" {
		return hrms.Employee{}, errors.New("name is required")
	}
	e.Designation = strings.TrimSpace(m.EmployeeForm[1])
	e.Department = strings.TrimSpace(m.EmployeeForm[2])
	e.Role = string(auth.ParseRole(m.EmployeeForm[3]))
	return e, nil
}

func (m *Model) promptPath(action PathAction, suggestion string) {
	m.prevScreen = m.Screen
	m.PendingPath = action
	m.PathInput = suggestion
	m.Screen = ScreenPathPrompt
}

func (m *Model) handlePathInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Screen = m.prevScreen
	case "enter":
		path := m.PathInput
		if path == "" {
			m.toast("A file path is required", true)
			return m, nil
		}
		m.Screen = m.prevScreen
		m.Busy = true
		switch m.PendingPath {
		case PathImportEmployees:
			return m, m.importEmployees(path)
		case PathExportEmployees:
			return m, m.exportEmployees(path)
		default:
			return m, m.exportAttendance(path)
		}
	case "backspace":
		m.PathInput = dropLast(m.PathInput)
	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.PathInput += string(msg.Runes)
		}
	}
	return m, nil
}

func (m *Model) leaveRequest() (hrms.LeaveRequest, error) {
	start, err := normalizeFormDate(m.LeaveForm[0])
	if err != nil {
		return hrms.LeaveRequest{}, errors.New("start date: " + err.Error())
	}
	end, err := normalizeFormDate(m.LeaveForm[1])
	if err != nil {
		return hrms.LeaveRequest{}, errors.New("end date: " + err.Error())
	}
	if end < start {
		return hrms.LeaveRequest{}, errors.New("end date is before start date")
	}
	leaveType := m.LeaveForm[2]
	if leaveType == "" {
		leaveType = "casual"
	}
	return hrms.LeaveRequest{StartDate: start, EndDate: end, LeaveType: leaveType, Reason: m.LeaveForm[3]}, nil
}

func (m *Model) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), m.requestTimeout)
}

func dropLast(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}
