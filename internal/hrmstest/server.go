// Package hrmstest provides an in-memory HRMS backend for tests.
package hrmstest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"hrms_tui/internal/attendance"
	"hrms_tui/internal/hrms"
)

const Password = "secret"

// Server is a fake backend. Every field behind mu may be changed by tests
// between calls.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	now       func() time.Time
	users     map[string]hrms.User
	tokens    map[string]hrms.User
	today     attendance.Day
	history   []attendance.Day
	employees []hrms.Employee
	holidays  []hrms.Holiday
	leaves    []hrms.Leave
	failures  map[string]int
	calls     map[string]int
	nextID    int64
}

// New starts a fake backend with one user per role.
func New() *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		now:      time.Now,
		users:    make(map[string]hrms.User),
		tokens:   make(map[string]hrms.User),
		failures: make(map[string]int),
		calls:    make(map[string]int),
		nextID:   100,
	}
	s.users["user@example.com"] = hrms.User{ID: 1, Name: "Uma User", Email: "user@example.com", Role: "user"}
	s.users["admin@example.com"] = hrms.User{ID: 2, Name: "Ada Admin", Email: "admin@example.com", Role: "admin"}
	s.users["root@example.com"] = hrms.User{ID: 3, Name: "Sam Super", Email: "root@example.com", Role: "super_admin"}

	s.Server = httptest.NewServer(s.router())
	return s
}

// SetClock replaces the clock used for check-in/out timestamps.
func (s *Server) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Fail makes the next n calls to path answer with status.
func (s *Server) Fail(path string, status, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[failureKey(path, status)] = n
}

// Calls returns how many times path was hit.
func (s *Server) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

func (s *Server) SetToday(day attendance.Day) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.today = day
}

func (s *Server) Today() attendance.Day {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.today
}

func (s *Server) SetHistory(days []attendance.Day) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = days
}

func (s *Server) SetHolidays(h []hrms.Holiday) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holidays = h
}

func (s *Server) SetLeaves(l []hrms.Leave) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leaves = l
}

func (s *Server) Employees() []hrms.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]hrms.Employee, len(s.employees))
	copy(out, s.employees)
	return out
}

func (s *Server) Leaves() []hrms.Leave {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]hrms.Leave, len(s.leaves))
	copy(out, s.leaves)
	return out
}

// Token issues a session token for email without going through /auth/login.
func (s *Server) Token(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issue(s.users[email])
}

// Expire invalidates every issued token.
func (s *Server) Expire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = make(map[string]hrms.User)
}

func (s *Server) issue(u hrms.User) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   strconv.FormatInt(u.ID, 10),
		"email": u.Email,
		"role":  u.Role,
		"exp":   s.now().Add(time.Hour).Unix(),
		"jti":   strconv.FormatInt(s.nextID, 10),
	}).SignedString([]byte("hrmstest"))
	if err != nil {
		panic(err)
	}
	s.nextID++
	s.tokens[token] = u
	return token
}

func failureKey(path string, status int) string {
	return fmt.Sprintf("%s#%d", path, status)
}

func (s *Server) router() *gin.Engine {
	r := gin.New()
	r.Use(s.count, s.inject)

	r.POST("/auth/login", s.login)

	authed := r.Group("/", s.authenticate)
	authed.POST("/trackers/check-in", s.checkIn)
	authed.POST("/trackers/check-out", s.checkOut)
	authed.GET("/trackers/today-status", s.todayStatus)
	authed.GET("/trackers/my-attendance", s.myAttendance)
	authed.GET("/holidays/", s.listHolidays)
	authed.GET("/leaves/my-leaves", s.myLeaves)
	authed.POST("/leaves/apply", s.applyLeave)

	admin := authed.Group("/", s.requireAdmin)
	admin.GET("/users/", s.listEmployees)
	admin.POST("/users/", s.createEmployee)
	admin.PUT("/users/:id", s.updateEmployee)
	admin.DELETE("/users/:id", s.deleteEmployee)
	admin.GET("/leaves/pending", s.pendingLeaves)
	admin.PUT("/leaves/:id/status", s.decideLeave)
	return r
}

func (s *Server) count(c *gin.Context) {
	s.mu.Lock()
	s.calls[c.Request.URL.Path]++
	s.mu.Unlock()
	c.Next()
}

func (s *Server) inject(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, n := range s.failures {
		path, statusText, _ := strings.Cut(key, "#")
		if path != c.Request.URL.Path || n <= 0 {
			continue
		}
		status, _ := strconv.Atoi(statusText)
		s.failures[key] = n - 1
		c.AbortWithStatusJSON(status, gin.H{"detail": "injected failure"})
		return
	}
}

func (s *Server) authenticate(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	s.mu.Lock()
	u, ok := s.tokens[token]
	s.mu.Unlock()
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
		return
	}
	c.Set("user", u)
	c.Next()
}

func (s *Server) requireAdmin(c *gin.Context) {
	u := c.MustGet("user").(hrms.User)
	if u.Role != "admin" && u.Role != "super_admin" {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "Not enough permissions"})
		return
	}
	c.Next()
}

func (s *Server) login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[strings.ToLower(req.Email)]
	if !ok || req.Password != Password {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Incorrect email or password"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": s.issue(u), "token_type": "bearer", "user": u})
}

func (s *Server) checkIn(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.today.Open() {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Already checked in"})
		return
	}
	now := s.now().UTC()
	s.today = attendance.Day{ID: s.nextID, Date: now.Format("2006-01-02"), CheckInTime: &now}
	s.nextID++
	c.JSON(http.StatusOK, s.today)
}

func (s *Server) checkOut(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.today.Open() {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Not checked in"})
		return
	}
	now := s.now().UTC()
	hours := now.Sub(*s.today.CheckInTime).Hours()
	s.today.CheckOutTime = &now
	s.today.TotalHours = &hours
	s.history = append([]attendance.Day{s.today}, s.history...)
	c.JSON(http.StatusOK, s.today)
}

func (s *Server) todayStatus(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.today)
}

func (s *Server) myAttendance(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"records": window(s.history, offset, limit), "total": len(s.history)})
}

func (s *Server) listHolidays(c *gin.Context) {
	year := c.Query("year")
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []hrms.Holiday{}
	for _, h := range s.holidays {
		if year == "" || strings.HasPrefix(h.Date, year) {
			out = append(out, h)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) myLeaves(c *gin.Context) {
	u := c.MustGet("user").(hrms.User)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []hrms.Leave{}
	for _, l := range s.leaves {
		if l.UserID == u.ID {
			out = append(out, l)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) applyLeave(c *gin.Context) {
	u := c.MustGet("user").(hrms.User)
	var req hrms.LeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	l := hrms.Leave{
		ID:           s.nextID,
		UserID:       u.ID,
		EmployeeName: u.Name,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		LeaveType:    req.LeaveType,
		Reason:       req.Reason,
		Status:       hrms.LeavePending,
	}
	s.nextID++
	s.leaves = append(s.leaves, l)
	c.JSON(http.StatusOK, l)
}

func (s *Server) pendingLeaves(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []hrms.Leave{}
	for _, l := range s.leaves {
		if l.Status == hrms.LeavePending {
			out = append(out, l)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) decideLeave(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	var req struct {
		Status hrms.LeaveStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.leaves {
		if s.leaves[i].ID == id {
			s.leaves[i].Status = req.Status
			c.JSON(http.StatusOK, s.leaves[i])
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"detail": "Leave not found"})
}

func (s *Server) listEmployees(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, window(s.employees, offset, limit))
}

func (s *Server) createEmployee(c *gin.Context) {
	var e hrms.Employee
	if err := c.ShouldBindJSON(&e); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	if e.Name == "" || e.Email == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "name and email are required"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.employees {
		if strings.EqualFold(existing.Email, e.Email) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Email already registered"})
			return
		}
	}
	e.ID = s.nextID
	e.Password = ""
	s.nextID++
	s.employees = append(s.employees, e)
	c.JSON(http.StatusOK, e)
}

func (s *Server) updateEmployee(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	var e hrms.Employee
	if err := c.ShouldBindJSON(&e); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.employees {
		if s.employees[i].ID == id {
			e.ID = id
			s.employees[i] = e
			c.JSON(http.StatusOK, e)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
}

func (s *Server) deleteEmployee(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.employees {
		if s.employees[i].ID == id {
			s.employees = append(s.employees[:i], s.employees[i+1:]...)
			c.Status(http.StatusNoContent)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
}

func window[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}
