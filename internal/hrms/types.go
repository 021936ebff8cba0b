package hrms

import "hrms_tui/internal/auth"

// User is the profile returned alongside an access token.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Session is what the client keeps after a successful login.
type Session struct {
	Token string `json:"access_token"`
	User  User   `json:"user"`
}

// Role trusts the token's role claim. The user blob is only consulted for
// opaque tokens or tokens without a role.
func (s Session) Role() auth.Role {
	if claims, err := auth.ParseToken(s.Token); err == nil && claims.Role != "" {
		return claims.Role
	}
	return auth.ParseRole(s.User.Role)
}

type Employee struct {
	ID            int64  `json:"id,omitempty"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone,omitempty"`
	Designation   string `json:"designation,omitempty"`
	Department    string `json:"department,omitempty"`
	Role          string `json:"role,omitempty"`
	DateOfJoining string `json:"date_of_joining,omitempty"`
	DateOfBirth   string `json:"date_of_birth,omitempty"`
	Password      string `json:"password,omitempty"`
}

type Holiday struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name"`
	Date        string `json:"date"`
	Description string `json:"description,omitempty"`
}

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

type Leave struct {
	ID           int64       `json:"id"`
	UserID       int64       `json:"user_id,omitempty"`
	EmployeeName string      `json:"employee_name,omitempty"`
	StartDate    string      `json:"start_date"`
	EndDate      string      `json:"end_date"`
	LeaveType    string      `json:"leave_type"`
	Reason       string      `json:"reason"`
	Status       LeaveStatus `json:"status"`
}

type LeaveRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	LeaveType string `json:"leave_type"`
	Reason    string `json:"reason"`
}
