package hrms

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ListEmployees returns one page of employees. Admin roles only.
func (c *Client) ListEmployees(ctx context.Context, offset, limit int) ([]Employee, error) {
	q := url.Values{}
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))

	var out []Employee
	err := c.do(ctx, "list_employees", http.MethodGet, "/users/", q, nil, &out)
	return out, err
}

func (c *Client) CreateEmployee(ctx context.Context, e Employee) (Employee, error) {
	var out Employee
	err := c.do(ctx, "create_employee", http.MethodPost, "/users/", nil, e, &out)
	return out, err
}

func (c *Client) UpdateEmployee(ctx context.Context, e Employee) (Employee, error) {
	if e.ID == 0 {
		return Employee{}, fmt.Errorf("%w: employee id is required", ErrValidation)
	}
	var out Employee
	err := c.do(ctx, "update_employee", http.MethodPut, fmt.Sprintf("/users/%d", e.ID), nil, e, &out)
	return out, err
}

func (c *Client) DeleteEmployee(ctx context.Context, id int64) error {
	return c.do(ctx, "delete_employee", http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil, nil)
}

// ListHolidays returns the holiday calendar; year 0 means the current one.
func (c *Client) ListHolidays(ctx context.Context, year int) ([]Holiday, error) {
	var q url.Values
	if year > 0 {
		q = url.Values{"year": {strconv.Itoa(year)}}
	}
	var out []Holiday
	err := c.do(ctx, "list_holidays", http.MethodGet, "/holidays/", q, nil, &out)
	return out, err
}

func (c *Client) MyLeaves(ctx context.Context) ([]Leave, error) {
	var out []Leave
	err := c.do(ctx, "my_leaves", http.MethodGet, "/leaves/my-leaves", nil, nil, &out)
	return out, err
}

func (c *Client) ApplyLeave(ctx context.Context, req LeaveRequest) (Leave, error) {
	if req.StartDate == "" || req.EndDate == "" {
		return Leave{}, fmt.Errorf("%w: start and end date are required", ErrValidation)
	}
	if req.EndDate < req.StartDate {
		return Leave{}, fmt.Errorf("%w: end date is before start date", ErrValidation)
	}
	var out Leave
	err := c.do(ctx, "apply_leave", http.MethodPost, "/leaves/apply", nil, req, &out)
	return out, err
}

// PendingLeaves lists leaves awaiting a decision. Admin roles only.
func (c *Client) PendingLeaves(ctx context.Context) ([]Leave, error) {
	var out []Leave
	err := c.do(ctx, "pending_leaves", http.MethodGet, "/leaves/pending", nil, nil, &out)
	return out, err
}

func (c *Client) DecideLeave(ctx context.Context, id int64, status LeaveStatus) (Leave, error) {
	if status != LeaveApproved && status != LeaveRejected {
		return Leave{}, fmt.Errorf("%w: unknown leave status %q", ErrValidation, status)
	}
	var out Leave
	body := map[string]LeaveStatus{"status": status}
	err := c.do(ctx, "decide_leave", http.MethodPut, fmt.Sprintf("/leaves/%d/status", id), nil, body, &out)
	return out, err
}
