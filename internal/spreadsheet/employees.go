package spreadsheet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"hrms_tui/internal/attendance"
	"hrms_tui/internal/auth"
	"hrms_tui/internal/hrms"
)

var ErrMissingColumn = errors.New("missing required column")

// RowError ties a rejected row to its 1-based line in the sheet.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// EmployeeRow is an employee parsed from the given sheet line.
type EmployeeRow struct {
	Line     int
	Employee hrms.Employee
}

var employeeColumns = map[string][]string{
	"name":        {"name", "full name", "employee name"},
	"email":       {"email", "email address", "e mail"},
	"phone":       {"phone", "phone number", "mobile", "contact"},
	"designation": {"designation", "title", "job title", "position"},
	"department":  {"department", "dept"},
	"role":        {"role", "access role"},
	"joining":     {"date of joining", "joining date", "doj", "join date"},
	"birth":       {"date of birth", "birth date", "dob", "birthday"},
	"password":    {"password"},
}

func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(employeeColumns))
	for key := range employeeColumns {
		idx[key] = -1
	}
	for i, h := range header {
		h = normalizeHeader(h)
		for key, aliases := range employeeColumns {
			if idx[key] >= 0 {
				continue
			}
			for _, alias := range aliases {
				if h == alias {
					idx[key] = i
				}
			}
		}
	}
	return idx
}

// ParseEmployees maps sheet rows to employees. The first row is the header.
// Only rows missing a name or email, or carrying an unreadable date, are
// rejected; blank rows are skipped.
func ParseEmployees(rows [][]string) ([]EmployeeRow, []RowError, error) {
	if len(rows) == 0 {
		return nil, nil, ErrEmptySheet
	}
	idx := columnIndex(rows[0])
	for _, required := range []string{"name", "email"} {
		if idx[required] < 0 {
			return nil, nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	var out []EmployeeRow
	var rejected []RowError
	for i, row := range rows[1:] {
		line := i + 2
		if blankRow(row) {
			continue
		}
		e, err := employeeFromRow(row, idx)
		if err != nil {
			rejected = append(rejected, RowError{Line: line, Err: err})
			continue
		}
		out = append(out, EmployeeRow{Line: line, Employee: e})
	}
	return out, rejected, nil
}

func employeeFromRow(row []string, idx map[string]int) (hrms.Employee, error) {
	e := hrms.Employee{
		Name:        cellValue(row, idx["name"]),
		Email:       strings.ToLower(cellValue(row, idx["email"])),
		Phone:       cellValue(row, idx["phone"]),
		Designation: cellValue(row, idx["designation"]),
		Department:  cellValue(row, idx["department"]),
		Role:        string(auth.ParseRole(cellValue(row, idx["role"]))),
		Password:    cellValue(row, idx["password"]),
	}
	if e.Name == "" {
		return hrms.Employee{}, errors.New("name is required")
	}
	if e.Email == "" || !strings.Contains(e.Email, "@") {
		return hrms.Employee{}, fmt.Errorf("invalid email %q", e.Email)
	}

	var err error
	if v := cellValue(row, idx["joining"]); v != "" {
		if e.DateOfJoining, err = NormalizeDate(v); err != nil {
			return hrms.Employee{}, fmt.Errorf("date of joining: %w", err)
		}
	}
	if v := cellValue(row, idx["birth"]); v != "" {
		if e.DateOfBirth, err = NormalizeDate(v); err != nil {
			return hrms.Employee{}, fmt.Errorf("date of birth: %w", err)
		}
	}
	return e, nil
}

// EmployeeCreator is the part of the gateway Import needs.
type EmployeeCreator interface {
	CreateEmployee(ctx context.Context, e hrms.Employee) (hrms.Employee, error)
}

// ImportResult summarises a bulk import.
type ImportResult struct {
	Created []hrms.Employee
	Failed  []RowError
}

// Import creates every parsed employee in order. Rows the backend rejects are
// collected; an expired session or a role without access stops the import
// since every later row would fail the same way.
func Import(ctx context.Context, creator EmployeeCreator, rows []EmployeeRow) (ImportResult, error) {
	var res ImportResult
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		created, err := creator.CreateEmployee(ctx, row.Employee)
		if errors.Is(err, hrms.ErrUnauthorized) || errors.Is(err, hrms.ErrForbidden) {
			return res, err
		}
		if err != nil {
			res.Failed = append(res.Failed, RowError{Line: row.Line, Err: err})
			continue
		}
		res.Created = append(res.Created, created)
	}
	return res, nil
}

var employeeHeader = []string{"Name", "Email", "Phone", "Designation", "Department", "Role", "Date of Joining", "Date of Birth"}

// WriteEmployees writes employees as an xlsx workbook.
func WriteEmployees(w io.Writer, employees []hrms.Employee) error {
	rows := make([][]any, 0, len(employees))
	for _, e := range employees {
		rows = append(rows, []any{e.Name, e.Email, e.Phone, e.Designation, e.Department, e.Role, e.DateOfJoining, e.DateOfBirth})
	}
	return writeSheet(w, "Employees", employeeHeader, rows)
}

var attendanceHeader = []string{"Date", "Check In", "Check Out", "Total Hours"}

// WriteAttendance writes attendance history as an xlsx workbook, rendering
// timestamps in loc.
func WriteAttendance(w io.Writer, days []attendance.Day, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}
	rows := make([][]any, 0, len(days))
	for _, d := range days {
		date := d.Date
		checkIn, checkOut := "", ""
		if d.CheckInTime != nil {
			checkIn = d.CheckInTime.In(loc).Format("15:04:05")
			if date == "" {
				date = d.CheckInTime.In(loc).Format(isoDate)
			}
		}
		if d.CheckOutTime != nil {
			checkOut = d.CheckOutTime.In(loc).Format("15:04:05")
		}
		var hours any = ""
		if d.TotalHours != nil {
			hours = *d.TotalHours
		}
		rows = append(rows, []any{date, checkIn, checkOut, hours})
	}
	return writeSheet(w, "Attendance", attendanceHeader, rows)
}

func writeSheet(w io.Writer, name string, header []string, rows [][]any) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", name); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &headerRow); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(name, "A1", last, bold); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return err
		}
	}

	_, err = f.WriteTo(w)
	return err
}
