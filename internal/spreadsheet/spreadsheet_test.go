package spreadsheet

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"hrms_tui/internal/attendance"
	"hrms_tui/internal/hrms"
)

func TestNormalizeDate(t *testing.T) {
	cases := map[string]string{
		"15/08/2024":                "2024-08-15",
		"2024-08-15":                "2024-08-15",
		"2024/08/15":                "2024-08-15",
		"2024-8-5":                  "2024-08-05",
		"08/15/2024":                "2024-08-15",
		"8/15/24":                   "2024-08-15",
		"15-08-2024":                "2024-08-15",
		"15.08.2024":                "2024-08-15",
		"03.04.2024":                "2024-04-03",
		"03/04/2024":                "2024-03-04",
		"45519":                     "2024-08-15",
		"45519.75":                  "2024-08-15",
		"2024-08-15T10:30:00+05:30": "2024-08-15",
		"2024-08-15 10:30":          "2024-08-15",
		"15/08/2024 09:15":          "2024-08-15",
		"Aug 15, 2024":              "2024-08-15",
		"15 August 2024":            "2024-08-15",
		"15-Aug-2024":               "2024-08-15",
		"20240815":                  "2024-08-15",
		"  1/2/1999 ":               "1999-01-02",
	}
	for in, want := range cases {
		got, err := NormalizeDate(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
}

func TestNormalizeDateRejects(t *testing.T) {
	for _, in := range []string{"", "tomorrow", "31/02/2024", "2024", "13/13/2024", "1/2", "99/99/99"} {
		_, err := NormalizeDate(in)
		require.ErrorIs(t, err, ErrUnparsableDate, in)
	}
}

func TestReadRowsCSV(t *testing.T) {
	rows, err := ReadRows(strings.NewReader("Name,Email\nAda, ada@example.com\n"), "people.CSV")
	require.NoError(t, err)
	require.Equal(t, [][]string{{"Name", "Email"}, {"Ada", "ada@example.com"}}, rows)

	_, err = ReadRows(strings.NewReader(""), "empty.csv")
	require.ErrorIs(t, err, ErrEmptySheet)
}

func TestReadRowsXLSXKeepsDateSerials(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Name", "Email", "Date of Joining"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"Ada", "ada@example.com", time.Date(2024, time.August, 15, 0, 0, 0, 0, time.UTC)}))
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)

	rows, err := ReadRows(&buf, "people.xlsx")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	parsed, rejected, err := ParseEmployees(rows)
	require.NoError(t, err)
	require.Empty(t, rejected)
	require.Len(t, parsed, 1)
	require.Equal(t, "2024-08-15", parsed[0].Employee.DateOfJoining)
}

func TestReadRowsRejectsGarbage(t *testing.T) {
	_, err := ReadRows(strings.NewReader("not a workbook"), "people.xlsx")
	require.Error(t, err)
}

func TestParseEmployees(t *testing.T) {
	rows := [][]string{
		{" Full Name ", "Mail", "Dept", "Date_of_Joining", "DOB", "Role"},
		{"Ada Lovelace", "ADA@example.com", "Engineering", "15/08/2024", "10.12.1995", "Admin"},
		{"", "", "", "", "", ""},
		{"No Email", "", "Sales", "", "", ""},
		{"Bad Date", "bad@example.com", "Sales", "someday", "", ""},
		{"Short Row", "short@example.com"},
	}
	_, _, err := ParseEmployees(rows)
	require.ErrorIs(t, err, ErrMissingColumn)

	rows[0][1] = "E-mail"
	parsed, rejected, err := ParseEmployees(rows)
	require.NoError(t, err)

	require.Len(t, parsed, 2)
	require.Equal(t, 2, parsed[0].Line)
	ada := parsed[0].Employee
	require.Equal(t, "ada@example.com", ada.Email)
	require.Equal(t, "Engineering", ada.Department)
	require.Equal(t, "2024-08-15", ada.DateOfJoining)
	require.Equal(t, "1995-12-10", ada.DateOfBirth)
	require.Equal(t, "admin", ada.Role)
	require.Equal(t, "user", parsed[1].Employee.Role)
	require.Equal(t, 6, parsed[1].Line)

	require.Len(t, rejected, 2)
	require.Equal(t, 4, rejected[0].Line)
	require.Equal(t, 5, rejected[1].Line)
	require.ErrorIs(t, rejected[1], ErrUnparsableDate)
	require.Contains(t, rejected[1].Error(), "row 5")
}

type fakeCreator struct {
	fail  map[string]error
	calls int
}

func (f *fakeCreator) CreateEmployee(_ context.Context, e hrms.Employee) (hrms.Employee, error) {
	f.calls++
	if err := f.fail[e.Email]; err != nil {
		return hrms.Employee{}, err
	}
	e.ID = int64(f.calls)
	return e, nil
}

func TestImport(t *testing.T) {
	rows := []EmployeeRow{
		{Line: 2, Employee: hrms.Employee{Name: "A", Email: "a@example.com"}},
		{Line: 3, Employee: hrms.Employee{Name: "B", Email: "b@example.com"}},
		{Line: 4, Employee: hrms.Employee{Name: "C", Email: "c@example.com"}},
	}
	creator := &fakeCreator{fail: map[string]error{
		"b@example.com": &hrms.APIError{Status: 400, Message: "Email already registered"},
	}}

	res, err := Import(context.Background(), creator, rows)
	require.NoError(t, err)
	require.Len(t, res.Created, 2)
	require.Len(t, res.Failed, 1)
	require.Equal(t, 3, res.Failed[0].Line)
	require.ErrorIs(t, res.Failed[0], hrms.ErrValidation)
}

func TestImportStopsOnExpiredSession(t *testing.T) {
	rows := []EmployeeRow{
		{Line: 2, Employee: hrms.Employee{Name: "A", Email: "a@example.com"}},
		{Line: 3, Employee: hrms.Employee{Name: "B", Email: "b@example.com"}},
	}
	creator := &fakeCreator{fail: map[string]error{
		"a@example.com": &hrms.APIError{Status: 401},
	}}

	_, err := Import(context.Background(), creator, rows)
	require.True(t, errors.Is(err, hrms.ErrUnauthorized))
	require.Equal(t, 1, creator.calls)

	creator = &fakeCreator{fail: map[string]error{
		"a@example.com": &hrms.APIError{Status: 403},
	}}
	_, err = Import(context.Background(), creator, rows)
	require.ErrorIs(t, err, hrms.ErrForbidden)
	require.Equal(t, 1, creator.calls)
}

func TestWriteEmployeesRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteEmployees(&buf, []hrms.Employee{
		{Name: "Ada", Email: "ada@example.com", Department: "Engineering", Role: "admin", DateOfJoining: "2024-08-15"},
	}))

	rows, err := ReadRows(&buf, "export.xlsx")
	require.NoError(t, err)
	require.Equal(t, employeeHeader, rows[0])

	parsed, rejected, err := ParseEmployees(rows)
	require.NoError(t, err)
	require.Empty(t, rejected)
	require.Equal(t, "Engineering", parsed[0].Employee.Department)
	require.Equal(t, "2024-08-15", parsed[0].Employee.DateOfJoining)
}

func TestWriteAttendance(t *testing.T) {
	in := time.Date(2024, time.August, 15, 9, 0, 0, 0, time.UTC)
	out := in.Add(8*time.Hour + 30*time.Minute)
	hours := 8.5

	var buf bytes.Buffer
	require.NoError(t, WriteAttendance(&buf, []attendance.Day{
		{CheckInTime: &in, CheckOutTime: &out, TotalHours: &hours},
		{Date: "2024-08-16", CheckInTime: ptrTime(in.Add(24 * time.Hour))},
	}, time.UTC))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Attendance")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, attendanceHeader, rows[0])
	require.Equal(t, []string{"2024-08-15", "09:00:00", "17:30:00", "8.5"}, rows[1])
	require.Equal(t, "2024-08-16", rows[2][0])
}

func ptrTime(t time.Time) *time.Time { return &t }
