package spreadsheet

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ErrUnparsableDate is returned when no known layout matches a cell.
var ErrUnparsableDate = errors.New("unparsable date")

const isoDate = "2006-01-02"

var isoLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.000Z",
	"20060102",
}

var textLayouts = []string{
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"2 Jan 2006",
	"2 January 2006",
	"02-Jan-2006",
	"2-Jan-06",
	"02-Jan-06",
	"Mon, 02 Jan 2006",
}

// NormalizeDate turns a spreadsheet cell into YYYY-MM-DD. Excel serials and
// ISO forms are tried first, then month-first and day-first readings of
// slash, dash and dot separated dates, then any remaining day/month/year
// order. A day above 12 is never read as a month.
func NormalizeDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w: empty value", ErrUnparsableDate)
	}

	if serial, ok := parseSerial(value); ok {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t.Format(isoDate), nil
		}
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(isoDate), nil
		}
	}

	for _, layout := range textLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(isoDate), nil
		}
	}

	if date, ok := parseTriple(strings.Fields(value)[0]); ok {
		return date, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnparsableDate, value)
}

// parseSerial accepts Excel day serials, with or without a time fraction.
// Plain years and other short numbers are left to the layouts.
func parseSerial(value string) (float64, bool) {
	whole, _, _ := strings.Cut(value, ".")
	if len(whole) != 5 {
		return 0, false
	}
	serial, err := strconv.ParseFloat(value, 64)
	if err != nil || serial < 20000 || serial > 80000 {
		return 0, false
	}
	return serial, true
}

type order int

const (
	monthDayYear order = iota
	dayMonthYear
	yearMonthDay
	yearDayMonth
)

func parseTriple(s string) (string, bool) {
	sep := byte(0)
	for _, c := range []byte{'/', '-', '.'} {
		if strings.Count(s, string(c)) == 2 {
			sep = c
			break
		}
	}
	if sep == 0 {
		return "", false
	}

	parts := strings.Split(s, string(sep))
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || p == "" {
			return "", false
		}
		nums[i] = n
	}
	yearFirst := len(parts[0]) == 4

	var attempts []order
	switch {
	case yearFirst:
		attempts = []order{yearMonthDay, yearDayMonth}
	case sep == '.':
		// dotted dates are a day-first convention
		attempts = []order{dayMonthYear, monthDayYear}
	default:
		attempts = []order{monthDayYear, dayMonthYear}
	}
	// permutation fallback
	for _, o := range []order{monthDayYear, dayMonthYear, yearMonthDay, yearDayMonth} {
		if !containsOrder(attempts, o) {
			attempts = append(attempts, o)
		}
	}

	for _, o := range attempts {
		y, m, d, yearLen := arrange(nums, parts, o)
		if yearLen != 2 && yearLen != 4 {
			continue
		}
		if yearLen == 2 {
			y = expandYear(y)
		}
		if t, ok := validDate(y, m, d); ok {
			return t.Format(isoDate), true
		}
	}
	return "", false
}

func arrange(nums []int, parts []string, o order) (y, m, d, yearLen int) {
	switch o {
	case monthDayYear:
		return nums[2], nums[0], nums[1], len(parts[2])
	case dayMonthYear:
		return nums[2], nums[1], nums[0], len(parts[2])
	case yearMonthDay:
		return nums[0], nums[1], nums[2], len(parts[0])
	default:
		return nums[0], nums[2], nums[1], len(parts[0])
	}
}

func containsOrder(list []order, o order) bool {
	for _, v := range list {
		if v == o {
			return true
		}
	}
	return false
}

// expandYear follows the time package's two-digit year pivot.
func expandYear(y int) int {
	if y >= 69 {
		return 1900 + y
	}
	return 2000 + y
}

func validDate(y, m, d int) (time.Time, bool) {
	if y < 1900 || y > 2100 || m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}
