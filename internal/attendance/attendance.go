// Package attendance holds the attendance records exchanged with the HRMS
// backend and the client-side break bookkeeping derived from them.
package attendance

import (
	"fmt"
	"time"
)

// Day is one calendar day of attendance for the logged-in user. The backend
// owns every field; the client only reads it.
type Day struct {
	ID           int64      `json:"id,omitempty"`
	Date         string     `json:"date,omitempty"`
	CheckInTime  *time.Time `json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time"`
	TotalHours   *float64   `json:"total_hours"`
}

// CheckedIn reports whether the backend has a check-in for the day.
func (d Day) CheckedIn() bool {
	return d.CheckInTime != nil
}

// Open reports whether the day is checked in but not yet checked out.
func (d Day) Open() bool {
	return d.CheckInTime != nil && d.CheckOutTime == nil
}

// Worked returns the server-computed total as a duration.
func (d Day) Worked() (time.Duration, bool) {
	if d.TotalHours == nil {
		return 0, false
	}
	return time.Duration(*d.TotalHours * float64(time.Hour)).Round(time.Second), true
}

// BreakInterval is a pause within a work session. It only lives in memory.
type BreakInterval struct {
	Start time.Time
	End   *time.Time // nil while the break is running
}

// Duration of the interval, measured up to now while it is still open.
func (b BreakInterval) Duration(now time.Time) time.Duration {
	end := now
	if b.End != nil {
		end = *b.End
	}
	if end.Before(b.Start) {
		return 0
	}
	return end.Sub(b.Start)
}

// WorkSession aggregates a check-in with the breaks taken since.
type WorkSession struct {
	CheckIn time.Time
	Breaks  []BreakInterval
}

// TotalBreak sums every closed break.
func (s WorkSession) TotalBreak(now time.Time) time.Duration {
	var total time.Duration
	for _, b := range s.Breaks {
		if b.End == nil {
			continue
		}
		total += b.Duration(now)
	}
	return total
}

// OpenBreak returns the running break, if any.
func (s WorkSession) OpenBreak() (BreakInterval, bool) {
	for i := len(s.Breaks) - 1; i >= 0; i-- {
		if s.Breaks[i].End == nil {
			return s.Breaks[i], true
		}
	}
	return BreakInterval{}, false
}

// Effective is the worked time excluding every break, never negative.
func (s WorkSession) Effective(now time.Time) time.Duration {
	elapsed := now.Sub(s.CheckIn) - s.TotalBreak(now)
	if open, ok := s.OpenBreak(); ok {
		elapsed -= open.Duration(now)
	}
	return max(elapsed, 0)
}

// Page is one slice of the paginated attendance history.
type Page struct {
	Records []Day `json:"records"`
	Total   int   `json:"total"`
	Offset  int   `json:"offset"`
	Limit   int   `json:"limit"`
}

// HasNext reports whether another page follows this one.
func (p Page) HasNext() bool {
	return p.Offset+len(p.Records) < p.Total
}

// FormatClock renders d as HH:MM:SS. Hours are not capped at 99.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// FormatHours renders a decimal hour count the way the history table shows it.
func FormatHours(hours *float64) string {
	if hours == nil {
		return "-"
	}
	minutes := int64(*hours*60 + 0.5)
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}
