// Package valueobject contains domain value objects for the expense tracker.
package valueobject

import (
	"fmt"
	"time"
)

// Period is a calendar month used for aggregation and reporting.
type Period struct {
	Year  int
	Month time.Month
}

// NewPeriod validates and builds a period. Years outside 2000-2100 are rejected.
func NewPeriod(year int, month int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, fmt.Errorf("month must be between 1 and 12, got %d", month)
	}
	if year < 2000 || year > 2100 {
		return Period{}, fmt.Errorf("year must be between 2000 and 2100, got %d", year)
	}
	return Period{Year: year, Month: time.Month(month)}, nil
}

// PeriodOf returns the calendar month containing t in loc.
func PeriodOf(t time.Time, loc *time.Location) Period {
	local := t.In(loc)
	return Period{Year: local.Year(), Month: local.Month()}
}

// PreviousPeriod returns the calendar month before the one containing now.
// January rolls back to December of the prior year.
func PreviousPeriod(now time.Time, loc *time.Location) Period {
	return PeriodOf(now, loc).Previous()
}

// Previous returns the month before p.
func (p Period) Previous() Period {
	if p.Month == time.January {
		return Period{Year: p.Year - 1, Month: time.December}
	}
	return Period{Year: p.Year, Month: p.Month - 1}
}

// Window returns the inclusive bounds of the month in loc: the first instant
// of day one and 23:59:59.999 of the last day. The last day comes from day
// zero of the following month, so February needs no leap-year branch.
func (p Period) Window(loc *time.Location) (start, end time.Time) {
	start = time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, loc)
	end = time.Date(p.Year, p.Month+1, 0, 23, 59, 59, int(999*time.Millisecond), loc)
	return start, end
}

// Label returns a human readable name such as "January 2024".
func (p Period) Label() string {
	return fmt.Sprintf("%s %d", p.Month.String(), p.Year)
}

// Key returns a sortable identifier such as "2024-01".
func (p Period) Key() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Days returns the number of days in the month.
func (p Period) Days() int {
	return time.Date(p.Year, p.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
