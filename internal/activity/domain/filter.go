package domain

import (
	"errors"
	"time"
)

// ErrFilterDateRequired is returned when a filter has no date.
var ErrFilterDateRequired = errors.New("activity filter: date is required")

// DateLayout is the calendar-day format used on the wire and in summaries.
const DateLayout = "2006-01-02"

// FilterState is one immutable selection of (date, employee, type group).
// A nil EmployeeID or TypeGroup means no restriction on that axis.
type FilterState struct {
	Date       time.Time
	EmployeeID *int64
	TypeGroup  *string
}

// NewFilter builds a FilterState with Date truncated to its calendar day.
func NewFilter(date time.Time, employeeID *int64, typeGroup *string) FilterState {
	f := FilterState{Date: StartOfDay(date), EmployeeID: employeeID}
	if typeGroup != nil {
		g := NormalizeType(*typeGroup)
		if g != "" {
			f.TypeGroup = &g
		}
	}
	return f
}

// Validate rejects a filter without a date.
func (f FilterState) Validate() error {
	if f.Date.IsZero() {
		return ErrFilterDateRequired
	}
	return nil
}

// Scope returns the type-unaware part of the filter used for fetches and watermarks.
func (f FilterState) Scope() Query {
	return Query{Day: StartOfDay(f.Date), EmployeeID: f.EmployeeID}
}

// SameScope reports whether two filters fetch the same rows (type group ignored).
func (f FilterState) SameScope(o FilterState) bool {
	return f.Scope().Equal(o.Scope())
}

// Equal reports whether two filters are the same selection.
func (f FilterState) Equal(o FilterState) bool {
	if !f.SameScope(o) {
		return false
	}
	switch {
	case f.TypeGroup == nil && o.TypeGroup == nil:
		return true
	case f.TypeGroup == nil || o.TypeGroup == nil:
		return false
	default:
		return *f.TypeGroup == *o.TypeGroup
	}
}

// Query is the scope handed to event sources: one calendar day and an optional employee.
type Query struct {
	Day        time.Time
	EmployeeID *int64
}

// Bounds returns the half-open interval [start, end) covering Day.
func (q Query) Bounds() (time.Time, time.Time) {
	start := StartOfDay(q.Day)
	return start, start.AddDate(0, 0, 1)
}

// Contains reports whether ts falls on Day.
func (q Query) Contains(ts time.Time) bool {
	start, end := q.Bounds()
	wall := asWallClock(ts)
	return !wall.Before(start) && wall.Before(end)
}

// Equal compares day and employee.
func (q Query) Equal(o Query) bool {
	if !StartOfDay(q.Day).Equal(StartOfDay(o.Day)) {
		return false
	}
	switch {
	case q.EmployeeID == nil && o.EmployeeID == nil:
		return true
	case q.EmployeeID == nil || o.EmployeeID == nil:
		return false
	default:
		return *q.EmployeeID == *o.EmployeeID
	}
}

// StartOfDay returns midnight of t's calendar day on the stored wall clock.
// Stored timestamps carry no zone, so days are compared as UTC wall-clock values.
func StartOfDay(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the calendar day containing now on the UTC wall clock, the same clock
// every console writer stamps rows with.
func Today(now time.Time) time.Time {
	return StartOfDay(now.UTC())
}

// ParseDay parses a YYYY-MM-DD calendar day.
func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

func asWallClock(t time.Time) time.Time {
	y, m, d := t.Date()
	h, mi, s := t.Clock()
	return time.Date(y, m, d, h, mi, s, t.Nanosecond(), time.UTC)
}
