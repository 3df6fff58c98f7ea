/*
Package attendance computes attendance variance from time-clock marks.

PURPOSE:
  Given the shift an employee is scheduled for and the marks the time clock
  recorded, works out lateness, early departure, hours worked, overtime and
  missing hours per day, then rolls days up into report weeks.

KEY CONCEPTS:
  - Mark: One time-clock reading (entry, exit or other)
  - Schedule: Scheduled entry/exit time of day
  - DayStats: Variance for one day (day.go)
  - WeekStats: Aggregate over the days of one report week (week.go)
  - Punctuality: on_time/late classification of entry marks (punctuality.go)
  - MonthlyReport: Weeks of a month, numbered with generic.WeekOfMonth (report.go)

PURITY:
  Every function takes fully materialized inputs and returns new values.
  Input slices are never reordered or modified.

SEE ALSO:
  - generic/time.go: TimeOfDay, WeekOfMonth
  - store/sqlite: Where marks are loaded from
*/
package attendance

import (
	"fmt"

	"github.com/warp/labor-engine/generic"
)

// =============================================================================
// MARK - One time-clock reading
// =============================================================================

type MarkType string

const (
	MarkEntry MarkType = "entry"
	MarkExit  MarkType = "exit"
	MarkOther MarkType = "other"
)

func ParseMarkType(s string) (MarkType, error) {
	switch m := MarkType(s); m {
	case MarkEntry, MarkExit, MarkOther:
		return m, nil
	}
	return "", &generic.ValidationError{Field: "mark_type", Value: s, Reason: "must be entry, exit or other"}
}

type Mark struct {
	EmployeeID generic.EmployeeID
	Date       generic.TimePoint
	Time       generic.TimeOfDay
	Type       MarkType
}

func (m Mark) Validate() error {
	if _, err := ParseMarkType(string(m.Type)); err != nil {
		return err
	}
	return nil
}

// =============================================================================
// SCHEDULE - Scheduled shift window
// =============================================================================

type Schedule struct {
	Entry generic.TimeOfDay
	Exit  generic.TimeOfDay
}

// Validate rejects an exit before the entry. A zero-length shift is valid.
func (s Schedule) Validate() error {
	if s.Exit.Before(s.Entry) {
		return &generic.ValidationError{
			Field:  "schedule",
			Value:  fmt.Sprintf("%s-%s", s.Entry, s.Exit),
			Reason: "exit is before entry",
		}
	}
	return nil
}

// Span is the scheduled length of the shift in hours.
func (s Schedule) Span() generic.Amount {
	return s.Exit.Since(s.Entry)
}

func (s Schedule) String() string {
	return s.Entry.String() + "-" + s.Exit.String()
}
