package generic

import (
	"fmt"
	"time"
)

// =============================================================================
// TIME POINT - Calendar day (the rules never care about the clock part)
// =============================================================================

type TimePoint struct {
	Time time.Time
}

const DateLayout = "2006-01-02"

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func FromTime(t time.Time) TimePoint {
	return NewTimePoint(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string. Normalised dates only: "2025-02-30" fails.
func ParseDate(s string) (TimePoint, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return TimePoint{}, &ValidationError{Field: "date", Value: s, Reason: "must be YYYY-MM-DD"}
	}
	return FromTime(t), nil
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return tp.normalize().Before(other.normalize()) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.normalize().Equal(other.normalize()) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.normalize().After(other.normalize()) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return !tp.After(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return !tp.Before(other) }

func (tp TimePoint) normalize() time.Time {
	return time.Date(tp.Time.Year(), tp.Time.Month(), tp.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint { return FromTime(tp.Time.AddDate(0, 0, n)) }

// Properties
func (tp TimePoint) Year() int             { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month     { return tp.Time.Month() }
func (tp TimePoint) Day() int              { return tp.Time.Day() }
func (tp TimePoint) Weekday() time.Weekday { return tp.Time.Weekday() }
func (tp TimePoint) IsZero() bool          { return tp.Time.IsZero() }

func (tp TimePoint) String() string {
	return tp.Time.Format(DateLayout)
}

// =============================================================================
// TIME OF DAY - Clock reading without a date (schedules, check-in marks)
// =============================================================================

// TimeOfDay is a wall-clock time stored as seconds since midnight.
type TimeOfDay struct {
	seconds int
}

func NewTimeOfDay(hour, minute, second int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return TimeOfDay{}, &ValidationError{
			Field:  "time",
			Value:  fmt.Sprintf("%02d:%02d:%02d", hour, minute, second),
			Reason: "out of range",
		}
	}
	return TimeOfDay{seconds: hour*3600 + minute*60 + second}, nil
}

// MustTimeOfDay panics on invalid input. Use in tests and constant tables.
func MustTimeOfDay(hour, minute int) TimeOfDay {
	t, err := NewTimeOfDay(hour, minute, 0)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseTimeOfDay accepts "HH:MM" and "HH:MM:SS".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewTimeOfDay(t.Hour(), t.Minute(), t.Second())
		}
	}
	return TimeOfDay{}, &ValidationError{Field: "time", Value: s, Reason: "must be HH:MM or HH:MM:SS"}
}

func (t TimeOfDay) Hour() int   { return t.seconds / 3600 }
func (t TimeOfDay) Minute() int { return t.seconds % 3600 / 60 }
func (t TimeOfDay) Second() int { return t.seconds % 60 }

func (t TimeOfDay) Before(other TimeOfDay) bool { return t.seconds < other.seconds }
func (t TimeOfDay) After(other TimeOfDay) bool  { return t.seconds > other.seconds }

// Since returns t - other in hours; negative when t is earlier.
func (t TimeOfDay) Since(other TimeOfDay) Amount {
	return NewAmountFromSeconds(t.seconds - other.seconds)
}

// SecondsSince is Since without the decimal conversion.
func (t TimeOfDay) SecondsSince(other TimeOfDay) int {
	return t.seconds - other.seconds
}

func (t TimeOfDay) String() string {
	if t.Second() != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
	}
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// =============================================================================
// CALENDAR UTILITIES
// =============================================================================

func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func StartOfYear(year int) TimePoint                    { return NewTimePoint(year, time.January, 1) }
func EndOfYear(year int) TimePoint                      { return NewTimePoint(year, time.December, 31) }
func StartOfMonth(year int, month time.Month) TimePoint { return NewTimePoint(year, month, 1) }
func EndOfMonth(year int, month time.Month) TimePoint {
	return FromTime(time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1))
}

// AnniversaryIn returns the month/day of anchor in the given year.
// A Feb 29 anchor lands on Feb 28 when the year is not a leap year;
// time.Date would otherwise roll it over to Mar 1.
func AnniversaryIn(anchor TimePoint, year int) TimePoint {
	if anchor.Month() == time.February && anchor.Day() == 29 && !IsLeapYear(year) {
		return NewTimePoint(year, time.February, 28)
	}
	return NewTimePoint(year, anchor.Month(), anchor.Day())
}

// WeekOfMonth numbers weeks inside a month, restarting every month:
//
//	ceil((dayOfMonth + weekdayOfFirst - 1) / 7), Sunday = 0
//
// Weeks therefore run Monday to Sunday. A month that starts on a Sunday puts
// the 1st alone in week 0. Reports depend on this numbering; it is not ISO.
func WeekOfMonth(tp TimePoint) int {
	offset := int(StartOfMonth(tp.Year(), tp.Month()).Weekday())
	n := tp.Day() + offset - 1
	return (n + 6) / 7
}
