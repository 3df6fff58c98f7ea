package generic

import "time"

// =============================================================================
// PERIOD - Closed range of calendar days
// =============================================================================

// Period is the inclusive range [Start, End].
//
// Examples:
//   - Calendar year 2025: Jan 1 - Dec 31
//   - Anniversary year: admission anniversary + 1 year - 1 day
//   - A leave request: first day off - last day off
type Period struct {
	Start TimePoint
	End   TimePoint
}

// NewPeriod builds a period and rejects End before Start.
func NewPeriod(start, end TimePoint) (Period, error) {
	p := Period{Start: start, End: end}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

func (p Period) Validate() error {
	if p.Start.IsZero() || p.End.IsZero() {
		return &ValidationError{Field: "period", Value: p.String(), Reason: "start and end are required"}
	}
	if p.End.Before(p.Start) {
		return &PeriodError{Period: p}
	}
	return nil
}

// Contains returns true if the time point is within the period [Start, End]
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// Overlaps reports whether the two periods share at least one day.
func (p Period) Overlaps(other Period) bool {
	return !p.End.Before(other.Start) && !other.End.Before(p.Start)
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// CalendarYear returns Jan 1 - Dec 31 of year.
func CalendarYear(year int) Period {
	return Period{Start: StartOfYear(year), End: EndOfYear(year)}
}

// CalendarMonth returns the first through last day of the month.
func CalendarMonth(year int, month time.Month) Period {
	return Period{Start: StartOfMonth(year, month), End: EndOfMonth(year, month)}
}

// AnniversaryPeriod returns the service year that contains date, anchored on
// the admission date. Feb 29 anchors follow AnniversaryIn.
func AnniversaryPeriod(anchor, date TimePoint) Period {
	yearsElapsed := date.Year() - anchor.Year()
	start := AnniversaryIn(anchor, anchor.Year()+yearsElapsed)

	// If date is before this year's anniversary, we're in previous period
	if date.Before(start) {
		yearsElapsed--
		start = AnniversaryIn(anchor, anchor.Year()+yearsElapsed)
	}

	end := AnniversaryIn(anchor, anchor.Year()+yearsElapsed+1).AddDays(-1)
	return Period{Start: start, End: end}
}
