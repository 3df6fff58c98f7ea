package attendance

import (
	"fmt"
	"sort"

	"github.com/warp/labor-engine/generic"
)

// =============================================================================
// DAY STATS
// =============================================================================

// DayStats is the attendance variance for one day. All durations are hours.
type DayStats struct {
	Date generic.TimePoint

	// Zero values when the day has no marks.
	ObservedEntry generic.TimeOfDay
	ObservedExit  generic.TimeOfDay
	MarkCount     int

	WorkedHours    generic.Amount
	Lateness       generic.Amount
	EarlyDeparture generic.Amount
	ExtraHours     generic.Amount
	MissingHours   generic.Amount

	HasDelay          bool
	HasEarlyDeparture bool
}

// IsAbsence reports a day without marks.
func (d DayStats) IsAbsence() bool {
	return d.MarkCount == 0
}

// HasAttendance is true when some time was worked. A single mark is not
// attendance: first and last mark coincide and nothing was worked.
func (d DayStats) HasAttendance() bool {
	return d.WorkedHours.IsPositive()
}

// ComputeDayStats computes the variance of one day's marks against the
// scheduled window. The first mark (by time) is the observed entry and the
// last one the observed exit, whatever their type.
//
// No marks means a full absence: the whole scheduled span is missing.
func ComputeDayStats(marks []Mark, scheduledEntry, scheduledExit generic.TimeOfDay) (DayStats, error) {
	schedule := Schedule{Entry: scheduledEntry, Exit: scheduledExit}
	if err := schedule.Validate(); err != nil {
		return DayStats{}, err
	}
	span := scheduledExit.SecondsSince(scheduledEntry)

	if len(marks) == 0 {
		return DayStats{
			WorkedHours:    generic.ZeroAmount(generic.UnitHours),
			Lateness:       generic.ZeroAmount(generic.UnitHours),
			EarlyDeparture: generic.ZeroAmount(generic.UnitHours),
			ExtraHours:     generic.ZeroAmount(generic.UnitHours),
			MissingHours:   generic.NewAmountFromSeconds(span),
		}, nil
	}

	sorted, err := sortedMarks(marks)
	if err != nil {
		return DayStats{}, err
	}
	first, last := sorted[0], sorted[len(sorted)-1]

	worked := last.Time.SecondsSince(first.Time)
	lateness := max(0, first.Time.SecondsSince(scheduledEntry))
	early := max(0, scheduledExit.SecondsSince(last.Time))

	var extra, missing int
	if worked > span {
		extra = worked - span
	} else {
		missing = span - worked
	}

	return DayStats{
		Date:              first.Date,
		ObservedEntry:     first.Time,
		ObservedExit:      last.Time,
		MarkCount:         len(sorted),
		WorkedHours:       generic.NewAmountFromSeconds(worked),
		Lateness:          generic.NewAmountFromSeconds(lateness),
		EarlyDeparture:    generic.NewAmountFromSeconds(early),
		ExtraHours:        generic.NewAmountFromSeconds(extra),
		MissingHours:      generic.NewAmountFromSeconds(missing),
		HasDelay:          lateness > 0,
		HasEarlyDeparture: early > 0,
	}, nil
}

// sortedMarks validates and returns a time-ordered copy. All marks must be
// of the same day when dates are set.
func sortedMarks(marks []Mark) ([]Mark, error) {
	sorted := make([]Mark, len(marks))
	copy(sorted, marks)

	var day generic.TimePoint
	for i, m := range sorted {
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("marks[%d]: %w", i, err)
		}
		if m.Date.IsZero() {
			continue
		}
		if day.IsZero() {
			day = m.Date
		} else if !day.Equal(m.Date) {
			return nil, &generic.ValidationError{
				Field:  "marks",
				Value:  m.Date.String(),
				Reason: fmt.Sprintf("belongs to a different day than %s", day),
			}
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.Before(sorted[j].Time)
	})
	return sorted, nil
}
