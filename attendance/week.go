package attendance

import (
	"github.com/warp/labor-engine/generic"
)

// DefaultWorkDaysPerWeek is Monday through Saturday.
const DefaultWorkDaysPerWeek = 6

// =============================================================================
// WEEK STATS
// =============================================================================

type WeekStats struct {
	WorkDaysPerWeek     int
	AssignedWeeklyHours generic.Amount

	TotalWorkedHours  generic.Amount
	TotalExtraHours   generic.Amount
	TotalMissingHours generic.Amount

	DaysWithAttendance      int
	TotalAbsences           int
	DaysWithDelays          int
	DaysWithEarlyDepartures int
}

// ComputeWeekStats aggregates the days of one report week.
//
// Missing hours are split in two so no day is counted twice:
//   - days with attendance contribute their own MissingHours
//   - each absence (workDaysPerWeek - daysWithAttendance) contributes hoursPerDay
//
// A day with marks but no time worked counts as an absence; its own
// MissingHours are ignored.
//
// workDaysPerWeek <= 0 falls back to DefaultWorkDaysPerWeek.
func ComputeWeekStats(days []DayStats, workDaysPerWeek int, hoursPerDay generic.Amount) (WeekStats, error) {
	if hoursPerDay.IsNegative() {
		return WeekStats{}, &generic.ValidationError{Field: "hours_per_day", Value: hoursPerDay.Value.String(), Reason: "must not be negative"}
	}
	if workDaysPerWeek <= 0 {
		workDaysPerWeek = DefaultWorkDaysPerWeek
	}
	hoursPerDay.Unit = generic.UnitHours

	stats := WeekStats{
		WorkDaysPerWeek:     workDaysPerWeek,
		AssignedWeeklyHours: hoursPerDay.MulInt(workDaysPerWeek),
		TotalWorkedHours:    generic.ZeroAmount(generic.UnitHours),
		TotalExtraHours:     generic.ZeroAmount(generic.UnitHours),
	}

	partialMissing := generic.ZeroAmount(generic.UnitHours)
	for _, day := range days {
		if day.HasDelay {
			stats.DaysWithDelays++
		}
		if day.HasEarlyDeparture {
			stats.DaysWithEarlyDepartures++
		}
		if !day.HasAttendance() {
			continue
		}
		stats.DaysWithAttendance++
		stats.TotalWorkedHours = stats.TotalWorkedHours.Add(day.WorkedHours)
		stats.TotalExtraHours = stats.TotalExtraHours.Add(day.ExtraHours)
		partialMissing = partialMissing.Add(day.MissingHours)
	}

	// More attended days than scheduled ones (duplicate day rows) must not
	// produce negative absences.
	stats.TotalAbsences = max(0, workDaysPerWeek-stats.DaysWithAttendance)
	stats.TotalMissingHours = partialMissing.Add(hoursPerDay.MulInt(stats.TotalAbsences))

	return stats, nil
}
