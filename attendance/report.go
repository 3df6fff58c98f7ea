package attendance

import (
	"fmt"
	"sort"
	"time"

	"github.com/warp/labor-engine/generic"
)

// =============================================================================
// MONTHLY REPORT - Report weeks of one month
// =============================================================================

// WeekRow is one line of the weekly attendance report.
type WeekRow struct {
	Week  int
	Days  []DayStats
	Stats WeekStats
}

// MonthlyReport groups a month's marks into report weeks.
//
//  1. Marks outside year/month are dropped
//  2. Remaining marks are grouped by day; each marked day gets ComputeDayStats
//  3. Days are grouped by generic.WeekOfMonth
//  4. Each week gets ComputeWeekStats with hoursPerDay = schedule span
//
// Only weeks with at least one mark produce a row. Rows are ordered by week
// number and days within a row by date.
func MonthlyReport(marks []Mark, schedule Schedule, year int, month time.Month, workDaysPerWeek int) ([]WeekRow, error) {
	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	if month < time.January || month > time.December {
		return nil, &generic.ValidationError{Field: "month", Value: fmt.Sprint(int(month)), Reason: "must be 1-12"}
	}
	period := generic.CalendarMonth(year, month)

	// Keyed by YYYY-MM-DD; time.Time values make poor map keys.
	byDay := make(map[string][]Mark)
	for i, m := range marks {
		if m.Date.IsZero() {
			return nil, &generic.ValidationError{Field: fmt.Sprintf("marks[%d].date", i), Reason: "is required"}
		}
		if !period.Contains(m.Date) {
			continue
		}
		key := m.Date.String()
		byDay[key] = append(byDay[key], m)
	}

	keys := make([]string, 0, len(byDay))
	for key := range byDay {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	// Days in calendar order, so the first failing day is the one reported.
	byWeek := make(map[int][]DayStats)
	for _, key := range keys {
		dayMarks := byDay[key]
		day := generic.FromTime(dayMarks[0].Date.Time)
		stats, err := ComputeDayStats(dayMarks, schedule.Entry, schedule.Exit)
		if err != nil {
			return nil, fmt.Errorf("day %s: %w", day, err)
		}
		stats.Date = day
		week := generic.WeekOfMonth(day)
		byWeek[week] = append(byWeek[week], stats)
	}

	rows := make([]WeekRow, 0, len(byWeek))
	for week, days := range byWeek {
		sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })

		stats, err := ComputeWeekStats(days, workDaysPerWeek, schedule.Span())
		if err != nil {
			return nil, err
		}
		rows = append(rows, WeekRow{Week: week, Days: days, Stats: stats})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Week < rows[j].Week })

	return rows, nil
}
