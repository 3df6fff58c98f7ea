package report

import (
	"github.com/warp/labor-engine/attendance"
	"github.com/warp/labor-engine/generic"
	"github.com/warp/labor-engine/vacation"
)

// =============================================================================
// ATTENDANCE SHEETS
// =============================================================================

var weeklyHeader = []string{
	"Week", "Work days", "Assigned hours", "Worked hours", "Extra hours",
	"Missing hours", "Days with attendance", "Absences", "Delays", "Early departures",
}

// WeeklyAttendanceSheet has one row per report week.
func WeeklyAttendanceSheet(name string, weeks []attendance.WeekRow) Sheet {
	rows := make([][]any, 0, len(weeks))
	for _, w := range weeks {
		s := w.Stats
		rows = append(rows, []any{
			w.Week,
			s.WorkDaysPerWeek,
			hours(s.AssignedWeeklyHours),
			hours(s.TotalWorkedHours),
			hours(s.TotalExtraHours),
			hours(s.TotalMissingHours),
			s.DaysWithAttendance,
			s.TotalAbsences,
			s.DaysWithDelays,
			s.DaysWithEarlyDepartures,
		})
	}
	return Sheet{Name: name, Header: weeklyHeader, Rows: rows}
}

var dailyHeader = []string{
	"Week", "Date", "Entry", "Exit", "Worked hours", "Lateness",
	"Early departure", "Extra hours", "Missing hours",
}

// DailyAttendanceSheet flattens the days of every week, in report order.
func DailyAttendanceSheet(name string, weeks []attendance.WeekRow) Sheet {
	var rows [][]any
	for _, w := range weeks {
		for _, d := range w.Days {
			rows = append(rows, []any{
				w.Week,
				d.Date.String(),
				d.ObservedEntry.String(),
				d.ObservedExit.String(),
				hours(d.WorkedHours),
				hours(d.Lateness),
				hours(d.EarlyDeparture),
				hours(d.ExtraHours),
				hours(d.MissingHours),
			})
		}
	}
	return Sheet{Name: name, Header: dailyHeader, Rows: rows}
}

// =============================================================================
// VACATION SHEETS
// =============================================================================

// LedgerLine pairs a ledger with the employee it was computed for.
type LedgerLine struct {
	EmployeeID generic.EmployeeID
	Name       string
	Ledger     vacation.Ledger
}

var ledgerHeader = []string{
	"Employee", "Name", "Year", "Anniversary", "Years of service",
	"Statutory days", "Days taken", "Remaining", "Permission days", "Disability days",
}

func LedgerSheet(name string, lines []LedgerLine) Sheet {
	rows := make([][]any, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, []any{
			string(l.EmployeeID),
			l.Name,
			l.Ledger.ReferenceYear,
			l.Ledger.AnniversaryDateInReferenceYear.String(),
			l.Ledger.YearsOfService,
			l.Ledger.StatutoryDays,
			l.Ledger.DaysTakenThisYear,
			l.Ledger.RemainingBalance,
			l.Ledger.PermissionDaysThisYear,
			l.Ledger.DisabilityDaysThisYear,
		})
	}
	return Sheet{Name: name, Header: ledgerHeader, Rows: rows}
}

func EntitlementSheet(name string, table []vacation.EntitlementRow) Sheet {
	rows := make([][]any, 0, len(table))
	for _, r := range table {
		rows = append(rows, []any{r.YearsOfService, r.StatutoryDays})
	}
	return Sheet{Name: name, Header: []string{"Years of service", "Statutory days"}, Rows: rows}
}

// hours is the presentation value of an hour amount. Rounding is left to the
// cell format.
func hours(a generic.Amount) float64 {
	return a.Float64()
}
