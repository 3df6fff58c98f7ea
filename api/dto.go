/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the rules packages from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Small response wrappers

UNITS:
  Hours are float64 (presentation only; the rules compute in decimal).
  Money is decimal.Decimal, which marshals as a JSON string ("40.6") so no
  precision is lost on the way out. Money inputs accept numbers or strings.

VALIDATION:
  Validation is done in handlers and the rules packages, not in DTOs.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/labor-engine/attendance"
	"github.com/warp/labor-engine/purchase"
	"github.com/warp/labor-engine/store/sqlite"
	"github.com/warp/labor-engine/vacation"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

type EmployeeDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	AdmissionDate  string `json:"admission_date"`
	ScheduledEntry string `json:"scheduled_entry,omitempty"`
	ScheduledExit  string `json:"scheduled_exit,omitempty"`
	Status         string `json:"status"`
	CreatedAt      string `json:"created_at,omitempty"`
}

type CreateEmployeeRequest struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	AdmissionDate  string `json:"admission_date"`
	ScheduledEntry string `json:"scheduled_entry"`
	ScheduledExit  string `json:"scheduled_exit"`
	Status         string `json:"status"`
}

func toEmployeeDTO(e sqlite.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:            string(e.ID),
		Name:          e.Name,
		AdmissionDate: e.AdmissionDate.String(),
		Status:        string(e.Status),
	}
	if e.ScheduledEntry != nil {
		dto.ScheduledEntry = e.ScheduledEntry.String()
	}
	if e.ScheduledExit != nil {
		dto.ScheduledExit = e.ScheduledExit.String()
	}
	if !e.CreatedAt.IsZero() {
		dto.CreatedAt = e.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

// =============================================================================
// VACATION
// =============================================================================

type EntitlementRowDTO struct {
	YearsOfService int `json:"years_of_service"`
	StatutoryDays  int `json:"statutory_days"`
}

type LeaveRequestDTO struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	Type         string `json:"type"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	DaysCount    int    `json:"days_count"`
	VacationYear int    `json:"vacation_year,omitempty"`
	WithPay      bool   `json:"with_pay"`
	Folio        string `json:"folio,omitempty"`
}

// CreateLeaveRequest is a vacation, permission or disability. Fields that do
// not apply to the type are ignored.
type CreateLeaveRequest struct {
	Type         string `json:"type"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	DaysCount    int    `json:"days_count"`
	VacationYear int    `json:"vacation_year"`
	WithPay      bool   `json:"with_pay"`
	Folio        string `json:"folio"`
}

func toLeaveRequestDTO(req vacation.LeaveRequest) LeaveRequestDTO {
	h := req.Header()
	dto := LeaveRequestDTO{
		ID:         string(h.ID),
		EmployeeID: string(h.EmployeeID),
		Type:       string(req.Kind()),
		StartDate:  h.Start.String(),
		EndDate:    h.End.String(),
		DaysCount:  h.DaysCount,
		WithPay:    req.WithPay(),
	}
	switch r := req.(type) {
	case vacation.Vacation:
		dto.VacationYear = r.ChargedYear()
	case vacation.Disability:
		dto.Folio = r.Folio
	}
	return dto
}

type LedgerDTO struct {
	EmployeeID             string `json:"employee_id"`
	ReferenceYear          int    `json:"reference_year"`
	AdmissionDate          string `json:"admission_date"`
	AnniversaryDate        string `json:"anniversary_date"`
	ServiceYearStart       string `json:"service_year_start"`
	ServiceYearEnd         string `json:"service_year_end"`
	YearsOfService         int    `json:"years_of_service"`
	StatutoryDays          int    `json:"statutory_days"`
	DaysTakenThisYear      int    `json:"days_taken_this_year"`
	RemainingBalance       int    `json:"remaining_balance"`
	PermissionDaysThisYear int    `json:"permission_days_this_year"`
	DisabilityDaysThisYear int    `json:"disability_days_this_year"`
	Overdrawn              bool   `json:"overdrawn"`
}

// =============================================================================
// ATTENDANCE
// =============================================================================

type MarkDTO struct {
	Date string `json:"date"`
	Time string `json:"time"`
	Type string `json:"type"`
}

type RecordMarksRequest struct {
	Marks []MarkDTO `json:"marks"`
}

type RecordMarksResponse struct {
	Received int `json:"received"`
	Inserted int `json:"inserted"`
}

type DayStatsDTO struct {
	Date                string  `json:"date"`
	ObservedEntry       string  `json:"observed_entry,omitempty"`
	ObservedExit        string  `json:"observed_exit,omitempty"`
	MarkCount           int     `json:"mark_count"`
	WorkedHours         float64 `json:"worked_hours"`
	LatenessHours       float64 `json:"lateness_hours"`
	EarlyDepartureHours float64 `json:"early_departure_hours"`
	ExtraHours          float64 `json:"extra_hours"`
	MissingHours        float64 `json:"missing_hours"`
	HasDelay            bool    `json:"has_delay"`
	HasEarlyDeparture   bool    `json:"has_early_departure"`
}

func toDayStatsDTO(d attendance.DayStats) DayStatsDTO {
	dto := DayStatsDTO{
		Date:                d.Date.String(),
		MarkCount:           d.MarkCount,
		WorkedHours:         d.WorkedHours.Float64(),
		LatenessHours:       d.Lateness.Float64(),
		EarlyDepartureHours: d.EarlyDeparture.Float64(),
		ExtraHours:          d.ExtraHours.Float64(),
		MissingHours:        d.MissingHours.Float64(),
		HasDelay:            d.HasDelay,
		HasEarlyDeparture:   d.HasEarlyDeparture,
	}
	if !d.IsAbsence() {
		dto.ObservedEntry = d.ObservedEntry.String()
		dto.ObservedExit = d.ObservedExit.String()
	}
	return dto
}

type WeekStatsDTO struct {
	WorkDaysPerWeek         int     `json:"work_days_per_week"`
	AssignedWeeklyHours     float64 `json:"assigned_weekly_hours"`
	TotalWorkedHours        float64 `json:"total_worked_hours"`
	TotalExtraHours         float64 `json:"total_extra_hours"`
	TotalMissingHours       float64 `json:"total_missing_hours"`
	DaysWithAttendance      int     `json:"days_with_attendance"`
	TotalAbsences           int     `json:"total_absences"`
	DaysWithDelays          int     `json:"days_with_delays"`
	DaysWithEarlyDepartures int     `json:"days_with_early_departures"`
}

type WeekRowDTO struct {
	Week  int           `json:"week"`
	Days  []DayStatsDTO `json:"days"`
	Stats WeekStatsDTO  `json:"stats"`
}

type MonthlyAttendanceDTO struct {
	EmployeeID string       `json:"employee_id"`
	Year       int          `json:"year"`
	Month      int          `json:"month"`
	Schedule   string       `json:"schedule"`
	Weeks      []WeekRowDTO `json:"weeks"`
}

func toWeekRowDTO(row attendance.WeekRow) WeekRowDTO {
	days := make([]DayStatsDTO, len(row.Days))
	for i, d := range row.Days {
		days[i] = toDayStatsDTO(d)
	}
	s := row.Stats
	return WeekRowDTO{
		Week: row.Week,
		Days: days,
		Stats: WeekStatsDTO{
			WorkDaysPerWeek:         s.WorkDaysPerWeek,
			AssignedWeeklyHours:     s.AssignedWeeklyHours.Float64(),
			TotalWorkedHours:        s.TotalWorkedHours.Float64(),
			TotalExtraHours:         s.TotalExtraHours.Float64(),
			TotalMissingHours:       s.TotalMissingHours.Float64(),
			DaysWithAttendance:      s.DaysWithAttendance,
			TotalAbsences:           s.TotalAbsences,
			DaysWithDelays:          s.DaysWithDelays,
			DaysWithEarlyDepartures: s.DaysWithEarlyDepartures,
		},
	}
}

type ReadingDTO struct {
	Date          string  `json:"date"`
	Time          string  `json:"time"`
	Punctuality   string  `json:"punctuality"`
	LatenessHours float64 `json:"lateness_hours"`
}

type PunctualityDTO struct {
	From     string       `json:"from"`
	To       string       `json:"to"`
	Readings []ReadingDTO `json:"readings"`
	OnTime   int          `json:"on_time"`
	Late     int          `json:"late"`
	Unknown  int          `json:"unknown"`
}

// =============================================================================
// PURCHASE REQUESTS
// =============================================================================

type LineItemDTO struct {
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

type ComputeTotalsRequest struct {
	Lines      []LineItemDTO `json:"lines"`
	TaxEnabled bool          `json:"tax_enabled"`
}

type TotalsDTO struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

type CreatePurchaseRequest struct {
	Requester   string        `json:"requester"`
	Description string        `json:"description"`
	TaxEnabled  bool          `json:"tax_enabled"`
	Lines       []LineItemDTO `json:"lines"`
}

type PurchaseRequestDTO struct {
	ID          string        `json:"id"`
	Requester   string        `json:"requester"`
	Description string        `json:"description,omitempty"`
	TaxEnabled  bool          `json:"tax_enabled"`
	Lines       []LineItemDTO `json:"lines"`
	Totals      TotalsDTO     `json:"totals"`
	CreatedAt   string        `json:"created_at,omitempty"`
}

func toLineItems(dtos []LineItemDTO) []purchase.LineItem {
	lines := make([]purchase.LineItem, len(dtos))
	for i, l := range dtos {
		lines[i] = purchase.LineItem{Description: l.Description, Amount: l.Amount, UnitCost: l.UnitCost}
	}
	return lines
}

func toTotalsDTO(t purchase.Totals) TotalsDTO {
	return TotalsDTO{Subtotal: t.Subtotal.Value, Tax: t.Tax.Value, Total: t.Total.Value}
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
