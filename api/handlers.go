/*
handlers.go - HTTP API handlers for the labor rules

PURPOSE:
  A thin calculation API. Handlers load materialized inputs from the store,
  call the pure rules packages, and serialize what they return. Nothing
  computed is written back.

ENDPOINTS:
  Vacation:
    GET    /api/entitlements                          Entitlement table
    GET    /api/entitlements.xlsx                     Same, as a workbook
    GET    /api/employees/{id}/leave-requests         Leave requests on file
    POST   /api/employees/{id}/leave-requests         Record a leave request
    GET    /api/employees/{id}/vacation-ledger        Ledger for ?year=
    GET    /api/vacation-ledgers.xlsx                 Every employee's ledger

  Employees (input feed):
    GET    /api/employees                             List
    POST   /api/employees                             Create or update
    GET    /api/employees/{id}                        Get

  Attendance:
    POST   /api/employees/{id}/marks                  Record marks (JSON batch)
    POST   /api/employees/{id}/marks/import           Import a time-clock export
    GET    /api/employees/{id}/attendance/day         Day stats for ?date=
    GET    /api/employees/{id}/attendance/weekly      Report weeks of ?year=&month=
    GET    /api/employees/{id}/attendance/weekly.xlsx Same, as a workbook
    GET    /api/employees/{id}/attendance/punctuality Entry marks in ?from=&to=

  Purchase requests:
    POST   /api/purchase-requests/totals              Ad-hoc totals
    POST   /api/purchase-requests                     Store a request
    GET    /api/purchase-requests/{id}                Stored request + totals

SCHEDULE OVERRIDE:
  Attendance endpoints use the employee's scheduled shift. ?entry=HH:MM and
  ?exit=HH:MM override it (both or neither).

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Employee or request not found
  - 500: Internal errors (logged)

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/warp/labor-engine/attendance"
	"github.com/warp/labor-engine/generic"
	"github.com/warp/labor-engine/purchase"
	"github.com/warp/labor-engine/report"
	"github.com/warp/labor-engine/store/sqlite"
	"github.com/warp/labor-engine/vacation"
)

const (
	defaultEntitlementYears = 30
	maxUploadBytes          = 10 << 20
	xlsxContentType         = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store *sqlite.Store
	Log   logrus.FieldLogger

	// WorkDaysPerWeek is used by weekly reports unless ?work_days= is given.
	WorkDaysPerWeek int

	// now defaults the reference year/month; replaced in tests.
	now func() time.Time
}

// NewHandler creates a new handler with the given store and logger.
func NewHandler(store *sqlite.Store, log logrus.FieldLogger, workDaysPerWeek int) *Handler {
	if workDaysPerWeek <= 0 {
		workDaysPerWeek = attendance.DefaultWorkDaysPerWeek
	}
	return &Handler{
		Store:           store,
		Log:             log,
		WorkDaysPerWeek: workDaysPerWeek,
		now:             time.Now,
	}
}

// WithClock fixes the handler's notion of "now".
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Store.GetEmployee(r.Context(), employeeID(r))
	if err != nil {
		h.fail(w, r, "Failed to get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// SaveEmployee creates or updates an employee.
func (h *Handler) SaveEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	emp, err := req.toEmployee()
	if err != nil {
		h.fail(w, r, "Invalid employee", err)
		return
	}

	id, err := h.Store.SaveEmployee(r.Context(), emp)
	if err != nil {
		h.fail(w, r, "Failed to save employee", err)
		return
	}
	emp.ID = id

	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

func (req CreateEmployeeRequest) toEmployee() (sqlite.Employee, error) {
	if req.Name == "" {
		return sqlite.Employee{}, generic.Invalid("name", "is required")
	}
	admission, err := generic.ParseDate(req.AdmissionDate)
	if err != nil {
		return sqlite.Employee{}, err
	}

	emp := sqlite.Employee{
		ID:            generic.EmployeeID(req.ID),
		Name:          req.Name,
		AdmissionDate: admission,
		Status:        sqlite.EmployeeStatus(req.Status),
	}
	switch emp.Status {
	case "":
		emp.Status = sqlite.StatusActive
	case sqlite.StatusActive, sqlite.StatusInactive:
	default:
		return sqlite.Employee{}, &generic.ValidationError{Field: "status", Value: req.Status, Reason: "must be active or inactive"}
	}

	if (req.ScheduledEntry == "") != (req.ScheduledExit == "") {
		return sqlite.Employee{}, generic.Invalid("schedule", "scheduled_entry and scheduled_exit go together")
	}
	if req.ScheduledEntry != "" {
		schedule, err := parseSchedule(req.ScheduledEntry, req.ScheduledExit)
		if err != nil {
			return sqlite.Employee{}, err
		}
		emp.ScheduledEntry, emp.ScheduledExit = &schedule.Entry, &schedule.Exit
	}
	return emp, nil
}

// =============================================================================
// VACATION HANDLERS
// =============================================================================

// GetEntitlements returns the entitlement table up to ?max_years= (default 30).
func (h *Handler) GetEntitlements(w http.ResponseWriter, r *http.Request) {
	table, err := entitlementTable(r)
	if err != nil {
		h.fail(w, r, "Invalid max_years", err)
		return
	}

	dtos := make([]EntitlementRowDTO, len(table))
	for i, row := range table {
		dtos[i] = EntitlementRowDTO{YearsOfService: row.YearsOfService, StatutoryDays: row.StatutoryDays}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ExportEntitlements is GetEntitlements as a workbook.
func (h *Handler) ExportEntitlements(w http.ResponseWriter, r *http.Request) {
	table, err := entitlementTable(r)
	if err != nil {
		h.fail(w, r, "Invalid max_years", err)
		return
	}
	h.writeXLSX(w, r, "entitlements.xlsx", report.EntitlementSheet("Entitlements", table))
}

func entitlementTable(r *http.Request) ([]vacation.EntitlementRow, error) {
	maxYears, err := queryInt(r, "max_years", defaultEntitlementYears)
	if err != nil {
		return nil, err
	}
	return vacation.EntitlementTable(maxYears)
}

// ListLeaveRequests returns an employee's leave requests. With ?from=&to=
// only the requests overlapping that range are returned.
func (h *Handler) ListLeaveRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	emp, err := h.Store.GetEmployee(ctx, employeeID(r))
	if err != nil {
		h.fail(w, r, "Failed to get employee", err)
		return
	}

	requests, err := h.Store.ListLeaveRequests(ctx, emp.ID)
	if err != nil {
		h.fail(w, r, "Failed to list leave requests", err)
		return
	}
	if q := r.URL.Query(); q.Get("from") != "" || q.Get("to") != "" {
		period, err := h.queryPeriod(r)
		if err != nil {
			h.fail(w, r, "Invalid period", err)
			return
		}
		requests = vacation.InPeriod(requests, period)
	}

	dtos := make([]LeaveRequestDTO, len(requests))
	for i, req := range requests {
		dtos[i] = toLeaveRequestDTO(req)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateLeaveRequest records a vacation, permission or disability.
func (h *Handler) CreateLeaveRequest(w http.ResponseWriter, r *http.Request) {
	var body CreateLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	emp, err := h.Store.GetEmployee(ctx, employeeID(r))
	if err != nil {
		h.fail(w, r, "Failed to get employee", err)
		return
	}

	req, err := body.toLeaveRequest(emp.ID)
	if err != nil {
		h.fail(w, r, "Invalid leave request", err)
		return
	}

	id, err := h.Store.SaveLeaveRequest(ctx, req)
	if err != nil {
		h.fail(w, r, "Failed to save leave request", err)
		return
	}

	dto := toLeaveRequestDTO(req)
	dto.ID = string(id)
	h.Log.WithFields(logrus.Fields{
		"employee_id": emp.ID,
		"request_id":  id,
		"type":        dto.Type,
		"days":        dto.DaysCount,
	}).Info("leave request recorded")

	writeJSON(w, http.StatusCreated, dto)
}

func (body CreateLeaveRequest) toLeaveRequest(emp generic.EmployeeID) (vacation.LeaveRequest, error) {
	kind, err := vacation.ParseKind(body.Type)
	if err != nil {
		return nil, err
	}
	start, err := generic.ParseDate(body.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := generic.ParseDate(body.EndDate)
	if err != nil {
		return nil, err
	}

	leave := vacation.Leave{EmployeeID: emp, Start: start, End: end, DaysCount: body.DaysCount}
	return vacation.NewLeaveRequest(kind, leave, body.VacationYear, body.WithPay, body.Folio)
}

// GetVacationLedger computes the ledger for ?year= (default: current year).
func (h *Handler) GetVacationLedger(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r, "year", h.now().Year())
	if err != nil {
		h.fail(w, r, "Invalid year", err)
		return
	}

	ctx := r.Context()
	emp, err := h.Store.GetEmployee(ctx, employeeID(r))
	if err != nil {
		h.fail(w, r, "Failed to get employee", err)
		return
	}

	ledger, err := h.ledgerFor(r, *emp, year)
	if err != nil {
		h.fail(w, r, "Failed to compute ledger", err)
		return
	}

	writeJSON(w, http.StatusOK, LedgerDTO{
		EmployeeID:             string(emp.ID),
		ReferenceYear:          ledger.ReferenceYear,
		AdmissionDate:          emp.AdmissionDate.String(),
		AnniversaryDate:        ledger.AnniversaryDateInReferenceYear.String(),
		ServiceYearStart:       ledger.ServiceYear.Start.String(),
		ServiceYearEnd:         ledger.ServiceYear.End.String(),
		YearsOfService:         ledger.YearsOfService,
		StatutoryDays:          ledger.StatutoryDays,
		DaysTakenThisYear:      ledger.DaysTakenThisYear,
		RemainingBalance:       ledger.RemainingBalance,
		PermissionDaysThisYear: ledger.PermissionDaysThisYear,
		DisabilityDaysThisYear: ledger.DisabilityDaysThisYear,
		Overdrawn:              ledger.IsOverdrawn(),
	})
}

// ExportVacationLedgers writes every active employee's ledger for ?year=.
func (h *Handler) ExportVacationLedgers(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r, "year", h.now().Year())
	if err != nil {
		h.fail(w, r, "Invalid year", err)
		return
	}

	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to list employees", err)
		return
	}

	lines := make([]report.LedgerLine, 0, len(employees))
	for _, emp := range employees {
		if emp.Status == sqlite.StatusInactive {
			continue
		}
		ledger, err := h.ledgerFor(r, emp, year)
		if err != nil {
			h.fail(w, r, fmt.Sprintf("Failed to compute ledger for %s", emp.ID), err)
			return
		}
		lines = append(lines, report.LedgerLine{EmployeeID: emp.ID, Name: emp.Name, Ledger: ledger})
	}

	h.writeXLSX(w, r, fmt.Sprintf("vacation-ledgers-%d.xlsx", year), report.LedgerSheet(strconv.Itoa(year), lines))
}

func (h *Handler) ledgerFor(r *http.Request, emp sqlite.Employee, year int) (vacation.Ledger, error) {
	requests, err := h.Store.ListLeaveRequests(r.Context(), emp.ID)
	if err != nil {
		return vacation.Ledger{}, err
	}
	return vacation.ComputeLedger(emp.AdmissionDate, year, requests)
}

// =============================================================================
// ATTENDANCE HANDLERS
// =============================================================================

// RecordMarks stores a batch of marks. Marks already on file are skipped.
func (h *Handler) RecordMarks(w http.ResponseWriter, r *http.Request) {
	var body RecordMarksRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	emp, err := h.Store.GetEmployee(ctx, employeeID(r))
	if err != nil {
		h.fail(w, r, "Failed to get employee", err)
		return
	}

	marks := make([]attendance.Mark, len(body.Marks))
	for i, m := range body.Marks {
		mark, err := m.toMark(emp.ID)
		if err != nil {
			h.fail(w, r, fmt.Sprintf("Invalid mark %d", i), err)
			return
		}
		marks[i] = mark
	}

	h.saveMarks(w, r, emp.ID, marks)
}

// ImportMarks reads a multipart "file" field (.xlsx or .xls time-clock
// export) and stores the employee's marks from it.
func (h *Handler) ImportMarks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	emp, err := h.Store.GetEmployee(ctx, employeeID(r))
	if err != nil {
		h.fail(w, r, "Failed to get employee", err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file upload", err)
		return
	}
	defer file.Close()

	rows, err := report.ReadRows(file, header.Filename)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unreadable spreadsheet", err)
		return
	}
	marks, err := report.ParseMarks(rows, emp.ID)
	if err != nil {
		h.fail(w, r, "Invalid time-clock export", err)
		return
	}

	h.saveMarks(w, r, emp.ID, marks)
}

func (h *Handler) saveMarks(w http.ResponseWriter, r *http.Request, emp generic.EmployeeID, marks []attendance.Mark) {
	inserted, err := h.Store.SaveMarks(r.Context(), marks)
	if err != nil {
		h.fail(w, r, "Failed to save marks", err)
		return
	}

	h.Log.WithFields(logrus.Fields{
		"employee_id": emp,
		"received":    len(marks),
		"inserted":    inserted,
	}).Info("attendance marks recorded")

	writeJSON(w, http.StatusCreated, RecordMarksResponse{Received: len(marks), Inserted: inserted})
}

func (m MarkDTO) toMark(emp generic.EmployeeID) (attendance.Mark, error) {
	date, err := generic.ParseDate(m.Date)
	if err != nil {
		return attendance.Mark{}, err
	}
	clock, err := generic.ParseTimeOfDay(m.Time)
	if err != nil {
		return attendance.Mark{}, err
	}
	markType, err := attendance.ParseMarkType(m.Type)
	if err != nil {
		return attendance.Mark{}, err
	}
	return attendance.Mark{EmployeeID: emp, Date: date, Time: clock, Type: markType}, nil
}

// GetDayStats computes the variance of one day (?date=, required).
func (h *Handler) GetDayStats(w http.ResponseWriter, r *http.Request) {
	day, err := generic.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		h.fail(w, r, "Invalid date", err)
		return
	}

	ctx := r.Context()
	emp, err := h.Store.GetEmployee(ctx, employeeID(r))
	if err != nil {
		h.fail(w, r, "Failed to get employee", err)
		return
	}
	schedule, err := scheduleFor(r, *emp)
	if err != nil {
		h.fail(w, r, "No schedule", err)
		return
	}

	marks, err := h.Store.ListMarks(ctx, emp.ID, generic.Period{Start: day, End: day})
	if err != nil {
		h.fail(w, r, "Failed to load marks", err)
		return
	}

	stats, err := attendance.ComputeDayStats(marks, schedule.Entry, schedule.Exit)
	if err != nil {
		h.fail(w, r, "Failed to compute day stats", err)
		return
	}
	stats.Date = day

	writeJSON(w, http.StatusOK, toDayStatsDTO(stats))
}

// GetWeeklyAttendance returns the report weeks of ?year=&month= (default:
// current month).
func (h *Handler) GetWeeklyAttendance(w http.ResponseWriter, r *http.Request) {
	emp, year, month, schedule, weeks, ok := h.monthlyReport(w, r)
	if !ok {
		return
	}

	dtos := make([]WeekRowDTO, len(weeks))
	for i, row := range weeks {
		dtos[i] = toWeekRowDTO(row)
	}
	writeJSON(w, http.StatusOK, MonthlyAttendanceDTO{
		EmployeeID: string(emp.ID),
		Year:       year,
		Month:      int(month),
		Schedule:   schedule.String(),
		Weeks:      dtos,
	})
}

// ExportWeeklyAttendance is GetWeeklyAttendance as a workbook with a weekly
// and a daily sheet.
func (h *Handler) ExportWeeklyAttendance(w http.ResponseWriter, r *http.Request) {
	emp, year, month, _, weeks, ok := h.monthlyReport(w, r)
	if !ok {
		return
	}

	filename := fmt.Sprintf("attendance-%s-%d-%02d.xlsx", emp.ID, year, int(month))
	h.writeXLSX(w, r, filename,
		report.WeeklyAttendanceSheet("Weekly", weeks),
		report.DailyAttendanceSheet("Daily", weeks),
	)
}

func (h *Handler) monthlyReport(w http.ResponseWriter, r *http.Request) (*sqlite.Employee, int, time.Month, attendance.Schedule, []attendance.WeekRow, bool) {
	now := h.now()
	year, err := queryInt(r, "year", now.Year())
	if err != nil {
		h.fail(w, r, "Invalid year", err)
		return nil, 0, 0, attendance.Schedule{}, nil, false
	}
	monthNum, err := queryInt(r, "month", int(now.Month()))
	if err != nil {
		h.fail(w, r, "Invalid month", err)
		return nil, 0, 0, attendance.Schedule{}, nil, false
	}
	month := time.Month(monthNum)
	if month < time.January || month > time.December {
		h.fail(w, r, "Invalid month", &generic.ValidationError{Field: "month", Value: strconv.Itoa(monthNum), Reason: "must be 1-12"})
		return nil, 0, 0, attendance.Schedule{}, nil, false
	}
	workDays, err := queryInt(r, "work_days", h.WorkDaysPerWeek)
	if err != nil {
		h.fail(w, r, "Invalid work_days", err)
		return nil, 0, 0, attendance.Schedule{}, nil, false
	}

	ctx := r.Context()
	emp, err := h.Store.GetEmployee(ctx, employeeID(r))
	if err != nil {
		h.fail(w, r, "Failed to get employee", err)
		return nil, 0, 0, attendance.Schedule{}, nil, false
	}
	schedule, err := scheduleFor(r, *emp)
	if err != nil {
		h.fail(w, r, "No schedule", err)
		return nil, 0, 0, attendance.Schedule{}, nil, false
	}

	marks, err := h.Store.ListMarks(ctx, emp.ID, generic.CalendarMonth(year, month))
	if err != nil {
		h.fail(w, r, "Failed to load marks", err)
		return nil, 0, 0, attendance.Schedule{}, nil, false
	}

	weeks, err := attendance.MonthlyReport(marks, schedule, year, month, workDays)
	if err != nil {
		h.fail(w, r, "Failed to compute weekly attendance", err)
		return nil, 0, 0, attendance.Schedule{}, nil, false
	}
	return emp, year, month, schedule, weeks, true
}

// GetPunctuality classifies entry marks within ?from=&to= (default: current
// month). Without a scheduled entry every reading is "unknown".
func (h *Handler) GetPunctuality(w http.ResponseWriter, r *http.Request) {
	period, err := h.queryPeriod(r)
	if err != nil {
		h.fail(w, r, "Invalid period", err)
		return
	}

	ctx := r.Context()
	emp, err := h.Store.GetEmployee(ctx, employeeID(r))
	if err != nil {
		h.fail(w, r, "Failed to get employee", err)
		return
	}

	entry := emp.ScheduledEntry
	if s := r.URL.Query().Get("entry"); s != "" {
		t, err := generic.ParseTimeOfDay(s)
		if err != nil {
			h.fail(w, r, "Invalid entry", err)
			return
		}
		entry = &t
	}

	marks, err := h.Store.ListMarks(ctx, emp.ID, period)
	if err != nil {
		h.fail(w, r, "Failed to load marks", err)
		return
	}

	result, err := attendance.ClassifyMarks(marks, entry)
	if err != nil {
		h.fail(w, r, "Failed to classify marks", err)
		return
	}

	readings := make([]ReadingDTO, len(result.Readings))
	for i, rd := range result.Readings {
		readings[i] = ReadingDTO{
			Date:          rd.Mark.Date.String(),
			Time:          rd.Mark.Time.String(),
			Punctuality:   string(rd.Punctuality),
			LatenessHours: rd.Lateness.Float64(),
		}
	}
	writeJSON(w, http.StatusOK, PunctualityDTO{
		From:     period.Start.String(),
		To:       period.End.String(),
		Readings: readings,
		OnTime:   result.OnTime,
		Late:     result.Late,
		Unknown:  result.Unknown,
	})
}

func (h *Handler) queryPeriod(r *http.Request) (generic.Period, error) {
	q := r.URL.Query()
	if q.Get("from") == "" && q.Get("to") == "" {
		now := h.now()
		return generic.CalendarMonth(now.Year(), now.Month()), nil
	}
	from, err := generic.ParseDate(q.Get("from"))
	if err != nil {
		return generic.Period{}, err
	}
	to, err := generic.ParseDate(q.Get("to"))
	if err != nil {
		return generic.Period{}, err
	}
	return generic.NewPeriod(from, to)
}

// scheduleFor returns the ?entry=&exit= override or the employee's shift.
func scheduleFor(r *http.Request, emp sqlite.Employee) (attendance.Schedule, error) {
	q := r.URL.Query()
	if entry, exit := q.Get("entry"), q.Get("exit"); entry != "" || exit != "" {
		return parseSchedule(entry, exit)
	}
	schedule, ok := emp.Schedule()
	if !ok {
		return attendance.Schedule{}, generic.Invalid("schedule", "employee has no scheduled shift; pass entry and exit")
	}
	return schedule, nil
}

func parseSchedule(entry, exit string) (attendance.Schedule, error) {
	in, err := generic.ParseTimeOfDay(entry)
	if err != nil {
		return attendance.Schedule{}, err
	}
	out, err := generic.ParseTimeOfDay(exit)
	if err != nil {
		return attendance.Schedule{}, err
	}
	schedule := attendance.Schedule{Entry: in, Exit: out}
	return schedule, schedule.Validate()
}

// =============================================================================
// PURCHASE REQUEST HANDLERS
// =============================================================================

// ComputeTotals returns totals for the posted lines without storing them.
func (h *Handler) ComputeTotals(w http.ResponseWriter, r *http.Request) {
	var body ComputeTotalsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	totals, err := purchase.ComputeTotals(toLineItems(body.Lines), body.TaxEnabled)
	if err != nil {
		h.fail(w, r, "Invalid line items", err)
		return
	}
	writeJSON(w, http.StatusOK, toTotalsDTO(totals))
}

// CreatePurchaseRequest stores a purchase request and returns it with totals.
func (h *Handler) CreatePurchaseRequest(w http.ResponseWriter, r *http.Request) {
	var body CreatePurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	req := purchase.Request{
		Requester:   body.Requester,
		Description: body.Description,
		TaxEnabled:  body.TaxEnabled,
		Lines:       toLineItems(body.Lines),
		CreatedAt:   h.now().UTC().Truncate(time.Second),
	}
	id, err := h.Store.SavePurchaseRequest(r.Context(), req)
	if err != nil {
		h.fail(w, r, "Failed to save purchase request", err)
		return
	}
	req.ID = id

	h.writePurchaseRequest(w, r, http.StatusCreated, req)
}

// GetPurchaseRequest returns a stored request with freshly computed totals.
func (h *Handler) GetPurchaseRequest(w http.ResponseWriter, r *http.Request) {
	req, err := h.Store.GetPurchaseRequest(r.Context(), generic.RequestID(chi.URLParam(r, "id")))
	if err != nil {
		h.fail(w, r, "Failed to get purchase request", err)
		return
	}
	h.writePurchaseRequest(w, r, http.StatusOK, *req)
}

func (h *Handler) writePurchaseRequest(w http.ResponseWriter, r *http.Request, status int, req purchase.Request) {
	totals, err := req.Totals()
	if err != nil {
		h.fail(w, r, "Failed to compute totals", err)
		return
	}

	lines := make([]LineItemDTO, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = LineItemDTO{Description: l.Description, Amount: l.Amount, UnitCost: l.UnitCost}
	}
	writeJSON(w, status, PurchaseRequestDTO{
		ID:          string(req.ID),
		Requester:   req.Requester,
		Description: req.Description,
		TaxEnabled:  req.TaxEnabled,
		Lines:       lines,
		Totals:      toTotalsDTO(totals),
		CreatedAt:   req.CreatedAt.Format(time.RFC3339),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func employeeID(r *http.Request) generic.EmployeeID {
	return generic.EmployeeID(chi.URLParam(r, "id"))
}

// queryInt reads an integer query parameter, falling back to def when absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &generic.ValidationError{Field: name, Value: s, Reason: "must be an integer"}
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// fail maps err to a status code. Only server errors are logged.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, message string, err error) {
	switch {
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	default:
		h.Log.WithFields(logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"path":       r.URL.Path,
		}).WithError(err).Error(message)
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

// writeXLSX renders into memory first so a failure can still be reported
// as JSON.
func (h *Handler) writeXLSX(w http.ResponseWriter, r *http.Request, filename string, sheets ...report.Sheet) {
	var buf bytes.Buffer
	if err := report.WriteXLSX(&buf, sheets...); err != nil {
		h.fail(w, r, "Failed to write workbook", err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}
