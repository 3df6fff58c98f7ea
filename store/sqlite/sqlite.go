/*
Package sqlite persists the inputs the labor rules are computed from.

PURPOSE:
  The rules packages are pure: they take materialized slices and return
  values. This store is where those slices come from. It keeps employees,
  their leave requests, time-clock marks and purchase requests. Nothing
  computed (ledgers, day/week stats, totals) is stored; it is recomputed
  from these rows on every read.

KEY TABLES:
  employees:              Admission date and scheduled shift
  leave_requests:         Vacation | permission | disability rows
  attendance_marks:       One row per time-clock reading
  purchase_requests:      Request header (requester, tax flag)
  purchase_request_lines: Quantity x unit cost lines

IDS:
  Rows created without an ID get a ULID, so IDs sort by creation time.

IDEMPOTENT MARK IMPORT:
  attendance_marks is unique on (employee_id, date, time, mark_type).
  Re-importing the same time-clock export inserts nothing new.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of SQLite's own locking.

WAL MODE:
  Opened with WAL so readers don't block the single writer.

USAGE:
  store, err := sqlite.New("./data/labor.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - vacation/request.go: LeaveRequest variants rebuilt from leave_requests
  - attendance/mark.go: Mark
  - purchase/totals.go: Request and LineItem
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/warp/labor-engine/attendance"
	"github.com/warp/labor-engine/generic"
	"github.com/warp/labor-engine/purchase"
	"github.com/warp/labor-engine/vacation"
)

// Store implements persistence for employees, leave, marks and purchases.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Each connection to ":memory:" is its own database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		admission_date TEXT NOT NULL,
		scheduled_entry TEXT,
		scheduled_exit TEXT,
		status TEXT NOT NULL DEFAULT 'active',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS leave_requests (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		kind TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		days_count INTEGER NOT NULL,
		vacation_year INTEGER NOT NULL DEFAULT 0,
		paid BOOLEAN NOT NULL DEFAULT FALSE,
		folio TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_leave_requests_employee
		ON leave_requests(employee_id, start_date);

	CREATE TABLE IF NOT EXISTS attendance_marks (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		date TEXT NOT NULL,
		time TEXT NOT NULL,
		mark_type TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Re-importing a time-clock export must not duplicate marks
	CREATE UNIQUE INDEX IF NOT EXISTS idx_attendance_marks_unique
		ON attendance_marks(employee_id, date, time, mark_type);

	CREATE TABLE IF NOT EXISTS purchase_requests (
		id TEXT PRIMARY KEY,
		requester TEXT NOT NULL,
		description TEXT,
		tax_enabled BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS purchase_request_lines (
		request_id TEXT NOT NULL REFERENCES purchase_requests(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		description TEXT,
		amount TEXT NOT NULL,
		unit_cost TEXT NOT NULL,
		PRIMARY KEY (request_id, position)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEE STORE
// =============================================================================

type EmployeeStatus string

const (
	StatusActive   EmployeeStatus = "active"
	StatusInactive EmployeeStatus = "inactive"
)

// Employee is the read-only employee record the calculators consume.
type Employee struct {
	ID            generic.EmployeeID
	Name          string
	AdmissionDate generic.TimePoint
	// Nil when no shift is configured.
	ScheduledEntry *generic.TimeOfDay
	ScheduledExit  *generic.TimeOfDay
	Status         EmployeeStatus
	CreatedAt      time.Time
}

// Schedule returns the employee's shift, if one is configured.
func (e Employee) Schedule() (attendance.Schedule, bool) {
	if e.ScheduledEntry == nil || e.ScheduledExit == nil {
		return attendance.Schedule{}, false
	}
	return attendance.Schedule{Entry: *e.ScheduledEntry, Exit: *e.ScheduledExit}, true
}

// SaveEmployee inserts or updates an employee. An empty ID gets a new ULID;
// the stored ID is returned.
func (s *Store) SaveEmployee(ctx context.Context, emp Employee) (generic.EmployeeID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if emp.ID == "" {
		emp.ID = generic.EmployeeID(newID())
	}
	if emp.Status == "" {
		emp.Status = StatusActive
	}

	query := `
		INSERT INTO employees (id, name, admission_date, scheduled_entry, scheduled_exit, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			admission_date = excluded.admission_date,
			scheduled_entry = excluded.scheduled_entry,
			scheduled_exit = excluded.scheduled_exit,
			status = excluded.status
	`

	_, err := s.db.ExecContext(ctx, query,
		string(emp.ID), emp.Name, emp.AdmissionDate.String(),
		nullClock(emp.ScheduledEntry), nullClock(emp.ScheduledExit),
		string(emp.Status), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", err
	}
	return emp.ID, nil
}

// GetEmployee retrieves an employee by ID. Missing employees yield
// generic.ErrEmployeeNotFound.
func (s *Store) GetEmployee(ctx context.Context, id generic.EmployeeID) (*Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, admission_date, scheduled_entry, scheduled_exit, status, created_at FROM employees WHERE id = ?",
		string(id),
	)
	emp, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", generic.ErrEmployeeNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

// ListEmployees returns all employees ordered by name.
func (s *Store) ListEmployees(ctx context.Context) ([]Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, admission_date, scheduled_entry, scheduled_exit, status, created_at FROM employees ORDER BY name, id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row scanner) (Employee, error) {
	var emp Employee
	var id, admission, status, createdAt string
	var entry, exit sql.NullString
	if err := row.Scan(&id, &emp.Name, &admission, &entry, &exit, &status, &createdAt); err != nil {
		return Employee{}, err
	}

	emp.ID = generic.EmployeeID(id)
	emp.Status = EmployeeStatus(status)
	emp.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	var err error
	if emp.AdmissionDate, err = generic.ParseDate(admission); err != nil {
		return Employee{}, fmt.Errorf("employee %s: %w", id, err)
	}
	if emp.ScheduledEntry, err = parseNullClock(entry); err != nil {
		return Employee{}, fmt.Errorf("employee %s: %w", id, err)
	}
	if emp.ScheduledExit, err = parseNullClock(exit); err != nil {
		return Employee{}, fmt.Errorf("employee %s: %w", id, err)
	}
	return emp, nil
}

// =============================================================================
// LEAVE REQUEST STORE
// =============================================================================

// SaveLeaveRequest inserts or replaces a leave request. An empty ID gets a
// new ULID; the stored ID is returned.
func (s *Store) SaveLeaveRequest(ctx context.Context, req vacation.LeaveRequest) (generic.RequestID, error) {
	if req == nil {
		return "", generic.Invalid("request", "is nil")
	}
	if err := req.Validate(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	h := req.Header()
	if h.ID == "" {
		h.ID = generic.RequestID(newID())
	}

	var vacationYear int
	var folio string
	switch r := req.(type) {
	case vacation.Vacation:
		vacationYear = r.VacationYear
	case vacation.Disability:
		folio = r.Folio
	}

	query := `
		INSERT INTO leave_requests (id, employee_id, kind, start_date, end_date, days_count,
			vacation_year, paid, folio, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			days_count = excluded.days_count,
			vacation_year = excluded.vacation_year,
			paid = excluded.paid,
			folio = excluded.folio
	`

	_, err := s.db.ExecContext(ctx, query,
		string(h.ID), string(h.EmployeeID), string(req.Kind()),
		h.Start.String(), h.End.String(), h.DaysCount,
		vacationYear, req.WithPay(), nullString(folio),
		time.Now().UTC().Format(time.RFC3339),
	)
	if isForeignKeyError(err) {
		return "", fmt.Errorf("%w: %s", generic.ErrEmployeeNotFound, h.EmployeeID)
	}
	if err != nil {
		return "", err
	}
	return h.ID, nil
}

// ListLeaveRequests returns an employee's leave requests ordered by start date.
func (s *Store) ListLeaveRequests(ctx context.Context, employeeID generic.EmployeeID) ([]vacation.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, kind, start_date, end_date, days_count, vacation_year, paid, folio
		FROM leave_requests
		WHERE employee_id = ?
		ORDER BY start_date, id
	`, string(employeeID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []vacation.LeaveRequest{}
	for rows.Next() {
		var id, emp, kind, start, end string
		var days, vacationYear int
		var paid bool
		var folio sql.NullString
		if err := rows.Scan(&id, &emp, &kind, &start, &end, &days, &vacationYear, &paid, &folio); err != nil {
			return nil, err
		}

		req, err := rebuildLeaveRequest(id, emp, kind, start, end, days, vacationYear, paid, folio.String)
		if err != nil {
			return nil, fmt.Errorf("leave request %s: %w", id, err)
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

func rebuildLeaveRequest(id, emp, kind, start, end string, days, vacationYear int, paid bool, folio string) (vacation.LeaveRequest, error) {
	k, err := vacation.ParseKind(kind)
	if err != nil {
		return nil, err
	}
	startDate, err := generic.ParseDate(start)
	if err != nil {
		return nil, err
	}
	endDate, err := generic.ParseDate(end)
	if err != nil {
		return nil, err
	}

	leave := vacation.Leave{
		ID:         generic.RequestID(id),
		EmployeeID: generic.EmployeeID(emp),
		Start:      startDate,
		End:        endDate,
		DaysCount:  days,
	}
	return vacation.NewLeaveRequest(k, leave, vacationYear, paid, folio)
}

// =============================================================================
// ATTENDANCE MARK STORE
// =============================================================================

// SaveMarks stores marks in one transaction and returns how many were new.
// Marks already on file are skipped.
func (s *Store) SaveMarks(ctx context.Context, marks []attendance.Mark) (int, error) {
	for i, m := range marks {
		if m.EmployeeID == "" {
			return 0, generic.Invalid(fmt.Sprintf("marks[%d].employee_id", i), "is required")
		}
		if m.Date.IsZero() {
			return 0, generic.Invalid(fmt.Sprintf("marks[%d].date", i), "is required")
		}
		if err := m.Validate(); err != nil {
			return 0, fmt.Errorf("marks[%d]: %w", i, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO attendance_marks (id, employee_id, date, time, mark_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, date, time, mark_type) DO NOTHING
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	inserted := 0
	for _, m := range marks {
		res, err := stmt.ExecContext(ctx, newID(), string(m.EmployeeID), m.Date.String(), clockText(m.Time), string(m.Type), now)
		if isForeignKeyError(err) {
			return 0, fmt.Errorf("%w: %s", generic.ErrEmployeeNotFound, m.EmployeeID)
		}
		if err != nil {
			return 0, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

// ListMarks returns an employee's marks within period (inclusive), ordered by
// date and time.
func (s *Store) ListMarks(ctx context.Context, employeeID generic.EmployeeID, period generic.Period) ([]attendance.Mark, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT date, time, mark_type
		FROM attendance_marks
		WHERE employee_id = ? AND date >= ? AND date <= ?
		ORDER BY date, time
	`, string(employeeID), period.Start.String(), period.End.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	marks := []attendance.Mark{}
	for rows.Next() {
		var date, clock, markType string
		if err := rows.Scan(&date, &clock, &markType); err != nil {
			return nil, err
		}

		m := attendance.Mark{EmployeeID: employeeID, Type: attendance.MarkType(markType)}
		if m.Date, err = generic.ParseDate(date); err != nil {
			return nil, err
		}
		if m.Time, err = generic.ParseTimeOfDay(clock); err != nil {
			return nil, err
		}
		marks = append(marks, m)
	}
	return marks, rows.Err()
}

// =============================================================================
// PURCHASE REQUEST STORE
// =============================================================================

// SavePurchaseRequest stores a request header and replaces its lines in one
// transaction. An empty ID gets a new ULID; the stored ID is returned.
func (s *Store) SavePurchaseRequest(ctx context.Context, req purchase.Request) (generic.RequestID, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.ID == "" {
		req.ID = generic.RequestID(newID())
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO purchase_requests (id, requester, description, tax_enabled, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			requester = excluded.requester,
			description = excluded.description,
			tax_enabled = excluded.tax_enabled
	`, string(req.ID), req.Requester, nullString(req.Description), req.TaxEnabled, req.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return "", err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM purchase_request_lines WHERE request_id = ?", string(req.ID)); err != nil {
		return "", err
	}
	for i, line := range req.Lines {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO purchase_request_lines (request_id, position, description, amount, unit_cost)
			VALUES (?, ?, ?, ?, ?)
		`, string(req.ID), i, nullString(line.Description), line.Amount.String(), line.UnitCost.String())
		if err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return req.ID, nil
}

// GetPurchaseRequest retrieves a request with its lines in entry order.
// Missing requests yield generic.ErrRequestNotFound.
func (s *Store) GetPurchaseRequest(ctx context.Context, id generic.RequestID) (*purchase.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var req purchase.Request
	var reqID, createdAt string
	var description sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT id, requester, description, tax_enabled, created_at FROM purchase_requests WHERE id = ?",
		string(id),
	).Scan(&reqID, &req.Requester, &description, &req.TaxEnabled, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", generic.ErrRequestNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	req.ID = generic.RequestID(reqID)
	req.Description = description.String
	req.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	rows, err := s.db.QueryContext(ctx, `
		SELECT description, amount, unit_cost
		FROM purchase_request_lines
		WHERE request_id = ?
		ORDER BY position
	`, string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line purchase.LineItem
		var lineDesc sql.NullString
		var amount, unitCost string
		if err := rows.Scan(&lineDesc, &amount, &unitCost); err != nil {
			return nil, err
		}
		line.Description = lineDesc.String
		if line.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("purchase request %s: amount: %w", id, err)
		}
		if line.UnitCost, err = decimal.NewFromString(unitCost); err != nil {
			return nil, fmt.Errorf("purchase request %s: unit cost: %w", id, err)
		}
		req.Lines = append(req.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &req, nil
}

// Helper functions

func newID() string {
	return ulid.Make().String()
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// clockText always carries seconds so text ordering matches clock ordering.
func clockText(t generic.TimeOfDay) string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
}

func nullClock(t *generic.TimeOfDay) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: clockText(*t), Valid: true}
}

func parseNullClock(v sql.NullString) (*generic.TimeOfDay, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	t, err := generic.ParseTimeOfDay(v.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func isForeignKeyError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
