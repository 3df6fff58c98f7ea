package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/labor-engine/attendance"
	"github.com/warp/labor-engine/generic"
	"github.com/warp/labor-engine/purchase"
	"github.com/warp/labor-engine/store/sqlite"
	"github.com/warp/labor-engine/vacation"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func seedEmployee(t *testing.T, store *sqlite.Store) generic.EmployeeID {
	t.Helper()
	entry, exit := generic.MustTimeOfDay(8, 0), generic.MustTimeOfDay(16, 0)
	id, err := store.SaveEmployee(context.Background(), sqlite.Employee{
		ID:             "emp-1",
		Name:           "Ana Torres",
		AdmissionDate:  generic.NewTimePoint(2020, time.February, 29),
		ScheduledEntry: &entry,
		ScheduledExit:  &exit,
	})
	require.NoError(t, err)
	return id
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func TestEmployee_RoundTrip(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	id := seedEmployee(t, store)

	emp, err := store.GetEmployee(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, "Ana Torres", emp.Name)
	assert.Equal(t, "2020-02-29", emp.AdmissionDate.String())
	assert.Equal(t, sqlite.StatusActive, emp.Status)

	schedule, ok := emp.Schedule()
	require.True(t, ok)
	assert.Equal(t, "08:00-16:00", schedule.String())
}

func TestEmployee_UpsertAndGeneratedID(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	seedEmployee(t, store)

	// Update: drop the shift
	_, err := store.SaveEmployee(ctx, sqlite.Employee{
		ID:            "emp-1",
		Name:          "Ana Torres",
		AdmissionDate: generic.NewTimePoint(2020, time.February, 29),
		Status:        sqlite.StatusInactive,
	})
	require.NoError(t, err)

	// Insert without ID
	newID, err := store.SaveEmployee(ctx, sqlite.Employee{Name: "Bruno", AdmissionDate: generic.NewTimePoint(2024, time.June, 1)})
	require.NoError(t, err)
	assert.Len(t, string(newID), 26, "ULID")

	emps, err := store.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, emps, 2)
	assert.Equal(t, "Ana Torres", emps[0].Name)
	assert.Equal(t, sqlite.StatusInactive, emps[0].Status)
	_, ok := emps[0].Schedule()
	assert.False(t, ok)
}

func TestGetEmployee_NotFound(t *testing.T) {
	store := newStore(t)

	_, err := store.GetEmployee(context.Background(), "nobody")
	assert.ErrorIs(t, err, generic.ErrEmployeeNotFound)
	assert.True(t, generic.IsNotFound(err))
}

// =============================================================================
// LEAVE REQUESTS
// =============================================================================

func TestLeaveRequests_RoundTripAllVariants(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	emp := seedEmployee(t, store)

	leave := func(start, end generic.TimePoint, days int) vacation.Leave {
		return vacation.Leave{EmployeeID: emp, Start: start, End: end, DaysCount: days}
	}
	requests := []vacation.LeaveRequest{
		vacation.Disability{Leave: leave(generic.NewTimePoint(2025, time.May, 5), generic.NewTimePoint(2025, time.May, 9), 5), Folio: "IMSS-0042"},
		vacation.Vacation{Leave: leave(generic.NewTimePoint(2025, time.January, 6), generic.NewTimePoint(2025, time.January, 10), 5), VacationYear: 2024},
		vacation.Permission{Leave: leave(generic.NewTimePoint(2025, time.March, 3), generic.NewTimePoint(2025, time.March, 3), 1), Paid: true},
	}
	for _, r := range requests {
		id, err := store.SaveLeaveRequest(ctx, r)
		require.NoError(t, err)
		assert.NotEmpty(t, id)
	}

	got, err := store.ListLeaveRequests(ctx, emp)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Ordered by start date
	v, ok := got[0].(vacation.Vacation)
	require.True(t, ok, "first is the vacation")
	assert.Equal(t, 2024, v.VacationYear)
	assert.Equal(t, 5, v.DaysCount)

	p, ok := got[1].(vacation.Permission)
	require.True(t, ok)
	assert.True(t, p.Paid)

	d, ok := got[2].(vacation.Disability)
	require.True(t, ok)
	assert.Equal(t, "IMSS-0042", d.Folio)
	assert.False(t, d.WithPay())
}

func TestLeaveRequests_FeedLedger(t *testing.T) {
	// GIVEN: Stored requests for an employee admitted 2020-02-29
	store := newStore(t)
	ctx := context.Background()
	emp := seedEmployee(t, store)

	_, err := store.SaveLeaveRequest(ctx, vacation.Vacation{Leave: vacation.Leave{
		EmployeeID: emp,
		Start:      generic.NewTimePoint(2025, time.July, 1),
		End:        generic.NewTimePoint(2025, time.July, 4),
		DaysCount:  4,
	}})
	require.NoError(t, err)

	// WHEN: Computing the ledger from what the store returns
	requests, err := store.ListLeaveRequests(ctx, emp)
	require.NoError(t, err)
	ledger, err := vacation.ComputeLedger(generic.NewTimePoint(2020, time.February, 29), 2025, requests)
	require.NoError(t, err)

	// THEN: 5 years of service, 20 days, 4 taken
	assert.Equal(t, 20, ledger.StatutoryDays)
	assert.Equal(t, 4, ledger.DaysTakenThisYear)
	assert.Equal(t, 16, ledger.RemainingBalance)
	assert.Equal(t, "2025-02-28", ledger.AnniversaryDateInReferenceYear.String())
}

func TestLeaveRequests_Rejects(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	_, err := store.SaveLeaveRequest(ctx, nil)
	assert.ErrorIs(t, err, generic.ErrInvalidInput)

	// Unknown employee
	_, err = store.SaveLeaveRequest(ctx, vacation.Permission{Leave: vacation.Leave{
		EmployeeID: "ghost",
		Start:      generic.NewTimePoint(2025, time.March, 3),
		End:        generic.NewTimePoint(2025, time.March, 3),
		DaysCount:  1,
	}})
	assert.ErrorIs(t, err, generic.ErrEmployeeNotFound)

	// End before start
	_, err = store.SaveLeaveRequest(ctx, vacation.Vacation{Leave: vacation.Leave{
		EmployeeID: "ghost",
		Start:      generic.NewTimePoint(2025, time.March, 3),
		End:        generic.NewTimePoint(2025, time.March, 1),
	}})
	assert.ErrorIs(t, err, generic.ErrInvalidPeriod)
}

// =============================================================================
// ATTENDANCE MARKS
// =============================================================================

func TestMarks_SaveIsIdempotentAndListIsOrdered(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	emp := seedEmployee(t, store)

	day := generic.NewTimePoint(2025, time.September, 1)
	exitAt, err := generic.NewTimeOfDay(16, 0, 30)
	require.NoError(t, err)
	marks := []attendance.Mark{
		{EmployeeID: emp, Date: day, Time: exitAt, Type: attendance.MarkExit},
		{EmployeeID: emp, Date: day, Time: generic.MustTimeOfDay(8, 5), Type: attendance.MarkEntry},
		{EmployeeID: emp, Date: day.AddDays(31), Time: generic.MustTimeOfDay(8, 0), Type: attendance.MarkEntry},
	}

	n, err := store.SaveMarks(ctx, marks)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// Same export again
	n, err = store.SaveMarks(ctx, marks)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	got, err := store.ListMarks(ctx, emp, generic.CalendarMonth(2025, time.September))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "08:05", got[0].Time.String())
	assert.Equal(t, "16:00:30", got[1].Time.String())
	assert.Equal(t, attendance.MarkExit, got[1].Type)
	assert.Equal(t, emp, got[1].EmployeeID)
}

func TestMarks_Rejects(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	day := generic.NewTimePoint(2025, time.September, 1)

	_, err := store.SaveMarks(ctx, []attendance.Mark{{Date: day, Type: attendance.MarkEntry}})
	assert.ErrorIs(t, err, generic.ErrInvalidInput, "missing employee")

	_, err = store.SaveMarks(ctx, []attendance.Mark{{EmployeeID: "ghost", Date: day, Type: attendance.MarkEntry}})
	assert.ErrorIs(t, err, generic.ErrEmployeeNotFound)

	_, err = store.ListMarks(ctx, "ghost", generic.Period{Start: day, End: day.AddDays(-1)})
	assert.ErrorIs(t, err, generic.ErrInvalidPeriod)
}

// =============================================================================
// PURCHASE REQUESTS
// =============================================================================

func TestPurchaseRequest_RoundTrip(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	req := purchase.Request{
		Requester:   "obra-12",
		Description: "cemento",
		TaxEnabled:  true,
		Lines: []purchase.LineItem{
			{Description: "bulto", Amount: decimal.RequireFromString("3"), UnitCost: decimal.RequireFromString("10")},
			{Description: "arena", Amount: decimal.RequireFromString("1"), UnitCost: decimal.RequireFromString("5")},
		},
	}
	id, err := store.SavePurchaseRequest(ctx, req)
	require.NoError(t, err)

	got, err := store.GetPurchaseRequest(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "obra-12", got.Requester)
	assert.True(t, got.TaxEnabled)
	require.Len(t, got.Lines, 2)
	assert.Equal(t, "bulto", got.Lines[0].Description)

	totals, err := got.Totals()
	require.NoError(t, err)
	assert.True(t, totals.Total.Value.Equal(decimal.RequireFromString("40.6")))

	// Replacing lines
	got.Lines = got.Lines[:1]
	_, err = store.SavePurchaseRequest(ctx, *got)
	require.NoError(t, err)

	again, err := store.GetPurchaseRequest(ctx, id)
	require.NoError(t, err)
	assert.Len(t, again.Lines, 1)
}

func TestPurchaseRequest_NotFoundAndInvalid(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	_, err := store.GetPurchaseRequest(ctx, "missing")
	assert.ErrorIs(t, err, generic.ErrRequestNotFound)

	_, err = store.SavePurchaseRequest(ctx, purchase.Request{Requester: "x", Lines: []purchase.LineItem{{Amount: decimal.NewFromInt(-1)}}})
	assert.ErrorIs(t, err, generic.ErrInvalidInput)
}
