package vacation_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/labor-engine/generic"
	"github.com/warp/labor-engine/vacation"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func date(year int, month time.Month, day int) generic.TimePoint {
	return generic.NewTimePoint(year, month, day)
}

func leave(id string, start, end generic.TimePoint, days int) vacation.Leave {
	return vacation.Leave{
		ID:         generic.RequestID(id),
		EmployeeID: "emp-1",
		Start:      start,
		End:        end,
		DaysCount:  days,
	}
}

// =============================================================================
// ENTITLEMENT TABLE
// =============================================================================

func TestEntitlementDays_BracketTable(t *testing.T) {
	expected := map[int]int{
		0: 0, 1: 12, 2: 14, 3: 16, 4: 18, 5: 20,
		6: 22, 10: 22,
		11: 24, 15: 24,
		16: 26, 20: 26,
		21: 28, 25: 28,
		26: 30, 30: 30,
	}
	for years, days := range expected {
		assert.Equal(t, days, vacation.EntitlementDays(years), "years=%d", years)
	}
}

func TestEntitlementDays_EveryYearUpToThirty(t *testing.T) {
	brackets := []struct{ from, to, days int }{
		{6, 10, 22}, {11, 15, 24}, {16, 20, 26}, {21, 25, 28}, {26, 30, 30},
	}
	for _, b := range brackets {
		for years := b.from; years <= b.to; years++ {
			assert.Equal(t, b.days, vacation.EntitlementDays(years), "years=%d", years)
		}
	}
}

func TestEntitlementDays_NegativeYears(t *testing.T) {
	for _, years := range []int{-1, -5, -100} {
		assert.Equal(t, 0, vacation.EntitlementDays(years), "years=%d", years)
	}
}

func TestEntitlementDays_BeyondThirty(t *testing.T) {
	// GIVEN: The table ends at 30 years = 30 days
	// THEN: Past 30 it grows by 2 every 5 years and never decreases
	assert.Equal(t, 32, vacation.EntitlementDays(31))
	assert.Equal(t, 32, vacation.EntitlementDays(35))
	assert.Equal(t, 34, vacation.EntitlementDays(36))

	prev := vacation.EntitlementDays(30)
	for years := 31; years <= 80; years++ {
		got := vacation.EntitlementDays(years)
		assert.GreaterOrEqual(t, got, prev, "years=%d", years)
		assert.LessOrEqual(t, got-prev, 2, "years=%d", years)
		if (years-1)%5 == 0 {
			assert.Equal(t, prev+2, got, "cycle boundary at years=%d", years)
		}
		prev = got
	}
}

func TestEntitlementTable(t *testing.T) {
	rows, err := vacation.EntitlementTable(6)
	require.NoError(t, err)
	require.Len(t, rows, 6)

	assert.Equal(t, vacation.EntitlementRow{YearsOfService: 1, StatutoryDays: 12}, rows[0])
	assert.Equal(t, vacation.EntitlementRow{YearsOfService: 6, StatutoryDays: 22}, rows[5])

	empty, err := vacation.EntitlementTable(0)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = vacation.EntitlementTable(-1)
	assert.ErrorIs(t, err, generic.ErrInvalidInput)
}

func TestEntitlementTable_RejectsHugeMaxYears(t *testing.T) {
	rows, err := vacation.EntitlementTable(vacation.MaxTableYears)
	require.NoError(t, err)
	assert.Len(t, rows, vacation.MaxTableYears)

	// Must fail fast instead of allocating the table
	for _, maxYears := range []int{vacation.MaxTableYears + 1, 1 << 40} {
		_, err := vacation.EntitlementTable(maxYears)
		var verr *generic.ValidationError
		require.ErrorAs(t, err, &verr, "max_years=%d", maxYears)
		assert.Equal(t, "max_years", verr.Field)
	}
}

// =============================================================================
// LEDGER
// =============================================================================

func TestComputeLedger_FiveYearsOfService(t *testing.T) {
	// GIVEN: Admitted 2020-01-01, no requests
	// WHEN: Computing 2025
	// THEN: 5 years of service, 20 days, all remaining
	ledger, err := vacation.ComputeLedger(date(2020, time.January, 1), 2025, nil)
	require.NoError(t, err)

	assert.Equal(t, 5, ledger.YearsOfService)
	assert.Equal(t, 20, ledger.StatutoryDays)
	assert.Equal(t, 0, ledger.DaysTakenThisYear)
	assert.Equal(t, 20, ledger.RemainingBalance)
	assert.Equal(t, "2025-01-01", ledger.AnniversaryDateInReferenceYear.String())
}

func TestComputeLedger_AdmittedAfterReferenceYear(t *testing.T) {
	ledger, err := vacation.ComputeLedger(date(2026, time.March, 1), 2025, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, ledger.YearsOfService)
	assert.Equal(t, 0, ledger.StatutoryDays)
}

func TestComputeLedger_LeapDayAdmission(t *testing.T) {
	// GIVEN: Admitted on Feb 29
	// THEN: Anniversary is Feb 28 in non-leap years, Feb 29 in leap years
	admission := date(2020, time.February, 29)

	ledger, err := vacation.ComputeLedger(admission, 2025, nil)
	require.NoError(t, err)
	assert.Equal(t, "2025-02-28", ledger.AnniversaryDateInReferenceYear.String())

	ledger, err = vacation.ComputeLedger(admission, 2028, nil)
	require.NoError(t, err)
	assert.Equal(t, "2028-02-29", ledger.AnniversaryDateInReferenceYear.String())
}

func TestComputeLedger_ServiceYearRunsToNextAnniversary(t *testing.T) {
	// GIVEN: Admitted on Feb 29
	admission := date(2020, time.February, 29)

	// THEN: The 2025 service year ends the day before the 2026 anniversary
	ledger, err := vacation.ComputeLedger(admission, 2025, nil)
	require.NoError(t, err)
	assert.Equal(t, "2025-02-28", ledger.ServiceYear.Start.String())
	assert.Equal(t, "2026-02-27", ledger.ServiceYear.End.String())

	// THEN: The 2027 service year runs into the leap day of 2028
	ledger, err = vacation.ComputeLedger(admission, 2027, nil)
	require.NoError(t, err)
	assert.Equal(t, "2027-02-28", ledger.ServiceYear.Start.String())
	assert.Equal(t, "2028-02-28", ledger.ServiceYear.End.String())
}

func TestComputeLedger_SumsVacationsChargedToYear(t *testing.T) {
	// GIVEN: Two vacations in 2025, one charged to 2024 and one in 2024
	requests := []vacation.LeaveRequest{
		vacation.Vacation{Leave: leave("v1", date(2025, time.March, 3), date(2025, time.March, 7), 5)},
		vacation.Vacation{Leave: leave("v2", date(2025, time.July, 14), date(2025, time.July, 16), 3)},
		// Taken in 2025 but charged to the previous entitlement year
		vacation.Vacation{Leave: leave("v3", date(2025, time.January, 6), date(2025, time.January, 7), 2), VacationYear: 2024},
		vacation.Vacation{Leave: leave("v4", date(2024, time.December, 23), date(2024, time.December, 24), 2)},
		// Taken in 2024 but charged to 2025 in advance
		vacation.Vacation{Leave: leave("v5", date(2024, time.December, 30), date(2024, time.December, 30), 1), VacationYear: 2025},
	}

	ledger, err := vacation.ComputeLedger(date(2020, time.January, 1), 2025, requests)
	require.NoError(t, err)

	assert.Equal(t, 9, ledger.DaysTakenThisYear)
	assert.Equal(t, 11, ledger.RemainingBalance)
}

func TestComputeLedger_PermissionsAndDisabilitiesDoNotReduceBalance(t *testing.T) {
	requests := []vacation.LeaveRequest{
		vacation.Permission{Leave: leave("p1", date(2025, time.May, 2), date(2025, time.May, 2), 1), Paid: true},
		vacation.Permission{Leave: leave("p2", date(2025, time.May, 9), date(2025, time.May, 9), 1)},
		vacation.Disability{Leave: leave("d1", date(2025, time.June, 2), date(2025, time.June, 8), 7), Folio: "IMSS-1"},
		vacation.Disability{Leave: leave("d0", date(2024, time.June, 2), date(2024, time.June, 3), 2)},
	}

	ledger, err := vacation.ComputeLedger(date(2020, time.January, 1), 2025, requests)
	require.NoError(t, err)

	assert.Equal(t, 0, ledger.DaysTakenThisYear)
	assert.Equal(t, 20, ledger.RemainingBalance)
	assert.Equal(t, 2, ledger.PermissionDaysThisYear)
	assert.Equal(t, 7, ledger.DisabilityDaysThisYear)
}

func TestComputeLedger_NegativeBalanceIsKept(t *testing.T) {
	// GIVEN: 1 year of service (12 days) and 15 days taken
	requests := []vacation.LeaveRequest{
		vacation.Vacation{Leave: leave("v1", date(2025, time.April, 1), date(2025, time.April, 21), 15)},
	}

	ledger, err := vacation.ComputeLedger(date(2024, time.February, 1), 2025, requests)
	require.NoError(t, err)

	assert.Equal(t, 12, ledger.StatutoryDays)
	assert.Equal(t, -3, ledger.RemainingBalance)
	assert.True(t, ledger.IsOverdrawn())
}

func TestComputeLedger_RejectsInvalidInput(t *testing.T) {
	admission := date(2020, time.January, 1)

	_, err := vacation.ComputeLedger(generic.TimePoint{}, 2025, nil)
	assert.ErrorIs(t, err, generic.ErrInvalidInput, "zero admission date")

	_, err = vacation.ComputeLedger(admission, 0, nil)
	assert.ErrorIs(t, err, generic.ErrInvalidInput, "zero reference year")

	negative := []vacation.LeaveRequest{
		vacation.Vacation{Leave: leave("v1", date(2025, time.April, 1), date(2025, time.April, 2), -2)},
	}
	_, err = vacation.ComputeLedger(admission, 2025, negative)
	var verr *generic.ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	assert.Equal(t, "days_count", verr.Field)

	backwards := []vacation.LeaveRequest{
		vacation.Permission{Leave: leave("p1", date(2025, time.April, 5), date(2025, time.April, 1), 1)},
	}
	_, err = vacation.ComputeLedger(admission, 2025, backwards)
	assert.ErrorIs(t, err, generic.ErrInvalidPeriod)

	_, err = vacation.ComputeLedger(admission, 2025, []vacation.LeaveRequest{nil})
	assert.ErrorIs(t, err, generic.ErrInvalidInput)
}

func TestComputeLedger_Idempotent(t *testing.T) {
	requests := []vacation.LeaveRequest{
		vacation.Vacation{Leave: leave("v1", date(2025, time.March, 3), date(2025, time.March, 7), 5)},
	}
	a, err := vacation.ComputeLedger(date(2018, time.October, 9), 2025, requests)
	require.NoError(t, err)
	b, err := vacation.ComputeLedger(date(2018, time.October, 9), 2025, requests)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

// =============================================================================
// LEAVE REQUEST VARIANTS
// =============================================================================

func TestNewLeaveRequest_BuildsVariant(t *testing.T) {
	l := leave("r1", date(2025, time.May, 5), date(2025, time.May, 6), 2)

	req, err := vacation.NewLeaveRequest(vacation.KindPermission, l, 2030, false, "ignored")
	require.NoError(t, err)

	perm, ok := req.(vacation.Permission)
	require.True(t, ok, "expected Permission, got %T", req)
	assert.False(t, perm.WithPay())
	assert.Equal(t, 2, perm.Header().DaysCount)

	req, err = vacation.NewLeaveRequest(vacation.KindVacation, l, 0, false, "")
	require.NoError(t, err)
	assert.True(t, req.WithPay(), "vacations are always paid")
	assert.Equal(t, 2025, req.(vacation.Vacation).ChargedYear())
}

func TestParseKind(t *testing.T) {
	k, err := vacation.ParseKind("disability")
	require.NoError(t, err)
	assert.Equal(t, vacation.KindDisability, k)

	_, err = vacation.ParseKind("sabbatical")
	assert.ErrorIs(t, err, generic.ErrInvalidInput)
}

func TestInPeriod_KeepsOverlappingRequestsInOrder(t *testing.T) {
	// GIVEN: Requests before, straddling, inside and after September 2025
	requests := []vacation.LeaveRequest{
		vacation.Vacation{Leave: leave("before", date(2025, time.August, 4), date(2025, time.August, 8), 5)},
		vacation.Permission{Leave: leave("straddle", date(2025, time.August, 29), date(2025, time.September, 1), 2)},
		vacation.Disability{Leave: leave("inside", date(2025, time.September, 15), date(2025, time.September, 16), 2)},
		vacation.Vacation{Leave: leave("edge", date(2025, time.September, 30), date(2025, time.October, 3), 4)},
		vacation.Vacation{Leave: leave("after", date(2025, time.October, 6), date(2025, time.October, 10), 5)},
	}

	// WHEN: Filtering on the month
	got := vacation.InPeriod(requests, generic.CalendarMonth(2025, time.September))

	// THEN: Only requests sharing a day with September remain, order kept
	var ids []generic.RequestID
	for _, req := range got {
		ids = append(ids, req.Header().ID)
	}
	assert.Equal(t, []generic.RequestID{"straddle", "inside", "edge"}, ids)

	assert.Empty(t, vacation.InPeriod(requests, generic.CalendarMonth(2025, time.December)))
}
