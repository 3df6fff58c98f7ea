/*
ledger.go - Vacation days owed vs. taken for one employee and year

PURPOSE:
  Answers "how many vacation days does this employee have left this year?"
  from nothing but the admission date, the year in question and the leave
  requests already on file. The result is recomputed on every call; nothing
  is cached or persisted here.

ALGORITHM:
  1. yearsOfService = referenceYear - admission year (floored at 0)
  2. statutoryDays  = EntitlementDays(yearsOfService)
  3. anniversary    = admission month/day in referenceYear
                      (Feb 29 -> Feb 28 in non-leap years)
     serviceYear    = anniversary .. day before the next anniversary
  4. daysTaken      = sum of DaysCount over Vacation requests charged to
                      referenceYear (VacationYear, else start year)
  5. remaining      = statutoryDays - daysTaken

NEGATIVE BALANCES:
  Remaining is never clamped. An employee who took more days than the law
  grants shows a negative balance, which is a signal for HR review.

PERMISSIONS AND DISABILITIES:
  Tallied separately for display. They never reduce the vacation balance.

EXAMPLE:
  ledger, err := vacation.ComputeLedger(
      generic.NewTimePoint(2020, time.January, 1), 2025, requests)
  // ledger.YearsOfService == 5, ledger.StatutoryDays == 20

SEE ALSO:
  - entitlement.go: Bracket table
  - request.go: LeaveRequest variants
  - generic/time.go: AnniversaryIn
*/
package vacation

import (
	"fmt"

	"github.com/warp/labor-engine/generic"
)

// Ledger is the computed vacation position for one reference year.
type Ledger struct {
	ReferenceYear  int
	YearsOfService int
	StatutoryDays  int

	DaysTakenThisYear int
	RemainingBalance  int

	AnniversaryDateInReferenceYear generic.TimePoint
	// ServiceYear starts on that anniversary and ends the day before the next.
	ServiceYear generic.Period

	// Informational; not part of the balance.
	PermissionDaysThisYear int
	DisabilityDaysThisYear int
}

// IsOverdrawn reports a negative remaining balance.
func (l Ledger) IsOverdrawn() bool {
	return l.RemainingBalance < 0
}

// ComputeLedger builds the vacation ledger for referenceYear.
func ComputeLedger(admissionDate generic.TimePoint, referenceYear int, priorRequests []LeaveRequest) (Ledger, error) {
	if admissionDate.IsZero() {
		return Ledger{}, generic.Invalid("admission_date", "is required")
	}
	if referenceYear < 1 {
		return Ledger{}, &generic.ValidationError{Field: "reference_year", Value: fmt.Sprint(referenceYear), Reason: "must be a calendar year"}
	}

	years := referenceYear - admissionDate.Year()
	if years < 0 {
		years = 0
	}

	ledger := Ledger{
		ReferenceYear:                  referenceYear,
		YearsOfService:                 years,
		StatutoryDays:                  EntitlementDays(years),
		AnniversaryDateInReferenceYear: generic.AnniversaryIn(admissionDate, referenceYear),
	}
	ledger.ServiceYear = generic.AnniversaryPeriod(admissionDate, ledger.AnniversaryDateInReferenceYear)

	year := generic.CalendarYear(referenceYear)
	for i, req := range priorRequests {
		if req == nil {
			return Ledger{}, generic.Invalid(fmt.Sprintf("requests[%d]", i), "is nil")
		}
		if err := req.Validate(); err != nil {
			return Ledger{}, err
		}

		switch r := req.(type) {
		case Vacation:
			if r.ChargedYear() == referenceYear {
				ledger.DaysTakenThisYear += r.DaysCount
			}
		case Permission:
			if year.Contains(r.Start) {
				ledger.PermissionDaysThisYear += r.DaysCount
			}
		case Disability:
			if year.Contains(r.Start) {
				ledger.DisabilityDaysThisYear += r.DaysCount
			}
		}
	}

	ledger.RemainingBalance = ledger.StatutoryDays - ledger.DaysTakenThisYear
	return ledger, nil
}
