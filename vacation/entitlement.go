/*
entitlement.go - Statutory vacation days by years of service

PURPOSE:
  Maps completed years of service to the number of vacation days the labor
  law grants for that year. Every ledger calculation starts here.

BRACKETS:
  years   days        years   days
  0       0           5       20
  1       12          6-10    22
  2       14          11-15   24
  3       16          16-20   26
  4       18          21-25   28
                      26-30   30

  From year 6 on, each 5-year cycle adds 2 days:
    cycles = floor((years - 1) / 5)
    days   = 22 + (cycles - 1) * 2
  The formula reproduces 6-30 exactly and keeps going past 30
  (31-35 -> 32, 36-40 -> 34, ...). It does NOT hold for 1-5, which
  are listed explicitly.

EXAMPLE:
  vacation.EntitlementDays(5)   // 20
  vacation.EntitlementDays(12)  // 24
  vacation.EntitlementDays(33)  // 32

SEE ALSO:
  - ledger.go: Uses EntitlementDays for the reference year
*/
package vacation

import (
	"fmt"
	"strconv"

	"github.com/warp/labor-engine/generic"
)

// =============================================================================
// ENTITLEMENT TABLE
// =============================================================================

// firstYears holds the explicit brackets for 1-5 years; index = years.
var firstYears = [...]int{0, 12, 14, 16, 18, 20}

// EntitlementRow is one line of the entitlement table.
type EntitlementRow struct {
	YearsOfService int
	StatutoryDays  int
}

// EntitlementDays returns the statutory vacation days for the given years of
// service. Zero or negative years yield 0.
func EntitlementDays(yearsOfService int) int {
	if yearsOfService <= 0 {
		return 0
	}
	if yearsOfService < len(firstYears) {
		return firstYears[yearsOfService]
	}
	cycles := (yearsOfService - 1) / 5
	return 22 + (cycles-1)*2
}

// MaxTableYears caps EntitlementTable; no career runs longer.
const MaxTableYears = 100

// EntitlementTable lists rows for 1..maxYears years of service.
func EntitlementTable(maxYears int) ([]EntitlementRow, error) {
	if maxYears < 0 || maxYears > MaxTableYears {
		return nil, &generic.ValidationError{
			Field:  "max_years",
			Value:  strconv.Itoa(maxYears),
			Reason: fmt.Sprintf("must be between 0 and %d", MaxTableYears),
		}
	}
	rows := make([]EntitlementRow, 0, maxYears)
	for years := 1; years <= maxYears; years++ {
		rows = append(rows, EntitlementRow{YearsOfService: years, StatutoryDays: EntitlementDays(years)})
	}
	return rows, nil
}
