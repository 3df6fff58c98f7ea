/*
Package generic provides the value types shared by every rules package.

PURPOSE:
  The labor rules (vacation entitlement, attendance variance, purchase totals)
  all work on the same handful of primitives: quantities with a unit, calendar
  days, clock times and periods. Keeping them here lets each rules package stay
  small and lets the store and API layers convert to and from one vocabulary.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A quantity with a unit (e.g., 7.5 hours, 35.00 currency)
  - Identifiers: Type-safe employee/request IDs

DESIGN PRINCIPLES:
  1. Purity: Nothing in this package holds state across calls
  2. Precision: Uses decimal.Decimal so repeated sums never drift
  3. Type Safety: Strong typing for IDs prevents mixing employee/request IDs

USAGE:
  worked := generic.NewAmountFromMinutes(460)   // 7.666... hours
  span := generic.NewAmountFromMinutes(480)
  missing := span.Sub(worked)

SEE ALSO:
  - time.go: TimePoint and TimeOfDay
  - period.go: Period and anniversary handling
  - errors.go: Validation errors
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Quantity with unit
// =============================================================================

type Amount struct {
	Value decimal.Decimal
	Unit  Unit
}

type Unit string

const (
	UnitHours    Unit = "hours"
	UnitCurrency Unit = "currency"
)

var sixty = decimal.NewFromInt(60)

func NewAmountFromDecimal(value decimal.Decimal, unit Unit) Amount {
	return Amount{Value: value, Unit: unit}
}

// NewAmountFromMinutes converts a whole number of minutes into hours.
// The result is not rounded.
func NewAmountFromMinutes(minutes int) Amount {
	return Amount{Value: decimal.NewFromInt(int64(minutes)).Div(sixty), Unit: UnitHours}
}

// NewAmountFromSeconds converts seconds into hours.
func NewAmountFromSeconds(seconds int) Amount {
	return Amount{Value: decimal.NewFromInt(int64(seconds)).Div(sixty).Div(sixty), Unit: UnitHours}
}

func ZeroAmount(unit Unit) Amount {
	return Amount{Value: decimal.Zero, Unit: unit}
}

func (a Amount) Add(b Amount) Amount          { return Amount{Value: a.Value.Add(b.Value), Unit: a.Unit} }
func (a Amount) Sub(b Amount) Amount          { return Amount{Value: a.Value.Sub(b.Value), Unit: a.Unit} }
func (a Amount) Mul(s decimal.Decimal) Amount { return Amount{Value: a.Value.Mul(s), Unit: a.Unit} }
func (a Amount) MulInt(n int) Amount          { return a.Mul(decimal.NewFromInt(int64(n))) }
func (a Amount) IsNegative() bool             { return a.Value.IsNegative() }
func (a Amount) IsZero() bool                 { return a.Value.IsZero() }
func (a Amount) IsPositive() bool             { return a.Value.IsPositive() }
func (a Amount) GreaterThan(b Amount) bool    { return a.Value.GreaterThan(b.Value) }
func (a Amount) Equal(b Amount) bool          { return a.Unit == b.Unit && a.Value.Equal(b.Value) }

// Float64 is for presentation layers only. Rules never compute with it.
func (a Amount) Float64() float64 {
	f, _ := a.Value.Float64()
	return f
}

func (a Amount) String() string {
	return a.Value.String() + " " + string(a.Unit)
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string
type RequestID string
