// Package purchase computes the money totals of a purchase request.
//
// Totals are left unrounded; rounding to cents is a presentation concern.
package purchase

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/labor-engine/generic"
)

// TaxRate is the fixed VAT applied when tax is enabled.
var TaxRate = decimal.RequireFromString("0.16")

type LineItem struct {
	Description string
	Amount      decimal.Decimal // quantity
	UnitCost    decimal.Decimal
}

// Cost is Amount × UnitCost.
func (l LineItem) Cost() decimal.Decimal {
	return l.Amount.Mul(l.UnitCost)
}

func (l LineItem) Validate() error {
	if l.Amount.IsNegative() {
		return &generic.ValidationError{Field: "amount", Value: l.Amount.String(), Reason: "must not be negative"}
	}
	if l.UnitCost.IsNegative() {
		return &generic.ValidationError{Field: "unit_cost", Value: l.UnitCost.String(), Reason: "must not be negative"}
	}
	return nil
}

type Totals struct {
	Subtotal generic.Amount
	Tax      generic.Amount
	Total    generic.Amount
}

// ComputeTotals sums the lines and applies TaxRate when taxEnabled.
// An empty request totals zero.
func ComputeTotals(lines []LineItem, taxEnabled bool) (Totals, error) {
	subtotal := decimal.Zero
	for i, line := range lines {
		if err := line.Validate(); err != nil {
			return Totals{}, fmt.Errorf("lines[%d]: %w", i, err)
		}
		subtotal = subtotal.Add(line.Cost())
	}

	tax := decimal.Zero
	if taxEnabled {
		tax = subtotal.Mul(TaxRate)
	}

	return Totals{
		Subtotal: generic.NewAmountFromDecimal(subtotal, generic.UnitCurrency),
		Tax:      generic.NewAmountFromDecimal(tax, generic.UnitCurrency),
		Total:    generic.NewAmountFromDecimal(subtotal.Add(tax), generic.UnitCurrency),
	}, nil
}

// =============================================================================
// REQUEST - Stored purchase request
// =============================================================================

type Request struct {
	ID          generic.RequestID
	Requester   string
	Description string
	TaxEnabled  bool
	Lines       []LineItem
	CreatedAt   time.Time
}

func (r Request) Validate() error {
	if r.Requester == "" {
		return generic.Invalid("requester", "is required")
	}
	for i, line := range r.Lines {
		if err := line.Validate(); err != nil {
			return fmt.Errorf("lines[%d]: %w", i, err)
		}
	}
	return nil
}

// Totals computes the request's totals from its lines.
func (r Request) Totals() (Totals, error) {
	return ComputeTotals(r.Lines, r.TaxEnabled)
}
