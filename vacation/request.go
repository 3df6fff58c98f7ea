package vacation

import (
	"fmt"

	"github.com/warp/labor-engine/generic"
)

// =============================================================================
// LEAVE KIND
// =============================================================================

// Kind tags a leave request variant.
type Kind string

const (
	KindVacation   Kind = "vacation"
	KindPermission Kind = "permission"
	KindDisability Kind = "disability"
)

// ParseKind maps the stored/wire name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindVacation, KindPermission, KindDisability:
		return k, nil
	}
	return "", &generic.ValidationError{Field: "type", Value: s, Reason: "must be vacation, permission or disability"}
}

// =============================================================================
// LEAVE REQUEST - Vacation | Permission | Disability
// =============================================================================

// LeaveRequest is implemented by Vacation, Permission and Disability only.
type LeaveRequest interface {
	Kind() Kind
	Header() Leave
	WithPay() bool
	Validate() error
	isLeaveRequest()
}

// Leave carries the fields every variant has.
type Leave struct {
	ID         generic.RequestID
	EmployeeID generic.EmployeeID
	Start      generic.TimePoint
	End        generic.TimePoint
	DaysCount  int
}

func (l Leave) Period() generic.Period {
	return generic.Period{Start: l.Start, End: l.End}
}

func (l Leave) validate() error {
	if err := l.Period().Validate(); err != nil {
		return err
	}
	if l.DaysCount < 0 {
		return &generic.ValidationError{Field: "days_count", Value: fmt.Sprint(l.DaysCount), Reason: "must not be negative"}
	}
	return nil
}

// Vacation is charged against the statutory entitlement.
type Vacation struct {
	Leave
	// VacationYear is the entitlement year the days are charged to.
	// Zero means "the year the vacation starts".
	VacationYear int
}

func (Vacation) Kind() Kind      { return KindVacation }
func (v Vacation) Header() Leave { return v.Leave }
func (Vacation) WithPay() bool   { return true }
func (Vacation) isLeaveRequest() {}

func (v Vacation) Validate() error {
	if err := v.Leave.validate(); err != nil {
		return fmt.Errorf("vacation %s: %w", v.ID, err)
	}
	if v.VacationYear < 0 {
		return fmt.Errorf("vacation %s: %w", v.ID,
			&generic.ValidationError{Field: "vacation_year", Value: fmt.Sprint(v.VacationYear), Reason: "must be a calendar year"})
	}
	return nil
}

// ChargedYear is the entitlement year this vacation consumes.
func (v Vacation) ChargedYear() int {
	if v.VacationYear > 0 {
		return v.VacationYear
	}
	return v.Start.Year()
}

// Permission is an authorised absence, paid or unpaid.
type Permission struct {
	Leave
	Paid bool
}

func (Permission) Kind() Kind      { return KindPermission }
func (p Permission) Header() Leave { return p.Leave }
func (p Permission) WithPay() bool { return p.Paid }
func (Permission) isLeaveRequest() {}

func (p Permission) Validate() error {
	if err := p.Leave.validate(); err != nil {
		return fmt.Errorf("permission %s: %w", p.ID, err)
	}
	return nil
}

// Disability is a medical leave backed by a certificate.
type Disability struct {
	Leave
	Folio string
	Paid  bool
}

func (Disability) Kind() Kind      { return KindDisability }
func (d Disability) Header() Leave { return d.Leave }
func (d Disability) WithPay() bool { return d.Paid }
func (Disability) isLeaveRequest() {}

func (d Disability) Validate() error {
	if err := d.Leave.validate(); err != nil {
		return fmt.Errorf("disability %s: %w", d.ID, err)
	}
	return nil
}

// NewLeaveRequest builds the variant for kind. Fields that do not apply to the
// variant are ignored: vacationYear outside Vacation, folio outside Disability,
// paid for Vacation (always paid).
func NewLeaveRequest(kind Kind, leave Leave, vacationYear int, paid bool, folio string) (LeaveRequest, error) {
	var req LeaveRequest
	switch kind {
	case KindVacation:
		req = Vacation{Leave: leave, VacationYear: vacationYear}
	case KindPermission:
		req = Permission{Leave: leave, Paid: paid}
	case KindDisability:
		req = Disability{Leave: leave, Folio: folio, Paid: paid}
	default:
		return nil, &generic.ValidationError{Field: "type", Value: string(kind), Reason: "unknown leave kind"}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

// InPeriod keeps the requests whose dates overlap p, in input order.
func InPeriod(requests []LeaveRequest, p generic.Period) []LeaveRequest {
	var out []LeaveRequest
	for _, req := range requests {
		if req.Header().Period().Overlaps(p) {
			out = append(out, req)
		}
	}
	return out
}
