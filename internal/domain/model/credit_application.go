package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/autofin/credit-engine/internal/domain/event"
	"github.com/autofin/credit-engine/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// CreditApplication aggregate root
// ---------------------------------------------------------------------------

// CreditApplication is an immutable aggregate. Every transition returns a new
// copy; the only way its status ever changes is through Approve, Reject and
// Cancel, each of which guards the state machine.
type CreditApplication struct {
	id              string
	customer        Customer
	vehicle         Vehicle
	requestedAmount valueobject.CreditAmount
	status          valueobject.ApplicationStatus
	score           valueobject.CreditScore
	scoreFallback   bool
	annualRate      decimal.Decimal
	rejectionReason string
	createdAt       time.Time
	updatedAt       time.Time
	domainEvents    []event.DomainEvent
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// NewCreditApplication creates a brand-new application in PENDING status.
// The requested amount must not exceed what the vehicle can secure.
func NewCreditApplication(
	customer Customer,
	vehicle Vehicle,
	requestedAmount valueobject.CreditAmount,
	now time.Time,
) (CreditApplication, error) {
	if requestedAmount.IsZero() {
		return CreditApplication{}, fmt.Errorf("%w: requested amount is required", valueobject.ErrInvalidInput)
	}
	if requestedAmount.GreaterThan(vehicle.MaxCreditAmount()) {
		return CreditApplication{}, fmt.Errorf("%w: requested %s, vehicle secures at most %s",
			ErrAmountExceedsVehicleLimit, requestedAmount, vehicle.MaxCreditAmount())
	}

	id := uuid.New().String()
	app := CreditApplication{
		id:              id,
		customer:        customer,
		vehicle:         vehicle,
		requestedAmount: requestedAmount,
		status:          valueobject.ApplicationStatusPending,
		createdAt:       now,
		updatedAt:       now,
	}
	app.domainEvents = append(app.domainEvents, event.NewCreditApplicationSubmitted(
		id, customer.Document().Value(), vehicle.VIN().Value(), requestedAmount.Decimal(),
	))
	return app, nil
}

// ReconstructCreditApplication rebuilds an aggregate from persistence without
// validation or side-effects.
func ReconstructCreditApplication(
	id string,
	customer Customer,
	vehicle Vehicle,
	requestedAmount valueobject.CreditAmount,
	status valueobject.ApplicationStatus,
	score valueobject.CreditScore,
	scoreFallback bool,
	annualRate decimal.Decimal,
	rejectionReason string,
	createdAt, updatedAt time.Time,
) CreditApplication {
	return CreditApplication{
		id:              id,
		customer:        customer,
		vehicle:         vehicle,
		requestedAmount: requestedAmount,
		status:          status,
		score:           score,
		scoreFallback:   scoreFallback,
		annualRate:      annualRate,
		rejectionReason: rejectionReason,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// ---------------------------------------------------------------------------
// State transitions (each returns a new copy)
// ---------------------------------------------------------------------------

// Approve transitions PENDING -> APPROVED, storing the score and the computed
// annual rate. Scores below the approval floor are an argument error, not a
// state error, and leave the application untouched.
func (a CreditApplication) Approve(
	score valueobject.CreditScore,
	scoreFallback bool,
	annualRate decimal.Decimal,
	now time.Time,
) (CreditApplication, error) {
	if !a.status.Equal(valueobject.ApplicationStatusPending) {
		return a, fmt.Errorf("%w: cannot approve application in status %s",
			valueobject.ErrInvalidStatusTransition, a.status)
	}
	if score.Value() < MinApprovalScore {
		return a, fmt.Errorf("%w: score %d below approval floor %d",
			ErrIllegalArgument, score.Value(), MinApprovalScore)
	}
	next := a
	next.status = valueobject.ApplicationStatusApproved
	next.score = score
	next.scoreFallback = scoreFallback
	next.annualRate = annualRate
	next.updatedAt = now
	next.domainEvents = copyEvents(a.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewCreditApplicationApproved(
		a.id, a.customer.Document().Value(), score.Value(), annualRate,
	))
	return next, nil
}

// Reject transitions PENDING -> REJECTED with a non-empty reason.
func (a CreditApplication) Reject(reason string, now time.Time) (CreditApplication, error) {
	if !a.status.Equal(valueobject.ApplicationStatusPending) {
		return a, fmt.Errorf("%w: cannot reject application in status %s",
			valueobject.ErrInvalidStatusTransition, a.status)
	}
	if reason == "" {
		return a, fmt.Errorf("%w: rejection reason is required", ErrIllegalArgument)
	}
	next := a
	next.status = valueobject.ApplicationStatusRejected
	next.rejectionReason = reason
	next.updatedAt = now
	next.domainEvents = copyEvents(a.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewCreditApplicationRejected(
		a.id, a.customer.Document().Value(), reason,
	))
	return next, nil
}

// RejectWithScore records the insufficient score alongside the rejection so
// the audit trail shows what the oracle returned.
func (a CreditApplication) RejectWithScore(
	reason string,
	score valueobject.CreditScore,
	scoreFallback bool,
	now time.Time,
) (CreditApplication, error) {
	next, err := a.Reject(reason, now)
	if err != nil {
		return a, err
	}
	next.score = score
	next.scoreFallback = scoreFallback
	return next, nil
}

// Cancel transitions any non-terminal status -> CANCELLED. Terminal statuses
// (APPROVED, REJECTED, CANCELLED, EXPIRED) never transition again.
func (a CreditApplication) Cancel(now time.Time) (CreditApplication, error) {
	if a.status.IsTerminal() {
		return a, fmt.Errorf("%w: cannot cancel application in terminal status %s",
			valueobject.ErrInvalidStatusTransition, a.status)
	}
	next := a
	next.status = valueobject.ApplicationStatusCancelled
	next.updatedAt = now
	next.domainEvents = copyEvents(a.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewCreditApplicationCancelled(
		a.id, a.customer.Document().Value(),
	))
	return next, nil
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (a CreditApplication) ID() string                                { return a.id }
func (a CreditApplication) Customer() Customer                        { return a.customer }
func (a CreditApplication) Vehicle() Vehicle                          { return a.vehicle }
func (a CreditApplication) RequestedAmount() valueobject.CreditAmount { return a.requestedAmount }
func (a CreditApplication) Status() valueobject.ApplicationStatus     { return a.status }
func (a CreditApplication) Score() valueobject.CreditScore            { return a.score }
func (a CreditApplication) ScoreFallback() bool                       { return a.scoreFallback }
func (a CreditApplication) AnnualRate() decimal.Decimal               { return a.annualRate }
func (a CreditApplication) RejectionReason() string                   { return a.rejectionReason }
func (a CreditApplication) CreatedAt() time.Time                      { return a.createdAt }
func (a CreditApplication) UpdatedAt() time.Time                      { return a.updatedAt }
func (a CreditApplication) DomainEvents() []event.DomainEvent         { return a.domainEvents }

// LoanToValue returns the requested amount divided by the appraised vehicle
// value, rounded to 4 decimals.
func (a CreditApplication) LoanToValue() decimal.Decimal {
	value := a.vehicle.AppraisedValue().Decimal()
	if value.IsZero() {
		return decimal.Zero
	}
	return a.requestedAmount.Decimal().Div(value).Round(4)
}

// Equal reports entity identity: same generated id.
func (a CreditApplication) Equal(other CreditApplication) bool {
	return a.id == other.id
}

// ClearEvents returns a copy with an empty event list (call after publishing).
func (a CreditApplication) ClearEvents() CreditApplication {
	next := a
	next.domainEvents = nil
	return next
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func copyEvents(src []event.DomainEvent) []event.DomainEvent {
	if len(src) == 0 {
		return nil
	}
	dst := make([]event.DomainEvent, len(src))
	copy(dst, src)
	return dst
}
