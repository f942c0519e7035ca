package event

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Domain event contract
// ---------------------------------------------------------------------------

// DomainEvent is the interface all domain events implement.
type DomainEvent interface {
	EventID() string
	EventType() string
	AggregateID() string
	AggregateType() string
	OccurredAt() time.Time
}

// BaseEvent provides the common DomainEvent implementation.
type BaseEvent struct {
	ID            string    `json:"event_id"`
	Type          string    `json:"event_type"`
	Aggregate     string    `json:"aggregate_id"`
	AggregateKind string    `json:"aggregate_type"`
	Occurred      time.Time `json:"occurred_at"`
}

// NewBaseEvent creates a BaseEvent with a generated id and the current time.
func NewBaseEvent(eventType, aggregateID, aggregateType string) BaseEvent {
	return BaseEvent{
		ID:            uuid.New().String(),
		Type:          eventType,
		Aggregate:     aggregateID,
		AggregateKind: aggregateType,
		Occurred:      time.Now().UTC(),
	}
}

func (e BaseEvent) EventID() string       { return e.ID }
func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) AggregateID() string   { return e.Aggregate }
func (e BaseEvent) AggregateType() string { return e.AggregateKind }
func (e BaseEvent) OccurredAt() time.Time { return e.Occurred }

// ---------------------------------------------------------------------------
// Credit application events
// ---------------------------------------------------------------------------

const aggregateCreditApplication = "CreditApplication"

// CreditApplicationSubmitted is raised when a new application enters the system.
type CreditApplicationSubmitted struct {
	BaseEvent
	CustomerDocument string          `json:"customer_document"`
	VehicleVIN       string          `json:"vehicle_vin"`
	RequestedAmount  decimal.Decimal `json:"requested_amount"`
}

func NewCreditApplicationSubmitted(applicationID, customerDocument, vehicleVIN string, amount decimal.Decimal) CreditApplicationSubmitted {
	return CreditApplicationSubmitted{
		BaseEvent:        NewBaseEvent("credit.application.submitted", applicationID, aggregateCreditApplication),
		CustomerDocument: customerDocument,
		VehicleVIN:       vehicleVIN,
		RequestedAmount:  amount,
	}
}

// CreditApplicationApproved is raised when an application is approved.
type CreditApplicationApproved struct {
	BaseEvent
	CustomerDocument string          `json:"customer_document"`
	CreditScore      int             `json:"credit_score"`
	AnnualRate       decimal.Decimal `json:"annual_rate"`
}

func NewCreditApplicationApproved(applicationID, customerDocument string, score int, annualRate decimal.Decimal) CreditApplicationApproved {
	return CreditApplicationApproved{
		BaseEvent:        NewBaseEvent("credit.application.approved", applicationID, aggregateCreditApplication),
		CustomerDocument: customerDocument,
		CreditScore:      score,
		AnnualRate:       annualRate,
	}
}

// CreditApplicationRejected is raised when an application is rejected.
type CreditApplicationRejected struct {
	BaseEvent
	CustomerDocument string `json:"customer_document"`
	Reason           string `json:"reason"`
}

func NewCreditApplicationRejected(applicationID, customerDocument, reason string) CreditApplicationRejected {
	return CreditApplicationRejected{
		BaseEvent:        NewBaseEvent("credit.application.rejected", applicationID, aggregateCreditApplication),
		CustomerDocument: customerDocument,
		Reason:           reason,
	}
}

// CreditApplicationCancelled is raised when a pending application is cancelled.
type CreditApplicationCancelled struct {
	BaseEvent
	CustomerDocument string `json:"customer_document"`
}

func NewCreditApplicationCancelled(applicationID, customerDocument string) CreditApplicationCancelled {
	return CreditApplicationCancelled{
		BaseEvent:        NewBaseEvent("credit.application.cancelled", applicationID, aggregateCreditApplication),
		CustomerDocument: customerDocument,
	}
}
