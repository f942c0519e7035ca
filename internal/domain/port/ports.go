package port

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/autofin/credit-engine/internal/domain/event"
	"github.com/autofin/credit-engine/internal/domain/model"
	"github.com/autofin/credit-engine/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Sentinel errors
// ---------------------------------------------------------------------------

var (
	// ErrCustomerNotFound is returned when no customer exists for a document.
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrApplicationNotFound is returned when no application exists for an id.
	ErrApplicationNotFound = errors.New("credit application not found")

	// ErrInvalidVehicle is returned by vehicle validation with the structured
	// rejection reason attached via wrapping.
	ErrInvalidVehicle = errors.New("invalid vehicle")

	// ErrOracleUnavailable marks transient score-oracle failures: network
	// errors, timeouts, 5xx-equivalents. The resilient gateway absorbs it;
	// it never reaches the orchestrator.
	ErrOracleUnavailable = errors.New("score oracle unavailable")
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// CustomerRepository looks up customers by identity document.
type CustomerRepository interface {
	FindByDocument(ctx context.Context, document valueobject.DocumentNumber) (model.Customer, error)
}

// ApplicationRepository persists and retrieves credit applications.
type ApplicationRepository interface {
	Save(ctx context.Context, app model.CreditApplication) error
	FindByID(ctx context.Context, id string) (model.CreditApplication, error)
	FindByCustomerDocument(ctx context.Context, document valueobject.DocumentNumber) ([]model.CreditApplication, error)
}

// ---------------------------------------------------------------------------
// External service ports
// ---------------------------------------------------------------------------

// VehicleData is the raw vehicle submission handed to the validator.
type VehicleData struct {
	VIN          string
	Brand        string
	Model        string
	Year         int
	VehicleType  string
	Value        decimal.Decimal
	Odometer     int
	Color        string
	Engine       string
	Transmission string
}

// VehicleValidator turns a raw submission into a validated Vehicle, or
// reports an ErrInvalidVehicle with the violation attached.
type VehicleValidator interface {
	Validate(ctx context.Context, data VehicleData) (model.Vehicle, error)
}

// VehicleAppraiser estimates a vehicle's market value. Real valuation is an
// external collaborator; the engine never computes it itself.
type VehicleAppraiser interface {
	Appraise(ctx context.Context, brand, model string, year, odometer int) (valueobject.CreditAmount, error)
}

// ScoreOracle is the raw, unreliable external scoring authority. Availability
// failures surface as ErrOracleUnavailable.
type ScoreOracle interface {
	GetScore(ctx context.Context, document valueobject.DocumentNumber) (int, error)
}

// ScoreResult is a credit score plus its provenance. Fallback is true when
// the score is the conservative default substituted for an unreachable oracle.
type ScoreResult struct {
	Score    valueobject.CreditScore
	Fallback bool
}

// ScoreProvider is the resilient facade the orchestrator consumes. It always
// resolves to a ScoreResult for availability failures; an error here means
// truly invalid input, never an unreachable oracle.
type ScoreProvider interface {
	FetchScore(ctx context.Context, document valueobject.DocumentNumber) (ScoreResult, error)
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}
