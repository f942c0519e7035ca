package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/autofin/credit-engine/internal/application/dto"
	"github.com/autofin/credit-engine/internal/domain/model"
	"github.com/autofin/credit-engine/internal/domain/port"
	"github.com/autofin/credit-engine/internal/domain/service"
	"github.com/autofin/credit-engine/internal/domain/valueobject"
)

// ReasonIneligible is the fixed rejection reason for applications failing the
// eligibility rules.
const ReasonIneligible = "customer or vehicle does not meet credit eligibility requirements"

// ProcessApplicationUseCase orchestrates a credit decision: customer lookup,
// vehicle validation, application construction, eligibility, scoring, rate
// calculation and the terminal approve/reject transition. The use case holds
// no mutable state and is safe for concurrent invocation.
type ProcessApplicationUseCase struct {
	customers    port.CustomerRepository
	applications port.ApplicationRepository
	vehicles     port.VehicleValidator
	scores       port.ScoreProvider
	publisher    port.EventPublisher
	eligibility  *service.EligibilityService
	rates        *service.InterestRateService

	// approvalThreshold must be >= model.MinApprovalScore; the aggregate
	// enforces the policy floor regardless.
	approvalThreshold int
}

// NewProcessApplicationUseCase wires dependencies.
func NewProcessApplicationUseCase(
	customers port.CustomerRepository,
	applications port.ApplicationRepository,
	vehicles port.VehicleValidator,
	scores port.ScoreProvider,
	publisher port.EventPublisher,
	eligibility *service.EligibilityService,
	rates *service.InterestRateService,
	approvalThreshold int,
) *ProcessApplicationUseCase {
	if approvalThreshold < model.MinApprovalScore {
		approvalThreshold = model.MinApprovalScore
	}
	return &ProcessApplicationUseCase{
		customers:         customers,
		applications:      applications,
		vehicles:          vehicles,
		scores:            scores,
		publisher:         publisher,
		eligibility:       eligibility,
		rates:             rates,
		approvalThreshold: approvalThreshold,
	}
}

// Execute decides a credit application. A request either yields a terminal
// decision (approved/rejected with reason) or a single wrapped error; nothing
// is persisted until the decision is terminal, and persistence happens
// exactly once.
func (uc *ProcessApplicationUseCase) Execute(
	ctx context.Context,
	req dto.ProcessApplicationRequest,
) (dto.DecisionResponse, error) {
	now := time.Now().UTC()

	// 1. Resolve the customer.
	document, err := valueobject.NewDocumentNumber(req.DocumentNumber)
	if err != nil {
		return dto.DecisionResponse{}, fmt.Errorf("process application: %w", err)
	}
	customer, err := uc.customers.FindByDocument(ctx, document)
	if err != nil {
		return dto.DecisionResponse{}, fmt.Errorf("process application: %w", err)
	}

	// 2. Validate the vehicle.
	vehicle, err := uc.vehicles.Validate(ctx, dto.ToVehicleData(req))
	if err != nil {
		return dto.DecisionResponse{}, fmt.Errorf("process application: %w", err)
	}

	// 3. Construct the application; the amount-vs-vehicle-value invariant
	// fails here, before any scoring call.
	requested, err := valueobject.NewCreditAmount(req.RequestedAmount)
	if err != nil {
		return dto.DecisionResponse{}, fmt.Errorf("process application: %w", err)
	}
	app, err := model.NewCreditApplication(customer, vehicle, requested, now)
	if err != nil {
		return dto.DecisionResponse{}, fmt.Errorf("process application: %w", err)
	}

	// 4. Eligibility gate: ineligible applications are rejected without ever
	// consulting the score oracle.
	if !uc.eligibility.IsEligible(customer, vehicle) {
		app, err = app.Reject(ReasonIneligible, now)
		if err != nil {
			return dto.DecisionResponse{}, fmt.Errorf("process application: %w", err)
		}
		return uc.finalize(ctx, app)
	}

	// 5. Obtain the score. The gateway always resolves to a score; it never
	// surfaces oracle availability failures.
	result, err := uc.scores.FetchScore(ctx, document)
	if err != nil {
		return dto.DecisionResponse{}, fmt.Errorf("process application: %w", err)
	}

	// 6. Derive the risk-adjusted rate.
	rate := uc.rates.Calculate(app, result.Score)

	// 7. Terminal transition.
	if result.Score.Value() >= uc.approvalThreshold {
		app, err = app.Approve(result.Score, result.Fallback, rate, now)
	} else {
		reason := fmt.Sprintf("credit score %d below required threshold %d",
			result.Score.Value(), uc.approvalThreshold)
		app, err = app.RejectWithScore(reason, result.Score, result.Fallback, now)
	}
	if err != nil {
		return dto.DecisionResponse{}, fmt.Errorf("process application: %w", err)
	}

	return uc.finalize(ctx, app)
}

// finalize persists the decided application once and publishes its events.
func (uc *ProcessApplicationUseCase) finalize(
	ctx context.Context,
	app model.CreditApplication,
) (dto.DecisionResponse, error) {
	if err := uc.applications.Save(ctx, app); err != nil {
		return dto.DecisionResponse{}, fmt.Errorf("save application: %w", err)
	}
	if err := uc.publisher.Publish(ctx, app.DomainEvents()...); err != nil {
		return dto.DecisionResponse{}, fmt.Errorf("publish events: %w", err)
	}
	return ToDecisionResponse(app), nil
}

// ToDecisionResponse maps the aggregate to its external representation.
func ToDecisionResponse(app model.CreditApplication) dto.DecisionResponse {
	resp := dto.DecisionResponse{
		ApplicationID:    app.ID(),
		CustomerDocument: app.Customer().Document().Value(),
		VehicleVIN:       app.Vehicle().VIN().Value(),
		RequestedAmount:  app.RequestedAmount().Decimal(),
		Status:           app.Status().String(),
		ScoreFallback:    app.ScoreFallback(),
		RejectionReason:  app.RejectionReason(),
		CreatedAt:        app.CreatedAt(),
		UpdatedAt:        app.UpdatedAt(),
	}
	if !app.Score().IsZero() {
		resp.CreditScore = app.Score().Value()
	}
	if app.Status().Equal(valueobject.ApplicationStatusApproved) {
		resp.AnnualRate = app.AnnualRate()
		resp.MonthlyInstallment = service.EstimateMonthlyInstallment(
			app.RequestedAmount().Decimal(), app.AnnualRate(), service.DefaultTermMonths)
	}
	return resp
}
