package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autofin/credit-engine/internal/application/dto"
	"github.com/autofin/credit-engine/internal/domain/event"
	"github.com/autofin/credit-engine/internal/domain/model"
	"github.com/autofin/credit-engine/internal/domain/port"
	"github.com/autofin/credit-engine/internal/domain/service"
	"github.com/autofin/credit-engine/internal/domain/valueobject"
	"github.com/autofin/credit-engine/internal/infrastructure/adapter"
	"github.com/autofin/credit-engine/internal/infrastructure/persistence/memory"
)

// ---------------------------------------------------------------------------
// Test doubles
// ---------------------------------------------------------------------------

// fakeScoreProvider returns a fixed result and counts invocations.
type fakeScoreProvider struct {
	mu     sync.Mutex
	result port.ScoreResult
	err    error
	calls  int
}

func (f *fakeScoreProvider) FetchScore(context.Context, valueobject.DocumentNumber) (port.ScoreResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.result, f.err
}

func (f *fakeScoreProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// recordingPublisher captures every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []event.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...event.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.EventType())
	}
	return types
}

// countingAppRepo counts Save calls on top of the in-memory store.
type countingAppRepo struct {
	*memory.ApplicationRepo
	mu    sync.Mutex
	saves int
}

func (r *countingAppRepo) Save(ctx context.Context, app model.CreditApplication) error {
	r.mu.Lock()
	r.saves++
	r.mu.Unlock()
	return r.ApplicationRepo.Save(ctx, app)
}

func (r *countingAppRepo) saveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

type fixture struct {
	uc        *ProcessApplicationUseCase
	customers *memory.CustomerRepo
	apps      *countingAppRepo
	scores    *fakeScoreProvider
	publisher *recordingPublisher
}

func newFixture(t *testing.T, score int, fallback bool) *fixture {
	t.Helper()

	customers := memory.NewCustomerRepo()
	customer, err := model.NewCustomer(
		valueobject.MustDocumentNumber("12345678"),
		"Maria", "Gonzalez", "maria@example.com",
		time.Date(1990, 5, 12, 0, 0, 0, 0, time.UTC),
		valueobject.MustCreditAmount(3_000_000),
		valueobject.MustCreditAmount(500_000),
		"Engineer", 48, time.Now().UTC(),
	)
	require.NoError(t, err)
	customers.Seed(customer)

	f := &fixture{
		customers: customers,
		apps:      &countingAppRepo{ApplicationRepo: memory.NewApplicationRepo()},
		scores:    &fakeScoreProvider{result: port.ScoreResult{Score: valueobject.MustCreditScore(score), Fallback: fallback}},
		publisher: &recordingPublisher{},
	}
	f.uc = NewProcessApplicationUseCase(
		f.customers,
		f.apps,
		adapter.NewVehicleValidatorAdapter(nil),
		f.scores,
		f.publisher,
		service.NewEligibilityService(),
		service.NewInterestRateService(),
		model.MinApprovalScore,
	)
	return f
}

func baseRequest() dto.ProcessApplicationRequest {
	return dto.ProcessApplicationRequest{
		DocumentNumber:  "12345678",
		RequestedAmount: decimal.NewFromInt(600_000_000),
		VehicleVIN:      "1HGBH41JXMN109186",
		VehicleBrand:    "TOYOTA",
		VehicleModel:    "COROLLA",
		VehicleYear:     2022,
		VehicleValue:    decimal.NewFromInt(800_000_000),
		VehicleOdometer: 30_000,
	}
}

// ---------------------------------------------------------------------------
// Decision paths
// ---------------------------------------------------------------------------

func TestProcessApplication_Approved(t *testing.T) {
	f := newFixture(t, 780, false)

	decision, err := f.uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.Equal(t, "APPROVED", decision.Status)
	assert.Equal(t, 780, decision.CreditScore)
	assert.False(t, decision.ScoreFallback)
	assert.Empty(t, decision.RejectionReason)
	assert.False(t, decision.AnnualRate.IsZero())
	assert.True(t, decision.MonthlyInstallment.GreaterThan(decimal.Zero),
		"approved decisions include an installment estimate")

	// Excellent-band pricing stays well under the ceiling.
	assert.True(t, decision.AnnualRate.GreaterThanOrEqual(service.MinAnnualRate))
	assert.True(t, decision.AnnualRate.LessThan(decimal.RequireFromString("0.16")),
		"got %s", decision.AnnualRate)

	assert.Equal(t, 1, f.scores.callCount())
	assert.Equal(t, 1, f.apps.saveCount(), "terminal decision is persisted exactly once")
	assert.Equal(t,
		[]string{"credit.application.submitted", "credit.application.approved"},
		f.publisher.eventTypes())

	stored, err := f.apps.FindByID(context.Background(), decision.ApplicationID)
	require.NoError(t, err)
	assert.True(t, stored.Status().Equal(valueobject.ApplicationStatusApproved))
}

func TestProcessApplication_AmountAboveVehicleLimitFailsBeforeScoring(t *testing.T) {
	f := newFixture(t, 780, false)
	req := baseRequest()
	// 750M against an 800M vehicle exceeds the 90% loan-to-value cap.
	req.RequestedAmount = decimal.NewFromInt(750_000_000)

	_, err := f.uc.Execute(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrAmountExceedsVehicleLimit)

	assert.Zero(t, f.scores.callCount(), "construction failure precedes scoring")
	assert.Zero(t, f.apps.saveCount(), "nothing is persisted")
	assert.Empty(t, f.publisher.eventTypes())
}

func TestProcessApplication_IneligibleVehicleRejectedWithoutScoring(t *testing.T) {
	f := newFixture(t, 780, false)
	req := baseRequest()
	req.VehicleOdometer = 150_000

	decision, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "REJECTED", decision.Status)
	assert.Equal(t, ReasonIneligible, decision.RejectionReason)
	assert.Zero(t, decision.CreditScore)
	assert.True(t, decision.AnnualRate.IsZero())

	assert.Zero(t, f.scores.callCount(), "ineligible applications never consult the oracle")
	assert.Equal(t, 1, f.apps.saveCount())
	assert.Equal(t,
		[]string{"credit.application.submitted", "credit.application.rejected"},
		f.publisher.eventTypes())
}

func TestProcessApplication_LowScoreRejectedWithReason(t *testing.T) {
	f := newFixture(t, 550, false)

	decision, err := f.uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.Equal(t, "REJECTED", decision.Status)
	assert.Equal(t, 550, decision.CreditScore)
	assert.Contains(t, decision.RejectionReason, "550")
	assert.Contains(t, decision.RejectionReason, "600")

	assert.Equal(t, 1, f.scores.callCount())
	assert.Equal(t, 1, f.apps.saveCount())
	assert.Equal(t,
		[]string{"credit.application.submitted", "credit.application.rejected"},
		f.publisher.eventTypes())
}

func TestProcessApplication_FallbackScoreApprovedAndFlagged(t *testing.T) {
	// 620 is the conservative fallback: above the floor, flagged as fallback.
	f := newFixture(t, 620, true)

	decision, err := f.uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.Equal(t, "APPROVED", decision.Status)
	assert.Equal(t, 620, decision.CreditScore)
	assert.True(t, decision.ScoreFallback, "fallback provenance survives to the decision")

	stored, err := f.apps.FindByID(context.Background(), decision.ApplicationID)
	require.NoError(t, err)
	assert.True(t, stored.ScoreFallback())
}

func TestProcessApplication_ScoreExactlyAtThresholdApproved(t *testing.T) {
	f := newFixture(t, 600, false)

	decision, err := f.uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", decision.Status)
}

func TestProcessApplication_ScoreJustBelowThresholdRejected(t *testing.T) {
	f := newFixture(t, 599, false)

	decision, err := f.uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.Equal(t, "REJECTED", decision.Status)
}

// ---------------------------------------------------------------------------
// Input failures
// ---------------------------------------------------------------------------

func TestProcessApplication_UnknownCustomer(t *testing.T) {
	f := newFixture(t, 780, false)
	req := baseRequest()
	req.DocumentNumber = "99999999"

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, port.ErrCustomerNotFound)
	assert.Zero(t, f.apps.saveCount())
}

func TestProcessApplication_MalformedDocument(t *testing.T) {
	f := newFixture(t, 780, false)
	req := baseRequest()
	req.DocumentNumber = "abc"

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, valueobject.ErrInvalidInput)
}

func TestProcessApplication_InvalidVehicle(t *testing.T) {
	f := newFixture(t, 780, false)
	req := baseRequest()
	req.VehicleVIN = "SHORT"

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, port.ErrInvalidVehicle)
	assert.Zero(t, f.scores.callCount())
}

func TestProcessApplication_IncomeBelowFloorRejected(t *testing.T) {
	f := newFixture(t, 780, false)

	poor, err := model.NewCustomer(
		valueobject.MustDocumentNumber("87654321"),
		"Juan", "Perez", "juan@example.com",
		time.Date(1992, 3, 1, 0, 0, 0, 0, time.UTC),
		valueobject.MustCreditAmount(1_400_000),
		valueobject.ZeroAmount(),
		"Clerk", 24, time.Now().UTC(),
	)
	require.NoError(t, err)
	f.customers.Seed(poor)

	req := baseRequest()
	req.DocumentNumber = "87654321"
	// Keep the request within what a lower-value vehicle still secures.
	req.RequestedAmount = decimal.NewFromInt(100_000_000)

	decision, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "REJECTED", decision.Status)
	assert.Equal(t, ReasonIneligible, decision.RejectionReason)
	assert.Zero(t, f.scores.callCount())
}

func TestProcessApplication_RejectionReasonFormat(t *testing.T) {
	f := newFixture(t, 480, false)

	decision, err := f.uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.Equal(t,
		fmt.Sprintf("credit score %d below required threshold %d", 480, model.MinApprovalScore),
		decision.RejectionReason)
}

// ---------------------------------------------------------------------------
// Retrieval
// ---------------------------------------------------------------------------

func TestGetApplication_ByIDAndByDocument(t *testing.T) {
	f := newFixture(t, 780, false)
	getUC := NewGetApplicationUseCase(f.apps)

	decision, err := f.uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	byID, err := getUC.ByID(context.Background(), dto.GetApplicationRequest{ApplicationID: decision.ApplicationID})
	require.NoError(t, err)
	assert.Equal(t, decision.ApplicationID, byID.ApplicationID)
	assert.Equal(t, "APPROVED", byID.Status)

	list, err := getUC.ByDocument(context.Background(), dto.ListApplicationsRequest{DocumentNumber: "12345678"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, decision.ApplicationID, list[0].ApplicationID)
}

func TestGetApplication_NotFound(t *testing.T) {
	getUC := NewGetApplicationUseCase(memory.NewApplicationRepo())

	_, err := getUC.ByID(context.Background(), dto.GetApplicationRequest{ApplicationID: "missing"})
	assert.ErrorIs(t, err, port.ErrApplicationNotFound)
}
