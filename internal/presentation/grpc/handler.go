package grpc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/autofin/credit-engine/internal/application/dto"
	"github.com/autofin/credit-engine/internal/application/usecase"
	"github.com/autofin/credit-engine/internal/domain/model"
	"github.com/autofin/credit-engine/internal/domain/port"
	"github.com/autofin/credit-engine/internal/domain/valueobject"
	"github.com/autofin/credit-engine/internal/observability"
)

// CreditHandler exposes the decision use cases over gRPC.
type CreditHandler struct {
	UnimplementedCreditServiceServer

	process *usecase.ProcessApplicationUseCase
	get     *usecase.GetApplicationUseCase
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewCreditHandler wires the handler's collaborators.
func NewCreditHandler(
	process *usecase.ProcessApplicationUseCase,
	get *usecase.GetApplicationUseCase,
	metrics *observability.Metrics,
	logger *slog.Logger,
) *CreditHandler {
	return &CreditHandler{
		process: process,
		get:     get,
		metrics: metrics,
		logger:  logger,
	}
}

// ProcessApplication decides a new credit application.
func (h *CreditHandler) ProcessApplication(
	ctx context.Context,
	req *ProcessApplicationRequest,
) (*ProcessApplicationResponse, error) {
	requested, err := decimal.NewFromString(req.RequestedAmount)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "requested_amount: %v", err)
	}
	value := decimal.Zero
	if req.VehicleValue != "" {
		if value, err = decimal.NewFromString(req.VehicleValue); err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "vehicle_value: %v", err)
		}
	}

	decision, err := h.process.Execute(ctx, dto.ProcessApplicationRequest{
		DocumentNumber:      req.DocumentNumber,
		RequestedAmount:     requested,
		VehicleVIN:          req.VehicleVIN,
		VehicleBrand:        req.VehicleBrand,
		VehicleModel:        req.VehicleModel,
		VehicleYear:         req.VehicleYear,
		VehicleType:         req.VehicleType,
		VehicleValue:        value,
		VehicleOdometer:     req.VehicleOdometer,
		VehicleColor:        req.VehicleColor,
		VehicleEngine:       req.VehicleEngine,
		VehicleTransmission: req.VehicleTransmission,
	})
	if err != nil {
		h.logger.Warn("process application failed",
			"vin", req.VehicleVIN,
			"error", err,
		)
		return nil, toStatusError(err)
	}

	h.metrics.ObserveDecision(decision.Status)
	h.logger.Info("application decided",
		"application_id", decision.ApplicationID,
		"status", decision.Status,
		"score_fallback", decision.ScoreFallback,
	)
	return &ProcessApplicationResponse{Decision: toWireDecision(decision)}, nil
}

// GetApplication fetches a stored application by id.
func (h *CreditHandler) GetApplication(
	ctx context.Context,
	req *GetApplicationRequest,
) (*GetApplicationResponse, error) {
	if req.ApplicationID == "" {
		return nil, status.Error(codes.InvalidArgument, "application_id is required")
	}
	decision, err := h.get.ByID(ctx, dto.GetApplicationRequest{ApplicationID: req.ApplicationID})
	if err != nil {
		return nil, toStatusError(err)
	}
	return &GetApplicationResponse{Decision: toWireDecision(decision)}, nil
}

// ListApplications fetches every application filed under a document.
func (h *CreditHandler) ListApplications(
	ctx context.Context,
	req *ListApplicationsRequest,
) (*ListApplicationsResponse, error) {
	decisions, err := h.get.ByDocument(ctx, dto.ListApplicationsRequest{
		DocumentNumber: req.DocumentNumber,
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	out := make([]*Decision, 0, len(decisions))
	for _, d := range decisions {
		out = append(out, toWireDecision(d))
	}
	return &ListApplicationsResponse{Decisions: out}, nil
}

func toWireDecision(d dto.DecisionResponse) *Decision {
	wire := &Decision{
		ApplicationID:    d.ApplicationID,
		CustomerDocument: d.CustomerDocument,
		VehicleVIN:       d.VehicleVIN,
		RequestedAmount:  d.RequestedAmount.String(),
		Status:           d.Status,
		CreditScore:      d.CreditScore,
		ScoreFallback:    d.ScoreFallback,
		RejectionReason:  d.RejectionReason,
		CreatedAt:        d.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        d.UpdatedAt.Format(time.RFC3339),
	}
	if !d.AnnualRate.IsZero() {
		wire.AnnualRate = d.AnnualRate.String()
	}
	if !d.MonthlyInstallment.IsZero() {
		wire.MonthlyInstallment = d.MonthlyInstallment.String()
	}
	return wire
}

// toStatusError translates domain and port errors into gRPC status codes.
func toStatusError(err error) error {
	switch {
	case errors.Is(err, port.ErrCustomerNotFound),
		errors.Is(err, port.ErrApplicationNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, port.ErrInvalidVehicle),
		errors.Is(err, valueobject.ErrInvalidInput),
		errors.Is(err, model.ErrIllegalArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, valueobject.ErrInvalidStatusTransition):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
