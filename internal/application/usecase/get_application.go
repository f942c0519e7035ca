package usecase

import (
	"context"
	"fmt"

	"github.com/autofin/credit-engine/internal/application/dto"
	"github.com/autofin/credit-engine/internal/domain/port"
	"github.com/autofin/credit-engine/internal/domain/valueobject"
)

// GetApplicationUseCase retrieves stored credit applications.
type GetApplicationUseCase struct {
	applications port.ApplicationRepository
}

// NewGetApplicationUseCase wires dependencies.
func NewGetApplicationUseCase(applications port.ApplicationRepository) *GetApplicationUseCase {
	return &GetApplicationUseCase{applications: applications}
}

// ByID fetches a single application.
func (uc *GetApplicationUseCase) ByID(ctx context.Context, req dto.GetApplicationRequest) (dto.DecisionResponse, error) {
	app, err := uc.applications.FindByID(ctx, req.ApplicationID)
	if err != nil {
		return dto.DecisionResponse{}, fmt.Errorf("get application: %w", err)
	}
	return ToDecisionResponse(app), nil
}

// ByDocument lists every application filed under a customer document.
func (uc *GetApplicationUseCase) ByDocument(ctx context.Context, req dto.ListApplicationsRequest) ([]dto.DecisionResponse, error) {
	document, err := valueobject.NewDocumentNumber(req.DocumentNumber)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	apps, err := uc.applications.FindByCustomerDocument(ctx, document)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	responses := make([]dto.DecisionResponse, 0, len(apps))
	for _, app := range apps {
		responses = append(responses, ToDecisionResponse(app))
	}
	return responses, nil
}
