package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/autofin/credit-engine/internal/domain/port"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// ProcessApplicationRequest carries everything needed to decide a new
// automotive-credit application.
type ProcessApplicationRequest struct {
	DocumentNumber  string          `json:"document_number"`
	RequestedAmount decimal.Decimal `json:"requested_amount"`

	VehicleVIN          string          `json:"vehicle_vin"`
	VehicleBrand        string          `json:"vehicle_brand"`
	VehicleModel        string          `json:"vehicle_model"`
	VehicleYear         int             `json:"vehicle_year"`
	VehicleType         string          `json:"vehicle_type,omitempty"`
	VehicleValue        decimal.Decimal `json:"vehicle_value"`
	VehicleOdometer     int             `json:"vehicle_odometer"`
	VehicleColor        string          `json:"vehicle_color,omitempty"`
	VehicleEngine       string          `json:"vehicle_engine,omitempty"`
	VehicleTransmission string          `json:"vehicle_transmission,omitempty"`
}

// ToVehicleData extracts the vehicle submission for the validator port.
func ToVehicleData(req ProcessApplicationRequest) port.VehicleData {
	return port.VehicleData{
		VIN:          req.VehicleVIN,
		Brand:        req.VehicleBrand,
		Model:        req.VehicleModel,
		Year:         req.VehicleYear,
		VehicleType:  req.VehicleType,
		Value:        req.VehicleValue,
		Odometer:     req.VehicleOdometer,
		Color:        req.VehicleColor,
		Engine:       req.VehicleEngine,
		Transmission: req.VehicleTransmission,
	}
}

// GetApplicationRequest identifies an application to retrieve.
type GetApplicationRequest struct {
	ApplicationID string `json:"application_id"`
}

// ListApplicationsRequest identifies a customer whose applications to list.
type ListApplicationsRequest struct {
	DocumentNumber string `json:"document_number"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// DecisionResponse is the external representation of a decided application.
type DecisionResponse struct {
	ApplicationID      string          `json:"application_id"`
	CustomerDocument   string          `json:"customer_document"`
	VehicleVIN         string          `json:"vehicle_vin"`
	RequestedAmount    decimal.Decimal `json:"requested_amount"`
	Status             string          `json:"status"`
	CreditScore        int             `json:"credit_score,omitempty"`
	ScoreFallback      bool            `json:"score_fallback,omitempty"`
	AnnualRate         decimal.Decimal `json:"annual_rate,omitempty"`
	MonthlyInstallment decimal.Decimal `json:"monthly_installment,omitempty"`
	RejectionReason    string          `json:"rejection_reason,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}
