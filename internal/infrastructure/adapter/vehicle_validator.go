package adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/autofin/credit-engine/internal/domain/model"
	"github.com/autofin/credit-engine/internal/domain/port"
	"github.com/autofin/credit-engine/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// VehicleValidatorAdapter – validation collaborator
// ---------------------------------------------------------------------------

// VehicleValidatorAdapter implements port.VehicleValidator. It normalizes and
// validates the raw submission into a Vehicle entity; when the submission
// carries no appraised value it consults the appraiser collaborator.
type VehicleValidatorAdapter struct {
	appraiser port.VehicleAppraiser
	now       func() time.Time
}

// NewVehicleValidatorAdapter creates the validator. appraiser may be nil if
// every submission is expected to carry its own appraised value.
func NewVehicleValidatorAdapter(appraiser port.VehicleAppraiser) *VehicleValidatorAdapter {
	return &VehicleValidatorAdapter{
		appraiser: appraiser,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Validate turns a raw vehicle submission into a validated Vehicle, or
// returns port.ErrInvalidVehicle wrapping the specific violation.
func (a *VehicleValidatorAdapter) Validate(ctx context.Context, data port.VehicleData) (model.Vehicle, error) {
	vin, err := valueobject.NewVehicleVIN(data.VIN)
	if err != nil {
		return model.Vehicle{}, fmt.Errorf("%w: %v", port.ErrInvalidVehicle, err)
	}

	value := data.Value
	if value.IsZero() && a.appraiser != nil {
		appraised, err := a.appraiser.Appraise(ctx, data.Brand, data.Model, data.Year, data.Odometer)
		if err != nil {
			return model.Vehicle{}, fmt.Errorf("%w: appraisal failed: %v", port.ErrInvalidVehicle, err)
		}
		value = appraised.Decimal()
	}
	appraisedValue, err := valueobject.NewCreditAmount(value)
	if err != nil {
		return model.Vehicle{}, fmt.Errorf("%w: appraised value: %v", port.ErrInvalidVehicle, err)
	}

	vehicle, err := model.NewVehicle(
		vin, data.Brand, data.Model, data.Year, data.VehicleType,
		appraisedValue, data.Odometer,
		model.VehicleTrim{
			Color:        data.Color,
			Engine:       data.Engine,
			Transmission: data.Transmission,
		},
		a.now(),
	)
	if err != nil {
		return model.Vehicle{}, fmt.Errorf("%w: %v", port.ErrInvalidVehicle, err)
	}
	return vehicle, nil
}
