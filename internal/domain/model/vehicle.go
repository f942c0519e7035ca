package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/autofin/credit-engine/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Vehicle entity
// ---------------------------------------------------------------------------

// VehicleTrim carries optional descriptive attributes. All fields may be empty.
type VehicleTrim struct {
	Color        string
	Engine       string
	Transmission string
}

// Vehicle is an immutable collateral snapshot. Identity is the VIN.
type Vehicle struct {
	vin            valueobject.VehicleVIN
	brand          string
	model          string
	year           int
	vehicleType    string
	appraisedValue valueobject.CreditAmount
	odometer       int
	trim           VehicleTrim
}

// NewVehicle validates and constructs a Vehicle. The brand is normalized to
// upper case. The model year must fall in [MinVehicleYear, current year].
func NewVehicle(
	vin valueobject.VehicleVIN,
	brand, model string,
	year int,
	vehicleType string,
	appraisedValue valueobject.CreditAmount,
	odometer int,
	trim VehicleTrim,
	now time.Time,
) (Vehicle, error) {
	if vin.IsZero() {
		return Vehicle{}, fmt.Errorf("%w: vehicle VIN is required", valueobject.ErrInvalidInput)
	}
	if strings.TrimSpace(brand) == "" {
		return Vehicle{}, fmt.Errorf("%w: vehicle brand is required", valueobject.ErrInvalidInput)
	}
	if strings.TrimSpace(model) == "" {
		return Vehicle{}, fmt.Errorf("%w: vehicle model is required", valueobject.ErrInvalidInput)
	}
	if year < MinVehicleYear || year > now.Year() {
		return Vehicle{}, fmt.Errorf("%w: vehicle year %d outside [%d, %d]",
			valueobject.ErrInvalidInput, year, MinVehicleYear, now.Year())
	}
	if odometer < 0 {
		return Vehicle{}, fmt.Errorf("%w: odometer reading cannot be negative", valueobject.ErrInvalidInput)
	}
	if appraisedValue.IsZero() {
		return Vehicle{}, fmt.Errorf("%w: appraised value is required", valueobject.ErrInvalidInput)
	}

	return Vehicle{
		vin:            vin,
		brand:          strings.ToUpper(strings.TrimSpace(brand)),
		model:          strings.TrimSpace(model),
		year:           year,
		vehicleType:    strings.TrimSpace(vehicleType),
		appraisedValue: appraisedValue,
		odometer:       odometer,
		trim:           trim,
	}, nil
}

// ---------------------------------------------------------------------------
// Derived predicates
// ---------------------------------------------------------------------------

// IsFromApprovedBrand reports membership in the fixed brand allow-list.
func (v Vehicle) IsFromApprovedBrand() bool {
	_, ok := ApprovedBrands[v.brand]
	return ok
}

// IsEligibleForCredit reports whether the vehicle qualifies as collateral:
// approved brand, recent enough, within the odometer ceiling and worth at
// least the appraisal floor.
func (v Vehicle) IsEligibleForCredit() bool {
	return v.IsFromApprovedBrand() &&
		v.year >= MinEligibleVehicleYear &&
		v.odometer <= MaxEligibleOdometer &&
		v.appraisedValue.Decimal().GreaterThanOrEqual(MinVehicleValue)
}

// MaxCreditAmount returns the largest amount this vehicle can secure:
// MaxLoanToValue times the appraised value.
func (v Vehicle) MaxCreditAmount() valueobject.CreditAmount {
	limit := v.appraisedValue.Decimal().Mul(MaxLoanToValue)
	amount, err := valueobject.NewCreditAmount(limit)
	if err != nil {
		// A vehicle below the appraisal floor cannot secure any credit.
		return valueobject.ZeroAmount()
	}
	return amount
}

// Age returns the vehicle's age in model years at the given instant.
func (v Vehicle) Age(now time.Time) int {
	return now.Year() - v.year
}

// Equal reports entity identity: same VIN.
func (v Vehicle) Equal(other Vehicle) bool {
	return v.vin.Equal(other.vin)
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (v Vehicle) VIN() valueobject.VehicleVIN                { return v.vin }
func (v Vehicle) Brand() string                              { return v.brand }
func (v Vehicle) Model() string                              { return v.model }
func (v Vehicle) Year() int                                  { return v.year }
func (v Vehicle) VehicleType() string                        { return v.vehicleType }
func (v Vehicle) AppraisedValue() valueobject.CreditAmount   { return v.appraisedValue }
func (v Vehicle) Odometer() int                              { return v.odometer }
func (v Vehicle) Trim() VehicleTrim                          { return v.trim }
