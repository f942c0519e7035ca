package adapter

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/autofin/credit-engine/internal/domain/valueobject"
)

// StubVehicleAppraiser is a development/test stand-in for the external
// valuation collaborator. Real valuation is a remote service contract
// (brand/model/year/mileage in, value out); this stub only echoes a flat
// figure per brand so wiring can be exercised end to end.
type StubVehicleAppraiser struct {
	values map[string]decimal.Decimal
}

// NewStubVehicleAppraiser creates the stub with a small fixed table.
func NewStubVehicleAppraiser() *StubVehicleAppraiser {
	return &StubVehicleAppraiser{
		values: map[string]decimal.Decimal{
			"TOYOTA":  decimal.NewFromInt(800_000_000),
			"HONDA":   decimal.NewFromInt(700_000_000),
			"MAZDA":   decimal.NewFromInt(650_000_000),
			"NISSAN":  decimal.NewFromInt(600_000_000),
			"HYUNDAI": decimal.NewFromInt(550_000_000),
		},
	}
}

// Appraise returns the table value for the brand.
func (a *StubVehicleAppraiser) Appraise(_ context.Context, brand, _ string, _, _ int) (valueobject.CreditAmount, error) {
	value, ok := a.values[strings.ToUpper(strings.TrimSpace(brand))]
	if !ok {
		return valueobject.CreditAmount{}, fmt.Errorf("no appraisal available for brand %q", brand)
	}
	return valueobject.NewCreditAmount(value)
}
