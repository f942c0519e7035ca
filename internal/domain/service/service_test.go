package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autofin/credit-engine/internal/domain/model"
	"github.com/autofin/credit-engine/internal/domain/valueobject"
)

var svcNow = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

func buildCustomer(t *testing.T, income, debt int64) model.Customer {
	t.Helper()
	debtAmount := valueobject.ZeroAmount()
	if debt > 0 {
		debtAmount = valueobject.MustCreditAmount(debt)
	}
	customer, err := model.NewCustomer(
		valueobject.MustDocumentNumber("12345678"),
		"Maria", "Gonzalez", "maria@example.com",
		time.Date(1990, 5, 12, 0, 0, 0, 0, time.UTC),
		valueobject.MustCreditAmount(income),
		debtAmount,
		"Engineer", 48, svcNow,
	)
	require.NoError(t, err)
	return customer
}

func buildVehicle(t *testing.T, brand string, year, odometer int, value int64) model.Vehicle {
	t.Helper()
	vehicle, err := model.NewVehicle(
		valueobject.MustVehicleVIN("1HGBH41JXMN109186"),
		brand, "Corolla", year, "",
		valueobject.MustCreditAmount(value),
		odometer, model.VehicleTrim{}, svcNow,
	)
	require.NoError(t, err)
	return vehicle
}

func buildApplication(t *testing.T, requested int64, vehicle model.Vehicle) model.CreditApplication {
	t.Helper()
	app, err := model.NewCreditApplication(
		buildCustomer(t, 3_000_000, 500_000),
		vehicle,
		valueobject.MustCreditAmount(requested),
		svcNow,
	)
	require.NoError(t, err)
	return app
}

func TestEligibilityService(t *testing.T) {
	svc := NewEligibilityService()
	goodVehicle := buildVehicle(t, "Toyota", 2022, 30_000, 800_000_000)

	tests := []struct {
		name     string
		customer model.Customer
		vehicle  model.Vehicle
		want     bool
	}{
		{"all rules pass", buildCustomer(t, 3_000_000, 500_000), goodVehicle, true},
		{"income below floor", buildCustomer(t, 1_400_000, 0), goodVehicle, false},
		{"debt ratio above ceiling", buildCustomer(t, 3_000_000, 1_500_000), goodVehicle, false},
		{"vehicle too old", buildCustomer(t, 3_000_000, 500_000),
			buildVehicle(t, "Toyota", 2017, 30_000, 800_000_000), false},
		{"odometer over ceiling", buildCustomer(t, 3_000_000, 500_000),
			buildVehicle(t, "Toyota", 2022, 150_000, 800_000_000), false},
		{"unapproved brand", buildCustomer(t, 3_000_000, 500_000),
			buildVehicle(t, "Lada", 2022, 30_000, 800_000_000), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.IsEligible(tt.customer, tt.vehicle))
		})
	}
}

func TestInterestRateService_Calculate(t *testing.T) {
	svc := NewInterestRateServiceAt(func() time.Time { return svcNow })

	tests := []struct {
		name      string
		score     int
		requested int64
		vehicle   model.Vehicle
		want      string
	}{
		{
			// EXCELLENT base 0.09, LTV 0.75 -> +0.015, age 4 -> +0.005.
			name:      "excellent mid ltv",
			score:     780,
			requested: 600_000_000,
			vehicle:   buildVehicle(t, "Toyota", 2022, 30_000, 800_000_000),
			want:      "0.11",
		},
		{
			// GOOD base 0.12, LTV 0.5 -> -0.01, age 0 -> 0.
			name:      "good low ltv new vehicle",
			score:     700,
			requested: 400_000_000,
			vehicle:   buildVehicle(t, "Toyota", 2026, 0, 800_000_000),
			want:      "0.11",
		},
		{
			// FAIR base 0.16, LTV 0.625 -> 0, age 6 -> +0.01.
			name:      "fair older vehicle",
			score:     650,
			requested: 500_000_000,
			vehicle:   buildVehicle(t, "Toyota", 2020, 30_000, 800_000_000),
			want:      "0.17",
		},
		{
			// VERY_POOR base 0.28, LTV 0.9 -> +0.025, age 6 -> +0.01:
			// 0.315 stays under the cap.
			name:      "very poor high ltv",
			score:     450,
			requested: 720_000_000,
			vehicle:   buildVehicle(t, "Toyota", 2020, 30_000, 800_000_000),
			want:      "0.315",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := buildApplication(t, tt.requested, tt.vehicle)
			rate := svc.Calculate(app, valueobject.MustCreditScore(tt.score))
			assert.True(t, rate.Equal(decimal.RequireFromString(tt.want)),
				"want %s, got %s", tt.want, rate)
		})
	}
}

func TestInterestRateService_Deterministic(t *testing.T) {
	svc := NewInterestRateServiceAt(func() time.Time { return svcNow })
	app := buildApplication(t, 600_000_000, buildVehicle(t, "Toyota", 2022, 30_000, 800_000_000))
	score := valueobject.MustCreditScore(720)

	first := svc.Calculate(app, score)
	for i := 0; i < 10; i++ {
		assert.True(t, first.Equal(svc.Calculate(app, score)))
	}
}

func TestInterestRateService_ClampedToBounds(t *testing.T) {
	svc := NewInterestRateServiceAt(func() time.Time { return svcNow })
	app := buildApplication(t, 600_000_000, buildVehicle(t, "Toyota", 2022, 30_000, 800_000_000))

	for _, score := range []int{300, 450, 599, 600, 650, 700, 750, 850} {
		rate := svc.Calculate(app, valueobject.MustCreditScore(score))
		assert.True(t, rate.GreaterThanOrEqual(MinAnnualRate), "score %d rate %s", score, rate)
		assert.True(t, rate.LessThanOrEqual(MaxAnnualRate), "score %d rate %s", score, rate)
	}
}

func TestEstimateMonthlyInstallment(t *testing.T) {
	// 600M at 12% over 60 months: canonical annuity result.
	payment := EstimateMonthlyInstallment(
		decimal.NewFromInt(600_000_000),
		decimal.RequireFromString("0.12"),
		60,
	)
	assert.InDelta(t, 13_346_668.61, payment.InexactFloat64(), 0.05)
}

func TestEstimateMonthlyInstallment_ZeroRate(t *testing.T) {
	payment := EstimateMonthlyInstallment(decimal.NewFromInt(600_000), decimal.Zero, 60)
	assert.True(t, payment.Equal(decimal.NewFromInt(10_000)), "got %s", payment)
}

func TestEstimateMonthlyInstallment_DegenerateInputs(t *testing.T) {
	assert.True(t, EstimateMonthlyInstallment(decimal.NewFromInt(600_000), decimal.RequireFromString("0.12"), 0).IsZero())
	assert.True(t, EstimateMonthlyInstallment(decimal.Zero, decimal.RequireFromString("0.12"), 60).IsZero())
}
