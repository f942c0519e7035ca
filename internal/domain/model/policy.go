package model

import "github.com/shopspring/decimal"

// ---------------------------------------------------------------------------
// Credit policy table
// ---------------------------------------------------------------------------

// The canonical credit policy. Values are currency-agnostic minor units.
// These are the credit-domain figures; per-deployment overrides belong in
// configuration, not here.
var (
	// MinMonthlyIncome is the income floor below which a customer cannot
	// qualify for any credit product.
	MinMonthlyIncome = decimal.NewFromInt(1_500_000)

	// MaxDebtToIncomeRatio caps existing monthly debt against monthly income.
	MaxDebtToIncomeRatio = decimal.RequireFromString("0.40")

	// PaymentToIncomeCeiling caps the share of income available to service a
	// new obligation.
	PaymentToIncomeCeiling = decimal.RequireFromString("0.30")

	// MinVehicleValue is the appraisal floor for a vehicle to secure credit.
	MinVehicleValue = decimal.NewFromInt(50_000_000)

	// MaxLoanToValue caps the requested amount against the appraised value.
	MaxLoanToValue = decimal.RequireFromString("0.90")
)

const (
	// MinVehicleYear is the oldest model year accepted at registration.
	MinVehicleYear = 2010

	// MinEligibleVehicleYear is the oldest model year eligible as collateral.
	MinEligibleVehicleYear = 2018

	// MaxEligibleOdometer is the odometer ceiling for collateral eligibility.
	MaxEligibleOdometer = 100_000

	// MinApprovalScore is the credit score floor for approval.
	MinApprovalScore = 600

	// MinCustomerAge is the minimum age of an applicant in years.
	MinCustomerAge = 18
)

// ApprovedBrands is the fixed allow-list of vehicle brands accepted as
// collateral. Brand names are compared after upper-casing.
var ApprovedBrands = map[string]struct{}{
	"TOYOTA":     {},
	"HONDA":      {},
	"MAZDA":      {},
	"NISSAN":     {},
	"HYUNDAI":    {},
	"KIA":        {},
	"CHEVROLET":  {},
	"FORD":       {},
	"VOLKSWAGEN": {},
	"RENAULT":    {},
}
