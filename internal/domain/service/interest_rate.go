package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/autofin/credit-engine/internal/domain/model"
	"github.com/autofin/credit-engine/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// InterestRateService – risk-adjusted annual rate calculation
// ---------------------------------------------------------------------------

// Annual rate bounds. Every computed rate is clamped into this range.
var (
	MinAnnualRate = decimal.RequireFromString("0.05")
	MaxAnnualRate = decimal.RequireFromString("0.35")
)

// Base rates by score category. Deployment-tunable table, not a derived
// formula: the same (category, LTV bracket, age bracket) always yields the
// same rate.
var baseRateByCategory = map[valueobject.ScoreCategory]decimal.Decimal{
	valueobject.ScoreCategoryExcellent: decimal.RequireFromString("0.09"),
	valueobject.ScoreCategoryGood:      decimal.RequireFromString("0.12"),
	valueobject.ScoreCategoryFair:      decimal.RequireFromString("0.16"),
	valueobject.ScoreCategoryPoor:      decimal.RequireFromString("0.20"),
	valueobject.ScoreCategoryVeryPoor:  decimal.RequireFromString("0.28"),
}

// InterestRateService derives the annual rate for an application from the
// score category, the loan-to-value ratio and the vehicle age.
type InterestRateService struct {
	now func() time.Time
}

// NewInterestRateService returns a new service using the wall clock.
func NewInterestRateService() *InterestRateService {
	return &InterestRateService{now: func() time.Time { return time.Now().UTC() }}
}

// NewInterestRateServiceAt pins the clock. Test constructor.
func NewInterestRateServiceAt(now func() time.Time) *InterestRateService {
	return &InterestRateService{now: now}
}

// Calculate returns the annual rate for the application under the given
// score, clamped to [MinAnnualRate, MaxAnnualRate].
func (s *InterestRateService) Calculate(
	app model.CreditApplication,
	score valueobject.CreditScore,
) decimal.Decimal {
	rate := baseRateByCategory[score.Category()]
	rate = rate.Add(ltvAdjustment(app.LoanToValue()))
	rate = rate.Add(vehicleAgeAdjustment(app.Vehicle().Age(s.now())))

	if rate.LessThan(MinAnnualRate) {
		return MinAnnualRate
	}
	if rate.GreaterThan(MaxAnnualRate) {
		return MaxAnnualRate
	}
	return rate
}

// ltvAdjustment prices the loan-to-value bracket: low LTV earns a discount,
// high LTV a surcharge.
func ltvAdjustment(ltv decimal.Decimal) decimal.Decimal {
	switch {
	case ltv.LessThanOrEqual(decimal.RequireFromString("0.50")):
		return decimal.RequireFromString("-0.01")
	case ltv.LessThanOrEqual(decimal.RequireFromString("0.70")):
		return decimal.Zero
	case ltv.LessThanOrEqual(decimal.RequireFromString("0.80")):
		return decimal.RequireFromString("0.015")
	default:
		return decimal.RequireFromString("0.025")
	}
}

// vehicleAgeAdjustment prices the collateral age bracket.
func vehicleAgeAdjustment(ageYears int) decimal.Decimal {
	switch {
	case ageYears <= 2:
		return decimal.Zero
	case ageYears <= 4:
		return decimal.RequireFromString("0.005")
	default:
		return decimal.RequireFromString("0.01")
	}
}
