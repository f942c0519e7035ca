package service

import (
	"math"

	"github.com/shopspring/decimal"
)

// DefaultTermMonths is the term used for the installment estimate included
// with approved decisions.
const DefaultTermMonths = 60

// EstimateMonthlyInstallment computes the fixed monthly payment for a loan of
// the given principal at the given annual rate over termMonths periods, using
// the standard annuity formula:
//
//	payment = P * r * (1+r)^n / ((1+r)^n - 1)
//
// The power term is computed in float64, monetary arithmetic stays decimal.
func EstimateMonthlyInstallment(
	principal decimal.Decimal,
	annualRate decimal.Decimal,
	termMonths int,
) decimal.Decimal {
	if termMonths <= 0 || principal.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	monthlyRate := annualRate.InexactFloat64() / 12.0
	if monthlyRate == 0 {
		return principal.Div(decimal.NewFromInt(int64(termMonths))).Round(2)
	}

	factor := math.Pow(1+monthlyRate, float64(termMonths))
	payment := principal.InexactFloat64() * monthlyRate * factor / (factor - 1)
	return decimal.NewFromFloat(payment).Round(2)
}
