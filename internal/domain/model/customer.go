package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/autofin/credit-engine/internal/domain/valueobject"
)

// Intentionally permissive: syntactic check only, deliverability is not a
// domain concern.
var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ---------------------------------------------------------------------------
// Customer entity
// ---------------------------------------------------------------------------

// Customer is an immutable applicant snapshot. Identity is the document
// number: two Customers are the same person iff their documents are equal.
type Customer struct {
	document       valueobject.DocumentNumber
	firstName      string
	lastName       string
	email          string
	birthDate      time.Time
	monthlyIncome  valueobject.CreditAmount
	monthlyDebt    valueobject.CreditAmount
	occupation     string
	monthsEmployed int
}

// NewCustomer validates and constructs a Customer. The monthly debt may be
// the zero amount; every other monetary field must be a bounded CreditAmount.
// Age is computed against now, which callers should pass as time.Now().UTC().
func NewCustomer(
	document valueobject.DocumentNumber,
	firstName, lastName, email string,
	birthDate time.Time,
	monthlyIncome, monthlyDebt valueobject.CreditAmount,
	occupation string,
	monthsEmployed int,
	now time.Time,
) (Customer, error) {
	if document.IsZero() {
		return Customer{}, fmt.Errorf("%w: customer document is required", valueobject.ErrInvalidInput)
	}
	if strings.TrimSpace(firstName) == "" {
		return Customer{}, fmt.Errorf("%w: first name is required", valueobject.ErrInvalidInput)
	}
	if strings.TrimSpace(lastName) == "" {
		return Customer{}, fmt.Errorf("%w: last name is required", valueobject.ErrInvalidInput)
	}
	if !emailRe.MatchString(email) {
		return Customer{}, fmt.Errorf("%w: email %q is not valid", valueobject.ErrInvalidInput, email)
	}
	if age(birthDate, now) < MinCustomerAge {
		return Customer{}, fmt.Errorf("%w: customer must be at least %d years old",
			valueobject.ErrInvalidInput, MinCustomerAge)
	}
	if strings.TrimSpace(occupation) == "" {
		return Customer{}, fmt.Errorf("%w: occupation is required", valueobject.ErrInvalidInput)
	}
	if monthlyIncome.IsZero() {
		return Customer{}, fmt.Errorf("%w: monthly income is required", valueobject.ErrInvalidInput)
	}
	if monthsEmployed < 0 {
		return Customer{}, fmt.Errorf("%w: months employed cannot be negative", valueobject.ErrInvalidInput)
	}

	return Customer{
		document:       document,
		firstName:      strings.TrimSpace(firstName),
		lastName:       strings.TrimSpace(lastName),
		email:          email,
		birthDate:      birthDate,
		monthlyIncome:  monthlyIncome,
		monthlyDebt:    monthlyDebt,
		occupation:     strings.TrimSpace(occupation),
		monthsEmployed: monthsEmployed,
	}, nil
}

// ---------------------------------------------------------------------------
// Derived predicates
// ---------------------------------------------------------------------------

// HasValidIncome reports whether the customer's income meets the policy floor.
func (c Customer) HasValidIncome() bool {
	return c.monthlyIncome.Decimal().GreaterThanOrEqual(MinMonthlyIncome)
}

// DebtToIncomeRatio returns debt divided by income, rounded to 4 decimals.
func (c Customer) DebtToIncomeRatio() decimal.Decimal {
	if c.monthlyIncome.IsZero() {
		return decimal.Zero
	}
	return c.monthlyDebt.Decimal().Div(c.monthlyIncome.Decimal()).Round(4)
}

// HasAcceptableDebtRatio reports whether the debt/income ratio is within the
// policy ceiling.
func (c Customer) HasAcceptableDebtRatio() bool {
	return c.DebtToIncomeRatio().LessThanOrEqual(MaxDebtToIncomeRatio)
}

// AvailablePaymentCapacity returns max(0, PaymentToIncomeCeiling*income - debt):
// the monthly amount left to service a new obligation.
func (c Customer) AvailablePaymentCapacity() decimal.Decimal {
	capacity := c.monthlyIncome.Decimal().Mul(PaymentToIncomeCeiling).Sub(c.monthlyDebt.Decimal())
	if capacity.IsNegative() {
		return decimal.Zero
	}
	return capacity
}

// Age returns the customer's age in whole years at the given instant.
func (c Customer) Age(now time.Time) int {
	return age(c.birthDate, now)
}

// Equal reports entity identity: same document number.
func (c Customer) Equal(other Customer) bool {
	return c.document.Equal(other.document)
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (c Customer) Document() valueobject.DocumentNumber    { return c.document }
func (c Customer) FirstName() string                       { return c.firstName }
func (c Customer) LastName() string                        { return c.lastName }
func (c Customer) FullName() string                        { return c.firstName + " " + c.lastName }
func (c Customer) Email() string                           { return c.email }
func (c Customer) BirthDate() time.Time                    { return c.birthDate }
func (c Customer) MonthlyIncome() valueobject.CreditAmount { return c.monthlyIncome }
func (c Customer) MonthlyDebt() valueobject.CreditAmount   { return c.monthlyDebt }
func (c Customer) Occupation() string                      { return c.occupation }
func (c Customer) MonthsEmployed() int                     { return c.monthsEmployed }

func age(birthDate, now time.Time) int {
	years := now.Year() - birthDate.Year()
	if now.YearDay() < birthDate.YearDay() {
		years--
	}
	return years
}
