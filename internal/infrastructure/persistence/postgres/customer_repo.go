package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/autofin/credit-engine/internal/domain/model"
	"github.com/autofin/credit-engine/internal/domain/port"
	"github.com/autofin/credit-engine/internal/domain/valueobject"
)

// CustomerRepo implements port.CustomerRepository.
type CustomerRepo struct {
	pool *pgxpool.Pool
}

// NewCustomerRepo creates a repository backed by PostgreSQL.
func NewCustomerRepo(pool *pgxpool.Pool) *CustomerRepo {
	return &CustomerRepo{pool: pool}
}

// FindByDocument retrieves the customer registered under a document number.
func (r *CustomerRepo) FindByDocument(
	ctx context.Context,
	document valueobject.DocumentNumber,
) (model.Customer, error) {
	query := `
		SELECT document, first_name, last_name, email, birth_date,
		       monthly_income, monthly_debt, occupation, months_employed
		FROM customers
		WHERE document = $1
	`
	var (
		doc, firstName, lastName, email, occupation string
		birthDate                                   time.Time
		monthlyIncome, monthlyDebt                  decimal.Decimal
		monthsEmployed                              int
	)
	err := r.pool.QueryRow(ctx, query, document.Value()).Scan(
		&doc, &firstName, &lastName, &email, &birthDate,
		&monthlyIncome, &monthlyDebt, &occupation, &monthsEmployed,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Customer{}, fmt.Errorf("%w: document %s", port.ErrCustomerNotFound, document)
	}
	if err != nil {
		return model.Customer{}, fmt.Errorf("find customer %s: %w", document, err)
	}

	docVO, err := valueobject.NewDocumentNumber(doc)
	if err != nil {
		return model.Customer{}, fmt.Errorf("stored document: %w", err)
	}
	income, err := valueobject.NewCreditAmount(monthlyIncome)
	if err != nil {
		return model.Customer{}, fmt.Errorf("stored income: %w", err)
	}
	debt := valueobject.ZeroAmount()
	if !monthlyDebt.IsZero() {
		if debt, err = valueobject.NewCreditAmount(monthlyDebt); err != nil {
			return model.Customer{}, fmt.Errorf("stored debt: %w", err)
		}
	}

	customer, err := model.NewCustomer(
		docVO, firstName, lastName, email, birthDate,
		income, debt, occupation, monthsEmployed, time.Now().UTC(),
	)
	if err != nil {
		return model.Customer{}, fmt.Errorf("stored customer: %w", err)
	}
	return customer, nil
}
