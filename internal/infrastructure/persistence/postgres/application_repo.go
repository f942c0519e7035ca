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

// ApplicationRepo implements port.ApplicationRepository. Each row holds the
// application's validated customer and vehicle snapshot, so reads never need
// a join to reconstruct the aggregate.
type ApplicationRepo struct {
	pool *pgxpool.Pool
}

// NewApplicationRepo creates a repository backed by PostgreSQL.
func NewApplicationRepo(pool *pgxpool.Pool) *ApplicationRepo {
	return &ApplicationRepo{pool: pool}
}

const applicationColumns = `
	id, customer_document, first_name, last_name, email, birth_date,
	monthly_income, monthly_debt, occupation, months_employed,
	vehicle_vin, vehicle_brand, vehicle_model, vehicle_year, vehicle_type,
	vehicle_value, vehicle_odometer, vehicle_color, vehicle_engine, vehicle_transmission,
	requested_amount, status, credit_score, score_fallback, annual_rate,
	rejection_reason, created_at, updated_at`

// Save persists a credit application (upsert by id; only decision fields may
// change after the initial insert).
func (r *ApplicationRepo) Save(ctx context.Context, app model.CreditApplication) error {
	query := `
		INSERT INTO credit_applications (` + applicationColumns + `
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,
			$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,
			$21,$22,$23,$24,$25,$26,$27,$28
		)
		ON CONFLICT (id) DO UPDATE SET
			status           = EXCLUDED.status,
			credit_score     = EXCLUDED.credit_score,
			score_fallback   = EXCLUDED.score_fallback,
			annual_rate      = EXCLUDED.annual_rate,
			rejection_reason = EXCLUDED.rejection_reason,
			updated_at       = EXCLUDED.updated_at
	`
	customer := app.Customer()
	vehicle := app.Vehicle()
	_, err := r.pool.Exec(ctx, query,
		app.ID(), customer.Document().Value(),
		customer.FirstName(), customer.LastName(), customer.Email(), customer.BirthDate(),
		customer.MonthlyIncome().Decimal(), customer.MonthlyDebt().Decimal(),
		customer.Occupation(), customer.MonthsEmployed(),
		vehicle.VIN().Value(), vehicle.Brand(), vehicle.Model(), vehicle.Year(), vehicle.VehicleType(),
		vehicle.AppraisedValue().Decimal(), vehicle.Odometer(),
		vehicle.Trim().Color, vehicle.Trim().Engine, vehicle.Trim().Transmission,
		app.RequestedAmount().Decimal(), app.Status().String(),
		app.Score().Value(), app.ScoreFallback(), app.AnnualRate(),
		app.RejectionReason(), app.CreatedAt(), app.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("save credit application: %w", err)
	}
	return nil
}

// FindByID retrieves a single credit application.
func (r *ApplicationRepo) FindByID(ctx context.Context, id string) (model.CreditApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM credit_applications WHERE id = $1`
	row := r.pool.QueryRow(ctx, query, id)
	app, err := scanApplication(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.CreditApplication{}, port.ErrApplicationNotFound
	}
	if err != nil {
		return model.CreditApplication{}, fmt.Errorf("find application %s: %w", id, err)
	}
	return app, nil
}

// FindByCustomerDocument retrieves all applications filed under a document,
// most recent first.
func (r *ApplicationRepo) FindByCustomerDocument(
	ctx context.Context,
	document valueobject.DocumentNumber,
) ([]model.CreditApplication, error) {
	query := `SELECT ` + applicationColumns + `
		FROM credit_applications
		WHERE customer_document = $1
		ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, document.Value())
	if err != nil {
		return nil, fmt.Errorf("query applications for %s: %w", document, err)
	}
	defer rows.Close()

	var apps []model.CreditApplication
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application row: %w", err)
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

// scanApplication reconstructs the aggregate from one row.
func scanApplication(row pgx.Row) (model.CreditApplication, error) {
	var (
		id, document, firstName, lastName, email       string
		occupation                                     string
		birthDate, createdAt, updatedAt                time.Time
		monthlyIncome, monthlyDebt                     decimal.Decimal
		monthsEmployed                                 int
		vin, brand, vehicleModel, vehicleType          string
		color, engine, transmission                    string
		year, odometer                                 int
		vehicleValue, requestedAmount, annualRate      decimal.Decimal
		status, rejectionReason                        string
		creditScore                                    int
		scoreFallback                                  bool
	)

	err := row.Scan(
		&id, &document, &firstName, &lastName, &email, &birthDate,
		&monthlyIncome, &monthlyDebt, &occupation, &monthsEmployed,
		&vin, &brand, &vehicleModel, &year, &vehicleType,
		&vehicleValue, &odometer, &color, &engine, &transmission,
		&requestedAmount, &status, &creditScore, &scoreFallback, &annualRate,
		&rejectionReason, &createdAt, &updatedAt,
	)
	if err != nil {
		return model.CreditApplication{}, err
	}

	doc, err := valueobject.NewDocumentNumber(document)
	if err != nil {
		return model.CreditApplication{}, fmt.Errorf("stored document: %w", err)
	}
	income, err := valueobject.NewCreditAmount(monthlyIncome)
	if err != nil {
		return model.CreditApplication{}, fmt.Errorf("stored income: %w", err)
	}
	debt := valueobject.ZeroAmount()
	if !monthlyDebt.IsZero() {
		if debt, err = valueobject.NewCreditAmount(monthlyDebt); err != nil {
			return model.CreditApplication{}, fmt.Errorf("stored debt: %w", err)
		}
	}
	customer, err := model.NewCustomer(
		doc, firstName, lastName, email, birthDate,
		income, debt, occupation, monthsEmployed, time.Now().UTC(),
	)
	if err != nil {
		return model.CreditApplication{}, fmt.Errorf("stored customer: %w", err)
	}

	vinVO, err := valueobject.NewVehicleVIN(vin)
	if err != nil {
		return model.CreditApplication{}, fmt.Errorf("stored vin: %w", err)
	}
	value, err := valueobject.NewCreditAmount(vehicleValue)
	if err != nil {
		return model.CreditApplication{}, fmt.Errorf("stored vehicle value: %w", err)
	}
	vehicle, err := model.NewVehicle(
		vinVO, brand, vehicleModel, year, vehicleType, value, odometer,
		model.VehicleTrim{Color: color, Engine: engine, Transmission: transmission},
		time.Now().UTC(),
	)
	if err != nil {
		return model.CreditApplication{}, fmt.Errorf("stored vehicle: %w", err)
	}

	requested, err := valueobject.NewCreditAmount(requestedAmount)
	if err != nil {
		return model.CreditApplication{}, fmt.Errorf("stored requested amount: %w", err)
	}
	statusVO, err := valueobject.NewApplicationStatus(status)
	if err != nil {
		return model.CreditApplication{}, fmt.Errorf("stored status: %w", err)
	}
	var score valueobject.CreditScore
	if creditScore != 0 {
		if score, err = valueobject.NewCreditScore(creditScore); err != nil {
			return model.CreditApplication{}, fmt.Errorf("stored score: %w", err)
		}
	}

	return model.ReconstructCreditApplication(
		id, customer, vehicle, requested, statusVO,
		score, scoreFallback, annualRate, rejectionReason,
		createdAt, updatedAt,
	), nil
}
