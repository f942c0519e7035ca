package service

import "github.com/autofin/credit-engine/internal/domain/model"

// ---------------------------------------------------------------------------
// EligibilityService – pure business-rule evaluation
// ---------------------------------------------------------------------------

// EligibilityService decides whether a (customer, vehicle) pair qualifies for
// credit at all. It is a pure function over the entities: no I/O, no state.
type EligibilityService struct{}

// NewEligibilityService returns a new service instance.
func NewEligibilityService() *EligibilityService {
	return &EligibilityService{}
}

// IsEligible reports whether the vehicle qualifies as collateral and the
// customer's income and debt ratio are within policy.
func (s *EligibilityService) IsEligible(customer model.Customer, vehicle model.Vehicle) bool {
	return vehicle.IsEligibleForCredit() &&
		customer.HasValidIncome() &&
		customer.HasAcceptableDebtRatio()
}
