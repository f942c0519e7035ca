package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/autofin/credit-engine/internal/domain/model"
	"github.com/autofin/credit-engine/internal/domain/port"
	"github.com/autofin/credit-engine/internal/domain/valueobject"
)

// CustomerRepo is an in-memory port.CustomerRepository for development and
// tests. Safe for concurrent use.
type CustomerRepo struct {
	mu        sync.RWMutex
	customers map[string]model.Customer
}

// NewCustomerRepo creates an empty in-memory repository.
func NewCustomerRepo() *CustomerRepo {
	return &CustomerRepo{customers: make(map[string]model.Customer)}
}

// Seed registers a customer under its document number.
func (r *CustomerRepo) Seed(customer model.Customer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers[customer.Document().Value()] = customer
}

// FindByDocument retrieves the customer registered under a document number.
func (r *CustomerRepo) FindByDocument(
	_ context.Context,
	document valueobject.DocumentNumber,
) (model.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	customer, ok := r.customers[document.Value()]
	if !ok {
		return model.Customer{}, fmt.Errorf("%w: document %s", port.ErrCustomerNotFound, document)
	}
	return customer, nil
}
