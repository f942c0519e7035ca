package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/autofin/credit-engine/internal/domain/model"
	"github.com/autofin/credit-engine/internal/domain/port"
	"github.com/autofin/credit-engine/internal/domain/valueobject"
)

// ApplicationRepo is an in-memory port.ApplicationRepository for development
// and tests. Safe for concurrent use.
type ApplicationRepo struct {
	mu   sync.RWMutex
	apps map[string]model.CreditApplication
}

// NewApplicationRepo creates an empty in-memory repository.
func NewApplicationRepo() *ApplicationRepo {
	return &ApplicationRepo{apps: make(map[string]model.CreditApplication)}
}

// Save stores the application snapshot, replacing any previous version.
func (r *ApplicationRepo) Save(_ context.Context, app model.CreditApplication) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.apps[app.ID()] = app.ClearEvents()
	return nil
}

// FindByID retrieves a single application.
func (r *ApplicationRepo) FindByID(_ context.Context, id string) (model.CreditApplication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	app, ok := r.apps[id]
	if !ok {
		return model.CreditApplication{}, port.ErrApplicationNotFound
	}
	return app, nil
}

// FindByCustomerDocument retrieves all applications for a document, most
// recent first.
func (r *ApplicationRepo) FindByCustomerDocument(
	_ context.Context,
	document valueobject.DocumentNumber,
) ([]model.CreditApplication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var apps []model.CreditApplication
	for _, app := range r.apps {
		if app.Customer().Document().Equal(document) {
			apps = append(apps, app)
		}
	}
	sort.Slice(apps, func(i, j int) bool {
		return apps[i].CreatedAt().After(apps[j].CreatedAt())
	})
	return apps, nil
}
