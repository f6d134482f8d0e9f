package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ProductRepository defines the read/write boundary to the external product
// data API. Implementations map transport failures to
// shared.ErrRepositoryUnavailable and missing records to shared.ErrNotFound.
type ProductRepository interface {
	// FindAll returns every product record
	FindAll(ctx context.Context) ([]Product, error)

	// FindByID returns one product record by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// UpdateThreshold persists a new low-stock threshold for one product.
	// expectedUpdatedAt is the product's UpdatedAt observed at read time; the
	// update fails with shared.ErrConcurrencyConflict when the record has been
	// modified since, so a concurrent quantity change is never clobbered.
	UpdateThreshold(ctx context.Context, id uuid.UUID, threshold int, expectedUpdatedAt time.Time) (*Product, error)
}
