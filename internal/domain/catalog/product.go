package catalog

import (
	"time"

	"github.com/google/uuid"
)

// DefaultLowStockThreshold is applied to products the repository returns
// without an explicit threshold.
const DefaultLowStockThreshold = 10

// Product is a product record as stored by the external product repository.
// This service treats it as read-only except for LowStockThreshold.
type Product struct {
	ID                uuid.UUID
	Name              string
	SKU               string
	Quantity          int
	LowStockThreshold int
	Category          string
	ImageURL          string
	UpdatedAt         time.Time
}

// IsOutOfStock returns true when the product has zero on-hand stock
func (p *Product) IsOutOfStock() bool {
	return p.Quantity == 0
}
