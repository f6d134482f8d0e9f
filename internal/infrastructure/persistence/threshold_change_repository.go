package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockwatch/backend/internal/application/inventory"
)

// ThresholdChangeModel is the GORM model for the threshold audit trail
type ThresholdChangeModel struct {
	ID           string    `gorm:"type:varchar(36);primaryKey"`
	ProductID    string    `gorm:"type:varchar(36);index;not null"`
	SKU          string    `gorm:"type:varchar(100);not null"`
	OldThreshold int       `gorm:"not null"`
	NewThreshold int       `gorm:"not null"`
	ChangedAt    time.Time `gorm:"index;not null"`
}

// TableName overrides the default table name
func (ThresholdChangeModel) TableName() string {
	return "threshold_changes"
}

// GormThresholdChangeRepository persists threshold edits with GORM
type GormThresholdChangeRepository struct {
	db *gorm.DB
}

// NewGormThresholdChangeRepository creates a repository backed by the audit database
func NewGormThresholdChangeRepository(db *Database) *GormThresholdChangeRepository {
	return &GormThresholdChangeRepository{db: db.DB}
}

// Record appends one change record
func (r *GormThresholdChangeRepository) Record(ctx context.Context, change *inventory.ThresholdChange) error {
	model := ThresholdChangeModel{
		ID:           change.ID.String(),
		ProductID:    change.ProductID.String(),
		SKU:          change.SKU,
		OldThreshold: change.OldThreshold,
		NewThreshold: change.NewThreshold,
		ChangedAt:    change.ChangedAt,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to record threshold change: %w", err)
	}
	return nil
}

// List returns change records newest first, optionally filtered by product
func (r *GormThresholdChangeRepository) List(ctx context.Context, productID *uuid.UUID, page, pageSize int) ([]inventory.ThresholdChange, int64, error) {
	query := r.db.WithContext(ctx).Model(&ThresholdChangeModel{})
	if productID != nil {
		query = query.Where("product_id = ?", productID.String())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count threshold changes: %w", err)
	}

	var models []ThresholdChangeModel
	offset := (page - 1) * pageSize
	err := query.Order("changed_at DESC").Offset(offset).Limit(pageSize).Find(&models).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list threshold changes: %w", err)
	}

	changes := make([]inventory.ThresholdChange, 0, len(models))
	for _, m := range models {
		change, err := m.toDomain()
		if err != nil {
			return nil, 0, err
		}
		changes = append(changes, change)
	}
	return changes, total, nil
}

func (m *ThresholdChangeModel) toDomain() (inventory.ThresholdChange, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return inventory.ThresholdChange{}, fmt.Errorf("corrupt threshold change id %q: %w", m.ID, err)
	}
	productID, err := uuid.Parse(m.ProductID)
	if err != nil {
		return inventory.ThresholdChange{}, fmt.Errorf("corrupt product id %q: %w", m.ProductID, err)
	}
	return inventory.ThresholdChange{
		ID:           id,
		ProductID:    productID,
		SKU:          m.SKU,
		OldThreshold: m.OldThreshold,
		NewThreshold: m.NewThreshold,
		ChangedAt:    m.ChangedAt,
	}, nil
}

// Ensure the repository implements the recorder interface
var _ inventory.ThresholdChangeRecorder = (*GormThresholdChangeRepository)(nil)
