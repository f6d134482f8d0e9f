package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stockwatch/backend/internal/domain/catalog"
	"github.com/stockwatch/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ThresholdChange records one successful threshold edit
type ThresholdChange struct {
	ID           uuid.UUID
	ProductID    uuid.UUID
	SKU          string
	OldThreshold int
	NewThreshold int
	ChangedAt    time.Time
}

// ThresholdChangeRecorder persists and queries the threshold edit history
type ThresholdChangeRecorder interface {
	// Record appends one change record
	Record(ctx context.Context, change *ThresholdChange) error

	// List returns change records newest first, optionally filtered by product
	List(ctx context.Context, productID *uuid.UUID, page, pageSize int) ([]ThresholdChange, int64, error)
}

// ThresholdService edits per-product low-stock thresholds through the product
// repository. Updates patch only the threshold field, preconditioned on the
// UpdatedAt observed at read time, so a concurrent quantity change fails the
// edit instead of being silently overwritten.
type ThresholdService struct {
	products catalog.ProductRepository
	alerts   *AlertService
	recorder ThresholdChangeRecorder
	logger   *zap.Logger
}

// NewThresholdService creates a new ThresholdService
func NewThresholdService(products catalog.ProductRepository, alerts *AlertService, logger *zap.Logger) *ThresholdService {
	return &ThresholdService{
		products: products,
		alerts:   alerts,
		logger:   logger,
	}
}

// WithRecorder sets the audit recorder for threshold edits
func (s *ThresholdService) WithRecorder(recorder ThresholdChangeRecorder) *ThresholdService {
	s.recorder = recorder
	return s
}

// SetThreshold persists a new low-stock threshold for one product and returns
// the alert list rebuilt against fresh product data, so the caller sees the
// effect of the edit immediately. Negative thresholds are rejected; none of
// the failure modes is retried internally.
func (s *ThresholdService) SetThreshold(ctx context.Context, productID uuid.UUID, newThreshold int) (*AlertListResponse, error) {
	if newThreshold < 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "low-stock threshold cannot be negative")
	}

	current, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	updated, err := s.products.UpdateThreshold(ctx, productID, newThreshold, current.UpdatedAt)
	if err != nil {
		return nil, err
	}

	s.logger.Info("low-stock threshold updated",
		zap.String("product_id", productID.String()),
		zap.String("sku", updated.SKU),
		zap.Int("old_threshold", current.LowStockThreshold),
		zap.Int("new_threshold", updated.LowStockThreshold),
	)

	if s.recorder != nil {
		change := &ThresholdChange{
			ID:           uuid.New(),
			ProductID:    productID,
			SKU:          updated.SKU,
			OldThreshold: current.LowStockThreshold,
			NewThreshold: updated.LowStockThreshold,
			ChangedAt:    time.Now(),
		}
		if err := s.recorder.Record(ctx, change); err != nil {
			// Recording is an audit concern; failure does not fail the edit
			s.logger.Error("failed to record threshold change", zap.Error(err))
		}
	}

	return s.alerts.ListAlerts(ctx)
}

// ListChanges returns the recorded threshold edits, newest first
func (s *ThresholdService) ListChanges(ctx context.Context, filter ThresholdChangeListFilter) ([]ThresholdChangeResponse, int64, error) {
	if s.recorder == nil {
		return []ThresholdChangeResponse{}, 0, nil
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	changes, total, err := s.recorder.List(ctx, filter.ProductID, filter.Page, filter.PageSize)
	if err != nil {
		return nil, 0, err
	}

	resp := make([]ThresholdChangeResponse, 0, len(changes))
	for _, c := range changes {
		resp = append(resp, ThresholdChangeResponse{
			ID:           c.ID,
			ProductID:    c.ProductID,
			SKU:          c.SKU,
			OldThreshold: c.OldThreshold,
			NewThreshold: c.NewThreshold,
			ChangedAt:    c.ChangedAt,
		})
	}
	return resp, total, nil
}
