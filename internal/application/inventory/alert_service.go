package inventory

import (
	"context"

	"github.com/stockwatch/backend/internal/domain/alert"
	"github.com/stockwatch/backend/internal/domain/catalog"
	"go.uber.org/zap"
)

// AlertService builds the stock-alert view from the external product
// repository. It holds no state of its own: every call reads a fresh product
// snapshot and recomputes the alert list from scratch.
type AlertService struct {
	products catalog.ProductRepository
	logger   *zap.Logger
}

// NewAlertService creates a new AlertService
func NewAlertService(products catalog.ProductRepository, logger *zap.Logger) *AlertService {
	return &AlertService{
		products: products,
		logger:   logger,
	}
}

// ListAlerts reads the current product set and returns the sorted alert list
// with its summary counters. Repository failures are returned to the caller
// unretried; the caller decides how to surface the retry affordance.
func (s *AlertService) ListAlerts(ctx context.Context) (*AlertListResponse, error) {
	products, err := s.products.FindAll(ctx)
	if err != nil {
		s.logger.Warn("failed to load product snapshot for alerts", zap.Error(err))
		return nil, err
	}

	alerts := alert.BuildAlerts(products)
	resp := toAlertListResponse(alerts)

	if resp.Summary.CriticalCount > 0 {
		s.logger.Info("critical stock alerts present",
			zap.Int("critical", resp.Summary.CriticalCount),
			zap.Int("warning", resp.Summary.WarningCount),
		)
	}

	return resp, nil
}

// Summary returns only the alert counters, derived from the same fresh
// aggregation as ListAlerts
func (s *AlertService) Summary(ctx context.Context) (*AlertSummaryResponse, error) {
	resp, err := s.ListAlerts(ctx)
	if err != nil {
		return nil, err
	}
	return &resp.Summary, nil
}
