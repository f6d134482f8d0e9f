package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/stockwatch/backend/internal/domain/alert"
)

// StockAlertResponse represents one stock alert in API responses
type StockAlertResponse struct {
	ProductID    uuid.UUID      `json:"product_id"`
	ProductName  string         `json:"product_name"`
	SKU          string         `json:"sku"`
	CurrentStock int            `json:"current_stock"`
	Threshold    int            `json:"threshold"`
	Severity     alert.Severity `json:"severity"`
	Kind         alert.Kind     `json:"kind"`
	LastUpdated  time.Time      `json:"last_updated"`
}

// AlertSummaryResponse represents the alert counters
type AlertSummaryResponse struct {
	CriticalCount int `json:"critical_count"`
	WarningCount  int `json:"warning_count"`
	TotalCount    int `json:"total_count"`
}

/// AlertListResponse represents a full alert listing: the sorted alert list
// plus the counters derived from it
type AlertListResponse struct {
	Alerts  []StockAlertResponse `json:"alerts"`
	Summary AlertSummaryResponse `json:"summary"`
}

// SetThresholdRequest represents a request to change one product's low-stock
// threshold. Non-numeric request bodies are rejected by binding before they
// reach the service.
type SetThresholdRequest struct {
	Threshold *int `json:"threshold" binding:"required,threshold"`
}

// ThresholdChangeResponse represents one recorded threshold edit
type ThresholdChangeResponse struct {
	ID           uuid.UUID `json:"id"`
	ProductID    uuid.UUID `json:"product_id"`
	SKU          string    `json:"sku"`
	OldThreshold int       `json:"old_threshold"`
	NewThreshold int       `json:"new_threshold"`
	ChangedAt    time.Time `json:"changed_at"`
}

// ThresholdChangeListFilter represents filter options for the audit listing
type ThresholdChangeListFilter struct {
	ProductID *uuid.UUID
	Page      int
	PageSize  int
}

// toAlertListResponse converts a built alert list to its response shape
func toAlertListResponse(alerts []alert.StockAlert) *AlertListResponse {
	s := alert.Summarize(alerts)
	resp := &AlertListResponse{
		Alerts: make([]StockAlertResponse, 0, len(alerts)),
		Summary: AlertSummaryResponse{
			CriticalCount: s.CriticalCount,
			WarningCount:  s.WarningCount,
			TotalCount:    s.TotalCount,
		},
	}
	for _, a := range alerts {
		resp.Alerts = append(resp.Alerts, StockAlertResponse{
			ProductID:    a.ProductID,
			ProductName:  a.ProductName,
			SKU:          a.SKU,
			CurrentStock: a.CurrentStock,
			Threshold:    a.Threshold,
			Severity:     a.Severity,
			Kind:         a.Kind,
			LastUpdated:  a.LastUpdated,
		})
	}
	return resp
}
