package alert

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/stockwatch/backend/internal/domain/catalog"
)

// StockAlert is a point-in-time classification of one product's stock state.
// It has no lifecycle of its own: it is rebuilt from the product snapshot on
// every aggregation call and never persisted.
type StockAlert struct {
	ProductID    uuid.UUID
	ProductName  string
	SKU          string
	CurrentStock int
	Threshold    int
	Severity     Severity
	Kind         Kind
	LastUpdated  time.Time
}

// Summary holds the alert counters derived from a built alert list
type Summary struct {
	CriticalCount int
	WarningCount  int
	TotalCount    int
}

// BuildAlerts classifies every product in the snapshot, drops normal results
// and returns the rest sorted critical-first. The sort is stable: alerts of
// the same severity keep their input order (there is no secondary sort key).
func BuildAlerts(products []catalog.Product) []StockAlert {
	alerts := make([]StockAlert, 0, len(products))
	for _, p := range products {
		c := Classify(p.Quantity, p.LowStockThreshold)
		if c.Severity == SeverityNormal {
			continue
		}
		alerts = append(alerts, StockAlert{
			ProductID:    p.ID,
			ProductName:  p.Name,
			SKU:          p.SKU,
			CurrentStock: p.Quantity,
			Threshold:    p.LowStockThreshold,
			Severity:     c.Severity,
			Kind:         c.Kind,
			LastUpdated:  p.UpdatedAt,
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return severityRank(alerts[i].Severity) < severityRank(alerts[j].Severity)
	})

	return alerts
}

// Summarize derives the counters from an already-built alert list. The list is
// the single source of truth, so TotalCount always equals its length.
func Summarize(alerts []StockAlert) Summary {
	s := Summary{}
	for _, a := range alerts {
		switch a.Severity {
		case SeverityCritical:
			s.CriticalCount++
		case SeverityWarning:
			s.WarningCount++
		}
	}
	s.TotalCount = s.CriticalCount + s.WarningCount
	return s
}
