package alert

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stockwatch/backend/internal/domain/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeProduct(name string, quantity, threshold int) catalog.Product {
	return catalog.Product{
		ID:                uuid.New(),
		Name:              name,
		SKU:               "SKU-" + name,
		Quantity:          quantity,
		LowStockThreshold: threshold,
		UpdatedAt:         time.Now(),
	}
}

func TestBuildAlerts_FiltersNormal(t *testing.T) {
	products := []catalog.Product{
		makeProduct("A", 0, 10),  // critical, out of stock
		makeProduct("B", 20, 10), // normal, excluded
		makeProduct("C", 5, 10),  // critical
	}

	alerts := BuildAlerts(products)

	require.Len(t, alerts, 2)
	assert.Equal(t, products[0].ID, alerts[0].ProductID)
	assert.Equal(t, KindOutOfStock, alerts[0].Kind)
	assert.Equal(t, products[2].ID, alerts[1].ProductID)
	assert.Equal(t, KindCriticalStock, alerts[1].Kind)
	for _, a := range alerts {
		assert.NotEqual(t, SeverityNormal, a.Severity)
	}
}

func TestBuildAlerts_StableSeveritySort(t *testing.T) {
	// critical entries keep their relative input order, followed by warning
	// entries in their relative input order
	a := makeProduct("A", 3, 10)  // critical
	b := makeProduct("B", 12, 10) // warning
	c := makeProduct("C", 0, 10)  // critical
	d := makeProduct("D", 14, 10) // warning

	alerts := BuildAlerts([]catalog.Product{a, b, c, d})

	require.Len(t, alerts, 4)
	assert.Equal(t, []uuid.UUID{a.ID, c.ID, b.ID, d.ID}, []uuid.UUID{
		alerts[0].ProductID, alerts[1].ProductID, alerts[2].ProductID, alerts[3].ProductID,
	})
	assert.Equal(t, SeverityCritical, alerts[0].Severity)
	assert.Equal(t, SeverityCritical, alerts[1].Severity)
	assert.Equal(t, SeverityWarning, alerts[2].Severity)
	assert.Equal(t, SeverityWarning, alerts[3].Severity)
}

func TestBuildAlerts_CopiesProductState(t *testing.T) {
	p := makeProduct("A", 4, 9)

	alerts := BuildAlerts([]catalog.Product{p})

	require.Len(t, alerts, 1)
	assert.Equal(t, p.Quantity, alerts[0].CurrentStock)
	assert.Equal(t, p.LowStockThreshold, alerts[0].Threshold)
	assert.Equal(t, p.Name, alerts[0].ProductName)
	assert.Equal(t, p.SKU, alerts[0].SKU)
	assert.Equal(t, p.UpdatedAt, alerts[0].LastUpdated)
}

func TestBuildAlerts_EmptySnapshot(t *testing.T) {
	alerts := BuildAlerts(nil)
	assert.Empty(t, alerts)
	assert.Equal(t, Summary{}, Summarize(alerts))
}

func TestSummarize_CountConsistency(t *testing.T) {
	products := []catalog.Product{
		makeProduct("A", 0, 10),
		makeProduct("B", 12, 10),
		makeProduct("C", 7, 10),
		makeProduct("D", 15, 10),
		makeProduct("E", 100, 10),
	}

	alerts := BuildAlerts(products)
	s := Summarize(alerts)

	assert.Equal(t, 2, s.CriticalCount)
	assert.Equal(t, 2, s.WarningCount)
	assert.Equal(t, s.CriticalCount+s.WarningCount, s.TotalCount)
	assert.Equal(t, len(alerts), s.TotalCount)
}
