package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockwatch/backend/internal/application/inventory"
	"github.com/stockwatch/backend/internal/infrastructure/config"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(&config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         "file::memory:?cache=shared",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { db.Close() })
	return db
}

func makeChange(productID uuid.UUID, oldTh, newTh int, changedAt time.Time) *inventory.ThresholdChange {
	return &inventory.ThresholdChange{
		ID:           uuid.New(),
		ProductID:    productID,
		SKU:          "SKU-1",
		OldThreshold: oldTh,
		NewThreshold: newTh,
		ChangedAt:    changedAt,
	}
}

func TestRecordAndList(t *testing.T) {
	repo := NewGormThresholdChangeRepository(newTestDatabase(t))
	ctx := context.Background()

	productID := uuid.New()
	base := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Record(ctx, makeChange(productID, 10, 8, base)))
	require.NoError(t, repo.Record(ctx, makeChange(productID, 8, 5, base.Add(time.Minute))))
	require.NoError(t, repo.Record(ctx, makeChange(uuid.New(), 10, 20, base.Add(2*time.Minute))))

	t.Run("lists newest first", func(t *testing.T) {
		changes, total, err := repo.List(ctx, nil, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, changes, 3)
		assert.Equal(t, 20, changes[0].NewThreshold)
		assert.Equal(t, 5, changes[1].NewThreshold)
		assert.Equal(t, 8, changes[2].NewThreshold)
	})

	t.Run("filters by product", func(t *testing.T) {
		changes, total, err := repo.List(ctx, &productID, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, changes, 2)
		for _, c := range changes {
			assert.Equal(t, productID, c.ProductID)
		}
	})

	t.Run("paginates", func(t *testing.T) {
		changes, total, err := repo.List(ctx, nil, 2, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, changes, 1)
		assert.Equal(t, 8, changes[0].NewThreshold)
	})
}

func TestList_Empty(t *testing.T) {
	repo := NewGormThresholdChangeRepository(newTestDatabase(t))

	changes, total, err := repo.List(context.Background(), nil, 1, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, changes)
}
