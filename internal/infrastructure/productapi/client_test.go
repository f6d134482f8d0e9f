package productapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockwatch/backend/internal/domain/catalog"
	"github.com/stockwatch/backend/internal/domain/shared"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(&Config{BaseURL: server.URL, TimeoutSeconds: 5})
	require.NoError(t, err)
	return client
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"valid", Config{BaseURL: "http://localhost:3001", TimeoutSeconds: 10}, false},
		{"missing base URL", Config{TimeoutSeconds: 10}, true},
		{"relative base URL", Config{BaseURL: "/products", TimeoutSeconds: 10}, true},
		{"zero timeout", Config{BaseURL: "http://localhost:3001"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFindAll(t *testing.T) {
	id1 := uuid.New()
	id2 := uuid.New()
	threshold := 5
	updatedAt := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/products", r.URL.Path)
		json.NewEncoder(w).Encode([]productPayload{
			{ID: id1.String(), Name: "Widget", SKU: "W-1", Quantity: 3, LowStockThreshold: &threshold, UpdatedAt: updatedAt},
			{ID: id2.String(), Name: "Gadget", SKU: "G-1", Quantity: 50, UpdatedAt: updatedAt},
		})
	}))

	products, err := client.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, id1, products[0].ID)
	assert.Equal(t, 5, products[0].LowStockThreshold)
	// Missing threshold falls back to the catalog default.
	assert.Equal(t, catalog.DefaultLowStockThreshold, products[1].LowStockThreshold)
	assert.True(t, products[0].UpdatedAt.Equal(updatedAt))
}

func TestFindAll_ServerError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.FindAll(context.Background())
	assert.ErrorIs(t, err, shared.ErrRepositoryUnavailable)
}

func TestFindAll_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close() // nothing listening anymore

	client, err := NewClient(&Config{BaseURL: server.URL, TimeoutSeconds: 1})
	require.NoError(t, err)

	_, err = client.FindAll(context.Background())
	assert.ErrorIs(t, err, shared.ErrRepositoryUnavailable)
}

func TestFindAll_MalformedBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))

	_, err := client.FindAll(context.Background())
	assert.ErrorIs(t, err, shared.ErrRepositoryUnavailable)
}

func TestFindByID(t *testing.T) {
	id := uuid.New()
	threshold := 10

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products/"+id.String(), r.URL.Path)
		json.NewEncoder(w).Encode(productPayload{
			ID: id.String(), Name: "Widget", SKU: "W-1", Quantity: 8,
			LowStockThreshold: &threshold, UpdatedAt: time.Now().UTC(),
		})
	}))

	product, err := client.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, product.ID)
	assert.Equal(t, 8, product.Quantity)
}

func TestFindByID_NotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestUpdateThreshold(t *testing.T) {
	id := uuid.New()
	oldThreshold := 10
	updatedAt := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

	var putBody productPayload
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(productPayload{
				ID: id.String(), Name: "Widget", SKU: "W-1", Quantity: 8,
				LowStockThreshold: &oldThreshold, Category: "tools", UpdatedAt: updatedAt,
			})
		case http.MethodPut:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&putBody))
			putBody.UpdatedAt = time.Now().UTC()
			json.NewEncoder(w).Encode(putBody)
		}
	}))

	saved, err := client.UpdateThreshold(context.Background(), id, 7, updatedAt)
	require.NoError(t, err)

	// Only the threshold changed in the written record.
	require.NotNil(t, putBody.LowStockThreshold)
	assert.Equal(t, 7, *putBody.LowStockThreshold)
	assert.Equal(t, "Widget", putBody.Name)
	assert.Equal(t, "tools", putBody.Category)
	assert.Equal(t, 8, putBody.Quantity)

	assert.Equal(t, 7, saved.LowStockThreshold)
}

func TestUpdateThreshold_ConflictOnDrift(t *testing.T) {
	id := uuid.New()
	threshold := 10
	serverUpdatedAt := time.Date(2026, 8, 21, 9, 0, 0, 0, time.UTC)

	putCalled := false
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			putCalled = true
		}
		json.NewEncoder(w).Encode(productPayload{
			ID: id.String(), Name: "Widget", SKU: "W-1", Quantity: 8,
			LowStockThreshold: &threshold, UpdatedAt: serverUpdatedAt,
		})
	}))

	staleRead := serverUpdatedAt.Add(-time.Hour)
	_, err := client.UpdateThreshold(context.Background(), id, 7, staleRead)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	assert.False(t, putCalled, "edit must abort before writing")
}

func TestAPIKeyHeader(t *testing.T) {
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		json.NewEncoder(w).Encode([]productPayload{})
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(&Config{BaseURL: server.URL, TimeoutSeconds: 5, APIKey: "secret"})
	require.NoError(t, err)

	_, err = client.FindAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "secret", gotKey)
}
