package productapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/stockwatch/backend/internal/domain/catalog"
	"github.com/stockwatch/backend/internal/domain/shared"
)

// maxResponseSize is the maximum allowed response size from the product API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// Config holds the connection settings for the product API
type Config struct {
	BaseURL        string
	TimeoutSeconds int
	APIKey         string
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("productapi: base URL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("productapi: base URL %q is not a valid absolute URL", c.BaseURL)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("productapi: timeout must be positive")
	}
	return nil
}

// Client talks to the external product service. It is the only
// implementation of catalog.ProductRepository; product records are
// owned by that service and never stored locally.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// NewClient creates a product API client with the given configuration
func NewClient(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// productPayload is the wire representation of a product record.
// lowStockThreshold is a pointer because the upstream service omits it
// for products that never had a threshold configured.
type productPayload struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	SKU               string    `json:"sku"`
	Quantity          int       `json:"quantity"`
	LowStockThreshold *int      `json:"lowStockThreshold,omitempty"`
	Category          string    `json:"category,omitempty"`
	ImageURL          string    `json:"imageUrl,omitempty"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func (p *productPayload) toDomain() (catalog.Product, error) {
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return catalog.Product{}, fmt.Errorf("productapi: invalid product id %q: %w", p.ID, err)
	}

	threshold := catalog.DefaultLowStockThreshold
	if p.LowStockThreshold != nil {
		threshold = *p.LowStockThreshold
	}

	return catalog.Product{
		ID:                id,
		Name:              p.Name,
		SKU:               p.SKU,
		Quantity:          p.Quantity,
		LowStockThreshold: threshold,
		Category:          p.Category,
		ImageURL:          p.ImageURL,
		UpdatedAt:         p.UpdatedAt,
	}, nil
}

func payloadFromDomain(p *catalog.Product) productPayload {
	threshold := p.LowStockThreshold
	return productPayload{
		ID:                p.ID.String(),
		Name:              p.Name,
		SKU:               p.SKU,
		Quantity:          p.Quantity,
		LowStockThreshold: &threshold,
		Category:          p.Category,
		ImageURL:          p.ImageURL,
		UpdatedAt:         p.UpdatedAt,
	}
}

// FindAll retrieves the full product snapshot from GET /products
func (c *Client) FindAll(ctx context.Context) ([]catalog.Product, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/products", nil)
	if err != nil {
		return nil, err
	}

	var payloads []productPayload
	if err := json.Unmarshal(body, &payloads); err != nil {
		return nil, fmt.Errorf("%w: malformed product list: %v", shared.ErrRepositoryUnavailable, err)
	}

	products := make([]catalog.Product, 0, len(payloads))
	for i := range payloads {
		product, err := payloads[i].toDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrRepositoryUnavailable, err)
		}
		products = append(products, product)
	}
	return products, nil
}

// FindByID retrieves a single product from GET /products/{id}
func (c *Client) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/products/"+id.String(), nil)
	if err != nil {
		return nil, err
	}

	var payload productPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: malformed product: %v", shared.ErrRepositoryUnavailable, err)
	}

	product, err := payload.toDomain()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrRepositoryUnavailable, err)
	}
	return &product, nil
}

// UpdateThreshold writes a new low-stock threshold for the product.
// The API only offers full-record PUT, so the client re-reads the
// record, verifies it has not changed since the caller read it, and
// writes it back with only the threshold field modified. A drift in
// updatedAt between the caller's read and this write aborts the edit
// with shared.ErrConcurrencyConflict.
func (c *Client) UpdateThreshold(ctx context.Context, id uuid.UUID, threshold int, expectedUpdatedAt time.Time) (*catalog.Product, error) {
	current, err := c.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !current.UpdatedAt.Equal(expectedUpdatedAt) {
		return nil, fmt.Errorf("%w: product %s changed at %s, expected %s",
			shared.ErrConcurrencyConflict, id,
			current.UpdatedAt.Format(time.RFC3339), expectedUpdatedAt.Format(time.RFC3339))
	}

	updated := *current
	updated.LowStockThreshold = threshold

	reqBody, err := json.Marshal(payloadFromDomain(&updated))
	if err != nil {
		return nil, fmt.Errorf("productapi: failed to encode product: %w", err)
	}

	body, err := c.doRequest(ctx, http.MethodPut, "/products/"+id.String(), reqBody)
	if err != nil {
		return nil, err
	}

	var payload productPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: malformed product: %v", shared.ErrRepositoryUnavailable, err)
	}

	saved, err := payload.toDomain()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrRepositoryUnavailable, err)
	}
	return &saved, nil
}

// doRequest performs an HTTP request against the product API and
// returns the response body. Errors are mapped onto the shared
// sentinels so callers never see transport details.
func (c *Client) doRequest(ctx context.Context, method, path string, reqBody []byte) ([]byte, error) {
	var bodyReader io.Reader
	if reqBody != nil {
		bodyReader = bytes.NewReader(reqBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("productapi: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.config.APIKey != "" {
		req.Header.Set("X-API-Key", c.config.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrRepositoryUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrRepositoryUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", shared.ErrNotFound, path)
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: HTTP %d from %s", shared.ErrRepositoryUnavailable, resp.StatusCode, path)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("productapi: HTTP %d from %s", resp.StatusCode, path)
	}

	return body, nil
}

// Ensure Client implements the repository interface
var _ catalog.ProductRepository = (*Client)(nil)
