// Package directory calls the first-party business directory over its
// PostgREST-style HTTP surface. Spatial filtering and per-row distance
// computation happen server-side; this client only normalizes row shapes.
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/shoplocal/mechfinder/internal/domain"
)

const (
	nearbyRPCPath  = "/rest/v1/rpc/get_nearby_mechanics_public"
	categoriesPath = "/rest/v1/service_categories"
)

// Config holds directory connection settings.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Logger  *zap.Logger
}

// Client is the directory RPC client.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *zap.Logger
}

// New creates a directory client.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// nearbyParams is the RPC argument shape. CategorySlug is omitted when no
// filter is requested so the unfiltered RPC variant is used.
type nearbyParams struct {
	UserLat      float64 `json:"user_lat"`
	UserLng      float64 `json:"user_lng"`
	RadiusKm     float64 `json:"radius_km"`
	CategorySlug string  `json:"category_slug,omitempty"`
}

// SearchNearby invokes the directory's nearby query and normalizes the rows.
// Remote errors are surfaced as-is; no retry, no fabricated rows.
func (c *Client) SearchNearby(ctx context.Context, q domain.Query) ([]domain.Mechanic, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("directory base URL missing: %w", domain.ErrNotConfigured)
	}

	params := nearbyParams{
		UserLat:  q.Latitude,
		UserLng:  q.Longitude,
		RadiusKm: q.RadiusKm(),
	}
	if q.Filtered() {
		params.CategorySlug = q.CategorySlug
	}

	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("marshal rpc params: %w", err)
	}

	var rows []mechanicRow
	if err := c.post(ctx, c.baseURL+nearbyRPCPath, body, &rows); err != nil {
		return nil, err
	}

	mechanics := make([]domain.Mechanic, 0, len(rows))
	for _, row := range rows {
		mechanics = append(mechanics, row.toMechanic())
	}

	c.logger.Debug("directory search completed",
		zap.Int("rows", len(mechanics)),
		zap.Float64("radius_km", q.RadiusKm()),
	)
	return mechanics, nil
}

// ListCategories reads the active service category taxonomy ordered by its
// sort key.
func (c *Client) ListCategories(ctx context.Context) ([]domain.ServiceCategory, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("directory base URL missing: %w", domain.ErrNotConfigured)
	}

	url := c.baseURL + categoriesPath + "?is_active=eq.true&order=sort_order.asc"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	c.setHeaders(req)

	var rows []categoryRow
	if err := c.send(req, &rows); err != nil {
		return nil, err
	}

	categories := make([]domain.ServiceCategory, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, row.toCategory())
	}
	return categories, nil
}

// HealthCheck reports whether the client is configured to reach the
// directory. No network I/O is performed.
func (c *Client) HealthCheck(_ context.Context) error {
	if c.baseURL == "" {
		return fmt.Errorf("directory base URL missing: %w", domain.ErrNotConfigured)
	}
	return nil
}

func (c *Client) post(ctx context.Context, url string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setHeaders(req)
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("directory request: %v: %w", err, domain.ErrTransport)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("directory status %d: %s: %w", resp.StatusCode, snippet, domain.ErrTransport)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode directory response: %v: %w", err, domain.ErrMalformedResponse)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Accept", "application/json")
}
