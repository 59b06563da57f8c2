// Package mechfinder provides an embedded Go client for nearby-mechanic
// aggregation: the same fan-out pipeline the HTTP server runs, wired
// in-process without the transport layer.
//
//	client, _ := mechfinder.New(
//	    mechfinder.WithDirectory("https://db.example.com", apiKey),
//	    mechfinder.WithPlacesAPIKey(placesKey),
//	)
//	result, _ := client.SearchNearby(ctx, 49.28, -123.12,
//	    mechfinder.WithRadius(10_000),
//	    mechfinder.WithCategory("brakes"),
//	)
package mechfinder

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/shoplocal/mechfinder/internal/domain"
	directoryrepo "github.com/shoplocal/mechfinder/internal/repository/directory"
	placesrepo "github.com/shoplocal/mechfinder/internal/repository/places"
	categoryuc "github.com/shoplocal/mechfinder/internal/usecase/category"
	searchuc "github.com/shoplocal/mechfinder/internal/usecase/search"
)

// Client is the mechfinder SDK entry point.
type Client struct {
	searchSvc   *searchuc.Service
	categorySvc *categoryuc.Service
}

// New creates a mechfinder Client. A directory base URL is required; the
// place provider degrades gracefully when no API key is given.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{logger: zap.NewNop()}
	for _, o := range opts {
		o(cfg)
	}

	if cfg.directoryURL == "" {
		return nil, fmt.Errorf("directory base URL is required: %w", domain.ErrNotConfigured)
	}

	directory := directoryrepo.New(directoryrepo.Config{
		BaseURL: cfg.directoryURL,
		APIKey:  cfg.directoryKey,
		Timeout: cfg.timeout,
		Logger:  cfg.logger,
	})

	places := placesrepo.New(placesrepo.Config{
		APIKey:            cfg.placesKey,
		BaseURL:           cfg.placesURL,
		Timeout:           cfg.timeout,
		RequestsPerSecond: cfg.placesRPS,
		Burst:             cfg.placesBurst,
		Chains:            placesrepo.NewChainFilter(cfg.chainDenylist),
		Logger:            cfg.logger,
	})

	return &Client{
		searchSvc:   searchuc.New(directory, places, cfg.logger),
		categorySvc: categoryuc.New(directory),
	}, nil
}

// SearchOption narrows a single search call.
type SearchOption func(*searchParams)

type searchParams struct {
	radiusMeters int
	category     string
}

// WithRadius sets the search radius in meters. Values above the maximum are
// capped; zero or negative values fall back to the default.
func WithRadius(meters int) SearchOption {
	return func(p *searchParams) { p.radiusMeters = meters }
}

// WithCategory filters results to one service category slug.
func WithCategory(slug string) SearchOption {
	return func(p *searchParams) { p.category = slug }
}

// SearchNearby runs one aggregated nearby search around the given point.
// A one-sided upstream failure yields a degraded result, not an error.
func (c *Client) SearchNearby(
	ctx context.Context, lat, lng float64, opts ...SearchOption,
) (searchuc.Result, error) {
	var p searchParams
	for _, o := range opts {
		o(&p)
	}

	q, err := domain.NewQuery(lat, lng, p.radiusMeters, p.category)
	if err != nil {
		return searchuc.Result{}, fmt.Errorf("build query: %w", err)
	}

	result, err := c.searchSvc.Search(ctx, q)
	if err != nil {
		return searchuc.Result{}, fmt.Errorf("search nearby: %w", err)
	}
	return result, nil
}

// Categories returns the active service category taxonomy.
func (c *Client) Categories(ctx context.Context) ([]domain.ServiceCategory, error) {
	cats, err := c.categorySvc.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}
