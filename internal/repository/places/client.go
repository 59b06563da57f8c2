// Package places calls the Google Places API (New) text search endpoint and
// normalizes raw place records into the unified mechanic shape. The provider
// returns no pre-computed distance, so it is computed client-side.
package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/shoplocal/mechfinder/internal/domain"
	"github.com/shoplocal/mechfinder/internal/domain/geo"
	"github.com/shoplocal/mechfinder/internal/metrics"
)

const searchTextPath = "/v1/places:searchText"

// fieldMask limits the response to the fields the normalizer consumes.
// Billing is per-field; keep this in sync with the place boundary type.
const fieldMask = "places.id,places.displayName,places.formattedAddress," +
	"places.location,places.rating,places.userRatingCount,places.types," +
	"places.websiteUri,places.nationalPhoneNumber,places.businessStatus," +
	"places.photos,places.reviews"

var includedTypes = []string{"car_repair", "auto_repair", "car_service", "car_parts"}

const textQuery = "auto repair mechanic shop"

// Config holds Google Places connection settings.
type Config struct {
	APIKey            string
	BaseURL           string // default https://places.googleapis.com
	MaxResults        int    // capped at 20 by the API
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	Chains            *ChainFilter
	Logger            *zap.Logger
}

// Client is the place-provider search client.
type Client struct {
	apiKey     string
	baseURL    string
	maxResults int
	http       *http.Client
	limiter    *rate.Limiter
	chains     *ChainFilter
	logger     *zap.Logger
}

// New creates a places client.
func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://places.googleapis.com"
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 || maxResults > 20 {
		maxResults = 20
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 10
	}
	chains := cfg.Chains
	if chains == nil {
		chains = NewChainFilter(nil)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		maxResults: maxResults,
		http:       &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		chains:     chains,
		logger:     logger,
	}
}

// SearchNearby issues one text search against the provider, drops chain
// stores, and normalizes the remainder. A failed or unparseable call yields
// an error and no records; it never returns a partially malformed list.
func (c *Client) SearchNearby(ctx context.Context, q domain.Query) ([]domain.Mechanic, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("places API key missing: %w", domain.ErrNotConfigured)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("places rate limit wait: %w", err)
	}

	body, err := json.Marshal(searchRequest{
		IncludedTypes:  includedTypes,
		TextQuery:      textQuery,
		MaxResultCount: c.maxResults,
		LocationRestriction: locationRestriction{
			Circle: circle{
				Center: latLng{Latitude: q.Latitude, Longitude: q.Longitude},
				Radius: float64(q.RadiusMeters),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+searchTextPath, bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places request: %v: %w", err, domain.ErrTransport)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("places status %d: %s: %w", resp.StatusCode, snippet, domain.ErrTransport)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode places response: %v: %w", err, domain.ErrMalformedResponse)
	}

	mechanics := make([]domain.Mechanic, 0, len(parsed.Places))
	excluded := 0
	for _, p := range parsed.Places {
		if err := p.validate(); err != nil {
			return nil, fmt.Errorf("place record: %v: %w", err, domain.ErrMalformedResponse)
		}
		if c.chains.Excluded(p.DisplayName.Text) {
			excluded++
			continue
		}
		mechanics = append(mechanics, p.toMechanic(q.Latitude, q.Longitude))
	}

	if excluded > 0 {
		metrics.ChainExclusionsTotal.Add(float64(excluded))
	}
	c.logger.Debug("places search completed",
		zap.Int("places", len(parsed.Places)),
		zap.Int("chain_excluded", excluded),
	)
	return mechanics, nil
}

// HealthCheck reports whether the client holds the credentials it needs.
// No network I/O: provider quota is too precious for readiness probes.
func (c *Client) HealthCheck(_ context.Context) error {
	if c.apiKey == "" {
		return fmt.Errorf("places API key missing: %w", domain.ErrNotConfigured)
	}
	return nil
}

func (p place) toMechanic(centerLat, centerLng float64) domain.Mechanic {
	name := p.DisplayName.Text

	address := p.FormattedAddress
	if address == "" {
		address = domain.PlaceholderAddress
	}

	phone := domain.PlaceholderPhone
	if p.NationalPhoneNumber != "" {
		phone = p.NationalPhoneNumber
	}

	description := domain.PlaceholderDescription

	photos := make([]string, 0, len(p.Photos))
	for _, ph := range p.Photos {
		photos = append(photos, ph.Name)
	}

	reviews := make([]domain.Review, 0, len(p.Reviews))
	for _, rv := range p.Reviews {
		reviews = append(reviews, domain.Review{
			Author:      rv.AuthorAttribution.DisplayName,
			Rating:      rv.Rating,
			Text:        rv.Text.Text,
			PublishTime: rv.PublishTime,
		})
	}

	return domain.Mechanic{
		ID:                   domain.GooglePlaceIDPrefix + p.ID,
		Name:                 name,
		ShopName:             name,
		Address:              address,
		Phone:                phone,
		Latitude:             p.Location.Latitude,
		Longitude:            p.Location.Longitude,
		Rating:               p.Rating,
		TotalReviews:         p.UserRatingCount,
		Description:          description,
		Specialties:          []string{domain.GeneralRepairName},
		DistanceKm:           geo.DistanceKm(centerLat, centerLng, p.Location.Latitude, p.Location.Longitude),
		Source:               domain.SourceGooglePlaces,
		WebsiteURL:           p.WebsiteURI,
		GooglePlaceID:        p.ID,
		BusinessStatus:       p.BusinessStatus,
		FormattedPhoneNumber: p.NationalPhoneNumber,
		Photos:               photos,
		Reviews:              reviews,
		ServiceCategories:    []domain.ServiceCategory{domain.GeneralRepairCategory()},
	}
}
