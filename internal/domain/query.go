package domain

import (
	"fmt"

	"github.com/shoplocal/mechfinder/internal/domain/geo"
)

// Radius limits in meters. The provider API takes meters; the directory RPC
// takes kilometers and the conversion happens at that boundary.
const (
	DefaultRadiusMeters = 25_000
	MaxRadiusMeters     = 50_000
)

// CategoryAll is the sentinel slug meaning "no category filter".
const CategoryAll = "all"

// Query is a validated nearby-search request.
type Query struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters int
	CategorySlug string
}

// QueryLimits bounds the radius of constructed queries. Zero-valued fields
// fall back to the package defaults, so the zero value is usable.
type QueryLimits struct {
	DefaultRadiusMeters int
	MaxRadiusMeters     int
}

// NewQuery builds a Query, applying the limits' default radius when
// radiusMeters <= 0 and capping it at the limits' maximum.
func (l QueryLimits) NewQuery(lat, lng float64, radiusMeters int, categorySlug string) (Query, error) {
	if !geo.ValidateCoordinates(lat, lng) {
		return Query{}, fmt.Errorf("%w: coordinates (%f, %f) out of range", ErrInvalidQuery, lat, lng)
	}
	def := l.DefaultRadiusMeters
	if def <= 0 {
		def = DefaultRadiusMeters
	}
	max := l.MaxRadiusMeters
	if max <= 0 {
		max = MaxRadiusMeters
	}
	if radiusMeters <= 0 {
		radiusMeters = def
	}
	if radiusMeters > max {
		radiusMeters = max
	}
	return Query{
		Latitude:     lat,
		Longitude:    lng,
		RadiusMeters: radiusMeters,
		CategorySlug: categorySlug,
	}, nil
}

// NewQuery builds a Query with the default radius limits.
func NewQuery(lat, lng float64, radiusMeters int, categorySlug string) (Query, error) {
	return QueryLimits{}.NewQuery(lat, lng, radiusMeters, categorySlug)
}

// RadiusKm returns the search radius in kilometers.
func (q Query) RadiusKm() float64 {
	return float64(q.RadiusMeters) / 1000
}

// Filtered reports whether a real category filter was requested.
func (q Query) Filtered() bool {
	return q.CategorySlug != "" && q.CategorySlug != CategoryAll
}
