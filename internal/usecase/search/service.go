// Package search aggregates nearby-mechanic results from the first-party
// directory and the external place provider into one ranked list.
package search

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/shoplocal/mechfinder/internal/domain"
	"github.com/shoplocal/mechfinder/internal/metrics"
)

// SourceStatus reports whether a source contributed to a result.
type SourceStatus string

const (
	// SourceOK means the source returned results (possibly zero).
	SourceOK SourceStatus = "ok"
	// SourceFailed means the source errored and contributed nothing.
	SourceFailed SourceStatus = "failed"
)

// Result is one aggregated search response. Degraded is true when a source
// failed but the other still contributed; an empty Mechanics list with both
// sources ok is a valid "no results" outcome, not a failure.
type Result struct {
	Mechanics []domain.Mechanic
	Sources   map[domain.Source]SourceStatus
	Degraded  bool
}

// Service merges directory and place-provider results.
type Service struct {
	directory DirectorySearcher
	places    PlaceSearcher
	logger    *zap.Logger
}

// New creates a search service.
func New(directory DirectorySearcher, places PlaceSearcher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{directory: directory, places: places, logger: logger}
}

// outcome carries one source's response across the fan-out barrier.
type outcome struct {
	source    domain.Source
	mechanics []domain.Mechanic
	err       error
}

// Search fans out to both sources concurrently, joins the results, filters
// provider records by category when requested, and sorts by distance.
// A one-sided failure degrades the result; only a total failure is an error.
func (s *Service) Search(ctx context.Context, q domain.Query) (Result, error) {
	results := make(chan outcome, 2)

	go s.query(ctx, domain.SourceDirectory, q, results, s.directory.SearchNearby)
	go s.query(ctx, domain.SourceGooglePlaces, q, results, s.places.SearchNearby)

	var directory, provider outcome
	for i := 0; i < 2; i++ {
		o := <-results
		if o.source == domain.SourceDirectory {
			directory = o
		} else {
			provider = o
		}
	}

	if directory.err != nil && provider.err != nil {
		return Result{}, fmt.Errorf("%w: directory: %v; %s: %v",
			domain.ErrAllSourcesFailed, directory.err, domain.SourceGooglePlaces, provider.err)
	}

	// The provider cannot filter by category server-side; apply it here.
	providerMechanics := provider.mechanics
	if q.Filtered() {
		providerMechanics = filterByCategory(providerMechanics, q.CategorySlug)
	}

	merged := make([]domain.Mechanic, 0, len(providerMechanics)+len(directory.mechanics))
	merged = append(merged, providerMechanics...)
	merged = append(merged, directory.mechanics...)

	// Stable: ties keep provider-before-directory arrival order.
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].DistanceKm < merged[j].DistanceKm
	})

	result := Result{
		Mechanics: merged,
		Sources: map[domain.Source]SourceStatus{
			domain.SourceDirectory:    statusOf(directory.err),
			domain.SourceGooglePlaces: statusOf(provider.err),
		},
		Degraded: directory.err != nil || provider.err != nil,
	}

	if result.Degraded {
		metrics.DegradedSearchesTotal.Inc()
		s.logger.Warn("search degraded to a single source",
			zap.NamedError("directory_error", directory.err),
			zap.NamedError("places_error", provider.err),
			zap.Int("results", len(merged)),
		)
	}

	return result, nil
}

type searchFunc func(ctx context.Context, q domain.Query) ([]domain.Mechanic, error)

func (s *Service) query(
	ctx context.Context, source domain.Source, q domain.Query,
	results chan<- outcome, fn searchFunc,
) {
	start := time.Now()
	mechanics, err := fn(ctx, q)
	metrics.SourceRequestDuration.WithLabelValues(string(source)).Observe(time.Since(start).Seconds())

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.SourceRequestsTotal.WithLabelValues(string(source), status).Inc()

	results <- outcome{source: source, mechanics: mechanics, err: err}
}

func filterByCategory(mechanics []domain.Mechanic, slug string) []domain.Mechanic {
	filtered := make([]domain.Mechanic, 0, len(mechanics))
	for _, m := range mechanics {
		if m.HasCategory(slug) {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

func statusOf(err error) SourceStatus {
	if err != nil {
		return SourceFailed
	}
	return SourceOK
}
