package search

import (
	"context"

	"github.com/shoplocal/mechfinder/internal/domain"
)

// DirectorySearcher queries the first-party directory for nearby mechanics.
type DirectorySearcher interface {
	SearchNearby(ctx context.Context, q domain.Query) ([]domain.Mechanic, error)
}

// PlaceSearcher queries the external place provider for nearby mechanics.
type PlaceSearcher interface {
	SearchNearby(ctx context.Context, q domain.Query) ([]domain.Mechanic, error)
}
