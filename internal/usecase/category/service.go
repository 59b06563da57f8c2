// Package category serves the service category taxonomy used for filtering.
package category

import (
	"context"
	"fmt"

	"github.com/shoplocal/mechfinder/internal/domain"
)

// Service is a pass-through read of the active categories; ordering by sort
// key is the reader's responsibility.
type Service struct {
	reader Reader
}

// New creates a category service.
func New(reader Reader) *Service {
	return &Service{reader: reader}
}

// List returns the active service categories.
func (s *Service) List(ctx context.Context) ([]domain.ServiceCategory, error) {
	cats, err := s.reader.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}
