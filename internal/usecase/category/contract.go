package category

import (
	"context"

	"github.com/shoplocal/mechfinder/internal/domain"
)

// Reader reads the service category taxonomy.
type Reader interface {
	ListCategories(ctx context.Context) ([]domain.ServiceCategory, error)
}
