package ports

import (
	"context"

	"github.com/estatehub/listings-api/internal/core/domain"
)

// PropertyRepository defines persistence operations for listings. The store
// is the sole authority on listing state; nothing above it caches records.
type PropertyRepository interface {
	Create(ctx context.Context, p *domain.Property) (*domain.Property, error)
	FindByID(ctx context.Context, id string) (*domain.Property, error)
	// Find returns all listings matching filter in store-default order.
	Find(ctx context.Context, filter domain.PropertyFilter) ([]*domain.Property, error)
	// Replace overwrites the stored document for id with p.
	Replace(ctx context.Context, id string, p *domain.Property) (*domain.Property, error)
	Delete(ctx context.Context, id string) error
}
