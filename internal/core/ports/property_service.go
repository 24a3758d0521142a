package ports

import (
	"context"
	"mime/multipart"

	"github.com/estatehub/listings-api/internal/core/domain"
)

// PropertyFields carries the textual attributes of a listing as submitted in
// a multipart form. On update, zero values mean "not provided" and leave the
// stored value untouched; a nil Price keeps the prior price.
type PropertyFields struct {
	ProjectName string
	BuilderName string
	Location    string
	Price       *float64
	Description string
	Highlights  string
}

// PropertyUploads holds the raw multipart file parts of a create or update
// request. MainImage may be nil on update; uploaded files fully replace the
// previously stored filenames.
type PropertyUploads struct {
	MainImage     *multipart.FileHeader
	GalleryImages []*multipart.FileHeader
}

// PropertyService defines the listing use cases. Every returned Property has
// its image filenames rewritten into absolute URLs.
type PropertyService interface {
	List(ctx context.Context, filter domain.PropertyFilter) ([]*domain.Property, error)
	// Get returns the listing and its accumulated view count.
	Get(ctx context.Context, id string) (*domain.Property, int64, error)
	Create(ctx context.Context, fields PropertyFields, uploads PropertyUploads) (*domain.Property, error)
	Update(ctx context.Context, id string, fields PropertyFields, uploads PropertyUploads) (*domain.Property, error)
	Delete(ctx context.Context, id string) error
}
