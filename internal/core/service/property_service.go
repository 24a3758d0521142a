package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/estatehub/listings-api/internal/api/metrics"
	"github.com/estatehub/listings-api/internal/core/domain"
	"github.com/estatehub/listings-api/internal/core/ports"
)

const uploadsURLPrefix = "/uploads/"

// PropertyService implements listing CRUD on top of the property store and
// the image upload handler. Stored image filenames are rewritten into
// absolute URLs on every read path.
type PropertyService struct {
	repo    ports.PropertyRepository
	images  ports.ImageStore
	views   ports.ViewCounter
	thumbs  ports.ThumbnailQueue
	baseURL string
	logger  zerolog.Logger
}

func NewPropertyService(
	repo ports.PropertyRepository,
	images ports.ImageStore,
	views ports.ViewCounter,
	thumbs ports.ThumbnailQueue,
	baseURL string,
	logger zerolog.Logger,
) *PropertyService {
	return &PropertyService{
		repo:    repo,
		images:  images,
		views:   views,
		thumbs:  thumbs,
		baseURL: baseURL,
		logger:  logger,
	}
}

// List returns all listings matching filter, in store-default order.
func (s *PropertyService) List(ctx context.Context, filter domain.PropertyFilter) ([]*domain.Property, error) {
	properties, err := s.repo.Find(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list properties")
		return nil, err
	}

	for _, p := range properties {
		s.rewriteImageURLs(p)
	}
	return properties, nil
}

// Get returns a single listing and its accumulated view count. The view
// counter is best-effort: a counter failure never fails the read.
func (s *PropertyService) Get(ctx context.Context, id string) (*domain.Property, int64, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, 0, err
	}

	var views int64
	if s.views != nil {
		views, err = s.views.Increment(ctx, p.ID)
		if err != nil {
			s.logger.Warn().Err(err).Str("property_id", p.ID).Msg("view counter unavailable")
			views = 0
		}
	}

	s.rewriteImageURLs(p)
	return p, views, nil
}

// Create persists the uploaded images, stores the new listing and returns it.
// The main image is mandatory.
func (s *PropertyService) Create(ctx context.Context, fields ports.PropertyFields, uploads ports.PropertyUploads) (*domain.Property, error) {
	if uploads.MainImage == nil {
		return nil, domain.ErrMainImageRequired
	}

	mainImage, err := s.images.Save(uploads.MainImage)
	if err != nil {
		return nil, err
	}

	gallery, err := s.images.SaveAll(uploads.GalleryImages)
	if err != nil {
		return nil, err
	}

	var price float64
	if fields.Price != nil {
		price = *fields.Price
	}

	p := &domain.Property{
		ProjectName:   fields.ProjectName,
		BuilderName:   fields.BuilderName,
		Location:      fields.Location,
		Price:         price,
		MainImage:     mainImage,
		GalleryImages: gallery,
		Description:   fields.Description,
		Highlights:    fields.Highlights,
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create property")
		return nil, err
	}

	s.enqueueThumbnails(created)
	metrics.PropertiesCreatedTotal.Inc()
	s.logger.Info().Str("property_id", created.ID).Str("project_name", created.ProjectName).Msg("property created")

	s.rewriteImageURLs(created)
	return created, nil
}

// Update applies a partial update: a provided field overwrites the stored
// value, an empty one keeps it. A field therefore cannot be cleared to its
// zero value through this operation. Newly uploaded files fully replace the
// prior filenames, never merge with them.
func (s *PropertyService) Update(ctx context.Context, id string, fields ports.PropertyFields, uploads ports.PropertyUploads) (*domain.Property, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if fields.ProjectName != "" {
		p.ProjectName = fields.ProjectName
	}
	if fields.BuilderName != "" {
		p.BuilderName = fields.BuilderName
	}
	if fields.Location != "" {
		p.Location = fields.Location
	}
	if fields.Price != nil {
		p.Price = *fields.Price
	}
	if fields.Description != "" {
		p.Description = fields.Description
	}
	if fields.Highlights != "" {
		p.Highlights = fields.Highlights
	}

	if uploads.MainImage != nil {
		mainImage, err := s.images.Save(uploads.MainImage)
		if err != nil {
			return nil, err
		}
		p.MainImage = mainImage
	}
	if len(uploads.GalleryImages) > 0 {
		gallery, err := s.images.SaveAll(uploads.GalleryImages)
		if err != nil {
			return nil, err
		}
		p.GalleryImages = gallery
	}

	updated, err := s.repo.Replace(ctx, id, p)
	if err != nil {
		s.logger.Error().Err(err).Str("property_id", id).Msg("failed to update property")
		return nil, err
	}

	s.enqueueThumbnails(updated)
	s.logger.Info().Str("property_id", updated.ID).Msg("property updated")

	s.rewriteImageURLs(updated)
	return updated, nil
}

// Delete hard-deletes the listing. Image files stay on disk; a repeated
// delete for the same id fails with domain.ErrPropertyNotFound.
func (s *PropertyService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	metrics.PropertiesDeletedTotal.Inc()
	s.logger.Info().Str("property_id", id).Msg("property deleted")
	return nil
}

// rewriteImageURLs turns the stored bare filenames into fully qualified URLs
// pointing at the static upload server.
func (s *PropertyService) rewriteImageURLs(p *domain.Property) {
	if p.MainImage != "" {
		p.MainImage = s.baseURL + uploadsURLPrefix + p.MainImage
	}
	for i, img := range p.GalleryImages {
		p.GalleryImages[i] = s.baseURL + uploadsURLPrefix + img
	}
}

func (s *PropertyService) enqueueThumbnails(p *domain.Property) {
	if s.thumbs == nil {
		return
	}
	s.thumbs.Enqueue(p.MainImage)
	for _, img := range p.GalleryImages {
		s.thumbs.Enqueue(img)
	}
}
