package handler

import "github.com/estatehub/listings-api/internal/core/domain"

// toPropertyResponse maps a domain listing (image URLs already rewritten by
// the service) into the transport shape.
func toPropertyResponse(p *domain.Property, views int64) propertyResponse {
	return propertyResponse{
		ID:            p.ID,
		ProjectName:   p.ProjectName,
		BuilderName:   p.BuilderName,
		Location:      p.Location,
		Price:         p.Price,
		MainImage:     p.MainImage,
		GalleryImages: p.GalleryImages,
		Description:   p.Description,
		Highlights:    p.Highlights,
		CreatedAt:     p.CreatedAt,
		Views:         views,
	}
}

func toPropertyListResponse(properties []*domain.Property) []propertyResponse {
	out := make([]propertyResponse, 0, len(properties))
	for _, p := range properties {
		out = append(out, toPropertyResponse(p, 0))
	}
	return out
}
