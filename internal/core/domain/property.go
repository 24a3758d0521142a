package domain

import (
	"errors"
	"time"
)

var ErrPropertyNotFound = errors.New("property not found")
var ErrMainImageRequired = errors.New("main image is required")
var ErrFileTooLarge = errors.New("file exceeds the maximum allowed size")
var ErrUnsupportedFileType = errors.New("invalid file type, only JPEG, PNG and WebP are allowed")
var ErrTooManyFiles = errors.New("too many gallery images")

// Property is a real-estate listing shown to end users. MainImage and
// GalleryImages hold bare filenames as stored; the service layer rewrites
// them into absolute URLs before they leave the API.
type Property struct {
	ID            string    `json:"id"`
	ProjectName   string    `json:"project_name"`
	BuilderName   string    `json:"builder_name"`
	Location      string    `json:"location"`
	Price         float64   `json:"price"`
	MainImage     string    `json:"main_image"`
	GalleryImages []string  `json:"gallery_images"`
	Description   string    `json:"description"`
	Highlights    string    `json:"highlights"`
	CreatedAt     time.Time `json:"createdAt"`
}

// PropertyFilter carries the optional, conjunctive search constraints for
// listing queries. Nil price bounds mean "no constraint".
type PropertyFilter struct {
	Location    string   // case-insensitive substring match
	ProjectName string   // case-insensitive substring match
	MinPrice    *float64 // inclusive lower bound
	MaxPrice    *float64 // inclusive upper bound
}
