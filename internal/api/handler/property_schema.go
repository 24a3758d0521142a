package handler

import "time"

// messageResponse is the envelope for simple confirmation and error bodies.
type messageResponse struct {
	Message string `json:"message"`
}

// --- Request types ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// createPropertyRequest carries the textual multipart fields of a create
// request; the image parts are read from the multipart form directly.
type createPropertyRequest struct {
	ProjectName string  `form:"project_name" validate:"required"`
	BuilderName string  `form:"builder_name" validate:"required"`
	Location    string  `form:"location"     validate:"required"`
	Price       float64 `form:"price"        validate:"required,gt=0"`
	Description string  `form:"description"  validate:"required"`
	Highlights  string  `form:"highlights"   validate:"required"`
}

// --- Response types ---
// These are intentionally separate from domain types so the JSON contract is
// not coupled to internal service changes.

type authResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

type propertyResponse struct {
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
	// Views is only populated on the single-property endpoint.
	Views int64 `json:"views,omitempty"`
}
