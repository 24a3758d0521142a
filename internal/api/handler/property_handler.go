package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/estatehub/listings-api/internal/core/domain"
	"github.com/estatehub/listings-api/internal/core/ports"
)

// PropertyHandler handles HTTP requests for listing operations.
type PropertyHandler struct {
	service ports.PropertyService
}

func NewPropertyHandler(service ports.PropertyService) *PropertyHandler {
	return &PropertyHandler{service: service}
}

// List handles GET /api/properties.
//
// @Summary      Get all properties
// @Description  Supports optional conjunctive filters: location, projectName (case-insensitive substring), minPrice, maxPrice (inclusive).
// @Tags         properties
// @Produce      json
// @Param        location     query     string  false  "Substring match on location"
// @Param        projectName  query     string  false  "Substring match on project name"
// @Param        minPrice     query     number  false  "Inclusive lower price bound"
// @Param        maxPrice     query     number  false  "Inclusive upper price bound"
// @Success      200  {array}   propertyResponse
// @Failure      400  {object}  messageResponse
// @Router       /properties [get]
func (h *PropertyHandler) List(c echo.Context) error {
	filter, err := parseFilter(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: err.Error()})
	}

	properties, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toPropertyListResponse(properties))
}

// Get handles GET /api/properties/:id.
//
// @Summary      Get property by ID
// @Tags         properties
// @Produce      json
// @Param        id   path      string  true  "Property ID"
// @Success      200  {object}  propertyResponse
// @Failure      404  {object}  messageResponse
// @Router       /properties/{id} [get]
func (h *PropertyHandler) Get(c echo.Context) error {
	p, views, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			return c.JSON(http.StatusNotFound, messageResponse{Message: "Property not found"})
		}
		return err
	}

	return c.JSON(http.StatusOK, toPropertyResponse(p, views))
}

// Create handles POST /api/properties.
//
// @Summary      Create a new property
// @Tags         properties
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        project_name    formData  string  true   "Project name"
// @Param        builder_name    formData  string  true   "Builder name"
// @Param        location        formData  string  true   "Location"
// @Param        price           formData  number  true   "Price"
// @Param        description     formData  string  true   "Description"
// @Param        highlights      formData  string  true   "Highlights"
// @Param        main_image      formData  file    true   "Main image (JPEG/PNG/WebP, max 5MB)"
// @Param        gallery_images  formData  file    false  "Gallery images (max 10)"
// @Success      201  {object}  propertyResponse
// @Failure      400  {object}  messageResponse
// @Failure      401  {object}  messageResponse
// @Router       /properties [post]
func (h *PropertyHandler) Create(c echo.Context) error {
	var req createPropertyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "invalid form data"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: err.Error()})
	}

	uploads, err := parseUploads(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "invalid multipart form"})
	}

	price := req.Price
	created, err := h.service.Create(c.Request().Context(), ports.PropertyFields{
		ProjectName: req.ProjectName,
		BuilderName: req.BuilderName,
		Location:    req.Location,
		Price:       &price,
		Description: req.Description,
		Highlights:  req.Highlights,
	}, uploads)
	if err != nil {
		if isValidationError(err) {
			return c.JSON(http.StatusBadRequest, messageResponse{Message: err.Error()})
		}
		return err
	}

	return c.JSON(http.StatusCreated, toPropertyResponse(created, 0))
}

// Update handles PUT /api/properties/:id. All fields are optional: a field
// left empty keeps its stored value, uploaded files replace the stored
// filenames wholesale.
//
// @Summary      Update property by ID
// @Tags         properties
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id              path      string  true   "Property ID"
// @Param        project_name    formData  string  false  "Project name"
// @Param        builder_name    formData  string  false  "Builder name"
// @Param        location        formData  string  false  "Location"
// @Param        price           formData  number  false  "Price"
// @Param        description     formData  string  false  "Description"
// @Param        highlights      formData  string  false  "Highlights"
// @Param        main_image      formData  file    false  "Replacement main image"
// @Param        gallery_images  formData  file    false  "Replacement gallery images"
// @Success      200  {object}  propertyResponse
// @Failure      400  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /properties/{id} [put]
func (h *PropertyHandler) Update(c echo.Context) error {
	fields := ports.PropertyFields{
		ProjectName: c.FormValue("project_name"),
		BuilderName: c.FormValue("builder_name"),
		Location:    c.FormValue("location"),
		Description: c.FormValue("description"),
		Highlights:  c.FormValue("highlights"),
	}

	if raw := c.FormValue("price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, messageResponse{Message: "price must be a number"})
		}
		fields.Price = &price
	}

	uploads, err := parseUploads(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "invalid multipart form"})
	}

	updated, err := h.service.Update(c.Request().Context(), c.Param("id"), fields, uploads)
	if err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			return c.JSON(http.StatusNotFound, messageResponse{Message: "Property not found"})
		}
		if isValidationError(err) {
			return c.JSON(http.StatusBadRequest, messageResponse{Message: err.Error()})
		}
		return err
	}

	return c.JSON(http.StatusOK, toPropertyResponse(updated, 0))
}

// Delete handles DELETE /api/properties/:id.
//
// @Summary      Delete property by ID
// @Tags         properties
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Property ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /properties/{id} [delete]
func (h *PropertyHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			return c.JSON(http.StatusNotFound, messageResponse{Message: "Property not found"})
		}
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Property removed"})
}

func parseFilter(c echo.Context) (domain.PropertyFilter, error) {
	filter := domain.PropertyFilter{
		Location:    c.QueryParam("location"),
		ProjectName: c.QueryParam("projectName"),
	}

	if raw := c.QueryParam("minPrice"); raw != "" {
		min, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.PropertyFilter{}, errors.New("minPrice must be a number")
		}
		filter.MinPrice = &min
	}
	if raw := c.QueryParam("maxPrice"); raw != "" {
		max, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.PropertyFilter{}, errors.New("maxPrice must be a number")
		}
		filter.MaxPrice = &max
	}

	return filter, nil
}

// parseUploads pulls the image parts out of the multipart form. A request
// without any file parts yields empty uploads, which is valid for updates.
func parseUploads(c echo.Context) (ports.PropertyUploads, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			return ports.PropertyUploads{}, nil
		}
		return ports.PropertyUploads{}, err
	}

	uploads := ports.PropertyUploads{
		GalleryImages: form.File["gallery_images"],
	}
	if mains := form.File["main_image"]; len(mains) > 0 {
		uploads.MainImage = mains[0]
	}
	return uploads, nil
}

func isValidationError(err error) bool {
	return errors.Is(err, domain.ErrMainImageRequired) ||
		errors.Is(err, domain.ErrFileTooLarge) ||
		errors.Is(err, domain.ErrUnsupportedFileType) ||
		errors.Is(err, domain.ErrTooManyFiles)
}
