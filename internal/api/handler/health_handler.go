package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthHandler serves the liveness probe and the endpoint directory.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

type healthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Health handles GET /api/health.
//
// @Summary      Health check
// @Tags         utility
// @Produce      json
// @Success      200  {object}  healthResponse
// @Router       /health [get]
func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{
		Status:    "OK",
		Message:   "Server is running",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

type endpointInfo struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

type endpointsResponse struct {
	Endpoints []endpointInfo `json:"endpoints"`
}

// Endpoints handles GET /api/endpoints.
//
// @Summary      List all API endpoints
// @Tags         utility
// @Produce      json
// @Success      200  {object}  endpointsResponse
// @Router       /endpoints [get]
func (h *HealthHandler) Endpoints(c echo.Context) error {
	return c.JSON(http.StatusOK, endpointsResponse{Endpoints: []endpointInfo{
		{Method: "POST", Path: "/api/admin/register", Description: "Register a new admin"},
		{Method: "POST", Path: "/api/admin/login", Description: "Login admin and get JWT token"},
		{Method: "GET", Path: "/api/properties", Description: "Get all properties (supports filters: location, minPrice, maxPrice, projectName)"},
		{Method: "GET", Path: "/api/properties/:id", Description: "Get property by ID"},
		{Method: "POST", Path: "/api/properties", Description: "Create a new property (with image uploads)"},
		{Method: "PUT", Path: "/api/properties/:id", Description: "Update property by ID (with optional image uploads)"},
		{Method: "DELETE", Path: "/api/properties/:id", Description: "Delete property by ID"},
		{Method: "GET", Path: "/api/health", Description: "Health check"},
		{Method: "GET", Path: "/api/endpoints", Description: "List all API endpoints"},
	}})
}

// ReadinessHandler handles GET /api/health/ready — checks MongoDB and Redis
// connectivity before declaring the service ready.
type ReadinessHandler struct {
	mongo *mongo.Database
	redis *redis.Client
}

func NewReadinessHandler(db *mongo.Database, rdb *redis.Client) *ReadinessHandler {
	return &ReadinessHandler{mongo: db, redis: rdb}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *ReadinessHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus)
	healthy := true

	if err := h.mongo.Client().Ping(ctx, nil); err != nil {
		deps["mongodb"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		healthy = false
	} else {
		deps["mongodb"] = dependencyStatus{Status: "ok"}
	}

	// Redis is optional: the service runs without view counters.
	if h.redis == nil {
		deps["redis"] = dependencyStatus{Status: "disabled"}
	} else if _, err := h.redis.Ping(ctx).Result(); err != nil {
		deps["redis"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		healthy = false
	} else {
		deps["redis"] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{Status: status, Dependencies: deps})
}
