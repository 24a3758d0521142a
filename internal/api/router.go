package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/estatehub/listings-api/internal/api/handler"
	"github.com/estatehub/listings-api/internal/api/middleware"
	"github.com/estatehub/listings-api/internal/core/ports"
	"github.com/estatehub/listings-api/internal/core/service"
	mongodb "github.com/estatehub/listings-api/internal/infrastructure/db/mongo"
	redisdb "github.com/estatehub/listings-api/internal/infrastructure/db/redis"
	"github.com/estatehub/listings-api/internal/infrastructure/queue"
	"github.com/estatehub/listings-api/internal/infrastructure/storage"
	"github.com/estatehub/listings-api/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// rdb may be nil, in which case view counters are disabled.
func NewRouter(
	cfg *config.Config,
	db *mongo.Database,
	rdb *redis.Client,
	images *storage.DiskStore,
	thumbs *queue.Dispatcher,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log, cfg.Production())
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("listings"))

	// --- Dependencies ---
	adminRepo := mongodb.NewAdminRepository(db)
	authService := service.NewAuthService(adminRepo, cfg.JWTSecret, 30*24*time.Hour)
	authHandler := handler.NewAuthHandler(authService)

	var views ports.ViewCounter
	if rdb != nil {
		views = redisdb.NewViewCounter(rdb)
	}
	propertyRepo := mongodb.NewPropertyRepository(db)
	propertyService := service.NewPropertyService(propertyRepo, images, views, thumbs, cfg.BaseURL, log)
	propertyHandler := handler.NewPropertyHandler(propertyService)

	protected := middleware.Auth(authService)

	// --- API routes ---
	api := e.Group("/api")

	api.POST("/admin/register", authHandler.Register)
	api.POST("/admin/login", authHandler.Login)

	api.GET("/properties", propertyHandler.List)
	api.GET("/properties/:id", propertyHandler.Get)
	api.POST("/properties", propertyHandler.Create, protected)
	api.PUT("/properties/:id", propertyHandler.Update, protected)
	api.DELETE("/properties/:id", propertyHandler.Delete, protected)

	// --- Utility routes ---
	healthHandler := handler.NewHealthHandler()
	api.GET("/health", healthHandler.Health)
	api.GET("/endpoints", healthHandler.Endpoints)
	api.GET("/health/ready", handler.NewReadinessHandler(db, rdb).Readiness)

	// Uploaded images are served read-only from the upload directory.
	e.Static("/uploads", images.Dir())

	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
