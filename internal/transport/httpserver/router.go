// Package httpserver provides HTTP server and routing.
package httpserver

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/template/html/v2"
	"go.uber.org/zap"

	"collection-filter-service/internal/app/service"
	"collection-filter-service/internal/transport/httpserver/dto"
	"collection-filter-service/internal/transport/httpserver/handler"
	"collection-filter-service/internal/transport/httpserver/middleware"
	"collection-filter-service/internal/validator"
)

// CollectionsPrefix is where filtered collection pages are served.
const CollectionsPrefix = "/collections"

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port         int
	BodyLimit    int
	Debug        bool
	TemplatesDir string
	AllowOrigins string
}

// Server wraps Fiber app with handlers.
type Server struct {
	App    *fiber.App
	Logger *zap.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	cfg ServerConfig,
	filterSvc *service.FilterService,
	syncSvc *service.IndexSyncService,
	v *validator.Validator,
	logger *zap.Logger,
	checks ...middleware.ReadinessCheck,
) *Server {
	templatesDir := cfg.TemplatesDir
	if templatesDir == "" {
		templatesDir = "./web/templates"
	}
	engine := html.New(templatesDir, ".html")
	engine.Reload(cfg.Debug)

	app := fiber.New(fiber.Config{
		AppName:      "collection-filter-service",
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: errorHandler(logger),
		Views:        engine,
	})

	// Probes skip request logging.
	app.Use(middleware.NewHealthCheck(checks...))

	app.Use(requestid.New())
	app.Use(middleware.Recover(logger))
	app.Use(middleware.Logger(logger))
	if cfg.AllowOrigins != "" {
		app.Use(middleware.CORS(cfg.AllowOrigins))
	}
	app.Use(compress.New())

	registerRoutes(app,
		handler.NewCollectionHandler(filterSvc, CollectionsPrefix, v, logger),
		handler.NewFilterHandler(filterSvc, v, logger),
		handler.NewAdminHandler(syncSvc, v, logger),
		handler.NewDashboardHandler(syncSvc, logger),
	)

	return &Server{
		App:    app,
		Logger: logger,
	}
}

func registerRoutes(
	app *fiber.App,
	collectionHandler *handler.CollectionHandler,
	filterHandler *handler.FilterHandler,
	adminHandler *handler.AdminHandler,
	dashboardHandler *handler.DashboardHandler,
) {
	app.Get("/dashboard", dashboardHandler.Render)
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/dashboard")
	})

	app.Get(CollectionsPrefix+"/*", collectionHandler.Render)

	v1 := app.Group("/api/v1")

	collections := v1.Group("/collections/:collection")
	collections.Get("/filters", filterHandler.Filters)
	collections.Get("/results", filterHandler.Results)

	admin := v1.Group("/admin")
	admin.Post("/sync", adminHandler.SyncAll)
	admin.Post("/sync/:source", adminHandler.SyncSource)
	admin.Get("/sources", adminHandler.Sources)
}

// errorHandler logs unhandled errors by status: 404 at debug, 4xx at warn,
// everything else at error.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}

		fields := []zap.Field{
			zap.Int("status", code),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
		}

		switch {
		case code == fiber.StatusNotFound:
			logger.Debug("resource not found", fields...)
		case code >= 400 && code < 500:
			logger.Warn("client error", append(fields, zap.Error(err))...)
		default:
			logger.Error("server error", append(fields, zap.Error(err))...)
		}

		return c.Status(code).JSON(dto.ErrorResponse{
			Error: err.Error(),
			Code:  "UNHANDLED_ERROR",
		})
	}
}

// Start starts the HTTP server.
func (s *Server) Start(port int) error {
	s.Logger.Info("starting HTTP server", zap.Int("port", port))

	return s.App.Listen(fmt.Sprintf(":%d", port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	s.Logger.Info("shutting down HTTP server")

	return s.App.Shutdown()
}
