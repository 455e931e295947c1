package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"famdrop/docs"
	"famdrop/internal/config"
	"famdrop/internal/filetype"
	handlers "famdrop/internal/http/handler"
	"famdrop/internal/http/middleware"
	"famdrop/internal/otel"
	"famdrop/internal/service"
	"famdrop/internal/storage"
	"famdrop/internal/web"
)

// @title famdrop API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	// Initialize tracing; degrades to propagation-only when no collector is configured
	shutdown, err := otel.Init(context.Background())
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdown(context.Background())

	// Initialize the upload backend (local disk by default, MinIO opt-in)
	store, err := newStorage(cfg)
	if err != nil {
		log.Fatalf("failed to initialize storage: %v", err)
	}

	fileSvc := service.NewFileService(store)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		// The transport limit sits above the 10 MiB upload cap (multipart
		// framing overhead included) so the service check produces the 400,
		// not a blunt 413.
		BodyLimit: int(filetype.MaxUploadBytes) + 2<<20,
	})

	// Register global middleware
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	// Prometheus metrics: per-request counter/histogram plus process and Go
	// runtime collectors, exposed at /metrics
	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMW, err := middleware.NewPrometheusMiddleware(promReg)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMW.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(promReg, promhttp.HandlerOpts{})))

	// Register HTTP routes with injected service
	handlers.RegisterRoutes(app, store, fileSvc)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	// Embedded browser UI, registered last so API routes take precedence
	app.Use("/", filesystem.New(filesystem.Config{
		Root:  web.FS(),
		Index: "index.html",
	}))

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

func newStorage(cfg *config.AppConfig) (storage.Storage, error) {
	switch cfg.Storage.Backend {
	case "minio":
		return storage.NewMinIO(cfg.MinIO)
	case "local":
		return storage.NewLocal(cfg.Storage.Dir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
