package handler

import (
	"github.com/gofiber/fiber/v2"

	"famdrop/internal/service"
	"famdrop/internal/storage"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay free of business logic; validation and storage access live in
// the service.
func RegisterRoutes(app *fiber.App, store storage.Storage, svc service.FileService) {
	// Serve OpenAPI spec and a standalone Swagger UI page
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	// Health: storage reachability; healthz: plain liveness
	app.Get("/health", HealthCheck(store))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api")
	api.Post("/upload", UploadFile(svc))
	api.Get("/files", ListFiles(svc))
	api.Delete("/upload/:id", DeleteFile(svc))

	// Stored bytes are addressed directly by filename; no access control.
	app.Get("/uploads/:filename", ServeFile(svc))
}
