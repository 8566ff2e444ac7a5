// Package httpapi exposes the submission and moderation endpoints over HTTP.
// The transport is deliberately thin: every behavior lives in the domain
// services it delegates to.
package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"sosflow/auth"
	"sosflow/media"
	"sosflow/report"
	"sosflow/settings"
)

// Server bundles the services behind the HTTP surface.
type Server struct {
	reports  *report.Service
	auth     *auth.Service
	media    media.Store
	settings *settings.Settings
	log      *zap.Logger

	uploadsDir string
}

type Config struct {
	Reports  *report.Service
	Auth     *auth.Service
	Media    media.Store
	Settings *settings.Settings
	Log      *zap.Logger

	// UploadsDir, when set, is served statically under /uploads.
	UploadsDir string
	// AllowOrigins feeds the CORS middleware; empty means same-origin only.
	AllowOrigins string
}

func New(cfg Config) (*Server, *fiber.App) {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		reports:    cfg.Reports,
		auth:       cfg.Auth,
		media:      cfg.Media,
		settings:   cfg.Settings,
		log:        log,
		uploadsDir: cfg.UploadsDir,
	}

	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "15:04:05",
	}))
	if cfg.AllowOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: cfg.AllowOrigins,
			AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
			AllowHeaders: "*",
			MaxAge:       int((12 * time.Hour).Seconds()),
		}))
	}

	if s.uploadsDir != "" {
		app.Static("/uploads", s.uploadsDir)
	}

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })

	api := app.Group("/api")
	api.Post("/login", s.handleLogin)
	api.Post("/users", s.handleCreateReport)
	api.Post("/language", s.handleSetLanguage)

	admin := api.Group("", s.requireAdmin)
	admin.Get("/users", s.handleListReports)
	admin.Patch("/users/:id/toggle-approval", s.handleToggleApproval)
	admin.Patch("/users/:id/remove", s.handleRemove)
	admin.Patch("/users/:id/restore", s.handleRestore)
	admin.Delete("/users/:id", s.handlePermanentDelete)

	return s, app
}
