package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/localnerve/lookout/internal/middleware"
	"github.com/localnerve/lookout/internal/types"
	"github.com/localnerve/lookout/internal/utils"
	"go.uber.org/zap"
)

// NewApp builds the Fiber application with every API route.
// mount runs after the global middleware and before the API routes.
func NewApp(h *Handler, mount ...func(app *fiber.App)) *fiber.App {
	cfg := fiber.Config{
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
	}
	if h.Cfg != nil && h.Cfg.UploadMaxBytes > 0 {
		cfg.BodyLimit = h.Cfg.UploadMaxBytes
	}
	app := fiber.New(cfg)

	// Global middleware
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.AccessLog())
	app.Use(compress.New())

	for _, m := range mount {
		m(app)
	}

	api := app.Group("/api")
	api.Use(middleware.VersionMiddleware())
	h.Routes(api)

	// 404 handler
	app.Use(utils.NotFoundResponse)

	return app
}

// Routes registers the API routes on r
func (h *Handler) Routes(r fiber.Router) {
	user := middleware.AuthUser(h.Tokens)
	admin := middleware.AuthAdmin(h.Tokens)

	r.Get("/health", h.Health)

	auth := r.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Get("/session", h.Session)
	auth.Post("/logout", h.Logout)

	reports := r.Group("/reports")
	reports.Get("/", h.ListReports)
	reports.Post("/", user, h.CreateReport)
	reports.Get("/:id", h.GetReport)
	reports.Patch("/:id", user, h.UpdateReport)
	reports.Delete("/:id", user, h.DeleteReport)
	reports.Get("/:id/events", admin, h.ListReportEvents)

	sightings := r.Group("/sightings")
	sightings.Get("/", h.ListSightings)
	sightings.Post("/", user, h.CreateSighting)
	sightings.Get("/:id", h.GetSighting)
	sightings.Patch("/:id", user, h.UpdateSighting)

	footage := r.Group("/cctv-footage")
	footage.Get("/", h.ListFootage)
	footage.Post("/", user, h.CreateFootage)
	footage.Get("/:id", h.GetFootage)
	footage.Patch("/:id", admin, h.UpdateFootage)

	notifications := r.Group("/notifications", user)
	notifications.Get("/", h.ListNotifications)
	notifications.Post("/read-all", h.MarkAllRead)
	notifications.Post("/", admin, h.CreateNotification)
	notifications.Patch("/:id", h.MarkNotification)

	users := r.Group("/users", admin)
	users.Get("/", h.ListUsers)
	users.Patch("/:id/role", h.SetRole)

	r.Post("/uploads", user, h.Upload)
}

// ErrorHandler renders framework errors in the API error shape
func ErrorHandler(c *fiber.Ctx, err error) error {
	var apiErr *types.APIError
	if errors.As(err, &apiErr) {
		return utils.ErrorResponse(c, apiErr.Status, apiErr.Code, apiErr.Message)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		switch fiberErr.Code {
		case fiber.StatusNotFound:
			return utils.NotFoundResponse(c)
		case fiber.StatusRequestEntityTooLarge:
			return utils.ErrorResponse(c, fiberErr.Code, "PAYLOAD_TOO_LARGE", "Request body is too large")
		}
		if fiberErr.Code < fiber.StatusInternalServerError {
			return utils.ErrorResponse(c, fiberErr.Code, "", fiberErr.Message)
		}
	}

	zap.S().Errorw("Unhandled error", "method", c.Method(), "path", c.Path(),
		"request_id", middleware.RequestIDFrom(c), "error", err)
	return utils.ErrorResponse(c, fiber.StatusInternalServerError, "", "Internal server error: "+err.Error())
}
