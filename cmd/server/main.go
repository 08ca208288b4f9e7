package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	swagger "github.com/gofiber/swagger"
	"github.com/localnerve/lookout/internal/config"
	"github.com/localnerve/lookout/internal/database"
	"github.com/localnerve/lookout/internal/handlers"
	"github.com/localnerve/lookout/internal/logging"
	"github.com/localnerve/lookout/internal/mailer"
	"github.com/localnerve/lookout/internal/services"
	"github.com/localnerve/lookout/internal/storage"
	"go.uber.org/zap"

	_ "github.com/localnerve/lookout/docs/api" // Swagger docs
)

// @title Lookout API
// @version 1.0.0
// @description Community missing-persons reporting service
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localnerve/lookout
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	sugar := logger.Sugar()

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		sugar.Fatalw("Failed to connect to database", "error", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		sugar.Fatalw("Failed to run migrations", "error", err)
	}

	if cfg.AdminEmail != "" {
		if _, err := services.EnsureAdmin(db, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName); err != nil {
			sugar.Fatalw("Failed to create bootstrap administrator", "error", err)
		}
	}

	// Object storage is optional
	var store storage.ObjectStore
	if cfg.StorageEnabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		minioStore, err := storage.NewMinIO(ctx, cfg)
		cancel()
		if err != nil {
			sugar.Fatalw("Failed to create object storage client", "error", err)
		}
		store = minioStore
	} else {
		sugar.Infow("Object storage not configured, uploads disabled")
	}

	if !cfg.MailEnabled() {
		sugar.Infow("SendGrid not configured, notification e-mail disabled")
	}

	h := &handlers.Handler{
		DB:     db,
		Cfg:    cfg,
		Tokens: services.NewTokens(cfg.JWTSecret, cfg.SessionTTL),
		Mailer: mailer.New(cfg),
		Store:  store,
	}

	app := handlers.NewApp(h, func(app *fiber.App) {
		// Prometheus metrics
		prometheus := fiberprometheus.New("lookout")
		prometheus.RegisterAt(app, "/metrics")
		app.Use(prometheus.Middleware)

		// Swagger documentation
		app.Get("/swagger/*", swagger.HandlerDefault)
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		zap.S().Infow("Gracefully shutting down...")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	// Start server
	sugar.Infow("Starting server", "port", cfg.Port, "db_type", cfg.DBType)
	if err := app.Listen(":" + cfg.Port); err != nil {
		sugar.Fatalw("Failed to start server", "error", err)
	}

	sugar.Infow("Server stopped")
}
