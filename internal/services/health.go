package services

import (
	"context"
	"fmt"

	"github.com/localnerve/lookout/internal/config"
	"github.com/localnerve/lookout/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Storage      string            `json:"storage"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// HealthCheck checks the database and, when configured, the object store.
// store may be nil.
func HealthCheck(ctx context.Context, cfg *config.Config, db *gorm.DB, store storage.ObjectStore) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	fail := func(msg string, err error) {
		result.Status = "unhealthy"
		if result.ErrorMessage != "" {
			result.ErrorMessage += "; "
		}
		result.ErrorMessage += fmt.Sprintf("%s: %v", msg, err)
		zap.S().Warnw("Health check failed", "check", msg, "error", err)
	}

	// Check database connectivity
	sqlDB, err := db.DB()
	switch {
	case err != nil:
		result.Database = "error"
		result.Details["database_error"] = err.Error()
		fail("Database connection error", err)
	default:
		if err := sqlDB.PingContext(ctx); err != nil {
			result.Database = "unreachable"
			result.Details["database_ping_error"] = err.Error()
			fail("Database ping failed", err)
		} else {
			result.Database = "ok"
			result.Details["database_type"] = cfg.DBType
		}
	}

	// Check object storage
	if store == nil {
		result.Storage = "disabled"
	} else if err := store.HealthCheck(ctx); err != nil {
		result.Storage = "unreachable"
		result.Details["storage_error"] = err.Error()
		fail("Object storage check failed", err)
	} else {
		result.Storage = "ok"
	}

	return result
}
