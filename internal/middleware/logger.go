package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/lookout/internal/types"
	"go.uber.org/zap"
)

// AccessLog logs one line per request through the global zap logger
func AccessLog() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			// the error handler has not written the response yet
			status = statusOf(err)
		}

		fields := []interface{}{
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency", time.Since(start),
			"request_id", RequestIDFrom(c),
		}
		if actor, ok := ActorFrom(c); ok {
			fields = append(fields, "user_id", actor.UserID)
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			zap.S().Errorw("Request failed", fields...)
		default:
			zap.S().Infow("Request", fields...)
		}
		return err
	}
}

func statusOf(err error) int {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}
	var apiErr *types.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return fiber.StatusInternalServerError
}
