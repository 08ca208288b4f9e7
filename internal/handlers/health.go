package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/lookout/internal/services"
	"github.com/localnerve/lookout/internal/utils"
)

// Health handles GET /api/health
// @Summary Service health
// @Description Database and object storage reachability
// @Tags Operational
// @Produce json
// @Success 200 {object} services.HealthCheckResult
// @Failure 503 {object} services.HealthCheckResult
// @Router /health [get]
func (h *Handler) Health(c *fiber.Ctx) error {
	result := services.HealthCheck(c.UserContext(), h.Cfg, h.DB, h.Store)
	status := fiber.StatusOK
	if result.Status != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return utils.SuccessResponse(c, result, status)
}
