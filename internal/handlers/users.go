package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/lookout/internal/services"
	"github.com/localnerve/lookout/internal/utils"
)

// ListUsers handles GET /api/users
// @Summary List accounts
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Rows to skip"
// @Success 200 {array} models.User
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /users [get]
func (h *Handler) ListUsers(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return respondError(c, err)
	}

	users, err := services.ListUsers(h.DB, page)
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, users, fiber.StatusOK)
}

// SetRole handles PATCH /api/users/:id/role
// @Summary Change a user's role
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User id"
// @Param body body object true "{role: user|admin}"
// @Success 200 {object} models.User
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /users/{id}/role [patch]
func (h *Handler) SetRole(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	obj, err := body(c)
	if err != nil {
		return respondError(c, err)
	}

	user, err := services.SetRole(h.DB, actor(c), id, obj)
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, user, fiber.StatusOK)
}
