package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/lookout/internal/models"
	"github.com/localnerve/lookout/internal/services"
	"github.com/localnerve/lookout/internal/types"
	"github.com/localnerve/lookout/internal/utils"
)

// CreateFootage handles POST /api/cctv-footage
// @Summary Submit a CCTV footage lead
// @Tags Footage
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body object true "Footage"
// @Success 201 {object} models.CCTVFootage
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /cctv-footage [post]
func (h *Handler) CreateFootage(c *fiber.Ctx) error {
	obj, err := body(c)
	if err != nil {
		return respondError(c, err)
	}

	footage, notes, err := services.CreateFootage(h.DB, actor(c), obj)
	if err != nil {
		return respondError(c, err)
	}
	h.deliver(c, notes)
	return utils.SuccessResponse(c, footage, fiber.StatusCreated)
}

// ListFootage handles GET /api/cctv-footage
// @Summary List CCTV footage
// @Tags Footage
// @Produce json
// @Param reportId query int false "Linked report id"
// @Param status query string false "pending, reviewed or matched"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Rows to skip"
// @Success 200 {array} models.CCTVFootage
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /cctv-footage [get]
func (h *Handler) ListFootage(c *fiber.Ctx) error {
	reportID, err := queryID(c, "reportId", "INVALID_REPORT_ID")
	if err != nil {
		return respondError(c, err)
	}
	status := c.Query("status")
	if status != "" && !isFootageStatus(status) {
		return respondError(c, types.BadRequest("INVALID_STATUS",
			fmt.Sprintf("Status must be one of: %s", strings.Join(models.FootageStatuses, ", "))))
	}
	page, err := parsePage(c)
	if err != nil {
		return respondError(c, err)
	}

	footage, err := services.ListFootage(h.DB, services.FootageFilter{ReportID: reportID, Status: status, Page: page})
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, footage, fiber.StatusOK)
}

// GetFootage handles GET /api/cctv-footage/:id
// @Summary Get CCTV footage
// @Tags Footage
// @Produce json
// @Param id path int true "Footage id"
// @Success 200 {object} models.CCTVFootage
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /cctv-footage/{id} [get]
func (h *Handler) GetFootage(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	footage, err := services.GetFootage(h.DB, id)
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, footage, fiber.StatusOK)
}

// UpdateFootage handles PATCH /api/cctv-footage/:id
// @Summary Review CCTV footage
// @Description Change status, description, videoUrl or the linked report. Linking notifies the report owner.
// @Tags Footage
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Footage id"
// @Param body body object true "Fields to change"
// @Success 200 {object} models.CCTVFootage
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /cctv-footage/{id} [patch]
func (h *Handler) UpdateFootage(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	obj, err := body(c)
	if err != nil {
		return respondError(c, err)
	}

	footage, notes, err := services.UpdateFootage(h.DB, actor(c), id, obj)
	if err != nil {
		return respondError(c, err)
	}
	h.deliver(c, notes)
	return utils.SuccessResponse(c, footage, fiber.StatusOK)
}

func isFootageStatus(status string) bool {
	for _, s := range models.FootageStatuses {
		if s == status {
			return true
		}
	}
	return false
}
