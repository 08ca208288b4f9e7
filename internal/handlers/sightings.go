package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/lookout/internal/services"
	"github.com/localnerve/lookout/internal/types"
	"github.com/localnerve/lookout/internal/utils"
)

// CreateSighting handles POST /api/sightings
// @Summary Report a sighting
// @Description Records an unverified sighting and notifies the owner of the report
// @Tags Sightings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body object true "Sighting"
// @Success 201 {object} models.Sighting
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /sightings [post]
func (h *Handler) CreateSighting(c *fiber.Ctx) error {
	obj, err := body(c)
	if err != nil {
		return respondError(c, err)
	}

	sighting, notes, err := services.CreateSighting(h.DB, actor(c), obj)
	if err != nil {
		return respondError(c, err)
	}
	h.deliver(c, notes)
	return utils.SuccessResponse(c, sighting, fiber.StatusCreated)
}

// ListSightings handles GET /api/sightings?reportId=
// @Summary List the sightings of a report
// @Tags Sightings
// @Produce json
// @Param reportId query int true "Report id"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Rows to skip"
// @Success 200 {array} models.Sighting
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /sightings [get]
func (h *Handler) ListSightings(c *fiber.Ctx) error {
	if c.Query("reportId") == "" {
		return respondError(c, types.BadRequest("MISSING_REPORT_ID", "reportId query parameter is required"))
	}
	reportID, err := queryID(c, "reportId", "INVALID_REPORT_ID")
	if err != nil {
		return respondError(c, err)
	}
	page, err := parsePage(c)
	if err != nil {
		return respondError(c, err)
	}

	sightings, err := services.ListSightings(h.DB, *reportID, page)
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, sightings, fiber.StatusOK)
}

// GetSighting handles GET /api/sightings/:id
// @Summary Get a sighting
// @Tags Sightings
// @Produce json
// @Param id path int true "Sighting id"
// @Success 200 {object} models.Sighting
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /sightings/{id} [get]
func (h *Handler) GetSighting(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	sighting, err := services.GetSighting(h.DB, id)
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, sighting, fiber.StatusOK)
}

// UpdateSighting handles PATCH /api/sightings/:id
// @Summary Update a sighting
// @Description Only verified, description, contactInfo and imageUrl may change
// @Tags Sightings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Sighting id"
// @Param body body object true "Fields to change"
// @Success 200 {object} models.Sighting
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /sightings/{id} [patch]
func (h *Handler) UpdateSighting(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	obj, err := body(c)
	if err != nil {
		return respondError(c, err)
	}

	sighting, err := services.UpdateSighting(h.DB, actor(c), id, obj)
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, sighting, fiber.StatusOK)
}
