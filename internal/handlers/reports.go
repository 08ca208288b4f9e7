// reports.go
//
// Community missing-persons reporting service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of lookout.
// lookout is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// lookout is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with lookout.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/lookout/internal/models"
	"github.com/localnerve/lookout/internal/services"
	"github.com/localnerve/lookout/internal/types"
	"github.com/localnerve/lookout/internal/utils"
)

// DeleteReportResponse is returned by a report deletion
type DeleteReportResponse struct {
	Message       string         `json:"message"`
	DeletedReport *models.Report `json:"deletedReport"`
}

// ListReports handles GET /api/reports
// @Summary List missing-person reports
// @Description Newest first, optionally filtered by status, reporter and a search term
// @Tags Reports
// @Produce json
// @Param status query string false "Exact status"
// @Param reportedBy query int false "Reporter user id"
// @Param search query string false "Case-insensitive substring of name, location or description"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Rows to skip"
// @Success 200 {array} models.Report
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /reports [get]
func (h *Handler) ListReports(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return respondError(c, err)
	}

	filter := services.ReportFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Page:   page,
	}
	// a non-numeric reporter filter is ignored
	if id, err := types.ParseID(c.Query("reportedBy")); err == nil {
		filter.ReportedBy = &id
	}

	reports, err := services.ListReports(h.DB, filter)
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, reports, fiber.StatusOK)
}

// CreateReport handles POST /api/reports
// @Summary File a missing-person report
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body object true "Report"
// @Success 201 {object} models.Report
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /reports [post]
func (h *Handler) CreateReport(c *fiber.Ctx) error {
	obj, err := body(c)
	if err != nil {
		return respondError(c, err)
	}

	report, err := services.CreateReport(h.DB, actor(c), obj)
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, report, fiber.StatusCreated)
}

// GetReport handles GET /api/reports/:id
// @Summary Get a report
// @Tags Reports
// @Produce json
// @Param id path int true "Report id"
// @Success 200 {object} models.Report
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /reports/{id} [get]
func (h *Handler) GetReport(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	report, err := services.GetReport(h.DB, id)
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, report, fiber.StatusOK)
}

// UpdateReport handles PATCH /api/reports/:id
// @Summary Update a report
// @Description Partial update by the reporter or an administrator. A status change notifies the reporter.
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Report id"
// @Param body body object true "Fields to change"
// @Success 200 {object} models.Report
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /reports/{id} [patch]
func (h *Handler) UpdateReport(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	obj, err := body(c)
	if err != nil {
		return respondError(c, err)
	}

	report, notes, err := services.UpdateReport(h.DB, actor(c), id, obj)
	if err != nil {
		return respondError(c, err)
	}
	h.deliver(c, notes)
	return utils.SuccessResponse(c, report, fiber.StatusOK)
}

// DeleteReport handles DELETE /api/reports/:id
// @Summary Delete a report
// @Description Deletes the report with its sightings, notifications and history. Linked footage is kept and unlinked.
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param id path int true "Report id"
// @Success 200 {object} DeleteReportResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /reports/{id} [delete]
func (h *Handler) DeleteReport(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	report, err := services.DeleteReport(h.DB, actor(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, DeleteReportResponse{
		Message:       "Missing person report deleted successfully",
		DeletedReport: report,
	}, fiber.StatusOK)
}

// ListReportEvents handles GET /api/reports/:id/events
// @Summary Report history
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param id path int true "Report id"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Rows to skip"
// @Success 200 {array} models.ReportEvent
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /reports/{id}/events [get]
func (h *Handler) ListReportEvents(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	page, err := parsePage(c)
	if err != nil {
		return respondError(c, err)
	}

	events, err := services.ListReportEvents(h.DB, id, page)
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, events, fiber.StatusOK)
}
