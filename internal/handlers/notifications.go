package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/lookout/internal/models"
	"github.com/localnerve/lookout/internal/services"
	"github.com/localnerve/lookout/internal/types"
	"github.com/localnerve/lookout/internal/utils"
	"github.com/localnerve/lookout/internal/validate"
)

// ReadAllRequest optionally limits read-all to specific notifications
type ReadAllRequest struct {
	IDs types.FlexList[types.FlexID] `json:"ids" swaggertype:"array,integer"`
}

// ReadAllResponse counts the notifications marked read
type ReadAllResponse struct {
	Updated int64 `json:"updated"`
}

// ListNotifications handles GET /api/notifications
// @Summary List notifications
// @Description The caller's notifications, newest first. Administrators may name another user.
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param userId query int false "Recipient (defaults to the caller)"
// @Param unreadOnly query bool false "Only unread notifications"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Rows to skip"
// @Success 200 {array} models.Notification
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /notifications [get]
func (h *Handler) ListNotifications(c *fiber.Ctx) error {
	caller := actor(c)

	userID, err := queryID(c, "userId", "INVALID_USER_ID")
	if err != nil {
		return respondError(c, err)
	}
	if userID == nil {
		userID = &caller.UserID
	}
	if !caller.CanActFor(userID) {
		return respondError(c, types.Forbidden("Notifications of other users are not accessible"))
	}
	page, err := parsePage(c)
	if err != nil {
		return respondError(c, err)
	}

	notes, err := services.ListNotifications(h.DB, services.NotificationFilter{
		UserID:     *userID,
		UnreadOnly: c.QueryBool("unreadOnly"),
		Page:       page,
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, notes, fiber.StatusOK)
}

// MarkNotification handles PATCH /api/notifications/:id
// @Summary Mark a notification read or unread
// @Description read defaults to true when the body is empty
// @Tags Notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification id"
// @Param body body object false "{read: boolean}"
// @Success 200 {object} models.Notification
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /notifications/{id} [patch]
func (h *Handler) MarkNotification(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	obj, err := body(c)
	if err != nil {
		return respondError(c, err)
	}

	read := true
	if obj.Has("read") {
		values, err := validate.NotificationRead.Update(obj)
		if err != nil {
			return respondError(c, err)
		}
		read = *values.Bool("read")
	}

	note, err := services.MarkNotification(h.DB, actor(c), id, read)
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, note, fiber.StatusOK)
}

// MarkAllRead handles POST /api/notifications/read-all
// @Summary Mark notifications read
// @Description Marks every unread notification of the caller read, or only the given ids
// @Tags Notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ReadAllRequest false "Optional ids"
// @Success 200 {object} ReadAllResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /notifications/read-all [post]
func (h *Handler) MarkAllRead(c *fiber.Ctx) error {
	var req ReadAllRequest
	if err := decode(c, &req); err != nil {
		return respondError(c, types.BadRequest("INVALID_IDS", "ids must be a positive integer or an array of them"))
	}

	updated, err := services.MarkAllRead(h.DB, actor(c), types.IDs(req.IDs))
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, ReadAllResponse{Updated: updated}, fiber.StatusOK)
}

// CreateNotification handles POST /api/notifications
// @Summary Send a notification
// @Tags Notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body object true "{userId, message, reportId?, type?}"
// @Success 201 {object} models.Notification
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /notifications [post]
func (h *Handler) CreateNotification(c *fiber.Ctx) error {
	obj, err := body(c)
	if err != nil {
		return respondError(c, err)
	}

	note, err := services.CreateNotification(h.DB, obj)
	if err != nil {
		return respondError(c, err)
	}
	h.deliver(c, []models.Notification{*note})
	return utils.SuccessResponse(c, note, fiber.StatusCreated)
}
