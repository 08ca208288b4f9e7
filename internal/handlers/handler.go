// handler.go
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
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/lookout/internal/config"
	"github.com/localnerve/lookout/internal/mailer"
	"github.com/localnerve/lookout/internal/middleware"
	"github.com/localnerve/lookout/internal/models"
	"github.com/localnerve/lookout/internal/services"
	"github.com/localnerve/lookout/internal/storage"
	"github.com/localnerve/lookout/internal/types"
	"github.com/localnerve/lookout/internal/utils"
	"github.com/localnerve/lookout/internal/validate"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler serves the API routes
type Handler struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Tokens *services.Tokens
	Mailer mailer.Mailer
	Store  storage.ObjectStore // nil when uploads are disabled
}

// respondError renders an APIError as-is and anything else as a 500
func respondError(c *fiber.Ctx, err error) error {
	var apiErr *types.APIError
	if errors.As(err, &apiErr) {
		return utils.ErrorResponse(c, apiErr.Status, apiErr.Code, apiErr.Message)
	}
	zap.S().Errorw("Request failed", "method", c.Method(), "path", c.Path(),
		"request_id", middleware.RequestIDFrom(c), "error", err)
	return utils.ErrorResponse(c, fiber.StatusInternalServerError, "", "Internal server error: "+err.Error())
}

// actor returns the caller set by the auth middleware
func actor(c *fiber.Ctx) services.Actor {
	a, _ := middleware.ActorFrom(c)
	return a
}

// parseID reads a positive integer path parameter
func parseID(c *fiber.Ctx, name string) (uint64, error) {
	id, err := types.ParseID(c.Params(name))
	if err != nil {
		return 0, types.BadRequest("INVALID_ID", fmt.Sprintf("Invalid %s: must be a positive integer", name))
	}
	return id, nil
}

// parsePage reads limit and offset from the query string
func parsePage(c *fiber.Ctx) (services.Page, error) {
	var page services.Page
	for _, param := range []struct {
		key string
		dst *int
	}{{"limit", &page.Limit}, {"offset", &page.Offset}} {
		raw := strings.TrimSpace(c.Query(param.key))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return page, types.BadRequest("INVALID_PAGINATION", fmt.Sprintf("%s must be an integer", param.key))
		}
		*param.dst = n
	}
	return page, nil
}

// queryID reads an optional positive integer query parameter
func queryID(c *fiber.Ctx, name, invalidCode string) (*uint64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := types.ParseID(raw)
	if err != nil {
		return nil, types.BadRequest(invalidCode, fmt.Sprintf("%s must be a positive integer", name))
	}
	return &id, nil
}

// body decodes the request body as a JSON object
func body(c *fiber.Ctx) (validate.Object, error) {
	return validate.DecodeObject(c.Body())
}

// decode unmarshals a JSON body into v; an empty body leaves v unchanged
func decode(c *fiber.Ctx, v interface{}) error {
	raw := c.Body()
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return types.BadRequest("INVALID_JSON", "Request body must be a JSON object")
	}
	return nil
}

// deliver e-mails committed notifications
func (h *Handler) deliver(c *fiber.Ctx, notes []models.Notification) {
	if len(notes) == 0 {
		return
	}
	services.Deliver(c.UserContext(), h.DB, h.Mailer, notes...)
}

func isNotFound(err error) bool {
	var apiErr *types.APIError
	return errors.As(err, &apiErr) && apiErr.Status == fiber.StatusNotFound
}
