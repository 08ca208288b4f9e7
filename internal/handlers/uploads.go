package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/lookout/internal/storage"
	"github.com/localnerve/lookout/internal/types"
	"github.com/localnerve/lookout/internal/utils"
	"go.uber.org/zap"
)

var uploadKinds = []string{"image", "video"}

var errStorageUnavailable = types.NewError(fiber.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "File uploads are not available")

// Upload handles POST /api/uploads
// @Summary Upload an image or video
// @Description Stores the file and returns the URL to put in imageUrl or videoUrl
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "File"
// @Param kind formData string false "image (default) or video"
// @Success 201 {object} storage.Object
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 413 {object} utils.ErrorResponseStruct
// @Failure 503 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /uploads [post]
func (h *Handler) Upload(c *fiber.Ctx) error {
	if h.Store == nil {
		return respondError(c, errStorageUnavailable)
	}

	kind := strings.ToLower(strings.TrimSpace(c.FormValue("kind", "image")))
	if kind != uploadKinds[0] && kind != uploadKinds[1] {
		return respondError(c, types.BadRequest("INVALID_KIND",
			fmt.Sprintf("kind must be one of: %s", strings.Join(uploadKinds, ", "))))
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return respondError(c, types.BadRequest("MISSING_FILE", "A file is required"))
	}
	contentType := fh.Header.Get(fiber.HeaderContentType)
	if !strings.HasPrefix(strings.ToLower(contentType), kind+"/") {
		return respondError(c, types.BadRequest("INVALID_FILE_TYPE",
			fmt.Sprintf("File must be a %s/* type, got %q", kind, contentType)))
	}

	f, err := fh.Open()
	if err != nil {
		return respondError(c, fmt.Errorf("failed to read upload: %w", err))
	}
	defer f.Close()

	obj, err := h.Store.Upload(c.UserContext(), kind, fh.Filename, contentType, f, fh.Size)
	if err != nil {
		if errors.Is(err, storage.ErrUnavailable) {
			return respondError(c, errStorageUnavailable)
		}
		return respondError(c, err)
	}

	zap.S().Infow("File uploaded", "key", obj.Key, "size", fh.Size, "user_id", actor(c).UserID)
	return utils.SuccessResponse(c, obj, fiber.StatusCreated)
}
