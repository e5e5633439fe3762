package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"docflow/internal/service"
)

// ListLibrary godoc
// @Summary List library items
// @Tags library
// @Produce json
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} service.LibraryListResult
// @Failure 400 {object} errorPayload
// @Router /api/library [get]
func ListLibrary(library service.LibraryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := library.List(c.UserContext(), limit, offset)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}

// GetLibraryItem godoc
// @Summary Get a library item
// @Tags library
// @Produce json
// @Param id path string true "Library item ID (UUID)"
// @Success 200 {object} model.LibraryItem
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /api/library/{id} [get]
func GetLibraryItem(library service.LibraryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		item, err := library.Get(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(item)
	}
}

// DownloadURL godoc
// @Summary Presigned download URL for a library item
// @Tags library
// @Produce json
// @Param id path string true "Library item ID (UUID)"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errorPayload
// @Router /api/library/{id}/download-url [get]
func DownloadURL(library service.LibraryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		u, err := library.DownloadURL(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"url": u})
	}
}
