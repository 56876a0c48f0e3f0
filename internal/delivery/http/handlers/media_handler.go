package handlers

import (
	"strings"

	"artfolio/internal/infrastructure/storage"

	"github.com/gofiber/fiber/v2"
)

// MediaHandler serves objects held by the in-memory storage driver. Local and
// S3 storage are served by the static middleware and the bucket itself.
type MediaHandler struct {
	store *storage.MemoryStorage
}

func NewMediaHandler(store *storage.MemoryStorage) *MediaHandler {
	return &MediaHandler{store: store}
}

func (h *MediaHandler) GetMedia(c *fiber.Ctx) error {
	key := strings.TrimPrefix(c.Params("*"), "/")
	body, contentType, ok := h.store.Open(key)
	if !ok {
		return fiber.ErrNotFound
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderCacheControl, "public, max-age=31536000, immutable")
	return c.SendStream(body)
}
