package routers

import (
	"artfolio/internal/delivery/http/handlers"
	"artfolio/internal/domain/repositories"
	"artfolio/internal/infrastructure/storage"
	"artfolio/pkg/config"

	"github.com/gofiber/fiber/v2"
)

// SetupMediaRoutes serves uploaded images under /media for the storage
// drivers that do not have their own public endpoint.
func SetupMediaRoutes(app *fiber.App, cfg *config.Config, store repositories.ObjectStorage) {
	switch s := store.(type) {
	case *storage.MemoryStorage:
		app.Get("/media/*", handlers.NewMediaHandler(s).GetMedia)
	case *storage.LocalStorage:
		app.Static("/media", cfg.Storage.LocalDir, fiber.Static{MaxAge: 31536000})
	}
}
