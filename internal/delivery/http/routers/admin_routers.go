package routers

import (
	"artfolio/internal/auth"
	"artfolio/internal/delivery/http/handlers"
	"artfolio/internal/usecases"
	"artfolio/pkg/config"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes mounts the dashboard API. Every route requires a session.
func SetupAdminRoutes(app *fiber.App, cfg *config.Config, provider *auth.Provider, deps usecases.Deps) {
	adminHandler := handlers.NewAdminHandler(usecases.NewDashboard(deps), cfg.Upload.MaxFileSize, deps.Log)
	cleanupHandler := handlers.NewCleanupHandler(usecases.NewCleanupService(deps), cfg.Cleanup.MinAge, deps.Log)

	admin := app.Group("/api/v1/admin", handlers.RequireSession(provider, deps.Log))
	admin.Get("/portfolios", adminHandler.ListPortfolios)
	admin.Post("/portfolios", adminHandler.CreatePortfolio)
	admin.Delete("/portfolios/:id", adminHandler.DeletePortfolio)
	admin.Get("/portfolios/:id/works", adminHandler.ListWorks)
	admin.Post("/portfolios/:id/works", adminHandler.CreateWork)
	admin.Put("/portfolios/:id/works/:workId", adminHandler.UpdateWork)
	admin.Delete("/portfolios/:id/works/:workId", adminHandler.DeleteWork)
	admin.Post("/cleanup", cleanupHandler.SweepOrphans)
}
