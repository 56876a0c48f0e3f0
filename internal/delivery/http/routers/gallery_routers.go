package routers

import (
	"artfolio/internal/delivery/http/handlers"
	"artfolio/internal/usecases"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func SetupGalleryRoutes(app *fiber.App, gallery *usecases.GalleryService, log *zap.Logger) {
	galleryHandler := handlers.NewGalleryHandler(gallery, log)

	api := app.Group("/api/v1")
	api.Get("/portfolios", galleryHandler.ListPortfolios)
	api.Get("/portfolios/:id", galleryHandler.GetPortfolio)
	api.Get("/portfolios/:id/works/:workId", galleryHandler.GetWork)

	app.Get("/", galleryHandler.HomePage)
	app.Get("/portfolio/:id", galleryHandler.PortfolioPage)
	app.Get("/portfolio/:id/works/:workId", galleryHandler.WorkPage)

	for path, title := range map[string]string{
		"/about":     "About",
		"/documents": "Documents",
		"/skills":    "Skills",
		"/socials":   "Socials",
		"/contact":   "Contact",
	} {
		app.Get(path, galleryHandler.Placeholder(title))
	}
}
