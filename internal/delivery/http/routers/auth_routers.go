package routers

import (
	"artfolio/internal/auth"
	"artfolio/internal/delivery/http/handlers"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func SetupAuthRoutes(app *fiber.App, provider *auth.Provider, secureCookie bool, log *zap.Logger) {
	authHandler := handlers.NewAuthHandler(provider, secureCookie, log)
	requireSession := handlers.RequireSession(provider, log)

	api := app.Group("/api/v1/auth")
	api.Post("/login", authHandler.Login)
	api.Post("/logout", requireSession, authHandler.Logout)
	api.Get("/me", requireSession, authHandler.Me)
}
