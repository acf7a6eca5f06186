package routes

import (
	authhandlers "conecta.church/handlers/auth"

	"github.com/gofiber/fiber/v2"
)

func registerAuthRoutes(app *fiber.App, deps *Deps) {
	handler := authhandlers.NewAuthHandler(deps.Users, deps.Store)

	auth := app.Group("/auth")
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.Logout)
}
