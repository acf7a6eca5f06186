package routes

import (
	publichandlers "conecta.church/handlers/public"

	"github.com/gofiber/fiber/v2"
)

func registerPublicRoutes(app *fiber.App, deps *Deps) {
	handler := publichandlers.NewPublicFormHandler(deps.Access, deps.Submissions)

	// JSON contract for respondent clients.
	app.Get("/forms/public/:token", handler.GetForm)
	app.Post("/forms/public/:token", handler.SubmitForm)

	// Server-rendered fill page.
	app.Get("/f/:token", handler.RenderForm)
}
