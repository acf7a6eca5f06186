package routes

import (
	panelhandlers "conecta.church/handlers/panel"
	"conecta.church/repositories"

	"github.com/gofiber/fiber/v2"
)

func registerPanelRoutes(app *fiber.App, deps *Deps) {
	formHandler := panelhandlers.NewPanelFormHandler(deps.Forms)
	responseHandler := panelhandlers.NewPanelResponseHandler(deps.Forms, repositories.NewResponseRepository(deps.DB))

	panel := app.Group("/panel", requireStaff())

	panel.Get("/fieldtypes", formHandler.ListFieldTypes)

	panel.Get("/forms", formHandler.ListForms)
	panel.Post("/forms", formHandler.CreateForm)
	panel.Get("/forms/:id", formHandler.GetForm)
	panel.Put("/forms/:id", formHandler.UpdateForm)
	panel.Delete("/forms/:id", formHandler.DeleteForm)
	panel.Post("/forms/:id/publish", formHandler.PublishForm)
	panel.Post("/forms/:id/close", formHandler.CloseForm)

	panel.Get("/forms/:id/responses", responseHandler.ListResponses)
}
