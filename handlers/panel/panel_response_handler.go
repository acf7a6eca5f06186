package handlers

import (
	"conecta.church/pkg/queryparams"
	"conecta.church/repositories"
	"conecta.church/services"

	"github.com/gofiber/fiber/v2"
)

// PanelResponseHandler lists the submissions a form has received. Read
// only: responses are append-only and never editable from the panel.
type PanelResponseHandler struct {
	forms     services.IFormService
	responses repositories.IResponseRepository
}

// NewPanelResponseHandler builds the handler on the given collaborators.
func NewPanelResponseHandler(forms services.IFormService, responses repositories.IResponseRepository) *PanelResponseHandler {
	return &PanelResponseHandler{forms: forms, responses: responses}
}

// ListResponses handles GET /panel/forms/:id/responses. Ownership is
// checked through the form service before anything is read.
func (h *PanelResponseHandler) ListResponses(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid form id"})
	}

	if _, err := h.forms.GetFormByID(c.UserContext(), uint(id), CurrentUserID(c)); err != nil {
		return serviceError(c, err)
	}

	params := queryparams.DefaultListParams("submitted_at")
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.DefaultListParams("submitted_at")
	}
	params.Validate()

	rows, totalCount, err := h.responses.FindAllByFormPaginated(c.UserContext(), uint(id), params)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(queryparams.PaginatedResult{
		Data: rows,
		Meta: queryparams.PaginationMeta{
			CurrentPage: params.Page,
			PerPage:     params.PerPage,
			TotalItems:  totalCount,
			TotalPages:  queryparams.CalculateTotalPages(totalCount, params.PerPage),
		},
	})
}
