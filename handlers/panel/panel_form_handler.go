package handlers

import (
	"errors"

	"conecta.church/configs/configslog"
	"conecta.church/pkg/fieldtypes"
	"conecta.church/pkg/queryparams"
	"conecta.church/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PanelFormHandler is the staff JSON API for authoring forms.
type PanelFormHandler struct {
	service services.IFormService
}

// NewPanelFormHandler builds the handler on the given form service.
func NewPanelFormHandler(service services.IFormService) *PanelFormHandler {
	return &PanelFormHandler{service: service}
}

// CurrentUserID reads the authenticated staff user from the session
// locals. Zero means no session.
func CurrentUserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals("userID").(uint); ok {
		return id
	}
	return 0
}

func serviceError(c *fiber.Ctx, err error) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": verr.Violations})
	case errors.Is(err, services.ErrFormNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": services.ErrFormNotFound.Error()})
	case errors.Is(err, services.ErrFormForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": services.ErrFormForbidden.Error()})
	case errors.Is(err, services.ErrFormNotDraft), errors.Is(err, services.ErrFormNotPublished):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	configslog.Log.Error("panel form request failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}

// ListFieldTypes returns the builder palette from the type registry.
func (h *PanelFormHandler) ListFieldTypes(c *fiber.Ctx) error {
	type paletteEntry struct {
		Type               string `json:"type"`
		Label              string `json:"label"`
		DefaultLabel       string `json:"defaultLabel"`
		DefaultPlaceholder string `json:"defaultPlaceholder,omitempty"`
		RequiresOptions    bool   `json:"requiresOptions"`
	}
	defs := fieldtypes.All()
	palette := make([]paletteEntry, 0, len(defs))
	for _, d := range defs {
		palette = append(palette, paletteEntry{
			Type:               string(d.Type),
			Label:              d.Label,
			DefaultLabel:       d.DefaultLabel,
			DefaultPlaceholder: d.DefaultPlaceholder,
			RequiresOptions:    d.RequiresOptions,
		})
	}
	return c.JSON(palette)
}

// ListForms handles GET /panel/forms.
func (h *PanelFormHandler) ListForms(c *fiber.Ctx) error {
	userID := CurrentUserID(c)

	params := queryparams.DefaultListParams("created_at")
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.DefaultListParams("created_at")
	}
	params.Validate()

	result, err := h.service.ListFormsForUser(c.UserContext(), userID, params)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(result)
}

// GetForm handles GET /panel/forms/:id.
func (h *PanelFormHandler) GetForm(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid form id"})
	}
	form, err := h.service.GetFormByID(c.UserContext(), uint(id), CurrentUserID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(form)
}

// CreateForm handles POST /panel/forms.
func (h *PanelFormHandler) CreateForm(c *fiber.Ctx) error {
	var input services.FormInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"type": "malformed", "error": "invalid form payload"})
	}
	form, err := h.service.CreateForm(c.UserContext(), CurrentUserID(c), input)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(form)
}

// UpdateForm handles PUT /panel/forms/:id with a whole-tree replace-set.
func (h *PanelFormHandler) UpdateForm(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid form id"})
	}
	var input services.FormInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"type": "malformed", "error": "invalid form payload"})
	}
	form, err := h.service.UpdateForm(c.UserContext(), uint(id), CurrentUserID(c), input)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(form)
}

// DeleteForm handles DELETE /panel/forms/:id.
func (h *PanelFormHandler) DeleteForm(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid form id"})
	}
	if err := h.service.DeleteForm(c.UserContext(), uint(id), CurrentUserID(c)); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// PublishForm handles POST /panel/forms/:id/publish.
func (h *PanelFormHandler) PublishForm(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid form id"})
	}
	form, err := h.service.PublishForm(c.UserContext(), uint(id), CurrentUserID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(form)
}

// CloseForm handles POST /panel/forms/:id/close.
func (h *PanelFormHandler) CloseForm(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid form id"})
	}
	form, err := h.service.CloseForm(c.UserContext(), uint(id), CurrentUserID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(form)
}
