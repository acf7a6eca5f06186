package handlers

import (
	"errors"

	"conecta.church/configs/configslog"
	"conecta.church/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PublicFormHandler serves the token-addressed respondent endpoints.
type PublicFormHandler struct {
	access      services.IAccessService
	submissions services.ISubmissionService
}

// NewPublicFormHandler builds the handler on the given services.
func NewPublicFormHandler(access services.IAccessService, submissions services.ISubmissionService) *PublicFormHandler {
	return &PublicFormHandler{access: access, submissions: submissions}
}

// VisitorFromLocals reads the session middleware's locals into the
// resolver's collaborator shape.
func VisitorFromLocals(c *fiber.Ctx) services.Visitor {
	userID, ok := c.Locals("userID").(uint)
	return services.Visitor{Authenticated: ok && userID != 0, UserID: userID}
}

// GetForm handles GET /forms/public/:token and returns the sanitized form.
func (h *PublicFormHandler) GetForm(c *fiber.Ctx) error {
	token := c.Params("token")
	form, err := h.access.ResolveForRead(c.UserContext(), token, VisitorFromLocals(c))
	if err != nil {
		return h.accessError(c, token, err)
	}
	return c.JSON(form)
}

// SubmitForm handles POST /forms/public/:token.
func (h *PublicFormHandler) SubmitForm(c *fiber.Ctx) error {
	token := c.Params("token")

	var envelope services.SubmissionEnvelope
	if err := c.BodyParser(&envelope); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"type":  "malformed",
			"error": "request body is not a valid submission envelope",
		})
	}
	// A missing formId or answers array is a client bug, not a user
	// input problem; keep it distinct from validation failures.
	if envelope.FormID == 0 || envelope.Answers == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"type":  "malformed",
			"error": "formId and answers are required",
		})
	}

	response, err := h.submissions.Submit(c.UserContext(), token, VisitorFromLocals(c), envelope)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": verr.Violations})
		}
		if errors.Is(err, services.ErrResponseSaveFailed) {
			// Not retried here: a retry could record the answers twice.
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "submission could not be saved, please try again",
			})
		}
		return h.accessError(c, token, err)
	}

	return c.JSON(fiber.Map{"success": true, "responseId": response.ID})
}

// RenderForm handles GET /f/:token, the server-rendered fill page.
func (h *PublicFormHandler) RenderForm(c *fiber.Ctx) error {
	token := c.Params("token")
	form, err := h.access.ResolveForRead(c.UserContext(), token, VisitorFromLocals(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFormExpired):
			return c.Status(fiber.StatusGone).Render("errors/gone", fiber.Map{"Title": "Form closed"})
		case errors.Is(err, services.ErrFormAuthRequired):
			return c.Redirect("/auth/login?next=/f/"+token, fiber.StatusSeeOther)
		case errors.Is(err, services.ErrFormNotFound):
			return c.Status(fiber.StatusNotFound).Render("errors/404", fiber.Map{"Title": "Form not found"})
		}
		configslog.Log.Error("RenderForm failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).Render("errors/500", fiber.Map{"Title": "Something went wrong"})
	}
	return c.Render("public/form_fill", fiber.Map{
		"Title": form.Title,
		"Form":  form,
		"Token": token,
	})
}

func (h *PublicFormHandler) accessError(c *fiber.Ctx, token string, err error) error {
	switch {
	case errors.Is(err, services.ErrFormNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "form not available"})
	case errors.Is(err, services.ErrFormExpired):
		return c.Status(fiber.StatusGone).JSON(fiber.Map{"error": "this form has closed"})
	case errors.Is(err, services.ErrFormAuthRequired):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"requireAuth": true,
			"error":       "authentication required",
		})
	}
	configslog.Log.Error("public form access failed", zap.String("token", token), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}
