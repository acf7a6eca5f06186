package handlers

import (
	"errors"

	"conecta.church/configs/configslog"
	"conecta.church/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"go.uber.org/zap"
)

// AuthHandler is the session glue: login and logout against the staff
// users table. Authorization nuances live elsewhere.
type AuthHandler struct {
	users services.IUserService
	store *session.Store
}

// NewAuthHandler builds the handler on the given user service and session
// store.
func NewAuthHandler(users services.IUserService, store *session.Store) *AuthHandler {
	return &AuthHandler{users: users, store: store}
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid login payload"})
	}

	user, err := h.users.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": services.ErrInvalidCredentials.Error()})
		}
		configslog.Log.Error("login failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}

	sess, err := h.store.Get(c)
	if err != nil {
		configslog.Log.Error("session start failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
	sess.Set("user_id", user.ID)
	sess.Set("user_name", user.Name)
	if err := sess.Save(); err != nil {
		configslog.Log.Error("session save failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}

	configslog.SLog.Infof("user logged in: id=%d", user.ID)
	return c.JSON(fiber.Map{"id": user.ID, "name": user.Name, "email": user.Email})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err == nil {
		_ = sess.Destroy()
	}
	return c.JSON(fiber.Map{"success": true})
}
