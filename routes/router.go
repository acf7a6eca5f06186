package routes

import (
	"conecta.church/configs"
	"conecta.church/pkg/mailer"
	"conecta.church/services"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"gorm.io/gorm"
)

// Deps carries the shared collaborators the route groups need.
type Deps struct {
	DB     *gorm.DB
	Mailer mailer.Mailer
	Store  *session.Store

	Users       services.IUserService
	Forms       services.IFormService
	Access      services.IAccessService
	Submissions services.ISubmissionService
}

// NewDeps wires the service graph on a database handle and mail transport.
func NewDeps(db *gorm.DB, m mailer.Mailer) *Deps {
	notifier := services.NewNotificationService(m)
	return &Deps{
		DB:          db,
		Mailer:      m,
		Store:       configs.SetupSession(),
		Users:       services.NewUserService(db),
		Forms:       services.NewFormService(db),
		Access:      services.NewAccessService(db),
		Submissions: services.NewSubmissionService(db, notifier),
	}
}

// SetupRoutes installs the global middleware and every route group.
func SetupRoutes(app *fiber.App, deps *Deps) {
	app.Use(recover.New())
	app.Use(logger.New())

	prometheus := fiberprometheus.New("conecta_forms")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	app.Use(sessionLocals(deps.Store))

	registerAuthRoutes(app, deps)
	registerPanelRoutes(app, deps)
	registerPublicRoutes(app, deps)

	app.Use(notFoundHandler)
}

// sessionLocals exposes the signed-in user to handlers through Locals.
// Absence of a session is not an error; public routes run anonymous.
func sessionLocals(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return c.Next()
		}
		if userID, ok := sess.Get("user_id").(uint); ok && userID != 0 {
			c.Locals("userID", userID)
			if name, ok := sess.Get("user_name").(string); ok {
				c.Locals("userName", name)
			}
		}
		return c.Next()
	}
}

// requireStaff guards the panel group.
func requireStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userID, ok := c.Locals("userID").(uint); !ok || userID == 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authentication required"})
		}
		return c.Next()
	}
}

func notFoundHandler(c *fiber.Ctx) error {
	if c.Accepts("application/json", "text/html") == "text/html" {
		return c.Status(fiber.StatusNotFound).Render("errors/404", fiber.Map{"Title": "Page not found"})
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "resource not found"})
}
