package configs

import (
	"time"

	"github.com/gofiber/fiber/v2/middleware/session"
)

// SetupSession builds the cookie-backed session store used by the auth
// routes and the session middleware.
func SetupSession() *session.Store {
	return session.New(session.Config{
		KeyLookup:      "cookie:conecta_session",
		Expiration:     time.Duration(GetEnvAsInt("SESSION_TTL_HOURS", 72)) * time.Hour,
		CookieHTTPOnly: true,
		CookieSecure:   GetEnvAsBool("SESSION_COOKIE_SECURE", false),
		CookieSameSite: "Lax",
	})
}
