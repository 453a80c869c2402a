package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"salesledger/internal/domain"
	applog "salesledger/internal/log"
	"salesledger/internal/services"
)

// AttachUser puts the session user, if any, into Locals("user").
func AttachUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := auth.CurrentUser(c.UserContext(), sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	}
}

// RequireUser enforces that a user is logged in. Pages redirect to the login
// form; API calls get a 401.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if u, ok := c.Locals("user").(*domain.User); ok && u != nil {
			return c.Next()
		}
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := auth.CurrentUser(c.UserContext(), sid); err == nil && u != nil {
				c.Locals("user", u)
				return c.Next()
			}
		}
		if strings.HasPrefix(c.Path(), "/api/") {
			applog.Security(c, "access.denied.api", nil)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "login required"})
		}
		return c.Redirect("/login")
	}
}
