package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"salesledger/internal/log"
	"salesledger/internal/services"
	"salesledger/internal/validate"
)

type AuthHandler struct {
	Auth         *services.AuthService
	CookieSecure bool
}

func (h *AuthHandler) ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   h.CookieSecure,
		})
	}
	return sid
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{"Err": ""})
}

func (h *AuthHandler) loginFailed(c *fiber.Ctx, email, reason string) error {
	log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": reason})
	c.Status(fiber.StatusUnauthorized)
	return render(c, "login", fiber.Map{"Err": "Invalid email or password", "Email": email})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := h.ensureSID(c)
	email := c.FormValue("email")
	pass := c.FormValue("password")
	if _, ok := validate.Email(email); !ok {
		return h.loginFailed(c, email, "bad_format")
	}
	if !validate.Password(pass) {
		return h.loginFailed(c, email, "bad_password_format")
	}
	if _, err := h.Auth.Login(c.UserContext(), sid, email, pass); err != nil {
		return h.loginFailed(c, email, "bad_credentials")
	}

	log.Audit(c, "auth.login.success", map[string]any{"email": email})
	return c.Redirect("/reports")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := h.ensureSID(c)
	if err := h.Auth.Logout(c.UserContext(), sid); err != nil {
		log.Error(c, "auth.logout.fail", err, nil)
	}
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   h.CookieSecure,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	log.Audit(c, "auth.logout", nil)
	return c.Redirect("/login")
}
