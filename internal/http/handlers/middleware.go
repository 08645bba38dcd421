package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"autoshop/internal/i18n"
	applog "autoshop/internal/log"
	"autoshop/internal/validate"
)

const (
	defaultLocale = "en"

	visitorCookie = "vid"
	visitorTTL    = 365 * 24 * time.Hour
)

// Visitor assigns every browser a stable anonymous id used for segment tracking.
func Visitor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		vid := c.Cookies(visitorCookie)
		if _, err := uuid.Parse(vid); err != nil {
			vid = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     visitorCookie,
				Value:    vid,
				Path:     "/",
				Expires:  time.Now().Add(visitorTTL),
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
		c.Locals(localsVisitor, vid)
		return c.Next()
	}
}

// Locale picks the request locale from ?locale=, then Accept-Language, then the default.
func Locale(tr *i18n.Translator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		locale := validate.Locale(c.Query("locale"), tr.Supports, "")
		if locale == "" {
			locale = c.AcceptsLanguages(tr.Locales()...)
		}
		if locale == "" {
			locale = tr.DefaultLocale()
		}
		c.Locals(localsLocale, locale)
		return c.Next()
	}
}

// ErrorHandler logs the failure and renders a friendly page without internal details.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Something went wrong. Please try again."
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		if code < fiber.StatusInternalServerError {
			msg = fe.Message
		}
	}
	if code >= fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, nil)
	} else {
		applog.Info(c, "http.client_error", map[string]any{"status": code, "msg": fe.Message})
	}
	if rerr := render(c.Status(code), "notfound", fiber.Map{"Message": msg}); rerr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}
