package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
)

const (
	CSRFCookie    = "csrf_"
	CSRFFormField = "_csrf"
	CSRFHeader    = "X-Csrf-Token"

	localsCSRF = "csrf"
)

var errMissingCSRFToken = errors.New("missing anti-forgery token")

// CSRF requires a token matching the csrf cookie on every state-changing
// request. Forms send it as the _csrf field, scripts as the X-Csrf-Token header.
// Tokens are kept in storage, or in process memory when storage is nil.
func CSRF(secure bool, storage fiber.Storage) fiber.Handler {
	return csrf.New(csrf.Config{
		Storage:        storage,
		CookieName:     CSRFCookie,
		CookiePath:     "/",
		CookieSecure:   secure,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		Expiration:     2 * time.Hour,
		ContextKey:     localsCSRF,
		Extractor: func(c *fiber.Ctx) (string, error) {
			if token := c.FormValue(CSRFFormField); token != "" {
				return token, nil
			}
			if token := c.Get(CSRFHeader); token != "" {
				return token, nil
			}
			return "", errMissingCSRFToken
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return fiber.NewError(fiber.StatusForbidden, "Invalid or missing anti-forgery token.")
		},
	})
}

// CSRFToken returns the token views must embed in their forms.
func CSRFToken(c *fiber.Ctx) string {
	if token, ok := c.Locals(localsCSRF).(string); ok && token != "" {
		return token
	}
	return c.Cookies(CSRFCookie)
}
