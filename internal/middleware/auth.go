package middleware

import (
	"strings"
	"time"

	"study/internal/paths"
	"study/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	// AccessTokenCookie holds the signed-in account's token for browser requests.
	AccessTokenCookie = "access_token"

	localsNickname = "nickname"
)

// Authenticate resolves the current account from a Bearer token or the
// access token cookie and stores its nickname for later handlers. Requests
// without a token pass through anonymously.
func Authenticate(accountService *services.AccountService, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
			// Expected format: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if !(len(parts) == 2 && parts[0] == "Bearer") {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"message": "Authorization header format must be 'Bearer <token>'",
				})
			}
			claims, err := accountService.ValidateToken(parts[1])
			if err != nil {
				logger.Debug("bearer token rejected", zap.Error(err))
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"message": "Invalid or expired token",
				})
			}
			c.Locals(localsNickname, claims["nickname"])
			return c.Next()
		}

		if token := c.Cookies(AccessTokenCookie); token != "" {
			claims, err := accountService.ValidateToken(token)
			if err != nil {
				logger.Debug("access token cookie rejected", zap.Error(err))
				ClearAccessToken(c)
				return c.Next()
			}
			c.Locals(localsNickname, claims["nickname"])
		}
		return c.Next()
	}
}

// AuthRequired sends anonymous visitors to the login page.
func AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if Nickname(c) == "" {
			return c.Redirect(paths.Login)
		}
		return c.Next()
	}
}

// Nickname returns the signed-in account's nickname, or "" for anonymous requests.
func Nickname(c *fiber.Ctx) string {
	nickname, _ := c.Locals(localsNickname).(string)
	return nickname
}

// SetAccessToken stores a freshly issued token in an HTTP-only cookie.
func SetAccessToken(c *fiber.Ctx, token string, ttl time.Duration, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     AccessTokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ClearAccessToken expires the access token cookie.
func ClearAccessToken(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     AccessTokenCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
