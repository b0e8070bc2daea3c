package handlers

import (
	"errors"

	"study/internal/middleware"
	"study/internal/paths"
	"study/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler turns errors returned by handlers into an error page.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Something went wrong. Please try again."

		var fiberErr *fiber.Error
		var persistenceErr *services.PersistenceError
		switch {
		case errors.As(err, &fiberErr):
			code = fiberErr.Code
			message = fiberErr.Message
		case errors.Is(err, services.ErrAccountNotFound):
			code = fiber.StatusNotFound
			message = "Account not found."
			logger.Warn("signed-in account does not exist", zap.String("path", c.Path()), zap.Error(err))
		case errors.Is(err, services.ErrAccountExists):
			code = fiber.StatusConflict
			message = "This account already exists."
		case errors.As(err, &persistenceErr):
			logger.Error("account store failure", zap.String("op", persistenceErr.Op), zap.String("path", c.Path()), zap.Error(err))
		default:
			logger.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		}

		renderErr := c.Status(code).Render(paths.ViewError, fiber.Map{
			"title":   "Error",
			"status":  code,
			"error":   message,
			"account": nil,
			"message": "",
			"csrf":    middleware.CSRFToken(c),
		})
		if renderErr != nil {
			return c.Status(code).SendString(message)
		}
		return nil
	}
}
