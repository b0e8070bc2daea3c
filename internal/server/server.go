// Package server assembles the fiber application from its parts.
package server

import (
	"study/internal/flash"
	"study/internal/handlers"
	"study/internal/middleware"
	"study/internal/services"
	"study/internal/views"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

// Dependencies are the services and stores the app serves.
type Dependencies struct {
	Accounts      *services.AccountService
	Settings      *services.SettingsService
	Flash         *flash.Store
	DB            handlers.Pinger // nil for the in-memory store
	Storage       fiber.Storage   // shared by sessions and csrf tokens; nil keeps them in memory
	Logger        *zap.Logger
	SecureCookies bool
}

// New builds the fiber app with its middleware and routes.
func New(deps Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "study",
		Views:        views.New(),
		ViewsLayout:  views.Layout,
		ErrorHandler: handlers.ErrorHandler(deps.Logger),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(helmet.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${method} ${path} ${latency}\n",
		Output: zap.NewStdLog(deps.Logger).Writer(),
	}))

	handlers.NewHealthHandler(deps.DB).RegisterRoutes(app)

	app.Use(middleware.CSRF(deps.SecureCookies, deps.Storage))
	app.Use(middleware.Authenticate(deps.Accounts, deps.Logger))

	handlers.NewAuthHandler(deps.Accounts, deps.Logger, deps.SecureCookies).RegisterRoutes(app)
	handlers.NewSettingsHandler(deps.Settings, deps.Flash, deps.Logger).RegisterRoutes(app)

	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Page not found.")
	})

	return app
}
