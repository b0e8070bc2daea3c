package handlers

import (
	"study/internal/flash"
	"study/internal/forms"
	"study/internal/middleware"
	"study/internal/paths"
	"study/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SettingsHandler serves the account settings pages.
type SettingsHandler struct {
	service *services.SettingsService
	flash   *flash.Store
	logger  *zap.Logger
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(service *services.SettingsService, flashes *flash.Store, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		service: service,
		flash:   flashes,
		logger:  logger,
	}
}

// RegisterRoutes registers the settings routes. Every route needs a signed-in account.
func (h *SettingsHandler) RegisterRoutes(router fiber.Router) {
	settings := router.Group(paths.Settings, middleware.AuthRequired())
	settings.Get("/profile", h.HandleProfileForm)
	settings.Post("/profile", h.HandleUpdateProfile)
	settings.Get("/password", h.HandlePasswordForm)
	settings.Post("/password", h.HandleUpdatePassword)
}

// HandleProfileForm renders the profile form with the current values.
func (h *SettingsHandler) HandleProfileForm(c *fiber.Ctx) error {
	view, err := h.service.RenderProfileForm(c.UserContext(), middleware.Nickname(c))
	if err != nil {
		return err
	}

	message, err := h.flash.Pop(c, paths.SettingsProfile)
	if err != nil {
		h.logger.Warn("failed to read flash message", zap.Error(err))
	}
	return h.renderProfile(c, view, nil, message)
}

// HandleUpdateProfile applies a profile change and redirects back to the
// form, or re-renders it with the submitted values and errors.
func (h *SettingsHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var form forms.ProfileForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid form submission.")
	}

	view, result, err := h.service.SubmitProfileUpdate(c.UserContext(), middleware.Nickname(c), form)
	if err != nil {
		return err
	}
	if !result.Applied() {
		return h.renderProfile(c, view, result.Errors, "")
	}

	if err := h.flash.Put(c, result.Notice.Path, result.Notice.Message); err != nil {
		// The change is stored; only the confirmation is lost.
		h.logger.Warn("failed to queue flash message", zap.Error(err))
	}
	return c.Redirect(result.Notice.Path)
}

// HandlePasswordForm renders an empty password form.
func (h *SettingsHandler) HandlePasswordForm(c *fiber.Ctx) error {
	view, err := h.service.RenderPasswordForm(c.UserContext(), middleware.Nickname(c))
	if err != nil {
		return err
	}
	return h.renderPassword(c, view, nil, "")
}

// HandleUpdatePassword changes the password and re-renders the form with
// either the errors or an inline confirmation.
func (h *SettingsHandler) HandleUpdatePassword(c *fiber.Ctx) error {
	var form forms.PasswordForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid form submission.")
	}

	view, result, err := h.service.SubmitPasswordUpdate(c.UserContext(), middleware.Nickname(c), form)
	if err != nil {
		return err
	}
	return h.renderPassword(c, view, result.Errors, result.Message)
}

func (h *SettingsHandler) renderProfile(c *fiber.Ctx, view services.ProfileView, errs forms.FieldErrors, message string) error {
	return c.Status(fiber.StatusOK).Render(paths.ViewSettingsProfile, fiber.Map{
		"title":   "Profile",
		"account": view.Account,
		"profile": view.Profile,
		"errors":  nonNil(errs),
		"message": message,
		"csrf":    middleware.CSRFToken(c),
	})
}

func (h *SettingsHandler) renderPassword(c *fiber.Ctx, view services.PasswordView, errs forms.FieldErrors, message string) error {
	return c.Status(fiber.StatusOK).Render(paths.ViewSettingsPassword, fiber.Map{
		"title":        "Password",
		"account":      view.Account,
		"passwordForm": view.PasswordForm,
		"errors":       nonNil(errs),
		"message":      message,
		"csrf":         middleware.CSRFToken(c),
	})
}

func nonNil(errs forms.FieldErrors) forms.FieldErrors {
	if errs == nil {
		return forms.FieldErrors{}
	}
	return errs
}
