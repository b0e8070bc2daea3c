package handlers

import (
	"errors"

	"study/internal/forms"
	"study/internal/middleware"
	"study/internal/models"
	"study/internal/paths"
	"study/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler handles sign-up, login and logout pages.
type AuthHandler struct {
	accountService *services.AccountService
	logger         *zap.Logger
	secureCookies  bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accountService *services.AccountService, logger *zap.Logger, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		accountService: accountService,
		logger:         logger,
		secureCookies:  secureCookies,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Get(paths.Home, h.HandleHome)
	router.Get(paths.SignUp, h.HandleSignUpForm)
	router.Post(paths.SignUp, h.HandleSignUp)
	router.Get(paths.Login, h.HandleLoginForm)
	router.Post(paths.Login, h.HandleLogin)
	router.Post(paths.Logout, h.HandleLogout)
}

// HandleHome renders the start page.
func (h *AuthHandler) HandleHome(c *fiber.Ctx) error {
	var account *models.Account
	if nickname := middleware.Nickname(c); nickname != "" {
		account = &models.Account{Nickname: nickname}
	}
	return c.Render(paths.ViewHome, fiber.Map{
		"title":   "Home",
		"account": account,
		"message": "",
		"csrf":    middleware.CSRFToken(c),
	})
}

// HandleSignUpForm renders an empty sign-up form.
func (h *AuthHandler) HandleSignUpForm(c *fiber.Ctx) error {
	return h.renderSignUp(c, fiber.StatusOK, forms.SignUpForm{}, nil)
}

// HandleSignUp creates the account and signs it in.
func (h *AuthHandler) HandleSignUp(c *fiber.Ctx) error {
	var form forms.SignUpForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid form submission.")
	}

	account, fieldErrors, err := h.accountService.SignUp(c.UserContext(), form)
	if err != nil {
		if errors.Is(err, services.ErrAccountExists) {
			return h.renderSignUp(c, fiber.StatusConflict, form, forms.FieldErrors{"nickname": "This account already exists."})
		}
		return err
	}
	if fieldErrors != nil {
		form.Password = ""
		return h.renderSignUp(c, fiber.StatusOK, form, fieldErrors)
	}

	token, err := h.accountService.IssueToken(account)
	if err != nil {
		return err
	}
	middleware.SetAccessToken(c, token, h.accountService.TokenTTL(), h.secureCookies)
	return c.Redirect(paths.Home)
}

// HandleLoginForm renders an empty login form.
func (h *AuthHandler) HandleLoginForm(c *fiber.Ctx) error {
	return h.renderLogin(c, fiber.StatusOK, forms.LoginForm{}, nil)
}

// HandleLogin checks the credentials and stores the access token cookie.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var form forms.LoginForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid form submission.")
	}

	token, err := h.accountService.Login(c.UserContext(), form.Username, form.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.logger.Info("login failed", zap.String("username", form.Username))
			form.Password = ""
			return h.renderLogin(c, fiber.StatusUnauthorized, form, forms.FieldErrors{"": "Invalid nickname, email or password."})
		}
		return err
	}

	middleware.SetAccessToken(c, token, h.accountService.TokenTTL(), h.secureCookies)
	return c.Redirect(paths.Home)
}

// HandleLogout clears the access token cookie.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	middleware.ClearAccessToken(c)
	return c.Redirect(paths.Login)
}

func (h *AuthHandler) renderSignUp(c *fiber.Ctx, status int, form forms.SignUpForm, errs forms.FieldErrors) error {
	return c.Status(status).Render(paths.ViewSignUp, fiber.Map{
		"title":   "Sign up",
		"account": nil,
		"form":    form,
		"errors":  nonNil(errs),
		"message": "",
		"csrf":    middleware.CSRFToken(c),
	})
}

func (h *AuthHandler) renderLogin(c *fiber.Ctx, status int, form forms.LoginForm, errs forms.FieldErrors) error {
	return c.Status(status).Render(paths.ViewLogin, fiber.Map{
		"title":   "Log in",
		"account": nil,
		"form":    form,
		"errors":  nonNil(errs),
		"message": "",
		"csrf":    middleware.CSRFToken(c),
	})
}
