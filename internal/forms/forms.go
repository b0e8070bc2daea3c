// Package forms binds and validates the HTML forms submitted to the site.
package forms

import (
	"strings"

	"study/internal/models"
)

const (
	BioMaxLength      = 35
	PasswordMinLength = 8
	PasswordMaxLength = 50
	NicknameMinLength = 3
	NicknameMaxLength = 20
)

// ProfileForm carries the editable profile fields.
type ProfileForm struct {
	Bio        string `form:"bio" validate:"max=35"`
	URL        string `form:"url" validate:"omitempty,max=50,url"`
	Occupation string `form:"occupation" validate:"max=50"`
	Location   string `form:"location" validate:"max=50"`
}

// NewProfileForm fills the form from the stored profile, using "" for NULL.
func NewProfileForm(p models.Profile) ProfileForm {
	return ProfileForm{
		Bio:        deref(p.Bio),
		URL:        deref(p.URL),
		Occupation: deref(p.Occupation),
		Location:   deref(p.Location),
	}
}

// Profile converts a validated form into the stored shape. Blank fields become
// NULL; other values are kept byte for byte.
func (f ProfileForm) Profile() models.Profile {
	return models.Profile{
		Bio:        nullable(f.Bio),
		URL:        nullable(f.URL),
		Occupation: nullable(f.Occupation),
		Location:   nullable(f.Location),
	}
}

// PasswordForm carries a new password and its confirmation.
type PasswordForm struct {
	NewPassword        string `form:"newPassword" validate:"required,min=8,max=50"`
	NewPasswordConfirm string `form:"newPasswordConfirm" validate:"required,eqfield=NewPassword"`
}

// SignUpForm is submitted from the sign-up page.
type SignUpForm struct {
	Nickname string `form:"nickname" validate:"required,nickname"`
	Email    string `form:"email" validate:"required,email,max=255"`
	Password string `form:"password" validate:"required,min=8,max=50"`
}

// Normalize trims surrounding whitespace and lowercases the email.
func (f *SignUpForm) Normalize() {
	f.Nickname = strings.TrimSpace(f.Nickname)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
}

// LoginForm accepts either a nickname or an email as the username.
type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// nullable maps a blank value to NULL and keeps anything else as submitted,
// so the stored value is the one that was validated.
func nullable(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
