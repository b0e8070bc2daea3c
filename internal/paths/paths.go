// Package paths names the site's URLs and view templates.
package paths

const (
	Home     = "/"
	Health   = "/health"
	Login    = "/login"
	Logout   = "/logout"
	SignUp   = "/sign-up"
	Settings = "/settings"

	SettingsProfile  = "/settings/profile"
	SettingsPassword = "/settings/password"
)

const (
	ViewHome             = "index"
	ViewLogin            = "login"
	ViewSignUp           = "sign-up"
	ViewError            = "error"
	ViewSettingsProfile  = "settings/profile"
	ViewSettingsPassword = "settings/password"
)
