package forms

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

const nicknameTag = "nickname"

var nicknamePattern = regexp.MustCompile(`^[a-z0-9_-]{3,20}$`)

// FieldErrors maps a form field name to a message shown next to the input.
type FieldErrors map[string]string

// Has reports whether the field has an error.
func (e FieldErrors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Validator validates form structs.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a Validator with the site's custom tags registered.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	if err := v.RegisterValidation(nicknameTag, func(fl validator.FieldLevel) bool {
		return nicknamePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return &Validator{validate: v}
}

// Validate returns nil when form is valid, or the failing fields.
func (v *Validator) Validate(form interface{}) FieldErrors {
	err := v.validate.Struct(form)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return FieldErrors{"": err.Error()}
	}
	fieldErrors := make(FieldErrors, len(validationErrors))
	for _, e := range validationErrors {
		if _, seen := fieldErrors[e.Field()]; seen {
			continue
		}
		fieldErrors[e.Field()] = message(e)
	}
	return fieldErrors
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Must be at most %s characters.", e.Param())
	case "min":
		return fmt.Sprintf("Must be at least %s characters.", e.Param())
	case "email":
		return "Enter a valid email address."
	case "url":
		return "Enter a valid URL."
	case "eqfield":
		return "The new passwords do not match."
	case nicknameTag:
		return "Use 3 to 20 lowercase letters, digits, '_' or '-'."
	default:
		return fmt.Sprintf("Failed on the '%s' rule.", e.Tag())
	}
}
