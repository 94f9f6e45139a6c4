package config

import (
	"errors"
	"fmt"
	"go/token"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("goident", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return token.IsIdentifier(s) && s != "_"
	})

	_ = v.RegisterValidation("qualifiedtype", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()

		i := strings.LastIndex(s, ".")
		if i <= 0 {
			return false
		}

		return token.IsExported(s[i+1:]) && token.IsIdentifier(s[i+1:])
	})

	return v
}

// Validate checks a File's fields and the uniqueness of its components.
func Validate(f *File) error {
	if err := validate.Struct(f); err != nil {
		return formatValidationError(err)
	}

	seen := make(map[Component]bool)

	for _, c := range f.Components {
		key := Component{Root: c.Root, Binder: c.Binder}
		if seen[key] {
			return fmt.Errorf("component %s is listed twice for binder %s", c.Root, c.Binder)
		}

		seen[key] = true
	}

	return nil
}

// formatValidationError formats validation errors into readable messages.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		msgs = append(msgs, formatFieldError(e))
	}

	return errors.New(strings.Join(msgs, "; "))
}

// formatFieldError formats a single field validation error.
func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(strings.TrimPrefix(e.Namespace(), "File."))

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s needs at least %s entries", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "eq":
		return fmt.Sprintf("%s must be %s", field, e.Param())
	case "goident":
		return fmt.Sprintf("%s must be a Go identifier", field)
	case "qualifiedtype":
		return fmt.Sprintf("%s must be a qualified type such as example.com/app.Config", field)
	case "excludesall":
		return fmt.Sprintf("%s must not contain %q", field, e.Param())
	case "endswith":
		return fmt.Sprintf("%s must end with %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
