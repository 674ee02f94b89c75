package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/clubportal/internal/pkg/apperrors"
)

// Shared length rules
const (
	PasswordMinLength  = 6
	ClubNameMinLength  = 3
	ClubNameMaxLength  = 200
	AboutMinLength     = 20
	TitleMinLength     = 5
	TitleMaxLength     = 255
	ContentMinLength   = 10
	UsernameMaxLength  = 200
	MessageMaxLength   = 5000
	AllowedImageFormat = "jpg, jpeg, png, gif, webp"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the process-wide validator. Field names in reported errors
// follow the json tag of the struct field.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		instance = v
	})
	return instance
}

// Struct validates s and converts failures into an apperrors.ValidationError
func Struct(s interface{}) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate: %w", err)
	}
	return FromFieldErrors(fieldErrs)
}

// FromFieldErrors converts validator errors into field messages
func FromFieldErrors(fieldErrs validator.ValidationErrors) *apperrors.ValidationError {
	verr := &apperrors.ValidationError{}
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), Message(fe))
	}
	return verr
}

// Message creates a human-readable validation error message
func Message(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "notblank":
		return e.Field() + " is required"
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param())
		}
		return e.Field() + " must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param())
		}
		return e.Field() + " must be at most " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "eqfield":
		return e.Field() + " must match " + e.Param()
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "url":
		return e.Field() + " must be a valid URL"
	default:
		return e.Field() + " is invalid"
	}
}
