package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once

	ifscRegex = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	tagRegex  = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
)

// GetValidator returns the shared validator, registering the domain rules on
// first use.
func GetValidator() *validator.Validate {
	once.Do(initValidator)
	return validate
}

func initValidator() {
	validate = validator.New()
	validate.RegisterValidation("ifsc", func(fl validator.FieldLevel) bool {
		return ifscRegex.MatchString(fl.Field().String())
	})
	validate.RegisterValidation("expertise_tag", func(fl validator.FieldLevel) bool {
		return tagRegex.MatchString(fl.Field().String())
	})
}

// ValidateStruct runs tag validation and returns human readable messages,
// or nil when the value is valid.
func ValidateStruct(s interface{}) []string {
	if err := GetValidator().Struct(s); err != nil {
		return ParseErrors(err)
	}
	return nil
}

// ParseErrors flattens validator errors into display strings.
func ParseErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{"invalid request"}
	}

	errs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		errs = append(errs, prettyError(e))
	}
	return errs
}

func prettyError(e validator.FieldError) string {
	field := strings.ToLower(e.Field())
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "ifsc":
		return field + " must be a valid IFSC code"
	case "expertise_tag":
		return field + " must be a lowercase tag"
	case "min":
		if e.Type().Kind() == reflect.String || e.Type().Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at least %s entries or characters", field, e.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, strings.ReplaceAll(e.Param(), " ", ", "))
	default:
		return e.Error()
	}
}
