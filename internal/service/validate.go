package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError reports malformed or missing input. It is raised before
// any store call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// validateStruct runs the struct's validate tags and converts the first
// failure into a ValidationError with a readable message.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Message: "invalid request"}
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return invalid("%s is required", fe.Field())
	case "email":
		return invalid("%s must be a valid email address", fe.Field())
	case "min":
		return invalid("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return invalid("%s must be at most %s characters", fe.Field(), fe.Param())
	case "gte", "lte":
		if fe.Field() == "age" {
			return invalid("age must be between 18 and 100")
		}
		return invalid("%s is out of range", fe.Field())
	case "oneof":
		return invalid("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return invalid("%s is invalid", fe.Field())
	}
}
