package utils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs the validate tags on a DTO.
func ValidateStruct(s any) error {
	return validate.Struct(s)
}

// GetValidationErrors turns validator errors into field -> message pairs
// suitable for the error envelope's details.
func GetValidationErrors(err error) map[string]string {
	out := make(map[string]string)

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out["error"] = err.Error()
		return out
	}

	for _, fieldErr := range validationErrs {
		field := strings.ToLower(fieldErr.Field()[:1]) + fieldErr.Field()[1:]
		out[field] = validationMessage(fieldErr)
	}
	return out
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(e.Param(), " ", ", "))
	case "alphanum":
		return "must contain only letters and digits"
	default:
		return fmt.Sprintf("failed %s validation", e.Tag())
	}
}
