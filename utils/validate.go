package utils

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report JSON field names so messages match what the client sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the `validate` tags of a struct.
func Validate(v interface{}) error {
	return validate.Struct(v)
}

// ValidationMessage turns a validation failure into a short client-facing
// message. Other errors fall back to a generic one.
func ValidationMessage(err error) string {
	var validationErr validator.ValidationErrors
	if !errors.As(err, &validationErr) || len(validationErr) == 0 {
		return "invalid request body"
	}

	fe := validationErr[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "oneof":
		return field + " must be one of: " + fe.Param()
	case "min", "gte":
		return field + " must be at least " + fe.Param()
	case "gt":
		return field + " must be greater than " + fe.Param()
	case "lte", "max":
		return field + " must be at most " + fe.Param()
	case "len", "hexadecimal":
		return field + " must contain valid ids"
	default:
		return field + " is invalid"
	}
}
