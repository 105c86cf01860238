package dto

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// HandleValidationError converts a binding or validator error into an ErrorDetail.
// Field errors are listed under details; the first one also fills Field.
func HandleValidationError(err error) *ErrorDetail {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return NewErrorDetail(ErrorCodeValidationFailed, "Invalid request format").WithDetails(err.Error())
	}

	list := NewValidationErrors()
	for _, fe := range fieldErrs {
		list.AddError(fieldName(fe), FormatFieldError(fe))
	}

	return NewErrorDetail(ErrorCodeValidationFailed, list.Errors[0].Message).
		WithField(list.Errors[0].Field).
		WithDetails(list.Errors)
}

// FormatFieldError creates a human-readable validation error message
func FormatFieldError(e validator.FieldError) string {
	field := fieldName(e)
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return field + " must be at least " + e.Param()
	case "max":
		return field + " must be at most " + e.Param()
	case "email":
		return field + " must be a valid email address"
	case "url", "http_url":
		return field + " must be an absolute http(s) url"
	case "oneof":
		return field + " must be one of: " + e.Param()
	case "gtefield":
		return field + " must not be before " + e.Param()
	default:
		return field + " validation failed: " + e.Tag()
	}
}

func fieldName(e validator.FieldError) string {
	ns := e.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return e.Field()
}
