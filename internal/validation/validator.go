// Raclette - Team Lunch Venue Suggestion Service
// Copyright 2026 Raclette Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/racasse/raclette

// Package validation checks incoming request structs against their `validate`
// tags (go-playground/validator v10) and renders the failures in the shape
// the HTTP layer returns to clients.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// One validator for the process; it caches struct metadata internally, so
// sharing it is both safe and cheaper than constructing per request.
var getValidator = sync.OnceValue(func() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
})

// FieldError describes one field that failed validation.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Value   interface{}
	Message string
}

func (e FieldError) Error() string { return e.Message }

// RequestValidationError collects every failed field of one request.
type RequestValidationError struct {
	fields []FieldError
}

// Errors returns the per-field failures, in struct declaration order.
func (ve *RequestValidationError) Errors() []FieldError { return ve.fields }

func (ve *RequestValidationError) Error() string {
	if len(ve.fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(ve.fields))
	for i, fe := range ve.fields {
		parts[i] = fe.Message
	}
	return strings.Join(parts, "; ")
}

// APIError mirrors the API layer's error payload without importing it.
type APIError struct {
	Code    string
	Message string
	Details map[string]interface{}
}

// ToAPIError renders the failures as one API error. A single failed field
// carries its particulars in Details; several failed fields are listed there
// and joined into the message.
func (ve *RequestValidationError) ToAPIError() *APIError {
	out := &APIError{Code: "VALIDATION_ERROR", Message: "Validation failed"}

	switch len(ve.fields) {
	case 0:
	case 1:
		fe := ve.fields[0]
		out.Message = fe.Message
		out.Details = map[string]interface{}{
			"field": fe.Field,
			"tag":   fe.Tag,
			"value": fe.Value,
		}
	default:
		listed := make([]map[string]interface{}, len(ve.fields))
		joined := make([]string, len(ve.fields))
		for i, fe := range ve.fields {
			listed[i] = map[string]interface{}{
				"field":   fe.Field,
				"tag":     fe.Tag,
				"message": fe.Message,
			}
			joined[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
		}
		out.Message = strings.Join(joined, "; ")
		out.Details = map[string]interface{}{"fields": listed}
	}
	return out
}

// ValidateStruct checks s against its validate tags. Returns nil when every
// field passes.
func ValidateStruct(s interface{}) *RequestValidationError {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// Struct-level failure (e.g. a nil pointer), not a field failure.
		return &RequestValidationError{fields: []FieldError{
			{Field: "unknown", Tag: "unknown", Message: err.Error()},
		}}
	}

	fields := make([]FieldError, len(fieldErrs))
	for i, fe := range fieldErrs {
		fields[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Value:   fe.Value(),
			Message: describe(fe),
		}
	}
	return &RequestValidationError{fields: fields}
}

// describe phrases a field failure for humans. Only the tags the request
// structs actually use get a tailored message.
func describe(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", name, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", name, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation on '%s'", name, fe.Tag())
	}
}
