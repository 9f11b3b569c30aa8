// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"catalogcms/internal/slug"
)

// newValidator returns a validator that reports fields by their JSON name
// and knows the "slug" tag and the media struct rule.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slug.Valid(fl.Field().String())
	})
	v.RegisterStructValidation(validateMediaInput, mediaInput{})
	return v
}

// validateStruct runs v over s and returns field errors, or nil.
func validateStruct(v *validator.Validate, s any) FieldErrors {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"non_field_errors": {err.Error()}}
	}
	return FormatValidationErrors(verrs)
}

// FormatValidationErrors turns validator errors into field errors keyed by
// the JSON path below the top-level struct, e.g. "media[1].image".
func FormatValidationErrors(errs validator.ValidationErrors) FieldErrors {
	out := FieldErrors{}
	for _, err := range errs {
		out.Add(fieldPath(err.Namespace()), validationMessage(err))
	}
	return out
}

func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func validationMessage(err validator.FieldError) string {
	isString := err.Kind() == reflect.String
	switch err.Tag() {
	case "required", "required_for_type":
		return "This field is required."
	case "max":
		if isString {
			return fmt.Sprintf("Ensure this field has no more than %s characters.", err.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", err.Param())
	case "min", "gte":
		if isString {
			return fmt.Sprintf("Ensure this field has at least %s characters.", err.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", err.Param())
	case "email":
		return "Enter a valid email address."
	case "url", "http_url":
		return "Enter a valid URL."
	case "slug":
		return `Enter a valid "slug" consisting of letters, numbers, underscores or hyphens.`
	case "oneof":
		return fmt.Sprintf("%q is not a valid choice.", fmt.Sprint(err.Value()))
	}
	return fmt.Sprintf("Failed on the %q rule.", err.Tag())
}
