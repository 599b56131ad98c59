// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/MKhiriev/go-intra-api/models"
	"github.com/go-playground/validator/v10"
)

// tagRole accepts the members of models.Roles.
const tagRole = "role"

// RequestValidator checks request bodies against their `validate` tags.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator returns a [Validator] of the request types in models.
func NewRequestValidator() Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonFieldName)
	// the tag name is a constant and the function signature matches
	_ = validate.RegisterValidation(tagRole, func(fl validator.FieldLevel) bool {
		return models.Role(fl.Field().String()).IsValid()
	})

	return &RequestValidator{validate: validate}
}

// Validate checks obj. fields restricts the check to the named struct
// fields (Go names, e.g. "Password").
func (v *RequestValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch obj.(type) {
	case models.RegisterRequest, *models.RegisterRequest,
		models.LoginRequest, *models.LoginRequest,
		models.ForgotPasswordRequest, *models.ForgotPasswordRequest,
		models.ResetPasswordRequest, *models.ResetPasswordRequest,
		models.UpdateUserRequest, *models.UpdateUserRequest,
		models.CreateUserRequest, *models.CreateUserRequest,
		models.AdminUpdateUserRequest, *models.AdminUpdateUserRequest:
	default:
		return ErrUnsupportedType
	}

	var err error
	if len(fields) == 0 {
		err = v.validate.StructCtx(ctx, obj)
	} else {
		err = v.validate.StructPartialCtx(ctx, obj, fields...)
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		messages := make(FieldErrors, 0, len(validationErrors))
		for _, fe := range validationErrors {
			messages = append(messages, message(fe))
		}
		return messages
	}
	return err
}

func message(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return field + " should not be empty"
	case "min":
		return fmt.Sprintf("%s must be longer than or equal to %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be shorter than or equal to %s characters", field, fe.Param())
	case "email":
		return field + " must be an email"
	case tagRole:
		roles := make([]string, 0, len(models.Roles))
		for _, r := range models.Roles {
			roles = append(roles, string(r))
		}
		return fmt.Sprintf("%s must be one of the following values: %s", field, strings.Join(roles, ", "))
	}
	return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
}

// jsonFieldName reports fields under their JSON names.
func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" || name == "" {
		return field.Name
	}
	return name
}
