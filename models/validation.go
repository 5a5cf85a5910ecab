package models

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "eqfield":
		return fmt.Sprintf("%s must match %s", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "len":
		return fmt.Sprintf("%s must be %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", fe.Field(), fe.Param())
	case "numeric":
		return fmt.Sprintf("%s must be a number", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// NewValidationError turns a validator failure into a ValidationFailure
// with one readable sentence per field.
func NewValidationError(err error) *APIError {
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		apiErr := NewAPIError(ErrorKindValidationFailure, http.StatusBadRequest, err.Error())
		apiErr.Err = err
		return apiErr
	}
	msgs := make([]string, 0, len(fields))
	for _, fe := range fields {
		msgs = append(msgs, fieldMessage(fe))
	}
	apiErr := NewAPIError(ErrorKindValidationFailure, http.StatusBadRequest, strings.Join(msgs, "; "))
	apiErr.Err = err
	return apiErr
}
