package models

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type signup struct {
	Email      string `validate:"required,email"`
	Password   string `validate:"required,min=8"`
	RePassword string `validate:"eqfield=Password"`
	Currency   string `validate:"len=3"`
}

func TestNewValidationErrorMessages(t *testing.T) {
	err := validator.New().Struct(signup{Email: "nope", Password: "short", RePassword: "other", Currency: "US"})

	got := NewValidationError(err)
	assert.Equal(t, ErrorKindValidationFailure, got.Kind)
	assert.Equal(t, 400, got.StatusCode)
	assert.Equal(t,
		"Email must be a valid email address; Password must be at least 8 characters; RePassword must match Password; Currency must be 3 characters",
		got.Message)
	assert.ErrorIs(t, got, ErrValidationFailure)
}

func TestNewValidationErrorPlainError(t *testing.T) {
	plain := errors.New("unexpected EOF")
	got := NewValidationError(plain)
	assert.Equal(t, "unexpected EOF", got.Message)
	assert.ErrorIs(t, got, plain)
}
