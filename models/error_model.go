package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure the storefront can surface. None of them
// is fatal to the page.
type ErrorKind int

const (
	ErrorKindUnknown ErrorKind = iota
	ErrorKindNetworkFailure
	ErrorKindValidationFailure
	ErrorKindEmptyCatalog
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindNetworkFailure:
		return "network_failure"
	case ErrorKindValidationFailure:
		return "validation_failure"
	case ErrorKindEmptyCatalog:
		return "empty_catalog"
	default:
		return "unknown"
	}
}

var (
	ErrNetworkFailure    = errors.New("request failed or timed out")
	ErrValidationFailure = errors.New("request rejected")
	ErrEmptyCatalog      = errors.New("no plans match the requested filter")
)

// APIError is the single error shape produced at the network boundary,
// whatever body the backend sent.
type APIError struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
	Err        error
}

func NewAPIError(kind ErrorKind, statusCode int, msg string) *APIError {
	return &APIError{
		Kind:       kind,
		Message:    msg,
		StatusCode: statusCode,
	}
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() []error {
	var errs []error
	switch e.Kind {
	case ErrorKindNetworkFailure:
		errs = append(errs, ErrNetworkFailure)
	case ErrorKindValidationFailure:
		errs = append(errs, ErrValidationFailure)
	case ErrorKindEmptyCatalog:
		errs = append(errs, ErrEmptyCatalog)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindOf reports the kind of err, falling back to the sentinel errors.
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	switch {
	case errors.Is(err, ErrEmptyCatalog):
		return ErrorKindEmptyCatalog
	case errors.Is(err, ErrValidationFailure):
		return ErrorKindValidationFailure
	case errors.Is(err, ErrNetworkFailure):
		return ErrorKindNetworkFailure
	}
	return ErrorKindUnknown
}

// MessageOf returns the server provided message for err, or fallback.
func MessageOf(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
