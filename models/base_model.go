package models

import "github.com/magicesim/storefront/utils"

type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Version string      `json:"version"`
}

type ErrorResponse struct {
	Status  string      `json:"status"`
	Kind    string      `json:"kind,omitempty"`
	Message string      `json:"message"`
	Errors  []string    `json:"errors"`
	Data    interface{} `json:"data,omitempty"`
	Version string      `json:"version"`
}

func NewError(msg string) *ErrorResponse {
	return &ErrorResponse{
		Status:  "failed",
		Message: msg,
		Version: utils.REVISION,
	}
}

// NewKindError tags the response with the error kind so the page can choose
// between a toast and an inline message.
func NewKindError(kind ErrorKind, msg string) *ErrorResponse {
	e := NewError(msg)
	e.Kind = kind.String()
	return e
}

func NewSuccess(msg string, data interface{}) *SuccessResponse {
	return &SuccessResponse{
		Status:  "successful",
		Message: msg,
		Data:    data,
		Version: utils.REVISION,
	}
}
