package esimstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/magicesim/storefront/models"
)

// messageKeys are tried in order before falling back to field errors.
var messageKeys = []string{"message", "detail", "error", "non_field_errors"}

// NormalizeError turns any backend error body into a models.APIError.
// 5xx responses are network failures (worth retrying later); everything
// else the server rejected is a validation failure.
func NormalizeError(statusCode int, body []byte) *models.APIError {
	kind := models.ErrorKindValidationFailure
	if statusCode >= http.StatusInternalServerError {
		kind = models.ErrorKindNetworkFailure
	}

	msg := extractMessage(body)
	if msg == "" {
		msg = http.StatusText(statusCode)
	}
	return models.NewAPIError(kind, statusCode, msg)
}

func extractMessage(body []byte) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return ""
	}

	for _, key := range messageKeys {
		if raw, ok := fields[key]; ok {
			if msg := rawMessage(raw); msg != "" {
				return msg
			}
		}
	}

	// DRF field errors: {"email": ["user with this email already exists."]}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == "status" || k == "data" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if msg := rawMessage(fields[k]); msg != "" {
			return msg
		}
	}
	return ""
}

func rawMessage(raw json.RawMessage) string {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, " ")
	}
	var m Message
	if err := m.UnmarshalJSON(raw); err != nil {
		return ""
	}
	s := strings.TrimSpace(string(m))
	if s == "" || strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
		return ""
	}
	return s
}

// networkError wraps a transport failure (refused, reset, timed out).
func networkError(err error) *models.APIError {
	msg := "request to backend failed"
	if errors.Is(err, context.DeadlineExceeded) {
		msg = "request to backend timed out"
	}
	return &models.APIError{
		Kind:    models.ErrorKindNetworkFailure,
		Message: msg,
		Err:     err,
	}
}

func decodeError(err error) *models.APIError {
	return &models.APIError{
		Kind:    models.ErrorKindNetworkFailure,
		Message: "unexpected response from backend",
		Err:     fmt.Errorf("error parsing response: %w", err),
	}
}
