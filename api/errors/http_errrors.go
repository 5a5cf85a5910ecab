package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/magicesim/storefront/models"
)

// StatusFor picks the HTTP status the BFF answers with for a failed action.
// A 4xx carried by the backend error is kept so the page can tell a missing
// order from a rejected form.
func StatusFor(err error) int {
	var apiErr *models.APIError
	hasStatus := stderrors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500

	switch models.KindOf(err) {
	case models.ErrorKindValidationFailure:
		if hasStatus {
			return apiErr.StatusCode
		}
		return http.StatusBadRequest
	case models.ErrorKindEmptyCatalog:
		return http.StatusNotFound
	case models.ErrorKindNetworkFailure:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
