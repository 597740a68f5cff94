package apperr

import "net/http"

// StatusCode maps an error to the HTTP status the REST surface reports for it
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsValidationError(err):
		return http.StatusBadRequest
	case IsForbidden(err):
		return http.StatusForbidden
	case IsAuthorizationError(err):
		return http.StatusUnauthorized
	case IsNotFoundError(err):
		return http.StatusNotFound
	case IsConflictError(err):
		return http.StatusConflict
	case IsTransportError(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
