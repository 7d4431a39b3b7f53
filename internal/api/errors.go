package api

import (
	"net/http"

	"altcred/internal/common/errors"
)

// HTTPStatus maps an error code to its response status.
func HTTPStatus(err *errors.StandardError) int {
	switch err.Code {
	case errors.ErrCodeMissingField, errors.ErrCodeInvalidField, errors.ErrCodeParseError:
		return http.StatusBadRequest
	case errors.ErrCodeProfileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUpstreamUnavailable, errors.ErrCodeDatabaseConnectionFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
