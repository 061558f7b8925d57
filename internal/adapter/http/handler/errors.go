package handler

import (
	"errors"
	"net/http"

	"github.com/fieldworks/fleet-tracking/internal/domain/types"
	"github.com/fieldworks/fleet-tracking/internal/service/auth"
)

// errorResponse sends a JSON-formatted error body.
func errorResponse(w http.ResponseWriter, status int, message any) {
	env := envelope{"error": message}

	if err := writeJSON(w, status, env, nil); err != nil {
		w.WriteHeader(500)
	}
}

func failedValidationResponse(w http.ResponseWriter, errors map[string]string) {
	errorResponse(w, http.StatusUnprocessableEntity, errors)
}

func badRequestResponse(w http.ResponseWriter, message any) {
	errorResponse(w, http.StatusBadRequest, message)
}

// serverErrorResponse sends a generic 500 with the underlying error message
// attached as details for operator diagnosis.
func serverErrorResponse(w http.ResponseWriter, err error) {
	env := envelope{"error": "internal server error"}
	if err != nil {
		env["details"] = err.Error()
	}
	if writeErr := writeJSON(w, http.StatusInternalServerError, env, nil); writeErr != nil {
		w.WriteHeader(500)
	}
}

// GetCode maps domain errors onto HTTP status codes. Anything unmapped is an
// unexpected failure and becomes a 500.
func GetCode(err error) int {
	switch {
	case IsOneOf(err,
		types.ErrMissingTimeRange,
		types.ErrInvalidTimeFormat,
		types.ErrInvalidTimeRange,
		types.ErrTimeRangeTooLarge,
		types.ErrInvalidDate,
		types.ErrInvalidStatsRange,
		types.ErrCoordinatesOutOfRange,
		types.ErrInvalidEventType,
	):
		return http.StatusBadRequest
	case IsOneOf(err, auth.ErrInvalidCredentials, auth.ErrInvalidToken, auth.ErrExpToken):
		return http.StatusUnauthorized
	case IsOneOf(err, types.ErrForeignAccount):
		return http.StatusForbidden
	case IsOneOf(err, types.ErrUserNotFound, types.ErrTechNotFound, types.ErrJobNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func IsOneOf(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// respondError writes the mapped status for err, with 500s carrying details.
func respondError(w http.ResponseWriter, err error) {
	code := GetCode(err)
	if code == http.StatusInternalServerError {
		serverErrorResponse(w, err)
		return
	}
	errorResponse(w, code, err.Error())
}
