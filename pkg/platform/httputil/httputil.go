// Package httputil centralizes JSON response writing and error translation so
// handlers stay small and error bodies stay uniform.
package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "alumnet/pkg/domain-errors"
)

// errorBody is the single error envelope returned by every endpoint.
type errorBody struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a coded error into an HTTP response.
//
// Two disclosure rules apply: internal errors never include a description, and
// credential failures always render the same generic description whether the
// identity was unknown or the password wrong.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status, description := translate(code, dErrors.MessageOf(err))
	WriteJSON(w, status, errorBody{Error: string(code), Description: description})
}

func translate(code dErrors.Code, message string) (int, string) {
	switch code {
	case dErrors.CodeValidation, dErrors.CodeInvalidInput, dErrors.CodeInvariantViolation:
		return http.StatusBadRequest, message
	case dErrors.CodeConflict:
		return http.StatusConflict, message
	case dErrors.CodeNotFound:
		return http.StatusNotFound, message
	case dErrors.CodeInvalidCredentials:
		// One message for unknown email and wrong password alike.
		return http.StatusUnauthorized, "invalid email or password"
	case dErrors.CodeSecondFactorMismatch:
		return http.StatusUnauthorized, "invalid verification code"
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized, message
	case dErrors.CodeForbidden:
		return http.StatusForbidden, message
	case dErrors.CodeIntegrityViolation:
		return http.StatusConflict, message
	case dErrors.CodeCryptoUnavailable:
		return http.StatusServiceUnavailable, "cryptographic facilities unavailable"
	default:
		return http.StatusInternalServerError, ""
	}
}

// Decode parses a JSON request body into T, returning a coded validation
// error on malformed input.
func Decode[T any](r *http.Request) (T, error) {
	var v T
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, dErrors.Wrap(err, dErrors.CodeValidation, "malformed request body")
	}
	return v, nil
}
