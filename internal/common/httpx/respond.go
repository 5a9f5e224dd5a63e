// internal/common/httpx/respond.go
package httpx

import (
	"encoding/json"
	"net/http"

	apperrors "eventapp-functions/internal/common/errors"
)

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// WriteError writes the uniform error envelope for any error.
func WriteError(w http.ResponseWriter, err error) {
	std := apperrors.AsStandard(err)
	WriteJSON(w, std.HTTPStatus(), std.ToEnvelope())
}

// DecodeJSON decodes the request body into v, reporting a bad-request on failure.
func DecodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.NewBadRequestError("Invalid JSON body")
	}
	return nil
}

// SetCORS applies the permissive CORS headers used by every public handler.
func SetCORS(w http.ResponseWriter, methods string) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", methods)
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// Preflight answers an OPTIONS preflight request with 204 and returns true
// when the request was a preflight.
func Preflight(w http.ResponseWriter, r *http.Request, methods string) bool {
	if r.Method != http.MethodOptions {
		return false
	}
	SetCORS(w, methods)
	w.Header().Set("Access-Control-Max-Age", "3600")
	w.WriteHeader(http.StatusNoContent)
	return true
}

// RequireMethod guards the handler's HTTP method, writing 405 on mismatch.
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	WriteError(w, apperrors.NewMethodNotAllowedError(r.Method))
	return false
}
