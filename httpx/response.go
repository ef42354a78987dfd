package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/diewo77/go-inventory/internal/services"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	var body []byte
	var err error
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			// avoid writing partial JSON
			http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
			return
		}
	} else {
		body = []byte("null")
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func JSONError(w http.ResponseWriter, status int, msg string, details any) {
	JSON(w, status, ErrorResponse{Error: msg, Details: details})
}

// StatusFor maps a service error to an HTTP status and a stable error code.
func StatusFor(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusOK, ""
	case services.IsNotFound(err):
		return http.StatusNotFound, "not_found"
	}
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, "invalid_" + ve.Field
	}
	return http.StatusInternalServerError, "internal_error"
}

// Error writes err as JSON using StatusFor. Validation errors carry field details.
func Error(w http.ResponseWriter, err error) {
	status, code := StatusFor(err)
	var details any
	if ve, ok := services.AsValidation(err); ok {
		details = map[string]string{ve.Field: ve.Reason}
	}
	JSONError(w, status, code, details)
}
