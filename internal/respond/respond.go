// Package respond writes the JSON bodies shared by every handler.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore"
	"github.com/georgemunganga/bizdesk-backend/internal/validation"
)

// ErrorBody is the shape of every error response.
type ErrorBody struct {
	Error   string                  `json:"error"`
	Details []validation.FieldError `json:"details,omitempty"`
}

// JSON writes body with the given status.
func JSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Error writes {"error": msg}.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, ErrorBody{Error: msg})
}

// NoContent writes 204.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Decode reads a JSON request body into v and validates it.
// The returned error is always a *validation.Error.
func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return validation.New("body", "json", "invalid JSON body: "+err.Error())
	}
	return validation.Struct(v)
}

// Err maps a service error onto a status code:
// validation -> 400, not found -> 404, duplicate -> 409, anything else -> 500.
// 500s are logged; their storage details are not echoed to the client.
func Err(w http.ResponseWriter, log logrus.FieldLogger, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		JSON(w, http.StatusBadRequest, ErrorBody{Error: verr.Error(), Details: verr.Fields})
	case errors.Is(err, jsonstore.ErrNotFound):
		Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, jsonstore.ErrDuplicate):
		Error(w, http.StatusConflict, err.Error())
	case jsonstore.IsStorageError(err):
		log.WithError(err).Error("storage failure")
		Error(w, http.StatusInternalServerError, "storage failure, the change was not saved")
	default:
		log.WithError(err).Error("request failed")
		Error(w, http.StatusInternalServerError, err.Error())
	}
}
