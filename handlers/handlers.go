// Package handlers implements the HTTP boundary. Request DTOs are validated
// here; the services below assume inputs already satisfy field constraints.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/medtrack/pharmacy-inventory/services"
	"github.com/medtrack/pharmacy-inventory/utils"
)

// writePersistenceError maps a failed mutation to a response: storage
// failures are reported as temporarily unavailable, anything else as an
// internal error.
func writePersistenceError(w http.ResponseWriter, err error, message string) {
	if services.IsStorageError(err) {
		_ = utils.WriteServiceUnavailable(w, "Storage unavailable")
		return
	}
	_ = utils.WriteInternalError(w, message)
}

// decodeAndValidate decodes a JSON request body into dst and validates it.
// On failure it writes the error response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid JSON body", nil)
		return false
	}
	if err := utils.ValidateStruct(dst); err != nil {
		var validationErr *utils.ValidationError
		if errors.As(err, &validationErr) {
			_ = utils.WriteBadRequest(w, validationErr.Message, validationErr.Details())
		} else {
			_ = utils.WriteBadRequest(w, "Invalid request", nil)
		}
		return false
	}
	return true
}
