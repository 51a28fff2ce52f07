package response

import (
	"encoding/json"
	"net/http"

	"github.com/futig/code-companion/internal/entity"
)

// JSON writes a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		// Headers are already sent, nothing useful can be done on failure
		_ = json.NewEncoder(w).Encode(data)
	}
}

// Success writes a 200 response
func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Error writes an ErrorResponse. The error text goes to Details unmasked so
// completion failures reach the client as reported.
func Error(w http.ResponseWriter, status int, message string, err error) {
	resp := entity.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	}
	if err != nil {
		resp.Details = err.Error()
	}
	JSON(w, status, resp)
}
