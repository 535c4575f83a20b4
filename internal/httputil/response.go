package httputil

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform response shape: {success, data?, error?}.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// ErrorBody carries a human-readable message and an optional machine code.
type ErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// RespondData writes a success envelope with the given status code.
// It marshals first so an encoding failure never produces a partial body
// after headers are sent.
func RespondData(w http.ResponseWriter, status int, data interface{}) {
	payload, err := json.Marshal(Envelope{Success: true, Data: data})
	if err != nil {
		RespondError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

// RespondError writes an error envelope
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondErrorCode(w, status, message, "")
}

// RespondErrorCode writes an error envelope with a machine-readable code
func RespondErrorCode(w http.ResponseWriter, status int, message, code string) {
	payload, err := json.Marshal(Envelope{
		Success: false,
		Error:   &ErrorBody{Message: message, Code: code},
	})
	if err != nil {
		// Fallback to plain text if JSON encoding fails
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal server error"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}
