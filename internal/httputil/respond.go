// ABOUTME: JSON response envelope shared by the API handlers and the auth gate
// ABOUTME: Every response carries {status, code, message, data}

package httputil

import (
	"encoding/json"
	"net/http"
)

// Envelope is the client-facing response shape. Code always matches the
// HTTP status the envelope is written with.
type Envelope struct {
	Status  string         `json:"status"`
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// WriteSuccess writes a success envelope with the given status code and payload.
func WriteSuccess(w http.ResponseWriter, code int, message string, data map[string]any) {
	writeEnvelope(w, Envelope{
		Status:  "success",
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// WriteError writes an error envelope. No internal detail beyond message
// is ever included.
func WriteError(w http.ResponseWriter, code int, message string) {
	writeEnvelope(w, Envelope{
		Status:  "error",
		Code:    code,
		Message: message,
	})
}

func writeEnvelope(w http.ResponseWriter, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(env.Code)
	// The header is already gone if encoding fails; nothing useful to do.
	_ = json.NewEncoder(w).Encode(env)
}
