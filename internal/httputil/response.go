package httputil

import (
	"encoding/json"
	"net/http"
)

// Envelope is the standard response body shape. Every response carries a
// "status" boolean; successes add entity fields, failures add a message.
type Envelope map[string]interface{}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// If encoding fails, we can't do much - headers already sent
			return
		}
	}
}

// WriteSuccess writes a success envelope: {"status": true, "message": ..., <fields>}.
// The message is omitted when empty.
func WriteSuccess(w http.ResponseWriter, status int, message string, fields Envelope) {
	body := Envelope{"status": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range fields {
		body[k] = v
	}
	WriteJSON(w, status, body)
}

// WriteError writes a failure envelope: {"status": false, "message": ...}.
// The message must be user-safe; internal error detail never reaches clients.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Envelope{"status": false, "message": message})
}

// Common error response helpers

// WriteBadRequest writes a 400 Bad Request error
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

// WriteUnauthorized writes a 401 Unauthorized error
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message)
}

// WriteForbidden writes a 403 Forbidden error
func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, message)
}

// WriteNotFound writes a 404 Not Found error
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message)
}

// WriteConflict writes a 409 Conflict error
func WriteConflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, message)
}

// WriteInternalError writes a 500 Internal Server Error
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message)
}
