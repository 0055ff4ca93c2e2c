// Package respond writes the platform's JSON envelope. Every response is
// shaped as {success, data?, message?, error?, errors?} so clients have a
// single contract regardless of endpoint.
package respond

import (
	"encoding/json"
	"net/http"
)

// Envelope is the wire shape of every JSON response.
type Envelope struct {
	Success bool     `json:"success"`
	Data    any      `json:"data,omitempty"`
	Message string   `json:"message,omitempty"`
	Error   string   `json:"error,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// JSON writes an arbitrary envelope with the given status code. An encode
// failure after the header is written cannot be reported to the client, so
// the error is discarded.
func JSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// OK writes a 200 success envelope wrapping data.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 success envelope wrapping data.
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, Envelope{Success: true, Data: data})
}

// Message writes a 200 success envelope with a message and no data.
func Message(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusOK, Envelope{Success: true, Message: msg})
}

// Err writes a failure envelope with the given status and error string.
func Err(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, Envelope{Success: false, Error: msg})
}

// ValidationErr writes a 400 with field-level messages.
func ValidationErr(w http.ResponseWriter, fieldErrs []string) {
	JSON(w, http.StatusBadRequest, Envelope{Success: false, Error: "validation failed", Errors: fieldErrs})
}

// BadRequest writes a 400 failure envelope.
func BadRequest(w http.ResponseWriter, msg string) { Err(w, http.StatusBadRequest, msg) }

// Unauthorized writes a 401 failure envelope.
func Unauthorized(w http.ResponseWriter) { Err(w, http.StatusUnauthorized, "unauthorized") }

// Forbidden writes a 403 failure envelope.
func Forbidden(w http.ResponseWriter) { Err(w, http.StatusForbidden, "forbidden") }

// NotFound writes a 404 failure envelope.
func NotFound(w http.ResponseWriter, what string) { Err(w, http.StatusNotFound, what+" not found") }

// Conflict writes a 409 failure envelope.
func Conflict(w http.ResponseWriter, msg string) { Err(w, http.StatusConflict, msg) }

// ServerError writes a 500. Detail is suppressed; callers log the cause.
func ServerError(w http.ResponseWriter) {
	Err(w, http.StatusInternalServerError, "internal server error")
}

// maxBodySize caps JSON request bodies.
const maxBodySize = 1 << 20 // 1 MB

// DecodeJSON reads the request body into dst. On failure it writes a 400
// envelope and returns false; handlers just return.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		BadRequest(w, "invalid request body")
		return false
	}
	return true
}
