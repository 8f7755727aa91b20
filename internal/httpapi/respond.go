// Package httpapi carries the JSON response helpers shared by every handler.
package httpapi

import (
	"encoding/json"
	"net/http"
)

type errorBody struct {
	Error  string            `json:"error"`
	Detail string            `json:"detail,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// JSON writes v as a JSON body with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// Error writes a machine-readable error code plus a human message.
func Error(w http.ResponseWriter, status int, code, detail string) {
	JSON(w, status, errorBody{Error: code, Detail: detail})
}

// ValidationError writes a 400 with per-field messages.
func ValidationError(w http.ResponseWriter, fields map[string]string) {
	JSON(w, http.StatusBadRequest, errorBody{Error: "validation_error", Fields: fields})
}

// Common taxonomy shortcuts.

func NotFound(w http.ResponseWriter, detail string) {
	Error(w, http.StatusNotFound, "not_found", detail)
}

func Forbidden(w http.ResponseWriter, detail string) {
	Error(w, http.StatusForbidden, "forbidden", detail)
}

func FeatureDisabled(w http.ResponseWriter, detail string) {
	Error(w, http.StatusForbidden, "feature_disabled", detail)
}

func Internal(w http.ResponseWriter, detail string) {
	Error(w, http.StatusInternalServerError, "internal_error", detail)
}
