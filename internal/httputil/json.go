package httputil

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes a terse error payload.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"message": message})
}

// WriteInternalError writes a 500 response. Raw error detail is only
// included in development mode.
func WriteInternalError(w http.ResponseWriter, err error, devMode bool) {
	if devMode && err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteError(w, http.StatusInternalServerError, "Internal server error")
}
