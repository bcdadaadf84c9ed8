package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, ErrorResponse{Error: message})
}

// parseK reads the k query parameter, clamped to 1..50.
// Missing or malformed values fall back to the default.
func parseK(r *http.Request, defaultK int) int {
	raw := r.URL.Query().Get("k")
	if raw == "" {
		return defaultK
	}
	k, err := strconv.Atoi(raw)
	if err != nil {
		return defaultK
	}
	if k < 1 {
		return 1
	}
	if k > 50 {
		return 50
	}
	return k
}
