package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/armadatrack/armada/internal/domain"
)

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Failed to marshal response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// respondError writes a JSON error response
func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, map[string]string{
		"error": message,
	})
}

// respondGatewayError maps backing-store failures to 502 and everything
// else to 500. Handlers call it after their own domain error checks.
func respondGatewayError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrGateway) {
		respondError(w, http.StatusBadGateway, "Backing store unavailable")
		return
	}
	respondError(w, http.StatusInternalServerError, "Internal server error")
}
