package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/aidynbek/account-service/internal/apperr"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondError maps any error through the apperr taxonomy. Errors without a
// taxonomy kind become a generic 500 so internal detail never leaks.
func respondError(w http.ResponseWriter, err error) {
	respondJSON(w, apperr.HTTPStatus(err), map[string]string{
		"message": apperr.Message(err),
	})
}
