package handlers

import "net/http"

// RootHandler answers the bare liveness probe.
func RootHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"message": "account service is running",
	})
}

// PingHandler is the conventional ping endpoint.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"message": "pong",
	})
}
