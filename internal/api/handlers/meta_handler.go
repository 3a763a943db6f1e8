package handlers

import "net/http"

// ServiceName identifies this API in the health check body.
const ServiceName = "Skycast Weather API"

// Health is a simple health check endpoint to verify the service is running.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"name":   ServiceName,
		"status": "ok",
	})
}
