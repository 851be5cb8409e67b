package handler

import (
	"net/http"

	"github.com/mcoot/nickchat/internal/api/response"
)

// Health returns the unauthenticated liveness handler for GET /
func Health(storageType string) http.HandlerFunc {
	body := response.HealthResponse{Status: "ok", Storage: storageType}
	return func(w http.ResponseWriter, _ *http.Request) {
		response.JSON(w, http.StatusOK, body)
	}
}
