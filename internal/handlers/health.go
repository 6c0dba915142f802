package handlers

import (
	"net/http"
	"time"

	"smartbin-backend/pkg/utils"
)

// Health reports liveness plus process uptime in seconds.
func Health(startedAt time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.JSON(w, http.StatusOK, map[string]interface{}{
			"status":    "OK",
			"timestamp": time.Now().Format(time.RFC3339),
			"uptime":    time.Since(startedAt).Seconds(),
		})
	}
}
