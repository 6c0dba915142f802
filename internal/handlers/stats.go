package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"smartbin-backend/internal/aggregator"
	"smartbin-backend/pkg/utils"
)

// GetStats computes summary statistics over the current aggregate.
func GetStats(svc *aggregator.Service, log *logrus.Entry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			log.Errorf("Error fetching stats: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch statistics")
			return
		}
		utils.Success(w, stats)
	}
}
