package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"smartbin-backend/internal/config"
	"smartbin-backend/internal/weather"
	"smartbin-backend/pkg/utils"
)

// GetCurrentWeather proxies the current observation at the configured
// coordinate so the API key stays server-side.
func GetCurrentWeather(client *weather.Client, cfg config.Config, log *logrus.Entry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cur, err := client.Current(r.Context(), cfg.Weather.Lat, cfg.Weather.Lon)
		if err != nil {
			log.Errorf("current weather fetch failed: %v", err)
			utils.Error(w, http.StatusBadGateway, "Weather service unavailable")
			return
		}
		utils.Success(w, cur)
	}
}

// GetWeatherForecast proxies the raw 5-day forecast payload for the
// dashboard's forecast panel.
func GetWeatherForecast(client *weather.Client, cfg config.Config, log *logrus.Entry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		forecast, err := client.Forecast(r.Context(), cfg.Weather.Lat, cfg.Weather.Lon)
		if err != nil {
			log.Errorf("forecast fetch failed: %v", err)
			utils.Error(w, http.StatusBadGateway, "Weather service unavailable")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(forecast)
	}
}
