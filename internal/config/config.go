package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	API struct {
		Port string
	}
	Firebase struct {
		CredentialsFile   string
		CredentialsBase64 string
		DatabaseURL       string
	}
	SMTP struct {
		Host     string
		Port     int
		Username string
		Password string
	}
	Alerts struct {
		AdminEmail string
		FCMToken   string
		QueueSize  int
		MaxWorkers int
	}
	Weather struct {
		APIKey        string
		Lat           float64
		Lon           float64
		CheckInterval time.Duration
		Cadence       time.Duration
	}
	Admin struct {
		Email        string
		PasswordHash string
		JWTSecret    string
	}
	Chat struct {
		GeminiAPIKey string
		Model        string
	}
}

// Load reads environment variables, applies defaults, and returns a Config.
// No variable is hard-required: missing Firebase credentials put the server
// in demo mode instead of failing startup.
func Load() Config {
	_ = godotenv.Load()

	var cfg Config

	cfg.API.Port = getEnv("PORT", "5000")

	cfg.Firebase.CredentialsFile = os.Getenv("FIREBASE_CREDENTIALS_FILE")
	cfg.Firebase.CredentialsBase64 = os.Getenv("FIREBASE_CREDENTIALS_BASE64")
	cfg.Firebase.DatabaseURL = os.Getenv("FIREBASE_DATABASE_URL")

	cfg.SMTP.Host = os.Getenv("SMTP_HOST")
	cfg.SMTP.Port = getEnvInt("SMTP_PORT", 587)
	cfg.SMTP.Username = os.Getenv("SMTP_USERNAME")
	cfg.SMTP.Password = os.Getenv("SMTP_PASSWORD")

	cfg.Alerts.AdminEmail = os.Getenv("ALERT_ADMIN_EMAIL")
	cfg.Alerts.FCMToken = os.Getenv("ALERT_FCM_TOKEN")
	cfg.Alerts.QueueSize = getEnvInt("ALERT_QUEUE_SIZE", 100)
	cfg.Alerts.MaxWorkers = getEnvInt("ALERT_MAX_WORKERS", 4)

	cfg.Weather.APIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.Weather.Lat = getEnvFloat("WEATHER_LAT", 40.7128)
	cfg.Weather.Lon = getEnvFloat("WEATHER_LON", -74.0060)
	cfg.Weather.CheckInterval = getEnvDuration("WEATHER_CHECK_INTERVAL", 3*time.Hour)
	cfg.Weather.Cadence = getEnvDuration("WEATHER_CHECK_CADENCE", 30*time.Minute)

	cfg.Admin.Email = os.Getenv("ADMIN_EMAIL")
	cfg.Admin.PasswordHash = os.Getenv("ADMIN_PASSWORD_HASH")
	cfg.Admin.JWTSecret = os.Getenv("APP_JWT_SECRET")

	cfg.Chat.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.Chat.Model = getEnv("GEMINI_MODEL", "gemini-1.5-flash")

	return cfg
}

// FirebaseConfigured reports whether enough Firebase settings are present to
// attempt a real connection.
func (c Config) FirebaseConfigured() bool {
	return (c.Firebase.CredentialsFile != "" || c.Firebase.CredentialsBase64 != "") &&
		c.Firebase.DatabaseURL != ""
}

// MailConfigured reports whether outbound SMTP credentials are present.
func (c Config) MailConfigured() bool {
	return c.SMTP.Host != "" && c.SMTP.Username != "" && c.SMTP.Password != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}
