package main

import (
	"context"
	"encoding/base64"
	"net/http"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"google.golang.org/api/option"

	"smartbin-backend/internal/aggregator"
	"smartbin-backend/internal/alerts"
	"smartbin-backend/internal/config"
	"smartbin-backend/internal/generator"
	"smartbin-backend/internal/handlers"
	"smartbin-backend/internal/logging"
	"smartbin-backend/internal/mailer"
	"smartbin-backend/internal/middleware"
	"smartbin-backend/internal/scheduler"
	"smartbin-backend/internal/services"
	"smartbin-backend/internal/store"
	"smartbin-backend/internal/weather"
	"smartbin-backend/internal/websocket"
)

func main() {
	log := logging.New()
	log.Info("🚀 SMART BIN BACKEND STARTING")

	cfg := config.Load()
	ctx := context.Background()
	startedAt := time.Now()

	// Storage: Firebase when configured, seeded demo data otherwise. Even
	// with Firebase up, reads degrade to the demo dataset on store failure.
	var (
		st          store.Store
		firebaseApp *firebase.App
	)
	if cfg.FirebaseConfigured() {
		app, err := newFirebaseApp(ctx, cfg)
		if err != nil {
			log.Warnf("⚠️ Firebase init failed: %v - running in demo mode", err)
			st = store.NewDemoStore()
		} else {
			fbStore, err := store.NewFirebaseStore(ctx, app)
			if err != nil {
				log.Warnf("⚠️ Firebase store init failed: %v - running in demo mode", err)
				st = store.NewDemoStore()
			} else {
				defer fbStore.Close()
				firebaseApp = app
				st = store.WithFallback(fbStore, store.NewDemoStore())
				log.Info("✅ Firebase connected successfully")
			}
		}
	} else {
		st = store.NewDemoStore()
		log.Warn("⚠️ Firebase not configured - running in demo mode")
	}

	// Outbound mail.
	var mail mailer.Mailer
	if cfg.MailConfigured() {
		mail = mailer.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)
		log.Info("✅ SMTP mailer configured")
	} else {
		mail = mailer.Disabled{}
		log.Warn("⚠️ SMTP not configured - email alerts disabled")
	}

	// Push notifications.
	var push alerts.PushSender
	if firebaseApp != nil {
		fcm, err := services.NewFCMService(ctx, firebaseApp)
		if err != nil {
			log.Warnf("⚠️ FCM init failed: %v (push notifications disabled)", err)
		} else {
			push = fcm
			log.Info("✅ Firebase Cloud Messaging initialized")
		}
	}

	// Alert pipeline.
	latch := alerts.NewLatch()
	dispatcher := alerts.NewDispatcher(
		mail, push,
		cfg.Alerts.AdminEmail, cfg.Alerts.FCMToken,
		cfg.Alerts.QueueSize, cfg.Alerts.MaxWorkers,
		log.WithField("component", "alerts"),
	)
	dispatcher.Start()
	defer dispatcher.Stop()

	// Weather monitoring.
	weatherClient := weather.NewClient(cfg.Weather.APIKey)
	var monitor *weather.Monitor
	if cfg.Weather.APIKey != "" {
		monitor = weather.NewMonitor(
			weatherClient, mail, st,
			cfg.Weather.Lat, cfg.Weather.Lon, cfg.Weather.CheckInterval,
			log.WithField("component", "weather"),
		)
		sched := scheduler.New(monitor, cfg.Weather.Cadence, log.WithField("component", "scheduler"))
		if err := sched.Start(); err != nil {
			log.Warnf("⚠️ weather scheduler failed to start: %v", err)
		}
		defer sched.Stop()
	} else {
		log.Warn("⚠️ OPENWEATHER_API_KEY not set - weather alerts disabled")
	}

	// Live updates.
	hub := websocket.NewHub(log.WithField("component", "websocket"))
	go hub.Run()

	// Aggregation service.
	gen := generator.New()
	var weatherChecker aggregator.WeatherChecker
	if monitor != nil {
		weatherChecker = monitor
	}
	svc := aggregator.New(st, gen, latch, dispatcher, weatherChecker, hub,
		log.WithField("component", "aggregator"))

	// Router.
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	hlog := log.WithField("component", "http")

	r.Get("/health", handlers.Health(startedAt))

	r.Get("/bins", handlers.GetBins(svc, hlog))
	r.Post("/bins", handlers.CreateBin(st, hlog))
	r.Get("/bins/{id}", handlers.GetBin(svc, hlog))
	r.Put("/bins/{id}", handlers.UpdateBin(st, hlog))
	r.Delete("/bins/{id}", handlers.DeleteBin(st, hlog))
	r.Get("/bins/{id}/history", handlers.GetBinHistory(svc, hlog))

	r.Get("/stats", handlers.GetStats(svc, hlog))

	r.Get("/operators", handlers.GetOperators(st, hlog))
	r.Post("/operators", handlers.CreateOperator(st, hlog))
	r.Get("/operators/{id}", handlers.GetOperator(st, hlog))
	r.Put("/operators/{id}", handlers.UpdateOperator(st, hlog))
	r.Delete("/operators/{id}", handlers.DeleteOperator(st, hlog))

	r.Post("/auth/login", handlers.Login(cfg, hlog))
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth)
		r.Get("/auth/status", handlers.GetAuthStatus())
	})

	r.Get("/weather/current", handlers.GetCurrentWeather(weatherClient, cfg, hlog))
	r.Get("/weather/forecast", handlers.GetWeatherForecast(weatherClient, cfg, hlog))

	r.Post("/chat", handlers.Chat(cfg, hlog))

	r.Get("/ws", websocket.HandleWebSocket(hub))

	log.Infof("🚀 Backend running on http://localhost:%s", cfg.API.Port)
	if err := http.ListenAndServe(":"+cfg.API.Port, r); err != nil {
		log.Fatalf("❌ Server failed to start: %v", err)
	}
}

// newFirebaseApp initializes the Firebase app from file or base64
// credentials, base64 taking precedence for cloud deployments where files
// cannot be mounted.
func newFirebaseApp(ctx context.Context, cfg config.Config) (*firebase.App, error) {
	fbCfg := &firebase.Config{DatabaseURL: cfg.Firebase.DatabaseURL}

	if cfg.Firebase.CredentialsBase64 != "" {
		creds, err := base64.StdEncoding.DecodeString(cfg.Firebase.CredentialsBase64)
		if err != nil {
			return nil, err
		}
		return firebase.NewApp(ctx, fbCfg, option.WithCredentialsJSON(creds))
	}
	return firebase.NewApp(ctx, fbCfg, option.WithCredentialsFile(cfg.Firebase.CredentialsFile))
}
