package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"
	"time"

	httpapi "eventhub-backend/internal/api/http"
	"eventhub-backend/internal/config"
	"eventhub-backend/internal/logger"
	"eventhub-backend/internal/repository/postgres"
	"eventhub-backend/internal/security"
	"eventhub-backend/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting EventHub Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiryMinutes)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiryHours)*time.Hour,
	)

	// Initialize Email Service (nil when no API key is configured)
	emailSvc := service.NewEmailService(cfg.Email)
	if emailSvc == nil {
		logger.Warn("Email delivery disabled: no SendGrid API key configured")
	}

	// Initialize Services
	authSvc := service.NewAuthService(store.UserRepository, store.SessionRepository, tokenManager)
	eventSvc := service.NewEventService(store.EventRepository, store.ParticipantRepository, store.NotificationRepository)
	partSvc := service.NewParticipantService(
		store.ParticipantRepository,
		store.EventRepository,
		store.UserRepository,
		store.NotificationRepository,
		emailSvc,
	)
	noteSvc := service.NewNotificationService(store.NotificationRepository)
	userSvc := service.NewUserService(store.UserRepository, store.SessionRepository)

	// Set up HTTP server
	handlers := httpapi.NewHandlers(authSvc, eventSvc, partSvc, noteSvc, userSvc)
	middleware := httpapi.NewMiddleware(authSvc)
	router := httpapi.NewRouter(handlers, middleware)

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
