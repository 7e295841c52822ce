package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	httpapi "borrowhub-backend/internal/api/http"
	"borrowhub-backend/internal/config"
	"borrowhub-backend/internal/logger"
	"borrowhub-backend/internal/repository/postgres"
	"borrowhub-backend/internal/security"
	"borrowhub-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Local development convenience; in deployment the env is already set.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting BorrowHub API server...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret)

	// Initialize Services
	var emailSvc service.EmailService
	if cfg.Email.Enabled {
		emailSvc = service.NewSendGridService(cfg.Email.APIKey, cfg.Email.FromEmail, cfg.Email.FromName)
		logger.Info("Email notification channel enabled", "from", cfg.Email.FromEmail)
	}
	noteSvc := service.NewNotificationService(store.NotificationRepository, store.UserRepository, emailSvc)

	rentalSvc := service.NewRentalService(
		store.RentalRepository,
		store.ItemRepository,
		noteSvc,
		service.RentalPolicy{
			ServiceFeePct:  cfg.Pricing.ServiceFeePct,
			DepositPct:     cfg.Pricing.DepositPct,
			ExpirationLead: cfg.ExpirationLead(),
		},
	)
	disputeSvc := service.NewDisputeService(
		store.DisputeRepository,
		store.RentalRepository,
		store.UserRepository,
		noteSvc,
		service.DisputePolicy{
			SevereKeywords:    cfg.Dispute.SevereKeywords,
			AutoFlagThreshold: cfg.Dispute.AutoFlagThreshold,
		},
	)

	// Set up HTTP server
	router := httpapi.NewRouter(tokenManager, rentalSvc, disputeSvc, noteSvc)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
