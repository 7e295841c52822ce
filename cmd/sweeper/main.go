package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"borrowhub-backend/internal/config"
	"borrowhub-backend/internal/jobs"
	"borrowhub-backend/internal/logger"
	"borrowhub-backend/internal/repository/postgres"
	"borrowhub-backend/internal/scheduler"
	"borrowhub-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'expire-pending-rentals', 'prune-notifications', 'all')")
	flag.Parse()

	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting BorrowHub sweeper...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
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

	// Initialize Services
	var emailSvc service.EmailService
	if cfg.Email.Enabled {
		emailSvc = service.NewSendGridService(cfg.Email.APIKey, cfg.Email.FromEmail, cfg.Email.FromName)
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

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(&jobs.Services{
		Rental:       rentalSvc,
		Notification: noteSvc,
	}, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Sweeper scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down sweeper scheduler...")
	cronScheduler.Stop()
	logger.Info("Sweeper scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "expire-pending-rentals":
		jobRunner.ExpireStalePendingRentals()
	case "prune-notifications":
		jobRunner.PruneReadNotifications()
	case "all":
		jobRunner.RunAll()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - expire-pending-rentals\n")
		fmt.Printf("  - prune-notifications\n")
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
