package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	JWT       JWTConfig       `yaml:"jwt"`
	Email     EmailConfig     `yaml:"email"`
	Pricing   PricingConfig   `yaml:"pricing"`
	Dispute   DisputeConfig   `yaml:"dispute"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// EmailConfig contains SendGrid settings for the email notification channel
type EmailConfig struct {
	Enabled   bool   `yaml:"enabled"`
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

// PricingConfig contains the platform money policy
type PricingConfig struct {
	ServiceFeePct int32 `yaml:"service_fee_pct"` // % of subtotal charged to the renter
	DepositPct    int32 `yaml:"deposit_pct"`     // % of item value held as deposit
}

// DisputeConfig contains the deposit dispute policy
type DisputeConfig struct {
	SevereKeywords     []string `yaml:"severe_keywords"`      // case-insensitive observation match
	AutoFlagThreshold  int32    `yaml:"auto_flag_threshold"`  // dispute count past which external policy flags a user
	NotificationTTLDay int32    `yaml:"notification_ttl_days"` // read-notification retention
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	ExpirePendingRentals  string `yaml:"expire_pending_rentals"`
	PruneNotifications    string `yaml:"prune_notifications"`
	ExpirationLeadMinutes int32  `yaml:"expiration_lead_minutes"`
	SweepTimeoutSeconds   int32  `yaml:"sweep_timeout_seconds"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Email.APIKey = val
	}

	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	if val := os.Getenv("SEVERE_KEYWORDS"); val != "" {
		c.Dispute.SevereKeywords = strings.Split(val, ",")
	}
}

// Validate checks if the configuration is valid and applies defaults
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}

	if c.Email.Enabled && c.Email.APIKey == "" {
		return fmt.Errorf("email is enabled but no SendGrid API key is set")
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	// Pricing defaults
	if c.Pricing.ServiceFeePct == 0 {
		c.Pricing.ServiceFeePct = 10
	}
	if c.Pricing.ServiceFeePct < 0 || c.Pricing.ServiceFeePct > 100 {
		return fmt.Errorf("service fee percent out of range: %d", c.Pricing.ServiceFeePct)
	}
	if c.Pricing.DepositPct == 0 {
		c.Pricing.DepositPct = 20
	}
	if c.Pricing.DepositPct < 0 || c.Pricing.DepositPct > 100 {
		return fmt.Errorf("deposit percent out of range: %d", c.Pricing.DepositPct)
	}

	// Dispute defaults
	if len(c.Dispute.SevereKeywords) == 0 {
		c.Dispute.SevereKeywords = []string{"broken", "shattered", "destroyed", "unusable", "snapped", "burnt"}
	}
	if c.Dispute.AutoFlagThreshold == 0 {
		c.Dispute.AutoFlagThreshold = 3
	}
	if c.Dispute.NotificationTTLDay == 0 {
		c.Dispute.NotificationTTLDay = 90
	}

	// Scheduler defaults
	if c.Scheduler.ExpirePendingRentals == "" {
		c.Scheduler.ExpirePendingRentals = "0 */5 * * * *" // every 5 minutes
	}
	if c.Scheduler.PruneNotifications == "" {
		c.Scheduler.PruneNotifications = "0 0 4 * * *" // 4 AM UTC
	}
	if c.Scheduler.ExpirationLeadMinutes == 0 {
		c.Scheduler.ExpirationLeadMinutes = 60
	}
	if c.Scheduler.SweepTimeoutSeconds == 0 {
		c.Scheduler.SweepTimeoutSeconds = 120
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// ExpirationLead returns how long before the scheduled pickup a pending
// rental goes stale.
func (c *Config) ExpirationLead() time.Duration {
	return time.Duration(c.Scheduler.ExpirationLeadMinutes) * time.Minute
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
