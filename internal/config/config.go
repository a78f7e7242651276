package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Platform PlatformConfig
	Engine   EngineConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds mini-app session token configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// PlatformConfig holds chat-platform integration settings
type PlatformConfig struct {
	BotToken      string
	WebhookSecret string
	AdminChatID   int64
}

// EngineConfig is the immutable workflow-engine configuration injected
// into the validator and state machines at construction. Transition logic
// never reads ambient global state.
type EngineConfig struct {
	Timezone    string
	ShiftStart  string // "15:04"
	ShiftEnd    string
	GracePeriod time.Duration

	AdvanceCap decimal.Decimal

	// Default yearly quota in days per leave type, applied at provisioning.
	AnnualQuotaDays    int
	SickQuotaDays      int
	EmergencyQuotaDays int
}

func Load() (*Config, error) {
	// A missing .env is fine in production; env vars win either way.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "staffdesk"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "12h"),
	}

	// Chat platform configuration
	adminChatID, err := strconv.ParseInt(getEnv("ADMIN_CHAT_ID", "0"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_CHAT_ID: %w", err)
	}

	config.Platform = PlatformConfig{
		BotToken:      getEnv("BOT_TOKEN", ""),
		WebhookSecret: getEnv("WEBHOOK_SECRET", ""),
		AdminChatID:   adminChatID,
	}

	// Engine configuration
	gracePeriod, err := time.ParseDuration(getEnv("SHIFT_GRACE_PERIOD", "30m"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHIFT_GRACE_PERIOD: %w", err)
	}

	advanceCap, err := decimal.NewFromString(getEnv("ADVANCE_CAP", "1000"))
	if err != nil {
		return nil, fmt.Errorf("invalid ADVANCE_CAP: %w", err)
	}

	annualQuota, err := strconv.Atoi(getEnv("ANNUAL_QUOTA_DAYS", "12"))
	if err != nil {
		return nil, fmt.Errorf("invalid ANNUAL_QUOTA_DAYS: %w", err)
	}
	sickQuota, err := strconv.Atoi(getEnv("SICK_QUOTA_DAYS", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid SICK_QUOTA_DAYS: %w", err)
	}
	emergencyQuota, err := strconv.Atoi(getEnv("EMERGENCY_QUOTA_DAYS", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid EMERGENCY_QUOTA_DAYS: %w", err)
	}

	config.Engine = EngineConfig{
		Timezone:           getEnv("ENGINE_TIMEZONE", "Asia/Jakarta"),
		ShiftStart:         getEnv("SHIFT_START", "09:00"),
		ShiftEnd:           getEnv("SHIFT_END", "18:00"),
		GracePeriod:        gracePeriod,
		AdvanceCap:         advanceCap,
		AnnualQuotaDays:    annualQuota,
		SickQuotaDays:      sickQuota,
		EmergencyQuotaDays: emergencyQuota,
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Platform.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	if c.Platform.WebhookSecret == "" {
		return fmt.Errorf("WEBHOOK_SECRET is required")
	}
	// ADMIN_CHAT_ID stays optional: zero leaves admin pushes disabled.
	if _, err := time.Parse("15:04", c.Engine.ShiftStart); err != nil {
		return fmt.Errorf("SHIFT_START must be HH:MM: %w", err)
	}
	if _, err := time.Parse("15:04", c.Engine.ShiftEnd); err != nil {
		return fmt.Errorf("SHIFT_END must be HH:MM: %w", err)
	}
	if !c.Engine.AdvanceCap.IsPositive() {
		return fmt.Errorf("ADVANCE_CAP must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
