package config

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	defaultPort     = "8000"
	minSecretLength = 32
)

type Config struct {
	Port string `env:"PERIODCARE_PORT" envDefault:"8000"`

	DBBackend     string `env:"PERIODCARE_DB_BACKEND" envDefault:"sqlite"`
	DBPath        string `env:"PERIODCARE_DB_PATH" envDefault:"./periodcare.db"`
	MongoURI      string `env:"PERIODCARE_MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"PERIODCARE_MONGO_DATABASE" envDefault:"period_care"`

	JWTSecret  string        `env:"PERIODCARE_JWT_SECRET"`
	JWTKey     []byte        `env:"-"`
	AccessTTL  time.Duration `env:"PERIODCARE_ACCESS_TOKEN_TTL" envDefault:"30m"`
	RefreshTTL time.Duration `env:"PERIODCARE_REFRESH_TOKEN_TTL" envDefault:"168h"`

	SMTPHost     string `env:"PERIODCARE_SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort     int    `env:"PERIODCARE_SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"PERIODCARE_SMTP_USERNAME"`
	SMTPPassword string `env:"PERIODCARE_SMTP_PASSWORD"`
	SMTPFrom     string `env:"PERIODCARE_SMTP_FROM"`

	AdminEmail       string `env:"PERIODCARE_ADMIN_EMAIL" envDefault:"admin@periodcare.com"`
	AdminWhatsApp    string `env:"PERIODCARE_ADMIN_WHATSAPP" envDefault:"+919876543210"`
	ChatWebhookURL   string `env:"PERIODCARE_CHAT_WEBHOOK_URL"`
	ChatWebhookToken string `env:"PERIODCARE_CHAT_WEBHOOK_TOKEN"`
	FrontendURL      string `env:"PERIODCARE_FRONTEND_URL" envDefault:"http://localhost:3000"`

	// ReminderTime is the local time of day, HH:MM, at which the daily scan runs.
	ReminderTime          string         `env:"PERIODCARE_REMINDER_TIME" envDefault:"09:00"`
	Timezone              string         `env:"PERIODCARE_TIMEZONE" envDefault:"Local"`
	Location              *time.Location `env:"-"`
	ReminderOffsetDays    int            `env:"PERIODCARE_REMINDER_OFFSET_DAYS" envDefault:"30"`
	ReminderCatchUpDays   int            `env:"PERIODCARE_REMINDER_CATCH_UP_DAYS" envDefault:"0"`
	ReminderRetentionDays int            `env:"PERIODCARE_REMINDER_RETENTION_DAYS" envDefault:"90"`
	SchedulerEnabled      bool           `env:"PERIODCARE_SCHEDULER_ENABLED" envDefault:"true"`

	AddOnPolicy string `env:"PERIODCARE_ADDON_POLICY" envDefault:"skip"`

	RedisAddr       string        `env:"PERIODCARE_REDIS_ADDR"`
	RateLimit       int           `env:"PERIODCARE_RATE_LIMIT" envDefault:"10"`
	RateLimitWindow time.Duration `env:"PERIODCARE_RATE_LIMIT_WINDOW" envDefault:"1m"`

	UploadDir   string   `env:"PERIODCARE_UPLOAD_DIR" envDefault:"./uploads"`
	CORSOrigins []string `env:"PERIODCARE_CORS_ORIGINS" envSeparator:","`
	// Peers allowed to set X-Forwarded-For, as addresses or CIDR ranges.
	TrustedProxies []string `env:"PERIODCARE_TRUSTED_PROXIES" envSeparator:","`

	LogLevel  slog.Level `env:"PERIODCARE_LOG_LEVEL" envDefault:"INFO"`
	LogFormat string     `env:"PERIODCARE_LOG_FORMAT" envDefault:"text"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	// Signing key (critical for security)
	switch {
	case cfg.JWTSecret == "":
		slog.Warn("PERIODCARE_JWT_SECRET not set. Generating a random key for development. Tokens will be invalid after a restart. PLEASE SET PERIODCARE_JWT_SECRET IN PRODUCTION!")
		cfg.JWTKey = generateRandomBytes(minSecretLength)
	case len(cfg.JWTSecret) < minSecretLength:
		slog.Warn("PERIODCARE_JWT_SECRET is too short (min 32 bytes). Generating a random key for development. PLEASE SET A SECURE PERIODCARE_JWT_SECRET IN PRODUCTION!")
		cfg.JWTKey = generateRandomBytes(minSecretLength)
	default:
		cfg.JWTKey = []byte(cfg.JWTSecret)
	}

	// Make sure port is valid
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		slog.Error("Invalid PERIODCARE_PORT. Falling back to default.", "port", cfg.Port)
		cfg.Port = defaultPort
	}

	cfg.DBBackend = strings.ToLower(strings.TrimSpace(cfg.DBBackend))
	if cfg.DBBackend != "sqlite" && cfg.DBBackend != "mongo" {
		return nil, fmt.Errorf("PERIODCARE_DB_BACKEND must be sqlite or mongo, got %q", cfg.DBBackend)
	}
	if _, _, err := cfg.ReminderClock(); err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("PERIODCARE_TIMEZONE: %w", err)
	}
	cfg.Location = loc
	if cfg.ReminderOffsetDays <= 0 {
		return nil, fmt.Errorf("PERIODCARE_REMINDER_OFFSET_DAYS must be positive, got %d", cfg.ReminderOffsetDays)
	}
	if len(cfg.CORSOrigins) == 0 && cfg.FrontendURL != "" {
		cfg.CORSOrigins = []string{cfg.FrontendURL}
	}
	return &cfg, nil
}

// ReminderClock splits ReminderTime into hour and minute.
func (c *Config) ReminderClock() (hour, minute int, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(c.ReminderTime))
	if err != nil {
		return 0, 0, fmt.Errorf("PERIODCARE_REMINDER_TIME must be HH:MM, got %q", c.ReminderTime)
	}
	return t.Hour(), t.Minute(), nil
}

// SMTPConfigured reports whether real email delivery is possible.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPUsername != "" && c.SMTPPassword != ""
}

// generateRandomBytes generates a random byte slice of specified length
// Uses crypto/rand for secure random numbers.
func generateRandomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		slog.Error("Failed to read random bytes", "error", err)
		// Fallback to a less secure random string if crypto/rand fails
		fallbackKey := "fallback-insecure-key-" + strconv.FormatInt(time.Now().UnixNano(), 10)
		copy(b, fallbackKey)
	}
	return b
}
