// Package config reads runtime settings from the environment. A .env file
// in the working directory is loaded first when present.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// DefaultUserID is used when WORKDAY_USER_ID is unset.
const DefaultUserID = "00000000-0000-0000-0000-000000000001"

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string
	UserID   string

	// Database. LocalMode is true when no DATABASE_URL is set.
	DatabaseURL    string
	DatabaseDriver string
	SQLitePath     string
	LocalMode      bool

	RedisURL    string
	RabbitMQURL string

	// Schedule
	ScheduleStartTime string
	TargetWorkMinutes int
	SnapshotTTL       time.Duration

	// Remote API. Empty means the CLI talks to the local store directly.
	APIURL     string
	APIAddr    string
	APITimeout time.Duration

	// Sync queue
	SyncMaxRetries int
	SyncRetryDelay time.Duration
	SyncDrainWait  time.Duration

	// Circuit breaker around the remote API
	BreakerMaxRequests      uint32
	BreakerInterval         time.Duration
	BreakerTimeout          time.Duration
	BreakerFailureThreshold uint32

	// Outbox
	OutboxPollInterval     time.Duration
	OutboxBatchSize        int
	OutboxMaxRetries       int
	OutboxStatsInterval    time.Duration
	OutboxRetentionDays    int
	OutboxCleanupInterval  time.Duration
	OutboxProcessorEnabled bool

	WorkerHealthAddr string

	// MCP
	MCPAddr      string
	MCPAuthToken string

	// CalDAV mirror
	CalDAVURL      string
	CalDAVUsername string
	CalDAVPassword string
	CalDAVCalendar string
}

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// Load reads the environment and validates the values that would otherwise
// fail deep inside a command.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("WORKDAY_LOG_LEVEL", "info"),
		UserID:   getEnv("WORKDAY_USER_ID", DefaultUserID),

		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DatabaseDriver: os.Getenv("DATABASE_DRIVER"),
		SQLitePath:     os.Getenv("SQLITE_PATH"),

		RedisURL:    os.Getenv("REDIS_URL"),
		RabbitMQURL: os.Getenv("RABBITMQ_URL"),

		ScheduleStartTime: getEnv("SCHEDULE_START_TIME", "08:00"),
		TargetWorkMinutes: getIntEnv("TARGET_WORK_MINUTES", 480),
		SnapshotTTL:       getDurationEnv("SNAPSHOT_TTL", 48*time.Hour),

		APIURL:     os.Getenv("WORKDAY_API_URL"),
		APIAddr:    getEnv("API_ADDR", "127.0.0.1:8080"),
		APITimeout: getDurationEnv("API_TIMEOUT", 10*time.Second),

		SyncMaxRetries: getIntEnv("SYNC_MAX_RETRIES", 3),
		SyncRetryDelay: getDurationEnv("SYNC_RETRY_DELAY", 2*time.Second),
		SyncDrainWait:  getDurationEnv("SYNC_DRAIN_WAIT", 15*time.Second),

		BreakerMaxRequests:      getUint32Env("BREAKER_MAX_REQUESTS", 1),
		BreakerInterval:         getDurationEnv("BREAKER_INTERVAL", time.Minute),
		BreakerTimeout:          getDurationEnv("BREAKER_TIMEOUT", 30*time.Second),
		BreakerFailureThreshold: getUint32Env("BREAKER_FAILURE_THRESHOLD", 5),

		OutboxPollInterval:     getDurationEnv("OUTBOX_POLL_INTERVAL", 250*time.Millisecond),
		OutboxBatchSize:        getIntEnv("OUTBOX_BATCH_SIZE", 100),
		OutboxMaxRetries:       getIntEnv("OUTBOX_MAX_RETRIES", 5),
		OutboxStatsInterval:    getDurationEnv("OUTBOX_STATS_INTERVAL", 30*time.Second),
		OutboxRetentionDays:    getIntEnv("OUTBOX_RETENTION_DAYS", 14),
		OutboxCleanupInterval:  getDurationEnv("OUTBOX_CLEANUP_INTERVAL", 24*time.Hour),
		OutboxProcessorEnabled: getBoolEnv("OUTBOX_PROCESSOR_ENABLED", true),

		WorkerHealthAddr: getEnv("WORKER_HEALTH_ADDR", "0.0.0.0:8081"),

		MCPAddr:      getEnv("MCP_ADDR", "127.0.0.1:8082"),
		MCPAuthToken: os.Getenv("MCP_AUTH_TOKEN"),

		CalDAVURL:      os.Getenv("CALDAV_URL"),
		CalDAVUsername: os.Getenv("CALDAV_USERNAME"),
		CalDAVPassword: os.Getenv("CALDAV_PASSWORD"),
		CalDAVCalendar: os.Getenv("CALDAV_CALENDAR"),
	}
	cfg.LocalMode = cfg.DatabaseURL == ""
	if cfg.DatabaseDriver == "" {
		if cfg.LocalMode {
			cfg.DatabaseDriver = "sqlite"
		} else {
			cfg.DatabaseDriver = "auto"
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := uuid.Parse(c.UserID); err != nil {
		return fmt.Errorf("WORKDAY_USER_ID %q is not a uuid: %w", c.UserID, err)
	}
	if !clockPattern.MatchString(c.ScheduleStartTime) {
		return fmt.Errorf("SCHEDULE_START_TIME %q must be HH:MM", c.ScheduleStartTime)
	}
	if c.TargetWorkMinutes <= 0 {
		return fmt.Errorf("TARGET_WORK_MINUTES must be positive, got %d", c.TargetWorkMinutes)
	}
	return nil
}

// DefaultUser returns the configured user as a uuid. Load has validated it.
func (c *Config) DefaultUser() uuid.UUID {
	return uuid.MustParse(c.UserID)
}

func (c *Config) IsDevelopment() bool { return c.AppEnv == "development" }

func (c *Config) IsProduction() bool { return c.AppEnv == "production" }

// RemoteMode reports whether schedule state lives behind an HTTP API.
func (c *Config) RemoteMode() bool { return c.APIURL != "" }

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getUint32Env(key string, defaultValue uint32) uint32 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseUint(value, 10, 32); err == nil {
			return uint32(n)
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
