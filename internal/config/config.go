package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Jira     JiraConfig
	Throttle ThrottleConfig
	History  HistoryConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Probe    ProbeConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// JiraConfig holds the tracker endpoint, credentials and the fixed issue
// shape used on creation.
type JiraConfig struct {
	BaseURL           string
	ProjectKey        string
	Email             string
	APIToken          string
	IssueTypeID       string
	AssigneeAccountID string
	EpicKeys          []string
	TimeoutSeconds    int
}

// ThrottleConfig paces sequential remote calls.
type ThrottleConfig struct {
	UploadDelayMillis  int
	RefreshDelayMillis int
}

// HistoryConfig selects and configures the local history backend.
type HistoryConfig struct {
	Backend                string
	FilePath               string
	SQLitePath             string
	RefreshIntervalMinutes int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values for the status cache.
type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	StatusCacheTTL int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// ProbeConfig tunes the startup connectivity probe.
type ProbeConfig struct {
	TimeoutSeconds int
	MaxAttempts    int
	BackoffSeconds int
}

// Load reads configuration from environment variables, applying defaults
// where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "bugreport-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "3001"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 60),
		},
		Jira: JiraConfig{
			BaseURL:           getEnv("JIRA_BASE_URL", "https://your-domain.atlassian.net"),
			ProjectKey:        getEnv("JIRA_PROJECT_KEY", "PB"),
			Email:             os.Getenv("JIRA_EMAIL"),
			APIToken:          os.Getenv("JIRA_API_TOKEN"),
			IssueTypeID:       getEnv("JIRA_ISSUE_TYPE_ID", "10013"),
			AssigneeAccountID: os.Getenv("JIRA_ASSIGNEE_ACCOUNT_ID"),
			EpicKeys:          getEnvAsList("JIRA_EPIC_KEYS"),
			TimeoutSeconds:    getEnvAsInt("JIRA_TIMEOUT_SECONDS", 30),
		},
		Throttle: ThrottleConfig{
			UploadDelayMillis:  getEnvAsInt("UPLOAD_DELAY_MILLIS", 500),
			RefreshDelayMillis: getEnvAsInt("STATUS_REFRESH_DELAY_MILLIS", 100),
		},
		History: HistoryConfig{
			Backend:                getEnv("HISTORY_BACKEND", "file"),
			FilePath:               getEnv("HISTORY_FILE_PATH", "ticket-history.json"),
			SQLitePath:             getEnv("HISTORY_SQLITE_PATH", "ticket-history.db"),
			RefreshIntervalMinutes: getEnvAsInt("STATUS_REFRESH_INTERVAL_MINUTES", 10),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:           getEnv("REDIS_ADDR", ""),
			Password:       os.Getenv("REDIS_PASSWORD"),
			DB:             redisDB,
			StatusCacheTTL: getEnvAsInt("STATUS_CACHE_TTL_SECONDS", 60),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Probe: ProbeConfig{
			TimeoutSeconds: getEnvAsInt("PROBE_TIMEOUT_SECONDS", 10),
			MaxAttempts:    getEnvAsInt("PROBE_MAX_ATTEMPTS", 3),
			BackoffSeconds: getEnvAsInt("PROBE_BACKOFF_SECONDS", 2),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the per-call tracker timeout.
func (j JiraConfig) Timeout() time.Duration {
	if j.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(j.TimeoutSeconds) * time.Second
}

// BrowseURL returns the human-facing URL for an issue key.
func (j JiraConfig) BrowseURL(issueKey string) string {
	return fmt.Sprintf("%s/browse/%s", strings.TrimRight(j.BaseURL, "/"), issueKey)
}

// AttachmentURL returns the tracker's stable URL for a stored attachment.
func (j JiraConfig) AttachmentURL(id, filename string) string {
	return fmt.Sprintf("%s/secure/attachment/%s/%s", strings.TrimRight(j.BaseURL, "/"), id, filename)
}

// UploadDelay returns the pause inserted between sequential uploads.
func (t ThrottleConfig) UploadDelay() time.Duration {
	return time.Duration(t.UploadDelayMillis) * time.Millisecond
}

// RefreshDelay returns the pause inserted between status lookups.
func (t ThrottleConfig) RefreshDelay() time.Duration {
	return time.Duration(t.RefreshDelayMillis) * time.Millisecond
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key string) []string {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
