package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	JWT      JWTConfig
	S3       S3Config
	Log      LogConfig
	CORS     CORSConfig
	Redis    RedisConfig
	Queue    QueueConfig
	Email    EmailConfig
	Workflow WorkflowConfig
	API      APIConfig
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	FrontendURL string `mapstructure:"frontend_url"`
}

// QueueConfig holds notification worker settings.
type QueueConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	MaxRetries       int `mapstructure:"max_retries"`
	Concurrency      int `mapstructure:"concurrency"`
	BatchSize        int `mapstructure:"batch_size"`
	// ClaimTimeout is how long a notification may sit in sending before another
	// worker reclaims it.
	ClaimTimeout time.Duration `mapstructure:"claim_timeout"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RedisConfig holds the session registry and stats cache connection settings.
type RedisConfig struct {
	Addr          string        `mapstructure:"addr"`
	Password      string        `mapstructure:"password"`
	DB            int           `mapstructure:"db"`
	KeyPrefix     string        `mapstructure:"key_prefix"`
	StatsCacheTTL time.Duration `mapstructure:"stats_cache_ttl"`
}

// WorkflowConfig holds review workflow policy.
type WorkflowConfig struct {
	EnforceAmountCap bool `mapstructure:"enforce_amount_cap"`
	DefaultPageSize  int  `mapstructure:"default_page_size"`
	MaxPageSize      int  `mapstructure:"max_page_size"`
	// Timezone names the IANA zone inspection dates are judged in.
	Timezone string         `mapstructure:"timezone"`
	Location *time.Location `mapstructure:"-"`
}

// APIConfig is the single API location pkg/client consumers (seed smoke) are built from.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret            string        `mapstructure:"secret"`
	AccessTokenExpiry time.Duration `mapstructure:"access_expiry"`
	Issuer            string        `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings for the document store.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the LOANDESK_ prefix.
// A .env file in the working directory is loaded first when present; variables
// already set in the environment win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("LOANDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "loandesk")
	v.SetDefault("db.password", "loandesk_secret")
	v.SetDefault("db.name", "loandesk_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "12h")
	v.SetDefault("jwt.issuer", "loandesk")

	// S3 defaults
	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "loandesk-documents")
	v.SetDefault("s3.endpoint", "")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Redis defaults
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "loandesk")
	v.SetDefault("redis.stats_cache_ttl", "24h")

	// Queue defaults
	v.SetDefault("queue.poll_interval_secs", 10)
	v.SetDefault("queue.max_retries", 5)
	v.SetDefault("queue.concurrency", 5)
	v.SetDefault("queue.batch_size", 20)
	v.SetDefault("queue.claim_timeout", "5m")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "ap-south-1")
	v.SetDefault("email.from_address", "noreply@loandesk.local")
	v.SetDefault("email.from_name", "Loan Desk")
	v.SetDefault("email.frontend_url", "http://localhost:3000")

	// Workflow defaults
	v.SetDefault("workflow.enforce_amount_cap", false)
	v.SetDefault("workflow.default_page_size", 20)
	v.SetDefault("workflow.max_page_size", 100)
	v.SetDefault("workflow.timezone", "Asia/Karachi")

	// API client defaults
	v.SetDefault("api.base_url", "http://localhost:8080/api")
	v.SetDefault("api.timeout", "30s")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                 "LOANDESK_SERVER_PORT",
		"server.read_timeout":         "LOANDESK_SERVER_READ_TIMEOUT",
		"server.write_timeout":        "LOANDESK_SERVER_WRITE_TIMEOUT",
		"server.environment":          "LOANDESK_SERVER_ENVIRONMENT",
		"db.host":                     "LOANDESK_DB_HOST",
		"db.port":                     "LOANDESK_DB_PORT",
		"db.user":                     "LOANDESK_DB_USER",
		"db.password":                 "LOANDESK_DB_PASSWORD",
		"db.name":                     "LOANDESK_DB_NAME",
		"db.sslmode":                  "LOANDESK_DB_SSLMODE",
		"db.max_open":                 "LOANDESK_DB_MAX_OPEN",
		"db.max_idle":                 "LOANDESK_DB_MAX_IDLE",
		"jwt.secret":                  "LOANDESK_JWT_SECRET",
		"jwt.access_expiry":           "LOANDESK_JWT_ACCESS_EXPIRY",
		"jwt.issuer":                  "LOANDESK_JWT_ISSUER",
		"s3.region":                   "LOANDESK_S3_REGION",
		"s3.bucket":                   "LOANDESK_S3_BUCKET",
		"s3.endpoint":                 "LOANDESK_S3_ENDPOINT",
		"s3.access_key":               "LOANDESK_S3_ACCESS_KEY",
		"s3.secret_key":               "LOANDESK_S3_SECRET_KEY",
		"log.level":                   "LOANDESK_LOG_LEVEL",
		"log.format":                  "LOANDESK_LOG_FORMAT",
		"cors.allowed_origins":        "LOANDESK_CORS_ALLOWED_ORIGINS",
		"redis.addr":                  "LOANDESK_REDIS_ADDR",
		"redis.password":              "LOANDESK_REDIS_PASSWORD",
		"redis.db":                    "LOANDESK_REDIS_DB",
		"redis.key_prefix":            "LOANDESK_REDIS_KEY_PREFIX",
		"redis.stats_cache_ttl":       "LOANDESK_REDIS_STATS_CACHE_TTL",
		"queue.poll_interval_secs":    "LOANDESK_QUEUE_POLL_INTERVAL_SECS",
		"queue.max_retries":           "LOANDESK_QUEUE_MAX_RETRIES",
		"queue.concurrency":           "LOANDESK_QUEUE_CONCURRENCY",
		"queue.batch_size":            "LOANDESK_QUEUE_BATCH_SIZE",
		"queue.claim_timeout":         "LOANDESK_QUEUE_CLAIM_TIMEOUT",
		"email.provider":              "LOANDESK_EMAIL_PROVIDER",
		"email.region":                "LOANDESK_EMAIL_REGION",
		"email.from_address":          "LOANDESK_EMAIL_FROM_ADDRESS",
		"email.from_name":             "LOANDESK_EMAIL_FROM_NAME",
		"email.frontend_url":          "LOANDESK_EMAIL_FRONTEND_URL",
		"workflow.enforce_amount_cap": "LOANDESK_WORKFLOW_ENFORCE_AMOUNT_CAP",
		"workflow.default_page_size":  "LOANDESK_WORKFLOW_DEFAULT_PAGE_SIZE",
		"workflow.max_page_size":      "LOANDESK_WORKFLOW_MAX_PAGE_SIZE",
		"workflow.timezone":           "LOANDESK_WORKFLOW_TIMEZONE",
		"api.base_url":                "LOANDESK_API_BASE_URL",
		"api.timeout":                 "LOANDESK_API_TIMEOUT",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if LOANDESK_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("LOANDESK_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:            v.GetString("jwt.secret"),
		AccessTokenExpiry: v.GetDuration("jwt.access_expiry"),
		Issuer:            v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}
	cfg.Redis = RedisConfig{
		Addr:          v.GetString("redis.addr"),
		Password:      v.GetString("redis.password"),
		DB:            v.GetInt("redis.db"),
		KeyPrefix:     v.GetString("redis.key_prefix"),
		StatsCacheTTL: v.GetDuration("redis.stats_cache_ttl"),
	}
	cfg.Queue = QueueConfig{
		PollIntervalSecs: v.GetInt("queue.poll_interval_secs"),
		MaxRetries:       v.GetInt("queue.max_retries"),
		Concurrency:      v.GetInt("queue.concurrency"),
		BatchSize:        v.GetInt("queue.batch_size"),
		ClaimTimeout:     v.GetDuration("queue.claim_timeout"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		FrontendURL: v.GetString("email.frontend_url"),
	}
	cfg.Workflow = WorkflowConfig{
		EnforceAmountCap: v.GetBool("workflow.enforce_amount_cap"),
		DefaultPageSize:  v.GetInt("workflow.default_page_size"),
		MaxPageSize:      v.GetInt("workflow.max_page_size"),
		Timezone:         v.GetString("workflow.timezone"),
	}
	cfg.API = APIConfig{
		BaseURL: strings.TrimRight(v.GetString("api.base_url"), "/"),
		Timeout: v.GetDuration("api.timeout"),
	}

	if cfg.Workflow.DefaultPageSize <= 0 {
		return nil, fmt.Errorf("workflow.default_page_size must be positive, got %d", cfg.Workflow.DefaultPageSize)
	}
	if cfg.Workflow.MaxPageSize < cfg.Workflow.DefaultPageSize {
		cfg.Workflow.MaxPageSize = cfg.Workflow.DefaultPageSize
	}
	loc, err := time.LoadLocation(cfg.Workflow.Timezone)
	if err != nil {
		return nil, fmt.Errorf("workflow.timezone %q: %w", cfg.Workflow.Timezone, err)
	}
	cfg.Workflow.Location = loc

	return cfg, nil
}

// Parse comma-separated origins.
func splitList(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}
