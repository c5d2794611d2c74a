package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
	Realtime  RealtimeConfig  `yaml:"realtime"`
	Poller    PollerConfig    `yaml:"poller"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Retention RetentionConfig `yaml:"retention"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PATCH,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type,Last-Event-ID"`
	ExposedHeaders   string `yaml:"exposed_headers"   env:"CORS_EXPOSED_HEADERS"   env-default:"X-Session-Id,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings. WriteTimeout stays 0 by default:
// dashboard streams are long-lived responses.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"0s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	// Heartbeat is the interval of keep-alive comments on dashboard streams.
	Heartbeat time.Duration `yaml:"heartbeat" env:"SERVER_HEARTBEAT" env-default:"25s"`
	// StreamOpensPerMinute limits how often one caller may open a stream.
	StreamOpensPerMinute int `yaml:"stream_opens_per_minute" env:"SERVER_STREAM_OPENS_PER_MINUTE" env-default:"30"`
}

// DatabaseConfig holds PostgreSQL connection settings. Every live dashboard
// session holds one connection per subscribed table, so MaxConns bounds the
// number of concurrent sessions.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"100"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AuthConfig holds bearer-token settings.
type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"       env:"AUTH_JWT_SECRET"       env-required:"true"`
	JWTIssuer      string        `yaml:"jwt_issuer"       env:"AUTH_JWT_ISSUER"       env-default:"solarsync"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"15m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// RealtimeConfig tunes change-event subscriptions and reconcilers.
type RealtimeConfig struct {
	// ChannelPrefix is prepended to table names to form NOTIFY channels.
	ChannelPrefix  string        `yaml:"channel_prefix"  env:"REALTIME_CHANNEL_PREFIX"  env-default:"realtime_"`
	FetchTimeout   time.Duration `yaml:"fetch_timeout"   env:"REALTIME_FETCH_TIMEOUT"   env-default:"15s"`
	ResyncInterval time.Duration `yaml:"resync_interval" env:"REALTIME_RESYNC_INTERVAL" env-default:"5m"`
	BackoffInitial time.Duration `yaml:"backoff_initial" env:"REALTIME_BACKOFF_INITIAL" env-default:"500ms"`
	BackoffMax     time.Duration `yaml:"backoff_max"     env:"REALTIME_BACKOFF_MAX"     env-default:"30s"`
	FeedLimit      int           `yaml:"feed_limit"      env:"REALTIME_FEED_LIMIT"      env-default:"50"`
}

// PollerConfig tunes the alert and metric scanners.
type PollerConfig struct {
	AlertsInterval       time.Duration `yaml:"alerts_interval"        env:"POLLER_ALERTS_INTERVAL"        env-default:"60s"`
	MetricsInterval      time.Duration `yaml:"metrics_interval"       env:"POLLER_METRICS_INTERVAL"       env-default:"60s"`
	WebhookStaleAfter    time.Duration `yaml:"webhook_stale_after"    env:"POLLER_WEBHOOK_STALE_AFTER"    env-default:"1h"`
	OverdueCriticalAfter time.Duration `yaml:"overdue_critical_after" env:"POLLER_OVERDUE_CRITICAL_AFTER" env-default:"168h"`
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	Enabled     bool   `yaml:"enabled"     env:"METRICS_ENABLED"     env-default:"true"`
	Path        string `yaml:"path"        env:"METRICS_PATH"        env-default:"/metrics"`
	Environment string `yaml:"environment" env:"METRICS_ENVIRONMENT" env-default:"dev"`
}

// RetentionConfig controls how long processed rows are kept by cmd/cleanup.
type RetentionConfig struct {
	WebhookLogDays int `yaml:"webhook_log_days" env:"RETENTION_WEBHOOK_LOG_DAYS" env-default:"30"`
}
