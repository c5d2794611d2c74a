package config

import (
	"fmt"
	"regexp"
	"strings"
)

var channelPrefix = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Server.Heartbeat <= 0 {
		return fmt.Errorf("server.heartbeat must be > 0 (got %v)", c.Server.Heartbeat)
	}
	if c.Server.StreamOpensPerMinute <= 0 {
		return fmt.Errorf("server.stream_opens_per_minute must be > 0 (got %d)", c.Server.StreamOpensPerMinute)
	}

	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns (%d) must not exceed max_conns (%d)", c.Database.MinConns, c.Database.MaxConns)
	}

	if err := c.Realtime.validate(); err != nil {
		return fmt.Errorf("realtime: %w", err)
	}

	if err := c.Poller.validate(); err != nil {
		return fmt.Errorf("poller: %w", err)
	}

	if c.Retention.WebhookLogDays < 1 {
		return fmt.Errorf("retention.webhook_log_days must be >= 1 (got %d)", c.Retention.WebhookLogDays)
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with / (got %q)", c.Metrics.Path)
	}

	return nil
}

func (r *RealtimeConfig) validate() error {
	// The prefix ends up in LISTEN statements; keep it a plain identifier.
	if !channelPrefix.MatchString(r.ChannelPrefix) {
		return fmt.Errorf("channel_prefix must be a lower-case identifier (got %q)", r.ChannelPrefix)
	}
	if r.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be > 0 (got %v)", r.FetchTimeout)
	}
	if r.ResyncInterval < 0 {
		return fmt.Errorf("resync_interval must be >= 0 (got %v)", r.ResyncInterval)
	}
	if r.BackoffInitial <= 0 || r.BackoffMax < r.BackoffInitial {
		return fmt.Errorf("backoff must satisfy 0 < initial <= max (got %v, %v)", r.BackoffInitial, r.BackoffMax)
	}
	if r.FeedLimit <= 0 || r.FeedLimit > 500 {
		return fmt.Errorf("feed_limit must be in 1..500 (got %d)", r.FeedLimit)
	}
	return nil
}

func (p *PollerConfig) validate() error {
	if p.AlertsInterval <= 0 {
		return fmt.Errorf("alerts_interval must be > 0 (got %v)", p.AlertsInterval)
	}
	if p.MetricsInterval <= 0 {
		return fmt.Errorf("metrics_interval must be > 0 (got %v)", p.MetricsInterval)
	}
	if p.WebhookStaleAfter <= 0 {
		return fmt.Errorf("webhook_stale_after must be > 0 (got %v)", p.WebhookStaleAfter)
	}
	if p.OverdueCriticalAfter <= 0 {
		return fmt.Errorf("overdue_critical_after must be > 0 (got %v)", p.OverdueCriticalAfter)
	}
	return nil
}
