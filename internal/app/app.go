package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/heartmarshall/solarsync/internal/adapter/postgres"
	"github.com/heartmarshall/solarsync/internal/adapter/postgres/activity"
	"github.com/heartmarshall/solarsync/internal/adapter/postgres/dispute"
	"github.com/heartmarshall/solarsync/internal/adapter/postgres/kpi"
	"github.com/heartmarshall/solarsync/internal/adapter/postgres/milestone"
	"github.com/heartmarshall/solarsync/internal/adapter/postgres/payment"
	"github.com/heartmarshall/solarsync/internal/adapter/postgres/project"
	"github.com/heartmarshall/solarsync/internal/adapter/postgres/quote"
	"github.com/heartmarshall/solarsync/internal/adapter/postgres/webhook"
	"github.com/heartmarshall/solarsync/internal/auth"
	"github.com/heartmarshall/solarsync/internal/config"
	"github.com/heartmarshall/solarsync/internal/observability/metrics"
	"github.com/heartmarshall/solarsync/internal/realtime"
	"github.com/heartmarshall/solarsync/internal/service/dashboard"
	paymentsvc "github.com/heartmarshall/solarsync/internal/service/payment"
)

// Run is the application entry point. It loads configuration, connects to
// the database, wires services and serves HTTP until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	var (
		registry *prometheus.Registry
		m        *metrics.Metrics
	)
	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			buildInfo(),
		)
		m = metrics.New(registry, metrics.Config{ServiceName: ServiceName, Environment: cfg.Metrics.Environment})
	}

	source := realtime.NewPGSource(pool, cfg.Realtime.ChannelPrefix, logger)
	dashboardSvc := NewDashboardService(pool, source, cfg, logger, m)
	paymentSvc := NewPaymentService(pool, logger, m)

	jwt := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	handler, stop := NewRouter(RouterDeps{
		Config:    cfg,
		Logger:    logger,
		DB:        pool,
		Queue:     source,
		Tokens:    jwt,
		Dashboard: dashboardSvc,
		Payments:  paymentSvc,
		Metrics:   m,
		Registry:  registry,
	})
	defer stop()

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		// Streams end when the server shuts down.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// NewDashboardService wires the dashboard read side to Postgres.
func NewDashboardService(
	pool *pgxpool.Pool,
	source realtime.Source,
	cfg *config.Config,
	logger *slog.Logger,
	obs dashboard.Observer,
) *dashboard.Service {
	return dashboard.NewService(logger, source, dashboard.Repos{
		Projects:   project.New(pool),
		Quotes:     quote.New(pool),
		Milestones: milestone.New(pool),
		Payments:   payment.New(pool),
		Activity:   activity.New(pool),
		Webhooks:   webhook.New(pool),
		Disputes:   dispute.New(pool),
		KPI:        kpi.New(pool),
	}, dashboardConfig(cfg), obs)
}

// NewPaymentService wires the payment service. Its writes run at Repeatable
// Read, so concurrent provider updates of one payment retry instead of
// interleaving their read and write.
func NewPaymentService(pool *pgxpool.Pool, logger *slog.Logger, m *metrics.Metrics) *paymentsvc.Service {
	tx := postgres.NewTxManager(pool, postgres.WithIsolation(pgx.RepeatableRead))
	return paymentsvc.NewService(logger, milestone.New(pool), payment.New(pool), activity.New(pool), tx, m)
}

func dashboardConfig(cfg *config.Config) dashboard.Config {
	return dashboard.Config{
		FeedLimit:            cfg.Realtime.FeedLimit,
		FetchTimeout:         cfg.Realtime.FetchTimeout,
		ResyncInterval:       cfg.Realtime.ResyncInterval,
		Backoff:              resubscribeBackoff(cfg.Realtime.BackoffInitial, cfg.Realtime.BackoffMax),
		AlertsInterval:       cfg.Poller.AlertsInterval,
		MetricsInterval:      cfg.Poller.MetricsInterval,
		WebhookStaleAfter:    cfg.Poller.WebhookStaleAfter,
		OverdueCriticalAfter: cfg.Poller.OverdueCriticalAfter,
	}
}

// resubscribeBackoff retries forever; a reconciler gives up only when its
// session closes.
func resubscribeBackoff(initial, maxInterval time.Duration) func() backoff.BackOff {
	return func() backoff.BackOff {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = initial
		b.MaxInterval = maxInterval
		b.MaxElapsedTime = 0
		b.Reset()
		return b
	}
}
