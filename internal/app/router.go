package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/heartmarshall/solarsync/internal/config"
	"github.com/heartmarshall/solarsync/internal/domain"
	"github.com/heartmarshall/solarsync/internal/observability/metrics"
	"github.com/heartmarshall/solarsync/internal/service/dashboard"
	"github.com/heartmarshall/solarsync/internal/service/payment"
	"github.com/heartmarshall/solarsync/internal/transport/middleware"
	"github.com/heartmarshall/solarsync/internal/transport/rest"
)

type tokenValidator interface {
	ValidateToken(ctx context.Context, token string) (uuid.UUID, string, error)
}

type dashboardService interface {
	Open(ctx context.Context, scope domain.Scope, domains ...dashboard.Domain) (*dashboard.Session, error)
	Snapshot(ctx context.Context, scope domain.Scope, d dashboard.Domain) (dashboard.Snapshot, error)
}

type paymentService interface {
	RecordIntent(ctx context.Context, input payment.RecordIntentInput) (domain.Payment, error)
	UpdateProviderStatus(ctx context.Context, input payment.UpdateStatusInput) (domain.Payment, error)
}

// RouterDeps holds everything the HTTP layer is built from.
type RouterDeps struct {
	Config *config.Config
	Logger *slog.Logger
	DB     interface {
		Ping(ctx context.Context) error
	}
	Queue interface {
		QueueUsage(ctx context.Context) (float64, error)
	}
	Tokens    tokenValidator
	Dashboard dashboardService
	Payments  paymentService
	// Metrics and Registry are nil when metrics are disabled.
	Metrics  *metrics.Metrics
	Registry *prometheus.Registry
}

// NewRouter builds the HTTP handler. The returned func releases background
// resources and must be called on shutdown.
func NewRouter(d RouterDeps) (http.Handler, func()) {
	health := rest.NewHealthHandler(d.DB, d.Queue, BuildVersion())
	dash := rest.NewDashboardHandler(d.Dashboard, d.Config.Server.Heartbeat, d.Logger)
	pay := rest.NewPaymentHandler(d.Payments, d.Logger)
	limiter := middleware.NewRateLimiter(5 * time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /live", health.Live)
	mux.HandleFunc("GET /ready", health.Ready)
	mux.HandleFunc("GET /health", health.Health)

	mux.HandleFunc("GET /v1/dashboard/{domain}", dash.Snapshot)
	mux.Handle("GET /v1/dashboard/{domain}/stream",
		limiter.Limit(d.Config.Server.StreamOpensPerMinute)(http.HandlerFunc(dash.Stream)))
	mux.HandleFunc("POST /v1/dashboard/sessions/{id}/ack-alerts", dash.AckAlerts)

	mux.Handle("POST /v1/payments", middleware.AdminOnly(http.HandlerFunc(pay.RecordIntent)))
	mux.Handle("PATCH /v1/payments/{id}/provider-status", middleware.AdminOnly(http.HandlerFunc(pay.UpdateProviderStatus)))

	if d.Registry != nil {
		mux.Handle("GET "+d.Config.Metrics.Path, promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	// The metrics middleware reads the matched pattern, so it must be the
	// last wrapper before the mux.
	var observe middleware.Middleware
	if d.Metrics != nil {
		observe = d.Metrics.Middleware
	}
	chain := middleware.Chain(
		middleware.RequestID(),
		middleware.Logger(d.Logger),
		middleware.Recovery(d.Logger),
		middleware.CORS(d.Config.CORS),
		middleware.Auth(d.Tokens),
		observe,
	)
	return chain(mux), limiter.Stop
}
