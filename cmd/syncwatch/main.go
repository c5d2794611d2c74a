// Command syncwatch opens a dashboard session against the configured
// database and logs every snapshot change until interrupted. It is a
// debugging aid for trigger and scope problems.
//
// Usage: syncwatch -role client -user <uuid> [-domains payments,alerts]
//
// Exit codes: 0 = interrupted, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"github.com/heartmarshall/solarsync/internal/adapter/postgres"
	"github.com/heartmarshall/solarsync/internal/app"
	"github.com/heartmarshall/solarsync/internal/config"
	"github.com/heartmarshall/solarsync/internal/domain"
	"github.com/heartmarshall/solarsync/internal/realtime"
	"github.com/heartmarshall/solarsync/internal/service/dashboard"
)

func main() {
	role := flag.String("role", "admin", "dashboard role: admin, client or installer")
	user := flag.String("user", "", "user id the scope is filtered by")
	domainsFlag := flag.String("domains", "", "comma-separated domains (default: all)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	scope, domains, err := parseFlags(*role, *user, *domainsFlag)
	if err != nil {
		logger.Error("invalid flags", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	source := realtime.NewPGSource(pool, cfg.Realtime.ChannelPrefix, logger)
	svc := app.NewDashboardService(pool, source, cfg, logger, nil)

	sess, err := svc.Open(ctx, scope, domains...)
	if err != nil {
		logger.Error("open session", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer sess.Close()

	for _, d := range sess.Domains() {
		logSnapshot(logger, sess, d)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-sess.Changes():
			if !ok {
				return
			}
			logSnapshot(logger, sess, d)
		}
	}
}

func parseFlags(role, user, domainList string) (domain.Scope, []dashboard.Domain, error) {
	scope := domain.Scope{Role: domain.Role(role)}
	if user != "" {
		id, err := uuid.Parse(user)
		if err != nil {
			return domain.Scope{}, nil, domain.NewValidationError("user", "must be a uuid")
		}
		scope.UserID = id
	}
	if err := scope.Validate(); err != nil {
		return domain.Scope{}, nil, err
	}

	var domains []dashboard.Domain
	for _, name := range strings.Split(domainList, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		d, err := dashboard.ParseDomain(name)
		if err != nil {
			return domain.Scope{}, nil, err
		}
		domains = append(domains, d)
	}
	return scope, domains, nil
}

func logSnapshot(logger *slog.Logger, sess *dashboard.Session, d dashboard.Domain) {
	snap, err := sess.Snapshot(d)
	if err != nil {
		logger.Error("snapshot", slog.String("domain", string(d)), slog.String("error", err.Error()))
		return
	}
	attrs := []any{
		slog.String("domain", string(d)),
		slog.Uint64("version", snap.Version),
		slog.Bool("loading", snap.Loading),
		slog.Time("synced_at", snap.SyncedAt),
	}
	if snap.NewCount != nil {
		attrs = append(attrs, slog.Int("new_alerts", *snap.NewCount))
	}
	if snap.Error != "" {
		logger.Warn("snapshot changed", append(attrs, slog.String("error", snap.Error))...)
		return
	}
	logger.Info("snapshot changed", attrs...)
}
