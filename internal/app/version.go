package app

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Set via ldflags, e.g.
// go build -ldflags "-X github.com/heartmarshall/solarsync/internal/app.Version=1.4.0"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildVersion formats the build for startup logs and /health.
func BuildVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime)
}

// buildInfo is the constant solarsync_build_info gauge, so dashboards can
// tell which release served a series.
func buildInfo() prometheus.Collector {
	g := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: ServiceName + "_build_info",
		Help: "Build information; the value is always 1.",
		ConstLabels: prometheus.Labels{
			"version": Version,
			"commit":  Commit,
		},
	})
	g.Set(1)
	return g
}
