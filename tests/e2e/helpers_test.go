//go:build e2e

package e2e_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/solarsync/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/solarsync/internal/app"
	"github.com/heartmarshall/solarsync/internal/auth"
	"github.com/heartmarshall/solarsync/internal/config"
	"github.com/heartmarshall/solarsync/internal/domain"
	"github.com/heartmarshall/solarsync/internal/observability/metrics"
	"github.com/heartmarshall/solarsync/internal/realtime"
)

type testServer struct {
	*httptest.Server
	Pool *pgxpool.Pool
	JWT  *auth.JWTManager
}

// testLogWriter routes slog output through t.Log so it shows only on failure.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Heartbeat: time.Second, StreamOpensPerMinute: 1000},
		Auth: config.AuthConfig{
			JWTSecret:      "e2e-secret-that-is-at-least-32-characters",
			JWTIssuer:      "solarsync-e2e",
			AccessTokenTTL: time.Hour,
		},
		CORS: config.CORSConfig{AllowedOrigins: "*", AllowedMethods: "GET,POST,PATCH", AllowedHeaders: "Authorization"},
		Realtime: config.RealtimeConfig{
			ChannelPrefix:  "realtime_",
			FetchTimeout:   10 * time.Second,
			ResyncInterval: time.Minute,
			BackoffInitial: 50 * time.Millisecond,
			BackoffMax:     time.Second,
			FeedLimit:      50,
		},
		Poller: config.PollerConfig{
			AlertsInterval:       time.Hour,
			MetricsInterval:      time.Hour,
			WebhookStaleAfter:    time.Hour,
			OverdueCriticalAfter: 7 * 24 * time.Hour,
		},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics", Environment: "e2e"},
	}
}

// setupTestServer wires the full application against the shared test
// database, the same way app.Run does.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := testConfig()
	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, &slog.HandlerOptions{Level: slog.LevelWarn}))

	// Each live domain holds one connection per table it follows.
	poolCfg, err := pgxpool.ParseConfig(testhelper.DSN(t))
	require.NoError(t, err)
	poolCfg.MaxConns = 32
	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	registry := prometheus.NewRegistry()
	m := metrics.New(registry, metrics.Config{ServiceName: app.ServiceName, Environment: cfg.Metrics.Environment})

	source := realtime.NewPGSource(pool, cfg.Realtime.ChannelPrefix, logger)
	dashboardSvc := app.NewDashboardService(pool, source, cfg, logger, m)
	paymentSvc := app.NewPaymentService(pool, logger, m)
	jwt := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	handler, stop := app.NewRouter(app.RouterDeps{
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
	t.Cleanup(stop)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{Server: srv, Pool: pool, JWT: jwt}
}

func (ts *testServer) token(t *testing.T, role domain.Role, userID uuid.UUID) string {
	t.Helper()
	token, err := ts.JWT.GenerateAccessToken(userID, role)
	require.NoError(t, err)
	return token
}

// do sends a JSON request and decodes a JSON response into out when non-nil.
func (ts *testServer) do(t *testing.T, method, path, token string, body any, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, ts.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// sseEvent is one decoded "snapshot" event.
type sseEvent struct {
	ID   string
	Data snapshotPayload
}

type snapshotPayload struct {
	Domain   string            `json:"domain"`
	Items    []json.RawMessage `json:"items"`
	Loading  bool              `json:"loading"`
	Error    string            `json:"error"`
	Version  uint64            `json:"version"`
	NewCount *int              `json:"new_count"`
}

type stream struct {
	SessionID string
	Events    <-chan sseEvent
}

// openStream starts a dashboard stream and decodes its events in the
// background. The stream is closed on test cleanup.
func (ts *testServer) openStream(t *testing.T, domainName, token string) stream {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/v1/dashboard/"+domainName+"/stream", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	events := make(chan sseEvent, 64)
	go func() {
		defer close(events)
		defer resp.Body.Close()

		sc := bufio.NewScanner(resp.Body)
		sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		var ev sseEvent
		for sc.Scan() {
			line := sc.Text()
			switch {
			case strings.HasPrefix(line, "id: "):
				ev.ID = strings.TrimPrefix(line, "id: ")
			case strings.HasPrefix(line, "data: "):
				if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev.Data); err != nil {
					return
				}
			case line == "" && ev.ID != "":
				select {
				case events <- ev:
				case <-ctx.Done():
					return
				}
				ev = sseEvent{}
			}
		}
	}()

	return stream{SessionID: resp.Header.Get("X-Session-Id"), Events: events}
}

// awaitEvent returns the first event matching pred.
func awaitEvent(t *testing.T, s stream, pred func(sseEvent) bool) sseEvent {
	t.Helper()

	timeout := time.After(15 * time.Second)
	for {
		select {
		case ev, ok := <-s.Events:
			require.True(t, ok, "stream ended before the expected event")
			if pred(ev) {
				return ev
			}
		case <-timeout:
			t.Fatal("timed out waiting for stream event")
		}
	}
}

// itemWithID decodes the item with the given id from a snapshot.
func itemWithID(t *testing.T, ev sseEvent, id uuid.UUID) (map[string]any, bool) {
	t.Helper()
	for _, raw := range ev.Data.Items {
		var item map[string]any
		require.NoError(t, json.Unmarshal(raw, &item))
		if item["id"] == id.String() {
			return item, true
		}
	}
	return nil, false
}
