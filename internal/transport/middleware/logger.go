package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/solarsync/pkg/ctxutil"
)

// requestTrace collects facts learned further down the chain. Auth derives
// a new request, so the outer Logger cannot read the caller from its own
// context; Auth records it here instead.
type requestTrace struct {
	userID uuid.UUID
	role   string
}

type traceCtxKey struct{}

func withTrace(ctx context.Context) (context.Context, *requestTrace) {
	tr := &requestTrace{}
	return context.WithValue(ctx, traceCtxKey{}, tr), tr
}

// noteCaller records the authenticated caller for the request log.
func noteCaller(ctx context.Context, userID uuid.UUID, role string) {
	if tr, ok := ctx.Value(traceCtxKey{}).(*requestTrace); ok {
		tr.userID, tr.role = userID, role
	}
}

// Logger returns middleware that logs each request once it completes: method,
// path, status, bytes, duration, request id and, when authenticated, the
// caller. Dashboard streams are logged when the client disconnects, so their
// duration is the stream's lifetime.
func Logger(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			ctx, trace := withTrace(r.Context())

			next.ServeHTTP(sw, r.WithContext(ctx))

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", sw.status),
				slog.Int64("bytes", sw.bytes),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", ctxutil.RequestIDFromCtx(ctx)),
			}
			if trace.userID != uuid.Nil {
				attrs = append(attrs,
					slog.String("user_id", trace.userID.String()),
					slog.String("role", trace.role),
				)
			}

			level := slog.LevelInfo
			switch {
			case sw.status >= 500:
				level = slog.LevelError
			case sw.status == http.StatusTooManyRequests:
				level = slog.LevelWarn
			}
			logger.LogAttrs(ctx, level, "http.request", attrs...)
		})
	}
}

// statusWriter records the status code and body size.
type statusWriter struct {
	http.ResponseWriter
	status      int
	bytes       int64
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	n, err := w.ResponseWriter.Write(b)
	w.bytes += int64(n)
	return n, err
}

// Flush lets dashboard streams push events through the wrapper.
func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
