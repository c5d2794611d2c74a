package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/heartmarshall/solarsync/pkg/ctxutil"
)

// Recovery returns middleware that turns a handler panic into a logged 500.
// http.ErrAbortHandler is re-raised so net/http drops the connection quietly.
// If the handler had already started a response, as a dashboard stream does,
// nothing more is written: the status line is gone and a JSON body would
// corrupt the event stream.
func Recovery(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tw := &trackingWriter{ResponseWriter: w}
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}
				logger.ErrorContext(r.Context(), "panic recovered",
					slog.Any("error", rec),
					slog.String("stack", string(debug.Stack())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("request_id", ctxutil.RequestIDFromCtx(r.Context())),
					slog.Bool("response_started", tw.started),
				)
				if tw.started {
					return
				}
				tw.Header().Set("Content-Type", "application/json")
				tw.WriteHeader(http.StatusInternalServerError)
				_, _ = tw.Write([]byte(`{"error":"internal server error"}` + "\n"))
			}()
			next.ServeHTTP(tw, r)
		})
	}
}

// trackingWriter records whether a response has been started.
type trackingWriter struct {
	http.ResponseWriter
	started bool
}

func (w *trackingWriter) WriteHeader(code int) {
	w.started = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *trackingWriter) Write(b []byte) (int, error) {
	w.started = true
	return w.ResponseWriter.Write(b)
}

func (w *trackingWriter) Flush() {
	w.started = true
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *trackingWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
