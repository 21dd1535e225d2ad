// Package middleware contains chi middleware for the dispatch API.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/dispatchd/dispatch-api/internal/api/shared"
	"github.com/dispatchd/dispatch-api/internal/platform/logger"
)

// NewTraceMiddleware returns middleware that attaches a trace ID to
// the request context and a trace-scoped logger for downstream code.
// The trace ID is echoed in the X-Trace-ID response header.
func NewTraceMiddleware(baseLogger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())
			traceID := shared.GetTraceID(ctx)

			w.Header().Set("X-Trace-ID", traceID)

			requestLogger := baseLogger.With(slog.String("trace_id", traceID))
			ctx = logger.WithLogger(ctx, requestLogger)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
