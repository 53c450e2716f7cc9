package middleware

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/admin-mock-backend/pkg/logger"
	"github.com/go-chi/chi/middleware"
	"github.com/google/uuid"
)

const TraceIDHeader = "X-Trace-ID"

// TraceID tags every request with a trace id, taken from the X-Trace-ID
// header or generated, and stores a logger carrying it in the context.
func TraceID(lg *slog.Logger) func(http.Handler) http.Handler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := r.Header.Get(TraceIDHeader)
			if traceID == "" {
				traceID = uuid.NewString()
			}

			fields := []any{"traceID", traceID}
			if reqID := middleware.GetReqID(r.Context()); reqID != "" {
				fields = append(fields, "request_id", reqID)
			}
			ctx := logger.NewContext(r.Context(), lg.With(fields...))

			w.Header().Set(TraceIDHeader, traceID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
