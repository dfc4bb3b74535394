package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"leadership-chatbot-server/internal/observability"
)

// userIDHolder carries the authenticated user id back up the middleware
// chain. AuthMiddleware binds the id onto a derived request, so a plain
// context value set there is invisible to this middleware afterwards.
type userIDHolder struct {
	id int64
}

const userIDHolderKey contextKey = "userIDHolder"

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// LoggerMiddleware logs one structured line per request, tagged with a
// generated request id.
func LoggerMiddleware(logger *observability.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := uuid.New().String()

			holder := &userIDHolder{}
			r = r.WithContext(context.WithValue(r.Context(), userIDHolderKey, holder))

			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rw, r)

			fields := map[string]any{
				"request_id":  requestID,
				"method":      r.Method,
				"path":        r.URL.Path,
				"remote_addr": r.RemoteAddr,
				"status":      rw.statusCode,
				"duration_ms": time.Since(start).Milliseconds(),
			}
			if holder.id != 0 {
				fields["user_id"] = holder.id
			}

			logger.Info("http_request", fields)
		})
	}
}
