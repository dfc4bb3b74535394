package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/getsentry/sentry-go"

	"leadership-chatbot-server/internal/observability"
	"leadership-chatbot-server/pkg/response"
)

// RecoverMiddleware converts panics into 500 responses and reports them to
// Sentry when it is configured.
func RecoverMiddleware(logger *observability.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					sentry.WithScope(func(scope *sentry.Scope) {
						scope.SetExtra("panic", rec)
						scope.SetExtra("stack", string(debug.Stack()))
						sentry.CaptureMessage("panic in request handler")
					})

					logger.Error("panic_recovered", map[string]any{
						"method": r.Method,
						"path":   r.URL.Path,
						"panic":  rec,
					})

					response.InternalError(w, "Internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
