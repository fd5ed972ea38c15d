package middleware

import (
	"net/http"

	"github.com/rs/zerolog"
)

// WithRequestLogger injects a request-scoped zerolog logger into the
// context, tagged with method, path and request ID. Place it after RequestID.
// Downstream code reads it with zerolog.Ctx.
func WithRequestLogger(base zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lc := base.With().
				Str("method", r.Method).
				Str("path", r.URL.Path)

			if requestID := GetRequestID(r.Context()); requestID != "" {
				lc = lc.Str("request_id", requestID)
			}

			logger := lc.Logger()
			next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context())))
		})
	}
}
