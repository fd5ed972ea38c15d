package middleware

import (
	"net/http"

	"github.com/dukerupert/postmark-transport/internal/domain"
	"github.com/dukerupert/postmark-transport/internal/handler"
)

const (
	KB = 1024
	MB = 1024 * KB

	// DefaultMaxBodySize fits a batch of mails with inline attachments.
	DefaultMaxBodySize = 50 * MB
)

// MaxBodySize rejects bodies whose declared length exceeds the limit and
// caps the rest while they are read. With no argument DefaultMaxBodySize
// applies.
func MaxBodySize(maxBytes ...int64) func(http.Handler) http.Handler {
	limit := int64(DefaultMaxBodySize)
	if len(maxBytes) > 0 {
		limit = maxBytes[0]
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				handler.ErrorResponse(w, r, domain.Errorf(domain.ETOOLARGE, "middleware.limits",
					"request body exceeds %d bytes", limit))
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
