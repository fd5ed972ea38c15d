// Package routes registers the HTTP host's endpoints on a router.
package routes

import (
	"net/http"

	"github.com/dukerupert/postmark-transport/internal/handler"
	"github.com/dukerupert/postmark-transport/internal/router"
)

// RegisterMailRoutes registers the send endpoints.
func RegisterMailRoutes(r *router.Router, deps MailDeps) {
	var mw []router.Middleware
	if deps.RateLimiter != nil {
		mw = append(mw, deps.RateLimiter.Middleware)
	}
	if deps.Auth != nil {
		mw = append(mw, deps.Auth)
	}
	g := r.Group(mw...)

	g.Post("/send", deps.Handler.Send)
	g.Post("/batch", deps.Handler.SendBatch)
}

// RegisterOpsRoutes registers health and metrics endpoints. These routes
// are not rate limited.
func RegisterOpsRoutes(r *router.Router, deps OpsDeps) {
	r.Get("/healthz", handler.Healthz)
	if deps.Metrics != nil {
		r.Handle(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}
}
