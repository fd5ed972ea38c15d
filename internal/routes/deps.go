package routes

import (
	"github.com/dukerupert/postmark-transport/internal/handler"
	"github.com/dukerupert/postmark-transport/internal/middleware"
	"github.com/dukerupert/postmark-transport/internal/router"
)

// MailDeps contains dependencies for the send routes
type MailDeps struct {
	Handler *handler.MailHandler

	// RateLimiter throttles the send routes. Nil disables throttling.
	RateLimiter *middleware.RateLimiter

	// Auth guards the send routes after rate limiting.
	Auth router.Middleware
}

// OpsDeps contains dependencies for operational routes
type OpsDeps struct {
	Metrics *middleware.Metrics
}
