package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dukerupert/postmark-transport/internal/attachment"
	"github.com/dukerupert/postmark-transport/internal/handler"
	"github.com/dukerupert/postmark-transport/internal/middleware"
	"github.com/dukerupert/postmark-transport/internal/router"
	"github.com/dukerupert/postmark-transport/internal/routes"
	"github.com/dukerupert/postmark-transport/internal/telemetry"
)

const shutdownTimeout = 15 * time.Second

func newServeCommand(load ConfigLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the send endpoints over HTTP",
		Long: `Serve POST /send and POST /batch, plus /healthz and /metrics.
The send routes require "Authorization: Bearer $SEND_AUTH_TOKEN". Attachments
may only be inline, data: URIs or storage:// keys; local paths and URLs are
rejected. The server shuts down gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd, load)
			if err != nil {
				return err
			}
			defer a.cleanup()

			if a.cfg.Server.AuthToken == "" {
				return errors.New("SEND_AUTH_TOKEN is required to serve")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			h, closeHandler, err := newServerHandler(a)
			if err != nil {
				return err
			}
			defer closeHandler()

			srv := &http.Server{
				Addr:              fmt.Sprintf(":%d", a.cfg.Port),
				Handler:           h,
				ReadHeaderTimeout: 10 * time.Second,
				WriteTimeout:      2*a.cfg.Postmark.Timeout() + attachmentFetchTimeout,
			}
			return listenAndServe(ctx, srv, a)
		},
	}
}

// newServerHandler builds the HTTP handler. The returned func releases the
// rate limiter's background cleanup.
func newServerHandler(a *app) (http.Handler, func(), error) {
	t, err := a.newTransport(&attachment.Composer{
		DisableFileAccess: true,
		DisableURLAccess:  true,
	})
	if err != nil {
		return nil, nil, err
	}

	metrics := middleware.NewMetrics(a.registry, a.cfg.MetricsNamespace)

	r := router.New(
		router.Recovery(a.logger),
		telemetry.SentryMiddleware(),
		middleware.RequestID,
		middleware.WithRequestLogger(a.logger),
		router.Logger(a.logger),
		metrics.Middleware,
		middleware.MaxBodySize(),
	)

	var rl *middleware.RateLimiter
	closeFn := func() {}
	if a.cfg.RateLimit.RequestsPerSecond > 0 {
		cfg := middleware.DefaultRateLimiterConfig()
		cfg.RequestsPerSecond = a.cfg.RateLimit.RequestsPerSecond
		cfg.BurstSize = a.cfg.RateLimit.Burst
		if a.cfg.Server.TrustProxyHeaders {
			cfg.KeyFunc = middleware.GetClientIP
		}
		rl = middleware.NewRateLimiter(cfg)
		closeFn = rl.Stop
	}

	routes.RegisterMailRoutes(r, routes.MailDeps{
		Handler:     handler.NewMailHandler(t),
		RateLimiter: rl,
		Auth:        middleware.RequireToken(a.cfg.Server.AuthToken),
	})
	routes.RegisterOpsRoutes(r, routes.OpsDeps{Metrics: metrics})
	a.logger.Debug().Strs("routes", r.Routes()).Msg("routes registered")

	return r, closeFn, nil
}

func listenAndServe(ctx context.Context, srv *http.Server, a *app) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info().Str("address", srv.Addr).Msg("starting server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
