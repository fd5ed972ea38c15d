package cli

import (
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/dukerupert/postmark-transport/internal"
	"github.com/dukerupert/postmark-transport/internal/attachment"
	"github.com/dukerupert/postmark-transport/internal/postmark"
	"github.com/dukerupert/postmark-transport/internal/storage"
	"github.com/dukerupert/postmark-transport/internal/telemetry"
	"github.com/dukerupert/postmark-transport/internal/transport"
)

const attachmentFetchTimeout = 30 * time.Second

// app holds the wired components shared by every command.
type app struct {
	cfg       *internal.Config
	logger    zerolog.Logger
	registry  *prometheus.Registry
	store     storage.Storage
	metrics   *telemetry.TransportMetrics
	transport *transport.Transport
	cleanup   func()
}

func newApp(cfg *internal.Config, logOut io.Writer) (*app, error) {
	logger := internal.NewLogger(logOut, cfg.Env, cfg.LogLevel)

	release := cfg.Sentry.Release
	if release == "" {
		release = transport.Version
	}
	flushSentry, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:              cfg.Sentry.DSN,
		Enabled:          cfg.Sentry.Enabled,
		Environment:      cfg.Sentry.Environment,
		Release:          release,
		SampleRate:       cfg.Sentry.SampleRate,
		TracesSampleRate: cfg.Sentry.TracesSampleRate,
		Debug:            cfg.Sentry.Debug,
	}, logger)
	if err != nil {
		return nil, err
	}

	var store storage.Storage
	if cfg.Storage.Enabled() {
		store, err = storage.NewStorage(cfg.Storage)
		if err != nil {
			flushSentry()
			return nil, err
		}
		logger.Info().Str("provider", cfg.Storage.Provider).Msg("attachment storage configured")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a := &app{
		cfg:      cfg,
		logger:   logger,
		registry: reg,
		store:    store,
		metrics:  telemetry.NewTransportMetrics(reg, cfg.MetricsNamespace),
		cleanup:  flushSentry,
	}

	a.transport, err = a.newTransport(&attachment.Composer{})
	if err != nil {
		flushSentry()
		return nil, err
	}
	return a, nil
}

// newTransport builds a transport around composer, filling in the shared
// fetch client and storage backend.
func (a *app) newTransport(composer *attachment.Composer) (*transport.Transport, error) {
	composer.HTTPClient = &http.Client{
		Timeout:   attachmentFetchTimeout,
		Transport: &telemetry.HTTPTransport{},
	}
	composer.Storage = a.store

	return transport.New(transport.Options{
		Auth: transport.Auth{APIKey: a.cfg.Postmark.APIToken},
		ProviderOptions: postmark.Options{
			BaseURL: a.cfg.Postmark.BaseURL,
			HTTPClient: &http.Client{
				Timeout:   a.cfg.Postmark.Timeout(),
				Transport: &telemetry.HTTPTransport{},
			},
		},
		ContentResolver: composer,
		Logger:          &a.logger,
		Metrics:         a.metrics,
	})
}
