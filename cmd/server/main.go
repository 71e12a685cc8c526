// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/tomtom215/autoban/internal/alertstore"
	"github.com/tomtom215/autoban/internal/api"
	"github.com/tomtom215/autoban/internal/config"
	"github.com/tomtom215/autoban/internal/detection"
	"github.com/tomtom215/autoban/internal/eventbus"
	"github.com/tomtom215/autoban/internal/ingest"
	"github.com/tomtom215/autoban/internal/logging"
	"github.com/tomtom215/autoban/internal/metrics"
	"github.com/tomtom215/autoban/internal/notify"
	"github.com/tomtom215/autoban/internal/protocol"
	"github.com/tomtom215/autoban/internal/supervisor"
	"github.com/tomtom215/autoban/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.LoggerConfig())
	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	logging.Info().Str("version", version).Msg("Starting Autoban with supervisor tree")
	for _, w := range cfg.Warnings() {
		logging.Warn().Str("repair", w).Msg("Configuration repaired")
	}

	engineCfg, fixed := cfg.EngineConfig()
	for _, f := range fixed {
		logging.Warn().Str("setting", f).Msg("Invalid detection setting replaced with default")
	}

	// Alert history is optional; the API reports it unavailable when off.
	var store *alertstore.Store
	if cfg.Store.Enabled {
		store, err = alertstore.Open(cfg.AlertStoreConfig())
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to open alert store")
		}
		defer func() {
			if err := store.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing alert store")
			}
		}()
		logging.Info().Str("path", cfg.Store.Path).Bool("in_memory", cfg.Store.InMemory).Msg("Alert store opened")
	}

	decoder, err := protocol.NewDecoder()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to compile telemetry schema")
	}
	registry := protocol.NewStatusRegistry()

	entities := detection.NewStore()
	outbox := detection.NewOutbox(cfg.Detection.OutboxSize)
	hub := ingest.NewHub(cfg.Enforcement.QueueSize)

	var enforcer detection.Enforcer = hub
	if !cfg.Enforcement.Enabled {
		enforcer = detection.DryRunEnforcer{}
		logging.Warn().Msg("Enforcement disabled: bans are logged but not sent to hosts")
	}

	engine := detection.NewEngine(engineCfg, entities, outbox, enforcer,
		detection.WithExempt(registry.IsExempt))

	telemetry := eventbus.NewTelemetryHandler(decoder, engine, registry)
	bus, err := eventbus.New(eventbus.Config{
		Buffer:       cfg.Ingest.BusBuffer,
		CloseTimeout: cfg.Ingest.BusCloseWait,
	}, telemetry.Handle)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create event bus")
	}
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	if cfg.Ingest.TokenSecret == "" {
		logging.Warn().Msg("INGEST_TOKEN_SECRET not set: telemetry endpoint accepts unauthenticated hosts")
	}
	ingestHandler := ingest.NewHandler(hub, bus, ingest.HandlerConfig{
		TokenSecret:    cfg.Ingest.TokenSecret,
		AllowedOrigins: cfg.Ingest.AllowedOrigins,
	})

	guard := cfg.GuardConfig()
	notifiers := []notify.Notifier{
		notify.NewGuarded(notify.NewDiscordNotifier(notify.DiscordConfig{
			WebhookURL:  cfg.Notify.Discord.WebhookURL,
			Enabled:     cfg.Notify.Discord.Enabled,
			MinSeverity: cfg.Notify.Discord.MinSeverity,
		}), guard),
		notify.NewGuarded(notify.NewWebhookNotifier(notify.WebhookConfig{
			WebhookURL:  cfg.Notify.Webhook.WebhookURL,
			Headers:     cfg.Notify.Webhook.Headers,
			Enabled:     cfg.Notify.Webhook.Enabled,
			MinSeverity: cfg.Notify.Webhook.MinSeverity,
		}), guard),
	}

	// Interfaces stay nil, not typed-nil, when the store is off.
	var sink notify.AlertSink
	var alerts api.AlertReader
	if store != nil {
		sink = store
		alerts = store
	}
	dispatcher := notify.NewDispatcher(outbox.Alerts(), sink, notifiers, notify.DispatcherConfig{
		SendTimeout:     cfg.Notify.SendTimeout,
		AnnounceStartup: cfg.Notify.AnnounceStartup,
	})

	mwCfg := api.DefaultMiddlewareConfig()
	if len(cfg.Server.CORSOrigins) > 0 {
		mwCfg.CORSAllowedOrigins = cfg.Server.CORSOrigins
	}
	mwCfg.RateLimitRequests = cfg.Server.RateLimitRequests
	mwCfg.RateLimitWindow = cfg.Server.RateLimitWindow
	mwCfg.RateLimitDisabled = cfg.Server.RateLimitDisabled

	router := api.NewRouter(api.Dependencies{
		Entities:  entities,
		Alerts:    alerts,
		Hosts:     hub,
		Telemetry: ingestHandler,
	}, mwCfg)

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router.Handler(),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridges zerolog to slog for sutureslog.
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddDetectionService(services.NewRunnerService("decay-scheduler",
		detection.NewDecayer(entities, engineCfg.DecayInterval)))
	tree.AddDetectionService(services.NewBusService(bus))

	tree.AddDeliveryService(services.NewRunnerService("alert-dispatcher", dispatcher))
	tree.AddDeliveryService(services.NewRunnerService("ingest-hub", hub))
	if store != nil {
		tree.AddDeliveryService(services.NewRunnerService("alertstore-gc", store))
	}

	tree.AddAPIService(services.NewHTTPServerService(httpServer, cfg.Server.ShutdownTimeout))

	logging.Info().
		Str("addr", cfg.Server.Addr).
		Bool("enforcement", cfg.Enforcement.Enabled).
		Bool("alert_store", store != nil).
		Msg("Supervisor tree starting")

	errCh := tree.ServeBackground(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logging.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
		cancel()
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree returned an error during shutdown")
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree stopped unexpectedly")
		}
		cancel()
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within timeout")
		}
	}

	_, malformed, failed := telemetry.Stats()
	logging.Info().
		Int64("malformed_frames", malformed).
		Int64("failed_frames", failed).
		Int64("alerts_dropped", outbox.Dropped()).
		Msg("Autoban stopped")
}
