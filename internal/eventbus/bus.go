// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

// Package eventbus carries raw telemetry frames from the ingest edge to the
// detection engine over an in-process Watermill pub/sub.
//
// Every host connection publishes into one topic and a single router
// handler consumes it, so the engine sees one logical event stream no
// matter how many hosts are connected.
package eventbus

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/tomtom215/autoban/internal/logging"
)

// TopicTelemetry is the topic raw host frames are published on.
const TopicTelemetry = "telemetry"

// MetadataCorrelationID carries the ingest correlation ID on each message.
const MetadataCorrelationID = "correlation_id"

// Config configures the bus.
type Config struct {
	// Buffer is the per-subscriber output channel size.
	Buffer int64

	// CloseTimeout bounds how long Close waits for the in-flight frame.
	CloseTimeout time.Duration
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		Buffer:       1024,
		CloseTimeout: 10 * time.Second,
	}
}

// Bus is an in-memory publisher plus a router with one consumer handler.
type Bus struct {
	pubsub *gochannel.GoChannel
	router *message.Router
	logger watermill.LoggerAdapter
}

// New creates a bus whose telemetry topic is consumed by handler.
func New(cfg Config, handler message.NoPublishHandlerFunc) (*Bus, error) {
	def := DefaultConfig()
	if cfg.Buffer <= 0 {
		cfg.Buffer = def.Buffer
	}
	if cfg.CloseTimeout <= 0 {
		cfg.CloseTimeout = def.CloseTimeout
	}

	logger := logging.NewWatermillLogger()

	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: cfg.Buffer,
		// Publishers wait for the handler's ack, which keeps frames from
		// one connection in order.
		BlockPublishUntilSubscriberAck: true,
	}, logger)

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}
	router.AddMiddleware(middleware.Recoverer)
	router.AddConsumerHandler("telemetry_to_engine", TopicTelemetry, pubsub, handler)

	return &Bus{pubsub: pubsub, router: router, logger: logger}, nil
}

// Publish sends one raw frame. It waits until the router is running and
// the handler has acknowledged the frame, or ctx is done.
func (b *Bus) Publish(ctx context.Context, frame []byte) error {
	select {
	case <-b.router.Running():
	case <-ctx.Done():
		return ctx.Err()
	}

	msg := message.NewMessage(watermill.NewUUID(), frame)
	if id := logging.CorrelationIDFromContext(ctx); id != "" {
		msg.Metadata.Set(MetadataCorrelationID, id)
	}
	if err := b.pubsub.Publish(TopicTelemetry, msg); err != nil {
		return fmt.Errorf("publish frame: %w", err)
	}
	return nil
}

// RunWithContext runs the router until ctx is cancelled.
func (b *Bus) RunWithContext(ctx context.Context) error {
	logging.Info().Str("topic", TopicTelemetry).Msg("event bus started")
	err := b.router.Run(ctx)
	if err != nil {
		return err
	}
	return ctx.Err()
}

// Running closes once the router has started.
func (b *Bus) Running() <-chan struct{} {
	return b.router.Running()
}

// Close stops the router and the pub/sub.
func (b *Bus) Close() error {
	if err := b.router.Close(); err != nil {
		return fmt.Errorf("close router: %w", err)
	}
	return b.pubsub.Close()
}
