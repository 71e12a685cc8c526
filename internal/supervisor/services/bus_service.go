// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package services

import (
	"context"
	"fmt"

	"github.com/thejerf/suture/v4"
)

// EventBus is the part of eventbus.Bus the service drives.
type EventBus interface {
	RunWithContext(ctx context.Context) error
}

// BusService runs the telemetry event bus.
//
// A Watermill router cannot be run again once it has stopped, so a router
// failure is reported with suture.ErrDoNotRestart instead of looping the
// supervisor through restarts that would all fail.
type BusService struct {
	bus EventBus
}

// NewBusService creates a bus service.
func NewBusService(bus EventBus) *BusService {
	return &BusService{bus: bus}
}

// Serve implements suture.Service.
func (s *BusService) Serve(ctx context.Context) error {
	err := s.bus.RunWithContext(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err == nil {
		return suture.ErrDoNotRestart
	}
	return fmt.Errorf("%w: event bus stopped: %v", suture.ErrDoNotRestart, err)
}

// String implements fmt.Stringer for suture logging.
func (s *BusService) String() string {
	return "event-bus"
}
