// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package services

import (
	"context"
	"errors"
)

// ContextRunner is a component with a blocking run loop that returns when
// ctx is cancelled. The decay scheduler, ingest hub, alert dispatcher and
// alert store GC all have this shape.
type ContextRunner interface {
	RunWithContext(ctx context.Context) error
}

// RunnerService wraps a ContextRunner as a suture.Service.
type RunnerService struct {
	runner ContextRunner
	name   string
}

// NewRunnerService creates a service named name around runner.
func NewRunnerService(name string, runner ContextRunner) *RunnerService {
	return &RunnerService{runner: runner, name: name}
}

// Serve implements suture.Service.
func (s *RunnerService) Serve(ctx context.Context) error {
	err := s.runner.RunWithContext(ctx)
	// Cancellation is a clean stop, not a failure to restart.
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// String implements fmt.Stringer for suture logging.
func (s *RunnerService) String() string {
	return s.name
}
