// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package detection

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/autoban/internal/logging"
	"github.com/tomtom215/autoban/internal/metrics"
)

// ErrUnknownEvent is returned by Handle for event types it does not route.
var ErrUnknownEvent = errors.New("unknown event type")

// Engine routes telemetry events to the classifiers and applies the
// escalation policy. It expects to be driven by one event at a time; the
// store lock only serializes it against the decay pass.
type Engine struct {
	cfg      Config
	store    *Store
	outbox   *Outbox
	enforcer Enforcer
	exempt   ExemptFunc
	grace    *GraceController
	now      func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithExempt sets the predicate consulted before any classifier runs.
func WithExempt(fn ExemptFunc) Option {
	return func(e *Engine) {
		if fn != nil {
			e.exempt = fn
		}
	}
}

// WithClock overrides the time source. Tests use it to drive stationary
// durations and burst windows.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates a detection engine. Invalid configuration values are
// replaced with defaults and logged.
func NewEngine(cfg Config, store *Store, outbox *Outbox, enforcer Enforcer, opts ...Option) *Engine {
	cfg, fixed := cfg.Sanitize()
	for _, name := range fixed {
		logging.Warn().Str("setting", name).Msg("invalid detection setting, using default")
	}

	e := &Engine{
		cfg:      cfg,
		store:    store,
		outbox:   outbox,
		enforcer: enforcer,
		exempt:   func(EntityID) bool { return false },
		grace:    NewGraceController(cfg.Grace),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	store.now = e.now

	logging.Info().
		Int("fly_ban", cfg.Flight.BanThreshold).
		Int("speed_ban", cfg.Speed.BanThreshold).
		Int("freecam_ban", cfg.Freecam.BanThreshold).
		Int("grace_ticks", cfg.Grace.WindowTicks).
		Msg("detection engine initialized")
	return e
}

// Config returns the sanitized configuration in use.
func (e *Engine) Config() Config {
	return e.cfg
}

// Store returns the entity store.
func (e *Engine) Store() *Store {
	return e.store
}

// Handle processes one telemetry event and returns the alerts it produced.
// The alerts have already been handed to the outbox.
func (e *Engine) Handle(ctx context.Context, ev Event) ([]Alert, error) {
	switch ev := ev.(type) {
	case JoinEvent:
		e.join(ctx, ev)
		return nil, nil
	case LeaveEvent:
		e.leave(ev)
		return nil, nil
	case TeleportEvent:
		e.teleport(ev)
		return nil, nil
	case MoveEvent:
		return e.move(ctx, ev), nil
	case ResourceBreakEvent:
		return e.resourceBreak(ctx, ev), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownEvent, ev)
	}
}

func (e *Engine) join(ctx context.Context, ev JoinEvent) {
	metrics.RecordEvent("join")
	if err := e.store.Create(ev.Entity, ev.Name); err != nil {
		// A join for a tracked entity means the leave was lost. Start over.
		logging.Ctx(ctx).Warn().Err(err).Str("entity", string(ev.Entity)).Msg("replacing stale entity state")
		e.store.Replace(ev.Entity, ev.Name)
	}
	metrics.ActiveEntities.Set(float64(e.store.Len()))
}

func (e *Engine) leave(ev LeaveEvent) {
	metrics.RecordEvent("leave")
	e.store.Remove(ev.Entity)
	metrics.ActiveEntities.Set(float64(e.store.Len()))
}

func (e *Engine) teleport(ev TeleportEvent) {
	metrics.RecordEvent("teleport")
	now := e.now()
	e.store.With(ev.Entity, func(s *EntityState) {
		if e.grace.RecognizedCause(ev.Cause) {
			e.grace.Grant(s, ev.To, now)
			metrics.RecordGraceGrant("teleport")
			return
		}
		if ev.To.Valid() {
			s.LastKnown = ev.To.clone()
		}
	})
}

func (e *Engine) move(ctx context.Context, ev MoveEvent) []Alert {
	metrics.RecordEvent("move")
	if e.exempt(ev.Entity) {
		metrics.RecordSkip("exempt")
		return nil
	}
	if !ev.From.Valid() || !ev.To.Valid() {
		metrics.RecordSkip("malformed")
	}

	now := e.now()
	var out outcome
	e.store.With(ev.Entity, func(s *EntityState) {
		grace := e.grace.Active(s)
		if !grace && e.grace.IsLaunch(ev) {
			e.grace.Grant(s, ev.To, now)
			metrics.RecordGraceGrant("launch")
			grace = true
		}

		out = e.apply(s, now,
			CheckFreecam(FreecamInput{From: ev.From, To: ev.To, Pitch: ev.Pitch, Grace: grace, Now: now}, s, e.cfg.Freecam),
			CheckFlight(FlightInput{
				VerticalVelocity: ev.Velocity.Y(),
				OnGround:         ev.OnGround,
				LiquidContact:    ev.InLiquid || ev.LiquidBelow,
				Grace:            grace,
				At:               ev.To,
			}, s, e.cfg.Flight),
			CheckSpeed(SpeedInput{
				From:       ev.From,
				To:         ev.To,
				Sprinting:  ev.Sprinting,
				SpeedLevel: ev.SpeedLevel,
				Gliding:    ev.Gliding,
				Grace:      grace,
			}, s, e.cfg.Speed),
		)

		// Sampled before and consumed after, so a grant covers exactly
		// WindowTicks move samples.
		e.grace.Tick(s)
	})
	e.deliver(ctx, out)
	return out.alerts
}

func (e *Engine) resourceBreak(ctx context.Context, ev ResourceBreakEvent) []Alert {
	metrics.RecordEvent("resource_break")
	if e.exempt(ev.Entity) {
		metrics.RecordSkip("exempt")
		return nil
	}
	switch strings.ToLower(ev.GameMode) {
	case "creative", "spectator":
		metrics.RecordSkip("game_mode")
		return nil
	}

	now := e.now()
	var out outcome
	e.store.With(ev.Entity, func(s *EntityState) {
		out = e.apply(s, now, CheckResource(ResourceInput{Resource: ev.Resource, At: ev.At, Now: now}, s, e.cfg.Resource))
	})
	e.deliver(ctx, out)
	return out.alerts
}

// outcome is what one event produced, collected under the store lock and
// delivered after it is released.
type outcome struct {
	alerts []Alert
	ban    *Escalation
}

// apply stamps classifier alerts and applies at most one escalation per event.
// Must be called with the store lock held.
func (e *Engine) apply(s *EntityState, now time.Time, results ...Result) outcome {
	var out outcome
	for _, r := range results {
		for _, a := range r.Alerts {
			out.alerts = append(out.alerts, stamp(a, now))
			if a.Severity != SeverityInfo {
				metrics.RecordViolation(string(a.Check))
			}
		}
		if r.Escalation == nil || out.ban != nil {
			continue
		}

		esc := *r.Escalation
		for _, c := range punitive {
			s.Violations.Reset(c)
		}
		out.ban = &esc
		out.alerts = append(out.alerts, stamp(Alert{
			Entity:     s.ID,
			Name:       s.DisplayName(),
			Check:      esc.Check,
			Severity:   SeverityBan,
			Title:      "Player Banned",
			Detail:     esc.Reason,
			Violations: esc.Count,
			Location:   s.LastKnown.clone(),
		}, now))
	}
	return out
}

// deliver hands alerts to the outbox, then requests enforcement. Neither
// call blocks.
func (e *Engine) deliver(ctx context.Context, out outcome) {
	for _, a := range out.alerts {
		metrics.RecordAlert(string(a.Check), string(a.Severity))
		event := logging.Ctx(ctx).Warn()
		if a.Severity == SeverityInfo {
			event = logging.Ctx(ctx).Info()
		}
		event.
			Str("entity", string(a.Entity)).
			Str("name", a.Name).
			Str("check", string(a.Check)).
			Str("severity", string(a.Severity)).
			Int("violations", a.Violations).
			Msg(a.Detail)
		e.outbox.Push(a)
	}

	if out.ban == nil || e.enforcer == nil {
		return
	}
	entity := out.alerts[0].Entity
	metrics.RecordEnforcement(string(out.ban.Check))
	logging.Ctx(ctx).Warn().
		Str("entity", string(entity)).
		Str("reason", out.ban.Reason).
		Msg("requesting enforcement")
	e.enforcer.RequestEnforcement(entity, out.ban.Reason)
}

func stamp(a Alert, now time.Time) Alert {
	a.ID = uuid.NewString()
	a.CreatedAt = now
	return a
}
