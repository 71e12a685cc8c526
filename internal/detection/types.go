// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package detection

import (
	"fmt"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// EntityID identifies a tracked participant (the player UUID reported by the host).
type EntityID string

// CheckType identifies the classifier that produced a violation or alert.
type CheckType string

const (
	// CheckTypeFlight detects sustained unauthorized vertical ascent.
	CheckTypeFlight CheckType = "flight"

	// CheckTypeSpeed detects horizontal displacement above the legitimate bound.
	CheckTypeSpeed CheckType = "speed"

	// CheckTypeFreecam detects detached-camera behavior.
	CheckTypeFreecam CheckType = "freecam"

	// CheckTypeResource detects suspicious rare-resource mining. Alert-only.
	CheckTypeResource CheckType = "resource_pattern"

	// CheckTypeSystem marks alerts that do not originate from a classifier.
	CheckTypeSystem CheckType = "system"
)

// Label returns the human-readable check name used in alert titles.
func (c CheckType) Label() string {
	switch c {
	case CheckTypeFlight:
		return "Fly"
	case CheckTypeSpeed:
		return "Speed"
	case CheckTypeFreecam:
		return "Freecam"
	case CheckTypeResource:
		return "XRay"
	default:
		return "System"
	}
}

// Severity indicates the severity level of an alert.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityBan     Severity = "ban"
)

// Rank orders severities so notifiers can filter by a minimum level.
func (s Severity) Rank() int {
	switch s {
	case SeverityBan:
		return 2
	case SeverityWarning:
		return 1
	default:
		return 0
	}
}

// Location is a point in a named world.
type Location struct {
	World string     `json:"world"`
	Pos   mgl64.Vec3 `json:"pos"`
}

// MaxCoordinate bounds every axis of a valid location. It is past the
// world border on every axis, and keeps Block free of integer overflow.
const MaxCoordinate = 3e7

// Valid reports whether the location is present and every coordinate is
// finite and within MaxCoordinate.
func (l *Location) Valid() bool {
	if l == nil {
		return false
	}
	for _, v := range l.Pos {
		if math.IsNaN(v) || math.Abs(v) > MaxCoordinate {
			return false
		}
	}
	return true
}

// Block returns the integer block coordinates containing the location.
func (l *Location) Block() [3]int {
	return [3]int{
		int(math.Floor(l.Pos.X())),
		int(math.Floor(l.Pos.Y())),
		int(math.Floor(l.Pos.Z())),
	}
}

// String formats the location the way hosts print block coordinates.
func (l *Location) String() string {
	if l == nil {
		return "unknown"
	}
	if !l.Valid() {
		return fmt.Sprintf("%s (%g, %g, %g)", l.World, l.Pos.X(), l.Pos.Y(), l.Pos.Z())
	}
	b := l.Block()
	return fmt.Sprintf("%s (%d, %d, %d)", l.World, b[0], b[1], b[2])
}

// clone returns a copy of the location, or nil.
func (l *Location) clone() *Location {
	if l == nil {
		return nil
	}
	c := *l
	return &c
}

// Alert is a notification produced by a classifier or by the escalation path.
// Alerts are fire-and-forget: the core hands them to the Outbox and never
// waits for delivery.
type Alert struct {
	ID         string    `json:"id"`
	Entity     EntityID  `json:"entity"`
	Name       string    `json:"name,omitempty"`
	Check      CheckType `json:"check"`
	Severity   Severity  `json:"severity"`
	Title      string    `json:"title"`
	Detail     string    `json:"detail"`
	Violations int       `json:"violations"`
	Location   *Location `json:"location,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Escalation is a classifier's request that the engine apply the escalation policy.
type Escalation struct {
	Check  CheckType
	Count  int
	Reason string
}

// Result is what a classifier returns for one event.
type Result struct {
	Alerts     []Alert
	Escalation *Escalation
}

func (r *Result) alert(a Alert) {
	r.Alerts = append(r.Alerts, a)
}

// Event is a telemetry event delivered by the host.
type Event interface {
	EntityID() EntityID
}

// JoinEvent marks the start of a participant's session.
type JoinEvent struct {
	Entity EntityID
	Name   string
}

// LeaveEvent marks the end of a participant's session.
type LeaveEvent struct {
	Entity EntityID
}

// TeleportEvent reports an instantaneous repositioning.
type TeleportEvent struct {
	Entity EntityID
	Cause  string
	To     *Location
}

// MoveEvent is one position sample with its context flags.
type MoveEvent struct {
	Entity        EntityID
	From          *Location
	To            *Location
	Velocity      mgl64.Vec3
	OnGround      bool
	Gliding       bool
	InLiquid      bool
	LiquidBelow   bool
	WeatherActive bool
	Sprinting     bool
	SpeedLevel    int
	HeldItems     []string
	Pitch         float64
}

// ResourceBreakEvent reports the extraction of an in-world resource.
type ResourceBreakEvent struct {
	Entity   EntityID
	Resource string
	At       *Location
	GameMode string
}

func (e JoinEvent) EntityID() EntityID          { return e.Entity }
func (e LeaveEvent) EntityID() EntityID         { return e.Entity }
func (e TeleportEvent) EntityID() EntityID      { return e.Entity }
func (e MoveEvent) EntityID() EntityID          { return e.Entity }
func (e ResourceBreakEvent) EntityID() EntityID { return e.Entity }

// Enforcer performs enforcement on behalf of the engine. Implementations
// must return promptly; delivery happens off the event path.
type Enforcer interface {
	RequestEnforcement(entity EntityID, reason string)
}

// ExemptFunc reports whether an entity is currently exempt from all checks.
type ExemptFunc func(EntityID) bool
