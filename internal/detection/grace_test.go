// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package detection

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

func TestGraceController_GrantTickActive(t *testing.T) {
	g := NewGraceController(GraceConfig{WindowTicks: 3})
	s := newEntityState("p1", "", time.Unix(0, 0))
	s.WasStationary = true
	s.LastKnown = loc(0, 64, 0)

	now := time.Unix(100, 0)
	g.Grant(s, loc(500, 70, 500), now)

	if !g.Active(s) || s.GraceTicks != 3 {
		t.Fatalf("after Grant: active=%v ticks=%d", g.Active(s), s.GraceTicks)
	}
	if s.WasStationary {
		t.Error("Grant did not clear WasStationary")
	}
	if s.LastKnown.Pos != (mgl64.Vec3{500, 70, 500}) || !s.LastMove.Equal(now) {
		t.Errorf("Grant did not reset baseline: %+v at %v", s.LastKnown, s.LastMove)
	}

	for i := 0; i < 5; i++ {
		g.Tick(s)
	}
	if g.Active(s) || s.GraceTicks != 0 {
		t.Errorf("Tick did not floor at zero: %d", s.GraceTicks)
	}
}

func TestGraceController_RecognizedCause(t *testing.T) {
	g := NewGraceController(DefaultGraceConfig())

	for _, c := range []string{"ender_pearl", "chorus_fruit", "command", "plugin", "spectate"} {
		if !g.RecognizedCause(c) {
			t.Errorf("RecognizedCause(%q) = false", c)
		}
	}
	for _, c := range []string{"nether_portal", "unknown", ""} {
		if g.RecognizedCause(c) {
			t.Errorf("RecognizedCause(%q) = true", c)
		}
	}
}

func TestGraceController_IsLaunch(t *testing.T) {
	g := NewGraceController(DefaultGraceConfig())
	fast := mgl64.Vec3{1.2, 1.2, 0}

	tests := []struct {
		name string
		ev   MoveEvent
		want bool
	}{
		{"riptide in water", MoveEvent{Velocity: fast, InLiquid: true, HeldItems: []string{"riptide_trident"}}, true},
		{"riptide in rain", MoveEvent{Velocity: fast, WeatherActive: true, HeldItems: []string{"riptide_trident"}}, true},
		{"no launch item", MoveEvent{Velocity: fast, InLiquid: true, HeldItems: []string{"diamond_sword"}}, false},
		{"dry", MoveEvent{Velocity: fast, HeldItems: []string{"riptide_trident"}}, false},
		{"slow", MoveEvent{Velocity: mgl64.Vec3{0.5, 0.5, 0}, InLiquid: true, HeldItems: []string{"riptide_trident"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.IsLaunch(tt.ev); got != tt.want {
				t.Errorf("IsLaunch() = %v, want %v", got, tt.want)
			}
		})
	}
}
