// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package detection

import (
	"math"
	"slices"
	"testing"
)

func TestConfig_SanitizeKeepsValidValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Speed.BanThreshold = 3

	got, fixed := cfg.Sanitize()

	if len(fixed) != 0 {
		t.Errorf("valid config reported fixes: %v", fixed)
	}
	if got.Speed.BanThreshold != 3 {
		t.Errorf("BanThreshold = %d, want 3", got.Speed.BanThreshold)
	}
}

func TestConfig_SanitizeFallsBackToDefaults(t *testing.T) {
	var cfg Config
	cfg.Speed.Leniency = 0.5
	cfg.Speed.PerBoostLevel = -1
	cfg.Freecam.PitchLockDegrees = 120
	cfg.Flight.MinAscentVelocity = math.NaN()

	got, fixed := cfg.Sanitize()
	def := DefaultConfig()

	if got.Flight != def.Flight {
		t.Errorf("Flight = %+v, want %+v", got.Flight, def.Flight)
	}
	if got.Speed != def.Speed {
		t.Errorf("Speed = %+v, want %+v", got.Speed, def.Speed)
	}
	if got.Freecam != def.Freecam {
		t.Errorf("Freecam = %+v, want %+v", got.Freecam, def.Freecam)
	}
	if got.DecayInterval != def.DecayInterval || got.Grace.WindowTicks != def.Grace.WindowTicks {
		t.Errorf("decay/grace not defaulted: %v %d", got.DecayInterval, got.Grace.WindowTicks)
	}
	for _, name := range []string{"speed.leniency", "freecam.pitch_lock_degrees", "flight.min_ascent_velocity", "resource.rare"} {
		if !slices.Contains(fixed, name) {
			t.Errorf("fixed list %v missing %s", fixed, name)
		}
	}
}

func TestConfig_SanitizeNormalizesResourceIDs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Resource.Rare = []string{"minecraft:Diamond_Ore", " "}

	got, _ := cfg.Sanitize()

	if !slices.Equal(got.Resource.Rare, []string{"diamond_ore"}) {
		t.Errorf("Rare = %v", got.Resource.Rare)
	}
}

func TestConfig_EmptyCauseListIsHonored(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Grace.RecognizedCauses = []string{}

	got, fixed := cfg.Sanitize()

	if len(got.Grace.RecognizedCauses) != 0 || slices.Contains(fixed, "grace.recognized_causes") {
		t.Errorf("explicitly empty cause list replaced: %v", got.Grace.RecognizedCauses)
	}
}
