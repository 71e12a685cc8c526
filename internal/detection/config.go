// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package detection

import (
	"math"
	"time"
)

// FlightConfig configures the vertical-ascent classifier.
type FlightConfig struct {
	// MinAscentVelocity is the vertical velocity (units/tick) below which
	// upward motion is treated as noise.
	MinAscentVelocity float64 `json:"min_ascent_velocity"`

	// MaxAscentSamples is the longest legitimate run of upward samples.
	// A normal jump sustains roughly 6-8.
	MaxAscentSamples int `json:"max_ascent_samples"`

	BanThreshold int `json:"ban_threshold"`
}

// SpeedConfig configures the horizontal-velocity classifier.
// Distances are in world units per sample.
type SpeedConfig struct {
	WalkBase      float64 `json:"walk_base"`
	SprintBase    float64 `json:"sprint_base"`
	PerBoostLevel float64 `json:"per_boost_level"`

	// Leniency multiplies the bound to absorb network and tick jitter.
	Leniency float64 `json:"leniency"`

	BanThreshold int `json:"ban_threshold"`
}

// FreecamConfig configures the camera/position anomaly classifier.
type FreecamConfig struct {
	StationaryAfter  time.Duration `json:"stationary_after"`
	SnapDistance     float64       `json:"snap_distance"`
	PitchLockDegrees float64       `json:"pitch_lock_degrees"`
	BanThreshold     int           `json:"ban_threshold"`
}

// ResourceConfig configures the resource-pattern classifier.
type ResourceConfig struct {
	// Trackable is the allow-list of resource ids that are logged at all.
	Trackable []string `json:"trackable"`

	// Rare is the subset of Trackable evaluated for streak and burst patterns.
	Rare []string `json:"rare"`

	// MaxDepth is the highest Y level at which a rare extraction qualifies.
	MaxDepth int `json:"max_depth"`

	SuspiciousStreak int           `json:"suspicious_streak"`
	BurstThreshold   int           `json:"burst_threshold"`
	BurstWindow      time.Duration `json:"burst_window"`
}

// GraceConfig configures the grace controller.
type GraceConfig struct {
	// WindowTicks is the number of move samples suppressed after a grant.
	WindowTicks int `json:"window_ticks"`

	// RecognizedCauses are teleport causes that grant grace.
	RecognizedCauses []string `json:"recognized_causes"`

	// LaunchSpeed is the velocity magnitude above which a launch is considered.
	LaunchSpeed float64 `json:"launch_speed"`

	// LaunchItems are held items that make a launch legitimate.
	LaunchItems []string `json:"launch_items"`
}

// Config aggregates all classifier and scheduler settings.
type Config struct {
	Flight        FlightConfig   `json:"flight"`
	Speed         SpeedConfig    `json:"speed"`
	Freecam       FreecamConfig  `json:"freecam"`
	Resource      ResourceConfig `json:"resource"`
	Grace         GraceConfig    `json:"grace"`
	DecayInterval time.Duration  `json:"decay_interval"`
}

// DefaultFlightConfig returns the default flight classifier configuration.
func DefaultFlightConfig() FlightConfig {
	return FlightConfig{
		MinAscentVelocity: 0.08,
		MaxAscentSamples:  12,
		BanThreshold:      10,
	}
}

// DefaultSpeedConfig returns the default speed classifier configuration.
func DefaultSpeedConfig() SpeedConfig {
	return SpeedConfig{
		WalkBase:      0.60,
		SprintBase:    0.80,
		PerBoostLevel: 0.20,
		Leniency:      1.30,
		BanThreshold:  8,
	}
}

// DefaultFreecamConfig returns the default freecam classifier configuration.
func DefaultFreecamConfig() FreecamConfig {
	return FreecamConfig{
		StationaryAfter:  8 * time.Second,
		SnapDistance:     5.0,
		PitchLockDegrees: 89.5,
		BanThreshold:     6,
	}
}

// DefaultResourceConfig returns the default resource-pattern configuration.
func DefaultResourceConfig() ResourceConfig {
	return ResourceConfig{
		Trackable: []string{
			"coal_ore", "deepslate_coal_ore",
			"iron_ore", "deepslate_iron_ore",
			"copper_ore", "deepslate_copper_ore",
			"gold_ore", "deepslate_gold_ore", "nether_gold_ore",
			"redstone_ore", "deepslate_redstone_ore",
			"lapis_ore", "deepslate_lapis_ore",
			"diamond_ore", "deepslate_diamond_ore",
			"emerald_ore", "deepslate_emerald_ore",
			"nether_quartz_ore", "ancient_debris",
		},
		Rare: []string{
			"diamond_ore", "deepslate_diamond_ore",
			"emerald_ore", "deepslate_emerald_ore",
			"gold_ore", "deepslate_gold_ore", "nether_gold_ore",
			"ancient_debris",
		},
		MaxDepth:         0,
		SuspiciousStreak: 5,
		BurstThreshold:   4,
		BurstWindow:      30 * time.Second,
	}
}

// DefaultGraceConfig returns the default grace controller configuration.
// 20 ticks is one second of server time.
func DefaultGraceConfig() GraceConfig {
	return GraceConfig{
		WindowTicks:      20,
		RecognizedCauses: []string{"ender_pearl", "chorus_fruit", "command", "plugin", "spectate"},
		LaunchSpeed:      1.5,
		LaunchItems:      []string{"riptide_trident"},
	}
}

// DefaultConfig returns the complete default configuration.
func DefaultConfig() Config {
	return Config{
		Flight:        DefaultFlightConfig(),
		Speed:         DefaultSpeedConfig(),
		Freecam:       DefaultFreecamConfig(),
		Resource:      DefaultResourceConfig(),
		Grace:         DefaultGraceConfig(),
		DecayInterval: 5 * time.Second,
	}
}

// Sanitize replaces every missing or invalid setting with its default and
// returns the names of the settings it corrected. Configuration defects are
// never fatal.
func (c Config) Sanitize() (Config, []string) {
	d := DefaultConfig()
	var fixed []string

	posFloat := func(name string, v *float64, def float64) {
		if *v <= 0 || math.IsNaN(*v) || math.IsInf(*v, 0) {
			*v = def
			fixed = append(fixed, name)
		}
	}
	posInt := func(name string, v *int, def int) {
		if *v <= 0 {
			*v = def
			fixed = append(fixed, name)
		}
	}
	posDur := func(name string, v *time.Duration, def time.Duration) {
		if *v <= 0 {
			*v = def
			fixed = append(fixed, name)
		}
	}

	posFloat("flight.min_ascent_velocity", &c.Flight.MinAscentVelocity, d.Flight.MinAscentVelocity)
	posInt("flight.max_ascent_samples", &c.Flight.MaxAscentSamples, d.Flight.MaxAscentSamples)
	posInt("flight.ban_threshold", &c.Flight.BanThreshold, d.Flight.BanThreshold)

	posFloat("speed.walk_base", &c.Speed.WalkBase, d.Speed.WalkBase)
	posFloat("speed.sprint_base", &c.Speed.SprintBase, d.Speed.SprintBase)
	if c.Speed.PerBoostLevel < 0 || math.IsNaN(c.Speed.PerBoostLevel) {
		c.Speed.PerBoostLevel = d.Speed.PerBoostLevel
		fixed = append(fixed, "speed.per_boost_level")
	}
	if c.Speed.Leniency < 1 || math.IsNaN(c.Speed.Leniency) || math.IsInf(c.Speed.Leniency, 0) {
		c.Speed.Leniency = d.Speed.Leniency
		fixed = append(fixed, "speed.leniency")
	}
	posInt("speed.ban_threshold", &c.Speed.BanThreshold, d.Speed.BanThreshold)

	posDur("freecam.stationary_after", &c.Freecam.StationaryAfter, d.Freecam.StationaryAfter)
	posFloat("freecam.snap_distance", &c.Freecam.SnapDistance, d.Freecam.SnapDistance)
	if c.Freecam.PitchLockDegrees <= 0 || c.Freecam.PitchLockDegrees > 90 {
		c.Freecam.PitchLockDegrees = d.Freecam.PitchLockDegrees
		fixed = append(fixed, "freecam.pitch_lock_degrees")
	}
	posInt("freecam.ban_threshold", &c.Freecam.BanThreshold, d.Freecam.BanThreshold)

	if len(c.Resource.Trackable) == 0 {
		c.Resource.Trackable = d.Resource.Trackable
		fixed = append(fixed, "resource.trackable")
	}
	if len(c.Resource.Rare) == 0 {
		c.Resource.Rare = d.Resource.Rare
		fixed = append(fixed, "resource.rare")
	}
	c.Resource.Trackable = normalizeAll(c.Resource.Trackable)
	c.Resource.Rare = normalizeAll(c.Resource.Rare)
	posInt("resource.suspicious_streak", &c.Resource.SuspiciousStreak, d.Resource.SuspiciousStreak)
	posInt("resource.burst_threshold", &c.Resource.BurstThreshold, d.Resource.BurstThreshold)
	posDur("resource.burst_window", &c.Resource.BurstWindow, d.Resource.BurstWindow)

	posInt("grace.window_ticks", &c.Grace.WindowTicks, d.Grace.WindowTicks)
	posFloat("grace.launch_speed", &c.Grace.LaunchSpeed, d.Grace.LaunchSpeed)
	if c.Grace.RecognizedCauses == nil {
		c.Grace.RecognizedCauses = d.Grace.RecognizedCauses
		fixed = append(fixed, "grace.recognized_causes")
	}
	if c.Grace.LaunchItems == nil {
		c.Grace.LaunchItems = d.Grace.LaunchItems
		fixed = append(fixed, "grace.launch_items")
	}

	posDur("decay_interval", &c.DecayInterval, d.DecayInterval)

	return c, fixed
}

func normalizeAll(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if n := NormalizeResource(id); n != "" {
			out = append(out, n)
		}
	}
	return out
}
