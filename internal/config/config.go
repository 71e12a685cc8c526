// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package config

import (
	"time"

	"github.com/tomtom215/autoban/internal/alertstore"
	"github.com/tomtom215/autoban/internal/detection"
	"github.com/tomtom215/autoban/internal/logging"
	"github.com/tomtom215/autoban/internal/notify"
)

// Config is the complete server configuration.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Logging     LoggingConfig     `koanf:"logging"`
	Detection   DetectionConfig   `koanf:"detection"`
	Enforcement EnforcementConfig `koanf:"enforcement"`
	Ingest      IngestConfig      `koanf:"ingest"`
	Notify      NotifyConfig      `koanf:"notify"`
	Store       StoreConfig       `koanf:"store"`

	warnings []string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr              string        `koanf:"addr" validate:"required,hostname_port"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout" validate:"gt=0"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"gte=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gte=0"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds zerolog settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// DetectionConfig mirrors detection.Config in configuration form.
type DetectionConfig struct {
	Flight        FlightConfig   `koanf:"flight"`
	Speed         SpeedConfig    `koanf:"speed"`
	Freecam       FreecamConfig  `koanf:"freecam"`
	Resource      ResourceConfig `koanf:"resource"`
	Grace         GraceConfig    `koanf:"grace"`
	DecayInterval time.Duration  `koanf:"decay_interval"`
	OutboxSize    int            `koanf:"outbox_size"`
}

// FlightConfig holds vertical-ascent thresholds.
type FlightConfig struct {
	MinAscentVelocity float64 `koanf:"min_ascent_velocity"`
	MaxAscentSamples  int     `koanf:"max_ascent_samples"`
	BanThreshold      int     `koanf:"ban_threshold"`
}

// SpeedConfig holds horizontal-velocity thresholds.
type SpeedConfig struct {
	WalkBase      float64 `koanf:"walk_base"`
	SprintBase    float64 `koanf:"sprint_base"`
	PerBoostLevel float64 `koanf:"per_boost_level"`
	Leniency      float64 `koanf:"leniency"`
	BanThreshold  int     `koanf:"ban_threshold"`
}

// FreecamConfig holds camera anomaly thresholds.
type FreecamConfig struct {
	StationaryAfter  time.Duration `koanf:"stationary_after"`
	SnapDistance     float64       `koanf:"snap_distance"`
	PitchLockDegrees float64       `koanf:"pitch_lock_degrees"`
	BanThreshold     int           `koanf:"ban_threshold"`
}

// ResourceConfig holds resource-pattern thresholds.
type ResourceConfig struct {
	Trackable        []string      `koanf:"trackable"`
	Rare             []string      `koanf:"rare"`
	MaxDepth         int           `koanf:"max_depth"`
	SuspiciousStreak int           `koanf:"suspicious_streak"`
	BurstThreshold   int           `koanf:"burst_threshold"`
	BurstWindow      time.Duration `koanf:"burst_window"`
}

// GraceConfig holds grace controller settings.
type GraceConfig struct {
	WindowTicks      int      `koanf:"window_ticks"`
	RecognizedCauses []string `koanf:"recognized_causes"`
	LaunchSpeed      float64  `koanf:"launch_speed"`
	LaunchItems      []string `koanf:"launch_items"`
}

// EnforcementConfig controls whether bans reach hosts.
type EnforcementConfig struct {
	// Enabled=false logs enforcement requests without sending them.
	Enabled   bool `koanf:"enabled"`
	QueueSize int  `koanf:"queue_size" validate:"gte=0"`
}

// IngestConfig holds telemetry endpoint settings.
type IngestConfig struct {
	// TokenSecret is the HS256 key for host tokens. Empty disables auth.
	TokenSecret    string        `koanf:"token_secret"`
	AllowedOrigins []string      `koanf:"allowed_origins"`
	BusBuffer      int64         `koanf:"bus_buffer" validate:"gte=0"`
	BusCloseWait   time.Duration `koanf:"bus_close_timeout" validate:"gte=0"`
}

// NotifyConfig holds notifier settings.
type NotifyConfig struct {
	Discord         DiscordConfig `koanf:"discord"`
	Webhook         WebhookConfig `koanf:"webhook"`
	SendTimeout     time.Duration `koanf:"send_timeout" validate:"gt=0"`
	AnnounceStartup bool          `koanf:"announce_startup"`

	// Per-notifier rate limit and circuit breaker.
	RateLimit       float64       `koanf:"rate_limit" validate:"gt=0"`
	RateBurst       int           `koanf:"rate_burst" validate:"gt=0"`
	BreakerFailures uint32        `koanf:"breaker_failures" validate:"gt=0"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout" validate:"gt=0"`
}

// DiscordConfig holds Discord webhook settings.
type DiscordConfig struct {
	Enabled     bool   `koanf:"enabled"`
	WebhookURL  string `koanf:"webhook_url" validate:"required_if=Enabled true,omitempty,discord_webhook"`
	MinSeverity string `koanf:"min_severity" validate:"oneof=info warning ban"`
}

// WebhookConfig holds generic webhook settings.
type WebhookConfig struct {
	Enabled     bool              `koanf:"enabled"`
	WebhookURL  string            `koanf:"webhook_url" validate:"required_if=Enabled true,omitempty,url"`
	Headers     map[string]string `koanf:"headers"`
	MinSeverity string            `koanf:"min_severity" validate:"oneof=info warning ban"`
}

// StoreConfig holds alert history settings.
type StoreConfig struct {
	Enabled    bool          `koanf:"enabled"`
	Path       string        `koanf:"path" validate:"required_unless=InMemory true"`
	InMemory   bool          `koanf:"in_memory"`
	Retention  time.Duration `koanf:"retention" validate:"gt=0"`
	SyncWrites bool          `koanf:"sync_writes"`
	GCInterval time.Duration `koanf:"gc_interval" validate:"gt=0"`
}

// defaultConfig returns every setting at its default. Detection defaults
// come from the detection package so there is one source of truth.
func defaultConfig() *Config {
	d := detection.DefaultConfig()
	store := alertstore.DefaultConfig()
	guard := notify.DefaultGuardConfig()
	log := logging.DefaultConfig()

	return &Config{
		Server: ServerConfig{
			Addr:              ":8085",
			ReadHeaderTimeout: 10 * time.Second,
			ShutdownTimeout:   15 * time.Second,
			CORSOrigins:       []string{},
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
		},
		Logging: LoggingConfig{
			Level:  log.Level,
			Format: log.Format,
		},
		Detection: DetectionConfig{
			Flight: FlightConfig{
				MinAscentVelocity: d.Flight.MinAscentVelocity,
				MaxAscentSamples:  d.Flight.MaxAscentSamples,
				BanThreshold:      d.Flight.BanThreshold,
			},
			Speed: SpeedConfig{
				WalkBase:      d.Speed.WalkBase,
				SprintBase:    d.Speed.SprintBase,
				PerBoostLevel: d.Speed.PerBoostLevel,
				Leniency:      d.Speed.Leniency,
				BanThreshold:  d.Speed.BanThreshold,
			},
			Freecam: FreecamConfig{
				StationaryAfter:  d.Freecam.StationaryAfter,
				SnapDistance:     d.Freecam.SnapDistance,
				PitchLockDegrees: d.Freecam.PitchLockDegrees,
				BanThreshold:     d.Freecam.BanThreshold,
			},
			Resource: ResourceConfig{
				Trackable:        d.Resource.Trackable,
				Rare:             d.Resource.Rare,
				MaxDepth:         d.Resource.MaxDepth,
				SuspiciousStreak: d.Resource.SuspiciousStreak,
				BurstThreshold:   d.Resource.BurstThreshold,
				BurstWindow:      d.Resource.BurstWindow,
			},
			Grace: GraceConfig{
				WindowTicks:      d.Grace.WindowTicks,
				RecognizedCauses: d.Grace.RecognizedCauses,
				LaunchSpeed:      d.Grace.LaunchSpeed,
				LaunchItems:      d.Grace.LaunchItems,
			},
			DecayInterval: d.DecayInterval,
			OutboxSize:    detection.DefaultOutboxSize,
		},
		Enforcement: EnforcementConfig{
			Enabled:   true,
			QueueSize: 256,
		},
		Ingest: IngestConfig{
			AllowedOrigins: []string{},
			BusBuffer:      1024,
			BusCloseWait:   10 * time.Second,
		},
		Notify: NotifyConfig{
			Discord:         DiscordConfig{MinSeverity: string(detection.SeverityWarning)},
			Webhook:         WebhookConfig{MinSeverity: string(detection.SeverityWarning)},
			SendTimeout:     10 * time.Second,
			AnnounceStartup: true,
			RateLimit:       guard.Rate,
			RateBurst:       guard.Burst,
			BreakerFailures: guard.ConsecutiveFailures,
			BreakerTimeout:  guard.OpenTimeout,
		},
		Store: StoreConfig{
			Enabled:    true,
			Path:       store.Path,
			Retention:  store.Retention,
			SyncWrites: store.SyncWrites,
			GCInterval: store.GCInterval,
		},
	}
}

// Warnings returns the defects Load corrected.
func (c *Config) Warnings() []string {
	return c.warnings
}

// EngineConfig converts to detection.Config and sanitizes it. The second
// return lists the settings that were replaced by defaults.
func (c *Config) EngineConfig() (detection.Config, []string) {
	d := c.Detection
	return detection.Config{
		Flight: detection.FlightConfig{
			MinAscentVelocity: d.Flight.MinAscentVelocity,
			MaxAscentSamples:  d.Flight.MaxAscentSamples,
			BanThreshold:      d.Flight.BanThreshold,
		},
		Speed: detection.SpeedConfig{
			WalkBase:      d.Speed.WalkBase,
			SprintBase:    d.Speed.SprintBase,
			PerBoostLevel: d.Speed.PerBoostLevel,
			Leniency:      d.Speed.Leniency,
			BanThreshold:  d.Speed.BanThreshold,
		},
		Freecam: detection.FreecamConfig{
			StationaryAfter:  d.Freecam.StationaryAfter,
			SnapDistance:     d.Freecam.SnapDistance,
			PitchLockDegrees: d.Freecam.PitchLockDegrees,
			BanThreshold:     d.Freecam.BanThreshold,
		},
		Resource: detection.ResourceConfig{
			Trackable:        d.Resource.Trackable,
			Rare:             d.Resource.Rare,
			MaxDepth:         d.Resource.MaxDepth,
			SuspiciousStreak: d.Resource.SuspiciousStreak,
			BurstThreshold:   d.Resource.BurstThreshold,
			BurstWindow:      d.Resource.BurstWindow,
		},
		Grace: detection.GraceConfig{
			WindowTicks:      d.Grace.WindowTicks,
			RecognizedCauses: d.Grace.RecognizedCauses,
			LaunchSpeed:      d.Grace.LaunchSpeed,
			LaunchItems:      d.Grace.LaunchItems,
		},
		DecayInterval: d.DecayInterval,
	}.Sanitize()
}

// LoggerConfig converts to logging.Config.
func (c *Config) LoggerConfig() logging.Config {
	out := logging.DefaultConfig()
	out.Level = c.Logging.Level
	out.Format = c.Logging.Format
	out.Caller = c.Logging.Caller
	return out
}

// AlertStoreConfig converts to alertstore.Config.
func (c *Config) AlertStoreConfig() alertstore.Config {
	out := alertstore.DefaultConfig()
	out.Path = c.Store.Path
	out.InMemory = c.Store.InMemory
	out.Retention = c.Store.Retention
	out.SyncWrites = c.Store.SyncWrites
	out.GCInterval = c.Store.GCInterval
	return out
}

// GuardConfig converts the notifier resilience settings.
func (c *Config) GuardConfig() notify.GuardConfig {
	return notify.GuardConfig{
		Rate:                c.Notify.RateLimit,
		Burst:               c.Notify.RateBurst,
		ConsecutiveFailures: c.Notify.BreakerFailures,
		OpenTimeout:         c.Notify.BreakerTimeout,
	}
}
