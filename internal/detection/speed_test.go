// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package detection

import (
	"math"
	"testing"
	"time"
)

const eps = 1e-6

func TestCheckSpeed_SprintBoundary(t *testing.T) {
	cfg := DefaultSpeedConfig()
	limit := cfg.SprintBase * cfg.Leniency

	tests := []struct {
		name       string
		dx         float64
		violations int
	}{
		{"just above", limit + eps, 1},
		{"just below", limit - eps, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newEntityState("p1", "", time.Unix(0, 0))
			res := CheckSpeed(SpeedInput{From: loc(0, 64, 0), To: loc(tt.dx, 64, 0), Sprinting: true}, s, cfg)
			if s.Violations.Speed != tt.violations || len(res.Alerts) != tt.violations {
				t.Errorf("violations=%d alerts=%d, want %d", s.Violations.Speed, len(res.Alerts), tt.violations)
			}
		})
	}
}

func TestSpeedConfig_MaxDisplacement(t *testing.T) {
	cfg := DefaultSpeedConfig()

	tests := []struct {
		name      string
		sprinting bool
		level     int
		want      float64
	}{
		{"walk", false, 0, 0.60 * 1.30},
		{"sprint", true, 0, 0.80 * 1.30},
		{"sprint speed II", true, 2, (0.80 + 0.40) * 1.30},
		{"negative level ignored", false, -3, 0.60 * 1.30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cfg.MaxDisplacement(tt.sprinting, tt.level)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("MaxDisplacement() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckSpeed_Skips(t *testing.T) {
	cfg := DefaultSpeedConfig()
	far := loc(10, 64, 0)
	other := &Location{World: "world_nether", Pos: far.Pos}

	tests := []struct {
		name string
		in   SpeedInput
	}{
		{"gliding", SpeedInput{From: loc(0, 64, 0), To: far, Gliding: true}},
		{"grace", SpeedInput{From: loc(0, 64, 0), To: far, Grace: true}},
		{"missing from", SpeedInput{To: far}},
		{"missing to", SpeedInput{From: loc(0, 64, 0)}},
		{"nan", SpeedInput{From: loc(0, 64, 0), To: loc(math.NaN(), 64, 0)}},
		{"cross world", SpeedInput{From: loc(0, 64, 0), To: other}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newEntityState("p1", "", time.Unix(0, 0))
			s.Violations.Speed = 3
			res := CheckSpeed(tt.in, s, cfg)
			if len(res.Alerts) != 0 || s.Violations.Speed != 3 {
				t.Errorf("skipped sample changed state: alerts=%d violations=%d", len(res.Alerts), s.Violations.Speed)
			}
		})
	}
}

func TestCheckSpeed_VerticalMotionIgnored(t *testing.T) {
	s := newEntityState("p1", "", time.Unix(0, 0))
	res := CheckSpeed(SpeedInput{From: loc(0, 64, 0), To: loc(0.1, 90, 0.1)}, s, DefaultSpeedConfig())
	if len(res.Alerts) != 0 {
		t.Error("vertical displacement counted as horizontal speed")
	}
}

func TestCheckSpeed_SeverityAndEscalation(t *testing.T) {
	cfg := DefaultSpeedConfig()
	s := newEntityState("p1", "Alex", time.Unix(0, 0))
	s.Violations.Speed = 6

	res := CheckSpeed(SpeedInput{From: loc(0, 64, 0), To: loc(3, 64, 0)}, s, cfg)
	if res.Alerts[0].Severity != SeverityWarning || res.Escalation != nil {
		t.Fatalf("7th violation: severity=%s escalation=%v", res.Alerts[0].Severity, res.Escalation)
	}

	res = CheckSpeed(SpeedInput{From: loc(0, 64, 0), To: loc(3, 64, 0)}, s, cfg)
	if res.Alerts[0].Severity != SeverityBan {
		t.Errorf("8th violation severity = %s, want ban", res.Alerts[0].Severity)
	}
	if res.Escalation == nil || res.Escalation.Count != 8 {
		t.Fatalf("escalation = %+v, want count 8", res.Escalation)
	}
	if res.Alerts[0].Name != "Alex" {
		t.Errorf("alert name = %q", res.Alerts[0].Name)
	}
}
