// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/autoban/internal/detection"
)

func TestGuarded_OpensAfterConsecutiveFailures(t *testing.T) {
	m := newMockNotifier("flaky")
	m.setErr(errors.New("boom"))
	g := NewGuarded(m, GuardConfig{Rate: 1000, Burst: 100, ConsecutiveFailures: 3, OpenTimeout: time.Hour})

	for i := 0; i < 3; i++ {
		if err := g.Send(context.Background(), sampleAlert(detection.SeverityBan)); err == nil {
			t.Fatal("Send() should surface the notifier error")
		}
	}
	if g.State() != gobreaker.StateOpen {
		t.Fatalf("state = %s, want open", g.State())
	}

	err := g.Send(context.Background(), sampleAlert(detection.SeverityBan))
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("Send() on open circuit = %v, want ErrOpenState", err)
	}
	if n := len(m.alerts()); n != 3 {
		t.Errorf("wrapped notifier called %d times, want 3", n)
	}
}

func TestGuarded_RateLimitHonorsContext(t *testing.T) {
	m := newMockNotifier("slow")
	g := NewGuarded(m, GuardConfig{Rate: 0.001, Burst: 1})

	if err := g.Send(context.Background(), sampleAlert(detection.SeverityInfo)); err != nil {
		t.Fatalf("first Send() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := g.Send(ctx, sampleAlert(detection.SeverityInfo)); err == nil {
		t.Error("second Send() should fail waiting for a token")
	}
	if n := len(m.alerts()); n != 1 {
		t.Errorf("wrapped notifier called %d times, want 1", n)
	}
}

func TestGuarded_Delegates(t *testing.T) {
	m := newMockNotifier("discord")
	m.min = detection.SeverityWarning
	g := NewGuarded(m, GuardConfig{})

	if g.Name() != "discord" || !g.Enabled() || g.MinSeverity() != detection.SeverityWarning {
		t.Errorf("delegation mismatch: %s %v %s", g.Name(), g.Enabled(), g.MinSeverity())
	}
}
