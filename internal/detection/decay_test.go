// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package detection

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDecayer_Monotonic(t *testing.T) {
	s := NewStore()
	s.With("p1", func(st *EntityState) {
		st.Violations = Violations{Flight: 3, Speed: 1, Freecam: 0, ResourcePattern: 2}
	})
	d := NewDecayer(s, time.Second)

	want := []Violations{
		{Flight: 2, Speed: 0, Freecam: 0, ResourcePattern: 1},
		{Flight: 1, Speed: 0, Freecam: 0, ResourcePattern: 0},
		{Flight: 0, Speed: 0, Freecam: 0, ResourcePattern: 0},
		{Flight: 0, Speed: 0, Freecam: 0, ResourcePattern: 0},
	}
	for i, w := range want {
		if !d.Pass() {
			t.Fatalf("pass %d skipped", i)
		}
		snap, _ := s.Snapshot("p1")
		if snap.Violations != w {
			t.Errorf("after pass %d: %+v, want %+v", i+1, snap.Violations, w)
		}
	}
}

func TestDecayer_SkipsOverlappingPass(t *testing.T) {
	s := NewStore()
	d := NewDecayer(s, time.Second)

	d.running.Lock()
	if d.Pass() {
		t.Error("Pass() ran while another pass held the guard")
	}
	d.running.Unlock()

	if !d.Pass() {
		t.Error("Pass() skipped with no pass in progress")
	}
}

func TestDecayer_RunWithContext(t *testing.T) {
	s := NewStore()
	s.With("p1", func(st *EntityState) { st.Violations.Speed = 100 })
	d := NewDecayer(s, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.RunWithContext(ctx) }()

	deadline := time.After(2 * time.Second)
	for {
		snap, _ := s.Snapshot("p1")
		if snap.Violations.Speed < 100 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("decay scheduler never ran")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("RunWithContext() = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("RunWithContext did not return after cancel")
	}
}

func TestNewDecayer_DefaultInterval(t *testing.T) {
	d := NewDecayer(NewStore(), 0)
	if d.Interval() != DefaultConfig().DecayInterval {
		t.Errorf("Interval() = %v, want %v", d.Interval(), DefaultConfig().DecayInterval)
	}
}
