// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package detection

import (
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

func loc(x, y, z float64) *Location {
	return &Location{World: "world", Pos: mgl64.Vec3{x, y, z}}
}

// mockEnforcer records enforcement requests.
type mockEnforcer struct {
	mu       sync.Mutex
	requests []enforcement
}

type enforcement struct {
	entity EntityID
	reason string
}

func (m *mockEnforcer) RequestEnforcement(entity EntityID, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, enforcement{entity: entity, reason: reason})
}

func (m *mockEnforcer) calls() []enforcement {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]enforcement(nil), m.requests...)
}

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func countBySeverity(alerts []Alert, sev Severity) int {
	n := 0
	for _, a := range alerts {
		if a.Severity == sev {
			n++
		}
	}
	return n
}
