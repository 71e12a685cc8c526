// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package notify

import (
	"context"
	"sync"

	"github.com/tomtom215/autoban/internal/detection"
)

// mockNotifier records sends and returns a configurable error.
type mockNotifier struct {
	mu      sync.Mutex
	name    string
	enabled bool
	min     detection.Severity
	err     error
	sent    []detection.Alert
}

func newMockNotifier(name string) *mockNotifier {
	return &mockNotifier{name: name, enabled: true, min: detection.SeverityInfo}
}

func (m *mockNotifier) Name() string                    { return m.name }
func (m *mockNotifier) Enabled() bool                   { return m.enabled }
func (m *mockNotifier) MinSeverity() detection.Severity { return m.min }

func (m *mockNotifier) Send(_ context.Context, a detection.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, a)
	return m.err
}

func (m *mockNotifier) setErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *mockNotifier) alerts() []detection.Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]detection.Alert(nil), m.sent...)
}

// mockSink records persisted alerts.
type mockSink struct {
	mu    sync.Mutex
	saved []detection.Alert
	err   error
}

func (m *mockSink) Save(a detection.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, a)
	return nil
}

func (m *mockSink) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saved)
}
