// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package detection

import (
	"sync/atomic"

	"github.com/tomtom215/autoban/internal/logging"
	"github.com/tomtom215/autoban/internal/metrics"
)

// DefaultOutboxSize is the alert buffer used when none is configured.
const DefaultOutboxSize = 1024

// Outbox is the bounded hand-off between the detection core and the alert
// dispatcher. Push never blocks: when the buffer is full the alert is
// dropped and counted.
type Outbox struct {
	ch      chan Alert
	dropped atomic.Int64
}

// NewOutbox creates an outbox holding up to size pending alerts.
func NewOutbox(size int) *Outbox {
	if size <= 0 {
		size = DefaultOutboxSize
	}
	return &Outbox{ch: make(chan Alert, size)}
}

// Push enqueues an alert. It reports false if the alert was dropped.
func (o *Outbox) Push(a Alert) bool {
	select {
	case o.ch <- a:
		return true
	default:
		n := o.dropped.Add(1)
		metrics.RecordAlertDropped()
		logging.Warn().
			Str("entity", string(a.Entity)).
			Str("check", string(a.Check)).
			Int64("dropped_total", n).
			Msg("alert outbox full, dropping alert")
		return false
	}
}

// Alerts returns the receive side for the dispatcher.
func (o *Outbox) Alerts() <-chan Alert {
	return o.ch
}

// Len returns the number of pending alerts.
func (o *Outbox) Len() int {
	return len(o.ch)
}

// Dropped returns how many alerts were dropped since creation.
func (o *Outbox) Dropped() int64 {
	return o.dropped.Load()
}
