// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package detection

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/autoban/internal/logging"
	"github.com/tomtom215/autoban/internal/metrics"
)

// Decayer periodically forgives one violation per check for every tracked
// entity, so transient false positives (lag spikes, borderline timing)
// never accumulate into a ban.
type Decayer struct {
	store    *Store
	interval time.Duration

	// running guards against overlapping passes.
	running sync.Mutex
}

// NewDecayer creates a decay scheduler over store.
func NewDecayer(store *Store, interval time.Duration) *Decayer {
	if interval <= 0 {
		interval = DefaultConfig().DecayInterval
	}
	return &Decayer{store: store, interval: interval}
}

// Pass runs a single decay pass. It reports false, doing nothing, if another
// pass is still in progress.
func (d *Decayer) Pass() bool {
	if !d.running.TryLock() {
		metrics.DecayPassesSkipped.Inc()
		return false
	}
	defer d.running.Unlock()

	entities := 0
	d.store.Range(func(s *EntityState) {
		s.Violations.Decay()
		entities++
	})
	metrics.RecordDecayPass(entities)
	return true
}

// RunWithContext runs decay passes on the configured cadence until ctx is
// canceled. It is a suture service body.
func (d *Decayer) RunWithContext(ctx context.Context) error {
	logging.Info().Str("interval", d.interval.String()).Msg("violation decay scheduler started")

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Info().Msg("violation decay scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			d.Pass()
		}
	}
}

// Interval returns the decay cadence.
func (d *Decayer) Interval() time.Duration {
	return d.interval
}
