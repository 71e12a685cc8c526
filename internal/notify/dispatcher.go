// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/autoban/internal/detection"
	"github.com/tomtom215/autoban/internal/logging"
	"github.com/tomtom215/autoban/internal/metrics"
)

// AlertSink persists alerts before they are fanned out.
type AlertSink interface {
	Save(alert detection.Alert) error
}

// DispatcherConfig configures a Dispatcher.
type DispatcherConfig struct {
	// SendTimeout bounds each individual notifier call.
	SendTimeout time.Duration

	// AnnounceStartup sends an "Autoban Online" alert when Run starts.
	AnnounceStartup bool
}

// Dispatcher drains the detection outbox and delivers alerts.
type Dispatcher struct {
	alerts    <-chan detection.Alert
	sink      AlertSink
	notifiers []Notifier
	cfg       DispatcherConfig
}

// NewDispatcher creates a dispatcher. sink may be nil.
func NewDispatcher(alerts <-chan detection.Alert, sink AlertSink, notifiers []Notifier, cfg DispatcherConfig) *Dispatcher {
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 10 * time.Second
	}
	return &Dispatcher{
		alerts:    alerts,
		sink:      sink,
		notifiers: notifiers,
		cfg:       cfg,
	}
}

// RunWithContext delivers alerts until ctx is cancelled or the outbox is
// closed.
func (d *Dispatcher) RunWithContext(ctx context.Context) error {
	active := 0
	for _, n := range d.notifiers {
		if n.Enabled() {
			active++
		}
	}
	logging.Info().Int("notifiers", active).Msg("alert dispatcher started")

	if d.cfg.AnnounceStartup {
		d.fanOut(ctx, detection.Alert{
			ID:        uuid.NewString(),
			Check:     detection.CheckTypeSystem,
			Severity:  detection.SeverityInfo,
			Title:     "Autoban Online",
			Detail:    "Behavioral anti-cheat detection is running",
			CreatedAt: time.Now(),
		})
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case alert, ok := <-d.alerts:
			if !ok {
				return nil
			}
			d.Dispatch(ctx, alert)
		}
	}
}

// Dispatch persists one alert and sends it to every accepting notifier.
func (d *Dispatcher) Dispatch(ctx context.Context, alert detection.Alert) {
	if d.sink != nil {
		if err := d.sink.Save(alert); err != nil {
			metrics.AlertsPersisted.WithLabelValues("failure").Inc()
			logging.Error().Err(err).Str("alert_id", alert.ID).Msg("failed to persist alert")
		} else {
			metrics.AlertsPersisted.WithLabelValues("success").Inc()
		}
	}
	d.fanOut(ctx, alert)
}

func (d *Dispatcher) fanOut(ctx context.Context, alert detection.Alert) {
	var wg sync.WaitGroup
	for _, n := range d.notifiers {
		if !accepts(n, alert) {
			continue
		}
		wg.Add(1)
		go func(n Notifier) {
			defer wg.Done()
			sendCtx, cancel := context.WithTimeout(ctx, d.cfg.SendTimeout)
			defer cancel()

			start := time.Now()
			err := n.Send(sendCtx, alert)
			metrics.RecordNotification(n.Name(), time.Since(start), err)
			if err != nil {
				logging.Warn().
					Err(err).
					Str("notifier", n.Name()).
					Str("alert_id", alert.ID).
					Str("entity", string(alert.Entity)).
					Msg("alert delivery failed")
			}
		}(n)
	}
	wg.Wait()
}
