// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

/*
Package notify delivers detection alerts to external channels.

The detection core never talks to a notifier directly. It pushes alerts
into a bounded outbox and returns; the Dispatcher drains that outbox on its
own goroutine, persists each alert, and fans it out to every enabled
notifier with a per-send timeout. A slow or failing channel therefore
never stalls event processing.

Notifiers:

  - DiscordNotifier posts a color-coded embed to a Discord webhook
  - WebhookNotifier posts the raw alert as JSON to any endpoint

Both are normally wrapped in a Guarded notifier, which adds a token-bucket
rate limiter (golang.org/x/time/rate) and a circuit breaker
(sony/gobreaker) so that a dead endpoint is skipped instead of retried on
every alert.

Delivery failures are logged and counted in metrics. They are never
returned to the caller.
*/
package notify
