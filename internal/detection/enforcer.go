// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package detection

import "github.com/tomtom215/autoban/internal/logging"

// DryRunEnforcer logs enforcement requests without acting on them. It is
// used when enforcement is disabled so operators can calibrate thresholds
// before letting the engine ban anyone.
type DryRunEnforcer struct{}

// RequestEnforcement implements Enforcer.
func (DryRunEnforcer) RequestEnforcement(entity EntityID, reason string) {
	logging.Info().
		Str("entity", string(entity)).
		Str("reason", reason).
		Bool("dry_run", true).
		Msg("enforcement disabled, not banning")
}
