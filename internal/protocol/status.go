// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package protocol

import (
	"slices"
	"strings"
	"sync"

	"github.com/tomtom215/autoban/internal/detection"
)

// Status is the last host-reported state of an entity that affects
// exemption.
type Status struct {
	GameMode  string
	Flying    bool
	InVehicle bool
	Bypass    bool
	Effects   []string
}

// exemptEffects are status effects that legitimately alter movement.
var exemptEffects = []string{"jump_boost", "levitation", "slow_falling"}

// Exempt reports whether the status puts the entity outside all checks.
func (s Status) Exempt() bool {
	switch strings.ToLower(s.GameMode) {
	case "creative", "spectator":
		return true
	}
	if s.Flying || s.InVehicle || s.Bypass {
		return true
	}
	for _, e := range s.Effects {
		if slices.Contains(exemptEffects, detection.NormalizeResource(e)) {
			return true
		}
	}
	return false
}

// StatusRegistry holds the latest Status per entity.
type StatusRegistry struct {
	mu       sync.RWMutex
	statuses map[detection.EntityID]Status
}

// NewStatusRegistry creates an empty registry.
func NewStatusRegistry() *StatusRegistry {
	return &StatusRegistry{statuses: make(map[detection.EntityID]Status)}
}

// Apply records a status frame.
func (r *StatusRegistry) Apply(f Frame) {
	r.Set(detection.EntityID(f.Entity), Status{
		GameMode:  f.GameMode,
		Flying:    f.Flying,
		InVehicle: f.InVehicle,
		Bypass:    f.Bypass,
		Effects:   slices.Clone(f.Effects),
	})
}

// Set replaces the status of an entity.
func (r *StatusRegistry) Set(id detection.EntityID, s Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses[id] = s
}

// Clear forgets an entity.
func (r *StatusRegistry) Clear(id detection.EntityID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.statuses, id)
}

// Get returns the status of an entity.
func (r *StatusRegistry) Get(id detection.EntityID) (Status, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.statuses[id]
	return s, ok
}

// IsExempt is a detection.ExemptFunc. Entities with no reported status
// are not exempt.
func (r *StatusRegistry) IsExempt(id detection.EntityID) bool {
	s, ok := r.Get(id)
	return ok && s.Exempt()
}

// Len returns the number of tracked entities.
func (r *StatusRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.statuses)
}
