// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package detection

import "time"

// Violations holds the per-check violation counters. All counters are
// non-negative.
type Violations struct {
	Flight          int `json:"flight"`
	Speed           int `json:"speed"`
	Freecam         int `json:"freecam"`
	ResourcePattern int `json:"resource_pattern"`
}

func (v *Violations) counter(c CheckType) *int {
	switch c {
	case CheckTypeFlight:
		return &v.Flight
	case CheckTypeSpeed:
		return &v.Speed
	case CheckTypeFreecam:
		return &v.Freecam
	case CheckTypeResource:
		return &v.ResourcePattern
	default:
		return nil
	}
}

// Get returns the counter for a check, or 0 for unknown checks.
func (v *Violations) Get(c CheckType) int {
	if p := v.counter(c); p != nil {
		return *p
	}
	return 0
}

// Inc increments the counter for a check and returns the new total.
func (v *Violations) Inc(c CheckType) int {
	p := v.counter(c)
	if p == nil {
		return 0
	}
	*p++
	return *p
}

// Reset sets the counter for a check to zero.
func (v *Violations) Reset(c CheckType) {
	if p := v.counter(c); p != nil {
		*p = 0
	}
}

// Decay decrements every counter by one, floored at zero.
func (v *Violations) Decay() {
	for _, p := range []*int{&v.Flight, &v.Speed, &v.Freecam, &v.ResourcePattern} {
		if *p > 0 {
			*p--
		}
	}
}

// EntityState is the mutable detection record of one active participant.
// It is owned by the Store and must only be touched through Store.With or
// Store.Range.
type EntityState struct {
	ID       EntityID  `json:"id"`
	Name     string    `json:"name,omitempty"`
	JoinedAt time.Time `json:"joined_at"`

	Violations Violations `json:"violations"`

	// LastKnown is the motion baseline used for snap-distance comparison.
	LastKnown     *Location `json:"last_known,omitempty"`
	LastMove      time.Time `json:"last_move"`
	WasStationary bool      `json:"was_stationary"`

	AscentStreak int `json:"ascent_streak"`
	GraceTicks   int `json:"grace_ticks"`

	ResourceStreak int `json:"resource_streak"`
	// RecentResources is oldest-first and pruned lazily on evaluation.
	RecentResources []time.Time `json:"recent_resources,omitempty"`
}

func newEntityState(id EntityID, name string, now time.Time) *EntityState {
	return &EntityState{
		ID:       id,
		Name:     name,
		JoinedAt: now,
		LastMove: now,
	}
}

// DisplayName returns the name reported on join, falling back to the ID.
func (s *EntityState) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return string(s.ID)
}

func (s *EntityState) clone() EntityState {
	c := *s
	c.LastKnown = s.LastKnown.clone()
	if s.RecentResources != nil {
		c.RecentResources = append([]time.Time(nil), s.RecentResources...)
	}
	return c
}
