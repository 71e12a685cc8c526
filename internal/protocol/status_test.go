// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package protocol

import "testing"

func TestStatus_Exempt(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		want   bool
	}{
		{"survival", Status{GameMode: "survival"}, false},
		{"creative", Status{GameMode: "CREATIVE"}, true},
		{"spectator", Status{GameMode: "spectator"}, true},
		{"flying", Status{Flying: true}, true},
		{"vehicle", Status{InVehicle: true}, true},
		{"bypass", Status{Bypass: true}, true},
		{"jump boost", Status{Effects: []string{"minecraft:jump_boost"}}, true},
		{"slow falling", Status{Effects: []string{"SLOW_FALLING"}}, true},
		{"harmless effect", Status{Effects: []string{"night_vision"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.Exempt(); got != tt.want {
				t.Errorf("Exempt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatusRegistry(t *testing.T) {
	r := NewStatusRegistry()

	if r.IsExempt("u1") {
		t.Error("unknown entity reported exempt")
	}

	r.Apply(Frame{Type: TypeStatus, Entity: "u1", GameMode: "creative"})
	if !r.IsExempt("u1") {
		t.Error("creative entity not exempt")
	}

	r.Apply(Frame{Type: TypeStatus, Entity: "u1", GameMode: "survival"})
	if r.IsExempt("u1") {
		t.Error("status update not applied")
	}

	r.Clear("u1")
	if _, ok := r.Get("u1"); ok || r.Len() != 0 {
		t.Error("Clear() left the entity behind")
	}
}
