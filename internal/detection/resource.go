// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package detection

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ResourceInput is one resource extraction as seen by the classifier.
type ResourceInput struct {
	Resource string
	At       *Location
	Now      time.Time
}

// NormalizeResource strips a namespace prefix ("minecraft:") and lowercases the id.
func NormalizeResource(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	if i := strings.IndexByte(id, ':'); i >= 0 {
		id = id[i+1:]
	}
	return id
}

// ResourceLabel turns a resource id into a display label, e.g.
// "minecraft:deepslate_diamond_ore" -> "Deepslate Diamond Ore".
func ResourceLabel(id string) string {
	words := strings.ReplaceAll(NormalizeResource(id), "_", " ")
	return cases.Title(language.English).String(words)
}

// CheckResource evaluates one extraction for rare-resource mining patterns.
//
// Every trackable extraction produces an informational alert. Rare
// extractions at or below MaxDepth extend the streak and the rolling burst
// window; anything else trackable breaks the streak. A suspicious pattern
// yields a warning alert only. This classifier never escalates.
func CheckResource(in ResourceInput, s *EntityState, cfg ResourceConfig) Result {
	var res Result

	id := NormalizeResource(in.Resource)
	if !slices.Contains(cfg.Trackable, id) {
		return res
	}

	label := ResourceLabel(id)
	res.alert(Alert{
		Entity:   s.ID,
		Name:     s.DisplayName(),
		Check:    CheckTypeResource,
		Severity: SeverityInfo,
		Title:    "Ore Mined",
		Detail:   fmt.Sprintf("Mined %s at %s", label, in.At.String()),
		Location: in.At.clone(),
	})

	rare := slices.Contains(cfg.Rare, id)
	if rare && !in.At.Valid() {
		return res
	}
	if !rare || in.At.Block()[1] > cfg.MaxDepth {
		s.ResourceStreak = 0
		return res
	}

	s.ResourceStreak++
	s.RecentResources = append(s.RecentResources, in.Now)
	cutoff := in.Now.Add(-cfg.BurstWindow)
	drop := 0
	for drop < len(s.RecentResources) && s.RecentResources[drop].Before(cutoff) {
		drop++
	}
	s.RecentResources = s.RecentResources[drop:]
	burst := len(s.RecentResources)

	if s.ResourceStreak < cfg.SuspiciousStreak && burst < cfg.BurstThreshold {
		return res
	}

	total := s.Violations.Inc(CheckTypeResource)
	res.alert(Alert{
		Entity:   s.ID,
		Name:     s.DisplayName(),
		Check:    CheckTypeResource,
		Severity: SeverityWarning,
		Title:    "Possible XRay (Flag Only)",
		Detail: fmt.Sprintf("%s streak=%d, %d rare ores in %s (flag only, no ban)",
			label, s.ResourceStreak, burst, cfg.BurstWindow),
		Violations: total,
		Location:   in.At.clone(),
	})
	return res
}
