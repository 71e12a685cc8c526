// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/autoban/internal/detection"
)

const (
	defaultAlertLimit = 50
	maxAlertLimit     = 500
)

// HealthStatus is the /healthz body.
type HealthStatus struct {
	Status   string `json:"status"`
	Entities int    `json:"entities"`
	Hosts    int    `json:"hosts"`
}

// Health reports liveness.
func (router *Router) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{Status: "ok"}
	if router.deps.Entities != nil {
		status.Entities = router.deps.Entities.Len()
	}
	if router.deps.Hosts != nil {
		status.Hosts = router.deps.Hosts.GetClientCount()
	}
	NewResponseWriter(w, r).Success(status)
}

// Entity returns the tracked state of one entity.
func (router *Router) Entity(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	id := chi.URLParam(r, "id")
	if id == "" {
		rw.BadRequest("entity id is required")
		return
	}

	state, ok := router.deps.Entities.Snapshot(detection.EntityID(id))
	if !ok {
		rw.NotFound("entity is not tracked")
		return
	}
	rw.Success(state)
}

// Alerts returns persisted alerts, newest first.
func (router *Router) Alerts(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if router.deps.Alerts == nil {
		rw.ServiceUnavailable("alert history is disabled")
		return
	}

	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		rw.BadRequest("limit must be a positive integer")
		return
	}

	var alerts []detection.Alert
	if entity := r.URL.Query().Get("entity"); entity != "" {
		alerts, err = router.deps.Alerts.List(detection.EntityID(entity), limit)
	} else {
		alerts, err = router.deps.Alerts.Recent(limit)
	}
	if err != nil {
		rw.InternalError("failed to read alert history", err)
		return
	}
	if alerts == nil {
		alerts = []detection.Alert{}
	}
	rw.SuccessList(alerts, len(alerts))
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return defaultAlertLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, strconv.ErrSyntax
	}
	if n > maxAlertLimit {
		n = maxAlertLimit
	}
	return n, nil
}
