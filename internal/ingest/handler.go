// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package ingest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/autoban/internal/logging"
	"github.com/tomtom215/autoban/internal/metrics"
)

// ErrUnauthorized is returned when a host presents no valid token.
var ErrUnauthorized = errors.New("unauthorized")

// HandlerConfig configures the telemetry endpoint.
type HandlerConfig struct {
	// TokenSecret is the HS256 key host tokens are signed with. Empty
	// disables authentication.
	TokenSecret string

	// AllowedOrigins lists browser origins allowed to connect. Hosts that
	// send no Origin header are always allowed.
	AllowedOrigins []string

	HandshakeTimeout time.Duration
}

// Handler upgrades host connections and attaches them to the hub.
type Handler struct {
	hub       *Hub
	publisher Publisher
	cfg       HandlerConfig
	upgrader  websocket.Upgrader
}

// NewHandler creates the telemetry endpoint.
func NewHandler(hub *Hub, publisher Publisher, cfg HandlerConfig) *Handler {
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = 10 * time.Second
	}
	h := &Handler{hub: hub, publisher: publisher, cfg: cfg}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:   4096,
		WriteBufferSize:  1024,
		HandshakeTimeout: cfg.HandshakeTimeout,
		CheckOrigin:      h.checkOrigin,
	}
	return h
}

// ServeHTTP authenticates the host and serves its connection. It blocks
// until the host disconnects.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	host, err := h.authenticate(r)
	if err != nil {
		metrics.IngestErrors.WithLabelValues("auth").Inc()
		logging.Warn().Err(err).
			Str("remote", r.RemoteAddr).
			Str("token", logging.SanitizeToken(bearerToken(r))).
			Msg("telemetry connection rejected")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		metrics.IngestErrors.WithLabelValues("upgrade").Inc()
		return
	}

	if host != "" {
		logging.Info().Str("host", host).Str("remote", r.RemoteAddr).Msg("telemetry host authenticated")
	}
	// Shutdown is driven by the hub closing the client, not by the
	// request context.
	NewClient(h.hub, conn, h.publisher).Serve(context.WithoutCancel(r.Context()))
}

// authenticate validates the bearer token and returns its subject.
func (h *Handler) authenticate(r *http.Request) (string, error) {
	if h.cfg.TokenSecret == "" {
		return "", nil
	}

	raw := bearerToken(r)
	if raw == "" {
		return "", fmt.Errorf("%w: missing token", ErrUnauthorized)
	}

	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(*jwt.Token) (interface{}, error) {
		return []byte(h.cfg.TokenSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return subject, nil
}

func bearerToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		const prefix = "Bearer "
		if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
			return strings.TrimSpace(auth[len(prefix):])
		}
		return ""
	}
	return r.URL.Query().Get("token")
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.cfg.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	logging.Warn().Str("origin", strings.ReplaceAll(origin, "\n", "")).Msg("telemetry connection rejected from unauthorized origin")
	return false
}

// IssueToken signs a host token. Operators use it to provision hosts.
func IssueToken(secret, host string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   host,
		Issuer:    "autoban",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
