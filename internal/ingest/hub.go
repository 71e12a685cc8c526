// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package ingest

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/autoban/internal/detection"
	"github.com/tomtom215/autoban/internal/logging"
	"github.com/tomtom215/autoban/internal/protocol"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled is the normal graceful path (SIGTERM).
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline may indicate a hung operation during shutdown.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// DefaultQueueSize is the number of pending enforcement commands the hub
// buffers before dropping.
const DefaultQueueSize = 256

// Hub tracks connected hosts and fans enforcement commands out to them.
//
// Every host receives every command: a host that does not know the entity
// ignores it. Hub implements detection.Enforcer.
type Hub struct {
	clients map[*Client]bool
	queue   chan protocol.EnforceFrame
	mu      sync.RWMutex
}

// NewHub creates a hub with the given queue size. Non-positive sizes use
// DefaultQueueSize.
func NewHub(queueSize int) *Hub {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Hub{
		clients: make(map[*Client]bool),
		queue:   make(chan protocol.EnforceFrame, queueSize),
	}
}

// Register adds a connected host.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	total := len(h.clients)
	h.mu.Unlock()
	logging.Info().Uint64("client_id", c.id).Str("remote", c.remote).Int("total_clients", total).Msg("telemetry host connected")
}

// Unregister removes a host and closes its send queue. Safe to call more
// than once.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		c.closeWith(websocket.CloseNormalClosure, "")
	}
	total := len(h.clients)
	h.mu.Unlock()
	if ok {
		logging.Info().Uint64("client_id", c.id).Int("total_clients", total).Msg("telemetry host disconnected")
	}
}

// RequestEnforcement queues a ban command for every connected host. It
// never blocks; when the queue is full the command is dropped.
func (h *Hub) RequestEnforcement(entity detection.EntityID, reason string) {
	frame := protocol.NewEnforceFrame(uuid.NewString(), entity, reason)
	select {
	case h.queue <- frame:
	default:
		logging.Warn().
			Str("entity", string(entity)).
			Str("reason", reason).
			Msg("enforcement queue full, dropping command")
	}
}

// RunWithContext delivers queued commands until ctx is cancelled, then
// closes every connected host.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		// Shutdown wins over pending commands.
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		case frame := <-h.queue:
			h.broadcastToClients(frame)
		}
	}
}

func (h *Hub) logGracefulShutdown(ctx context.Context) {
	count := h.GetClientCount()
	h.closeAllClients()

	logging.Info().
		Str("component", "ingest-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", count).
		Msg("ingest hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	if ctx.Err() == context.DeadlineExceeded {
		return ShutdownReasonContextDeadline
	}
	return ShutdownReasonContextCanceled
}

// sortedClients returns clients in connection order. Caller holds mu.
func (h *Hub) sortedClients() []*Client {
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	return clients
}

func (h *Hub) broadcastToClients(frame protocol.EnforceFrame) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.clients) == 0 {
		logging.Warn().Str("entity", frame.Entity).Msg("no telemetry hosts connected, enforcement not delivered")
		return
	}

	for _, c := range h.sortedClients() {
		select {
		case c.send <- frame:
		default:
			// Slow host; drop it rather than stall every other host.
			logging.Warn().Uint64("client_id", c.id).Msg("host send queue full, disconnecting")
			c.closeWith(websocket.ClosePolicyViolation, "send queue full")
			delete(h.clients, c)
		}
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, c := range h.sortedClients() {
		c.closeWith(websocket.CloseGoingAway, "server shutting down")
		delete(h.clients, c)
	}
}

// GetClientCount returns the number of connected hosts.
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
