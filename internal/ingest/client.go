// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package ingest

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/autoban/internal/logging"
	"github.com/tomtom215/autoban/internal/metrics"
	"github.com/tomtom215/autoban/internal/protocol"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendQueueSize  = 64
)

// clientIDCounter gives hosts a stable broadcast order.
var clientIDCounter atomic.Uint64

// Publisher accepts raw telemetry frames. Publish must not return until the
// frame has been handed off, so frames from one host stay in order.
type Publisher interface {
	Publish(ctx context.Context, frame []byte) error
}

// Client is one connected telemetry host.
type Client struct {
	id        uint64
	remote    string
	hub       *Hub
	conn      *websocket.Conn
	send      chan protocol.EnforceFrame
	publisher Publisher

	// Close frame the write pump sends once send is closed. Written
	// under the hub lock before close(send), read after it.
	closeCode int
	closeText string
}

// NewClient wraps an upgraded connection.
func NewClient(hub *Hub, conn *websocket.Conn, publisher Publisher) *Client {
	return &Client{
		id:        clientIDCounter.Add(1),
		remote:    conn.RemoteAddr().String(),
		hub:       hub,
		conn:      conn,
		send:      make(chan protocol.EnforceFrame, sendQueueSize),
		publisher: publisher,
	}
}

// closeWith closes the send queue so the write pump ends the connection
// with the given close frame. Callers hold the hub lock.
func (c *Client) closeWith(code int, text string) {
	c.closeCode = code
	c.closeText = text
	close(c.send)
}

// ID returns the client's connection-ordered identifier.
func (c *Client) ID() uint64 {
	return c.id
}

// readPump publishes every text frame from the host until the connection
// drops or ctx ends.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
		metrics.IngestConnections.Dec()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				metrics.IngestErrors.WithLabelValues("read").Inc()
				logging.Warn().Err(err).Uint64("client_id", c.id).Msg("unexpected telemetry connection close")
			}
			return
		}
		if kind != websocket.TextMessage {
			metrics.RecordIngestFrame(false)
			continue
		}

		frameCtx := logging.ContextWithNewCorrelationID(ctx)
		if err := c.publisher.Publish(frameCtx, data); err != nil {
			metrics.RecordIngestFrame(false)
			metrics.IngestErrors.WithLabelValues("publish").Inc()
			if ctx.Err() != nil {
				return
			}
			logging.Ctx(frameCtx).Warn().Err(err).Uint64("client_id", c.id).Msg("failed to publish telemetry frame")
			continue
		}
		metrics.RecordIngestFrame(true)
	}
}

// writePump delivers enforcement commands and keeps the connection alive.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline")
				return
			}
			if !ok {
				code := c.closeCode
				if code == 0 {
					code = websocket.CloseNormalClosure
				}
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(code, c.closeText))
				return
			}

			payload, err := json.Marshal(frame)
			if err != nil {
				logging.Error().Err(err).Msg("failed to encode enforce frame")
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				metrics.IngestErrors.WithLabelValues("write").Inc()
				logging.Warn().Err(err).Uint64("client_id", c.id).Str("entity", frame.Entity).Msg("failed to deliver enforce frame")
				return
			}
			logging.Info().Uint64("client_id", c.id).Str("entity", frame.Entity).Str("command_id", frame.ID).Msg("enforce frame delivered")

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Serve registers the client and pumps frames until the connection closes.
// The write pump runs in the background; Serve blocks in the read pump.
func (c *Client) Serve(ctx context.Context) {
	c.hub.Register(c)
	metrics.IngestConnections.Inc()
	go c.writePump()
	c.readPump(ctx)
}
