// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package ingest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/autoban/internal/logging"
	"github.com/tomtom215/autoban/internal/protocol"
)

type mockPublisher struct {
	mu     sync.Mutex
	frames []string
	corr   []string
	err    error
}

func (m *mockPublisher) Publish(ctx context.Context, frame []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.frames = append(m.frames, string(frame))
	m.corr = append(m.corr, logging.CorrelationIDFromContext(ctx))
	return nil
}

func (m *mockPublisher) published() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.frames...)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func startHub(t *testing.T) (*Hub, context.CancelFunc, <-chan error) {
	t.Helper()
	hub := NewHub(0)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.RunWithContext(ctx) }()
	t.Cleanup(cancel)
	return hub, cancel, done
}

func TestHandler_PublishesFramesInOrder(t *testing.T) {
	hub, _, _ := startHub(t)
	pub := &mockPublisher{}
	srv := httptest.NewServer(NewHandler(hub, pub, HandlerConfig{}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	frames := []string{
		`{"type":"join","entity":"u1"}`,
		`{"type":"move","entity":"u1"}`,
		`{"type":"leave","entity":"u1"}`,
	}
	for _, f := range frames {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
			t.Fatalf("WriteMessage() error = %v", err)
		}
	}

	waitFor(t, "frames", func() bool { return len(pub.published()) == len(frames) })
	got := pub.published()
	for i := range frames {
		if got[i] != frames[i] {
			t.Errorf("frame %d = %s, want %s", i, got[i], frames[i])
		}
	}

	pub.mu.Lock()
	defer pub.mu.Unlock()
	if pub.corr[0] == "" || pub.corr[0] == pub.corr[1] {
		t.Errorf("correlation ids = %v, want distinct non-empty", pub.corr)
	}
}

func TestHub_DeliversEnforcement(t *testing.T) {
	hub, _, _ := startHub(t)
	srv := httptest.NewServer(NewHandler(hub, &mockPublisher{}, HandlerConfig{}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()
	waitFor(t, "registration", func() bool { return hub.GetClientCount() == 1 })

	hub.RequestEnforcement("u1", "Speed hacking (8 violations)")

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	var frame protocol.EnforceFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if frame.Type != protocol.TypeEnforce || frame.Entity != "u1" || frame.Action != "ban" {
		t.Errorf("frame = %+v", frame)
	}
	if frame.Reason != "Speed hacking (8 violations)" || frame.ID == "" {
		t.Errorf("frame = %+v", frame)
	}
}

func TestHub_ShutdownClosesHosts(t *testing.T) {
	hub, cancel, done := startHub(t)
	srv := httptest.NewServer(NewHandler(hub, &mockPublisher{}, HandlerConfig{}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()
	waitFor(t, "registration", func() bool { return hub.GetClientCount() == 1 })

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("RunWithContext() = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("hub did not stop")
	}

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err = conn.ReadMessage()
	var closeErr *websocket.CloseError
	if !errors.As(err, &closeErr) || closeErr.Code != websocket.CloseGoingAway || closeErr.Text != "server shutting down" {
		t.Errorf("ReadMessage() error = %v, want going-away close", err)
	}
	if hub.GetClientCount() != 0 {
		t.Errorf("clients = %d after shutdown", hub.GetClientCount())
	}
}

func TestHub_SlowHostGetsPolicyClose(t *testing.T) {
	hub := NewHub(0)
	upgraded := make(chan *Client, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := (&websocket.Upgrader{}).Upgrade(w, r, nil)
		if err != nil {
			return
		}
		c := NewClient(hub, conn, &mockPublisher{})
		// No buffer and no write pump yet, so the first broadcast finds
		// the queue full.
		c.send = make(chan protocol.EnforceFrame)
		hub.Register(c)
		upgraded <- c
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	var c *Client
	select {
	case c = <-upgraded:
	case <-time.After(5 * time.Second):
		t.Fatal("server side never upgraded")
	}

	hub.broadcastToClients(protocol.NewEnforceFrame("cmd-1", "u1", "Speed hacking (8 violations)"))
	if hub.GetClientCount() != 0 {
		t.Fatalf("clients = %d, want slow host dropped", hub.GetClientCount())
	}
	go c.writePump()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err = conn.ReadMessage()
	var closeErr *websocket.CloseError
	if !errors.As(err, &closeErr) {
		t.Fatalf("ReadMessage() error = %v, want close frame", err)
	}
	if closeErr.Code != websocket.ClosePolicyViolation || closeErr.Text != "send queue full" {
		t.Errorf("close = %d %q, want policy violation \"send queue full\"", closeErr.Code, closeErr.Text)
	}
}

func TestHub_RequestEnforcementNeverBlocks(t *testing.T) {
	hub := NewHub(1)
	done := make(chan struct{})
	go func() {
		hub.RequestEnforcement("u1", "a")
		hub.RequestEnforcement("u2", "b")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RequestEnforcement blocked on a full queue")
	}
	if len(hub.queue) != 1 {
		t.Errorf("queue = %d, want 1", len(hub.queue))
	}
}

func TestHandler_Authentication(t *testing.T) {
	const secret = "test-secret"
	hub, _, _ := startHub(t)
	srv := httptest.NewServer(NewHandler(hub, &mockPublisher{}, HandlerConfig{TokenSecret: secret}))
	defer srv.Close()

	valid, err := IssueToken(secret, "host-1", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}
	expired, _ := IssueToken(secret, "host-1", -time.Hour)
	forged, _ := IssueToken("other-secret", "host-1", time.Hour)

	tests := []struct {
		name   string
		header http.Header
		query  string
		ok     bool
	}{
		{"no token", nil, "", false},
		{"valid header", http.Header{"Authorization": {"Bearer " + valid}}, "", true},
		{"valid query", nil, "?token=" + valid, true},
		{"expired", http.Header{"Authorization": {"Bearer " + expired}}, "", false},
		{"wrong key", http.Header{"Authorization": {"Bearer " + forged}}, "", false},
		{"not bearer", http.Header{"Authorization": {"Basic " + valid}}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv)+tt.query, tt.header)
			if tt.ok {
				if err != nil {
					t.Fatalf("Dial() error = %v", err)
				}
				conn.Close()
				return
			}
			if err == nil {
				conn.Close()
				t.Fatal("Dial() succeeded, want rejection")
			}
			if resp == nil || resp.StatusCode != http.StatusUnauthorized {
				t.Errorf("response = %v, want 401", resp)
			}
		})
	}
}

func TestHandler_CheckOrigin(t *testing.T) {
	h := NewHandler(NewHub(0), &mockPublisher{}, HandlerConfig{AllowedOrigins: []string{"https://panel.example"}})

	tests := map[string]bool{
		"":                      true,
		"https://panel.example": true,
		"https://evil.example":  false,
	}
	for origin, want := range tests {
		r := httptest.NewRequest(http.MethodGet, "/v1/telemetry", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		if got := h.checkOrigin(r); got != want {
			t.Errorf("checkOrigin(%q) = %v, want %v", origin, got, want)
		}
	}
}
