// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package websocket

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/events"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/search"
)

func startHub(t *testing.T, origins []string) (*Hub, *httptest.Server, context.CancelFunc, <-chan error) {
	t.Helper()

	hub := NewHub(origins)
	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.RunWithContext(ctx) }()
	t.Cleanup(cancel)

	return hub, srv, cancel, done
}

func dial(t *testing.T, srv *httptest.Server, header http.Header) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.GetClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("client count = %d, want %d", hub.GetClientCount(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_PublishSearch(t *testing.T) {
	t.Parallel()

	hub, srv, _, _ := startHub(t, nil)
	conn := dial(t, srv, nil)
	waitClients(t, hub, 1)

	hub.PublishSearch(context.Background(), search.Summary{
		Query:         "art nouveau",
		Provider:      "openai",
		Page:          2,
		TotalResults:  31,
		FailedSources: []string{"cooper_hewitt"},
	})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg struct {
		Type string `json:"type"`
		Data struct {
			ID            string   `json:"id"`
			Query         string   `json:"query"`
			Page          int      `json:"page"`
			TotalResults  int      `json:"total_results"`
			FailedSources []string `json:"failed_sources"`
		} `json:"data"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if msg.Type != MessageTypeSearch {
		t.Errorf("type = %q, want %q", msg.Type, MessageTypeSearch)
	}
	if msg.Data.ID == "" || msg.Data.Query != "art nouveau" || msg.Data.Page != 2 || msg.Data.TotalResults != 31 {
		t.Errorf("unexpected payload: %+v", msg.Data)
	}
	if len(msg.Data.FailedSources) != 1 || msg.Data.FailedSources[0] != "cooper_hewitt" {
		t.Errorf("failed_sources = %v", msg.Data.FailedSources)
	}
}

func TestHub_PingPong(t *testing.T) {
	t.Parallel()

	hub, srv, _, _ := startHub(t, nil)
	conn := dial(t, srv, nil)
	waitClients(t, hub, 1)

	if err := conn.WriteJSON(Message{Type: MessageTypePing}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if msg.Type != MessageTypePong {
		t.Errorf("type = %q, want pong", msg.Type)
	}
}

func TestHub_ClientDisconnect(t *testing.T) {
	t.Parallel()

	hub, srv, _, _ := startHub(t, nil)
	conn := dial(t, srv, nil)
	waitClients(t, hub, 1)

	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = conn.Close()

	waitClients(t, hub, 0)
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	t.Parallel()

	hub, srv, cancel, done := startHub(t, nil)
	conn := dial(t, srv, nil)
	waitClients(t, hub, 1)

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("RunWithContext() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}

	if hub.GetClientCount() != 0 {
		t.Errorf("client count after shutdown = %d", hub.GetClientCount())
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Errorf("expected going-away close, got %v", err)
	}
}

func TestHub_OriginCheck(t *testing.T) {
	t.Parallel()

	_, srv, _, _ := startHub(t, []string{"https://gallery.example"})
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	header := http.Header{"Origin": []string{"https://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err == nil {
		t.Fatal("expected rejected origin")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403, got %+v", resp)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	dial(t, srv, http.Header{"Origin": []string{"https://gallery.example"}})
}

func TestHub_BroadcastDropsWhenFull(t *testing.T) {
	t.Parallel()

	hub := NewHub(nil)
	for i := 0; i < cap(hub.broadcast)+10; i++ {
		hub.BroadcastJSON(MessageTypeSearch, i)
	}
	if len(hub.broadcast) != cap(hub.broadcast) {
		t.Errorf("queue length = %d, want %d", len(hub.broadcast), cap(hub.broadcast))
	}
}

func TestHub_SubscribeFiltersSearches(t *testing.T) {
	t.Parallel()

	hub, srv, _, _ := startHub(t, nil)
	conn := dial(t, srv, nil)
	waitClients(t, hub, 1)

	if err := conn.WriteJSON(map[string]any{
		"type": MessageTypeSubscribe,
		"data": Subscription{Query: "VASE", FailuresOnly: true},
	}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ack struct {
		Type string       `json:"type"`
		Data Subscription `json:"data"`
	}
	if err := conn.ReadJSON(&ack); err != nil {
		t.Fatalf("ReadJSON ack: %v", err)
	}
	if ack.Type != MessageTypeSubscribed || ack.Data.Query != "VASE" || !ack.Data.FailuresOnly {
		t.Fatalf("ack = %+v", ack)
	}

	// Neither of the first two matches; the third does.
	hub.PublishSearch(context.Background(), search.Summary{Query: "monet", FailedSources: []string{"met_museum"}})
	hub.PublishSearch(context.Background(), search.Summary{Query: "ming vase"})
	hub.PublishSearch(context.Background(), search.Summary{Query: "Ming Vase dynasty", FailedSources: []string{"harvard_art_museums"}})

	var msg struct {
		Type string `json:"type"`
		Data struct {
			Query string `json:"query"`
		} `json:"data"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if msg.Type != MessageTypeSearch || msg.Data.Query != "Ming Vase dynasty" {
		t.Errorf("first delivered message = %+v, want the matching search", msg)
	}
}

func TestHub_RejectsUnknownFrames(t *testing.T) {
	t.Parallel()

	hub, srv, _, _ := startHub(t, nil)
	conn := dial(t, srv, nil)
	waitClients(t, hub, 1)

	for _, frame := range []string{`{"type":"dance"}`, `not json`} {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
			t.Fatalf("WriteMessage: %v", err)
		}
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("ReadJSON: %v", err)
		}
		if msg.Type != MessageTypeError {
			t.Errorf("%s: type = %q, want error", frame, msg.Type)
		}
	}
}

func TestSubscription_Matches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		sub  Subscription
		ev   events.SearchPerformed
		want bool
	}{
		{"zero value matches all", Subscription{}, events.SearchPerformed{Query: "anything"}, true},
		{"case-insensitive substring", Subscription{Query: "rembrandt"}, events.SearchPerformed{Query: "Rembrandt van Rijn"}, true},
		{"substring miss", Subscription{Query: "vermeer"}, events.SearchPerformed{Query: "rembrandt"}, false},
		{"failures only without failures", Subscription{FailuresOnly: true}, events.SearchPerformed{Query: "x", FailedSources: []string{}}, false},
		{"failures only with failures", Subscription{FailuresOnly: true}, events.SearchPerformed{FailedSources: []string{"openai"}}, true},
	}
	for _, tt := range tests {
		if got := tt.sub.matches(tt.ev); got != tt.want {
			t.Errorf("%s: matches = %v, want %v", tt.name, got, tt.want)
		}
	}
}
