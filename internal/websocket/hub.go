// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package websocket

import (
	"context"
	"net/http"
	"slices"
	"sort"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/events"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/logging"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/search"
)

// ShutdownReason identifies why the hub loop stopped.
type ShutdownReason string

const (
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types. Clients send ping and subscribe; the hub sends the rest.
const (
	MessageTypeSearch     = "search_performed"
	MessageTypePing       = "ping"
	MessageTypePong       = "pong"
	MessageTypeSubscribe  = "subscribe"
	MessageTypeSubscribed = "subscribed"
	MessageTypeError      = "error"
)

// Message is one frame on the wire.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub tracks live clients and fans messages out to them.
type Hub struct {
	mu        sync.RWMutex
	clients   map[*Client]bool
	broadcast chan Message
	upgrader  websocket.Upgrader
}

// NewHub creates a hub that accepts upgrades from allowedOrigins. An empty
// list or "*" accepts any origin.
func NewHub(allowedOrigins []string) *Hub {
	h := &Hub{
		clients:   make(map[*Client]bool),
		broadcast: make(chan Message, 256),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 || slices.Contains(allowed, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		// Non-browser clients send no Origin.
		return origin == "" || slices.Contains(allowed, origin)
	}
}

// ServeHTTP upgrades the request and registers the connection.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logging.Ctx(r.Context()).Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := NewClient(h, conn)
	h.register(client)
	client.Start()
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	total := len(h.clients)
	h.mu.Unlock()
	logging.Info().Uint64("client_id", c.id).Int("total_clients", total).Msg("websocket client connected")
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	total := len(h.clients)
	h.mu.Unlock()
	logging.Info().Uint64("client_id", c.id).Int("total_clients", total).Msg("websocket client disconnected")
}

// RunWithContext delivers broadcasts until ctx is done, then closes every
// client. Shutdown takes priority over pending broadcasts.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

func (h *Hub) shutdown(ctx context.Context) {
	count := h.GetClientCount()
	h.closeAllClients()

	reason := ShutdownReasonContextCanceled
	if ctx.Err() == context.DeadlineExceeded {
		reason = ShutdownReasonContextDeadline
	}
	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(reason)).
		Int("clients_closed", count).
		Msg("websocket hub stopped")
}

// sortedClients returns clients in connection order. Caller holds h.mu.
func (h *Hub) sortedClients() []*Client {
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].id < clients[j].id })
	return clients
}

// broadcastToClients sends message to every client whose subscription
// matches, dropping any whose send buffer is full.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, c := range h.sortedClients() {
		if !c.wants(message) {
			continue
		}
		select {
		case c.send <- message:
		default:
			close(c.send)
			delete(h.clients, c)
			logging.Warn().Uint64("client_id", c.id).Msg("websocket client too slow, dropped")
		}
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, c := range h.sortedClients() {
		close(c.send)
		delete(h.clients, c)
	}
}

// BroadcastJSON queues a message for every client. It never blocks; when the
// queue is full the message is dropped.
func (h *Hub) BroadcastJSON(messageType string, data interface{}) {
	select {
	case h.broadcast <- Message{Type: messageType, Data: data}:
	default:
		logging.Warn().Str("message_type", messageType).Msg("broadcast channel full, dropping message")
	}
}

// PublishSearch implements search.Publisher.
func (h *Hub) PublishSearch(_ context.Context, s search.Summary) {
	h.BroadcastJSON(MessageTypeSearch, events.NewSearchPerformed(s))
}

// GetClientCount returns the number of connected clients.
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
