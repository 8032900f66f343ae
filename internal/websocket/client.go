// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package websocket

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/events"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	sendBuffer     = 64
)

// Subscription narrows which searches a client is sent. The zero value
// receives everything.
type Subscription struct {
	// Query keeps searches whose query contains this text, case-insensitively.
	Query string `json:"query"`

	// FailuresOnly keeps searches where at least one source failed.
	FailuresOnly bool `json:"failures_only"`
}

func (s *Subscription) matches(ev events.SearchPerformed) bool {
	if s.FailuresOnly && len(ev.FailedSources) == 0 {
		return false
	}
	return s.Query == "" || strings.Contains(strings.ToLower(ev.Query), strings.ToLower(s.Query))
}

// inbound is a client frame; Data is decoded once Type is known.
type inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// clientIDCounter orders clients for broadcast.
var clientIDCounter atomic.Uint64

// Client is one live feed connection.
type Client struct {
	id     uint64
	hub    *Hub
	conn   *websocket.Conn
	send   chan Message
	filter atomic.Pointer[Subscription]
}

// NewClient wraps conn. Call Start to begin pumping.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	c := &Client{
		id:   clientIDCounter.Add(1),
		hub:  hub,
		conn: conn,
		send: make(chan Message, sendBuffer),
	}
	c.filter.Store(&Subscription{})
	return c
}

// ID returns the client's connection-order identifier.
func (c *Client) ID() uint64 {
	return c.id
}

// wants reports whether message passes the client's subscription. Only
// search events are filtered.
func (c *Client) wants(message Message) bool {
	ev, ok := message.Data.(events.SearchPerformed)
	if !ok {
		return true
	}
	return c.filter.Load().matches(ev)
}

// reply queues a direct response unless the client is already unregistered.
func (c *Client) reply(m Message) {
	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()
	if c.hub.clients[c] {
		select {
		case c.send <- m:
		default:
		}
	}
}

// readPump handles ping and subscribe frames and detects disconnects.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logging.Warn().Err(err).Uint64("client_id", c.id).Msg("unexpected websocket close")
			}
			return
		}

		var msg inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			c.reply(Message{Type: MessageTypeError, Data: "malformed frame"})
			continue
		}

		switch msg.Type {
		case MessageTypePing:
			c.reply(Message{Type: MessageTypePong})
		case MessageTypeSubscribe:
			sub := &Subscription{}
			if len(msg.Data) > 0 {
				if err := json.Unmarshal(msg.Data, sub); err != nil {
					c.reply(Message{Type: MessageTypeError, Data: "invalid subscription"})
					continue
				}
			}
			c.filter.Store(sub)
			c.reply(Message{Type: MessageTypeSubscribed, Data: *sub})
		default:
			c.reply(Message{Type: MessageTypeError, Data: "unknown message type"})
		}
	}
}

// writePump drains send to the connection and keeps it alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				// Hub closed the channel.
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			payload, err := json.Marshal(message)
			if err != nil {
				logging.Error().Err(err).Str("message_type", message.Type).Msg("websocket encode failed")
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				logging.Debug().Err(err).Uint64("client_id", c.id).Msg("websocket write failed")
				return
			}

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

// Start runs the read and write pumps in their own goroutines.
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}
