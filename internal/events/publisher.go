// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

// Package events publishes search.performed events to NATS through a
// watermill publisher, and fans searches out to other publishers such as the
// websocket hub.
package events

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/config"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/logging"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/metrics"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/search"
)

var errPublisherClosed = errors.New("publisher is closed")

// SearchPerformed is the payload published after every search.
type SearchPerformed struct {
	ID            string    `json:"id"`
	Query         string    `json:"query"`
	Provider      string    `json:"provider"`
	Page          int       `json:"page"`
	TotalResults  int       `json:"total_results"`
	FailedSources []string  `json:"failed_sources"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewSearchPerformed builds the event for a search summary.
func NewSearchPerformed(s search.Summary) SearchPerformed {
	failed := s.FailedSources
	if failed == nil {
		failed = []string{}
	}
	return SearchPerformed{
		ID:            uuid.New().String(),
		Query:         s.Query,
		Provider:      s.Provider,
		Page:          s.Page,
		TotalResults:  s.TotalResults,
		FailedSources: failed,
		Timestamp:     s.Timestamp,
	}
}

// Publisher sends search.performed events through a watermill NATS
// publisher. It satisfies search.Publisher.
type Publisher struct {
	nc      *nats.Conn
	pub     message.Publisher
	subject string

	mu     sync.RWMutex
	closed bool
}

// Connect dials cfg.URL and wraps the connection in a watermill publisher.
// Events go out on core NATS; the connection reconnects on its own.
func Connect(cfg config.NATSConfig) (*Publisher, error) {
	nc, err := nats.Connect(cfg.URL,
		nats.Name("arthistory"),
		nats.Timeout(cfg.ConnectTimeout),
		nats.RetryOnFailedConnect(false),
		nats.MaxReconnects(10),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logging.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logging.Info().Str("url", nc.ConnectedUrlRedacted()).Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	wmConfig := wmNats.PublisherConfig{
		Marshaler: &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{Disabled: true},
	}
	pub, err := wmNats.NewPublisherWithNatsConn(nc, wmConfig.GetPublisherPublishConfig(),
		watermill.NewSlogLogger(logging.NewSlogLogger("nats-publisher")))
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}

	logging.Info().
		Str("url", nc.ConnectedUrlRedacted()).
		Str("subject", cfg.Subject).
		Msg("Search event publisher connected")
	return &Publisher{nc: nc, pub: pub, subject: cfg.Subject}, nil
}

// Subject returns the subject events are published on.
func (p *Publisher) Subject() string { return p.subject }

// Publish sends ev as one watermill message whose UUID is the event ID. It
// does not wait for delivery.
func (p *Publisher) Publish(ev SearchPerformed) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return errPublisherClosed
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := message.NewMessage(ev.ID, data)
	msg.Metadata.Set("provider", ev.Provider)
	msg.Metadata.Set("failed_sources", strconv.Itoa(len(ev.FailedSources)))

	if err := p.pub.Publish(p.subject, msg); err != nil {
		return fmt.Errorf("publish %s: %w", p.subject, err)
	}
	return nil
}

// PublishSearch publishes a search summary. Failures are logged and counted,
// never returned.
func (p *Publisher) PublishSearch(ctx context.Context, s search.Summary) {
	err := p.Publish(NewSearchPerformed(s))
	metrics.RecordEventPublish(p.subject, err)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Failed to publish search event")
	}
}

// Healthy reports whether the connection is up.
func (p *Publisher) Healthy() bool {
	return p.nc.IsConnected()
}

// Close flushes buffered events and closes the connection. It is safe to
// call more than once.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true

	if err := p.nc.FlushTimeout(2 * time.Second); err != nil {
		logging.Warn().Err(err).Msg("Flushing search events before close failed")
	}
	err := p.pub.Close()
	if !p.nc.IsClosed() {
		p.nc.Close()
	}
	return err
}

// NoopPublisher discards events. It is used when NATS is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishSearch(context.Context, search.Summary) {}

// Multi returns a publisher that hands every summary to each of ps in order.
// Nil entries are skipped.
func Multi(ps ...search.Publisher) search.Publisher {
	kept := make(multiPublisher, 0, len(ps))
	for _, p := range ps {
		if p != nil {
			kept = append(kept, p)
		}
	}
	if len(kept) == 1 {
		return kept[0]
	}
	return kept
}

type multiPublisher []search.Publisher

func (m multiPublisher) PublishSearch(ctx context.Context, s search.Summary) {
	for _, p := range m {
		p.PublishSearch(ctx, s)
	}
}
