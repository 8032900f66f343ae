// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

// Package upstream is the outbound HTTP plumbing shared by every search
// source: one pooled client, a query-string builder, per-source rate limiting
// and circuit breaking, and the error taxonomy that maps failures to the short
// reasons returned in search envelopes.
package upstream

import (
	"net"
	"net/http"
	"time"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/config"
)

// NewHTTPClient builds the single pooled client shared by all adapters.
// It has no overall timeout; every call is bounded by its context.
func NewHTTPClient(cfg config.HTTPClientConfig) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          cfg.MaxIdleConns,
		MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:       cfg.IdleConnTimeout,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}

	var rt http.RoundTripper = transport
	if cfg.UserAgent != "" {
		rt = &userAgentTransport{base: transport, userAgent: cfg.UserAgent}
	}

	return &http.Client{Transport: rt}
}

// userAgentTransport sets User-Agent on requests that have none.
// Wikimedia rejects anonymous clients.
type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.base.RoundTrip(req)
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(clone)
}
