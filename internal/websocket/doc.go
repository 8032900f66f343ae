// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

/*
Package websocket streams completed searches to connected clients.

The Hub is a search.Publisher: every search the service finishes is pushed to
all open connections on GET /api/v1/live as

	{"type":"search_performed","data":{"id":"...","query":"ukiyo-e",...}}

with the same payload the NATS publisher sends. Clients may narrow the feed:

	{"type":"subscribe","data":{"query":"vase","failures_only":true}}

is acknowledged with {"type":"subscribed",...}; an empty subscribe resets to
everything. {"type":"ping"} is answered with {"type":"pong"} and any other
frame with {"type":"error"}. The server also sends protocol-level pings every
54s and drops connections that miss a pong.

Delivery is best effort. A client whose send buffer is full is disconnected
rather than allowed to stall the broadcast.

The hub loop runs under the supervisor's messaging layer:

	hub := websocket.NewHub(cfg.Security.CORSOrigins)
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
*/
package websocket
