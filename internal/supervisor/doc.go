// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

/*
Package supervisor runs the long-lived parts of the search aggregator under a
suture v4 supervisor tree.

	RootSupervisor ("arthistory")
	├── DataSupervisor ("data-layer")
	│   ├── badger-gc          (HISTORY_BACKEND=badger)
	│   └── duckdb-checkpoint
	├── MessagingSupervisor ("messaging-layer")
	│   ├── websocket-hub
	│   └── trending-refresh
	└── APISupervisor ("api-layer")
	    └── http-server

A crash in one layer restarts only the services under that layer's
supervisor. The tree counts terminations and panics per service; Services()
feeds the readiness probe. Search requests themselves are not supervised; they run on the
HTTP server's goroutines and are bounded by per-source timeouts.

Supervisor events (restarts, backoff, timeouts) are logged through
sutureslog, which expects an *slog.Logger. Use logging.NewSlogLogger so the
events land in the same zerolog stream as everything else:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
		return err
	}
	tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.ShutdownTimeout))
	return tree.Serve(ctx)
*/
package supervisor
