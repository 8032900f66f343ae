// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

// Package main is the entry point for the ArtHistoryNavigator server.
//
// ArtHistoryNavigator fans a free-text query out to Wikipedia, the Internet
// Archive, the Met, the Rijksmuseum, Harvard Art Museums, Cooper Hewitt and
// one generative provider (OpenAI or Perplexity), then returns every source's
// results and failures in a single paged envelope.
//
// # Commands
//
//	arthistory serve                 # run the HTTP API (default)
//	arthistory search "ming vase"    # run one search and print the envelope
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Environment variables (a .env file is loaded first when present)
//   - Config file (config.yaml, or CONFIG_PATH)
//   - Built-in defaults
//
// Source API keys are read from RIJKSMUSEUM_API_KEY, HARVARD_ART_MUSEUMS_API_KEY,
// COOPER_HEWITT_API_KEY, OPENAI_API_KEY and PERPLEXITY_API_KEY. A missing key
// fails only its own source.
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the supervisor tree; the HTTP server drains for
// SHUTDOWN_TIMEOUT before the stores are closed.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/api"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api.Version = version

	app := &cli.Command{
		Name:    "arthistory",
		Usage:   "art and history metadata search aggregator",
		Version: version,
		Action:  runServe,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API",
				Action: runServe,
			},
			{
				Name:      "search",
				Usage:     "run one search and print the JSON envelope",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "page",
						Usage: "page number (values below 1 become 1)",
						Value: 1,
					},
					&cli.IntFlag{
						Name:  "page-size",
						Usage: "results per source per page (0 uses API_DEFAULT_PAGE_SIZE)",
					},
					&cli.StringFlag{
						Name:    "provider",
						Usage:   "generative provider: openai or perplexity",
						Sources: cli.EnvVars("SEARCH_PROVIDER"),
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "indent the JSON output",
					},
				},
				Action: runSearch,
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		logging.Error().Err(err).Msg("arthistory exited with error")
		stop()
		os.Exit(1)
	}
}
