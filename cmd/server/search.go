// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/search"
)

// runSearch performs one search and prints the paged envelope to stdout.
// Arguments are joined with spaces; no arguments searches for "".
func runSearch(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	stack, err := newSearchStack(ctx, cfg)
	if err != nil {
		return err
	}
	defer stack.Close()

	query := strings.Join(cmd.Args().Slice(), " ")
	result, err := stack.service.PerformSearch(ctx, query, cmd.Int("page"), cmd.Int("page-size"), cmd.String("provider"))
	if err != nil {
		return fmt.Errorf("search %q: %w", query, err)
	}
	return writeEnvelope(os.Stdout, result, cmd.Bool("pretty"))
}

func writeEnvelope(w io.Writer, env *search.PagedEnvelope, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(env)
}
