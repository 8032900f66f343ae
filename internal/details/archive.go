// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package details

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/sources"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/upstream"
)

type archiveLookup struct {
	baseURL  string
	endpoint *upstream.Endpoint
}

func (l *archiveLookup) lookup(ctx context.Context, id string) (*Detail, error) {
	reqURL, err := upstream.JoinPath(l.baseURL, id)
	if err != nil {
		return nil, err
	}
	body, err := l.endpoint.Fetch(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	return parseArchiveMetadata(id, body)
}

// parseArchiveMetadata reads the metadata object. archive.org answers an
// unknown identifier with 200 and an empty object.
func parseArchiveMetadata(id string, body []byte) (*Detail, error) {
	var resp struct {
		Metadata map[string]json.RawMessage `json:"metadata"`
	}
	if err := upstream.DecodeJSON(body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Metadata) == 0 {
		return nil, fmt.Errorf("%w: archive item %s", ErrNotFound, id)
	}

	fields := map[string]string{}
	for _, key := range []string{"description", "creator", "date", "mediatype"} {
		if v := flattenMetadata(resp.Metadata[key]); v != "" {
			fields[key] = v
		}
	}

	return &Detail{
		Source: sources.InternetArchive,
		ID:     id,
		Title:  flattenMetadata(resp.Metadata["title"]),
		Fields: fields,
		URL:    archiveDetailsURL + "/" + id,
	}, nil
}

// flattenMetadata renders a metadata value that may be a string, a number or
// an array of strings. Arrays are joined with "; ".
func flattenMetadata(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		parts := make([]string, 0, len(list))
		for _, v := range list {
			if v = strings.TrimSpace(v); v != "" {
				parts = append(parts, v)
			}
		}
		return strings.Join(parts, "; ")
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return ""
}
