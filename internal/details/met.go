// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package details

import (
	"context"
	"fmt"
	"strconv"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/sources"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/upstream"
)

type metLookup struct {
	baseURL  string
	endpoint *upstream.Endpoint
}

func (l *metLookup) lookup(ctx context.Context, id string) (*Detail, error) {
	if _, err := strconv.ParseUint(id, 10, 64); err != nil {
		return nil, fmt.Errorf("%w: met object id must be numeric", ErrNotFound)
	}
	reqURL, err := upstream.JoinPath(l.baseURL, "objects", id)
	if err != nil {
		return nil, err
	}
	body, err := l.endpoint.Fetch(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	return parseMetDetail(id, body)
}

func parseMetDetail(id string, body []byte) (*Detail, error) {
	var obj struct {
		Title             string `json:"title"`
		ArtistDisplayName string `json:"artistDisplayName"`
		ObjectDate        string `json:"objectDate"`
		Medium            string `json:"medium"`
		Dimensions        string `json:"dimensions"`
		Department        string `json:"department"`
		PrimaryImage      string `json:"primaryImage"`
		ObjectURL         string `json:"objectURL"`
	}
	if err := upstream.DecodeJSON(body, &obj); err != nil {
		return nil, err
	}

	fields := map[string]string{}
	for key, v := range map[string]string{
		"artist":     obj.ArtistDisplayName,
		"date":       obj.ObjectDate,
		"medium":     obj.Medium,
		"dimensions": obj.Dimensions,
		"department": obj.Department,
	} {
		if v != "" {
			fields[key] = v
		}
	}

	return &Detail{
		Source:   sources.MetMuseum,
		ID:       id,
		Title:    obj.Title,
		Fields:   fields,
		ImageURL: obj.PrimaryImage,
		URL:      obj.ObjectURL,
	}, nil
}
