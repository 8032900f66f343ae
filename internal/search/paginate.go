// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package search

import (
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/sources"
)

// DefaultPageSize is used when a caller passes a page size below 1.
const DefaultPageSize = 20

// Paginate windows every source's list to page independently and computes the
// totals over the unwindowed lists. page < 1 is treated as 1.
//
// Each source contributes up to pageSize items, so a page can hold more than
// pageSize items in total while total_pages is computed over the sum.
func Paginate(env Envelope, page, pageSize int) PagedEnvelope {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	total := 0
	for _, items := range env.Results {
		total += len(items)
	}

	out := PagedEnvelope{
		Results:      make(map[sources.Name][]sources.Item, len(env.Results)),
		Errors:       make(map[sources.Name]string, len(env.Errors)),
		CurrentPage:  page,
		TotalPages:   pages(total, pageSize),
		TotalResults: total,
	}
	for name, items := range env.Results {
		out.Results[name] = window(items, page, pageSize)
	}
	for name, reason := range env.Errors {
		out.Errors[name] = reason
	}
	return out
}

// pages is ceil(n/size) without the n+size-1 overflow for huge sizes.
func pages(n, size int) int {
	p := n / size
	if n%size != 0 {
		p++
	}
	return p
}

// window returns items[(page-1)*size : page*size] clamped to the list.
func window(items []sources.Item, page, size int) []sources.Item {
	if page-1 >= pages(len(items), size) {
		return []sources.Item{}
	}
	start := (page - 1) * size
	end := start + min(size, len(items)-start)
	out := make([]sources.Item, end-start)
	copy(out, items[start:end])
	return out
}
