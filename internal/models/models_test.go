// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package models

import (
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestSplitTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []string
	}{
		{"Baroque, Dutch ,painting", []string{"baroque", "dutch", "painting"}},
		{" , ,", []string{}},
		{"", []string{}},
		{"Ukiyo-e", []string{"ukiyo-e"}},
	}
	for _, tt := range tests {
		got := SplitTags(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("SplitTags(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("SplitTags(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}

func TestAPIResponse_ErrorOmitted(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(APIResponse{
		Status:   "success",
		Data:     Resource{ID: 1, Title: "Night Watch"},
		Metadata: Metadata{Timestamp: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
	})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if strings.Contains(string(data), `"error"`) {
		t.Errorf("success response should omit error: %s", data)
	}
	if strings.Contains(string(data), `"learning_path_id"`) {
		t.Errorf("nil learning_path_id should be omitted: %s", data)
	}
}
