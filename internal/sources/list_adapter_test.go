// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package sources

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/config"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/upstream"
)

func TestWikipedia_Search(t *testing.T) {
	t.Parallel()

	var got url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		_, _ = w.Write([]byte(`{"query":{"search":[{"title":"A"},{"title":"B"},{"title":"C"}]}}`))
	}))
	defer server.Close()

	a := NewWikipedia(config.SourceConfig{URL: server.URL, Timeout: 5 * time.Second, Limit: 2},
		newTestEndpoint("test-wikipedia", server.Client()))

	items, err := a.Search(context.Background(), "Mona Lisa")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(items) != 2 {
		t.Errorf("expected results capped at 2, got %d", len(items))
	}
	if a.Name() != Wikipedia || a.Timeout() != 5*time.Second {
		t.Error("unexpected adapter identity")
	}
	for key, want := range map[string]string{
		"action": "query", "list": "search", "format": "json", "srsearch": "Mona Lisa", "srlimit": "2",
	} {
		if got.Get(key) != want {
			t.Errorf("param %s = %q, want %q", key, got.Get(key), want)
		}
	}
}

func TestListAdapter_EmptyQueryForwardedVerbatim(t *testing.T) {
	t.Parallel()

	var raw string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"response":{"docs":[]}}`))
	}))
	defer server.Close()

	a := NewInternetArchive(config.SourceConfig{URL: server.URL, Timeout: time.Second, Limit: 10},
		newTestEndpoint("test-ia-empty", server.Client()))

	items, err := a.Search(context.Background(), "")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected zero items, got %d", len(items))
	}

	values, _ := url.ParseQuery(raw)
	if q, ok := values["q"]; !ok || q[0] != "" {
		t.Errorf("expected empty q parameter, raw query %q", raw)
	}
	if len(values["fl[]"]) != len(internetArchiveFields) {
		t.Errorf("expected %d fl[] fields, got %v", len(internetArchiveFields), values["fl[]"])
	}
}

func TestMuseumAdapters_MissingKeyDoesNoIO(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	cfg := config.SourceConfig{URL: server.URL, Timeout: time.Second, Limit: 5}
	adapters := []Adapter{
		NewRijksmuseum(cfg, newTestEndpoint("test-rijks-nokey", server.Client())),
		NewHarvardArt(cfg, newTestEndpoint("test-harvard-nokey", server.Client())),
		NewCooperHewitt(cfg, newTestEndpoint("test-cooper-nokey", server.Client())),
	}

	for _, a := range adapters {
		_, err := a.Search(context.Background(), "vermeer")
		if !errors.Is(err, upstream.ErrMissingAPIKey) {
			t.Errorf("%s: expected ErrMissingAPIKey, got %v", a.Name(), err)
		}
		if upstream.Reason(err) != upstream.ReasonMissingAPIKey {
			t.Errorf("%s: reason = %q", a.Name(), upstream.Reason(err))
		}
	}
	if hits.Load() != 0 {
		t.Errorf("expected no upstream requests, got %d", hits.Load())
	}
}

func TestMuseumAdapters_Params(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		build func(config.SourceConfig, *upstream.Endpoint) Adapter
		body  string
		want  map[string]string
	}{
		{
			name:  "rijksmuseum",
			build: NewRijksmuseum,
			body:  `{"artObjects":[{"id":"1"}]}`,
			want:  map[string]string{"key": "secret", "q": "vermeer", "format": "json", "ps": "5"},
		},
		{
			name:  "harvard",
			build: NewHarvardArt,
			body:  `{"records":[{"id":1}]}`,
			want:  map[string]string{"apikey": "secret", "q": "vermeer", "size": "5"},
		},
		{
			name:  "cooper hewitt",
			build: NewCooperHewitt,
			body:  `{"objects":[{"id":"1"}]}`,
			want:  map[string]string{"access_token": "secret", "query": "vermeer", "page": "1", "per_page": "5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got url.Values
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.URL.Query()
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			cfg := config.SourceConfig{URL: server.URL, APIKey: "secret", Timeout: time.Second, Limit: 5}
			a := tt.build(cfg, newTestEndpoint("test-params-"+tt.name, server.Client()))

			items, err := a.Search(context.Background(), "vermeer")
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if len(items) != 1 {
				t.Errorf("expected 1 item, got %d", len(items))
			}
			for key, want := range tt.want {
				if got.Get(key) != want {
					t.Errorf("param %s = %q, want %q", key, got.Get(key), want)
				}
			}
		})
	}
}

func TestListAdapter_UpstreamStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	a := NewWikipedia(config.SourceConfig{URL: server.URL, Timeout: time.Second, Limit: 10},
		newTestEndpoint("test-wikipedia-503", server.Client()))

	_, err := a.Search(context.Background(), "x")
	var statusErr *upstream.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 StatusError, got %v", err)
	}
	if got := upstream.Reason(err); got != "upstream returned status 503" {
		t.Errorf("Reason() = %q", got)
	}
}
