// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package details

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/cache"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/sources"
)

const wikipediaPage = `{"parse":{"title":"The Starry Night","pageid":1,"text":{"*":"<div class=\"mw-parser-output\"><table class=\"infobox\"><tr><td>Artist</td></tr></table><p>\n</p><p><b>The Starry Night</b> is an oil-on-canvas painting<sup class=\"reference\">[1]</sup> by Vincent van Gogh.</p><h2>History<span class=\"mw-editsection\">[edit]</span></h2><p>Painted in June 1889.</p><script>alert(1)</script></div>"}}}`

func newUpstream(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch {
		case r.URL.Path == "/w/api.php" && r.URL.Query().Get("pageid") == "1":
			_, _ = w.Write([]byte(wikipediaPage))
		case r.URL.Path == "/w/api.php":
			_, _ = w.Write([]byte(`{"error":{"code":"nosuchpageid","info":"There is no page with ID 2."}}`))
		case r.URL.Path == "/metadata/starry_night_1889":
			_, _ = w.Write([]byte(`{"metadata":{"identifier":"starry_night_1889","title":"Starry Night","creator":["Vincent van Gogh","MoMA"],"date":"1889","description":"Scan"}}`))
		case strings.HasPrefix(r.URL.Path, "/metadata/"):
			_, _ = w.Write([]byte(`{}`))
		case r.URL.Path == "/met/objects/436535":
			_, _ = w.Write([]byte(`{"objectID":436535,"title":"Wheat Field with Cypresses","artistDisplayName":"Vincent van Gogh","objectDate":"1889","medium":"Oil on canvas","department":"European Paintings","primaryImage":"https://images.metmuseum.org/x.jpg","objectURL":"https://www.metmuseum.org/art/collection/search/436535"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestService(t *testing.T, server *httptest.Server, c *cache.Cache[*Detail]) *Service {
	t.Helper()
	return NewService(Options{
		WikipediaURL:       server.URL + "/w/api.php",
		ArchiveMetadataURL: server.URL + "/metadata",
		MetURL:             server.URL + "/met",
		Timeout:            5 * time.Second,
		Client:             server.Client(),
	}, c)
}

func TestLookup_Wikipedia(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	svc := newTestService(t, newUpstream(t, &hits), nil)

	d, err := svc.Lookup(context.Background(), sources.Wikipedia, "1")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if d.Title != "The Starry Night" {
		t.Errorf("Title = %q", d.Title)
	}
	if d.Summary != "The Starry Night is an oil-on-canvas painting by Vincent van Gogh." {
		t.Errorf("Summary = %q", d.Summary)
	}
	for _, unwanted := range []string{"[1]", "[edit]", "alert", "Artist"} {
		if strings.Contains(d.Content, unwanted) {
			t.Errorf("Content should not contain %q: %s", unwanted, d.Content)
		}
	}
	if !strings.Contains(d.Content, "**The Starry Night**") || !strings.Contains(d.Content, "## History") {
		t.Errorf("expected Markdown content, got: %s", d.Content)
	}
}

func TestLookup_Archive(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	svc := newTestService(t, newUpstream(t, &hits), nil)

	d, err := svc.Lookup(context.Background(), sources.InternetArchive, "starry_night_1889")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if d.Title != "Starry Night" || d.URL != "https://archive.org/details/starry_night_1889" {
		t.Errorf("unexpected detail: %+v", d)
	}
	if d.Fields["creator"] != "Vincent van Gogh; MoMA" || d.Fields["date"] != "1889" {
		t.Errorf("Fields = %v", d.Fields)
	}
}

func TestLookup_Met(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	svc := newTestService(t, newUpstream(t, &hits), nil)

	d, err := svc.Lookup(context.Background(), sources.MetMuseum, "436535")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if d.Title != "Wheat Field with Cypresses" || d.Fields["artist"] != "Vincent van Gogh" {
		t.Errorf("unexpected detail: %+v", d)
	}
	if _, ok := d.Fields["dimensions"]; ok {
		t.Error("empty fields should be omitted")
	}
	if d.ImageURL == "" || d.URL == "" {
		t.Errorf("expected image and object URLs: %+v", d)
	}
}

func TestLookup_Errors(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	svc := newTestService(t, newUpstream(t, &hits), nil)
	ctx := context.Background()

	tests := []struct {
		source sources.Name
		id     string
		want   error
	}{
		{sources.Rijksmuseum, "SK-C-5", ErrUnknownSource},
		{sources.Wikipedia, "2", ErrNotFound},
		{sources.Wikipedia, "abc", ErrNotFound},
		{sources.InternetArchive, "nope", ErrNotFound},
		{sources.MetMuseum, "999", ErrNotFound},
	}
	for _, tt := range tests {
		if _, err := svc.Lookup(ctx, tt.source, tt.id); !errors.Is(err, tt.want) {
			t.Errorf("Lookup(%s, %s) error = %v, want %v", tt.source, tt.id, err, tt.want)
		}
	}

	if svc.Supported(sources.Rijksmuseum) || !svc.Supported(sources.MetMuseum) {
		t.Error("unexpected Supported() result")
	}
}

func TestLookup_Cached(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	c := cache.New[*Detail](time.Minute, 10)
	svc := newTestService(t, newUpstream(t, &hits), c)

	for range 3 {
		if _, err := svc.Lookup(context.Background(), sources.MetMuseum, "436535"); err != nil {
			t.Fatalf("Lookup() error = %v", err)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("expected one upstream request, got %d", hits.Load())
	}
}

func TestFlattenMetadata(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{`"  Rembrandt "`, "Rembrandt"},
		{`["a", "", "b"]`, "a; b"},
		{`1642`, "1642"},
		{`{"x":1}`, ""},
		{``, ""},
	}
	for _, tt := range tests {
		if got := flattenMetadata(json.RawMessage(tt.raw)); got != tt.want {
			t.Errorf("flattenMetadata(%s) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
