// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/config"
)

func TestRequestURL(t *testing.T) {
	t.Parallel()

	got, err := NewRequest("https://api.collection.cooperhewitt.org/rest/?method=cooperhewitt.search.objects").
		Set("query", "chair").
		SetInt("per_page", 5).
		URL()
	if err != nil {
		t.Fatal(err)
	}

	u, _ := url.Parse(got)
	q := u.Query()
	if q.Get("method") != "cooperhewitt.search.objects" {
		t.Errorf("base query lost: %s", got)
	}
	if q.Get("query") != "chair" || q.Get("per_page") != "5" {
		t.Errorf("params not set: %s", got)
	}
}

func TestRequestURL_EmptyValueKept(t *testing.T) {
	t.Parallel()

	got, err := NewRequest("https://en.wikipedia.org/w/api.php").Set("srsearch", "").URL()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "srsearch=") {
		t.Errorf("empty query must still be forwarded: %s", got)
	}
}

func TestRequestURL_RepeatedAndOverride(t *testing.T) {
	t.Parallel()

	got, err := NewRequest("https://archive.org/advancedsearch.php?output=xml").
		Set("output", "json").
		Add("fl[]", "identifier").
		Add("fl[]", "title").
		URL()
	if err != nil {
		t.Fatal(err)
	}
	u, _ := url.Parse(got)
	if u.Query().Get("output") != "json" {
		t.Errorf("Set should override base param: %s", got)
	}
	if len(u.Query()["fl[]"]) != 2 {
		t.Errorf("Add should repeat key: %s", got)
	}
}

func TestJoinPath(t *testing.T) {
	t.Parallel()

	got, err := JoinPath("https://collectionapi.metmuseum.org/public/collection/v1", "objects", "436535")
	if err != nil {
		t.Fatal(err)
	}
	if got != "https://collectionapi.metmuseum.org/public/collection/v1/objects/436535" {
		t.Errorf("JoinPath() = %s", got)
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte(`{"ok":true}`))
		case "/unavailable":
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("maintenance"))
		case "/slow":
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte(`{}`))
		}
	}))
	defer server.Close()

	body, err := Get(context.Background(), server.Client(), server.URL+"/ok")
	if err != nil || string(body) != `{"ok":true}` {
		t.Fatalf("Get(/ok) = %q, %v", body, err)
	}

	_, err = Get(context.Background(), server.Client(), server.URL+"/unavailable")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected StatusError 503, got %v", err)
	}
	if statusErr.Body != "maintenance" {
		t.Errorf("StatusError.Body = %q", statusErr.Body)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = Get(ctx, server.Client(), server.URL+"/slow")
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	var v map[string]any
	if err := DecodeJSON([]byte(`{"a":1}`), &v); err != nil {
		t.Fatalf("DecodeJSON() = %v", err)
	}

	err := DecodeJSON([]byte(`<html>`), &v)
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Errorf("expected DecodeError, got %T", err)
	}
}

func TestNewHTTPClient_SetsUserAgent(t *testing.T) {
	t.Parallel()

	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	client := NewHTTPClient(config.HTTPClientConfig{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     time.Second,
		UserAgent:           "ArtHistoryNavigator/test",
	})

	if _, err := Get(context.Background(), client, server.URL); err != nil {
		t.Fatal(err)
	}
	if gotUA != "ArtHistoryNavigator/test" {
		t.Errorf("User-Agent = %q", gotUA)
	}
	if client.Timeout != 0 {
		t.Error("pooled client should rely on per-call contexts, not a global timeout")
	}
}
