// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package api

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/config"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/database"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/history"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/models"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/recommend"
)

func newCatalogServer(t *testing.T) (string, *database.DB) {
	t.Helper()

	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", Threads: 1})
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	engine := recommend.NewEngine(db, history.NewMemoryStore(), config.RecommendConfig{
		RefreshInterval: time.Minute,
		TrendingSize:    10,
		DefaultLimit:    5,
		MaxLimit:        20,
		TagWeight:       1,
	})
	srv := newTestServer(t, Deps{Search: &fakeSearcher{}, Catalog: db, Recommend: engine})
	return srv.URL, db
}

func dataID(t *testing.T, body []byte) int64 {
	t.Helper()
	var resp struct {
		Data struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode id from %s: %v", body, err)
	}
	return resp.Data.ID
}

func mustCreate(t *testing.T, url, body string) int64 {
	t.Helper()
	resp, data := doRequest(t, http.MethodPost, url, body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST %s status = %d: %s", url, resp.StatusCode, data)
	}
	return dataID(t, data)
}

func TestCatalogEndpoints(t *testing.T) {
	base, _ := newCatalogServer(t)
	v1 := base + "/api/v1"

	userID := mustCreate(t, v1+"/users", `{"username":"vasari","email":"vasari@example.org"}`)

	resp, _ := doRequest(t, http.MethodPost, v1+"/users", `{"username":"vasari","email":"other@example.org"}`)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate user status = %d, want 409", resp.StatusCode)
	}
	resp, body := doRequest(t, http.MethodPost, v1+"/users", `{"username":"  ","email":"not-an-email"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid user status = %d, want 400", resp.StatusCode)
	}
	if apiResp := decodeAPIResponse(t, body); apiResp.Error == nil || apiResp.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("invalid user error = %s", body)
	}
	resp, _ = doRequest(t, http.MethodPost, v1+"/users", `{"username":`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed JSON status = %d, want 400", resp.StatusCode)
	}

	resp, _ = doRequest(t, http.MethodGet, fmt.Sprintf("%s/users/%d", v1, userID), "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("get user status = %d", resp.StatusCode)
	}
	resp, _ = doRequest(t, http.MethodGet, v1+"/users/999", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing user status = %d, want 404", resp.StatusCode)
	}

	pathID := mustCreate(t, v1+"/learning-paths",
		fmt.Sprintf(`{"user_id":%d,"title":"Baroque","tags":"caravaggio,chiaroscuro"}`, userID))
	resp, _ = doRequest(t, http.MethodPost, v1+"/learning-paths", `{"user_id":999,"title":"Orphan"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("path for missing user status = %d, want 404", resp.StatusCode)
	}

	seenID := mustCreate(t, v1+"/resources",
		fmt.Sprintf(`{"title":"Calling of St Matthew","url":"https://example.org/1","source":"wikipedia","tags":"caravaggio","learning_path_id":%d}`, pathID))
	suggestedID := mustCreate(t, v1+"/resources",
		`{"title":"Judith Beheading Holofernes","url":"https://example.org/2","source":"met_museum","tags":"chiaroscuro"}`)
	resp, _ = doRequest(t, http.MethodPost, v1+"/resources", `{"title":"Bad","url":"not a url"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid resource url status = %d, want 400", resp.StatusCode)
	}

	resp, body = doRequest(t, http.MethodGet, fmt.Sprintf("%s/learning-paths/%d/resources", v1, pathID), "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("path resources status = %d", resp.StatusCode)
	}
	var pathResources struct {
		Data models.ListResponse[models.Resource] `json:"data"`
	}
	if err := json.Unmarshal(body, &pathResources); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if pathResources.Data.Total != 1 || pathResources.Data.Items[0].ID != seenID {
		t.Errorf("path resources = %+v", pathResources.Data)
	}

	// History append is idempotent.
	for i := 0; i < 2; i++ {
		resp, body = doRequest(t, http.MethodPost, fmt.Sprintf("%s/users/%d/history", v1, userID),
			fmt.Sprintf(`{"resource_id":%d}`, seenID))
		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("record history status = %d: %s", resp.StatusCode, body)
		}
	}
	resp, body = doRequest(t, http.MethodGet, fmt.Sprintf("%s/users/%d/history", v1, userID), "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list history status = %d", resp.StatusCode)
	}
	var hist struct {
		Data models.ListResponse[models.UserResource] `json:"data"`
	}
	if err := json.Unmarshal(body, &hist); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if hist.Data.Total != 1 {
		t.Errorf("history total = %d, want 1", hist.Data.Total)
	}

	resp, body = doRequest(t, http.MethodGet, fmt.Sprintf("%s/users/%d/recommendations", v1, userID), "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("recommendations status = %d", resp.StatusCode)
	}
	var recs struct {
		Data models.ListResponse[recommend.Recommendation] `json:"data"`
	}
	if err := json.Unmarshal(body, &recs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if recs.Data.Total != 1 || recs.Data.Items[0].Resource.ID != suggestedID {
		t.Errorf("recommendations = %+v", recs.Data)
	}

	resp, body = doRequest(t, http.MethodGet, v1+"/users/999/recommendations", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("unknown user recommendations status = %d, want 200", resp.StatusCode)
	}
	if err := json.Unmarshal(body, &recs); err != nil || recs.Data.Total != 0 {
		t.Errorf("unknown user recommendations = %s", body)
	}

	collectionID := mustCreate(t, v1+"/collections", `{"title":"Dark paintings"}`)
	link := fmt.Sprintf("%s/collections/%d/resources/%d", v1, collectionID, suggestedID)
	if resp, _ = doRequest(t, http.MethodPost, link, ""); resp.StatusCode != http.StatusNoContent {
		t.Errorf("add to collection status = %d", resp.StatusCode)
	}
	resp, body = doRequest(t, http.MethodGet, fmt.Sprintf("%s/collections/%d", v1, collectionID), "")
	var coll struct {
		Data models.Collection `json:"data"`
	}
	if err := json.Unmarshal(body, &coll); err != nil || len(coll.Data.Resources) != 1 {
		t.Errorf("collection = %s (status %d)", body, resp.StatusCode)
	}
	if resp, _ = doRequest(t, http.MethodDelete, link, ""); resp.StatusCode != http.StatusNoContent {
		t.Errorf("remove from collection status = %d", resp.StatusCode)
	}
	if resp, _ = doRequest(t, http.MethodDelete, link, ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("second remove status = %d, want 404", resp.StatusCode)
	}

	for _, path := range []string{"/learning-paths", "/resources", "/collections"} {
		if resp, _ = doRequest(t, http.MethodGet, v1+path, ""); resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s status = %d", path, resp.StatusCode)
		}
	}

	resp, _ = doRequest(t, http.MethodGet, base+"/api/v1/health/ready", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("ready with database status = %d", resp.StatusCode)
	}
}
