package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"repolens/internal/artifactstore"
	"repolens/internal/extract"
)

func newArtifactsAPI(t *testing.T) (*ArtifactsHandler, *artifactstore.MemoryStore) {
	t.Helper()
	store := artifactstore.NewMemoryStore()
	return NewArtifactsHandler(store), store
}

func TestArtifactList(t *testing.T) {
	h, store := newArtifactsAPI(t)
	store.Put(context.Background(), "abc123", "payload.txt", []byte("ctx"))

	rec := doJSON(t, h.HandleArtifacts, http.MethodGet, "/api/artifacts/abc123", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	var out struct {
		AnalysisID string   `json:"analysis_id"`
		Artifacts  []string `json:"artifacts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.AnalysisID != "abc123" || len(out.Artifacts) != 1 || out.Artifacts[0] != "payload.txt" {
		t.Fatalf("unexpected list: %+v", out)
	}
}

func TestArtifactFetch(t *testing.T) {
	h, store := newArtifactsAPI(t)
	store.Put(context.Background(), "abc123", "payload.txt", []byte("<file path='README.md'>hi</file>"))

	rec := doJSON(t, h.HandleArtifacts, http.MethodGet, "/api/artifacts/abc123/payload.txt", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/plain; charset=utf-8" {
		t.Fatalf("content type %q", got)
	}
	if rec.Body.String() != "<file path='README.md'>hi</file>" {
		t.Fatalf("body %q", rec.Body)
	}
}

func TestArtifactFetchMissing(t *testing.T) {
	h, _ := newArtifactsAPI(t)
	if rec := doJSON(t, h.HandleArtifacts, http.MethodGet, "/api/artifacts/abc123/nope.txt", "", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestArtifactBadRequests(t *testing.T) {
	h, _ := newArtifactsAPI(t)
	if rec := doJSON(t, h.HandleArtifacts, http.MethodPost, "/api/artifacts/abc123", "", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status %d", rec.Code)
	}
	if rec := doJSON(t, h.HandleArtifacts, http.MethodGet, "/api/artifacts/", "", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestExtractArchivesPayload(t *testing.T) {
	store := artifactstore.NewMemoryStore()
	h := NewExtractHandler(nil, store)

	req := extract.Request{GitHubURL: "https://github.com/a/b", Branch: "main"}
	doc := &extract.Document{Payload: "packed context"}
	h.storePayload(httptest.NewRequest(http.MethodPost, "/api/extract", nil), req, doc)

	if doc.ArtifactID == "" {
		t.Fatal("artifact id must be stamped on the document")
	}
	got, err := store.Get(context.Background(), doc.ArtifactID, "payload.txt")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "packed context" {
		t.Fatalf("payload %q", got)
	}

	rec := doJSON(t, NewArtifactsHandler(store).HandleArtifacts, http.MethodGet, "/api/artifacts/"+doc.ArtifactID+"/payload.txt", "", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "packed context" {
		t.Fatalf("fetch status %d body %q", rec.Code, rec.Body)
	}
}
