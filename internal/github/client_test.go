package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseRepoURL(t *testing.T) {
	cases := []struct {
		in          string
		owner, repo string
		wantErr     bool
	}{
		{in: "https://github.com/golang/go", owner: "golang", repo: "go"},
		{in: "https://github.com/golang/go/", owner: "golang", repo: "go"},
		{in: "https://github.com/golang/go.git", owner: "golang", repo: "go"},
		{in: "https://example.com/golang/go", wantErr: true},
		{in: "https://github.com/golang", wantErr: true},
		{in: "not a url", wantErr: true},
	}
	for _, c := range cases {
		owner, repo, err := ParseRepoURL(c.in)
		if c.wantErr {
			if err == nil {
				t.Fatalf("%s: want error", c.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: %v", c.in, err)
		}
		if owner != c.owner || repo != c.repo {
			t.Fatalf("%s: got %s/%s", c.in, owner, repo)
		}
	}
}

func TestGetJSONNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient("")
	var out map[string]any
	err := c.getJSON(context.Background(), srv.URL, &out)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestGetJSONCachesBody(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`{"name":"demo"}`))
	}))
	defer srv.Close()

	c := NewClient("token-123")
	for i := 0; i < 3; i++ {
		var out struct {
			Name string `json:"name"`
		}
		if err := c.getJSON(context.Background(), srv.URL, &out); err != nil {
			t.Fatalf("getJSON: %v", err)
		}
		if out.Name != "demo" {
			t.Fatalf("got %q", out.Name)
		}
	}
	if hits != 1 {
		t.Fatalf("want 1 upstream hit, got %d", hits)
	}
}

func TestGetJSONSendsAuthHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		if r.Header.Get("Accept") != "application/vnd.github+json" {
			t.Errorf("wrong accept header %q", r.Header.Get("Accept"))
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient("tok")
	var out map[string]any
	if err := c.getJSON(context.Background(), srv.URL, &out); err != nil {
		t.Fatalf("getJSON: %v", err)
	}
}

func TestFetchAllDegradesIndependently(t *testing.T) {
	// Every lookup against an invalid URL fails, yet Info is populated
	// with empty defaults.
	c := NewClient("")
	info := c.FetchAll(context.Background(), "https://example.com/nope")
	if info == nil {
		t.Fatal("info must never be nil")
	}
	if info.Metadata != nil {
		t.Fatal("metadata should be nil on failure")
	}
	if info.Contributors == nil || info.Branches == nil || info.Languages == nil {
		t.Fatal("collections must be non-nil")
	}
	if info.BranchCount != 0 {
		t.Fatalf("branch count %d", info.BranchCount)
	}
}
