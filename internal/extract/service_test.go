package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBuildZipURL(t *testing.T) {
	got := buildZipURL("https://github.com/golang/go/", "master")
	want := "https://github.com/golang/go/archive/refs/heads/master.zip"
	if got != want {
		t.Fatalf("got %s", got)
	}
}

func TestFormatBytes(t *testing.T) {
	cases := map[int64]string{
		512:         "512.00 B",
		2048:        "2.00 KB",
		5 * 1 << 20: "5.00 MB",
		3 * 1 << 30: "3.00 GB",
	}
	for in, want := range cases {
		if got := formatBytes(in); got != want {
			t.Fatalf("formatBytes(%d) = %q, want %q", in, got, want)
		}
	}
}

func buildRepoZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		f.Write([]byte(content))
	}
	w.Close()
	return buf.Bytes()
}

func TestDownloadTooLargeByHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "999999999")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	svc := NewService("", 1)
	_, err := svc.download(context.Background(), Request{GitHubURL: srv.URL, Branch: "main"})
	if !errors.Is(err, ErrRepoTooLarge) {
		t.Fatalf("want ErrRepoTooLarge, got %v", err)
	}
}

func TestDownloadNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	svc := NewService("", 1)
	_, err := svc.download(context.Background(), Request{GitHubURL: srv.URL, Branch: "main"})
	if !errors.Is(err, ErrRepoNotFound) {
		t.Fatalf("want ErrRepoNotFound, got %v", err)
	}
}

func TestRunEndToEnd(t *testing.T) {
	data := buildRepoZip(t, map[string]string{
		"demo-main/README.md":        "# Demo project",
		"demo-main/requirements.txt": "flask==2.0",
		"demo-main/src/app.py":       "print('hi')",
	})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/archive/refs/heads/main.zip") {
			// metadata lookups against this fake host just 404
			http.NotFound(w, r)
			return
		}
		w.Write(data)
	}))
	defer srv.Close()

	var stages []string
	svc := NewService("", 10)
	doc, err := svc.Run(context.Background(), Request{GitHubURL: srv.URL + "/acme/demo", Branch: "main"},
		func(stage, detail string) { stages = append(stages, stage) })
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if doc.FileStats.TotalFiles != 3 {
		t.Fatalf("total files %d", doc.FileStats.TotalFiles)
	}
	if !strings.Contains(doc.Payload, "# Demo project") {
		t.Fatal("payload missing README content")
	}
	if len(doc.Dependencies) != 1 || doc.Dependencies[0].Manager != "pip" {
		t.Fatalf("dependencies: %+v", doc.Dependencies)
	}
	if doc.Context.FilesInContext != 2 {
		t.Fatalf("files in context %d", doc.Context.FilesInContext)
	}
	if doc.Tokens <= 0 {
		t.Fatal("estimated tokens must be positive")
	}
	if doc.GitHub == nil {
		t.Fatal("github info must never be nil")
	}
	if len(stages) == 0 || stages[len(stages)-1] != "done" {
		t.Fatalf("stages: %v", stages)
	}
}

func TestRunBadArchive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("html error page"))
	}))
	defer srv.Close()

	svc := NewService("", 10)
	_, err := svc.Run(context.Background(), Request{GitHubURL: srv.URL + "/a/b", Branch: "main"}, nil)
	if err == nil {
		t.Fatal("want error for non-zip body")
	}
}
