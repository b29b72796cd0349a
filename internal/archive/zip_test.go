package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"repolens/internal/analyzer"
)

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func drain(t *testing.T, src analyzer.Source) []analyzer.Entry {
	t.Helper()
	var out []analyzer.Entry
	for {
		e, err := src.Next()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		out = append(out, e)
	}
}

func TestOpenZipRejectsGarbage(t *testing.T) {
	_, err := OpenZip([]byte("definitely not a zip"))
	if !errors.Is(err, ErrBadArchive) {
		t.Fatalf("want ErrBadArchive, got %v", err)
	}
}

func TestZipSourceYieldsEntries(t *testing.T) {
	data := buildZip(t, map[string]string{
		"repo-main/README.md":   "# hi",
		"repo-main/src/main.py": "print('x')",
	})
	src, err := OpenZip(data)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	entries := drain(t, src)
	if len(entries) != 2 {
		t.Fatalf("want 2 entries, got %d", len(entries))
	}
	byPath := map[string]analyzer.Entry{}
	for _, e := range entries {
		byPath[e.Path] = e
	}
	readme := byPath["repo-main/README.md"]
	if readme.IsDir || string(readme.Content) != "# hi" || readme.Size != 4 {
		t.Fatalf("unexpected readme entry: %+v", readme)
	}
}

func TestDirSourcePrefixesWrapper(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "README.md", "# demo")
	write(t, dir, "src/app.py", "pass")

	src, err := OpenDir(dir)
	if err != nil {
		t.Fatalf("open dir: %v", err)
	}
	entries := drain(t, src)
	if len(entries) != 2 {
		t.Fatalf("want 2 entries, got %d", len(entries))
	}
	wrapper := filepath.Base(dir)
	for _, e := range entries {
		if e.Err != nil {
			t.Fatalf("entry %s: %v", e.Path, e.Err)
		}
		if want := wrapper + "/"; len(e.Path) < len(want) || e.Path[:len(want)] != want {
			t.Fatalf("path %q missing wrapper prefix %q", e.Path, want)
		}
	}
}

func write(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}
