package archive

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"repolens/internal/analyzer"
)

// DirSource walks a local directory and yields its files as archive
// entries. Paths are prefixed with the directory's base name so they carry
// the same top-level wrapper segment a repository zip has.
type DirSource struct {
	entries []analyzer.Entry
	pos     int
}

// OpenDir eagerly walks root. Unreadable files become entries with a
// recorded error, matching zip semantics.
func OpenDir(root string) (*DirSource, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	wrapper := filepath.Base(abs)

	var entries []analyzer.Entry
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if path == abs || d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(abs, path)
		if err != nil {
			return nil
		}
		entry := analyzer.Entry{Path: wrapper + "/" + filepath.ToSlash(rel)}
		if info, err := d.Info(); err == nil {
			entry.Size = info.Size()
		}
		content, err := os.ReadFile(path)
		if err != nil {
			entry.Err = err
		} else {
			entry.Content = content
		}
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &DirSource{entries: entries}, nil
}

// Next returns the next entry, or io.EOF when the walk is exhausted.
func (s *DirSource) Next() (analyzer.Entry, error) {
	if s.pos >= len(s.entries) {
		return analyzer.Entry{}, io.EOF
	}
	e := s.entries[s.pos]
	s.pos++
	return e, nil
}
