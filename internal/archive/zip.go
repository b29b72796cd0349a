// Package archive adapts repository containers to the analyzer's entry
// stream. Container-level validation lives here; the analyzer itself never
// sees a malformed archive.
package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"

	"repolens/internal/analyzer"
)

// ErrBadArchive marks content that is not a valid zip container.
var ErrBadArchive = errors.New("archive: not a valid zip")

// ZipSource yields the entries of an in-memory zip archive in container
// order. Per-entry read failures surface on the entry, not as a source
// error.
type ZipSource struct {
	reader *zip.Reader
	pos    int
}

// OpenZip wraps raw bytes as an entry source.
func OpenZip(data []byte) (*ZipSource, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadArchive, err)
	}
	return &ZipSource{reader: r}, nil
}

// Next returns the next entry, or io.EOF when the archive is exhausted.
func (s *ZipSource) Next() (analyzer.Entry, error) {
	if s.pos >= len(s.reader.File) {
		return analyzer.Entry{}, io.EOF
	}
	f := s.reader.File[s.pos]
	s.pos++

	entry := analyzer.Entry{
		Path:  f.Name,
		IsDir: f.FileInfo().IsDir(),
		Size:  int64(f.UncompressedSize64),
	}
	if entry.IsDir {
		return entry, nil
	}

	rc, err := f.Open()
	if err != nil {
		entry.Err = err
		return entry, nil
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		entry.Err = err
		return entry, nil
	}
	entry.Content = content
	return entry, nil
}
