// Package analyzer turns a decoded repository archive into classified file
// statistics, dependency metadata, a directory tree, and a size-bounded
// context payload for a downstream text-generation model.
package analyzer

import (
	"fmt"
	"io"
	"sort"
)

// Entry is one member of a decoded archive.
type Entry struct {
	// Archive-relative path using '/' separators.
	Path string
	// True for pure directory markers; these never reach the classifier.
	IsDir bool
	// Raw bytes; nil when the entry carries no content.
	Content []byte
	// Declared size in bytes.
	Size int64
	// Non-nil when the entry could not be read. Recorded, not fatal.
	Err error
}

// Source yields archive entries in container order. Next returns io.EOF
// when the archive is exhausted.
type Source interface {
	Next() (Entry, error)
}

// Analyzer drives one pipeline run. It is single-threaded and carries the
// mutable run state; create a fresh Analyzer per archive.
type Analyzer struct {
	ignoredDirs map[string]struct{}
	ignoredExts map[string]struct{}

	totalFiles int
	totalLines int
	totalSize  int64

	categories map[Category]*CategoryStats
	ignored    map[Category]int
	filesByExt map[string]int
	deps       []DependencyRecord
	tree       *Tree
	candidates []candidate
	errs       []string
}

// New creates an analyzer with the given ignore configuration. Nil slices
// fall back to the package defaults.
func New(ignoredDirs, ignoredExts []string) *Analyzer {
	if ignoredDirs == nil {
		ignoredDirs = DefaultIgnoredDirs
	}
	if ignoredExts == nil {
		ignoredExts = DefaultIgnoredExtensions
	}
	a := &Analyzer{
		ignoredDirs: make(map[string]struct{}, len(ignoredDirs)),
		ignoredExts: make(map[string]struct{}, len(ignoredExts)),
		categories:  make(map[Category]*CategoryStats, len(AllCategories)),
		ignored:     make(map[Category]int, len(AllCategories)),
		filesByExt:  map[string]int{},
		tree:        NewTree(),
	}
	for _, d := range ignoredDirs {
		a.ignoredDirs[d] = struct{}{}
	}
	for _, e := range ignoredExts {
		a.ignoredExts[e] = struct{}{}
	}
	for _, cat := range AllCategories {
		a.categories[cat] = &CategoryStats{Extensions: map[string]int{}}
		a.ignored[cat] = 0
	}
	return a
}

// Run consumes every entry of the source, then packs the context payload
// exactly once and returns the consolidated result. Per-entry read errors
// are collected into the result; only a broken source aborts the run.
func (a *Analyzer) Run(src Source) (*Result, error) {
	for {
		entry, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("analyzer: read archive: %w", err)
		}
		if entry.IsDir {
			continue
		}
		if entry.Err != nil {
			a.errs = append(a.errs, fmt.Sprintf("error reading %s: %v", entry.Path, entry.Err))
			continue
		}

		ok, decoded := a.analyzeFile(entry.Path, entry.Content, entry.Size)
		if ok && decoded != "" {
			a.candidates = append(a.candidates, candidate{
				path:    entry.Path,
				content: decoded,
				tier:    PriorityOf(baseOf(entry.Path)),
			})
		}
	}

	payload, included := packContext(a.tree, a.candidates)
	return &Result{
		TotalFiles:         a.totalFiles,
		TotalLines:         a.totalLines,
		TotalSizeBytes:     a.totalSize,
		Categories:         a.categories,
		IgnoredFiles:       a.ignored,
		Dependencies:       a.deps,
		Root:               a.tree.Root(),
		FilesByExtension:   a.filesByExt,
		Payload:            payload,
		PayloadChars:       len(payload),
		PayloadMaxChars:    MaxContextChars,
		FilesInContext:     len(included),
		TotalFilesAnalyzed: len(a.candidates),
		IncludedFiles:      included,
		Errors:             a.errs,
	}, nil
}

// DirectoryMap renders the result's tree as a serializable nested map.
func (r *Result) DirectoryMap() map[string]any {
	return nodeToMap(r.Root, 0)
}

// IncludedFileLabels returns the embedded paths in payload order, with the
// truncation annotation where applicable.
func (r *Result) IncludedFileLabels() []string {
	labels := make([]string, len(r.IncludedFiles))
	for i, f := range r.IncludedFiles {
		labels[i] = f.Label()
	}
	return labels
}

func topExtensions(counts map[string]int, n int) []ExtensionCount {
	out := make([]ExtensionCount, 0, len(counts))
	for ext, count := range counts {
		out = append(out, ExtensionCount{Extension: ext, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Extension < out[j].Extension
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
