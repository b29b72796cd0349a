package extract

import (
	"fmt"

	"repolens/internal/analyzer"
	"repolens/internal/github"
	"repolens/internal/tokens"
)

// Document is the full extraction response.
type Document struct {
	GitHub       *github.Info     `json:"github"`
	FileStats    FileStats        `json:"file_stats"`
	Dependencies []DependencyInfo `json:"dependencies"`
	Directory    map[string]any   `json:"directory_structure"`
	Payload      string           `json:"payload"`
	PayloadChars int              `json:"payload_chars"`
	PayloadMax   int              `json:"payload_max_chars"`
	Tokens       int              `json:"estimated_tokens"`
	Context      ContextStats     `json:"context"`
	ArtifactID   string           `json:"artifact_id,omitempty"`
	Errors       []string         `json:"errors,omitempty"`
}

type FileStats struct {
	TotalFiles     int                       `json:"total_files"`
	TotalLines     int                       `json:"total_lines"`
	TotalSizeBytes int64                     `json:"total_size_bytes"`
	TotalSizeHuman string                    `json:"total_size_human"`
	ByCategory     map[string]CategoryStats  `json:"by_category"`
	ByExtension    []analyzer.ExtensionCount `json:"by_extension"`
}

// CategoryStats extends the analyzer's per-category aggregate with the
// ignored-file count for the same category.
type CategoryStats struct {
	Processed  int            `json:"processed"`
	Ignored    int            `json:"ignored"`
	TotalLines int            `json:"total_lines"`
	SizeBytes  int64          `json:"size_bytes"`
	Extensions map[string]int `json:"extensions"`
}

type DependencyInfo struct {
	Manager         string   `json:"manager"`
	File            string   `json:"file"`
	Count           int      `json:"count"`
	Dependencies    []string `json:"dependencies"`
	DevDependencies []string `json:"dev_dependencies"`
}

type ContextStats struct {
	FilesInContext     int      `json:"files_in_context"`
	TotalFilesAnalyzed int      `json:"total_files_analyzed"`
	IncludedFiles      []string `json:"included_files"`
}

func buildDocument(req Request, info *github.Info, r *analyzer.Result) *Document {
	byCategory := make(map[string]CategoryStats)
	for cat, stats := range r.Categories {
		ignored := r.IgnoredFiles[cat]
		if stats.Count == 0 && ignored == 0 {
			continue
		}
		byCategory[string(cat)] = CategoryStats{
			Processed:  stats.Count,
			Ignored:    ignored,
			TotalLines: stats.TotalLines,
			SizeBytes:  stats.TotalSizeBytes,
			Extensions: stats.Extensions,
		}
	}

	deps := make([]DependencyInfo, 0, len(r.Dependencies))
	for _, d := range r.Dependencies {
		deps = append(deps, DependencyInfo{
			Manager:         d.Manager,
			File:            d.File,
			Count:           d.Total(),
			Dependencies:    d.Dependencies,
			DevDependencies: d.DevDependencies,
		})
	}

	return &Document{
		GitHub: info,
		FileStats: FileStats{
			TotalFiles:     r.TotalFiles,
			TotalLines:     r.TotalLines,
			TotalSizeBytes: r.TotalSizeBytes,
			TotalSizeHuman: formatBytes(r.TotalSizeBytes),
			ByCategory:     byCategory,
			ByExtension:    r.TopExtensions(20),
		},
		Dependencies: deps,
		Directory:    r.DirectoryMap(),
		Payload:      r.Payload,
		PayloadChars: r.PayloadChars,
		PayloadMax:   r.PayloadMaxChars,
		Tokens:       tokens.Estimate(r.Payload),
		Context: ContextStats{
			FilesInContext:     r.FilesInContext,
			TotalFilesAnalyzed: r.TotalFilesAnalyzed,
			IncludedFiles:      r.IncludedFileLabels(),
		},
		Errors: r.Errors,
	}
}

func formatBytes(n int64) string {
	v := float64(n)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if v < 1024 {
			return fmt.Sprintf("%.2f %s", v, unit)
		}
		v /= 1024
	}
	return fmt.Sprintf("%.2f TB", v)
}
