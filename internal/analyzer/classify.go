package analyzer

import (
	"strings"
	"unicode/utf8"
)

// categoryExtensions maps each category to the extensions it claims.
var categoryExtensions = map[Category][]string{
	CategoryCode: {
		".py", ".js", ".ts", ".jsx", ".tsx", ".java", ".c", ".cpp", ".h",
		".hpp", ".cs", ".go", ".rs", ".rb", ".php", ".swift", ".kt",
		".scala", ".r", ".m", ".lua", ".pl", ".sh", ".bash", ".zsh",
		".ps1", ".sql", ".html", ".css", ".scss", ".sass", ".less",
		".vue", ".svelte",
	},
	CategoryConfig: {
		".json", ".yaml", ".yml", ".toml", ".ini", ".cfg", ".conf",
		".env", ".properties", ".xml", ".plist",
	},
	CategoryDocs: {
		".md", ".txt", ".rst", ".adoc", ".tex", ".rtf", ".doc", ".docx",
	},
	CategoryAssets: {
		".png", ".jpg", ".jpeg", ".gif", ".ico", ".svg", ".webp", ".bmp",
		".mp3", ".mp4", ".wav", ".ogg", ".webm", ".avi", ".mov",
		".ttf", ".otf", ".woff", ".woff2", ".eot",
	},
	CategoryData: {
		".csv", ".tsv", ".xls", ".xlsx", ".parquet", ".arrow", ".db", ".sqlite",
	},
	CategoryBuild: {
		".lock", ".sum", ".mod",
	},
	CategoryBinary: {
		".exe", ".dll", ".so", ".dylib", ".bin", ".pyc", ".pyo",
		".class", ".jar", ".war", ".ear", ".zip", ".tar", ".gz",
		".rar", ".7z",
	},
}

var extensionCategory = func() map[string]Category {
	m := make(map[string]Category, 128)
	for cat, exts := range categoryExtensions {
		for _, ext := range exts {
			m[ext] = cat
		}
	}
	return m
}()

// DefaultIgnoredDirs are directory names excluded from processing wherever
// they appear in a path.
var DefaultIgnoredDirs = []string{
	".git", ".github", ".vscode", ".idea", "__pycache__", "node_modules",
	"venv", "env", "dist", "build", "coverage", ".next", "target",
	".mypy_cache", ".pytest_cache", ".tox", "vendor", "bower_components",
	".cache", ".parcel-cache",
}

// DefaultIgnoredExtensions are extensions excluded from processing.
var DefaultIgnoredExtensions = []string{
	".png", ".jpg", ".jpeg", ".gif", ".ico", ".svg", ".pdf", ".zip",
	".tar", ".gz", ".exe", ".dll", ".so", ".pyc", ".lock", ".bin",
	".woff", ".woff2", ".ttf", ".eot", ".mp3", ".mp4", ".wav", ".avi",
	".mov", ".webm", ".webp",
}

// allowedHidden are dotfiles that stay in scope despite the hidden-file rule.
var allowedHidden = map[string]struct{}{
	".env.example":  {},
	".gitignore":    {},
	".dockerignore": {},
}

// CategoryForExtension maps a lowercased extension to its category,
// defaulting to "other".
func CategoryForExtension(ext string) Category {
	if cat, ok := extensionCategory[strings.ToLower(ext)]; ok {
		return cat
	}
	return CategoryOther
}

func (a *Analyzer) inIgnoredDir(path string) bool {
	for _, part := range strings.Split(path, "/") {
		if _, ok := a.ignoredDirs[part]; ok {
			return true
		}
	}
	return false
}

func (a *Analyzer) ignoredExtension(ext string) bool {
	_, ok := a.ignoredExts[strings.ToLower(ext)]
	return ok
}

// analyzeFile classifies one archive entry and updates the running stats.
// It reports whether the file should flow on to packing and, if so, the
// decoded text content. Rejected entries still feed the directory tree and
// the global extension counter.
func (a *Analyzer) analyzeFile(path string, content []byte, sizeBytes int64) (bool, string) {
	ext := extOf(path)
	basename := baseOf(path)

	if ext != "" {
		a.filesByExt[ext]++
	}

	category := CategoryForExtension(ext)
	a.tree.Insert(path)

	ignored := a.inIgnoredDir(path) || a.ignoredExtension(ext)
	if strings.HasPrefix(basename, ".") {
		if _, ok := allowedHidden[basename]; !ok {
			ignored = true
		}
	}
	if ignored {
		a.ignored[category]++
		return false, ""
	}

	var decoded string
	var lines int
	if len(content) > 0 {
		if !utf8.Valid(content) {
			// Binary payload hiding behind a text extension.
			a.ignored[category]++
			return false, ""
		}
		decoded = string(content)
		lines = strings.Count(decoded, "\n") + 1
	}

	a.totalFiles++
	a.totalLines += lines
	a.totalSize += sizeBytes

	stats := a.categories[category]
	stats.Count++
	stats.TotalLines += lines
	stats.TotalSizeBytes += sizeBytes
	stats.Extensions[ext]++

	if decoded != "" {
		if rec := ParseManifest(basename, decoded); rec != nil {
			a.deps = append(a.deps, *rec)
		}
	}
	return true, decoded
}

// extOf returns the lowercased extension of the final path segment,
// or "" when there is none.
func extOf(path string) string {
	base := baseOf(path)
	idx := strings.LastIndexByte(base, '.')
	if idx <= 0 {
		// No dot, or a leading dot only (hidden file without extension).
		return ""
	}
	return strings.ToLower(base[idx:])
}

func baseOf(path string) string {
	path = strings.TrimSuffix(path, "/")
	if idx := strings.LastIndexByte(path, '/'); idx >= 0 {
		return path[idx+1:]
	}
	return path
}
