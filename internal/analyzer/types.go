package analyzer

// Category buckets a file by what its extension says it is.
type Category string

const (
	CategoryCode   Category = "code"
	CategoryConfig Category = "config"
	CategoryDocs   Category = "docs"
	CategoryAssets Category = "assets"
	CategoryData   Category = "data"
	CategoryBuild  Category = "build"
	CategoryBinary Category = "binary"
	CategoryOther  Category = "other"
)

// AllCategories lists every category in a stable order.
var AllCategories = []Category{
	CategoryCode, CategoryConfig, CategoryDocs, CategoryAssets,
	CategoryData, CategoryBuild, CategoryBinary, CategoryOther,
}

// CategoryStats is the running aggregate for one category within a run.
type CategoryStats struct {
	Count          int            `json:"processed"`
	TotalLines     int            `json:"total_lines"`
	TotalSizeBytes int64          `json:"size_bytes"`
	Extensions     map[string]int `json:"extensions"`
}

// DependencyRecord holds the declared dependencies pulled out of one
// recognized manifest file. Immutable once emitted.
type DependencyRecord struct {
	Manager         string   `json:"manager"`
	File            string   `json:"file"`
	Dependencies    []string `json:"dependencies"`
	DevDependencies []string `json:"dev_dependencies"`
}

// Total returns the combined number of extracted entries.
func (d DependencyRecord) Total() int {
	return len(d.Dependencies) + len(d.DevDependencies)
}

// DirectoryNode is one node of the synthesized directory tree. Children are
// keyed by name; the tree is purely additive within a run.
type DirectoryNode struct {
	Name      string
	IsDir     bool
	Children  map[string]*DirectoryNode
	FileCount int
}

// IncludedFile records one file embedded into the packed payload.
type IncludedFile struct {
	Path      string `json:"path"`
	Chars     int    `json:"chars"`
	Truncated bool   `json:"truncated"`
}

// Label renders the path with the truncation annotation used in results.
func (f IncludedFile) Label() string {
	if f.Truncated {
		return f.Path + " (truncated)"
	}
	return f.Path
}

// Result is the immutable snapshot returned once per pipeline run.
type Result struct {
	TotalFiles     int
	TotalLines     int
	TotalSizeBytes int64

	Categories   map[Category]*CategoryStats
	IgnoredFiles map[Category]int
	Dependencies []DependencyRecord

	Root             *DirectoryNode
	FilesByExtension map[string]int

	Payload            string
	PayloadChars       int
	PayloadMaxChars    int
	FilesInContext     int
	TotalFilesAnalyzed int
	IncludedFiles      []IncludedFile

	// Per-entry read failures, non-fatal.
	Errors []string
}

// TopExtensions returns up to n extensions ranked by occurrence count,
// ties broken alphabetically so the ranking is deterministic.
func (r *Result) TopExtensions(n int) []ExtensionCount {
	return topExtensions(r.FilesByExtension, n)
}

// ExtensionCount is one row of the ranked extension table.
type ExtensionCount struct {
	Extension string `json:"extension"`
	Count     int    `json:"count"`
}
