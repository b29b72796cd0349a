package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCategoryForExtension(t *testing.T) {
	cases := map[string]Category{
		".py":      CategoryCode,
		".GO":      CategoryCode,
		".yaml":    CategoryConfig,
		".md":      CategoryDocs,
		".png":     CategoryAssets,
		".csv":     CategoryData,
		".lock":    CategoryBuild,
		".exe":     CategoryBinary,
		".xyzzy":   CategoryOther,
		"":         CategoryOther,
		".sqlite":  CategoryData,
		".svelte":  CategoryCode,
		".gradle":  CategoryOther,
		".woff2":   CategoryAssets,
		".parquet": CategoryData,
	}
	for ext, want := range cases {
		require.Equal(t, want, CategoryForExtension(ext), "extension %q", ext)
	}
}

func TestAnalyzeFileRejectsIgnoredDir(t *testing.T) {
	a := New(nil, nil)
	ok, _ := a.analyzeFile("repo/node_modules/lib/index.js", []byte("x"), 1)
	require.False(t, ok)
	require.Equal(t, 1, a.ignored[CategoryCode])
	require.Equal(t, 0, a.categories[CategoryCode].Count)
	// rejected entries still feed the global extension counter
	require.Equal(t, 1, a.filesByExt[".js"])
}

func TestAnalyzeFileRejectsIgnoredExtension(t *testing.T) {
	a := New(nil, nil)
	ok, _ := a.analyzeFile("repo/logo.png", []byte{0x89, 0x50}, 2)
	require.False(t, ok)
	require.Equal(t, 1, a.ignored[CategoryAssets])
}

func TestAnalyzeFileHiddenAllowlist(t *testing.T) {
	a := New(nil, nil)

	ok, _ := a.analyzeFile("repo/.secret", []byte("k=v"), 3)
	require.False(t, ok, "hidden file off the allowlist must be rejected")

	for _, name := range []string{".env.example", ".gitignore", ".dockerignore"} {
		ok, decoded := a.analyzeFile("repo/"+name, []byte("content"), 7)
		require.True(t, ok, "allowlisted hidden file %s", name)
		require.Equal(t, "content", decoded)
	}
}

func TestAnalyzeFileInvalidUTF8(t *testing.T) {
	// A binary blob behind a .py extension classifies as code but lands
	// in the ignored count, not the processed count.
	a := New(nil, nil)
	ok, decoded := a.analyzeFile("repo/blob.py", []byte{0xff, 0xfe, 0x00, 0x01}, 4)
	require.False(t, ok)
	require.Empty(t, decoded)
	require.Equal(t, 1, a.ignored[CategoryCode])
	require.Equal(t, 0, a.categories[CategoryCode].Count)
	require.Equal(t, 0, a.totalFiles)
}

func TestAnalyzeFileCountsStats(t *testing.T) {
	a := New(nil, nil)
	ok, decoded := a.analyzeFile("repo/src/main.py", []byte("a\nb\nc"), 5)
	require.True(t, ok)
	require.Equal(t, "a\nb\nc", decoded)
	require.Equal(t, 1, a.totalFiles)
	require.Equal(t, 3, a.totalLines)
	require.Equal(t, int64(5), a.totalSize)

	stats := a.categories[CategoryCode]
	require.Equal(t, 1, stats.Count)
	require.Equal(t, 3, stats.TotalLines)
	require.Equal(t, int64(5), stats.TotalSizeBytes)
	require.Equal(t, 1, stats.Extensions[".py"])
}

func TestAnalyzeFileEmptyContent(t *testing.T) {
	a := New(nil, nil)
	ok, decoded := a.analyzeFile("repo/empty.txt", nil, 0)
	require.True(t, ok)
	require.Empty(t, decoded)
	require.Equal(t, 1, a.totalFiles)
	require.Equal(t, 0, a.totalLines)
}

func TestExtOf(t *testing.T) {
	require.Equal(t, ".py", extOf("repo/src/main.py"))
	require.Equal(t, ".gz", extOf("archive.tar.gz"))
	require.Equal(t, "", extOf("Makefile"))
	require.Equal(t, "", extOf("repo/.gitignore"))
	require.Equal(t, ".example", extOf(".env.example"))
	require.Equal(t, ".md", extOf("README.MD"))
}

func TestCustomIgnoreConfig(t *testing.T) {
	a := New([]string{"generated"}, []string{".tmp"})
	ok, _ := a.analyzeFile("repo/generated/x.py", []byte("x"), 1)
	require.False(t, ok)
	ok, _ = a.analyzeFile("repo/a.tmp", []byte("x"), 1)
	require.False(t, ok)
	// defaults are replaced, not merged
	ok, _ = a.analyzeFile("repo/node_modules/y.js", []byte("y"), 1)
	require.True(t, ok)
}
