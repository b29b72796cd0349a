package analyzer

import (
	"path"
	"strings"
)

// Priority tiers. Lower packs first; tier 2 never enters the payload.
const (
	TierDocs   = 0
	TierConfig = 1
	TierRest   = 2
)

// tier-0: well-known documentation and licensing files, matched exactly.
var docFilenames = map[string]struct{}{
	"readme":             {},
	"readme.md":          {},
	"readme.rst":         {},
	"readme.txt":         {},
	"license":            {},
	"license.md":         {},
	"license.txt":        {},
	"contributing.md":    {},
	"changelog.md":       {},
	"authors.md":         {},
	"notice":             {},
	"code_of_conduct.md": {},
}

// tier-1: build/run configuration files, matched exactly.
var configFilenames = map[string]struct{}{
	"package.json":        {},
	"pyproject.toml":      {},
	"requirements.txt":    {},
	"cargo.toml":          {},
	"go.mod":              {},
	"gemfile":             {},
	"composer.json":       {},
	"pom.xml":             {},
	"build.gradle":        {},
	"build.gradle.kts":    {},
	"makefile":            {},
	"docker-compose.yml":  {},
	"docker-compose.yaml": {},
	".env.example":        {},
	".gitignore":          {},
	".dockerignore":       {},
	"tsconfig.json":       {},
	"setup.py":            {},
	"setup.cfg":           {},
}

// tier-1 glob patterns, catching versioned or suffixed variants such as
// Dockerfile.prod or build.mk.
var configPatterns = []string{
	"dockerfile*",
	"*.mk",
	"makefile.*",
}

// PriorityOf maps a file's basename to its packing tier. The function is
// pure; matching is case-insensitive.
func PriorityOf(basename string) int {
	name := strings.ToLower(basename)
	if _, ok := docFilenames[name]; ok {
		return TierDocs
	}
	if _, ok := configFilenames[name]; ok {
		return TierConfig
	}
	for _, pattern := range configPatterns {
		if ok, err := path.Match(pattern, name); err == nil && ok {
			return TierConfig
		}
	}
	return TierRest
}
