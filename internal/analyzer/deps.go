package analyzer

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// manifestManagers maps well-known dependency file basenames to their
// package-manager tag. Lookup is exact.
var manifestManagers = map[string]string{
	"package.json":      "npm",
	"package-lock.json": "npm",
	"yarn.lock":         "yarn",
	"pnpm-lock.yaml":    "pnpm",
	"requirements.txt":  "pip",
	"Pipfile":           "pipenv",
	"Pipfile.lock":      "pipenv",
	"pyproject.toml":    "poetry/pip",
	"poetry.lock":       "poetry",
	"Cargo.toml":        "cargo",
	"Cargo.lock":        "cargo",
	"go.mod":            "go",
	"go.sum":            "go",
	"Gemfile":           "bundler",
	"Gemfile.lock":      "bundler",
	"composer.json":     "composer",
	"composer.lock":     "composer",
	"pom.xml":           "maven",
	"build.gradle":      "gradle",
	"build.gradle.kts":  "gradle",
}

var (
	rePipSpecifier = regexp.MustCompile(`[<>=!~\[\]]`)
	reGoModule     = regexp.MustCompile(`^([\w./\-]+)\s+v`)
	reGemfileGem   = regexp.MustCompile(`gem\s+['"]([^'"]+)['"]`)
)

// ParseManifest extracts declared dependencies from a recognized manifest.
// Parsing is deliberately shallow and best-effort: a malformed manifest
// yields nil rather than an error, and a record is only emitted when at
// least one dependency was found. Lists are capped at MaxDepsPerManifest.
func ParseManifest(basename, content string) *DependencyRecord {
	manager, ok := manifestManagers[basename]
	if !ok {
		return nil
	}

	var deps, devDeps []string
	switch basename {
	case "package.json":
		deps, devDeps = parseJSONManifest(content, "dependencies", "devDependencies")
	case "composer.json":
		deps, devDeps = parseJSONManifest(content, "require", "require-dev")
	case "requirements.txt":
		deps = parseRequirements(content)
	case "pyproject.toml":
		deps, devDeps = parsePyproject(content)
	case "Cargo.toml":
		deps, devDeps = parseTOMLSections(content, map[string]bool{
			"[dependencies]": false, "[dev-dependencies]": true,
		})
	case "go.mod":
		deps = parseGoMod(content)
	case "Gemfile":
		deps = parseGemfile(content)
	case "pnpm-lock.yaml":
		deps, devDeps = parsePnpmLock(content)
	default:
		// Lockfiles and JVM build files are recognized by name only.
		return nil
	}

	deps = capList(deps)
	devDeps = capList(devDeps)
	if len(deps) == 0 && len(devDeps) == 0 {
		return nil
	}
	return &DependencyRecord{
		Manager:         manager,
		File:            basename,
		Dependencies:    deps,
		DevDependencies: devDeps,
	}
}

func capList(list []string) []string {
	if len(list) > MaxDepsPerManifest {
		return list[:MaxDepsPerManifest]
	}
	return list
}

// parseJSONManifest reads two map-valued keys from a JSON document and
// returns their sorted key sets.
func parseJSONManifest(content, prodKey, devKey string) (deps, devDeps []string) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return nil, nil
	}
	return sortedJSONKeys(doc[prodKey]), sortedJSONKeys(doc[devKey])
}

func sortedJSONKeys(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// parseRequirements scans a pip requirements file line by line, skipping
// comments and option/continuation lines and stripping version specifiers
// and extras.
func parseRequirements(content string) []string {
	var deps []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		name := strings.TrimSpace(rePipSpecifier.Split(line, 2)[0])
		if name != "" {
			deps = append(deps, name)
		}
	}
	return deps
}

// parsePyproject tracks the current TOML section header and collects
// assignment names while inside a dependency-bearing section.
func parsePyproject(content string) (deps, devDeps []string) {
	prodSections := map[string]bool{
		"[project.dependencies]":     true,
		"[tool.poetry.dependencies]": true,
	}
	devSections := map[string]bool{
		"[project.optional-dependencies]":      true,
		"[tool.poetry.dev-dependencies]":       true,
		"[tool.poetry.group.dev.dependencies]": true,
	}

	inProd, inDev := false, false
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case prodSections[trimmed]:
			inProd, inDev = true, false
		case devSections[trimmed]:
			inProd, inDev = false, true
		case strings.HasPrefix(trimmed, "["):
			inProd, inDev = false, false
		case strings.Contains(trimmed, "=") && (inProd || inDev):
			name := strings.TrimSpace(strings.SplitN(trimmed, "=", 2)[0])
			name = strings.Trim(name, `"'`)
			if name == "" || strings.HasPrefix(name, "#") {
				continue
			}
			if inProd {
				deps = append(deps, name)
			} else {
				devDeps = append(devDeps, name)
			}
		}
	}
	return deps, devDeps
}

// parseTOMLSections collects assignment names from the given sections;
// the map value marks a section as contributing to the dev list.
func parseTOMLSections(content string, sections map[string]bool) (deps, devDeps []string) {
	inSection, dev := false, false
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") {
			d, ok := sections[trimmed]
			inSection, dev = ok, d
			continue
		}
		if !inSection || !strings.Contains(trimmed, "=") {
			continue
		}
		name := strings.Trim(strings.TrimSpace(strings.SplitN(trimmed, "=", 2)[0]), `"'`)
		if name == "" || strings.HasPrefix(name, "#") {
			continue
		}
		if dev {
			devDeps = append(devDeps, name)
		} else {
			deps = append(deps, name)
		}
	}
	return deps, devDeps
}

// parseGoMod pulls module paths from require lines. Indirect requirements
// count as production dependencies; this is a heuristic, not a module
// graph.
func parseGoMod(content string) []string {
	var deps []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "require ")
		if m := reGoModule.FindStringSubmatch(line); m != nil {
			deps = append(deps, m[1])
		}
	}
	return deps
}

func parseGemfile(content string) []string {
	var deps []string
	for _, m := range reGemfileGem.FindAllStringSubmatch(content, -1) {
		deps = append(deps, m[1])
	}
	return deps
}

// parsePnpmLock reads the top-level dependency maps of a pnpm lockfile.
func parsePnpmLock(content string) (deps, devDeps []string) {
	var doc struct {
		Dependencies    map[string]any `yaml:"dependencies"`
		DevDependencies map[string]any `yaml:"devDependencies"`
	}
	if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
		return nil, nil
	}
	return sortedMapKeys(doc.Dependencies), sortedMapKeys(doc.DevDependencies)
}

func sortedMapKeys(m map[string]any) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
