package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPriorityOfDocs(t *testing.T) {
	for _, name := range []string{"README.md", "readme", "README.rst", "LICENSE", "License.txt", "CONTRIBUTING.md", "CHANGELOG.md", "NOTICE", "CODE_OF_CONDUCT.md"} {
		require.Equal(t, TierDocs, PriorityOf(name), "%s", name)
	}
}

func TestPriorityOfConfig(t *testing.T) {
	for _, name := range []string{"package.json", "pyproject.toml", "go.mod", "Makefile", "docker-compose.yml", ".env.example", ".gitignore", "tsconfig.json", "setup.py"} {
		require.Equal(t, TierConfig, PriorityOf(name), "%s", name)
	}
}

func TestPriorityOfConfigPatterns(t *testing.T) {
	for _, name := range []string{"Dockerfile", "Dockerfile.prod", "dockerfile.dev", "build.mk", "Makefile.am"} {
		require.Equal(t, TierConfig, PriorityOf(name), "%s", name)
	}
}

func TestPriorityOfRest(t *testing.T) {
	for _, name := range []string{"main.py", "index.ts", "app.go", "styles.css", "readme.html", "license.go", "notes.md"} {
		require.Equal(t, TierRest, PriorityOf(name), "%s", name)
	}
}
