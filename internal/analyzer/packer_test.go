package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func packFor(t *testing.T, candidates []candidate) (string, []IncludedFile) {
	t.Helper()
	tr := NewTree()
	for _, c := range candidates {
		tr.Insert(c.path)
	}
	return packContext(tr, candidates)
}

func TestPackDocsOnlyTierTwoExcluded(t *testing.T) {
	payload, included := packFor(t, []candidate{
		{path: "w/README.md", content: strings.Repeat("r", 500), tier: TierDocs},
		{path: "w/main.py", content: strings.Repeat("m", 2000), tier: TierRest},
	})

	require.Len(t, included, 1)
	require.Equal(t, "w/README.md", included[0].Path)
	require.False(t, included[0].Truncated)
	require.Contains(t, payload, "<file path='w/README.md'>")
	require.NotContains(t, payload, "main.py'>")
}

func TestPackTreeHeaderAlwaysPresent(t *testing.T) {
	payload, included := packFor(t, nil)
	require.Empty(t, included)
	require.True(t, strings.HasPrefix(payload, "<directory_tree>\n"))
	require.Contains(t, payload, "\n</directory_tree>\n")
}

func TestPackPerFileTruncation(t *testing.T) {
	payload, included := packFor(t, []candidate{
		{path: "w/README.md", content: strings.Repeat("x", 10000), tier: TierDocs},
	})

	require.Len(t, included, 1)
	require.True(t, included[0].Truncated)
	require.Equal(t, MaxFileChars, included[0].Chars)
	require.Equal(t, "w/README.md (truncated)", included[0].Label())
	require.Contains(t, payload, truncMarker)
	require.NotContains(t, payload, strings.Repeat("x", MaxFileChars+1))
}

func TestPackPayloadBudget(t *testing.T) {
	var candidates []candidate
	for i := 0; i < 20; i++ {
		candidates = append(candidates, candidate{
			path:    "w/doc" + string(rune('a'+i)) + ".md",
			content: strings.Repeat("d", MaxFileChars),
			tier:    TierDocs,
		})
	}
	payload, included := packFor(t, candidates)
	require.LessOrEqual(t, len(payload), MaxContextChars)
	require.NotEmpty(t, included)
	require.Less(t, len(included), 20, "budget must cut off before all candidates fit")
}

func TestPackExactFill(t *testing.T) {
	// Force the no-fit branch with plenty of remaining room: the last
	// included slice fills the budget exactly.
	var candidates []candidate
	for i := 0; i < 6; i++ {
		candidates = append(candidates, candidate{
			path:    "w/doc" + string(rune('a'+i)) + ".md",
			content: strings.Repeat("d", MaxFileChars),
			tier:    TierDocs,
		})
	}
	payload, included := packFor(t, candidates)
	last := included[len(included)-1]
	require.True(t, last.Truncated)
	require.Equal(t, MaxContextChars, len(payload))
}

func TestPackPriorityOrder(t *testing.T) {
	payload, included := packFor(t, []candidate{
		{path: "w/go.mod", content: "module demo", tier: TierConfig},
		{path: "w/README.md", content: "hello", tier: TierDocs},
		{path: "w/Makefile", content: "all:", tier: TierConfig},
	})

	require.Equal(t, []string{"w/README.md", "w/go.mod", "w/Makefile"},
		[]string{included[0].Path, included[1].Path, included[2].Path})
	require.Less(t,
		strings.Index(payload, "README.md"),
		strings.Index(payload, "go.mod'>"))
}

func TestPackStableWithinTier(t *testing.T) {
	// Files of equal tier keep their archive order.
	_, included := packFor(t, []candidate{
		{path: "w/zz.mk", content: "z", tier: TierConfig},
		{path: "w/aa.mk", content: "a", tier: TierConfig},
	})
	require.Equal(t, "w/zz.mk", included[0].Path)
	require.Equal(t, "w/aa.mk", included[1].Path)
}
