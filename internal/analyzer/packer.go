package analyzer

import (
	"fmt"
	"sort"
	"strings"
)

// candidate is one analyzed text file waiting for packing.
type candidate struct {
	path    string
	content string
	tier    int
}

const (
	fileBlockClose = "\n</file>\n"
	truncMarker    = "\n... [truncated]"
)

// packContext renders the bounded payload: the directory-tree summary
// followed by tier-0 and tier-1 files in priority order. Individual files
// are clipped to MaxFileChars and the whole payload never exceeds
// MaxContextChars. When a file no longer fits whole but at least
// MinTruncationRemainder characters of budget are left, a slice sized to
// exactly fill the budget is emitted before packing stops.
func packContext(tree *Tree, candidates []candidate) (string, []IncludedFile) {
	var b strings.Builder
	b.WriteString("<directory_tree>\n")
	b.WriteString(tree.RenderText())
	b.WriteString("\n</directory_tree>\n")
	used := b.Len()

	ordered := make([]candidate, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].tier < ordered[j].tier })

	var included []IncludedFile
	for _, c := range ordered {
		if c.tier >= TierRest {
			break
		}

		content := c.content
		truncated := false
		if len(content) > MaxFileChars {
			content = content[:MaxFileChars]
			truncated = true
		}

		open := fmt.Sprintf("\n<file path='%s'>\n", c.path)
		marker := ""
		if truncated {
			marker = truncMarker
		}
		blockLen := len(open) + len(content) + len(marker) + len(fileBlockClose)

		if used+blockLen <= MaxContextChars {
			b.WriteString(open)
			b.WriteString(content)
			b.WriteString(marker)
			b.WriteString(fileBlockClose)
			used += blockLen
			included = append(included, IncludedFile{Path: c.path, Chars: len(content), Truncated: truncated})
			continue
		}

		// The candidate does not fit whole. Fill the remainder exactly if
		// enough budget is left for a useful slice, then stop either way.
		overhead := len(open) + len(truncMarker) + len(fileBlockClose)
		room := MaxContextChars - used - overhead
		if room >= MinTruncationRemainder {
			if room < len(content) {
				content = content[:room]
			}
			b.WriteString(open)
			b.WriteString(content)
			b.WriteString(truncMarker)
			b.WriteString(fileBlockClose)
			included = append(included, IncludedFile{Path: c.path, Chars: len(content), Truncated: true})
		}
		break
	}

	return b.String(), included
}
