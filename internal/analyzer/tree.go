package analyzer

import (
	"fmt"
	"sort"
	"strings"
)

// Tree incrementally builds the directory structure of the archive. Every
// observed entry is inserted exactly once, whether or not the classifier
// later excludes it.
type Tree struct {
	root *DirectoryNode
}

// NewTree returns an empty tree with a synthetic root.
func NewTree() *Tree {
	return &Tree{root: &DirectoryNode{Name: "root", IsDir: true, Children: map[string]*DirectoryNode{}}}
}

// Root exposes the root node for read-only projections.
func (t *Tree) Root() *DirectoryNode { return t.root }

// Insert records a file path, creating intermediate directory nodes on
// demand. The archive's synthetic top-level wrapper directory is stripped.
// Every directory on the way down accumulates one descendant file.
func (t *Tree) Insert(path string) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	if len(parts) == 0 || parts[0] == "" {
		return
	}

	cur := t.root
	for i, part := range parts {
		isFile := i == len(parts)-1
		child, ok := cur.Children[part]
		if !ok {
			// every node carries a child map so a path that first appeared
			// as a file can still be descended into as a directory prefix
			child = &DirectoryNode{Name: part, IsDir: !isFile, Children: map[string]*DirectoryNode{}}
			cur.Children[part] = child
		}
		if !isFile {
			cur = child
			cur.FileCount++
		}
	}
}

// sortedChildren orders a node's children directories-first, then
// alphabetically.
func sortedChildren(n *DirectoryNode) []*DirectoryNode {
	out := make([]*DirectoryNode, 0, len(n.Children))
	for _, c := range n.Children {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsDir != out[j].IsDir {
			return out[i].IsDir
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// RenderMap produces the serializable nested-map projection of the tree.
// Directories appear as "name/" keys, files map to nil, and the fan-out and
// depth caps are replaced with "..." placeholder entries.
func (t *Tree) RenderMap() map[string]any {
	return nodeToMap(t.root, 0)
}

func nodeToMap(n *DirectoryNode, depth int) map[string]any {
	if depth >= MaxTreeDepth {
		if len(n.Children) > 0 {
			return map[string]any{"...": fmt.Sprintf("%d items", len(n.Children))}
		}
		return map[string]any{}
	}

	out := make(map[string]any, len(n.Children))
	children := sortedChildren(n)
	limit := len(children)
	if limit > MaxTreeChildren {
		limit = MaxTreeChildren
	}
	for _, child := range children[:limit] {
		if child.IsDir {
			out[child.Name+"/"] = nodeToMap(child, depth+1)
		} else {
			out[child.Name] = nil
		}
	}
	if len(children) > MaxTreeChildren {
		out["..."] = fmt.Sprintf("+%d more files", len(children)-MaxTreeChildren)
	}
	return out
}

// RenderText produces the indented textual projection used inside the
// payload, honoring the same fan-out and depth caps and never exceeding
// MaxTreeChars.
func (t *Tree) RenderText() string {
	var b strings.Builder
	writeTreeLevel(&b, t.root, "", 0)
	s := strings.TrimRight(b.String(), "\n")
	if len(s) > MaxTreeChars {
		const marker = "\n... (tree truncated)"
		s = s[:MaxTreeChars-len(marker)] + marker
	}
	return s
}

func writeTreeLevel(b *strings.Builder, n *DirectoryNode, prefix string, depth int) {
	if depth >= MaxTreeDepth {
		if len(n.Children) > 0 {
			fmt.Fprintf(b, "%s└── ... (%d items)\n", prefix, len(n.Children))
		}
		return
	}

	children := sortedChildren(n)
	limit := len(children)
	if limit > MaxTreeChildren {
		limit = MaxTreeChildren
	}
	for i, child := range children[:limit] {
		last := i == limit-1 && len(children) <= MaxTreeChildren
		connector := "├── "
		childPrefix := prefix + "│   "
		if last {
			connector = "└── "
			childPrefix = prefix + "    "
		}
		name := child.Name
		if child.IsDir {
			name += "/"
		}
		b.WriteString(prefix + connector + name + "\n")
		if child.IsDir {
			writeTreeLevel(b, child, childPrefix, depth+1)
		}
	}
	if len(children) > MaxTreeChildren {
		fmt.Fprintf(b, "%s└── ... (+%d more files)\n", prefix, len(children)-MaxTreeChildren)
	}
}
