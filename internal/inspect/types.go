// # internal/inspect/types.go
package inspect

import (
	"strings"

	"implicit/internal/syntax"
)

// ScopeFrame is one lexically enclosing namespace-opening construct. A
// compound declaration like `module A::B` is a single frame with two
// segments. Root marks declarations anchored at the top level
// (`class ::Foo`), which reset the enclosing chain.
type ScopeFrame struct {
	Node     *syntax.Node
	Segments []string
	Root     bool
}

// ScopeStack holds the open frames at a point in the source, outermost
// first. It is rebuilt per traversal and never persisted.
type ScopeStack []ScopeFrame

// NamespacePaths returns the enclosing namespace paths searched during
// constant lookup, innermost first, always ending with "" for the top
// level. Each frame contributes exactly one path: `module A::B` puts
// "A::B" on the chain, not "A".
func (s ScopeStack) NamespacePaths() []string {
	paths := make([]string, 0, len(s)+1)
	current := ""
	for _, frame := range s {
		if frame.Root {
			current = ""
		}
		joined := strings.Join(frame.Segments, "::")
		if current == "" {
			current = joined
		} else {
			current = current + "::" + joined
		}
		paths = append(paths, current)
	}

	// Reverse to innermost-first and terminate with the top level.
	out := make([]string, 0, len(paths)+1)
	for i := len(paths) - 1; i >= 0; i-- {
		out = append(out, paths[i])
	}
	return append(out, "")
}

// UnresolvedReference is a syntactic constant mention not yet mapped to a
// definition. Segments hold the name as written; Nesting holds the
// namespace paths active at the reference site, innermost first.
type UnresolvedReference struct {
	RootAnchored bool
	Segments     []string
	Nesting      []string
	FilePath     string
	Span         syntax.Span
}

func (r UnresolvedReference) Name() string {
	name := strings.Join(r.Segments, "::")
	if r.RootAnchored {
		return "::" + name
	}
	return name
}
