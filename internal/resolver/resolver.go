// # internal/resolver/resolver.go
package resolver

import (
	"strings"

	"implicit/internal/index"
	"implicit/internal/inspect"
	"implicit/internal/syntax"
)

// ConstantContext is the resolved identity of a constant. Equality is by
// fully-qualified path.
type ConstantContext struct {
	Path string // "Billing::Order"
	File string // defining file relative to the project root
}

// Reference is a resolved constant reference: this location references
// the constant defined in that file.
type Reference struct {
	FilePath string
	Span     syntax.Span
	Constant ConstantContext
}

// Resolver simulates Ruby's constant-lookup order against the directory
// index: lexical chain innermost-first, then top level. Ancestry-chain
// lookup (superclass/included modules) needs whole-program type
// information this tool does not build and is deliberately not simulated.
type Resolver struct {
	index *index.Index
}

func New(ix *index.Index) *Resolver {
	return &Resolver{index: ix}
}

// Resolve binds an unresolved reference to the first namespace path the
// lookup algorithm reaches, restricted to paths the index knows. Only the
// first written segment is scope-sensitive; the remaining segments
// navigate strictly inside the already-resolved namespace. References
// that terminate in a file-less namespace node, or outside the project,
// report ok=false and are dropped by the caller.
func (r *Resolver) Resolve(ref inspect.UnresolvedReference) (Reference, bool) {
	if len(ref.Segments) == 0 {
		return Reference{}, false
	}

	var base string
	if ref.RootAnchored {
		base = ""
	} else {
		found := false
		for _, enclosing := range ref.Nesting {
			if r.index.Known(qualify(enclosing, ref.Segments[0])) {
				base = enclosing
				found = true
				break
			}
		}
		if !found {
			return Reference{}, false
		}
	}

	full := qualify(base, strings.Join(ref.Segments, "::"))
	file, ok := r.index.DefiningFile(full)
	if !ok {
		return Reference{}, false
	}

	return Reference{
		FilePath: ref.FilePath,
		Span:     ref.Span,
		Constant: ConstantContext{Path: full, File: file},
	}, true
}

func qualify(base, name string) string {
	if base == "" {
		return name
	}
	return base + "::" + name
}
