// # internal/inspect/constant.go
package inspect

import (
	"implicit/internal/syntax"
)

// RubyNamespaces reports which Ruby nodes open a namespace. `class << self`
// has no name child and opens none; a dynamic declaration name bails out.
type RubyNamespaces struct{}

func (RubyNamespaces) Open(node *syntax.Node) (ScopeFrame, bool) {
	if node.Kind != "class" && node.Kind != "module" {
		return ScopeFrame{}, false
	}
	name := node.Child("name")
	if name == nil {
		return ScopeFrame{}, false
	}
	segments, root, ok := constantPath(name)
	if !ok {
		return ScopeFrame{}, false
	}
	return ScopeFrame{Node: node, Segments: segments, Root: root}, true
}

// ConstantInspector recognizes bare (`Foo`), qualified (`Foo::Bar`) and
// root-anchored (`::Foo`) constant reads, including constants used as
// receivers of further navigation. Definition sites are not references:
// the name of a class/module declaration and the target of a constant
// assignment are skipped.
type ConstantInspector struct{}

func (ConstantInspector) Inspect(node *syntax.Node, scopes ScopeStack, filePath string) *UnresolvedReference {
	switch node.Kind {
	case "constant", "scope_resolution":
	default:
		return nil
	}

	if p := node.Parent; p != nil {
		// Part of a larger qualified read; only the topmost node reports.
		if p.Kind == "scope_resolution" {
			return nil
		}
		if node.Field == "name" && (p.Kind == "class" || p.Kind == "module") {
			return nil
		}
		if node.Field == "left" && (p.Kind == "assignment" || p.Kind == "operator_assignment") {
			return nil
		}
	}

	segments, root, ok := constantPath(node)
	if !ok {
		return nil
	}

	return &UnresolvedReference{
		RootAnchored: root,
		Segments:     segments,
		Nesting:      scopes.NamespacePaths(),
		FilePath:     filePath,
		Span:         node.Span,
	}
}

// constantPath flattens a constant or scope_resolution subtree into its
// ordered segments. Returns ok=false for dynamic scopes (`foo::Bar`,
// `self.class::Baz`), which are out of contract.
func constantPath(n *syntax.Node) (segments []string, root bool, ok bool) {
	switch n.Kind {
	case "constant":
		return []string{n.Text}, false, true
	case "scope_resolution":
		name := n.Child("name")
		if name == nil || name.Kind != "constant" {
			return nil, false, false
		}
		scope := n.Child("scope")
		if scope == nil {
			return []string{name.Text}, true, true
		}
		segments, root, ok = constantPath(scope)
		if !ok {
			return nil, false, false
		}
		return append(segments, name.Text), root, true
	}
	return nil, false, false
}
