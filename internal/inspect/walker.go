// # internal/inspect/walker.go
package inspect

import (
	"implicit/internal/syntax"
)

// Inspector examines one node plus the scope stack active at that node
// and reports a constant reference if the node denotes one. Inspectors
// must not mutate the tree or perform I/O.
type Inspector interface {
	Inspect(node *syntax.Node, scopes ScopeStack, filePath string) *UnresolvedReference
}

// NamespaceOpener decides whether a node opens a namespace and which
// segments it introduces. The walker stays generic over the grammar by
// delegating this to the inspector layer.
type NamespaceOpener interface {
	Open(node *syntax.Node) (ScopeFrame, bool)
}

// Walker performs a pre-order depth-first traversal, maintaining the
// scope stack and running every registered inspector at each node.
type Walker struct {
	opener     NamespaceOpener
	inspectors []Inspector
}

func NewWalker(opener NamespaceOpener, inspectors ...Inspector) *Walker {
	return &Walker{opener: opener, inspectors: inspectors}
}

func (w *Walker) Collect(root *syntax.Node, filePath string) []UnresolvedReference {
	if root == nil {
		return nil
	}
	var refs []UnresolvedReference
	w.walk(root, ScopeStack{}, filePath, &refs)
	return refs
}

func (w *Walker) walk(node *syntax.Node, scopes ScopeStack, filePath string, refs *[]UnresolvedReference) {
	for _, ins := range w.inspectors {
		if ref := ins.Inspect(node, scopes, filePath); ref != nil {
			*refs = append(*refs, *ref)
		}
	}

	frame, opens := w.opener.Open(node)
	inner := scopes
	if opens {
		inner = append(append(ScopeStack{}, scopes...), frame)
	}

	for _, child := range node.Children {
		// The declaration's own name and its superclass expression are
		// evaluated in the enclosing scope, not the one being opened.
		if opens && (child.Field == "name" || child.Kind == "superclass") {
			w.walk(child, scopes, filePath, refs)
			continue
		}
		w.walk(child, inner, filePath, refs)
	}
}
