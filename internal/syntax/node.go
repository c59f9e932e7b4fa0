// # internal/syntax/node.go
package syntax

// Node is the uniform tree shape the walker and inspectors operate on.
// Concrete parsers build it once per parse; nothing mutates it afterwards.
type Node struct {
	Kind     string
	Field    string // field name within the parent, "" if positional
	Text     string
	Span     Span
	Children []*Node
	Parent   *Node
}

// Span is a half-open source range. Lines and columns are 1-based.
type Span struct {
	StartByte uint
	EndByte   uint
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// Child returns the first child with the given field name, or nil.
func (n *Node) Child(field string) *Node {
	for _, c := range n.Children {
		if c.Field == field {
			return c
		}
	}
	return nil
}

// ChildOfKind returns the first child with the given kind, or nil.
func (n *Node) ChildOfKind(kind string) *Node {
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}
