// # internal/parser/ruby.go
package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"implicit/internal/syntax"
)

type RubyParser struct {
	language *sitter.Language
}

func NewRubyParser(loader *GrammarLoader) *RubyParser {
	return &RubyParser{language: loader.Language("ruby")}
}

func (p *RubyParser) Parse(source []byte) (*syntax.Node, error) {
	tsParser := sitter.NewParser()
	defer tsParser.Close()
	tsParser.SetLanguage(p.language)

	tree := tsParser.Parse(source, nil)
	if tree == nil {
		return nil, nil
	}
	defer tree.Close()

	return convertTree(tree.RootNode(), source, offset{}), nil
}

// offset shifts converted spans; used when a subtree was parsed out of a
// larger document (ERB code regions).
type offset struct {
	rows  int
	cols  int
	bytes uint
}

func convertTree(root *sitter.Node, source []byte, off offset) *syntax.Node {
	return convertNode(root, source, "", nil, off)
}

func convertNode(n *sitter.Node, source []byte, field string, parent *syntax.Node, off offset) *syntax.Node {
	startPos := n.StartPosition()
	endPos := n.EndPosition()

	startCol := int(startPos.Column) + 1
	endCol := int(endPos.Column) + 1
	if int(startPos.Row) == 0 {
		startCol += off.cols
	}
	if int(endPos.Row) == 0 {
		endCol += off.cols
	}

	node := &syntax.Node{
		Kind:   n.Kind(),
		Field:  field,
		Text:   string(source[n.StartByte():n.EndByte()]),
		Parent: parent,
		Span: syntax.Span{
			StartByte: n.StartByte() + off.bytes,
			EndByte:   n.EndByte() + off.bytes,
			StartLine: int(startPos.Row) + 1 + off.rows,
			StartCol:  startCol,
			EndLine:   int(endPos.Row) + 1 + off.rows,
			EndCol:    endCol,
		},
	}

	count := n.ChildCount()
	if count > 0 {
		node.Children = make([]*syntax.Node, 0, count)
	}
	for i := uint(0); i < count; i++ {
		child := n.Child(i)
		childField := n.FieldNameForChild(uint32(i))
		node.Children = append(node.Children, convertNode(child, source, childField, node, off))
	}

	return node
}
