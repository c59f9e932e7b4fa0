// # internal/parser/erb.go
package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"implicit/internal/syntax"
)

// ERBParser extracts the embedded Ruby code regions from a template and
// parses each with the Ruby grammar. Spans are shifted back to template
// coordinates so reported locations match the .erb file.
type ERBParser struct {
	language *sitter.Language
	ruby     *RubyParser
}

func NewERBParser(loader *GrammarLoader, ruby *RubyParser) *ERBParser {
	return &ERBParser{language: loader.Language("erb"), ruby: ruby}
}

func (p *ERBParser) Parse(source []byte) (*syntax.Node, error) {
	tsParser := sitter.NewParser()
	defer tsParser.Close()
	tsParser.SetLanguage(p.language)

	tree := tsParser.Parse(source, nil)
	if tree == nil {
		return nil, nil
	}
	defer tree.Close()

	templateRoot := tree.RootNode()
	root := &syntax.Node{
		Kind: "program",
		Span: syntax.Span{
			StartByte: templateRoot.StartByte(),
			EndByte:   templateRoot.EndByte(),
			StartLine: 1,
			StartCol:  1,
			EndLine:   int(templateRoot.EndPosition().Row) + 1,
			EndCol:    int(templateRoot.EndPosition().Column) + 1,
		},
	}

	p.collectCode(templateRoot, source, root)
	return root, nil
}

func (p *ERBParser) collectCode(n *sitter.Node, source []byte, root *syntax.Node) {
	if n.Kind() == "code" {
		p.graftRegion(n, source, root)
		return
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		p.collectCode(n.Child(i), source, root)
	}
}

func (p *ERBParser) graftRegion(code *sitter.Node, source []byte, root *syntax.Node) {
	region := source[code.StartByte():code.EndByte()]

	tsParser := sitter.NewParser()
	defer tsParser.Close()
	tsParser.SetLanguage(p.ruby.language)

	tree := tsParser.Parse(region, nil)
	if tree == nil {
		return
	}
	defer tree.Close()

	off := offset{
		rows:  int(code.StartPosition().Row),
		cols:  int(code.StartPosition().Column),
		bytes: code.StartByte(),
	}

	sub := convertTree(tree.RootNode(), region, off)
	for _, child := range sub.Children {
		child.Parent = root
		root.Children = append(root.Children, child)
	}
}
