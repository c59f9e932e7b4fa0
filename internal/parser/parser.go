// # internal/parser/parser.go
package parser

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"implicit/internal/syntax"
)

// ErrUnsupported is returned when no parser is registered for a file type.
var ErrUnsupported = errors.New("unsupported file type")

// Parser turns raw source into a syntax tree. A nil root with a nil error
// means the input could not be parsed; callers treat that as "nothing to
// analyze" so one malformed file cannot abort a bulk scan.
type Parser interface {
	Parse(source []byte) (*syntax.Node, error)
}

// Registry selects a parser by file extension.
type Registry struct {
	byExt map[string]Parser
}

func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]Parser)}
}

func (r *Registry) Register(ext string, p Parser) {
	r.byExt[strings.ToLower(ext)] = p
}

func (r *Registry) ForPath(path string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(path))
	p, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, path)
	}
	return p, nil
}

func (r *Registry) Supports(path string) bool {
	_, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return ok
}

// DefaultRegistry wires the shipped Ruby and ERB parsers.
func DefaultRegistry() *Registry {
	loader := NewGrammarLoader()
	ruby := NewRubyParser(loader)

	r := NewRegistry()
	r.Register(".rb", ruby)
	r.Register(".rake", ruby)
	r.Register(".erb", NewERBParser(loader, ruby))
	return r
}
