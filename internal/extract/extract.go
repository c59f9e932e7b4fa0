// # internal/extract/extract.go
package extract

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"implicit/internal/inspect"
	"implicit/internal/observability"
	"implicit/internal/parser"
	"implicit/internal/resolver"
)

// SnippetPath labels references extracted from ad hoc source text that
// has no file identity.
const SnippetPath = "<snippet>"

// Extractor drives the walker, inspectors and resolver over one file or
// snippet. Instances hold no mutable state between calls; independent
// extractions may run concurrently against the same index.
type Extractor struct {
	registry    *parser.Registry
	walker      *inspect.Walker
	resolver    *resolver.Resolver
	projectRoot string
}

func New(registry *parser.Registry, res *resolver.Resolver, projectRoot string, extra ...inspect.Inspector) *Extractor {
	inspectors := append([]inspect.Inspector{inspect.ConstantInspector{}}, extra...)
	return &Extractor{
		registry:    registry,
		walker:      inspect.NewWalker(inspect.RubyNamespaces{}, inspectors...),
		resolver:    res,
		projectRoot: projectRoot,
	}
}

// ExtractSource resolves references in an ad hoc Ruby snippet. The
// snippet has no enclosing file context: it resolves from an empty base
// namespace against whatever roots the index was built with.
func (e *Extractor) ExtractSource(source []byte) ([]resolver.Reference, error) {
	p, err := e.registry.ForPath("snippet.rb")
	if err != nil {
		return nil, err
	}
	refs, _ := e.extract(p, source, SnippetPath, "ruby")
	return refs, nil
}

// Stats counts the outcome of one extraction. Collected minus Resolved
// is the number of references dropped as external or dynamic.
type Stats struct {
	Collected int
	Resolved  int
}

// ExtractFile resolves references in a project file. The path is taken
// relative to the project root and reported that way on every reference.
// A missing or unparseable file yields an empty result so one bad input
// cannot abort a bulk scan; an unsupported extension is an explicit
// failure since it means the tool is misconfigured.
func (e *Extractor) ExtractFile(path string) ([]resolver.Reference, error) {
	refs, _, err := e.ExtractFileWithStats(path)
	return refs, err
}

// ExtractFileWithStats is ExtractFile plus outcome counts for trend
// snapshots.
func (e *Extractor) ExtractFileWithStats(path string) ([]resolver.Reference, Stats, error) {
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(e.projectRoot, path)
	}

	p, err := e.registry.ForPath(abs)
	if err != nil {
		return nil, Stats{}, err
	}

	source, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, Stats{}, nil
		}
		return nil, Stats{}, err
	}

	rel, err := filepath.Rel(e.projectRoot, abs)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)

	refs, stats := e.extract(p, source, rel, languageFor(abs))
	return refs, stats, nil
}

func (e *Extractor) extract(p parser.Parser, source []byte, label, language string) ([]resolver.Reference, Stats) {
	start := time.Now()
	root, err := p.Parse(source)
	observability.ParsingDuration.WithLabelValues(language).Observe(time.Since(start).Seconds())
	if err != nil || root == nil {
		return nil, Stats{}
	}

	unresolved := e.walker.Collect(root, label)

	stats := Stats{Collected: len(unresolved)}
	refs := make([]resolver.Reference, 0, len(unresolved))
	for _, u := range unresolved {
		ref, ok := e.resolver.Resolve(u)
		if !ok {
			observability.ReferencesUnresolved.Inc()
			continue
		}
		observability.ReferencesResolved.Inc()
		stats.Resolved++
		refs = append(refs, ref)
	}
	return refs, stats
}

func languageFor(path string) string {
	if strings.HasSuffix(path, ".erb") {
		return "erb"
	}
	return "ruby"
}
