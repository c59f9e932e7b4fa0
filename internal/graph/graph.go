// # internal/graph/graph.go
package graph

import (
	"sort"
	"sync"

	"implicit/internal/resolver"
)

// Graph is the project-wide implicit dependency graph: an edge means
// "this file references a constant defined in that file". Nodes are
// project-relative file paths. Writes happen from the scan/watch loop;
// reads may come from the UI and report generators concurrently.
type Graph struct {
	mu sync.RWMutex

	files map[string][]resolver.Reference // analyzed file -> its resolved references

	// Relationships
	edges        map[string]map[string][]Edge // from -> to -> edges
	referencedBy map[string]map[string]bool   // to -> from
}

// Edge is one resolved reference between two files.
type Edge struct {
	From     string
	To       string
	Constant string // fully-qualified namespace path
	Line     int
	Column   int
}

type FileMetrics struct {
	FanIn  int
	FanOut int
}

func NewGraph() *Graph {
	return &Graph{
		files:        make(map[string][]resolver.Reference),
		edges:        make(map[string]map[string][]Edge),
		referencedBy: make(map[string]map[string]bool),
	}
}

// SetFile replaces the edges contributed by one file. Prior
// contributions are removed first so re-analysis after an edit cannot
// leave stale edges behind.
func (g *Graph) SetFile(path string, refs []resolver.Reference) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.files[path]; exists {
		g.removeFileLocked(path)
	}

	g.files[path] = append([]resolver.Reference(nil), refs...)
	g.edges[path] = make(map[string][]Edge)

	for _, ref := range refs {
		to := ref.Constant.File
		if to == path {
			// Self references carry no dependency information.
			continue
		}
		edge := Edge{
			From:     path,
			To:       to,
			Constant: ref.Constant.Path,
			Line:     ref.Span.StartLine,
			Column:   ref.Span.StartCol,
		}
		g.edges[path][to] = append(g.edges[path][to], edge)

		if g.referencedBy[to] == nil {
			g.referencedBy[to] = make(map[string]bool)
		}
		g.referencedBy[to][path] = true
	}
}

func (g *Graph) RemoveFile(path string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.removeFileLocked(path)
}

func (g *Graph) removeFileLocked(path string) {
	if _, ok := g.files[path]; !ok {
		return
	}
	for to := range g.edges[path] {
		if refs, ok := g.referencedBy[to]; ok {
			delete(refs, path)
			if len(refs) == 0 {
				delete(g.referencedBy, to)
			}
		}
	}
	delete(g.edges, path)
	delete(g.files, path)
}

func (g *Graph) Files() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	paths := make([]string, 0, len(g.files))
	for p := range g.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (g *Graph) FileCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.files)
}

func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	count := 0
	for _, targets := range g.edges {
		for _, edges := range targets {
			count += len(edges)
		}
	}
	return count
}

// Edges returns every edge ordered by (from, to, line) for stable output.
func (g *Graph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []Edge
	for _, targets := range g.edges {
		for _, edges := range targets {
			out = append(out, edges...)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		if out[i].To != out[j].To {
			return out[i].To < out[j].To
		}
		return out[i].Line < out[j].Line
	})
	return out
}

// References returns the resolved references recorded for one file.
func (g *Graph) References(path string) ([]resolver.Reference, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	refs, ok := g.files[path]
	if !ok {
		return nil, false
	}
	return append([]resolver.Reference(nil), refs...), true
}

// Dependents returns the files that reference the given file, directly
// or transitively. Used to decide what to re-check after an edit.
func (g *Graph) Dependents(path string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []string
	seen := map[string]bool{path: true}
	queue := []string{path}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for from := range g.referencedBy[current] {
			if seen[from] {
				continue
			}
			seen[from] = true
			out = append(out, from)
			queue = append(queue, from)
		}
	}
	sort.Strings(out)
	return out
}

// ComputeFileMetrics returns fan-in/fan-out per file, counting distinct
// neighbor files rather than individual references.
func (g *Graph) ComputeFileMetrics() map[string]FileMetrics {
	g.mu.RLock()
	defer g.mu.RUnlock()

	metrics := make(map[string]FileMetrics, len(g.files))
	for path := range g.files {
		metrics[path] = FileMetrics{
			FanOut: len(g.edges[path]),
			FanIn:  len(g.referencedBy[path]),
		}
	}
	for to, froms := range g.referencedBy {
		if _, ok := metrics[to]; !ok {
			metrics[to] = FileMetrics{FanIn: len(froms)}
		}
	}
	return metrics
}
