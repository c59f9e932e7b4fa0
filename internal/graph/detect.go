// # internal/graph/detect.go
package graph

import "sort"

// DetectCycles reports every cycle of file-level reference edges found
// by depth-first search. Start nodes are visited in sorted order so the
// result is stable across runs.
func (g *Graph) DetectCycles() [][]string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	starts := make([]string, 0, len(g.files))
	for path := range g.files {
		starts = append(starts, path)
	}
	sort.Strings(starts)

	var cycles [][]string
	visited := make(map[string]bool)
	onStack := make(map[string]bool)

	for _, path := range starts {
		if !visited[path] {
			g.findCycles(path, visited, onStack, []string{}, &cycles)
		}
	}

	return cycles
}

func (g *Graph) findCycles(curr string, visited, onStack map[string]bool, path []string, cycles *[][]string) {
	visited[curr] = true
	onStack[curr] = true
	path = append(path, curr)

	targets := make([]string, 0, len(g.edges[curr]))
	for next := range g.edges[curr] {
		targets = append(targets, next)
	}
	sort.Strings(targets)

	for _, next := range targets {
		if onStack[next] {
			cycleStart := -1
			for i, p := range path {
				if p == next {
					cycleStart = i
					break
				}
			}
			if cycleStart != -1 {
				cycle := make([]string, len(path)-cycleStart)
				copy(cycle, path[cycleStart:])
				*cycles = append(*cycles, cycle)
			}
		} else if !visited[next] {
			g.findCycles(next, visited, onStack, path, cycles)
		}
	}

	onStack[curr] = false
}
