// # internal/output/dot.go
package output

import (
	"fmt"
	"strings"

	"implicit/internal/graph"
)

type DOTGenerator struct {
	graph *graph.Graph
}

func NewDOTGenerator(g *graph.Graph) *DOTGenerator {
	return &DOTGenerator{graph: g}
}

func (d *DOTGenerator) Generate(cycles [][]string) (string, error) {
	var buf strings.Builder

	buf.WriteString("digraph constants {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=rounded, fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=8, penwidth=1.2];\n")
	buf.WriteString("  ranksep=1.5;\n")
	buf.WriteString("  nodesep=0.6;\n")
	buf.WriteString("  splines=polyline;\n")
	buf.WriteString("  overlap=false;\n\n")

	// Build cycle edge set for highlighting
	cycleEdges := make(map[string]map[string]bool)
	for _, cycle := range cycles {
		for i := 0; i < len(cycle); i++ {
			from := cycle[i]
			to := cycle[(i+1)%len(cycle)]
			if cycleEdges[from] == nil {
				cycleEdges[from] = make(map[string]bool)
			}
			cycleEdges[from][to] = true
		}
	}

	metrics := d.graph.ComputeFileMetrics()
	for _, file := range d.graph.Files() {
		m := metrics[file]
		buf.WriteString(fmt.Sprintf("  %q [label=\"%s\\nin=%d out=%d\"];\n",
			file, file, m.FanIn, m.FanOut))
	}
	buf.WriteString("\n")

	seen := make(map[string]bool)
	for _, edge := range d.graph.Edges() {
		key := edge.From + "\x00" + edge.To
		if seen[key] {
			continue
		}
		seen[key] = true

		attrs := fmt.Sprintf("label=%q", edge.Constant)
		if cycleEdges[edge.From][edge.To] {
			attrs += ", color=red, penwidth=2.0"
		}
		buf.WriteString(fmt.Sprintf("  %q -> %q [%s];\n", edge.From, edge.To, attrs))
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}
