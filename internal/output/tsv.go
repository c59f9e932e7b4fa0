// # internal/output/tsv.go
package output

import (
	"fmt"
	"strings"

	"implicit/internal/graph"
)

type TSVGenerator struct {
	graph *graph.Graph
}

func NewTSVGenerator(g *graph.Graph) *TSVGenerator {
	return &TSVGenerator{graph: g}
}

func (t *TSVGenerator) Generate() (string, error) {
	var buf strings.Builder

	buf.WriteString("From\tTo\tConstant\tLine\tColumn\n")

	for _, edge := range t.graph.Edges() {
		buf.WriteString(fmt.Sprintf("%s\t%s\t%s\t%d\t%d\n",
			edge.From, edge.To, edge.Constant, edge.Line, edge.Column))
	}

	return buf.String(), nil
}

func (t *TSVGenerator) GenerateCycles(cycles [][]string) (string, error) {
	var buf strings.Builder

	buf.WriteString("Type\tChain\n")
	for _, cycle := range cycles {
		buf.WriteString(fmt.Sprintf("cycle\t%s\n", strings.Join(cycle, " -> ")))
	}

	return buf.String(), nil
}
