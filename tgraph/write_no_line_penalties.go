package tgraph

// writeNoLinePenalties is post-processing step 9, run only when the
// configured no-line punishment factor differs from 1: multiply edge cost
// by that factor when the edge's static line-set is empty.
func writeNoLinePenalties(g *Graph, penaltyFactor float64) {
	for i := range g.Edges {
		if len(g.Edges[i].LineSet) == 0 {
			g.Edges[i].NoLinePenalty = penaltyFactor
		}
	}
}
