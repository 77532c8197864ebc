package tgraph

// collapseEdges is post-processing step 3: merge chains of degree-2 nodes
// with identical edge attributes into single polyline edges, so no pair of
// parallel edges ends up connecting the same (from,to) with the same level
// and one-way tag. Runs to a fixed point since collapsing one node can
// expose its neighbor as newly degree-2.
func collapseEdges(g *Graph) {
	for collapseEdgesPass(g) {
	}
}

func collapseEdgesPass(g *Graph) bool {
	inEdges := make(map[NodeID][]EdgeID, len(g.Nodes))
	for i, e := range g.Edges {
		inEdges[e.To] = append(inEdges[e.To], EdgeID(i))
	}

	tomb := make([]bool, len(g.Edges))
	changed := false

	for n := range g.Nodes {
		nid := NodeID(n)
		node := &g.Nodes[n]
		if node.Station != nil || len(node.Out) != 1 || len(inEdges[nid]) != 1 {
			continue
		}
		inID := inEdges[nid][0]
		outID := node.Out[0]
		if inID == outID || tomb[inID] || tomb[outID] {
			continue
		}
		inEdge, outEdge := g.Edges[inID], g.Edges[outID]
		if inEdge.From == nid || outEdge.To == nid {
			continue // self loop through n, leave as-is
		}
		if !edgeAttrsMatch(inEdge, outEdge) {
			continue
		}

		pts := append(append([]Point{}, inEdge.Points[:len(inEdge.Points)-1]...), outEdge.Points...)
		merged := inEdge
		merged.To = outEdge.To
		merged.Points = pts
		merged.Length = PolylineLength(pts)
		g.Edges[inID] = merged
		tomb[outID] = true
		node.Out = nil
		changed = true
	}

	if !changed {
		return false
	}

	newEdges := g.Edges[:0:0]
	for i, e := range g.Edges {
		if !tomb[i] {
			newEdges = append(newEdges, e)
		}
	}
	g.Edges = newEdges
	for i := range g.Nodes {
		g.Nodes[i].Out = nil
	}
	for i, e := range g.Edges {
		g.Nodes[e.From].Out = append(g.Nodes[e.From].Out, EdgeID(i))
	}
	return true
}

func edgeAttrsMatch(a, b Edge) bool {
	if a.Level != b.Level || a.OneWay != b.OneWay || a.Restricted != b.Restricted || a.Reversed != b.Reversed {
		return false
	}
	if len(a.LineSet) != len(b.LineSet) {
		return false
	}
	for k := range a.LineSet {
		if !b.LineSet[k] {
			return false
		}
	}
	return true
}
