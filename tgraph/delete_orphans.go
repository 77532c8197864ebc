package tgraph

// deleteOrphanNodes is post-processing step 4: drop nodes that became
// disconnected, typically the node ids left behind by collapseEdges.
// Compacts Nodes and remaps every NodeID reference (edge endpoints,
// restriction via-nodes) to the new indices.
func deleteOrphanNodes(g *Graph) {
	hasIn := make([]bool, len(g.Nodes))
	for _, e := range g.Edges {
		hasIn[e.To] = true
	}

	remap := make(map[NodeID]NodeID, len(g.Nodes))
	var kept []Node
	for i := range g.Nodes {
		nid := NodeID(i)
		if len(g.Nodes[i].Out) == 0 && !hasIn[i] {
			continue
		}
		remap[nid] = NodeID(len(kept))
		kept = append(kept, g.Nodes[i])
	}
	if len(kept) == len(g.Nodes) {
		return
	}
	g.Nodes = kept

	for i := range g.Edges {
		g.Edges[i].From = remap[g.Edges[i].From]
		g.Edges[i].To = remap[g.Edges[i].To]
	}
	for i := range g.Nodes {
		g.Nodes[i].Out = nil
	}
	for i, e := range g.Edges {
		g.Nodes[e.From].Out = append(g.Nodes[e.From].Out, EdgeID(i))
	}

	g.Restrictions.remapNodes(remap)
}
