package tgraph

// writeComponents is post-processing step 5: compute weakly connected
// components and stamp each node with its component index, partitioning
// nodes into weakly connected components. Edges are treated as undirected
// for this purpose, since the router's admissibility precondition only
// cares about reachability of the underlying road, not direction.
func writeComponents(g *Graph) {
	adj := make([][]NodeID, len(g.Nodes))
	for _, e := range g.Edges {
		adj[e.From] = append(adj[e.From], e.To)
		adj[e.To] = append(adj[e.To], e.From)
	}

	visited := make([]bool, len(g.Nodes))
	var compID int32
	for start := range g.Nodes {
		if visited[start] {
			continue
		}
		queue := []int{start}
		visited[start] = true
		for qi := 0; qi < len(queue); qi++ {
			n := queue[qi]
			g.Nodes[n].Component = compID
			for _, nb := range adj[n] {
				if !visited[nb] {
					visited[nb] = true
					queue = append(queue, int(nb))
				}
			}
		}
		compID++
	}
}
