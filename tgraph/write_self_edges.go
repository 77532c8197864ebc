package tgraph

// writeSelfEdges is post-processing step 10: at station nodes, add
// zero-length self-edges to accommodate same-stop-to-same-stop
// degenerate hops (a trip whose two consecutive candidates land on the
// same station node still needs a zero-cost path between them).
func writeSelfEdges(g *Graph) {
	n := len(g.Nodes)
	for i := 0; i < n; i++ {
		if g.Nodes[i].Station == nil {
			continue
		}
		id := NodeID(i)
		pt := Point{Lon: g.Nodes[i].Lon, Lat: g.Nodes[i].Lat}
		g.AddEdge(id, id, []Point{pt, pt}, 0, OneWayBidir, 0)
	}
}
