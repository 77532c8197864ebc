package tgraph

// shadowKey identifies the reverse counterpart of a forward edge by its
// endpoints and source way, not by EdgeID, so a shadow already present from
// an earlier call is recognized regardless of where it landed in g.Edges.
type shadowKey struct {
	from, to  NodeID
	sourceWay uint64
}

// writeOppositeDirectionEdges is post-processing step 7: for every forward
// edge, insert a reverse shadow edge unless the edge is Restricted. A
// Restricted edge (a hard routing barrier, not merely a penalized one-way)
// gets no shadow at all; every other edge does, and the one-way tag is
// carried onto the shadow so writeOneWayPenalties can find and penalize
// whichever of the pair represents the wrong direction of travel.
//
// writeOppositeDirectionEdges is idempotent: a shadow edge (Reversed) never
// grows its own shadow, and a forward edge whose shadow already exists (by
// endpoints and source way) is skipped, so calling this twice on the same
// graph leaves the edge set unchanged after the first call.
func writeOppositeDirectionEdges(g *Graph) {
	n := len(g.Edges)
	existing := make(map[shadowKey]bool, n)
	for i := 0; i < n; i++ {
		e := &g.Edges[i]
		existing[shadowKey{e.From, e.To, e.SourceWay}] = true
	}

	for i := 0; i < n; i++ {
		e := g.Edges[i]
		if e.Restricted || e.Reversed {
			continue
		}
		key := shadowKey{e.To, e.From, e.SourceWay}
		if existing[key] {
			continue
		}
		reversedPts := make([]Point, len(e.Points))
		for j, p := range e.Points {
			reversedPts[len(e.Points)-1-j] = p
		}
		g.AddEdge(e.To, e.From, reversedPts, e.Level, e.OneWay, e.SourceWay)
		shadow := EdgeID(len(g.Edges) - 1)
		g.Edges[shadow].Reversed = true
		g.Edges[shadow].LineSet = cloneLineSet(e.LineSet)
		existing[key] = true
	}
}
