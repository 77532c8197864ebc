package solver

import "github.com/transitshape/shapegen/tgraph"

// Polyline concatenates a chosen edge path's geometry into a single ordered
// point list, dropping the duplicate coordinate at each edge-to-edge seam
// (the builder's invariant that an edge's polyline endpoints coincide with
// its from/to node coordinates makes that duplicate exact, not
// approximate), producing the trip's final shape.
func Polyline(g *tgraph.Graph, edges []tgraph.EdgeID) []tgraph.Point {
	var pts []tgraph.Point
	for _, eid := range edges {
		e := g.Edge(eid)
		if e == nil {
			continue
		}
		pp := e.Points
		if len(pts) > 0 && len(pp) > 0 && pts[len(pts)-1] == pp[0] {
			pp = pp[1:]
		}
		pts = append(pts, pp...)
	}
	return pts
}
