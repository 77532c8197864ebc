package candidate

import (
	"math"

	"github.com/transitshape/shapegen/tgraph"
)

// Index is a bucketed spatial index over a graph's edges, keyed by a grid
// cell along each edge's polyline, so a radius query only scans
// edges near the query point instead of every edge in the graph.
type Index struct {
	cellMeters float64
	buckets    map[[2]int32][]tgraph.EdgeID
}

// NewIndex builds an Index over every edge of g. cellMeters should be on
// the order of the largest expected query radius; edges spanning multiple
// cells are registered in every cell they touch.
func NewIndex(g *tgraph.Graph, cellMeters float64) *Index {
	if cellMeters <= 0 {
		cellMeters = 200
	}
	idx := &Index{cellMeters: cellMeters, buckets: make(map[[2]int32][]tgraph.EdgeID)}
	cellDeg := cellMeters / 111320.0

	for i := range g.Edges {
		eid := tgraph.EdgeID(i)
		seen := make(map[[2]int32]bool)
		add := func(p tgraph.Point) {
			cell := cellKey(p, cellDeg)
			if !seen[cell] {
				seen[cell] = true
				idx.buckets[cell] = append(idx.buckets[cell], eid)
			}
		}
		pts := g.Edges[i].Points
		for k, p := range pts {
			if k > 0 {
				// Sample each segment at half-cell steps so cells it only
				// crosses are registered too, not just its vertices' cells.
				a := pts[k-1]
				steps := int(math.Ceil(2 * math.Max(math.Abs(p.Lon-a.Lon), math.Abs(p.Lat-a.Lat)) / cellDeg))
				for s := 1; s < steps; s++ {
					f := float64(s) / float64(steps)
					add(tgraph.Point{Lon: a.Lon + f*(p.Lon-a.Lon), Lat: a.Lat + f*(p.Lat-a.Lat)})
				}
			}
			add(p)
		}
	}
	return idx
}

// Query returns every edge id whose bucket lies within radiusMeters of p,
// deduplicated. Callers still measure the exact distance (NearestPointOnEdge
// does this); Query only narrows the candidate set.
func (idx *Index) Query(p tgraph.Point, radiusMeters float64) []tgraph.EdgeID {
	cellDeg := idx.cellMeters / 111320.0
	center := cellKey(p, cellDeg)
	spread := int32(math.Ceil(radiusMeters/idx.cellMeters)) + 1

	seen := make(map[tgraph.EdgeID]bool)
	var out []tgraph.EdgeID
	for dx := -spread; dx <= spread; dx++ {
		for dy := -spread; dy <= spread; dy++ {
			cell := [2]int32{center[0] + dx, center[1] + dy}
			for _, eid := range idx.buckets[cell] {
				if !seen[eid] {
					seen[eid] = true
					out = append(out, eid)
				}
			}
		}
	}
	return out
}

func cellKey(p tgraph.Point, cellDeg float64) [2]int32 {
	return [2]int32{int32(math.Floor(p.Lon / cellDeg)), int32(math.Floor(p.Lat / cellDeg))}
}
