package tgraph

import "math"

// fixGaps is post-processing step 1: within a configured grid cell, merge
// nodes whose coordinates coincide to within a tolerance. Nodes
// are bucketed into gridSizeMeters cells so the merge check stays local
// instead of comparing every pair of nodes.
func fixGaps(g *Graph, gridSizeMeters float64) {
	if gridSizeMeters <= 0 || len(g.Nodes) == 0 {
		return
	}

	cellDeg := gridSizeMeters / 111320.0
	buckets := make(map[[2]int32][]NodeID)
	for i := range g.Nodes {
		id := NodeID(i)
		cell := cellOf(g.Nodes[i].Lon, g.Nodes[i].Lat, cellDeg)
		buckets[cell] = append(buckets[cell], id)
	}

	redirect := make(map[NodeID]NodeID)
	for _, ids := range buckets {
		for i := 0; i < len(ids); i++ {
			a := ids[i]
			if _, merged := redirect[a]; merged {
				continue
			}
			for j := i + 1; j < len(ids); j++ {
				b := ids[j]
				if _, merged := redirect[b]; merged {
					continue
				}
				if withinTolerance(g.Nodes[a], g.Nodes[b], gridSizeMeters) {
					redirect[b] = a
				}
			}
		}
	}
	if len(redirect) == 0 {
		return
	}

	resolve := func(id NodeID) NodeID {
		for {
			to, ok := redirect[id]
			if !ok {
				return id
			}
			id = to
		}
	}
	for i := range g.Edges {
		g.Edges[i].From = resolve(g.Edges[i].From)
		g.Edges[i].To = resolve(g.Edges[i].To)
	}
	for id := range redirect {
		g.Nodes[id].Out = nil
	}
	for i, e := range g.Edges {
		g.Nodes[e.From].Out = append(g.Nodes[e.From].Out, EdgeID(i))
	}
}

func cellOf(lon, lat, cellDeg float64) [2]int32 {
	return [2]int32{int32(math.Floor(lon / cellDeg)), int32(math.Floor(lat / cellDeg))}
}

func withinTolerance(a, b Node, toleranceMeters float64) bool {
	return haversineMeters(Point{Lon: a.Lon, Lat: a.Lat}, Point{Lon: b.Lon, Lat: b.Lat}) <= toleranceMeters
}
