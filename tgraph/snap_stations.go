package tgraph

import "math"

// snapStations is post-processing step 2: for every known station node in
// the bbox, find the nearest edge within a mode-dependent
// radius and either project the station onto it (splitting the edge if
// needed) or create a synthetic leaf-edge from the station to its nearest
// point.
func snapStations(g *Graph, stationOSMIDs []uint64, nodeCoord map[uint64]Point, radiusMeters float64) {
	if radiusMeters <= 0 {
		return
	}
	for _, osmID := range stationOSMIDs {
		coord, ok := nodeCoord[osmID]
		if !ok {
			continue
		}
		snapOneStation(g, coord, radiusMeters)
	}
}

func snapOneStation(g *Graph, coord Point, radiusMeters float64) {
	bestEdge := EdgeID(InvalidID)
	bestDist := radiusMeters
	var bestProj Point
	var bestSegStart int

	// Brute-force nearest-edge scan; a real deployment would consult a
	// spatial index (treated as an external utility per the candidate
	// generator's own spec note), but the builder runs once per extract.
	for i := range g.Edges {
		e := &g.Edges[i]
		for s := 0; s+1 < len(e.Points); s++ {
			proj, d := nearestPointOnSegment(coord, e.Points[s], e.Points[s+1])
			if d < bestDist {
				bestDist = d
				bestEdge = EdgeID(i)
				bestProj = proj
				bestSegStart = s
			}
		}
	}
	if bestEdge == InvalidID {
		return
	}

	splitNode := splitEdgeAt(g, bestEdge, bestSegStart, bestProj)

	const coincideMeters = 0.5
	if haversineMeters(coord, bestProj) <= coincideMeters {
		attachStation(g, splitNode)
		return
	}

	stationNode := g.AddNode(coord.Lon, coord.Lat)
	attachStation(g, stationNode)
	g.AddEdge(stationNode, splitNode, []Point{coord, bestProj}, 0, OneWayBidir, 0)
	g.AddEdge(splitNode, stationNode, []Point{bestProj, coord}, 0, OneWayBidir, 0)
}

func attachStation(g *Graph, id NodeID) {
	n := g.Node(id)
	if n.Station == nil {
		n.Station = &StationInfo{Modes: make(map[int]bool)}
	}
}

// splitEdgeAt inserts a new node at proj, located between points[segStart]
// and points[segStart+1] of edge, replacing the single edge with two edges
// that preserve its attributes, and returns the new node's id. If proj
// coincides with an existing endpoint of edge, no split occurs and that
// endpoint is returned directly.
func splitEdgeAt(g *Graph, edge EdgeID, segStart int, proj Point) NodeID {
	e := g.Edge(edge)
	const epsMeters = 0.01
	if segStart == 0 && haversineMeters(proj, e.Points[0]) <= epsMeters {
		return e.From
	}
	if segStart == len(e.Points)-2 && haversineMeters(proj, e.Points[len(e.Points)-1]) <= epsMeters {
		return e.To
	}

	mid := g.AddNode(proj.Lon, proj.Lat)
	firstPts := append(append([]Point{}, e.Points[:segStart+1]...), proj)
	secondPts := append([]Point{proj}, e.Points[segStart+1:]...)

	from, to := e.From, e.To
	level, oneWay, restricted := e.Level, e.OneWay, e.Restricted
	lineSet, sourceWay := e.LineSet, e.SourceWay
	oneWayPen, noLinePen := e.OneWayPenalty, e.NoLinePenalty

	removeFromOut(g, from, edge)
	g.Edges[edge] = Edge{
		From: from, To: mid, Points: firstPts, Length: PolylineLength(firstPts),
		Level: level, OneWay: oneWay, Restricted: restricted, LineSet: cloneLineSet(lineSet),
		SourceWay: sourceWay, OneWayPenalty: oneWayPen, NoLinePenalty: noLinePen,
	}
	g.Nodes[from].Out = append(g.Nodes[from].Out, edge)

	g.AddEdge(mid, to, secondPts, level, oneWay, sourceWay)
	last := EdgeID(len(g.Edges) - 1)
	g.Edges[last].Restricted = restricted
	g.Edges[last].LineSet = cloneLineSet(lineSet)
	g.Edges[last].OneWayPenalty = oneWayPen
	g.Edges[last].NoLinePenalty = noLinePen

	return mid
}

func cloneLineSet(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func removeFromOut(g *Graph, n NodeID, edge EdgeID) {
	out := g.Nodes[n].Out
	for i, e := range out {
		if e == edge {
			g.Nodes[n].Out = append(out[:i], out[i+1:]...)
			return
		}
	}
}

// nearestPointOnSegment projects p onto segment [a,b], clamped to the
// segment, and returns the projection plus its distance from p in meters.
// The projection itself is computed in the small-angle planar approximation
// (adequate at station-snap radii of tens of meters); only the reported
// distance uses the haversine formula for accuracy.
func nearestPointOnSegment(p, a, b Point) (Point, float64) {
	dx, dy := b.Lon-a.Lon, b.Lat-a.Lat
	if dx == 0 && dy == 0 {
		return a, haversineMeters(p, a)
	}
	t := ((p.Lon-a.Lon)*dx + (p.Lat-a.Lat)*dy) / (dx*dx + dy*dy)
	t = math.Max(0, math.Min(1, t))
	proj := Point{Lon: a.Lon + t*dx, Lat: a.Lat + t*dy}
	return proj, haversineMeters(p, proj)
}
