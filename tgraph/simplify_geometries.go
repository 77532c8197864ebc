package tgraph

import "math"

// simplifyGeometries is post-processing step 6: Douglas-Peucker on edge
// polylines with ε proportional to gridSize. Endpoints are never
// dropped, preserving the invariant that an edge's polyline endpoints
// coincide with its from/to node coordinates.
func simplifyGeometries(g *Graph, gridSizeMeters float64) {
	if gridSizeMeters <= 0 {
		return
	}
	epsilon := gridSizeMeters * 0.5
	for i := range g.Edges {
		pts := g.Edges[i].Points
		if len(pts) > 2 {
			g.Edges[i].Points = douglasPeucker(pts, epsilon)
		}
	}
}

func douglasPeucker(pts []Point, epsilon float64) []Point {
	if len(pts) < 3 {
		return pts
	}
	origin := pts[0]
	local := make([][2]float64, len(pts))
	for i, p := range pts {
		local[i] = toLocalMeters(origin, p)
	}

	keep := make([]bool, len(pts))
	keep[0] = true
	keep[len(pts)-1] = true
	dpRecurse(local, 0, len(local)-1, epsilon, keep)

	out := make([]Point, 0, len(pts))
	for i, k := range keep {
		if k {
			out = append(out, pts[i])
		}
	}
	return out
}

func dpRecurse(pts [][2]float64, start, end int, epsilon float64, keep []bool) {
	if end <= start+1 {
		return
	}
	maxDist := -1.0
	maxIdx := start
	for i := start + 1; i < end; i++ {
		d := perpendicularDistance(pts[i], pts[start], pts[end])
		if d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}
	if maxDist <= epsilon {
		return
	}
	keep[maxIdx] = true
	dpRecurse(pts, start, maxIdx, epsilon, keep)
	dpRecurse(pts, maxIdx, end, epsilon, keep)
}

func perpendicularDistance(p, a, b [2]float64) float64 {
	dx, dy := b[0]-a[0], b[1]-a[1]
	if dx == 0 && dy == 0 {
		return math.Hypot(p[0]-a[0], p[1]-a[1])
	}
	num := math.Abs(dy*p[0] - dx*p[1] + b[0]*a[1] - b[1]*a[0])
	den := math.Hypot(dx, dy)
	return num / den
}

// toLocalMeters projects p into a local planar (meters, meters) frame
// centered on origin, adequate over the short spans a single edge spans.
func toLocalMeters(origin, p Point) [2]float64 {
	const metersPerDegreeLat = 111320.0
	latRad := origin.Lat * math.Pi / 180
	x := (p.Lon - origin.Lon) * metersPerDegreeLat * math.Cos(latRad)
	y := (p.Lat - origin.Lat) * metersPerDegreeLat
	return [2]float64{x, y}
}
