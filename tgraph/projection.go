package tgraph

import "math"

// NearestPointOnEdge projects p onto e's polyline and returns the closest
// point, its fractional progress along the whole edge (0 at e.From, 1 at
// e.To), and the distance from p in meters. Used both by snapStations and
// by the candidate generator's proximity search.
func NearestPointOnEdge(e *Edge, p Point) (proj Point, progress float64, distMeters float64) {
	bestDist := math.Inf(1)
	var bestProj Point
	var bestCum float64
	cum := 0.0

	for s := 0; s+1 < len(e.Points); s++ {
		segLen := haversineMeters(e.Points[s], e.Points[s+1])
		segProj, d := nearestPointOnSegment(p, e.Points[s], e.Points[s+1])
		if d < bestDist {
			bestDist = d
			bestProj = segProj
			segFrac := 0.0
			if segLen > 0 {
				segFrac = haversineMeters(e.Points[s], segProj) / segLen
			}
			bestCum = cum + segFrac*segLen
		}
		cum += segLen
	}

	if e.Length > 0 {
		progress = bestCum / e.Length
	}
	return bestProj, progress, bestDist
}

// PointAtProgress interpolates the coordinate at fractional progress t
// along e's polyline, the inverse of NearestPointOnEdge's progress output.
func PointAtProgress(e *Edge, t float64) Point {
	if len(e.Points) == 0 {
		return Point{}
	}
	if t <= 0 || e.Length == 0 {
		return e.Points[0]
	}
	if t >= 1 {
		return e.Points[len(e.Points)-1]
	}
	target := t * e.Length
	cum := 0.0
	for s := 0; s+1 < len(e.Points); s++ {
		segLen := haversineMeters(e.Points[s], e.Points[s+1])
		if cum+segLen >= target {
			frac := 0.0
			if segLen > 0 {
				frac = (target - cum) / segLen
			}
			a, b := e.Points[s], e.Points[s+1]
			return Point{Lon: a.Lon + frac*(b.Lon-a.Lon), Lat: a.Lat + frac*(b.Lat-a.Lat)}
		}
		cum += segLen
	}
	return e.Points[len(e.Points)-1]
}
