package tgraph

import "github.com/transitshape/shapegen/fingerprint"

// EdgeFingerprint computes the content-addressed fingerprint of a single
// edge, bridging this package's Edge to fingerprint.EdgeInput.
func EdgeFingerprint(e *Edge) fingerprint.Hash128 {
	pts := make([]fingerprint.Point, len(e.Points))
	for i, p := range e.Points {
		pts[i] = fingerprint.Point{Lon: p.Lon, Lat: p.Lat}
	}
	return fingerprint.EdgeHash(fingerprint.EdgeInput{
		Level:      e.Level,
		OneWay:     int32(e.OneWay),
		Restricted: e.Restricted,
		Reversed:   e.Reversed,
		Points:     pts,
	})
}

// Fingerprint computes the whole-graph fingerprint by sorting all edge
// fingerprints ascending and hashing the concatenation, the primary key
// the trip cache namespaces its entries under.
func (g *Graph) Fingerprint() fingerprint.Hash128 {
	hashes := make([]fingerprint.Hash128, len(g.Edges))
	for i := range g.Edges {
		hashes[i] = EdgeFingerprint(&g.Edges[i])
	}
	return fingerprint.GraphFromEdges(hashes)
}

// EdgeIndex maps an edge's fingerprint (and its point-reversed counterpart,
// since a cache entry resolved against a freshly rebuilt graph may see the
// same physical edge reversed) back to a concrete EdgeID. Built once after
// Build returns; used by the trip cache to resolve persisted edge
// fingerprints without storing raw EdgeIDs across runs.
func (g *Graph) EdgeIndex() map[fingerprint.Hash128]EdgeID {
	idx := make(map[fingerprint.Hash128]EdgeID, len(g.Edges)*2)
	for i := range g.Edges {
		id := EdgeID(i)
		idx[EdgeFingerprint(&g.Edges[i])] = id
		idx[reversedEdgeFingerprint(&g.Edges[i])] = id
	}
	return idx
}

func reversedEdgeFingerprint(e *Edge) fingerprint.Hash128 {
	rev := make([]fingerprint.Point, len(e.Points))
	for i, p := range e.Points {
		rev[len(e.Points)-1-i] = fingerprint.Point{Lon: p.Lon, Lat: p.Lat}
	}
	return fingerprint.EdgeHash(fingerprint.EdgeInput{
		Level:      e.Level,
		OneWay:     int32(e.OneWay),
		Restricted: e.Restricted,
		Reversed:   e.Reversed,
		Points:     rev,
	})
}
