package fingerprint

import (
	"encoding/binary"
	"math"
)

// Point is a plain (lon, lat) pair. fingerprint does not import the graph
// package to avoid a dependency cycle (tgraph depends on fingerprint, not
// the other way around); callers adapt their own point type to this one.
type Point struct {
	Lon, Lat float64
}

// EdgeInput is the subset of an edge's attributes the fingerprint depends
// on: level, oneWay, restricted/reversed flags, point count, and a sample
// of quantized point coordinates. Component ids are deliberately excluded
// (component indexing is build-order-dependent).
type EdgeInput struct {
	Level       int32
	OneWay      int32 // encodes bidir/forward/reverse as a small int
	Restricted  bool
	Reversed    bool
	Points      []Point
}

// quantize converts a coordinate to a signed 32-bit integer at ~1cm
// precision (multiply by 1e7 and round).
func quantize(v float64) int32 {
	return int32(math.Round(v * 1e7))
}

// samplePoints picks the points the edge fingerprint is computed from: all
// of them if the polyline has <= 5 points, else 5 points at fractional
// positions {0, 1/4, 1/2, 3/4, 1}.
func samplePoints(pts []Point) []Point {
	if len(pts) <= 5 {
		return pts
	}
	n := len(pts)
	fracs := [5]float64{0, 0.25, 0.5, 0.75, 1}
	out := make([]Point, 5)
	for i, f := range fracs {
		idx := int(math.Round(f * float64(n-1)))
		out[i] = pts[idx]
	}
	return out
}

// EdgeHash computes the 128-bit fingerprint of a single edge.
func EdgeHash(e EdgeInput) Hash128 {
	sampled := samplePoints(e.Points)

	buf := make([]byte, 0, 16+len(sampled)*8)
	var hdr [16]byte
	binary.LittleEndian.PutUint32(hdr[0:4], uint32(e.Level))
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(e.OneWay))
	var flags uint32
	if e.Restricted {
		flags |= 1
	}
	if e.Reversed {
		flags |= 2
	}
	binary.LittleEndian.PutUint32(hdr[8:12], flags)
	binary.LittleEndian.PutUint32(hdr[12:16], uint32(len(e.Points)))
	buf = append(buf, hdr[:]...)

	for _, p := range sampled {
		var xy [8]byte
		binary.LittleEndian.PutUint32(xy[0:4], uint32(quantize(p.Lon)))
		binary.LittleEndian.PutUint32(xy[4:8], uint32(quantize(p.Lat)))
		buf = append(buf, xy[:]...)
	}

	return hash128Of(buf)
}
