package tripcache

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/transitshape/shapegen/candidate"
	"github.com/transitshape/shapegen/fingerprint"
	"github.com/transitshape/shapegen/tgraph"
)

// errCorrupt is returned by decodeEntry for any malformed or truncated
// entry: bad magic, version mismatch, short read, or an edge fingerprint
// that the caller's edge index can't resolve.
var errCorrupt = errors.New("tripcache: corrupt entry")

// encodeEntry serializes hops into the on-disk entry format: magic,
// version, hop count, then per hop the presence flags, progress values,
// optional free-point coordinates, the edge fingerprint list, and the
// start/end edge fingerprints.
func encodeEntry(g *tgraph.Graph, hops []Hop) []byte {
	buf := make([]byte, 0, 64*len(hops)+12)
	buf = append(buf, Magic[:]...)
	buf = appendUint32(buf, Version)
	buf = appendUint32(buf, uint32(len(hops)))

	for _, hop := range hops {
		hasStartEdge := !hop.Start.FreePoint
		hasEndEdge := !hop.End.FreePoint
		buf = appendBool(buf, hasStartEdge)
		buf = appendBool(buf, hasEndEdge)
		buf = appendBool(buf, !hasStartEdge)
		buf = appendBool(buf, !hasEndEdge)
		buf = appendFloat64(buf, hop.Start.Progress)
		buf = appendFloat64(buf, hop.End.Progress)
		if !hasStartEdge {
			buf = appendFloat64(buf, hop.Start.Point.Lon)
			buf = appendFloat64(buf, hop.Start.Point.Lat)
		}
		if !hasEndEdge {
			buf = appendFloat64(buf, hop.End.Point.Lon)
			buf = appendFloat64(buf, hop.End.Point.Lat)
		}

		buf = appendUint32(buf, uint32(len(hop.Edges)))
		for _, eid := range hop.Edges {
			buf = appendHash(buf, tgraph.EdgeFingerprint(g.Edge(eid)))
		}

		var startHash, endHash fingerprint.Hash128
		if hasStartEdge {
			startHash = tgraph.EdgeFingerprint(g.Edge(hop.Start.Edge))
		}
		if hasEndEdge {
			endHash = tgraph.EdgeFingerprint(g.Edge(hop.End.Edge))
		}
		buf = appendHash(buf, startHash)
		buf = appendHash(buf, endHash)
	}
	return buf
}

// decodeEntry parses the on-disk entry format, resolving every persisted
// edge fingerprint back to a live EdgeID via resolve. Any structural
// problem or unresolved fingerprint is reported as errCorrupt; the caller
// treats that as a miss and deletes the offending file.
func decodeEntry(data []byte, resolve func(fingerprint.Hash128) (tgraph.EdgeID, bool)) ([]Hop, error) {
	c := &cursor{b: data}

	magic, ok := c.readBytes(4)
	if !ok || magic[0] != Magic[0] || magic[1] != Magic[1] || magic[2] != Magic[2] || magic[3] != Magic[3] {
		return nil, errCorrupt
	}
	version, ok := c.readUint32()
	if !ok || version != Version {
		return nil, errCorrupt
	}
	hopCount, ok := c.readUint32()
	if !ok {
		return nil, errCorrupt
	}

	hops := make([]Hop, 0, hopCount)
	for i := uint32(0); i < hopCount; i++ {
		hasStartEdge, ok1 := c.readUint8()
		hasEndEdge, ok2 := c.readUint8()
		_, ok3 := c.readUint8() // hasStartPoint: always !hasStartEdge, not re-derived
		_, ok4 := c.readUint8() // hasEndPoint: always !hasEndEdge
		if !ok1 || !ok2 || !ok3 || !ok4 {
			return nil, errCorrupt
		}

		progrStart, ok5 := c.readFloat64()
		progrEnd, ok6 := c.readFloat64()
		if !ok5 || !ok6 {
			return nil, errCorrupt
		}

		var startPt, endPt tgraph.Point
		if hasStartEdge == 0 {
			x, okx := c.readFloat64()
			y, oky := c.readFloat64()
			if !okx || !oky {
				return nil, errCorrupt
			}
			startPt = tgraph.Point{Lon: x, Lat: y}
		}
		if hasEndEdge == 0 {
			x, okx := c.readFloat64()
			y, oky := c.readFloat64()
			if !okx || !oky {
				return nil, errCorrupt
			}
			endPt = tgraph.Point{Lon: x, Lat: y}
		}

		edgeCount, ok := c.readUint32()
		if !ok {
			return nil, errCorrupt
		}
		edges := make([]tgraph.EdgeID, 0, edgeCount)
		for e := uint32(0); e < edgeCount; e++ {
			h, okh := c.readHash()
			if !okh {
				return nil, errCorrupt
			}
			eid, found := resolve(h)
			if !found {
				return nil, errCorrupt
			}
			edges = append(edges, eid)
		}

		startHash, ok := c.readHash()
		if !ok {
			return nil, errCorrupt
		}
		endHash, ok := c.readHash()
		if !ok {
			return nil, errCorrupt
		}

		hop := Hop{
			Edges: edges,
			Start: candidate.Candidate{Progress: progrStart},
			End:   candidate.Candidate{Progress: progrEnd},
		}
		if hasStartEdge != 0 {
			eid, found := resolve(startHash)
			if !found {
				return nil, errCorrupt
			}
			hop.Start.Edge = eid
		} else {
			hop.Start.FreePoint = true
			hop.Start.Point = startPt
		}
		if hasEndEdge != 0 {
			eid, found := resolve(endHash)
			if !found {
				return nil, errCorrupt
			}
			hop.End.Edge = eid
		} else {
			hop.End.FreePoint = true
			hop.End.Point = endPt
		}
		hops = append(hops, hop)
	}
	return hops, nil
}

// cursor is a forward-only reader over an in-memory entry buffer.
type cursor struct {
	b   []byte
	pos int
}

func (c *cursor) remaining() int { return len(c.b) - c.pos }

func (c *cursor) readBytes(n int) ([]byte, bool) {
	if c.remaining() < n {
		return nil, false
	}
	out := c.b[c.pos : c.pos+n]
	c.pos += n
	return out, true
}

func (c *cursor) readUint8() (uint8, bool) {
	b, ok := c.readBytes(1)
	if !ok {
		return 0, false
	}
	return b[0], true
}

func (c *cursor) readUint32() (uint32, bool) {
	b, ok := c.readBytes(4)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b), true
}

func (c *cursor) readUint64() (uint64, bool) {
	b, ok := c.readBytes(8)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint64(b), true
}

func (c *cursor) readFloat64() (float64, bool) {
	v, ok := c.readUint64()
	if !ok {
		return 0, false
	}
	return math.Float64frombits(v), true
}

func (c *cursor) readHash() (fingerprint.Hash128, bool) {
	lo, ok := c.readUint64()
	if !ok {
		return fingerprint.Hash128{}, false
	}
	hi, ok := c.readUint64()
	if !ok {
		return fingerprint.Hash128{}, false
	}
	return fingerprint.Hash128{Lo: lo, Hi: hi}, true
}

func appendUint32(buf []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(buf, b[:]...)
}

func appendUint64(buf []byte, v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return append(buf, b[:]...)
}

func appendFloat64(buf []byte, v float64) []byte {
	return appendUint64(buf, math.Float64bits(v))
}

func appendBool(buf []byte, v bool) []byte {
	if v {
		return append(buf, 1)
	}
	return append(buf, 0)
}

func appendHash(buf []byte, h fingerprint.Hash128) []byte {
	buf = appendUint64(buf, h.Lo)
	buf = appendUint64(buf, h.Hi)
	return buf
}
