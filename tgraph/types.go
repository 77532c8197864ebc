// Package tgraph builds and represents the weighted, mode-aware transit
// graph: a directed multigraph with stations, turn restrictions, and the
// ten-step post-processing pipeline (fixGaps through writeSelfEdges).
//
// Nodes and edges live in slices owned by the Graph and are referenced by
// integer index (NodeID/EdgeID), not by pointer: nodes and edges form a
// cyclic reference pattern, so an arena/vector owned by the graph, with
// both directions storing integer indices into that arena, avoids direct
// pointer cycles. This is also what lets the trip cache (package
// tripcache) resolve a persisted edge fingerprint back to a concrete
// EdgeID via a rebuilt index instead of a raw pointer.
package tgraph

// NodeID indexes into Graph.Nodes. The zero value is a valid id (node 0);
// callers distinguish "no node" with a separate bool or -1 where needed.
type NodeID int32

// EdgeID indexes into Graph.Edges.
type EdgeID int32

// InvalidID marks the absence of a NodeID/EdgeID reference.
const InvalidID = -1

// Point is a single (longitude, latitude) coordinate.
type Point struct {
	Lon, Lat float64
}

// OneWay tags an edge's direction-of-travel restriction.
type OneWay int8

const (
	// OneWayBidir allows travel in both directions.
	OneWayBidir OneWay = iota
	// OneWayForward allows travel only from Edge.From to Edge.To.
	OneWayForward
	// OneWayReverse allows travel only from Edge.To to Edge.From.
	OneWayReverse
)

// StationInfo attaches transit-station metadata to a Node.
type StationInfo struct {
	Names        []string
	PlatformCode string
	Track        string
	Modes        map[int]bool // keyed by schedule.RouteMode, kept as int to avoid an import cycle
}

// Node is a single graph vertex: a coordinate, its weak component id
// (assigned by writeComponents), optional station metadata, and routing
// flags.
type Node struct {
	Lon, Lat  float64
	Component int32
	Station   *StationInfo
	Blocker   bool // routing forbidden through this node
	TurnCycle bool // U-turns allowed here
	Out       []EdgeID
}

// Edge is a single directed graph edge: polyline geometry, precomputed
// length, road/rail class, one-way tag, restriction flag, and static
// line-set.
type Edge struct {
	From, To   NodeID
	Points     []Point
	Length     float64
	Level      int32
	OneWay     OneWay
	Restricted bool
	LineSet    map[string]bool

	// OneWayPenalty multiplies Length in the router's cost function:
	// cost(next_edge) = next_edge.length × next_edge.one_way_penalty.
	// Always 1 except on the wrong-direction edge of a one-way pair (the
	// shadow of a forward one-way edge, or the original of a reverse
	// one-way edge), where writeOneWayPenalties sets it to the configured
	// penalty factor instead of deleting the edge outright.
	OneWayPenalty float64

	// NoLinePenalty multiplies routing cost when LineSet is empty. 1 when
	// unset (no punishment) or when LineSet is non-empty.
	NoLinePenalty float64

	// Reversed marks this edge as the synthetic shadow created by
	// writeOppositeDirectionEdges for a forward edge; when that edge was
	// one-way in the source data, the wrong-direction edge of the pair is
	// penalized (not deleted) by writeOneWayPenalties.
	Reversed bool

	// SourceWay is the OSM way id this edge was created from (0 for
	// synthetic edges: snap-station leaf edges, self-edges; a reverse
	// shadow carries its forward edge's SourceWay). Turn restrictions are resolved via SourceWay, since a
	// restriction names ways, not edges, and collapseEdges may later merge
	// several same-way edges into one.
	SourceWay uint64
}

// BBox is an axis-aligned bounding box in (lon, lat).
type BBox struct {
	MinLon, MinLat, MaxLon, MaxLat float64
}

// Pad returns a copy of b expanded by meters in every direction (approximated
// via a simple equirectangular degrees-per-meter conversion, adequate for
// the coarse padded-bbox test Pass A needs before the tighter geometry
// passes run).
func (b BBox) Pad(meters float64) BBox {
	const metersPerDegreeLat = 111320.0
	dLat := meters / metersPerDegreeLat
	dLon := dLat // adequate near-equator approximation; exact cos(lat) scaling
	// is unnecessary for a coarse ingest-time padding box.
	return BBox{
		MinLon: b.MinLon - dLon,
		MinLat: b.MinLat - dLat,
		MaxLon: b.MaxLon + dLon,
		MaxLat: b.MaxLat + dLat,
	}
}

// Contains reports whether p lies within b (inclusive).
func (b BBox) Contains(p Point) bool {
	return p.Lon >= b.MinLon && p.Lon <= b.MaxLon && p.Lat >= b.MinLat && p.Lat <= b.MaxLat
}
