package tgraph

import (
	"github.com/transitshape/shapegen/osmfeed"
	"github.com/transitshape/shapegen/telemetry"
)

// Options bundles the tunables the post-processing pipeline needs beyond
// what osmfeed.ReadOptions classifies per-entity.
type Options struct {
	Read osmfeed.ReadOptions
	BBox BBox
}

// buildState carries the scratch bookkeeping used only during Build, kept
// out of the returned Graph so the Graph itself stays a plain arena (spec
// §4.1 "Observable side effects: mutates the output graph; writes no
// files").
type buildState struct {
	g    *Graph
	opts osmfeed.ReadOptions
	bbox BBox
	log  *telemetry.Logger

	nodeInBBox    map[uint64]bool
	nodeFlags     map[uint64]osmfeed.NodeFlag
	nodeCoord     map[uint64]Point
	nodeInstances map[uint64][]NodeID
	nodeDedup     map[uint64]NodeID
	stationOSMIDs []uint64

	relKept      []osmfeed.Rel
	relFlags     []osmfeed.RelFlag
	relNodeIdx   map[uint64][]int
	relWayIdx    map[uint64][]int

	pendingRestrictions []pendingRestriction
	pendingViaWay       map[uint64][]viaWayTemplate
}

type pendingRestriction struct {
	viaNodeOSM     uint64
	fromWay, toWay uint64
	positive       bool
}

type viaWayTemplate struct {
	fromWay, toWay uint64
	positive       bool
}

// Build runs the three-pass ingest (Pass A, B, C) followed by the
// ten-step post-processing pipeline, and returns the resulting Graph. nodes/
// ways/rels are the three independently-iterable entity streams. A bbox
// with no nodes inside it yields an empty, non-nil Graph rather than an
// error.
func Build(nodes osmfeed.NodeSeq, ways osmfeed.WaySeq, rels osmfeed.RelSeq, opts Options, log *telemetry.Logger) *Graph {
	if log == nil {
		log = telemetry.Nop()
	}
	st := &buildState{
		g:             NewGraph(),
		opts:          opts.Read,
		bbox:          opts.BBox.Pad(opts.Read.BBoxPadMeters),
		log:           log,
		nodeInBBox:    make(map[uint64]bool),
		nodeFlags:     make(map[uint64]osmfeed.NodeFlag),
		nodeCoord:     make(map[uint64]Point),
		nodeInstances: make(map[uint64][]NodeID),
		nodeDedup:     make(map[uint64]NodeID),
		relNodeIdx:    make(map[uint64][]int),
		relWayIdx:     make(map[uint64][]int),
		pendingViaWay: make(map[uint64][]viaWayTemplate),
	}
	st.g.BBox = st.bbox

	st.passA(nodes)
	st.passB(rels)
	if len(st.nodeInBBox) == 0 {
		log.Warnf("tgraph: bbox contains no nodes, returning empty graph")
		return st.g
	}
	st.passC(ways)
	st.resolvePendingRestrictions()

	g := st.g
	fixGaps(g, opts.Read.GridSizeMeters)
	snapStations(g, st.stationOSMIDs, st.nodeCoord, opts.Read.StationSnapRadiusMeters)
	collapseEdges(g)
	deleteOrphanNodes(g)
	writeComponents(g)
	simplifyGeometries(g, opts.Read.GridSizeMeters)
	writeOppositeDirectionEdges(g)
	writeOneWayPenalties(g, opts.Read.OneWayPunishFactor)
	if opts.Read.NoLinePunishFactor != 1 {
		writeNoLinePenalties(g, opts.Read.NoLinePunishFactor)
	}
	writeSelfEdges(g)

	return g
}
