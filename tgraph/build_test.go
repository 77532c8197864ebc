package tgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitshape/shapegen/osmfeed"
)

func keepAll(map[string]string) bool { return true }

func hasTag(key, val string) osmfeed.TagPredicate {
	return func(tags map[string]string) bool { return tags[key] == val }
}

// simpleOpts keeps every way and station node, with a generous bbox pad and
// grid size chosen not to coalesce the fixture's widely spaced test nodes.
func simpleOpts(bbox BBox) Options {
	return Options{
		BBox: bbox,
		Read: osmfeed.ReadOptions{
			KeepWay:                 keepAll,
			KeepRel:                 keepAll,
			StationNode:             hasTag("station", "yes"),
			GridSizeMeters:          1,
			StationSnapRadiusMeters: 50,
			OneWayPunishFactor:      5,
			NoLinePunishFactor:      1,
			BBoxPadMeters:           10,
		},
	}
}

func TestBuildEmptyBBoxReturnsEmptyGraph(t *testing.T) {
	nodes := func(yield func(osmfeed.Node) bool) {
		yield(osmfeed.Node{ID: 1, Lon: 50, Lat: 50})
	}
	ways := func(yield func(osmfeed.Way) bool) {}
	rels := func(yield func(osmfeed.Rel) bool) {}

	g := Build(nodes, ways, rels, simpleOpts(BBox{MinLon: 0, MinLat: 0, MaxLon: 1, MaxLat: 1}), nil)
	require.NotNil(t, g)
	assert.Empty(t, g.Nodes)
	assert.Empty(t, g.Edges)
}

func TestBuildSimpleWayProducesBidirectionalEdges(t *testing.T) {
	osmNodes := []osmfeed.Node{
		{ID: 1, Lon: 0, Lat: 0},
		{ID: 2, Lon: 0, Lat: 0.01},
		{ID: 3, Lon: 0, Lat: 0.02},
	}
	nodes := func(yield func(osmfeed.Node) bool) {
		for _, n := range osmNodes {
			if !yield(n) {
				return
			}
		}
	}
	ways := func(yield func(osmfeed.Way) bool) {
		yield(osmfeed.Way{ID: 100, NodeRefs: []uint64{1, 2, 3}})
	}
	rels := func(yield func(osmfeed.Rel) bool) {}

	bbox := BBox{MinLon: -1, MinLat: -1, MaxLon: 1, MaxLat: 1}
	g := Build(nodes, ways, rels, simpleOpts(bbox), nil)

	require.NotEmpty(t, g.Nodes)
	require.NotEmpty(t, g.Edges)

	// Every edge's polyline endpoints must coincide with its node coords,
	// surviving the whole post-processing pipeline.
	for i := range g.Edges {
		e := &g.Edges[i]
		from, to := g.Node(e.From), g.Node(e.To)
		require.NotNil(t, from)
		require.NotNil(t, to)
		assert.InDelta(t, from.Lon, e.Points[0].Lon, 1e-9)
		assert.InDelta(t, from.Lat, e.Points[0].Lat, 1e-9)
		assert.InDelta(t, to.Lon, e.Points[len(e.Points)-1].Lon, 1e-9)
		assert.InDelta(t, to.Lat, e.Points[len(e.Points)-1].Lat, 1e-9)
	}

	// Every non-restricted edge has a reverse counterpart somewhere in the
	// edge list.
	seen := make(map[[2]NodeID]bool)
	for _, e := range g.Edges {
		seen[[2]NodeID{e.From, e.To}] = true
	}
	for _, e := range g.Edges {
		if e.Restricted {
			continue
		}
		assert.True(t, seen[[2]NodeID{e.To, e.From}], "missing reverse shadow for %v->%v", e.From, e.To)
	}

	// writeOppositeDirectionEdges is idempotent: calling it again directly
	// must not add or remove any edges.
	before := len(g.Edges)
	writeOppositeDirectionEdges(g)
	assert.Equal(t, before, len(g.Edges), "second call to writeOppositeDirectionEdges changed edge count")
}

func TestBuildWayShorterThanTwoNodesSkipped(t *testing.T) {
	nodes := func(yield func(osmfeed.Node) bool) {
		yield(osmfeed.Node{ID: 1, Lon: 0, Lat: 0})
	}
	ways := func(yield func(osmfeed.Way) bool) {
		yield(osmfeed.Way{ID: 1, NodeRefs: []uint64{1}})
	}
	rels := func(yield func(osmfeed.Rel) bool) {}

	g := Build(nodes, ways, rels, simpleOpts(BBox{MinLon: -1, MinLat: -1, MaxLon: 1, MaxLat: 1}), nil)
	assert.Empty(t, g.Edges)
}

func TestBuildTurnRestrictionAppliedAtViaNode(t *testing.T) {
	osmNodes := []osmfeed.Node{
		{ID: 1, Lon: 0, Lat: 0},
		{ID: 2, Lon: 0, Lat: 0.01}, // via
		{ID: 3, Lon: 0.01, Lat: 0.01},
		{ID: 4, Lon: -0.01, Lat: 0.01},
	}
	nodes := func(yield func(osmfeed.Node) bool) {
		for _, n := range osmNodes {
			if !yield(n) {
				return
			}
		}
	}
	ways := func(yield func(osmfeed.Way) bool) {
		if !yield(osmfeed.Way{ID: 10, NodeRefs: []uint64{1, 2}}) {
			return
		}
		if !yield(osmfeed.Way{ID: 20, NodeRefs: []uint64{2, 3}}) {
			return
		}
		yield(osmfeed.Way{ID: 30, NodeRefs: []uint64{2, 4}})
	}
	rels := func(yield func(osmfeed.Rel) bool) {
		yield(osmfeed.Rel{
			ID: 1,
			Members: []osmfeed.Member{
				{Type: osmfeed.MemberWay, ID: 10, Role: "from"},
				{Type: osmfeed.MemberNode, ID: 2, Role: "via"},
				{Type: osmfeed.MemberWay, ID: 20, Role: "to"},
			},
			Tags: map[string]string{"restriction": "no_left_turn"},
		})
	}

	opts := simpleOpts(BBox{MinLon: -1, MinLat: -1, MaxLon: 1, MaxLat: 1})
	opts.Read.KeepRel = keepAll
	opts.Read.RestrictionNegative = keepAll

	g := Build(nodes, ways, rels, opts, nil)

	viaInstances := 0
	for i := range g.Nodes {
		if g.Nodes[i].Lon == 0 && g.Nodes[i].Lat == 0.01 {
			viaInstances++
			assert.False(t, g.Restrictions.Allowed(NodeID(i), 10, 20))
			assert.True(t, g.Restrictions.Allowed(NodeID(i), 10, 30))
		}
	}
	assert.Greater(t, viaInstances, 0)
}
