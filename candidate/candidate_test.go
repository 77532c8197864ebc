package candidate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitshape/shapegen/tgraph"
)

func buildLineGraph() *tgraph.Graph {
	g := tgraph.NewGraph()
	a := g.AddNode(0, 0)
	b := g.AddNode(0, 0.01)
	g.AddEdge(a, b, []tgraph.Point{{Lon: 0, Lat: 0}, {Lon: 0, Lat: 0.01}}, 0, tgraph.OneWayBidir, 1)
	return g
}

func TestGenerateFindsNearbyEdgeWithProgress(t *testing.T) {
	g := buildLineGraph()
	idx := NewIndex(g, 200)

	params := Params{
		Sigma:                20,
		StationDistPenFactor: 3,
		BaseGeoPenalty:       func(d float64) float64 { return d },
	}
	stop := Stop{Lon: 0.00001, Lat: 0.005}

	group := Generate(g, idx, stop, params, false)
	require.Len(t, group, 1)
	assert.Equal(t, tgraph.EdgeID(0), group[0].Edge)
	assert.InDelta(t, 0.5, group[0].Progress, 0.05)
}

func TestGenerateEndpointAddsFreePoint(t *testing.T) {
	g := buildLineGraph()
	idx := NewIndex(g, 200)
	params := Params{Sigma: 20, StationDistPenFactor: 3, BaseGeoPenalty: func(d float64) float64 { return d }}

	group := Generate(g, idx, Stop{Lon: 0, Lat: 0.005}, params, true)
	require.NotEmpty(t, group)
	last := group[len(group)-1]
	assert.True(t, last.FreePoint)
	assert.Equal(t, 0.0, last.Penalty)
}

func TestGenerateOutOfRadiusYieldsEmptyGroup(t *testing.T) {
	g := buildLineGraph()
	idx := NewIndex(g, 200)
	params := Params{Sigma: 1, StationDistPenFactor: 1, BaseGeoPenalty: func(d float64) float64 { return d }}

	group := Generate(g, idx, Stop{Lon: 5, Lat: 5}, params, false)
	assert.Empty(t, group)
}

func TestIndexQueryDeduplicatesMultiCellEdges(t *testing.T) {
	g := tgraph.NewGraph()
	a := g.AddNode(0, 0)
	b := g.AddNode(0, 0.02)
	g.AddEdge(a, b, []tgraph.Point{{Lon: 0, Lat: 0}, {Lon: 0, Lat: 0.01}, {Lon: 0, Lat: 0.02}}, 0, tgraph.OneWayBidir, 1)

	idx := NewIndex(g, 50)
	ids := idx.Query(tgraph.Point{Lon: 0, Lat: 0.01}, 500)
	seen := map[tgraph.EdgeID]bool{}
	for _, id := range ids {
		require.False(t, seen[id], "duplicate edge id in query result")
		seen[id] = true
	}
}
