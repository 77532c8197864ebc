package tgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddEdgeEndpointsMatchNodeCoords(t *testing.T) {
	g := NewGraph()
	a := g.AddNode(0, 0)
	b := g.AddNode(1, 1)
	e := g.AddEdge(a, b, []Point{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 1}}, 1, OneWayBidir, 7)

	edge := g.Edge(e)
	require.NotNil(t, edge)
	assert.Equal(t, g.Node(a).Lon, edge.Points[0].Lon)
	assert.Equal(t, g.Node(b).Lat, edge.Points[len(edge.Points)-1].Lat)
	assert.Contains(t, g.Node(a).Out, e)
}

func TestNodeEdgeOutOfRangeReturnsNil(t *testing.T) {
	g := NewGraph()
	g.AddNode(0, 0)
	assert.Nil(t, g.Node(NodeID(5)))
	assert.Nil(t, g.Edge(EdgeID(0)))
}

func TestComponentsEqual(t *testing.T) {
	g := NewGraph()
	a := g.AddNode(0, 0)
	b := g.AddNode(1, 1)
	c := g.AddNode(10, 10)
	e1 := g.AddEdge(a, b, []Point{{0, 0}, {1, 1}}, 0, OneWayBidir, 1)
	e2 := g.AddEdge(c, c, []Point{{10, 10}, {10, 10}}, 0, OneWayBidir, 2)

	g.Nodes[a].Component = 0
	g.Nodes[b].Component = 0
	g.Nodes[c].Component = 1

	assert.True(t, g.ComponentsEqual(e1, e1))
	assert.False(t, g.ComponentsEqual(e1, e2))
}

func TestPolylineLength(t *testing.T) {
	pts := []Point{{Lon: 0, Lat: 0}, {Lon: 0, Lat: 1}}
	length := PolylineLength(pts)
	assert.InDelta(t, 111194.9, length, 500) // ~1 degree latitude in meters
}
