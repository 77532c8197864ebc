package router

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitshape/shapegen/candidate"
	"github.com/transitshape/shapegen/tgraph"
)

// buildScenarioGraph builds the four-node, three-edge graph shared by
// scenarios S1-S5: A(0,0), B(0,10), C(10,0), D(20,0), eA:A->C(10),
// eB:B->C(6), eC:C->D(100), all in one weakly connected component.
func buildScenarioGraph() (g *tgraph.Graph, eA, eB, eC tgraph.EdgeID) {
	g = tgraph.NewGraph()
	a := g.AddNode(0, 0)
	b := g.AddNode(0, 10)
	c := g.AddNode(10, 0)
	d := g.AddNode(20, 0)

	eA = g.AddEdge(a, c, []tgraph.Point{{Lon: 0, Lat: 0}, {Lon: 10, Lat: 0}}, 0, tgraph.OneWayBidir, 1)
	g.Edge(eA).Length = 10
	eB = g.AddEdge(b, c, []tgraph.Point{{Lon: 0, Lat: 10}, {Lon: 10, Lat: 0}}, 0, tgraph.OneWayBidir, 2)
	g.Edge(eB).Length = 6
	eC = g.AddEdge(c, d, []tgraph.Point{{Lon: 10, Lat: 0}, {Lon: 20, Lat: 0}}, 0, tgraph.OneWayBidir, 3)
	g.Edge(eC).Length = 100
	return g, eA, eB, eC
}

func TestS1SameGraphDistinctRowCosts(t *testing.T) {
	g, eA, eB, eC := buildScenarioGraph()
	from := []candidate.Candidate{{Edge: eA, Progress: 0}, {Edge: eB, Progress: 0}}
	to := []candidate.Candidate{{Edge: eC, Progress: 0}}

	m := Hops(g, from, to, nil, Options{})
	require.Equal(t, 2, m.Rows)
	require.Equal(t, 1, m.Cols)
	assert.Equal(t, 10.0, m.Cost[0][0])
	assert.Equal(t, 6.0, m.Cost[1][0])
	assert.Equal(t, StatusComputed, m.Status[0][0])
	assert.Equal(t, StatusComputed, m.Status[1][0])
}

func TestS2ProjectionOntoTarget(t *testing.T) {
	g, eA, eB, eC := buildScenarioGraph()
	from := []candidate.Candidate{{Edge: eA, Progress: 0}, {Edge: eB, Progress: 0}}
	to := []candidate.Candidate{{Edge: eC, Progress: 0.5}}

	m := Hops(g, from, to, nil, Options{})
	assert.InDelta(t, 60.0, m.Cost[0][0], 1e-9)
	assert.InDelta(t, 56.0, m.Cost[1][0], 1e-9)
}

func TestS3ProjectionAtSource(t *testing.T) {
	g, eA, eB, eC := buildScenarioGraph()
	from := []candidate.Candidate{
		{Edge: eA, Progress: 0.5},
		{Edge: eB, Progress: 2.0 / 3.0},
	}
	to := []candidate.Candidate{{Edge: eC, Progress: 0}}

	m := Hops(g, from, to, nil, Options{})
	assert.InDelta(t, 5.0, m.Cost[0][0], 1e-9)
	assert.InDelta(t, 2.0, m.Cost[1][0], 1e-9)
}

func TestS4FastHopColumnPruning(t *testing.T) {
	g, eA, eB, eC := buildScenarioGraph()
	from := []candidate.Candidate{{Edge: eA, Progress: 0}, {Edge: eB, Progress: 0}}
	to := []candidate.Candidate{{Edge: eC, Progress: 0}}

	m := HopsFast(g, from, to, []float64{0, 0}, Options{})
	assert.True(t, math.IsInf(m.Cost[0][0], 1))
	assert.Equal(t, StatusNotComputed, m.Status[0][0])
	assert.Equal(t, 6.0, m.Cost[1][0])
	assert.Equal(t, StatusComputed, m.Status[1][0])
}

func TestS5InitialCostComposition(t *testing.T) {
	g, eA, eB, eC := buildScenarioGraph()
	from := []candidate.Candidate{
		{Edge: eA, Progress: 0.5},
		{Edge: eA, Progress: 0},
		{Edge: eB, Progress: 0},
	}
	to := []candidate.Candidate{{Edge: eC, Progress: 0}}

	m := HopsFast(g, from, to, []float64{6, 0, 20}, Options{})
	assert.InDelta(t, 5.0, m.Cost[0][0], 1e-9)
	assert.Equal(t, StatusComputed, m.Status[0][0])
	assert.InDelta(t, 10.0, m.Cost[1][0], 1e-9)
	assert.Equal(t, StatusComputed, m.Status[1][0])
	assert.True(t, math.IsInf(m.Cost[2][0], 1))
	assert.Equal(t, StatusNotComputed, m.Status[2][0])
}

func TestSameEdgeClosedFormSkipsSearch(t *testing.T) {
	g, eA, _, _ := buildScenarioGraph()
	from := []candidate.Candidate{{Edge: eA, Progress: 0.2}}
	to := []candidate.Candidate{{Edge: eA, Progress: 0.7}}

	m := Hops(g, from, to, nil, Options{WithPaths: true})
	assert.InDelta(t, 5.0, m.Cost[0][0], 1e-9) // 0.5 * 10
	require.Len(t, m.Paths[0][0], 1)
	assert.Equal(t, eA, m.Paths[0][0][0])
}

func TestSearchedPathIncludesTargetEdge(t *testing.T) {
	g, _, eB, eC := buildScenarioGraph()
	from := []candidate.Candidate{{Edge: eB, Progress: 0}}
	to := []candidate.Candidate{{Edge: eC, Progress: 0.5}}

	m := Hops(g, from, to, nil, Options{WithPaths: true})
	require.Equal(t, []tgraph.EdgeID{eB, eC}, m.Paths[0][0])
}

func TestFreePointsCoincideCostZero(t *testing.T) {
	g, _, _, _ := buildScenarioGraph()
	p := tgraph.Point{Lon: 5, Lat: 5}
	from := []candidate.Candidate{{FreePoint: true, Point: p}}
	to := []candidate.Candidate{{FreePoint: true, Point: p}}

	m := Hops(g, from, to, nil, Options{})
	assert.Equal(t, 0.0, m.Cost[0][0])
	assert.Equal(t, StatusComputed, m.Status[0][0])
}

func TestDifferentComponentsUnreachableWithoutSearch(t *testing.T) {
	g, eA, _, eC := buildScenarioGraph()
	g.Nodes[g.Edge(eC).From].Component = 1 // split eC into a separate component

	from := []candidate.Candidate{{Edge: eA, Progress: 0}}
	to := []candidate.Candidate{{Edge: eC, Progress: 0}}

	m := Hops(g, from, to, nil, Options{})
	assert.True(t, math.IsInf(m.Cost[0][0], 1))
	assert.Equal(t, StatusUnreachable, m.Status[0][0])
}

func TestMatrixAllUnreachable(t *testing.T) {
	m := newMatrix(2, 1, false)
	m.Status[0][0] = StatusUnreachable
	m.Status[1][0] = StatusNotComputed
	assert.True(t, m.AllUnreachable(0))
	m.Status[1][0] = StatusComputed
	assert.False(t, m.AllUnreachable(0))
}
