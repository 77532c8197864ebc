package solver

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitshape/shapegen/candidate"
	"github.com/transitshape/shapegen/router"
	"github.com/transitshape/shapegen/tgraph"
)

// buildTripGraph mirrors router's own scenario fixture: A(0,0), B(0,10),
// C(10,0), D(20,0), eA:A->C(10), eB:B->C(6), eC:C->D(100), one component.
func buildTripGraph() (g *tgraph.Graph, eA, eB, eC tgraph.EdgeID) {
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

func matrix(rows, cols int, cost [][]float64, status [][]router.CellStatus) *router.Matrix {
	return &router.Matrix{Rows: rows, Cols: cols, Cost: cost, Status: status}
}

func computedRow(vals ...float64) ([]float64, []router.CellStatus) {
	st := make([]router.CellStatus, len(vals))
	for i := range st {
		st[i] = router.StatusComputed
	}
	return vals, st
}

func TestSolveGlobalFindsExactMinimum(t *testing.T) {
	groups := []candidate.Group{
		{{Penalty: 5}, {Penalty: 1}}, // idx0 expensive-entry, idx1 cheap-entry
		{{Penalty: 0}},
	}
	c0, s0 := computedRow(10)
	c1, s1 := computedRow(6)
	m := matrix(2, 1, [][]float64{c0, c1}, [][]router.CellStatus{s0, s1})

	chosen, cost, ok := solveGlobal(groups, []*router.Matrix{m})
	require.True(t, ok)
	// idx0: 5+10=15, idx1: 1+6=7 -> idx1 wins
	assert.Equal(t, []int{1, 0}, chosen)
	assert.InDelta(t, 7.0, cost, 1e-9)
}

func TestSolveGlobalDropsWhenNoPathReachesLastLayer(t *testing.T) {
	groups := []candidate.Group{
		{{Penalty: 0}},
		{{Penalty: 0}},
	}
	m := matrix(1, 1, [][]float64{{math.Inf(1)}}, [][]router.CellStatus{{router.StatusUnreachable}})
	_, _, ok := solveGlobal(groups, []*router.Matrix{m})
	assert.False(t, ok)
}

func TestSolveGreedyOnePassNoBacktrack(t *testing.T) {
	// Greedy locks onto the lowest-penalty entry candidate (idx0) and never
	// reconsiders, even though idx1's slightly higher entry penalty leads to
	// a far cheaper hop — the global optimum picks idx1.
	groups := []candidate.Group{
		{{Penalty: 0}, {Penalty: 2}},
		{{Penalty: 0}},
	}
	c0, s0 := computedRow(100)
	c1, s1 := computedRow(1)
	m := matrix(2, 1, [][]float64{c0, c1}, [][]router.CellStatus{s0, s1})

	chosen, cost, ok := solveGreedy(groups, []*router.Matrix{m})
	require.True(t, ok)
	assert.Equal(t, []int{0, 0}, chosen) // idx0 wins on entry penalty alone
	assert.InDelta(t, 100.0, cost, 1e-9) // 0 + 100, worse than global's 2 + 1 = 3

	gChosen, gCost, ok := solveGlobal(groups, []*router.Matrix{m})
	require.True(t, ok)
	assert.Equal(t, []int{1, 0}, gChosen)
	assert.InDelta(t, 3.0, gCost, 1e-9)
}

func TestSolveGreedyDropsWhenChosenRowHasNoSuccessor(t *testing.T) {
	groups := []candidate.Group{
		{{Penalty: 0}},
		{{Penalty: 0}},
	}
	m := matrix(1, 1, [][]float64{{math.Inf(1)}}, [][]router.CellStatus{{router.StatusNotComputed}})
	_, _, ok := solveGreedy(groups, []*router.Matrix{m})
	assert.False(t, ok)
}

func TestSolveViterbiAgreesWithGlobalWhenUnambiguous(t *testing.T) {
	groups := []candidate.Group{
		{{Penalty: 5}, {Penalty: 1}},
		{{Penalty: 0}},
	}
	c0, s0 := computedRow(10)
	c1, s1 := computedRow(6)
	m := matrix(2, 1, [][]float64{c0, c1}, [][]router.CellStatus{s0, s1})

	chosen, _, ok := solveViterbi(groups, []*router.Matrix{m}, 1)
	require.True(t, ok)
	assert.Equal(t, []int{1, 0}, chosen)
}

func TestSolveViterbiDropsWhenFinalLayerUnreachable(t *testing.T) {
	groups := []candidate.Group{
		{{Penalty: 0}},
		{{Penalty: 0}},
	}
	m := matrix(1, 1, [][]float64{{math.Inf(1)}}, [][]router.CellStatus{{router.StatusUnreachable}})
	_, _, ok := solveViterbi(groups, []*router.Matrix{m}, 1)
	assert.False(t, ok)
}

func TestSolveEndToEndPicksCheaperRowAndReconstructsPath(t *testing.T) {
	g, eA, eB, eC := buildTripGraph()
	groups := []candidate.Group{
		{{Edge: eA, Progress: 0, Penalty: 5}, {Edge: eB, Progress: 0, Penalty: 1}},
		{{Edge: eC, Progress: 0, Penalty: 0}},
		{{Edge: eC, Progress: 0.5, Penalty: 0}},
	}

	res := Solve(g, groups, Options{Strategy: StrategyGlobal})
	require.False(t, res.Dropped)
	// hop0 best via eB (1+6=7), hop1 same-edge closed form 0.5*100=50
	assert.InDelta(t, 57.0, res.Cost, 1e-9)
	require.NotEmpty(t, res.Edges)
	assert.Equal(t, eB, res.Edges[0])
	assert.Equal(t, eC, res.Edges[len(res.Edges)-1])

	pts := Polyline(g, res.Edges)
	require.NotEmpty(t, pts)
}

func TestSolveDropsOnAllUnreachableColumn(t *testing.T) {
	g, eA, _, eC := buildTripGraph()
	g.Nodes[g.Edge(eC).From].Component = 1 // eC unreachable from eA's component

	groups := []candidate.Group{
		{{Edge: eA, Progress: 0, Penalty: 0}},
		{{Edge: eC, Progress: 0, Penalty: 0}},
	}
	res := Solve(g, groups, Options{Strategy: StrategyGlobal})
	assert.True(t, res.Dropped)
	assert.Nil(t, res.Edges)
}

func TestSolveSingleStopTripIsTrivial(t *testing.T) {
	groups := []candidate.Group{{{Penalty: 0}}}
	res := Solve(nil, groups, Options{})
	assert.False(t, res.Dropped)
	assert.Nil(t, res.Edges)
}

func TestSolveEmptyGroupDrops(t *testing.T) {
	groups := []candidate.Group{{}, {{Penalty: 0}}}
	res := Solve(nil, groups, Options{})
	assert.True(t, res.Dropped)
}

func TestPolylineDropsDuplicateSeamPoint(t *testing.T) {
	g, eA, _, eC := buildTripGraph()
	pts := Polyline(g, []tgraph.EdgeID{eA, eC})
	// eA ends at (10,0), eC starts at (10,0): the seam point must not repeat.
	require.Len(t, pts, 3)
	assert.Equal(t, tgraph.Point{Lon: 10, Lat: 0}, pts[1])
}
