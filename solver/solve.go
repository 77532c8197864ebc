// Package solver implements the trip solver: given a trip's candidate
// groups and the hop router, choose one candidate per stop minimizing
// total penalty+hop cost under one of three interchangeable strategies,
// then re-invoke the router in full-path mode to assemble the trip's edge
// path.
package solver

import (
	"github.com/transitshape/shapegen/candidate"
	"github.com/transitshape/shapegen/router"
	"github.com/transitshape/shapegen/tgraph"
)

// Strategy selects which of the three interchangeable solve algorithms
// composes the per-hop cost matrices into a chosen candidate sequence.
type Strategy int

const (
	// StrategyGlobal is the exact layered-DAG Dijkstra.
	StrategyGlobal Strategy = iota
	// StrategyGreedy picks the locally cheapest successor at each layer,
	// one pass, no backtracking.
	StrategyGreedy
	// StrategyViterbi runs forward Viterbi / argmax-backward over the same
	// layers, in log-probability space.
	StrategyViterbi
)

// Options bundles the solver's configuration.
type Options struct {
	Strategy Strategy
	Cost     router.CostParams

	// MaxHopCost bounds each individual router call (router.Options.MaxCost);
	// <= 0 means unbounded.
	MaxHopCost float64

	// Lambda scales the HMM/Viterbi transition exponent: transition =
	// Mk[i,j] re-exp'd as exp(−λ·cost). <= 0 defaults to 1.
	Lambda float64

	// Fast selects router.HopsFast instead of router.Hops when composing
	// the per-hop matrices, trading completeness for speed.
	Fast bool

	// Cache, if set, is shared across every router call this solve makes.
	Cache *router.HopCache

	// Bounds, if set, is forwarded to every router call (see
	// router.Options.Bounds); the solver never computes it itself.
	Bounds *router.ComponentLowerBounds
}

func (o Options) lambda() float64 {
	if o.Lambda <= 0 {
		return 1
	}
	return o.Lambda
}

func (o Options) routerOptions(withPaths bool) router.Options {
	return router.Options{
		Cost:      o.Cost,
		MaxCost:   o.MaxHopCost,
		WithPaths: withPaths,
		Cache:     o.Cache,
		Bounds:    o.Bounds,
	}
}

// Result is one trip's solve outcome.
type Result struct {
	// Dropped is set when some hop matrix has an entirely unreachable
	// column, or no strategy could complete a full candidate sequence.
	Dropped bool

	// Edges is the concatenated edge path across every hop, the seam edge
	// between two hops counted once. Nil when Dropped, and also nil for a
	// single-stop trip (no hops to solve).
	Edges []tgraph.EdgeID

	// Cost is the chosen sequence's total penalty+hop-cost score (under
	// StrategyViterbi the hop-cost terms are scaled by Lambda; the
	// candidate penalties are not).
	Cost float64

	// Iterations is the cumulative Dijkstra iteration count across every
	// router call this solve made.
	Iterations int
}

// Solve runs the full per-trip pipeline: compose per-hop matrices, check
// for a dropped trip, solve for a candidate sequence under opts.Strategy,
// then re-invoke the router in full-path mode on the chosen transitions.
func Solve(g *tgraph.Graph, groups []candidate.Group, opts Options) Result {
	if len(groups) == 0 {
		return Result{Dropped: true}
	}
	for _, grp := range groups {
		if len(grp) == 0 {
			return Result{Dropped: true}
		}
	}
	if len(groups) == 1 {
		return Result{}
	}

	matrices := composeMatrices(g, groups, opts)
	iterations := 0
	for _, m := range matrices {
		iterations += m.Iterations
	}
	if anyColumnAllUnreachable(matrices) {
		return Result{Dropped: true, Iterations: iterations}
	}

	var chosen []int
	var cost float64
	var ok bool
	switch opts.Strategy {
	case StrategyGreedy:
		chosen, cost, ok = solveGreedy(groups, matrices)
	case StrategyViterbi:
		chosen, cost, ok = solveViterbi(groups, matrices, opts.lambda())
	default:
		chosen, cost, ok = solveGlobal(groups, matrices)
	}
	if !ok {
		return Result{Dropped: true, Iterations: iterations}
	}

	edges, pathIters := reconstructPath(g, groups, chosen, opts)
	iterations += pathIters

	return Result{Edges: edges, Cost: cost, Iterations: iterations}
}

func composeMatrices(g *tgraph.Graph, groups []candidate.Group, opts Options) []*router.Matrix {
	matrices := make([]*router.Matrix, len(groups)-1)
	for k := 0; k < len(groups)-1; k++ {
		if opts.Fast {
			matrices[k] = router.HopsFast(g, groups[k], groups[k+1], nil, opts.routerOptions(false))
		} else {
			matrices[k] = router.Hops(g, groups[k], groups[k+1], nil, opts.routerOptions(false))
		}
	}
	return matrices
}

// anyColumnAllUnreachable reports the trip's failure condition: if any
// admissibility check leaves a whole column of Mk at +∞, the trip is
// dropped — checked across every hop matrix, not just one.
func anyColumnAllUnreachable(matrices []*router.Matrix) bool {
	for _, m := range matrices {
		for j := 0; j < m.Cols; j++ {
			if m.AllUnreachable(j) {
				return true
			}
		}
	}
	return false
}

// reconstructPath re-invokes the router in full-path mode on just the
// chosen (i,j) transitions, concatenating the resulting edge lists and
// collapsing the shared seam edge between consecutive hops.
func reconstructPath(g *tgraph.Graph, groups []candidate.Group, chosen []int, opts Options) ([]tgraph.EdgeID, int) {
	var edges []tgraph.EdgeID
	iters := 0
	for k := 0; k < len(chosen)-1; k++ {
		from := []candidate.Candidate{groups[k][chosen[k]]}
		to := []candidate.Candidate{groups[k+1][chosen[k+1]]}
		m := router.Hops(g, from, to, nil, opts.routerOptions(true))
		iters += m.Iterations
		edges = appendHopPath(edges, m.Paths[0][0])
	}
	return edges, iters
}

func appendHopPath(edges []tgraph.EdgeID, hop []tgraph.EdgeID) []tgraph.EdgeID {
	if len(hop) == 0 {
		return edges
	}
	if len(edges) > 0 && edges[len(edges)-1] == hop[0] {
		hop = hop[1:]
	}
	return append(edges, hop...)
}
