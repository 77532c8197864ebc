// Package router implements the hop router: point-to-multi-point
// constrained shortest paths over a tgraph.Graph, under a mode- and
// turn-aware cost function, with an LRU hop cache and two search modes
// (hops, hopsFast).
package router

import (
	"math"

	"github.com/transitshape/shapegen/tgraph"
)

// CostParams bundles the router's cost-function tunables. The router is
// parameterized over this and Graph rather than hardcoding either, so the
// same search code serves every mode's cost profile.
type CostParams struct {
	// TransitionPenalty scales (1 - lineOverlap(prev,next)).
	TransitionPenalty float64

	// FullTurnAngleDegrees is the interior-angle threshold past which
	// FullTurnPunishFactor applies.
	FullTurnAngleDegrees float64
	FullTurnPunishFactor float64

	// TurnRestrictionCost is added when a transition is forbidden at its
	// via-node. In this implementation forbidden transitions are already
	// excluded from successor expansion in the search's (node, via-edge)
	// state space and from the final turn onto a target edge, so this term
	// is never actually added on a path the
	// search returns; it is kept so edgeCost matches the full cost formula
	// when invoked directly (e.g. by tests) outside the search.
	TurnRestrictionCost float64
}

// edgeFullCost is an edge's base traversal cost: length scaled by its
// one-way and no-line penalty multipliers (tgraph's writeOneWayPenalties /
// writeNoLinePenalties annotate these; both default to 1).
func edgeFullCost(e *tgraph.Edge) float64 {
	return e.Length * e.OneWayPenalty * e.NoLinePenalty
}

// edgePartialCost is the proportional cost of traversing only the first
// (or last) progress fraction of e.
func edgePartialCost(e *tgraph.Edge, progress float64) float64 {
	return progress * edgeFullCost(e)
}

// lineOverlap returns the fraction of next's line-set that also appears in
// prev's line-set (1 if either set is empty, since there is nothing to
// mismatch).
func lineOverlap(prev, next *tgraph.Edge) float64 {
	if len(prev.LineSet) == 0 || len(next.LineSet) == 0 {
		return 1
	}
	shared := 0
	for line := range next.LineSet {
		if prev.LineSet[line] {
			shared++
		}
	}
	return float64(shared) / float64(len(next.LineSet))
}

// turnAngleDegrees computes the interior angle at via between the incoming
// direction (prev's final segment) and the outgoing direction (next's
// first segment), in the local planar approximation (adequate at
// intersection scale).
func turnAngleDegrees(prev, next *tgraph.Edge) float64 {
	inVec := lastSegmentVector(prev)
	outVec := firstSegmentVector(next)
	dot := inVec[0]*outVec[0] + inVec[1]*outVec[1]
	magIn := math.Hypot(inVec[0], inVec[1])
	magOut := math.Hypot(outVec[0], outVec[1])
	if magIn == 0 || magOut == 0 {
		return 0
	}
	cos := dot / (magIn * magOut)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

func lastSegmentVector(e *tgraph.Edge) [2]float64 {
	n := len(e.Points)
	if n < 2 {
		return [2]float64{0, 0}
	}
	a, b := e.Points[n-2], e.Points[n-1]
	return [2]float64{b.Lon - a.Lon, b.Lat - a.Lat}
}

func firstSegmentVector(e *tgraph.Edge) [2]float64 {
	if len(e.Points) < 2 {
		return [2]float64{0, 0}
	}
	a, b := e.Points[0], e.Points[1]
	return [2]float64{b.Lon - a.Lon, b.Lat - a.Lat}
}

// turnAnglePenalty is FullTurnPunishFactor once the interior angle between
// prev and next exceeds FullTurnAngleDegrees, else 0.
func turnAnglePenalty(prev, next *tgraph.Edge, params CostParams) float64 {
	if params.FullTurnAngleDegrees <= 0 {
		return 0
	}
	if turnAngleDegrees(prev, next) > params.FullTurnAngleDegrees {
		return params.FullTurnPunishFactor
	}
	return 0
}

// transitionCost is the cost of turning from prev onto next at via,
// excluding next's own length term.
func transitionCost(g *tgraph.Graph, prev, next *tgraph.Edge, via tgraph.NodeID, params CostParams) float64 {
	cost := (1 - lineOverlap(prev, next)) * params.TransitionPenalty
	cost += turnAnglePenalty(prev, next, params)
	if g.Restrictions.HasAny(via) && !g.Restrictions.Allowed(via, prev.SourceWay, next.SourceWay) {
		cost += params.TurnRestrictionCost
	}
	return cost
}

// edgeCost is the full cost formula for traversing next, arriving via prev
// at via:
//
//	cost(next) = next.length × next.onewaypenalty × next.nolinepenalty
//	           + (1 − lineOverlap(prev,next)) × transitionPen
//	           + turnAnglePenalty(prev, via, next)
//	           + (turnRestrCost if via forbids this turn else 0)
func edgeCost(g *tgraph.Graph, prev, next *tgraph.Edge, via tgraph.NodeID, params CostParams) float64 {
	return edgeFullCost(next) + transitionCost(g, prev, next, via, params)
}
