package router

import (
	"math"

	"github.com/transitshape/shapegen/candidate"
	"github.com/transitshape/shapegen/tgraph"
)

// Options bundles everything a hop search needs beyond the from/to candidate
// groups themselves.
type Options struct {
	Cost      CostParams
	MaxCost   float64 // <= 0 means unbounded
	WithPaths bool
	Cache     *HopCache // optional; nil disables caching

	// Bounds, if set, precomputes per-component lower-bound distances for
	// an A* heuristic. It is exposed for point-to-point callers; Hops
	// and HopsFast do not consume it directly, since both searches serve
	// every T[j] from a single per-row search and an A* heuristic only
	// helps when there is one fixed destination to bias toward.
	Bounds *ComponentLowerBounds
}

func (o Options) maxCost() float64 {
	if o.MaxCost <= 0 {
		return math.Inf(1)
	}
	return o.MaxCost
}

// freePointCoincide reports whether two free-point candidates sit at the
// same coordinate, the zero-cost special case: two free points at
// identical coordinates cost 0.
func freePointCoincide(a, b candidate.Candidate) bool {
	return a.FreePoint && b.FreePoint && a.Point.Lon == b.Point.Lon && a.Point.Lat == b.Point.Lat
}

// sameEdgeClosedForm returns the closed-form cost of two candidates known to
// sit on the same edge: the progress delta times the edge's penalized
// length, with no search required — a from/to pair on the same edge skips
// search entirely.
func sameEdgeClosedForm(g *tgraph.Graph, from, to candidate.Candidate) (float64, bool) {
	if from.FreePoint || to.FreePoint || from.Edge != to.Edge {
		return 0, false
	}
	e := g.Edge(from.Edge)
	if e == nil {
		return 0, false
	}
	delta := to.Progress - from.Progress
	if delta < 0 {
		return 0, false // wrong direction along the polyline; let search decide
	}
	return delta * edgeFullCost(e), true
}

// admissible applies the component-equality precondition: a from/to pair in
// different weakly connected components can never be reached, so search is
// skipped outright.
func admissible(g *tgraph.Graph, from, to candidate.Candidate) bool {
	if from.FreePoint || to.FreePoint {
		return true // a free point has no edge/component to check against
	}
	return g.ComponentsEqual(from.Edge, to.Edge)
}

// resolveFreePointPair handles the two combinations where at least one side
// is a free point. Free points only ever occur at a trip's first/last stop,
// where the solver does not invoke the hop router at all, so
// the only behavior this implementation needs to define is the zero-cost
// coincident case; any other free-point pairing is unreachable by search.
func resolveFreePointPair(from, to candidate.Candidate) (cost float64, handled bool) {
	if from.FreePoint && to.FreePoint {
		if freePointCoincide(from, to) {
			return 0, true
		}
		return math.Inf(1), true
	}
	if from.FreePoint || to.FreePoint {
		return math.Inf(1), true
	}
	return 0, false
}

// rowSeed computes the entry edge and total (init-inclusive) seed cost for
// one from-candidate, the cost fed into runSearch:
// init[i] + (1 − F[i].progress) × F[i].edge.length.
func rowSeed(g *tgraph.Graph, f candidate.Candidate, initCost float64) (tgraph.EdgeID, float64, bool) {
	if f.FreePoint {
		return 0, 0, false
	}
	e := g.Edge(f.Edge)
	if e == nil {
		return 0, 0, false
	}
	return f.Edge, initCost + (1-f.Progress)*edgeFullCost(e), true
}

// rowResult is one from-candidate's full search outcome: the raw
// init-inclusive total cost to every column.
type rowResult struct {
	totalCost []float64 // per column, init-inclusive; +Inf if unreached
	at        []state
	found     []bool
	iters     int
	search    searchResult // retained only so Hops can reconstruct paths
}

// runRow runs one from-candidate's full search (or resolves it via a
// special case) and evaluates every column against it.
func runRow(g *tgraph.Graph, f candidate.Candidate, initCost float64, to []candidate.Candidate, opts Options) rowResult {
	out := rowResult{totalCost: make([]float64, len(to)), at: make([]state, len(to)), found: make([]bool, len(to))}
	for j := range out.totalCost {
		out.totalCost[j] = math.Inf(1)
	}

	eid, seedTotal, ok := rowSeed(g, f, initCost)
	needSearch := false
	for _, t := range to {
		_, special := resolveFreePointPair(f, t)
		_, same := sameEdgeClosedForm(g, f, t)
		if !special && !same && admissible(g, f, t) {
			needSearch = true
			break
		}
	}
	var res searchResult
	if ok && needSearch {
		res = runSearch(g, []seed{{edge: eid, cost: seedTotal}}, opts.Cost, opts.maxCost(), nil)
		out.iters = res.iters
		out.search = res
	}

	for j, t := range to {
		if cost, handled := resolveFreePointPair(f, t); handled {
			out.totalCost[j] = initCost + cost
			out.found[j] = !math.IsInf(cost, 1)
			continue
		}
		if cost, same := sameEdgeClosedForm(g, f, t); same {
			out.totalCost[j] = initCost + cost
			out.found[j] = true
			continue
		}
		if !admissible(g, f, t) {
			continue
		}
		if !ok {
			continue
		}
		if opts.Cache != nil && !opts.WithPaths {
			if cached, hit := opts.Cache.Get(f.Edge, t.Edge); hit {
				out.totalCost[j] = initCost + cached
				out.found[j] = !math.IsInf(cached, 1)
				continue
			}
		}
		total, at, found := evaluateTarget(g, res, t, opts.Cost)
		if !found || total > opts.maxCost() {
			continue
		}
		out.totalCost[j] = total
		out.at[j] = at
		out.found[j] = true
		if opts.Cache != nil {
			opts.Cache.Put(f.Edge, t.Edge, total-initCost)
		}
	}
	return out
}

// edgeGroupKey identifies the originating edge (or free-point identity) a
// from-candidate belongs to, for hopsFast's edge-group pruning.
func edgeGroupKey(f candidate.Candidate, idx int) interface{} {
	if f.FreePoint {
		return idx // each free point is its own singleton group
	}
	return f.Edge
}

// Hops runs the full, exhaustive search mode: every from-candidate is
// searched independently against every to-candidate, with no pruning, and
// (if requested) full edge paths recorded. Each cell reports the cost of
// the hop itself, from F[i] to T[j] — init[i] is used only to bound the
// search against maxCost, and is subtracted back out of the reported
// value, leaving the cost matrix holding the cheapest route cost from
// F[i] to T[j] alone.
func Hops(g *tgraph.Graph, from, to []candidate.Candidate, init []float64, opts Options) *Matrix {
	m := newMatrix(len(from), len(to), opts.WithPaths)

	for i, f := range from {
		initCost := 0.0
		if i < len(init) {
			initCost = init[i]
		}
		row := runRow(g, f, initCost, to, opts)
		m.Iterations += row.iters
		for j := range to {
			if !row.found[j] {
				m.Cost[i][j] = math.Inf(1)
				m.Status[i][j] = StatusUnreachable
				continue
			}
			m.Cost[i][j] = row.totalCost[j] - initCost
			m.Status[i][j] = StatusComputed
			if opts.WithPaths {
				if f.FreePoint || to[j].FreePoint {
					m.Paths[i][j] = nil // special-case cost with no underlying edge path
				} else if _, same := sameEdgeClosedForm(g, f, to[j]); same {
					m.Paths[i][j] = []tgraph.EdgeID{f.Edge}
				} else {
					// pathTo reconstructs only as far as arriving at
					// to[j].Edge.From; the target edge itself (the one the
					// candidate actually sits on) is appended separately
					// since evaluateTarget's returned state is the
					// predecessor, not a state on to[j].Edge.
					m.Paths[i][j] = append(pathTo(row.search, row.at[j]), to[j].Edge)
				}
			}
		}
	}
	return m
}

// HopsFast runs the approximate search mode: from-candidates are grouped
// by originating edge; for each target column, only
// the edge-group with the cheapest init-inclusive cost to that column is
// kept (every member of that group gets its own locally computed value),
// and every other edge-group's rows are left at +∞ / StatusNotComputed for
// that column — a real saving when many candidates sit on edges that turn
// out to be the wrong one, at the cost of only ever reporting one "edge
// hypothesis" per column.
func HopsFast(g *tgraph.Graph, from, to []candidate.Candidate, init []float64, opts Options) *Matrix {
	m := newMatrix(len(from), len(to), false) // paths are never reconstructed in fast mode

	rows := make([]rowResult, len(from))
	inits := make([]float64, len(from))
	for i, f := range from {
		initCost := 0.0
		if i < len(init) {
			initCost = init[i]
		}
		inits[i] = initCost
		rows[i] = runRow(g, f, initCost, to, opts)
		m.Iterations += rows[i].iters
	}

	for j := range to {
		bestGroup := interface{}(nil)
		bestTotal := math.Inf(1)
		haveBest := false
		for i, f := range from {
			if !rows[i].found[j] {
				continue
			}
			if rows[i].totalCost[j] < bestTotal {
				bestTotal = rows[i].totalCost[j]
				bestGroup = edgeGroupKey(f, i)
				haveBest = true
			}
		}
		if !haveBest {
			for i := range from {
				m.Cost[i][j] = math.Inf(1)
				m.Status[i][j] = StatusUnreachable
			}
			continue
		}
		for i, f := range from {
			if !rows[i].found[j] || edgeGroupKey(f, i) != bestGroup {
				m.Cost[i][j] = math.Inf(1)
				m.Status[i][j] = StatusNotComputed
				continue
			}
			m.Cost[i][j] = rows[i].totalCost[j] - inits[i]
			m.Status[i][j] = StatusComputed
		}
	}
	return m
}
