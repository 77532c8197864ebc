package router

import (
	"container/heap"
	"math"

	"github.com/transitshape/shapegen/candidate"
	"github.com/transitshape/shapegen/tgraph"
)

// state is a Dijkstra node in the router's (node, via-edge) state space:
// tracking the edge used to arrive at a node, not just the node itself,
// lets expansion filter out successors forbidden by turn restrictions.
type state struct {
	node tgraph.NodeID
	via  tgraph.EdgeID
}

// seed is an initial state to push onto the search frontier: "arriving at
// edge.To having already paid cost to get there".
type seed struct {
	edge tgraph.EdgeID
	cost float64
}

type heapItem struct {
	st       state
	dist     float64 // true accumulated cost
	priority float64 // dist + heuristic lower bound; what the heap orders on
}

type stateHeap []*heapItem

func (h stateHeap) Len() int            { return len(h) }
func (h stateHeap) Less(i, j int) bool  { return h[i].priority < h[j].priority }
func (h stateHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *stateHeap) Push(x interface{}) { *h = append(*h, x.(*heapItem)) }
func (h *stateHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// searchResult is the outcome of a single Dijkstra run: the best cost to
// reach every visited (node, via-edge) state, the predecessor state for
// path reconstruction, and an iteration count for diagnostics.
type searchResult struct {
	dist  map[state]float64
	prev  map[state]state
	iters int
}

// runSearch executes a lazy-decrease-key Dijkstra via container/heap over
// g's (node, via-edge) state space, starting from every seed simultaneously.
// heuristic is an optional admissible lower-bound function (node ->
// remaining cost); pass nil to run plain Dijkstra. When heuristic is
// non-nil the search degrades gracefully to A* ordering without changing
// the recorded costs, since the heap only uses it to pick expansion order.
func runSearch(g *tgraph.Graph, seeds []seed, params CostParams, maxCost float64, heuristic func(tgraph.NodeID) float64) searchResult {
	res := searchResult{dist: make(map[state]float64), prev: make(map[state]state)}
	h := &stateHeap{}
	heap.Init(h)

	prio := func(node tgraph.NodeID, dist float64) float64 {
		if heuristic == nil {
			return dist
		}
		return dist + heuristic(node)
	}

	for _, s := range seeds {
		e := g.Edge(s.edge)
		if e == nil {
			continue
		}
		st := state{node: e.To, via: s.edge}
		if cur, ok := res.dist[st]; !ok || s.cost < cur {
			res.dist[st] = s.cost
			heap.Push(h, &heapItem{st: st, dist: s.cost, priority: prio(st.node, s.cost)})
		}
	}

	visited := make(map[state]bool)
	for h.Len() > 0 {
		item := heap.Pop(h).(*heapItem)
		if visited[item.st] {
			continue
		}
		visited[item.st] = true
		res.iters++
		if item.dist > maxCost {
			continue
		}

		node := g.Node(item.st.node)
		viaEdge := g.Edge(item.st.via)
		if node == nil || viaEdge == nil || node.Blocker {
			continue
		}

		for _, nextID := range node.Out {
			if nextID == item.st.via && !node.TurnCycle {
				continue
			}
			next := g.Edge(nextID)
			if next == nil {
				continue
			}
			if g.Restrictions.HasAny(item.st.node) && !g.Restrictions.Allowed(item.st.node, viaEdge.SourceWay, next.SourceWay) {
				continue
			}

			cost := item.dist + edgeCost(g, viaEdge, next, item.st.node, params)
			nst := state{node: next.To, via: nextID}
			if cur, ok := res.dist[nst]; !ok || cost < cur {
				res.dist[nst] = cost
				res.prev[nst] = item.st
				heap.Push(h, &heapItem{st: nst, dist: cost, priority: prio(nst.node, cost)})
			}
		}
	}
	return res
}

// evaluateTarget finds the minimum cost, across every visited (node,
// via-edge) state at t.Edge.From, of turning onto t.Edge and traversing it
// to t.Progress, along with the predecessor state that achieved it (for
// path reconstruction). Returns found=false if t was never reached.
func evaluateTarget(g *tgraph.Graph, res searchResult, t candidate.Candidate, params CostParams) (cost float64, at state, found bool) {
	e := g.Edge(t.Edge)
	if e == nil {
		return math.Inf(1), state{}, false
	}
	best := math.Inf(1)
	var bestSt state
	for st, d := range res.dist {
		if st.node != e.From {
			continue
		}
		via := g.Edge(st.via)
		if via == nil {
			continue
		}
		if g.Restrictions.HasAny(st.node) && !g.Restrictions.Allowed(st.node, via.SourceWay, e.SourceWay) {
			continue
		}
		c := d + transitionCost(g, via, e, st.node, params) + edgePartialCost(e, t.Progress)
		if c < best {
			best = c
			bestSt = st
			found = true
		}
	}
	return best, bestSt, found
}

// pathTo reconstructs the edge sequence arriving at target state st,
// earliest edge first.
func pathTo(res searchResult, st state) []tgraph.EdgeID {
	var edges []tgraph.EdgeID
	cur := st
	for {
		edges = append([]tgraph.EdgeID{cur.via}, edges...)
		prev, ok := res.prev[cur]
		if !ok {
			break
		}
		cur = prev
	}
	return edges
}
