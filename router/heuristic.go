package router

import (
	"container/heap"
	"math"

	"github.com/transitshape/shapegen/tgraph"
)

// ComponentLowerBounds precomputes, for every node, its plain-Dijkstra
// distance to an arbitrarily chosen representative of its weakly connected
// component. These distances satisfy the triangle inequality, so |bound[target] -
// bound[node]| is an admissible heuristic for routing toward target.
type ComponentLowerBounds struct {
	distToRep map[tgraph.NodeID]float64
}

// PrecomputeComponentLowerBounds runs one node-to-node Dijkstra per
// weakly connected component, rooted at that component's first-seen node.
func PrecomputeComponentLowerBounds(g *tgraph.Graph) *ComponentLowerBounds {
	b := &ComponentLowerBounds{distToRep: make(map[tgraph.NodeID]float64, len(g.Nodes))}
	reps := make(map[int32]tgraph.NodeID)
	for i := range g.Nodes {
		comp := g.Nodes[i].Component
		if _, ok := reps[comp]; !ok {
			reps[comp] = tgraph.NodeID(i)
		}
	}
	for _, rep := range reps {
		b.distFrom(g, rep)
	}
	return b
}

// distFrom fills b.distToRep for every node reachable from rep via a plain
// node-to-node Dijkstra (ignoring via-edge turn state, since this is only
// ever used as a lower-bound estimate, not an exact cost).
func (b *ComponentLowerBounds) distFrom(g *tgraph.Graph, rep tgraph.NodeID) {
	dist := map[tgraph.NodeID]float64{rep: 0}
	h := &nodeHeap{{node: rep, dist: 0}}
	heap.Init(h)
	visited := make(map[tgraph.NodeID]bool)
	for h.Len() > 0 {
		cur := heap.Pop(h).(nodeHeapItem)
		if visited[cur.node] {
			continue
		}
		visited[cur.node] = true
		b.distToRep[cur.node] = cur.dist

		node := g.Node(cur.node)
		if node == nil || node.Blocker {
			continue
		}
		for _, eid := range node.Out {
			e := g.Edge(eid)
			if e == nil {
				continue
			}
			nd := cur.dist + edgeFullCost(e)
			if d, ok := dist[e.To]; !ok || nd < d {
				dist[e.To] = nd
				heap.Push(h, nodeHeapItem{node: e.To, dist: nd})
			}
		}
	}
}

type nodeHeapItem struct {
	node tgraph.NodeID
	dist float64
}

type nodeHeap []nodeHeapItem

func (h nodeHeap) Len() int            { return len(h) }
func (h nodeHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h nodeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x interface{}) { *h = append(*h, x.(nodeHeapItem)) }
func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Heuristic returns an admissible lower-bound function for routing toward
// target's component, suitable for runSearch's heuristic parameter.
func (b *ComponentLowerBounds) Heuristic(target tgraph.NodeID) func(tgraph.NodeID) float64 {
	targetBound, ok := b.distToRep[target]
	if !ok {
		return func(tgraph.NodeID) float64 { return 0 }
	}
	return func(n tgraph.NodeID) float64 {
		nb, ok := b.distToRep[n]
		if !ok {
			return 0
		}
		return math.Abs(targetBound - nb)
	}
}
