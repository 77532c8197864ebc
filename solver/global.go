package solver

import (
	"container/heap"

	"github.com/transitshape/shapegen/candidate"
	"github.com/transitshape/shapegen/router"
)

// dagState is one node of the layered DAG a trip's candidate groups form:
// the k-th stop's i-th candidate.
type dagState struct{ layer, idx int }

type dagHeapItem struct {
	state dagState
	dist  float64
}

type dagHeap []dagHeapItem

func (h dagHeap) Len() int            { return len(h) }
func (h dagHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h dagHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *dagHeap) Push(x interface{}) { *h = append(*h, x.(dagHeapItem)) }
func (h *dagHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// solveGlobal treats the candidate groups as a layered DAG (one layer per
// stop, an edge from (k,i) to (k+1,j) weighted Gk+1[j].penalty+Mk[i,j]) and
// finds the exact minimum-score path with a lazy-decrease-key Dijkstra over
// (layer, candidateIndex) states — the same heap-runner shape as
// router/search.go's state Dijkstra, applied to the layered DAG instead of
// the road graph.
func solveGlobal(groups []candidate.Group, matrices []*router.Matrix) (chosen []int, cost float64, ok bool) {
	lastLayer := len(groups) - 1

	dist := make(map[dagState]float64)
	prev := make(map[dagState]dagState)
	visited := make(map[dagState]bool)

	h := &dagHeap{}
	heap.Init(h)
	for i, c := range groups[0] {
		s := dagState{0, i}
		dist[s] = c.Penalty
		heap.Push(h, dagHeapItem{state: s, dist: c.Penalty})
	}

	var goal dagState
	found := false
	for h.Len() > 0 {
		cur := heap.Pop(h).(dagHeapItem)
		s := cur.state
		if visited[s] || cur.dist > dist[s] {
			continue
		}
		visited[s] = true
		if s.layer == lastLayer {
			goal = s
			found = true
			break
		}
		m := matrices[s.layer]
		for j, c := range groups[s.layer+1] {
			if m.Status[s.idx][j] != router.StatusComputed {
				continue
			}
			next := dagState{s.layer + 1, j}
			nd := cur.dist + m.Cost[s.idx][j] + c.Penalty
			if old, seen := dist[next]; !seen || nd < old {
				dist[next] = nd
				prev[next] = s
				heap.Push(h, dagHeapItem{state: next, dist: nd})
			}
		}
	}
	if !found {
		return nil, 0, false
	}

	chosen = make([]int, len(groups))
	for s := goal; ; {
		chosen[s.layer] = s.idx
		p, ok := prev[s]
		if !ok {
			break
		}
		s = p
	}
	return chosen, dist[goal], true
}
