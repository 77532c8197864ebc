package solver

import (
	"math"

	"github.com/transitshape/shapegen/candidate"
	"github.com/transitshape/shapegen/router"
)

// solveGreedy picks, at each layer, the locally cheapest successor given
// only the single candidate chosen at the previous layer: one pass, no
// backtracking. Approximate but cheap.
func solveGreedy(groups []candidate.Group, matrices []*router.Matrix) (chosen []int, cost float64, ok bool) {
	chosen = make([]int, len(groups))
	chosen[0] = argminPenalty(groups[0])
	cost = groups[0][chosen[0]].Penalty

	for k, m := range matrices {
		from := chosen[k]
		best := -1
		bestStep := math.Inf(1)
		for j, c := range groups[k+1] {
			if m.Status[from][j] != router.StatusComputed {
				continue
			}
			step := c.Penalty + m.Cost[from][j]
			if step < bestStep {
				bestStep = step
				best = j
			}
		}
		if best == -1 {
			return nil, 0, false
		}
		chosen[k+1] = best
		cost += bestStep
	}
	return chosen, cost, true
}

func argminPenalty(g candidate.Group) int {
	best := 0
	for i, c := range g {
		if c.Penalty < g[best].Penalty {
			best = i
		}
	}
	return best
}
