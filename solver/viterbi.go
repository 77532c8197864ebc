package solver

import (
	"math"

	"github.com/transitshape/shapegen/candidate"
	"github.com/transitshape/shapegen/router"
)

// solveViterbi runs forward Viterbi in log-probability space: emission at
// layer k is -Gk[i].penalty (a candidate's penalty doubling as its
// negative log-likelihood), transition from i to j is
// -lambda*Mk[i,j] (the log of Mk[i,j] re-exp'd as exp(-lambda*cost), spec
// §4.4 "HMM/Viterbi"). argmax backward over the per-layer backpointers
// recovers the chosen sequence. Lambda lets a caller soften how harshly a
// single expensive hop dominates the whole trip's score, which is the
// sense in which this strategy "smooths outliers" relative to global.
func solveViterbi(groups []candidate.Group, matrices []*router.Matrix, lambda float64) (chosen []int, cost float64, ok bool) {
	logV := make([]float64, len(groups[0]))
	for i, c := range groups[0] {
		logV[i] = -c.Penalty
	}
	back := make([][]int, len(groups))

	for k, m := range matrices {
		next := make([]float64, len(groups[k+1]))
		backLayer := make([]int, len(groups[k+1]))
		for j, c := range groups[k+1] {
			best := -1
			bestScore := math.Inf(-1)
			for i := range groups[k] {
				if m.Status[i][j] != router.StatusComputed {
					continue
				}
				score := logV[i] - lambda*m.Cost[i][j]
				if score > bestScore {
					bestScore = score
					best = i
				}
			}
			if best == -1 {
				next[j] = math.Inf(-1)
				backLayer[j] = -1
				continue
			}
			next[j] = bestScore - c.Penalty
			backLayer[j] = best
		}
		logV = next
		back[k+1] = backLayer
	}

	lastLayer := len(groups) - 1
	best := -1
	bestScore := math.Inf(-1)
	for j, score := range logV {
		if score > bestScore {
			bestScore = score
			best = j
		}
	}
	if best == -1 || math.IsInf(bestScore, -1) {
		return nil, 0, false
	}

	chosen = make([]int, len(groups))
	chosen[lastLayer] = best
	for k := lastLayer; k > 0; k-- {
		p := back[k][chosen[k]]
		if p == -1 {
			return nil, 0, false
		}
		chosen[k-1] = p
	}
	return chosen, -bestScore, true
}
