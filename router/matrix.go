package router

import "github.com/transitshape/shapegen/tgraph"

// CellStatus distinguishes why a Matrix cell holds +Inf: provably
// unreachable versus merely not attempted. hopsFast's intentional pruning
// leaves cells at +Inf too, so downstream consumers must not treat such
// entries as provably no path — only as not computed.
type CellStatus int8

const (
	// StatusUnreachable means the search ran (or the admissibility
	// precondition failed) and provably found no path within maxCost.
	StatusUnreachable CellStatus = iota
	// StatusComputed means Cost holds a real, finite travel cost.
	StatusComputed
	// StatusNotComputed means hopsFast's column-pruning rule skipped this
	// cell outright; it carries no information about reachability.
	StatusNotComputed
)

// Matrix is the output of a hop search: a |F|x|T| cost matrix, its cell
// statuses, optionally a per-cell edge path, and a diagnostic Dijkstra
// iteration count.
type Matrix struct {
	Rows, Cols int
	Cost       [][]float64
	Status     [][]CellStatus
	Paths      [][][]tgraph.EdgeID // nil unless path reconstruction was requested
	Iterations int
}

func newMatrix(rows, cols int, withPaths bool) *Matrix {
	m := &Matrix{Rows: rows, Cols: cols, Cost: make([][]float64, rows), Status: make([][]CellStatus, rows)}
	if withPaths {
		m.Paths = make([][][]tgraph.EdgeID, rows)
	}
	for i := 0; i < rows; i++ {
		m.Cost[i] = make([]float64, cols)
		m.Status[i] = make([]CellStatus, cols)
		if withPaths {
			m.Paths[i] = make([][]tgraph.EdgeID, cols)
		}
	}
	return m
}

// AllUnreachable reports whether every cell of column j is unreachable or
// not computed — the trip solver's drop condition for that stop.
func (m *Matrix) AllUnreachable(j int) bool {
	for i := 0; i < m.Rows; i++ {
		if m.Status[i][j] == StatusComputed {
			return false
		}
	}
	return true
}
