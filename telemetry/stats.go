package telemetry

// CacheStats is the trip-cache telemetry snapshot: hits, misses, stores,
// skipped stores, errors, evictions, and bytes read/written.
type CacheStats struct {
	Hits          uint64
	Misses        uint64
	Stores        uint64
	StoreSkipped  uint64
	Errors        uint64
	Evictions     uint64
	BytesRead     uint64
	BytesWritten  uint64
}

// SolverStats is the solver telemetry snapshot: total trips, trie node and
// leaf counts, cumulative solve time, Dijkstra iterations, and dropped
// trips.
type SolverStats struct {
	TotNumTrips     uint64
	NumTries        uint64
	NumTrieLeaves   uint64
	SolveTimeSeconds float64
	DijkstraIters   uint64
	NumDroppedTrips uint64
}

// Add returns the element-wise sum of two SolverStats, used to combine
// per-worker stats after a join.
func (s SolverStats) Add(o SolverStats) SolverStats {
	return SolverStats{
		TotNumTrips:      s.TotNumTrips + o.TotNumTrips,
		NumTries:         s.NumTries + o.NumTries,
		NumTrieLeaves:    s.NumTrieLeaves + o.NumTrieLeaves,
		SolveTimeSeconds: s.SolveTimeSeconds + o.SolveTimeSeconds,
		DijkstraIters:    s.DijkstraIters + o.DijkstraIters,
		NumDroppedTrips:  s.NumDroppedTrips + o.NumDroppedTrips,
	}
}
