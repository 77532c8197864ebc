package dispatch

import (
	"sort"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitshape/shapegen/schedule"
	"github.com/transitshape/shapegen/solver"
)

func tripWithStops(id string, stopIDs ...string) schedule.Trip {
	sts := make([]schedule.StopTime, len(stopIDs))
	for i, sid := range stopIDs {
		sts[i] = schedule.StopTime{Stop: schedule.Stop{ID: sid}}
	}
	return schedule.Trip{ID: id, StopTimes: sts}
}

func TestTrieGroupsTripsWithIdenticalIdentity(t *testing.T) {
	trips := []schedule.Trip{
		tripWithStops("t1", "s1", "s2"),
		tripWithStops("t1", "s1", "s2"), // same id and stops: identical tuple
		tripWithStops("t2", "s1", "s2"), // different id
	}
	tr := BuildTrie(trips)
	leaves := tr.Leaves()
	require.Len(t, leaves, 2)

	sort.Slice(leaves, func(i, j int) bool { return len(leaves[i].Members) > len(leaves[j].Members) })
	assert.Len(t, leaves[0].Members, 2)
	assert.ElementsMatch(t, []int{0, 1}, leaves[0].Members)
	assert.Len(t, leaves[1].Members, 1)
	assert.Equal(t, 2, leaves[1].Members[0])
}

func TestTrieSeparatesTripsWithDifferentStopSequences(t *testing.T) {
	trips := []schedule.Trip{
		tripWithStops("t1", "s1", "s2"),
		tripWithStops("t1", "s1", "s3"),
	}
	tr := BuildTrie(trips)
	assert.Len(t, tr.Leaves(), 2)
}

func TestRunSolvesOncePerLeafAndScattersToEveryMember(t *testing.T) {
	groups := []Group{
		{Representative: 0, Members: []int{0, 1, 2}},
		{Representative: 3, Members: []int{3}},
	}

	var solveCalls int64
	solve := func(tripIndex int) solver.Result {
		atomic.AddInt64(&solveCalls, 1)
		return solver.Result{Cost: float64(tripIndex)}
	}

	var mu sync.Mutex
	reported := map[int]float64{}
	report := func(tripIndex int, out Outcome) {
		mu.Lock()
		defer mu.Unlock()
		reported[tripIndex] = out.Result.Cost
	}

	Run(groups, 2, 4, solve, report)

	assert.EqualValues(t, 2, atomic.LoadInt64(&solveCalls))
	require.Len(t, reported, 4)
	// every member of the first group shares the representative's cost (0)
	assert.Equal(t, 0.0, reported[0])
	assert.Equal(t, 0.0, reported[1])
	assert.Equal(t, 0.0, reported[2])
	assert.Equal(t, 3.0, reported[3])
}

func TestRunWithZeroGroupsDoesNothing(t *testing.T) {
	called := false
	Run(nil, 3, 1, func(int) solver.Result { called = true; return solver.Result{} }, func(int, Outcome) {})
	assert.False(t, called)
}

func TestRunDefaultsInvalidParallelismAndQueueSize(t *testing.T) {
	groups := []Group{{Representative: 0, Members: []int{0}}}
	var got int
	Run(groups, 0, -1, func(tripIndex int) solver.Result { return solver.Result{} }, func(tripIndex int, out Outcome) { got = tripIndex })
	assert.Equal(t, 0, got)
}
