package dispatch

import (
	"strings"
	"sync"

	"github.com/transitshape/shapegen/schedule"
	"github.com/transitshape/shapegen/solver"
)

// identitySep is the field separator schedule.Trip.CanonicalIdentity uses
// between tuple fields; splitting on it recovers the tuple BuildTrie needs.
const identitySep = "\x1f"

// BuildTrie groups trips by canonical identity, splitting each trip's
// CanonicalIdentity string back into the tuple fields the trie is keyed on.
func BuildTrie(trips []schedule.Trip) *Trie {
	t := NewTrie()
	for i, trip := range trips {
		t.Insert(i, strings.Split(trip.CanonicalIdentity(), identitySep))
	}
	return t
}

// Outcome is what every trip in a class receives once its representative
// has been solved.
type Outcome struct {
	Result solver.Result
}

// Run dispatches one solve per trie leaf across parallelism workers and
// scatters each leaf's result to every trip in its class: the dispatcher
// assigns one representative per class to a worker, and the result is
// scattered back to every trip in the class. queueSize bounds the number of
// leaves buffered ahead of the workers, applying backpressure on the
// producer when the workers fall behind.
//
// Some job-queue implementations signal worker shutdown with a sentinel
// "done" job that a worker peeks without popping, so every worker observes
// it in turn. Go's closed channel does the same broadcast natively: closing
// jobs after every leaf has been sent wakes every worker's range loop
// without a sentinel value.
func Run(groups []Group, parallelism, queueSize int, solve func(tripIndex int) solver.Result, report func(tripIndex int, out Outcome)) {
	if parallelism < 1 {
		parallelism = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	jobs := make(chan Group, queueSize)

	var wg sync.WaitGroup
	wg.Add(parallelism)
	for w := 0; w < parallelism; w++ {
		go func() {
			defer wg.Done()
			for g := range jobs {
				res := solve(g.Representative)
				for _, idx := range g.Members {
					report(idx, Outcome{Result: res})
				}
			}
		}()
	}

	for _, g := range groups {
		jobs <- g
	}
	close(jobs)
	wg.Wait()
}
