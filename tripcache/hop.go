package tripcache

import (
	"github.com/transitshape/shapegen/candidate"
	"github.com/transitshape/shapegen/tgraph"
)

// Hop is one cached routing result between two consecutive stop candidates:
// the resolved edge path plus its start/end endpoints. Start and End reuse
// candidate.Candidate's Edge/FreePoint/Point/Progress shape; Penalty and
// the match flags are never persisted.
type Hop struct {
	Edges []tgraph.EdgeID
	Start candidate.Candidate
	End   candidate.Candidate
}
