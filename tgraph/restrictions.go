package tgraph

// TurnRestriction names a (from-way, to-way) pair forbidden or mandated at
// a via-node.
type TurnRestriction struct {
	FromWay, ToWay uint64
}

// Restrictions is the per-via-node map of positive/negative turn
// restrictions. Positive restrictions mean "from this way, at this
// via-node, only this turn (to-way) is allowed"; negative restrictions
// mean "this specific turn is forbidden".
type Restrictions struct {
	positive map[NodeID][]TurnRestriction
	negative map[NodeID][]TurnRestriction
}

// NewRestrictions returns an empty Restrictions set.
func NewRestrictions() *Restrictions {
	return &Restrictions{
		positive: make(map[NodeID][]TurnRestriction),
		negative: make(map[NodeID][]TurnRestriction),
	}
}

// AddPositive records a mandatory turn at via: from fromWay, the only
// allowed continuation is toWay.
func (r *Restrictions) AddPositive(via NodeID, fromWay, toWay uint64) {
	r.positive[via] = append(r.positive[via], TurnRestriction{fromWay, toWay})
}

// AddNegative records a forbidden turn at via.
func (r *Restrictions) AddNegative(via NodeID, fromWay, toWay uint64) {
	r.negative[via] = append(r.negative[via], TurnRestriction{fromWay, toWay})
}

// Allowed reports whether travel may continue from fromWay onto toWay at
// via: a matching negative restriction forbids it outright; otherwise, if
// any positive restriction exists for fromWay at via, only the named toWay
// is allowed (all other continuations from that way are implicitly
// forbidden); absent both, the turn is allowed.
func (r *Restrictions) Allowed(via NodeID, fromWay, toWay uint64) bool {
	for _, neg := range r.negative[via] {
		if neg.FromWay == fromWay && neg.ToWay == toWay {
			return false
		}
	}
	hasMandatory := false
	for _, pos := range r.positive[via] {
		if pos.FromWay != fromWay {
			continue
		}
		hasMandatory = true
		if pos.ToWay == toWay {
			return true
		}
	}
	return !hasMandatory
}

// HasAny reports whether via carries any restriction at all, used by the
// router to skip restriction lookups on the (common) unrestricted node.
func (r *Restrictions) HasAny(via NodeID) bool {
	return len(r.positive[via]) > 0 || len(r.negative[via]) > 0
}

// remapNodes rekeys both restriction maps after deleteOrphanNodes compacts
// the node slice. A via-node absent from remap (itself deleted as an
// orphan) drops its restrictions silently: an orphaned node can no longer
// be a via point for any traversal.
func (r *Restrictions) remapNodes(remap map[NodeID]NodeID) {
	newPos := make(map[NodeID][]TurnRestriction, len(r.positive))
	for via, rules := range r.positive {
		if nv, ok := remap[via]; ok {
			newPos[nv] = rules
		}
	}
	newNeg := make(map[NodeID][]TurnRestriction, len(r.negative))
	for via, rules := range r.negative {
		if nv, ok := remap[via]; ok {
			newNeg[nv] = rules
		}
	}
	r.positive = newPos
	r.negative = newNeg
}
