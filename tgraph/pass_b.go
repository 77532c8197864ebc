package tgraph

import "github.com/transitshape/shapegen/osmfeed"

// passB: keep relations passing keep∧¬drop, index them for Pass C's
// "referenced by a non-dropped relation" way test, and extract turn
// restrictions.
func (st *buildState) passB(rels osmfeed.RelSeq) {
	rels(func(r osmfeed.Rel) bool {
		flags := st.opts.EvaluateRelFlags(r.Tags)
		if !flags.Has(osmfeed.RelFlagKeep) || flags.Has(osmfeed.RelFlagDrop) {
			return true
		}
		idx := len(st.relKept)
		st.relKept = append(st.relKept, r)
		st.relFlags = append(st.relFlags, flags)

		for _, m := range r.Members {
			switch m.Type {
			case osmfeed.MemberNode:
				st.relNodeIdx[m.ID] = append(st.relNodeIdx[m.ID], idx)
			case osmfeed.MemberWay:
				st.relWayIdx[m.ID] = append(st.relWayIdx[m.ID], idx)
			}
		}

		if flags.Has(osmfeed.RelFlagRestrictionPositive) || flags.Has(osmfeed.RelFlagRestrictionNegative) {
			st.extractRestriction(r, flags.Has(osmfeed.RelFlagRestrictionPositive))
		}
		return true
	})
}

// extractRestriction pulls the (from-way, to-way, via) triple out of a
// restriction relation's members. A missing role or member is a malformed
// restriction and is skipped silently.
func (st *buildState) extractRestriction(r osmfeed.Rel, positive bool) {
	var fromWay, toWay uint64
	var haveFrom, haveTo bool
	var viaNode uint64
	var viaWay uint64
	var haveViaNode, haveViaWay bool

	for _, m := range r.Members {
		switch m.Role {
		case "from":
			if m.Type == osmfeed.MemberWay {
				fromWay, haveFrom = m.ID, true
			}
		case "to":
			if m.Type == osmfeed.MemberWay {
				toWay, haveTo = m.ID, true
			}
		case "via":
			if m.Type == osmfeed.MemberNode {
				viaNode, haveViaNode = m.ID, true
			} else if m.Type == osmfeed.MemberWay {
				viaWay, haveViaWay = m.ID, true
			}
		}
	}

	if !haveFrom || !haveTo || (!haveViaNode && !haveViaWay) {
		st.log.Count("tgraph.restriction.malformed")
		return
	}

	if haveViaNode {
		st.pendingRestrictions = append(st.pendingRestrictions, pendingRestriction{
			viaNodeOSM: viaNode, fromWay: fromWay, toWay: toWay, positive: positive,
		})
		return
	}
	st.pendingViaWay[viaWay] = append(st.pendingViaWay[viaWay], viaWayTemplate{
		fromWay: fromWay, toWay: toWay, positive: positive,
	})
}
