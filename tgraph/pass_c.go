package tgraph

import "github.com/transitshape/shapegen/osmfeed"

// passC: for each way that qualifies (own tags or relation membership) and
// whose node-list intersects the bbox, create nodes (deduplicated by osm
// id unless nohup) and pairwise edges.
func (st *buildState) passC(ways osmfeed.WaySeq) {
	ways(func(w osmfeed.Way) bool {
		st.ingestWay(w)
		return true
	})
}

func (st *buildState) ingestWay(w osmfeed.Way) {
	if len(w.NodeRefs) < 2 {
		st.log.Count("tgraph.way.malformed")
		return
	}

	wayFlags := st.opts.EvaluateWayFlags(w.Tags)
	ownKeep := wayFlags.Has(osmfeed.WayFlagKeep) && !wayFlags.Has(osmfeed.WayFlagDrop)
	referenced := st.referencedByKeptRelation(w.ID)
	if !ownKeep && !referenced {
		return
	}

	if !st.nodeListIntersectsBBox(w.NodeRefs) {
		return
	}

	for _, nref := range w.NodeRefs {
		if _, ok := st.nodeCoord[nref]; !ok {
			st.log.Count("tgraph.way.unknown_node")
			return
		}
	}

	st.expandViaWay(w)

	level := int32(0)
	if st.opts.LevelOf != nil {
		level = st.opts.LevelOf(w.Tags)
	}
	oneWay := OneWayBidir
	switch {
	case wayFlags.Has(osmfeed.WayFlagOneWay):
		oneWay = OneWayForward
	case wayFlags.Has(osmfeed.WayFlagOneWayReverse):
		oneWay = OneWayReverse
	}

	prevID := st.resolveNode(w.NodeRefs[0])
	for i := 1; i < len(w.NodeRefs); i++ {
		curID := st.resolveNode(w.NodeRefs[i])
		pts := []Point{st.nodeCoord[w.NodeRefs[i-1]], st.nodeCoord[w.NodeRefs[i]]}
		st.g.AddEdge(prevID, curID, pts, level, oneWay, w.ID)
		prevID = curID
	}
}

func (st *buildState) referencedByKeptRelation(wayOSMID uint64) bool {
	for _, idx := range st.relWayIdx[wayOSMID] {
		if !st.relFlags[idx].Has(osmfeed.RelFlagDrop) {
			return true
		}
	}
	return false
}

func (st *buildState) nodeListIntersectsBBox(refs []uint64) bool {
	for _, r := range refs {
		if st.nodeInBBox[r] {
			return true
		}
	}
	return false
}

// expandViaWay turns a via-way restriction template into one node-via
// restriction per node along that way: a via-node may equivalently be
// encoded as a way, in which case it expands into multiple node vias.
func (st *buildState) expandViaWay(w osmfeed.Way) {
	templates, ok := st.pendingViaWay[w.ID]
	if !ok {
		return
	}
	for _, t := range templates {
		for _, nref := range w.NodeRefs {
			st.pendingRestrictions = append(st.pendingRestrictions, pendingRestriction{
				viaNodeOSM: nref, fromWay: t.fromWay, toWay: t.toWay, positive: t.positive,
			})
		}
	}
	delete(st.pendingViaWay, w.ID)
}

// resolveNode returns the graph NodeID for an osm node id, creating a
// fresh instance every call for nohup nodes (deduplicating by osm-id
// otherwise: a nohup node gets a fresh node instance for each incidence,
// every other node gets one memoized shared instance).
func (st *buildState) resolveNode(osmID uint64) NodeID {
	flags := st.nodeFlags[osmID]
	coord := st.nodeCoord[osmID]

	if flags.Has(osmfeed.NodeFlagNohup) {
		id := st.g.AddNode(coord.Lon, coord.Lat)
		st.applyNodeFlags(id, flags)
		st.nodeInstances[osmID] = append(st.nodeInstances[osmID], id)
		return id
	}

	if id, ok := st.nodeDedup[osmID]; ok {
		return id
	}
	id := st.g.AddNode(coord.Lon, coord.Lat)
	st.applyNodeFlags(id, flags)
	st.nodeDedup[osmID] = id
	st.nodeInstances[osmID] = append(st.nodeInstances[osmID], id)
	return id
}

func (st *buildState) applyNodeFlags(id NodeID, flags osmfeed.NodeFlag) {
	n := st.g.Node(id)
	n.Blocker = flags.Has(osmfeed.NodeFlagBlocker)
	n.TurnCycle = flags.Has(osmfeed.NodeFlagTurnCycle)
}

// resolvePendingRestrictions translates every accumulated pendingRestriction
// (direct node-via or expanded way-via) from osm node ids to the concrete
// NodeID instance(s) created for that id, and files them into the graph's
// Restrictions.
func (st *buildState) resolvePendingRestrictions() {
	for _, pr := range st.pendingRestrictions {
		instances := st.nodeInstances[pr.viaNodeOSM]
		for _, nid := range instances {
			if pr.positive {
				st.g.Restrictions.AddPositive(nid, pr.fromWay, pr.toWay)
			} else {
				st.g.Restrictions.AddNegative(nid, pr.fromWay, pr.toWay)
			}
		}
	}
}
