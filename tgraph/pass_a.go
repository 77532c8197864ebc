package tgraph

import "github.com/transitshape/shapegen/osmfeed"

// passA: for each node inside the padded bbox, record
// membership; evaluate and cache its node-flag bitfield regardless of bbox
// membership (a node outside the bbox may still be a segment endpoint of a
// way that partially crosses it, so its coordinate is always retained).
func (st *buildState) passA(nodes osmfeed.NodeSeq) {
	nodes(func(n osmfeed.Node) bool {
		pt := Point{Lon: n.Lon, Lat: n.Lat}
		st.nodeCoord[n.ID] = pt

		inBBox := st.bbox.Contains(pt)
		if inBBox {
			st.nodeInBBox[n.ID] = true
		}

		flags := st.opts.EvaluateNodeFlags(n.Tags, inBBox)
		st.nodeFlags[n.ID] = flags
		if inBBox && flags.Has(osmfeed.NodeFlagStation) {
			st.stationOSMIDs = append(st.stationOSMIDs, n.ID)
		}
		return true
	})
}
