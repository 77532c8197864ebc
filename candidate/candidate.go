// Package candidate implements the per-stop candidate generator: for a
// scheduled stop, enumerate nearby graph edges and score each as a
// hypothesis of where the vehicle actually passed.
package candidate

import (
	"sort"

	"github.com/transitshape/shapegen/tgraph"
)

// Candidate is one (edge, progress, penalty) hypothesis for a stop.
// FreePoint candidates carry no underlying edge: they model "we don't
// know which edge yet", used only for a trip's first and last stop.
type Candidate struct {
	Edge      tgraph.EdgeID
	FreePoint bool
	Point     tgraph.Point // valid iff FreePoint
	Progress  float64      // ∈ [0,1] along Edge; 0 for a free point
	Penalty   float64      // ≥ 0, lower is better

	StationMatch  bool
	PlatformMatch bool
}

// Group is the ordered set of candidates generated for one stop. Its edge
// candidates are sorted by increasing penalty, so the best edge hypothesis
// is index 0; an endpoint's free-point candidate is appended after them.
type Group []Candidate

// Params bundles the scoring knobs the generator needs; all are supplied
// by configuration, never hardcoded here.
type Params struct {
	// Sigma is the configured Gaussian stop-location noise standard
	// deviation in meters.
	Sigma float64

	// StationDistPenFactor scales Sigma into the search radius: edges are
	// only queried within StationDistPenFactor * Sigma meters of the stop.
	StationDistPenFactor float64

	// NonStationPenalty is added when the stop has no known station
	// identity but the candidate edge touches a station node.
	NonStationPenalty float64

	// BaseGeoPenalty converts a projection distance in meters to a penalty
	// contribution.
	BaseGeoPenalty func(distMeters float64) float64

	// StationMatchDelta and PlatformMatchDelta are added (can be negative,
	// a bonus) when the stop's station/platform identity matches the
	// candidate edge's line-set; both default to 0 when nil.
	StationMatchDelta  func(stopStationID string, lineSet map[string]bool) float64
	PlatformMatchDelta func(stopPlatformCode string, lineSet map[string]bool) float64

	// ModeAllowed filters out edges whose mode tag disagrees with the
	// stop's mode. nil accepts every edge.
	ModeAllowed func(e *tgraph.Edge) bool
}

// Stop is the minimal per-stop input the generator needs, decoupled from
// schedule.Stop so candidate has no dependency on the schedule package.
type Stop struct {
	Lon, Lat    float64
	StationID   string // empty if the stop has no known station identity
	Platform    string
}

func (p Params) radius() float64 {
	return p.StationDistPenFactor * p.Sigma
}

// Generate builds the candidate group for stop, querying idx for edges
// within the configured radius, scoring each, and sorting by penalty.
// isEndpoint augments the group with a free-point candidate at the exact
// stop coordinate, used for a trip's first and last stop.
func Generate(g *tgraph.Graph, idx *Index, stop Stop, params Params, isEndpoint bool) Group {
	p := tgraph.Point{Lon: stop.Lon, Lat: stop.Lat}
	radius := params.radius()

	var group Group
	for _, eid := range idx.Query(p, radius) {
		e := g.Edge(eid)
		if e == nil {
			continue
		}
		if params.ModeAllowed != nil && !params.ModeAllowed(e) {
			continue
		}
		proj, progress, dist := tgraph.NearestPointOnEdge(e, p)
		if dist > radius {
			continue
		}
		_ = proj

		penalty := 0.0
		if params.BaseGeoPenalty != nil {
			penalty += params.BaseGeoPenalty(dist)
		}
		stationMatch, platformMatch := false, false
		if params.StationMatchDelta != nil {
			delta := params.StationMatchDelta(stop.StationID, e.LineSet)
			penalty += delta
			stationMatch = delta < 0
		}
		if params.PlatformMatchDelta != nil {
			delta := params.PlatformMatchDelta(stop.Platform, e.LineSet)
			penalty += delta
			platformMatch = delta < 0
		}
		if stop.StationID == "" && (g.Node(e.From).Station != nil || g.Node(e.To).Station != nil) {
			penalty += params.NonStationPenalty
		}

		group = append(group, Candidate{
			Edge: eid, Progress: progress, Penalty: penalty,
			StationMatch: stationMatch, PlatformMatch: platformMatch,
		})
	}

	sort.Slice(group, func(i, j int) bool { return group[i].Penalty < group[j].Penalty })

	if isEndpoint {
		group = append(group, Candidate{FreePoint: true, Point: p, Penalty: 0})
	}
	return group
}
