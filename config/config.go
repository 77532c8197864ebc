// Package config loads the routing/build parameter set from YAML files via
// gopkg.in/yaml.v3, and translates the loaded plain-data rules into the
// closures the rest of the pipeline actually consumes (TagPredicate,
// LevelClassifier, candidate/cost scoring functions). Load returns both the
// parsed Params and the raw bytes of every file read, since the params
// fingerprint hashes file bytes, not just parsed values — a whitespace-only
// or comment-only edit still invalidates the cache.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/transitshape/shapegen/candidate"
	"github.com/transitshape/shapegen/osmfeed"
	"github.com/transitshape/shapegen/router"
	"github.com/transitshape/shapegen/solver"
	"github.com/transitshape/shapegen/tgraph"
)

// TagRule matches a tag set if Key is present and (Value is empty, or Value
// equals the tag's value) — an OR'd set of these is how every tag predicate
// in osmfeed.ReadOptions is expressed in YAML.
type TagRule struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value,omitempty"`
}

// TagRuleSet is an OR of TagRules.
type TagRuleSet []TagRule

// Predicate builds an osmfeed.TagPredicate matching any rule in the set.
func (rs TagRuleSet) Predicate() osmfeed.TagPredicate {
	rules := append(TagRuleSet(nil), rs...)
	return func(tags map[string]string) bool {
		for _, r := range rules {
			v, ok := tags[r.Key]
			if !ok {
				continue
			}
			if r.Value == "" || v == r.Value {
				return true
			}
		}
		return false
	}
}

// LevelRule assigns Level to any tag set matching Key=Value, evaluated in
// order; the first match wins.
type LevelRule struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
	Level int32  `yaml:"level"`
}

// LevelRuleSet is an ordered list of LevelRules.
type LevelRuleSet []LevelRule

// Classifier builds an osmfeed.LevelClassifier from the rule set; unmatched
// tag sets classify as level 0.
func (rs LevelRuleSet) Classifier() osmfeed.LevelClassifier {
	rules := append(LevelRuleSet(nil), rs...)
	return func(tags map[string]string) int32 {
		for _, r := range rules {
			if tags[r.Key] == r.Value {
				return r.Level
			}
		}
		return 0
	}
}

// ModeParams is one mode's (bus, rail, tram, ...) complete read-options and
// post-processing tuning, the YAML-loadable counterpart of
// osmfeed.ReadOptions.
type ModeParams struct {
	KeepNode      TagRuleSet `yaml:"keepNode"`
	DropNode      TagRuleSet `yaml:"dropNode"`
	NohupNode     TagRuleSet `yaml:"nohupNode"`
	StationNode   TagRuleSet `yaml:"stationNode"`
	BlockerNode   TagRuleSet `yaml:"blockerNode"`
	TurnCycleNode TagRuleSet `yaml:"turnCycleNode"`

	KeepWay          TagRuleSet   `yaml:"keepWay"`
	DropWay          TagRuleSet   `yaml:"dropWay"`
	OneWayWay        TagRuleSet   `yaml:"oneWayWay"`
	OneWayReverseWay TagRuleSet   `yaml:"oneWayReverseWay"`
	Levels           LevelRuleSet `yaml:"levels"`

	KeepRel             TagRuleSet `yaml:"keepRel"`
	DropRel             TagRuleSet `yaml:"dropRel"`
	RestrictionPositive TagRuleSet `yaml:"restrictionPositive"`
	RestrictionNegative TagRuleSet `yaml:"restrictionNegative"`

	NoLinePunishFactor      float64 `yaml:"noLinePunishFactor"`
	OneWayPunishFactor      float64 `yaml:"oneWayPunishFactor"`
	StationSnapRadiusMeters float64 `yaml:"stationSnapRadiusMeters"`
	GridSizeMeters          float64 `yaml:"gridSizeMeters"`
	BBoxPadMeters           float64 `yaml:"bboxPadMeters"`
}

// ReadOptions builds the osmfeed.ReadOptions this mode's rules describe.
func (m ModeParams) ReadOptions() osmfeed.ReadOptions {
	return osmfeed.ReadOptions{
		KeepNode:            m.KeepNode.Predicate(),
		DropNode:            m.DropNode.Predicate(),
		NohupNode:           m.NohupNode.Predicate(),
		StationNode:         m.StationNode.Predicate(),
		BlockerNode:         m.BlockerNode.Predicate(),
		TurnCycleNode:       m.TurnCycleNode.Predicate(),
		KeepWay:             m.KeepWay.Predicate(),
		DropWay:             m.DropWay.Predicate(),
		OneWayWay:           m.OneWayWay.Predicate(),
		OneWayReverseWay:    m.OneWayReverseWay.Predicate(),
		LevelOf:             m.Levels.Classifier(),
		KeepRel:             m.KeepRel.Predicate(),
		DropRel:             m.DropRel.Predicate(),
		RestrictionPositive:     m.RestrictionPositive.Predicate(),
		RestrictionNegative:     m.RestrictionNegative.Predicate(),
		NoLinePunishFactor:      m.NoLinePunishFactor,
		OneWayPunishFactor:      m.OneWayPunishFactor,
		StationSnapRadiusMeters: m.StationSnapRadiusMeters,
		GridSizeMeters:          m.GridSizeMeters,
		BBoxPadMeters:           m.BBoxPadMeters,
	}
}

// CandidateParams is the YAML-loadable counterpart of candidate.Params'
// scalar knobs; the penalty functions candidate.Params needs are built from
// these scalars by ToCandidateParams.
type CandidateParams struct {
	Sigma                float64 `yaml:"sigma"`
	StationDistPenFactor float64 `yaml:"stationDistPenFactor"`
	NonStationPenalty    float64 `yaml:"nonStationPenalty"`
	StationMatchBonus    float64 `yaml:"stationMatchBonus"`
	PlatformMatchBonus   float64 `yaml:"platformMatchBonus"`
}

// ToCandidateParams builds a candidate.Params whose BaseGeoPenalty is a
// Gaussian negative-log-likelihood in the projection distance, using the
// configured stop-location noise standard deviation, and whose match-delta
// closures award StationMatchBonus/PlatformMatchBonus whenever the stop's
// station id/platform code is present in the candidate edge's line set.
func (c CandidateParams) ToCandidateParams() candidate.Params {
	sigma := c.Sigma
	return candidate.Params{
		Sigma:                sigma,
		StationDistPenFactor: c.StationDistPenFactor,
		NonStationPenalty:    c.NonStationPenalty,
		BaseGeoPenalty: func(distMeters float64) float64 {
			if sigma <= 0 {
				return distMeters
			}
			return (distMeters * distMeters) / (2 * sigma * sigma)
		},
		StationMatchDelta: func(stopStationID string, lineSet map[string]bool) float64 {
			if stopStationID != "" && lineSet[stopStationID] {
				return -c.StationMatchBonus
			}
			return 0
		},
		PlatformMatchDelta: func(stopPlatformCode string, lineSet map[string]bool) float64 {
			if stopPlatformCode != "" && lineSet[stopPlatformCode] {
				return -c.PlatformMatchBonus
			}
			return 0
		},
	}
}

// CostParams is the YAML-loadable counterpart of router.CostParams.
type CostParams struct {
	TransitionPenalty    float64 `yaml:"transitionPenalty"`
	FullTurnAngleDegrees float64 `yaml:"fullTurnAngleDegrees"`
	FullTurnPunishFactor float64 `yaml:"fullTurnPunishFactor"`
	TurnRestrictionCost  float64 `yaml:"turnRestrictionCost"`
}

// ToCostParams builds a router.CostParams from the loaded scalars.
func (c CostParams) ToCostParams() router.CostParams {
	return router.CostParams{
		TransitionPenalty:    c.TransitionPenalty,
		FullTurnAngleDegrees: c.FullTurnAngleDegrees,
		FullTurnPunishFactor: c.FullTurnPunishFactor,
		TurnRestrictionCost:  c.TurnRestrictionCost,
	}
}

// SolverParams is the YAML-loadable counterpart of solver.Options' scalar
// knobs (Cost/Cache/Bounds are wired by the caller, not loaded from YAML).
type SolverParams struct {
	Strategy   string  `yaml:"strategy"` // "global" | "greedy" | "viterbi"
	MaxHopCost float64 `yaml:"maxHopCost"`
	Lambda     float64 `yaml:"lambda"`
	Fast       bool    `yaml:"fast"`
}

// ToStrategy translates the configured strategy name into solver.Strategy,
// defaulting to StrategyGlobal for an empty or unrecognized name.
func (s SolverParams) ToStrategy() solver.Strategy {
	switch s.Strategy {
	case "greedy":
		return solver.StrategyGreedy
	case "viterbi":
		return solver.StrategyViterbi
	default:
		return solver.StrategyGlobal
	}
}

// TripCacheParams is the YAML-loadable counterpart of tripcache.Options'
// scalar knob (BaseDir is supplied by the host process, not loaded here,
// since it is a filesystem location rather than a routing parameter).
type TripCacheParams struct {
	MaxBytes uint64 `yaml:"maxBytes"`
}

// DispatchParams is the YAML-loadable counterpart of dispatch.Run's tuning.
type DispatchParams struct {
	Parallelism int `yaml:"parallelism"`
	QueueSize   int `yaml:"queueSize"`
}

// BBox is the YAML-loadable counterpart of tgraph.BBox.
type BBox struct {
	MinLon float64 `yaml:"minLon"`
	MinLat float64 `yaml:"minLat"`
	MaxLon float64 `yaml:"maxLon"`
	MaxLat float64 `yaml:"maxLat"`
}

// ToBBox builds a tgraph.BBox from the loaded corners.
func (b BBox) ToBBox() tgraph.BBox {
	return tgraph.BBox{MinLon: b.MinLon, MinLat: b.MinLat, MaxLon: b.MaxLon, MaxLat: b.MaxLat}
}

// Params is the complete routing/build parameter set; every field here
// participates in the params fingerprint.
type Params struct {
	Modes     map[string]ModeParams `yaml:"modes"`
	BBox      BBox                  `yaml:"bbox"`
	Candidate CandidateParams       `yaml:"candidate"`
	Cost      CostParams            `yaml:"cost"`
	Solver    SolverParams          `yaml:"solver"`
	TripCache TripCacheParams       `yaml:"tripCache"`
	Dispatch  DispatchParams        `yaml:"dispatch"`
}

// Load parses a primary YAML config file plus any number of overlay files
// (later files override earlier ones field-by-field, since yaml.Unmarshal
// only ever sets fields present in the document), and returns both the
// merged Params and the raw bytes of every file read, in the order given —
// the exact inputs the params fingerprint hashes, so two runs against
// byte-identical config files always hash the same regardless of path.
func Load(paths ...string) (Params, [][]byte, error) {
	var p Params
	raw := make([][]byte, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return Params{}, nil, err
		}
		raw = append(raw, data)
		if err := yaml.Unmarshal(data, &p); err != nil {
			return Params{}, nil, err
		}
	}
	return p, raw, nil
}
