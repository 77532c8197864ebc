package main

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/yaml.v3"

	"github.com/transitshape/shapegen/candidate"
	"github.com/transitshape/shapegen/config"
	"github.com/transitshape/shapegen/dispatch"
	"github.com/transitshape/shapegen/fingerprint"
	"github.com/transitshape/shapegen/osmfeed"
	"github.com/transitshape/shapegen/router"
	"github.com/transitshape/shapegen/schedule"
	"github.com/transitshape/shapegen/solver"
	"github.com/transitshape/shapegen/telemetry"
	"github.com/transitshape/shapegen/tgraph"
	"github.com/transitshape/shapegen/tripcache"
)

type runInput struct {
	configs     []string
	extract     string
	schedule    string
	modes       []string
	cacheDir    string
	parallelism int
	queueSize   int
	metricsAddr string
	log         *telemetry.Logger
}

type shape struct {
	TripID  string
	Dropped bool
	Cost    float64
	Points  []tgraph.Point
}

type runResult struct {
	shapes []shape
	cache  *tripcache.Cache
	solver telemetry.SolverStats
}

// mergeModes unions the tag-rule sets of every named mode into one
// osmfeed.ReadOptions, since a graph is built for one "mode set" at a time
// (fingerprint.ExtractMeta.ModeSet), not one graph per mode. Scalar knobs
// (snap radius, grid size, bbox pad, punish factors) are taken from the
// first named mode; an empty modes list builds a graph that keeps nothing
// (every rule set empty).
func mergeModes(modes []string, cfg config.Params) osmfeed.ReadOptions {
	var merged config.ModeParams
	for i, name := range modes {
		m := cfg.Modes[name]
		merged.KeepNode = append(merged.KeepNode, m.KeepNode...)
		merged.DropNode = append(merged.DropNode, m.DropNode...)
		merged.NohupNode = append(merged.NohupNode, m.NohupNode...)
		merged.StationNode = append(merged.StationNode, m.StationNode...)
		merged.BlockerNode = append(merged.BlockerNode, m.BlockerNode...)
		merged.TurnCycleNode = append(merged.TurnCycleNode, m.TurnCycleNode...)
		merged.KeepWay = append(merged.KeepWay, m.KeepWay...)
		merged.DropWay = append(merged.DropWay, m.DropWay...)
		merged.OneWayWay = append(merged.OneWayWay, m.OneWayWay...)
		merged.OneWayReverseWay = append(merged.OneWayReverseWay, m.OneWayReverseWay...)
		merged.Levels = append(merged.Levels, m.Levels...)
		merged.KeepRel = append(merged.KeepRel, m.KeepRel...)
		merged.DropRel = append(merged.DropRel, m.DropRel...)
		merged.RestrictionPositive = append(merged.RestrictionPositive, m.RestrictionPositive...)
		merged.RestrictionNegative = append(merged.RestrictionNegative, m.RestrictionNegative...)
		if i == 0 {
			merged.NoLinePunishFactor = m.NoLinePunishFactor
			merged.OneWayPunishFactor = m.OneWayPunishFactor
			merged.StationSnapRadiusMeters = m.StationSnapRadiusMeters
			merged.GridSizeMeters = m.GridSizeMeters
			merged.BBoxPadMeters = m.BBoxPadMeters
		}
	}
	return merged.ReadOptions()
}

func candidateStop(s schedule.Stop) candidate.Stop {
	return candidate.Stop{Lon: s.Lng, Lat: s.Lat, StationID: s.ParentStation, Platform: s.PlatformCode}
}

func tripCandidateGroups(g *tgraph.Graph, idx *candidate.Index, trip schedule.Trip, params candidate.Params) []candidate.Group {
	stops := trip.Stops()
	groups := make([]candidate.Group, len(stops))
	for i, s := range stops {
		isEndpoint := i == 0 || i == len(stops)-1
		groups[i] = candidate.Generate(g, idx, candidateStop(s), params, isEndpoint)
	}
	return groups
}

// resultHop summarizes a solved trip as the single cache entry tripcache
// stores it under: one hop spanning the trip's full edge path, bookended by
// the top-ranked (index 0) candidates of its first and last stop groups.
// This is coarser than a
// per-transition hop breakdown, but round-trips through the real on-disk
// format and is enough for repeat runs over an unchanged graph+params to
// skip re-solving entirely.
func resultHop(groups []candidate.Group, res solver.Result) tripcache.Hop {
	start := groups[0][0]
	end := groups[len(groups)-1][0]
	return tripcache.Hop{Edges: res.Edges, Start: start, End: end}
}

func resultFromHop(hops []tripcache.Hop) solver.Result {
	if len(hops) == 0 {
		return solver.Result{Dropped: true}
	}
	return solver.Result{Edges: hops[0].Edges}
}

func run(in runInput) (runResult, error) {
	cfg, rawFiles, err := config.Load(in.configs...)
	if err != nil {
		return runResult{}, fmt.Errorf("loading config: %w", err)
	}

	ef, err := loadExtract(in.extract)
	if err != nil {
		return runResult{}, fmt.Errorf("loading extract: %w", err)
	}
	trips, err := loadSchedule(in.schedule)
	if err != nil {
		return runResult{}, fmt.Errorf("loading schedule: %w", err)
	}

	readOpts := mergeModes(in.modes, cfg)
	g := tgraph.Build(ef.Nodes(), ef.Ways(), ef.Rels(), tgraph.Options{Read: readOpts, BBox: cfg.BBox.ToBBox()}, in.log)

	paramBytes, err := yaml.Marshal(cfg)
	if err != nil {
		return runResult{}, fmt.Errorf("serializing params: %w", err)
	}
	graphHash := g.Fingerprint()
	paramsHash := fingerprint.Params(paramBytes, rawFiles)

	cache := tripcache.New(g, tripcache.Options{
		BaseDir:    in.cacheDir,
		MaxBytes:   cfg.TripCache.MaxBytes,
		GraphHash:  graphHash,
		ParamsHash: paramsHash,
	})

	gridSize := 200.0
	if len(in.modes) > 0 {
		if m, ok := cfg.Modes[in.modes[0]]; ok && m.GridSizeMeters > 0 {
			gridSize = m.GridSizeMeters
		}
	}
	idx := candidate.NewIndex(g, gridSize)
	candParams := cfg.Candidate.ToCandidateParams()

	solverOpts := solver.Options{
		Strategy:   cfg.Solver.ToStrategy(),
		Cost:       cfg.Cost.ToCostParams(),
		MaxHopCost: cfg.Solver.MaxHopCost,
		Lambda:     cfg.Solver.Lambda,
		Fast:       cfg.Solver.Fast,
		Cache:      router.NewHopCache(1 << 16),
	}

	trie := dispatch.BuildTrie(trips)
	groups := trie.Leaves()
	shapes := make([]shape, len(trips))

	var stats telemetry.SolverStats
	stats.TotNumTrips = uint64(len(trips))
	stats.NumTries = uint64(trie.NodeCount())
	stats.NumTrieLeaves = uint64(len(groups))

	solve := func(tripIndex int) solver.Result {
		trip := trips[tripIndex]
		key := fingerprint.TripKey(trip.CanonicalIdentity())

		if cache.Enabled() {
			if hops, ok := cache.Lookup(key); ok {
				return resultFromHop(hops)
			}
		}

		candGroups := tripCandidateGroups(g, idx, trip, candParams)
		res := solver.Solve(g, candGroups, solverOpts)
		if cache.Enabled() && !res.Dropped && len(candGroups) > 0 {
			cache.Store(key, []tripcache.Hop{resultHop(candGroups, res)})
		}
		return res
	}

	report := func(tripIndex int, out dispatch.Outcome) {
		trip := trips[tripIndex]
		res := out.Result
		sh := shape{TripID: trip.ID, Dropped: res.Dropped, Cost: res.Cost}
		if !res.Dropped {
			sh.Points = solver.Polyline(g, res.Edges)
		}
		shapes[tripIndex] = sh
	}

	dispatch.Run(groups, in.parallelism, in.queueSize, solve, report)

	if in.metricsAddr != "" {
		if err := serveMetrics(in.metricsAddr, cache, &stats); err != nil {
			in.log.Errorf("metrics server: %v", err)
		}
	}

	return runResult{shapes: shapes, cache: cache, solver: stats}, nil
}

// serveMetrics blocks serving Prometheus metrics at addr until the process
// is killed, so an operator can scrape the completed run's counters before
// the batch exits.
func serveMetrics(addr string, cache *tripcache.Cache, stats *telemetry.SolverStats) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(telemetry.NewPrometheusCollector(func() (telemetry.CacheStats, telemetry.SolverStats) {
		return cache.Stats(), *stats
	}))
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return http.ListenAndServe(addr, mux)
}
