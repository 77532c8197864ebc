package telemetry

import "github.com/prometheus/client_golang/prometheus"

// PrometheusCollector adapts a CacheStats/SolverStats snapshot pair into a
// prometheus.Collector, so a host process can register this run's telemetry
// on its own registry without the core depending on any particular exporter
// wiring. Snapshot is called on every Collect, so the counters always reflect
// the latest values returned by the cache/solver at scrape time.
type PrometheusCollector struct {
	Snapshot func() (CacheStats, SolverStats)

	cacheDesc  map[string]*prometheus.Desc
	solverDesc map[string]*prometheus.Desc
}

// NewPrometheusCollector builds a collector that calls snapshot on every
// Collect to read the current counters.
func NewPrometheusCollector(snapshot func() (CacheStats, SolverStats)) *PrometheusCollector {
	ns := "shapegen"
	mk := func(sub, name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(ns, sub, name), help, nil, nil)
	}
	return &PrometheusCollector{
		Snapshot: snapshot,
		cacheDesc: map[string]*prometheus.Desc{
			"hits":          mk("tripcache", "hits_total", "trip cache lookups that returned a hit"),
			"misses":        mk("tripcache", "misses_total", "trip cache lookups that returned a miss"),
			"stores":        mk("tripcache", "stores_total", "trip cache entries newly written"),
			"store_skipped": mk("tripcache", "store_skipped_total", "trip cache stores skipped because the key already existed"),
			"errors":        mk("tripcache", "errors_total", "trip cache read/write errors"),
			"evictions":     mk("tripcache", "evictions_total", "trip cache entries evicted"),
			"bytes_read":    mk("tripcache", "bytes_read_total", "bytes read from the trip cache"),
			"bytes_written": mk("tripcache", "bytes_written_total", "bytes written to the trip cache"),
		},
		solverDesc: map[string]*prometheus.Desc{
			"tot_trips":      mk("solver", "trips_total", "total trips seen"),
			"tries":          mk("solver", "trie_nodes_total", "nodes in the trip trie"),
			"trie_leaves":    mk("solver", "trie_leaves_total", "distinct trip trie leaves (unique trip identities)"),
			"solve_seconds":  mk("solver", "solve_time_seconds", "cumulative solve time"),
			"dijkstra_iters": mk("solver", "dijkstra_iterations_total", "cumulative Dijkstra loop iterations"),
			"dropped":        mk("solver", "dropped_trips_total", "trips dropped for lack of an admissible path"),
		},
	}
}

// Describe implements prometheus.Collector.
func (c *PrometheusCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range c.cacheDesc {
		ch <- d
	}
	for _, d := range c.solverDesc {
		ch <- d
	}
}

// Collect implements prometheus.Collector.
func (c *PrometheusCollector) Collect(ch chan<- prometheus.Metric) {
	cs, ss := c.Snapshot()

	emit := func(d *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, v)
	}
	emit(c.cacheDesc["hits"], float64(cs.Hits))
	emit(c.cacheDesc["misses"], float64(cs.Misses))
	emit(c.cacheDesc["stores"], float64(cs.Stores))
	emit(c.cacheDesc["store_skipped"], float64(cs.StoreSkipped))
	emit(c.cacheDesc["errors"], float64(cs.Errors))
	emit(c.cacheDesc["evictions"], float64(cs.Evictions))
	emit(c.cacheDesc["bytes_read"], float64(cs.BytesRead))
	emit(c.cacheDesc["bytes_written"], float64(cs.BytesWritten))

	emit(c.solverDesc["tot_trips"], float64(ss.TotNumTrips))
	emit(c.solverDesc["tries"], float64(ss.NumTries))
	emit(c.solverDesc["trie_leaves"], float64(ss.NumTrieLeaves))
	emit(c.solverDesc["solve_seconds"], ss.SolveTimeSeconds)
	emit(c.solverDesc["dijkstra_iters"], float64(ss.DijkstraIters))
	emit(c.solverDesc["dropped"], float64(ss.NumDroppedTrips))
}
