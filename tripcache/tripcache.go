// Package tripcache implements the content-addressed, on-disk trip cache:
// the entry binary format, the path layout under a version/graph/params-
// namespaced root, the mtime-based LRU eviction, and the forward+reversed
// edge fingerprint index used to resolve a persisted edge hash back to a
// live tgraph.EdgeID.
package tripcache

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/transitshape/shapegen/fingerprint"
	"github.com/transitshape/shapegen/telemetry"
	"github.com/transitshape/shapegen/tgraph"
)

// Version is the on-disk entry format version. Entries whose version
// doesn't match are discarded rather than interpreted.
const Version = 1

// Magic is the 4-byte entry header: 'P', 'F', 'C', followed by the version
// digit.
var Magic = [4]byte{'P', 'F', 'C', '0' + Version}

// Options configures a Cache's root directory and size bound.
type Options struct {
	BaseDir    string
	MaxBytes   uint64 // 0 = unbounded
	GraphHash  fingerprint.Hash128
	ParamsHash fingerprint.Hash128
}

// Cache is the shared, size-bounded trip cache: one mutex serializes all
// filesystem mutation, while hit/miss/error counters are atomic so readers
// never contend with writers for telemetry alone.
type Cache struct {
	enabled   bool
	root      string
	maxBytes  uint64
	graph     *tgraph.Graph
	edgeIndex map[fingerprint.Hash128]tgraph.EdgeID

	mu           sync.Mutex
	currentBytes uint64

	hits, misses, stores, storeSkipped, errors, evictions atomic.Uint64
	bytesRead, bytesWritten                                atomic.Uint64
}

// New builds a trip cache rooted at
// <BaseDir>/trip-cache/v<Version>/<graphHash>/<paramsHash>. If the root
// directory cannot be created, the cache disables itself and every
// operation becomes a no-op: the run continues without caching rather than
// failing outright.
func New(g *tgraph.Graph, opts Options) *Cache {
	c := &Cache{graph: g, maxBytes: opts.MaxBytes}
	if g == nil || opts.BaseDir == "" {
		return c
	}
	c.root = filepath.Join(opts.BaseDir, "trip-cache", "v"+strconv.Itoa(Version),
		opts.GraphHash.String(), opts.ParamsHash.String())
	if err := os.MkdirAll(c.root, 0o755); err != nil {
		return c
	}
	c.enabled = true
	c.edgeIndex = g.EdgeIndex()
	c.currentBytes = directorySize(c.root)
	return c
}

// Enabled reports whether the cache is actually usable.
func (c *Cache) Enabled() bool { return c.enabled }

// Stats snapshots the cache's telemetry counters.
func (c *Cache) Stats() telemetry.CacheStats {
	return telemetry.CacheStats{
		Hits:         c.hits.Load(),
		Misses:       c.misses.Load(),
		Stores:       c.stores.Load(),
		StoreSkipped: c.storeSkipped.Load(),
		Errors:       c.errors.Load(),
		Evictions:    c.evictions.Load(),
		BytesRead:    c.bytesRead.Load(),
		BytesWritten: c.bytesWritten.Load(),
	}
}

func (c *Cache) entryPath(key string) string {
	dir := c.root
	if len(key) >= 2 {
		dir = filepath.Join(dir, key[:2])
	}
	return filepath.Join(dir, key+".bin")
}

func (c *Cache) resolve(h fingerprint.Hash128) (tgraph.EdgeID, bool) {
	id, ok := c.edgeIndex[h]
	return id, ok
}
