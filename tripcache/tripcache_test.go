package tripcache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitshape/shapegen/candidate"
	"github.com/transitshape/shapegen/fingerprint"
	"github.com/transitshape/shapegen/tgraph"
)

func twoNodeGraph() (*tgraph.Graph, tgraph.EdgeID) {
	g := tgraph.NewGraph()
	a := g.AddNode(0, 0)
	b := g.AddNode(1, 0)
	e := g.AddEdge(a, b, []tgraph.Point{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 0}}, 0, tgraph.OneWayBidir, 1)
	return g, e
}

func newTestCacheIn(t *testing.T, dir string, g *tgraph.Graph, maxBytes uint64) *Cache {
	t.Helper()
	c := New(g, Options{
		BaseDir:    dir,
		MaxBytes:   maxBytes,
		GraphHash:  fingerprint.Hash128{Lo: 1, Hi: 2},
		ParamsHash: fingerprint.Hash128{Lo: 3, Hi: 4},
	})
	require.True(t, c.Enabled())
	return c
}

func newTestCache(t *testing.T, g *tgraph.Graph, maxBytes uint64) *Cache {
	t.Helper()
	return newTestCacheIn(t, t.TempDir(), g, maxBytes)
}

func pastTime() time.Time {
	return time.Now().Add(-time.Hour)
}

// S6 — trip-cache round-trip: one edge as edges[0]/start/end, progress 0->1.
func TestS6RoundTrip(t *testing.T) {
	g, e := twoNodeGraph()
	c := newTestCache(t, g, 0)

	hops := []Hop{{
		Edges: []tgraph.EdgeID{e},
		Start: candidate.Candidate{Edge: e, Progress: 0},
		End:   candidate.Candidate{Edge: e, Progress: 1},
	}}

	c.Store("trip-s6", hops)
	got, hit := c.Lookup("trip-s6")
	require.True(t, hit)
	require.Len(t, got, 1)
	assert.Equal(t, []tgraph.EdgeID{e}, got[0].Edges)
	assert.Equal(t, e, got[0].Start.Edge)
	assert.Equal(t, e, got[0].End.Edge)
	assert.Equal(t, 0.0, got[0].Start.Progress)
	assert.Equal(t, 1.0, got[0].End.Progress)

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Stores)
}

func TestLookupMissDoesNotCountError(t *testing.T) {
	g, _ := twoNodeGraph()
	c := newTestCache(t, g, 0)

	_, hit := c.Lookup("does-not-exist")
	assert.False(t, hit)
	assert.Equal(t, uint64(1), c.Stats().Misses)
	assert.Equal(t, uint64(0), c.Stats().Errors)
}

func TestStoreIsIdempotentOnExistingKey(t *testing.T) {
	g, e := twoNodeGraph()
	c := newTestCache(t, g, 0)

	hops := []Hop{{Edges: []tgraph.EdgeID{e}, Start: candidate.Candidate{Edge: e}, End: candidate.Candidate{Edge: e, Progress: 1}}}
	c.Store("dup", hops)
	c.Store("dup", hops)

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Stores)
	assert.Equal(t, uint64(1), stats.StoreSkipped)
}

func TestCorruptEntryIsEvictedAsMissAndCountsError(t *testing.T) {
	g, _ := twoNodeGraph()
	c := newTestCache(t, g, 0)

	path := c.entryPath("bad")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("not a real entry"), 0o644))

	_, hit := c.Lookup("bad")
	assert.False(t, hit)
	assert.Equal(t, uint64(1), c.Stats().Errors)
	assert.Equal(t, uint64(1), c.Stats().Misses)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestUnresolvableEdgeFingerprintIsCorrupt(t *testing.T) {
	dir := t.TempDir()
	g1, e1 := twoNodeGraph()
	c := newTestCacheIn(t, dir, g1, 0)
	hops := []Hop{{Edges: []tgraph.EdgeID{e1}, Start: candidate.Candidate{Edge: e1}, End: candidate.Candidate{Edge: e1, Progress: 1}}}
	c.Store("orphan", hops)

	// A cache built against a different graph, but the same on-disk root,
	// can't resolve g1's edge fingerprint back to one of its own EdgeIDs.
	g2 := tgraph.NewGraph()
	g2.AddNode(5, 5)
	c2 := newTestCacheIn(t, dir, g2, 0)

	_, hit := c2.Lookup("orphan")
	assert.False(t, hit)
	assert.Equal(t, uint64(1), c2.Stats().Errors)
}

func TestEvictionRemovesOldestFirst(t *testing.T) {
	g, e := twoNodeGraph()
	c := newTestCache(t, g, 0)

	hops := []Hop{{Edges: []tgraph.EdgeID{e}, Start: candidate.Candidate{Edge: e}, End: candidate.Candidate{Edge: e, Progress: 1}}}
	entrySize := uint64(len(encodeEntry(g, hops)))
	c.maxBytes = entrySize + 1 // room for only one entry at a time

	c.Store("first", hops)
	firstPath := c.entryPath("first")
	require.NoError(t, os.Chtimes(firstPath, pastTime(), pastTime()))

	c.Store("second", hops)

	_, hitFirst := c.Lookup("first")
	_, hitSecond := c.Lookup("second")
	assert.False(t, hitFirst, "oldest entry should have been evicted")
	assert.True(t, hitSecond)
	assert.True(t, c.Stats().Evictions >= 1)
}

func TestDisablesWhenBaseDirUnavailable(t *testing.T) {
	g, _ := twoNodeGraph()
	// A regular file can't be MkdirAll'd into.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	c := New(g, Options{BaseDir: filepath.Join(blocker, "nested")})
	assert.False(t, c.Enabled())

	// Every operation becomes a safe no-op.
	c.Store("k", nil)
	_, hit := c.Lookup("k")
	assert.False(t, hit)
}

func TestFreePointEndpointRoundTrips(t *testing.T) {
	g, e := twoNodeGraph()
	c := newTestCache(t, g, 0)

	hops := []Hop{{
		Edges: []tgraph.EdgeID{e},
		Start: candidate.Candidate{FreePoint: true, Point: tgraph.Point{Lon: 9, Lat: 9}},
		End:   candidate.Candidate{Edge: e, Progress: 1},
	}}
	c.Store("freept", hops)

	got, hit := c.Lookup("freept")
	require.True(t, hit)
	require.Len(t, got, 1)
	assert.True(t, got[0].Start.FreePoint)
	assert.Equal(t, tgraph.Point{Lon: 9, Lat: 9}, got[0].Start.Point)
	assert.False(t, got[0].End.FreePoint)
	assert.Equal(t, e, got[0].End.Edge)
}
