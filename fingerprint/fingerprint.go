// Package fingerprint implements stable, deterministic hashing of graph
// edges, whole graphs, parameter sets, and trip identities.
//
// All hashes here are content hashes (xxhash), never identity/pointer
// hashes: two graphs built from byte-identical inputs must fingerprint
// identically regardless of build order, map iteration order, or the
// process's memory layout.
package fingerprint

import (
	"encoding/binary"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Hash128 is a 128-bit content hash, split into two independent 64-bit
// halves computed with different seeds so that collisions in one half are
// not correlated with collisions in the other.
type Hash128 struct {
	Lo uint64
	Hi uint64
}

// Less orders two hashes for deterministic sorting: graph fingerprinting
// sorts edge hashes ascending before concatenating, so fingerprints are
// independent of edge build order.
func (h Hash128) Less(o Hash128) bool {
	if h.Lo != o.Lo {
		return h.Lo < o.Lo
	}
	return h.Hi < o.Hi
}

// hashSeeded returns the xxhash of data under the given seed, used to
// derive two independent 64-bit halves from one byte sequence.
func hashSeeded(seed uint64, data []byte) uint64 {
	d := xxhash.NewWithSeed(seed)
	_, _ = d.Write(data)
	return d.Sum64()
}

// hash128Of hashes data twice under two fixed, distinct seeds to build a
// Hash128. It is the shared primitive this package's composite
// fingerprints (graph, params, trip key) are built on.
func hash128Of(data []byte) Hash128 {
	const seedLo, seedHi = 0x9E3779B97F4A7C15, 0xC2B2AE3D27D4EB4F
	return Hash128{Lo: hashSeeded(seedLo, data), Hi: hashSeeded(seedHi, data)}
}

// SortHashes sorts a slice of Hash128 ascending, in place, the order graph
// fingerprinting requires before concatenation.
func SortHashes(hs []Hash128) {
	sort.Slice(hs, func(i, j int) bool { return hs[i].Less(hs[j]) })
}

// ConcatHash hashes the concatenation of already-sorted Hash128 values into
// a single Hash128 — the final step of graph fingerprinting.
func ConcatHash(sorted []Hash128) Hash128 {
	buf := make([]byte, 0, len(sorted)*16)
	for _, h := range sorted {
		var b [16]byte
		binary.LittleEndian.PutUint64(b[0:8], h.Lo)
		binary.LittleEndian.PutUint64(b[8:16], h.Hi)
		buf = append(buf, b[:]...)
	}
	return hash128Of(buf)
}

// DeriveSeed folds the 128-bit graph and params fingerprints into a single
// deterministic uint32 PRNG seed, used whenever the solver needs a PRNG —
// e.g. Gaussian noise injection for candidate disambiguation — so two runs
// with identical inputs reproduce identical shapes.
func DeriveSeed(graphHash, paramsHash Hash128) uint32 {
	x := graphHash.Lo ^ graphHash.Hi ^ paramsHash.Lo ^ paramsHash.Hi
	return uint32(x) ^ uint32(x>>32)
}

// String renders a Hash128 as lowercase hex, the form used for cache keys
// and directory names.
func (h Hash128) String() string {
	const hexdigits = "0123456789abcdef"
	var out [32]byte
	put := func(off int, v uint64) {
		for i := 0; i < 16; i++ {
			shift := uint(60 - i*4)
			out[off+i] = hexdigits[(v>>shift)&0xF]
		}
	}
	put(0, h.Hi)
	put(16, h.Lo)
	return string(out[:])
}

// IsZero reports whether h is the zero value, used by callers to detect an
// unset/uncomputed fingerprint.
func (h Hash128) IsZero() bool { return h.Lo == 0 && h.Hi == 0 }
