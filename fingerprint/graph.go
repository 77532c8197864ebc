package fingerprint

import (
	"encoding/binary"
	"math"
	"os"
)

// GraphFromEdges computes a graph fingerprint by sorting all edge
// fingerprints ascending and hashing their concatenation.
func GraphFromEdges(edgeHashes []Hash128) Hash128 {
	sorted := make([]Hash128, len(edgeHashes))
	copy(sorted, edgeHashes)
	SortHashes(sorted)
	return ConcatHash(sorted)
}

// ExtractMeta describes a map extract file well enough to identify it
// without re-parsing, used by GraphFromExtractMeta below.
type ExtractMeta struct {
	Path      string
	SizeBytes int64
	ModTime   int64 // unix nanoseconds; caller supplies this (fingerprint never calls time.Now)
	ModeSet   []string
	GridSize  float64
	BoxPad    float64
}

// GraphFromExtractMeta computes the alternative graph fingerprint path used
// when the graph has not yet been built but must be identified: it hashes
// the params fingerprint together with the mode set, canonical map-extract
// path, extract file size, extract mtime, grid size, and box padding.
func GraphFromExtractMeta(paramsHash Hash128, meta ExtractMeta) Hash128 {
	buf := make([]byte, 0, 64+len(meta.Path)+32*len(meta.ModeSet))

	var h [16]byte
	binary.LittleEndian.PutUint64(h[0:8], paramsHash.Lo)
	binary.LittleEndian.PutUint64(h[8:16], paramsHash.Hi)
	buf = append(buf, h[:]...)

	buf = append(buf, []byte(meta.Path)...)
	buf = append(buf, 0)

	for _, m := range meta.ModeSet {
		buf = append(buf, []byte(m)...)
		buf = append(buf, 0)
	}

	var nums [8 + 8 + 8 + 8]byte
	binary.LittleEndian.PutUint64(nums[0:8], uint64(meta.SizeBytes))
	binary.LittleEndian.PutUint64(nums[8:16], uint64(meta.ModTime))
	binary.LittleEndian.PutUint64(nums[16:24], math.Float64bits(meta.GridSize))
	binary.LittleEndian.PutUint64(nums[24:32], math.Float64bits(meta.BoxPad))
	buf = append(buf, nums[:]...)

	return hash128Of(buf)
}

// StatExtract is a small helper that builds an ExtractMeta from a file on
// disk, used by callers that have a path but not yet a parsed graph. It is
// kept here (rather than in an os-free test-friendly form) since the map
// extract is genuinely a filesystem artifact in every real deployment; unit
// tests construct ExtractMeta directly instead of calling this.
func StatExtract(path string, modeSet []string, gridSize, boxPad float64) (ExtractMeta, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return ExtractMeta{}, err
	}
	return ExtractMeta{
		Path:      path,
		SizeBytes: fi.Size(),
		ModTime:   fi.ModTime().UnixNano(),
		ModeSet:   modeSet,
		GridSize:  gridSize,
		BoxPad:    boxPad,
	}, nil
}
