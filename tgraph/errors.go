package tgraph

import "errors"

// Sentinel errors for the graph builder, following Go's errors.Is
// convention rather than typed/wrapped error hierarchies.
var (
	// ErrEmptyBBox indicates Pass A found no nodes inside the padded bbox;
	// the builder still returns an empty graph rather than failing.
	ErrEmptyBBox = errors.New("tgraph: bbox contains no nodes")

	// ErrNodeNotFound indicates a NodeID outside the current arena bounds.
	ErrNodeNotFound = errors.New("tgraph: node id out of range")

	// ErrEdgeNotFound indicates an EdgeID outside the current arena bounds.
	ErrEdgeNotFound = errors.New("tgraph: edge id out of range")
)
