package osmfeed

// TagPredicate decides whether a tag set satisfies some classification rule.
type TagPredicate func(tags map[string]string) bool

// LevelClassifier maps a way's tags to a small integer road/rail class.
type LevelClassifier func(tags map[string]string) int32

// NodeFlag is one bit of the precompiled per-node predicate bitfield: the
// predicate set is compiled once into a bitmask so every subsequent check
// is a bit test instead of a tag-map lookup.
type NodeFlag uint8

const (
	NodeFlagStation NodeFlag = 1 << iota
	NodeFlagBlocker
	NodeFlagTurnCycle
	NodeFlagNohup
	NodeFlagInBBox
)

// WayFlag is the equivalent precompiled bitfield for ways.
type WayFlag uint8

const (
	WayFlagKeep WayFlag = 1 << iota
	WayFlagDrop
	WayFlagOneWay
	WayFlagOneWayReverse
)

// RelFlag is the equivalent precompiled bitfield for relations.
type RelFlag uint8

const (
	RelFlagKeep RelFlag = 1 << iota
	RelFlagDrop
	RelFlagRestrictionPositive
	RelFlagRestrictionNegative
)

// ReadOptions bundles all the per-mode tag predicates and classifiers the
// graph builder needs during its three-pass ingest. Every field defaults
// to "reject everything" (nil predicates are treated as always false) so a
// caller must opt in to each classification explicitly.
type ReadOptions struct {
	// Node-level predicates.
	KeepNode    TagPredicate
	DropNode    TagPredicate
	NohupNode   TagPredicate
	StationNode TagPredicate
	BlockerNode TagPredicate
	TurnCycleNode TagPredicate

	// Way-level predicates.
	KeepWay          TagPredicate
	DropWay          TagPredicate
	OneWayWay        TagPredicate
	OneWayReverseWay TagPredicate
	LevelOf          LevelClassifier

	// Relation-level predicates.
	KeepRel              TagPredicate
	DropRel              TagPredicate
	RestrictionPositive  TagPredicate
	RestrictionNegative  TagPredicate

	// NoLinePunishFactor multiplies edge cost when the edge's static
	// line-set is empty; 1 disables it.
	NoLinePunishFactor float64

	// OneWayPunishFactor multiplies traversal cost of wrong-direction
	// shadow edges.
	OneWayPunishFactor float64

	// StationSnapRadiusMeters bounds how far station snapping will search
	// for an edge to project a station onto.
	StationSnapRadiusMeters float64

	// GridSizeMeters sizes the gap-fixing merge cell and scales the
	// geometry simplifier's Douglas-Peucker epsilon.
	GridSizeMeters float64

	// BBoxPadMeters pads the bounding box used by Pass A's in-bbox test.
	BBoxPadMeters float64
}

func eval(p TagPredicate, tags map[string]string) bool {
	if p == nil {
		return false
	}
	return p(tags)
}

// EvaluateNodeFlags precompiles a node's tags into a NodeFlag bitmask. The
// caller supplies inBBox separately since that depends on coordinates, not
// tags.
func (o ReadOptions) EvaluateNodeFlags(tags map[string]string, inBBox bool) NodeFlag {
	var f NodeFlag
	if eval(o.StationNode, tags) {
		f |= NodeFlagStation
	}
	if eval(o.BlockerNode, tags) {
		f |= NodeFlagBlocker
	}
	if eval(o.TurnCycleNode, tags) {
		f |= NodeFlagTurnCycle
	}
	if eval(o.NohupNode, tags) {
		f |= NodeFlagNohup
	}
	if inBBox {
		f |= NodeFlagInBBox
	}
	return f
}

// EvaluateWayFlags precompiles a way's tags into a WayFlag bitmask.
func (o ReadOptions) EvaluateWayFlags(tags map[string]string) WayFlag {
	var f WayFlag
	if eval(o.KeepWay, tags) && !eval(o.DropWay, tags) {
		f |= WayFlagKeep
	}
	if eval(o.DropWay, tags) {
		f |= WayFlagDrop
	}
	if eval(o.OneWayWay, tags) {
		f |= WayFlagOneWay
	}
	if eval(o.OneWayReverseWay, tags) {
		f |= WayFlagOneWayReverse
	}
	return f
}

// EvaluateRelFlags precompiles a relation's tags into a RelFlag bitmask.
func (o ReadOptions) EvaluateRelFlags(tags map[string]string) RelFlag {
	var f RelFlag
	if eval(o.KeepRel, tags) && !eval(o.DropRel, tags) {
		f |= RelFlagKeep
	}
	if eval(o.DropRel, tags) {
		f |= RelFlagDrop
	}
	if eval(o.RestrictionPositive, tags) {
		f |= RelFlagRestrictionPositive
	}
	if eval(o.RestrictionNegative, tags) {
		f |= RelFlagRestrictionNegative
	}
	return f
}

// Has reports whether all bits in mask are set in f.
func (f NodeFlag) Has(mask NodeFlag) bool { return f&mask == mask }

// Has reports whether all bits in mask are set in f.
func (f WayFlag) Has(mask WayFlag) bool { return f&mask == mask }

// Has reports whether all bits in mask are set in f.
func (f RelFlag) Has(mask RelFlag) bool { return f&mask == mask }
