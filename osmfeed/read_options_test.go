package osmfeed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateNodeFlags(t *testing.T) {
	opts := ReadOptions{
		StationNode: func(tags map[string]string) bool { return tags["railway"] == "station" },
		BlockerNode: func(tags map[string]string) bool { return tags["barrier"] == "gate" },
	}
	f := opts.EvaluateNodeFlags(map[string]string{"railway": "station"}, true)
	assert.True(t, f.Has(NodeFlagStation))
	assert.True(t, f.Has(NodeFlagInBBox))
	assert.False(t, f.Has(NodeFlagBlocker))
}

func TestEvaluateWayFlagsKeepDropPriority(t *testing.T) {
	opts := ReadOptions{
		KeepWay: func(tags map[string]string) bool { return tags["highway"] != "" },
		DropWay: func(tags map[string]string) bool { return tags["access"] == "private" },
	}
	f := opts.EvaluateWayFlags(map[string]string{"highway": "residential", "access": "private"})
	assert.True(t, f.Has(WayFlagDrop))
	assert.False(t, f.Has(WayFlagKeep))

	f2 := opts.EvaluateWayFlags(map[string]string{"highway": "residential"})
	assert.True(t, f2.Has(WayFlagKeep))
	assert.False(t, f2.Has(WayFlagDrop))
}

func TestEvaluateRelFlagsNilPredicatesAreFalse(t *testing.T) {
	var opts ReadOptions
	f := opts.EvaluateRelFlags(map[string]string{"type": "restriction"})
	assert.False(t, f.Has(RelFlagKeep))
	assert.False(t, f.Has(RelFlagRestrictionPositive))
}
