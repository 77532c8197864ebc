package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComponentLowerBoundsZeroAtTarget(t *testing.T) {
	g, eA, _, eC := buildScenarioGraph()
	bounds := PrecomputeComponentLowerBounds(g)

	target := g.Edge(eC).To
	h := bounds.Heuristic(target)
	assert.Equal(t, 0.0, h(target))

	from := g.Edge(eA).From
	assert.Greater(t, h(from), 0.0)
}
