package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagRuleSetPredicateMatchesKeyOnly(t *testing.T) {
	rs := TagRuleSet{{Key: "railway"}}
	pred := rs.Predicate()
	assert.True(t, pred(map[string]string{"railway": "rail"}))
	assert.True(t, pred(map[string]string{"railway": "tram"}))
	assert.False(t, pred(map[string]string{"highway": "primary"}))
}

func TestTagRuleSetPredicateMatchesKeyValue(t *testing.T) {
	rs := TagRuleSet{{Key: "railway", Value: "rail"}}
	pred := rs.Predicate()
	assert.True(t, pred(map[string]string{"railway": "rail"}))
	assert.False(t, pred(map[string]string{"railway": "tram"}))
}

func TestTagRuleSetPredicateIsOrOfRules(t *testing.T) {
	rs := TagRuleSet{{Key: "railway", Value: "rail"}, {Key: "highway", Value: "busway"}}
	pred := rs.Predicate()
	assert.True(t, pred(map[string]string{"highway": "busway"}))
	assert.False(t, pred(map[string]string{"highway": "primary"}))
}

func TestLevelRuleSetClassifierFirstMatchWins(t *testing.T) {
	rs := LevelRuleSet{
		{Key: "railway", Value: "rail", Level: 2},
		{Key: "railway", Value: "light_rail", Level: 1},
	}
	classify := rs.Classifier()
	assert.EqualValues(t, 2, classify(map[string]string{"railway": "rail"}))
	assert.EqualValues(t, 1, classify(map[string]string{"railway": "light_rail"}))
	assert.EqualValues(t, 0, classify(map[string]string{"railway": "subway"}))
}

func TestModeParamsReadOptionsWiresPredicates(t *testing.T) {
	m := ModeParams{
		KeepWay: TagRuleSet{{Key: "railway", Value: "rail"}},
		DropWay: TagRuleSet{{Key: "service", Value: "yard"}},
		Levels:  LevelRuleSet{{Key: "railway", Value: "rail", Level: 2}},
	}
	ro := m.ReadOptions()
	require.NotNil(t, ro.KeepWay)
	require.NotNil(t, ro.DropWay)
	require.NotNil(t, ro.LevelOf)
	assert.True(t, ro.KeepWay(map[string]string{"railway": "rail"}))
	assert.True(t, ro.DropWay(map[string]string{"service": "yard"}))
	assert.EqualValues(t, 2, ro.LevelOf(map[string]string{"railway": "rail"}))
}

func TestCandidateParamsToCandidateParamsMatchDeltaSignConvention(t *testing.T) {
	cp := CandidateParams{Sigma: 10, StationMatchBonus: 5, PlatformMatchBonus: 2}
	p := cp.ToCandidateParams()

	lineSet := map[string]bool{"stationA": true}
	delta := p.StationMatchDelta("stationA", lineSet)
	assert.Less(t, delta, 0.0, "a match must produce a negative (bonus) delta")
	assert.Equal(t, -5.0, delta)

	noMatch := p.StationMatchDelta("stationB", lineSet)
	assert.Equal(t, 0.0, noMatch)

	platformDelta := p.PlatformMatchDelta("", lineSet)
	assert.Equal(t, 0.0, platformDelta)
}

func TestCandidateParamsBaseGeoPenaltyGrowsWithDistance(t *testing.T) {
	cp := CandidateParams{Sigma: 5}
	p := cp.ToCandidateParams()
	near := p.BaseGeoPenalty(1)
	far := p.BaseGeoPenalty(10)
	assert.Less(t, near, far)
}

func TestSolverParamsToStrategyDefaultsToGlobal(t *testing.T) {
	assert.Equal(t, 0, int(SolverParams{}.ToStrategy()))
	assert.Equal(t, 0, int(SolverParams{Strategy: "unknown"}.ToStrategy()))
}

func TestLoadMergesOverlaysAndReturnsRawBytes(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.yaml")
	overlay := filepath.Join(dir, "overlay.yaml")

	require.NoError(t, os.WriteFile(base, []byte("candidate:\n  sigma: 10\n  stationMatchBonus: 5\n"), 0o644))
	require.NoError(t, os.WriteFile(overlay, []byte("candidate:\n  sigma: 20\n"), 0o644))

	p, raw, err := Load(base, overlay)
	require.NoError(t, err)
	require.Len(t, raw, 2)
	assert.Equal(t, 20.0, p.Candidate.Sigma)
	assert.Equal(t, 5.0, p.Candidate.StationMatchBonus)
	assert.Contains(t, string(raw[0]), "sigma: 10")
	assert.Contains(t, string(raw[1]), "sigma: 20")
}

func TestLoadPropagatesMissingFileError(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
