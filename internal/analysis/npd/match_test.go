// Filename: npd/match_test.go
package npd_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/nullpath-cli/internal/analysis/npd"
	"github.com/xkilldash9x/nullpath-cli/internal/analysis/pytree"
)

func TestMatch_EmptySources(t *testing.T) {
	sinks := []npd.SinkEvent{{Variable: "x", Line: 5}}
	assert.Nil(t, npd.Match(nil, sinks, pytree.FunctionUnit{}))
}

func TestMatch_EmptySinks(t *testing.T) {
	sources := []npd.SourceEvent{{Variable: "x", Line: 2}}
	assert.Nil(t, npd.Match(sources, nil, pytree.FunctionUnit{}))
}

func TestMatch_SourceBeforeSink(t *testing.T) {
	sources := []npd.SourceEvent{{Variable: "x", Line: 2}}
	sinks := []npd.SinkEvent{{Variable: "x", Line: 4}}

	candidates := npd.Match(sources, sinks, pytree.FunctionUnit{})
	require.Len(t, candidates, 1)
	assert.Equal(t, "x", candidates[0].Variable)
	assert.Equal(t, 2, candidates[0].SourceLine)
	assert.Equal(t, 4, candidates[0].SinkLine)
}

func TestMatch_SourceAfterSinkNeverPairs(t *testing.T) {
	sources := []npd.SourceEvent{{Variable: "x", Line: 7}}
	sinks := []npd.SinkEvent{{Variable: "x", Line: 3}}

	assert.Empty(t, npd.Match(sources, sinks, pytree.FunctionUnit{}))
}

func TestMatch_EqualLinesNeverPair(t *testing.T) {
	sources := []npd.SourceEvent{{Variable: "x", Line: 3}}
	sinks := []npd.SinkEvent{{Variable: "x", Line: 3}}

	assert.Empty(t, npd.Match(sources, sinks, pytree.FunctionUnit{}))
}

func TestMatch_VariableMismatch(t *testing.T) {
	sources := []npd.SourceEvent{{Variable: "x", Line: 1}}
	sinks := []npd.SinkEvent{{Variable: "y", Line: 5}}

	assert.Empty(t, npd.Match(sources, sinks, pytree.FunctionUnit{}))
}

func TestMatch_FullCrossProduct(t *testing.T) {
	// m sources and n sinks on one variable, every source before every
	// sink, must yield exactly m*n candidates.
	sources := []npd.SourceEvent{
		{Variable: "v", Line: 1},
		{Variable: "v", Line: 2},
		{Variable: "v", Line: 3},
	}
	sinks := []npd.SinkEvent{
		{Variable: "v", Line: 10},
		{Variable: "v", Line: 11},
	}

	candidates := npd.Match(sources, sinks, pytree.FunctionUnit{})
	require.Len(t, candidates, 6)
	for _, cand := range candidates {
		assert.Less(t, cand.SourceLine, cand.SinkLine)
	}
}

func TestMatch_MixedVariables(t *testing.T) {
	sources := []npd.SourceEvent{
		{Variable: "a", Line: 1},
		{Variable: "b", Line: 2},
	}
	sinks := []npd.SinkEvent{
		{Variable: "a", Line: 5},
		{Variable: "b", Line: 1}, // before its source, excluded
		{Variable: "c", Line: 9},
	}

	candidates := npd.Match(sources, sinks, pytree.FunctionUnit{})
	require.Len(t, candidates, 1)
	assert.Equal(t, "a", candidates[0].Variable)
}
