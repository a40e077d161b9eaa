package filter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/keen-eyes/keeneyes/filter"
	"github.com/keen-eyes/keeneyes/types"
)

type alpha struct{}

func (alpha) Name() string { return "alpha" }

type beta struct{}

func (beta) Name() string { return "beta" }

type gamma struct{}

func (gamma) Name() string { return "gamma" }

func TestContains(t *testing.T) {
	f := filter.Contains(alpha{}, beta{})

	assert.True(t, f.MatchesComponents([]types.Component{alpha{}, beta{}, gamma{}}))
	assert.False(t, f.MatchesComponents([]types.Component{alpha{}, gamma{}}))
	assert.False(t, f.MatchesComponents(nil))
}

func TestExact(t *testing.T) {
	f := filter.Exact(alpha{}, beta{})

	assert.True(t, f.MatchesComponents([]types.Component{beta{}, alpha{}}))
	assert.False(t, f.MatchesComponents([]types.Component{alpha{}, beta{}, gamma{}}))
	assert.False(t, f.MatchesComponents([]types.Component{alpha{}}))
}

func TestAll(t *testing.T) {
	f := filter.All()

	assert.True(t, f.MatchesComponents(nil))
	assert.True(t, f.MatchesComponents([]types.Component{gamma{}}))
}

func TestNot(t *testing.T) {
	f := filter.Not(filter.Contains(alpha{}))

	assert.False(t, f.MatchesComponents([]types.Component{alpha{}, beta{}}))
	assert.True(t, f.MatchesComponents([]types.Component{beta{}}))
}

func TestAndOr(t *testing.T) {
	and := filter.And(filter.Contains(alpha{}), filter.Contains(beta{}))
	assert.True(t, and.MatchesComponents([]types.Component{alpha{}, beta{}}))
	assert.False(t, and.MatchesComponents([]types.Component{alpha{}}))

	or := filter.Or(filter.Contains(alpha{}), filter.Contains(beta{}))
	assert.True(t, or.MatchesComponents([]types.Component{beta{}}))
	assert.False(t, or.MatchesComponents([]types.Component{gamma{}}))
}

func TestComposedFilters(t *testing.T) {
	// alpha present and beta absent, or exactly {gamma}.
	f := filter.Or(
		filter.And(filter.Contains(alpha{}), filter.Not(filter.Contains(beta{}))),
		filter.Exact(gamma{}),
	)

	assert.True(t, f.MatchesComponents([]types.Component{alpha{}, gamma{}}))
	assert.True(t, f.MatchesComponents([]types.Component{gamma{}}))
	assert.False(t, f.MatchesComponents([]types.Component{alpha{}, beta{}}))
	assert.False(t, f.MatchesComponents([]types.Component{gamma{}, beta{}}))
}
