package eql_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keen-eyes/keeneyes/eql"
	"github.com/keen-eyes/keeneyes/storage"
	"github.com/keen-eyes/keeneyes/types"
)

type position struct {
	X float64
	Y float64
}

func (position) Name() string { return "position" }

type velocity struct {
	DX float64
}

func (velocity) Name() string { return "velocity" }

type burning struct{}

func (burning) Name() string { return "burning" }

func newResolver(t *testing.T) eql.Resolver {
	t.Helper()
	r := storage.NewRegistry()
	_, err := storage.RegisterComponent[position](r, false)
	require.NoError(t, err)
	_, err = storage.RegisterComponent[velocity](r, false)
	require.NoError(t, err)
	_, err = storage.RegisterComponent[burning](r, true)
	require.NoError(t, err)
	return r.GetByName
}

func match(t *testing.T, query string, comps ...types.Component) bool {
	t.Helper()
	f, err := eql.Parse(query, newResolver(t))
	require.NoError(t, err)
	return f.MatchesComponents(comps)
}

func TestParseAll(t *testing.T) {
	assert.True(t, match(t, "ALL()"))
	assert.True(t, match(t, "ALL()", position{}))
}

func TestParseContains(t *testing.T) {
	assert.True(t, match(t, "CONTAINS(position)", position{}, velocity{}))
	assert.False(t, match(t, "CONTAINS(position)", velocity{}))
	assert.True(t, match(t, "CONTAINS(position, velocity)", position{}, velocity{}, burning{}))
	assert.False(t, match(t, "CONTAINS(position, velocity)", position{}))
}

func TestParseExact(t *testing.T) {
	assert.True(t, match(t, "EXACT(position)", position{}))
	assert.False(t, match(t, "EXACT(position)", position{}, velocity{}))
	assert.True(t, match(t, "EXACT(position, velocity)", velocity{}, position{}))
}

func TestParseNot(t *testing.T) {
	assert.True(t, match(t, "!CONTAINS(burning)", position{}))
	assert.False(t, match(t, "!CONTAINS(burning)", position{}, burning{}))
}

func TestParseAndOr(t *testing.T) {
	q := "CONTAINS(position) & CONTAINS(velocity)"
	assert.True(t, match(t, q, position{}, velocity{}))
	assert.False(t, match(t, q, position{}))

	q = "CONTAINS(position) | CONTAINS(velocity)"
	assert.True(t, match(t, q, velocity{}))
	assert.False(t, match(t, q, burning{}))
}

func TestParseParenthesizedExpression(t *testing.T) {
	q := "(CONTAINS(position) | CONTAINS(velocity)) & !CONTAINS(burning)"
	assert.True(t, match(t, q, position{}))
	assert.False(t, match(t, q, position{}, burning{}))
	assert.False(t, match(t, q, burning{}))
}

func TestParseUnknownComponent(t *testing.T) {
	_, err := eql.Parse("CONTAINS(ghost)", newResolver(t))
	assert.ErrorContains(t, err, "ghost")
}

func TestParseMalformedQuery(t *testing.T) {
	for _, q := range []string{"", "CONTAINS(", "&", "EXACT position", "CONTAINS(position) &"} {
		_, err := eql.Parse(q, newResolver(t))
		assert.Error(t, err, "query %q", q)
	}
}
