package plugin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keen-eyes/keeneyes/plugin"
)

func TestExactConstraint(t *testing.T) {
	c, err := plugin.ParseConstraint("1.2.3")
	require.NoError(t, err)

	assert.True(t, c.IsSatisfiedBy("1.2.3"))
	assert.False(t, c.IsSatisfiedBy("1.2.4"))
	assert.False(t, c.IsSatisfiedBy("2.0.0"))
}

func TestComparisonConstraints(t *testing.T) {
	cases := []struct {
		expr    string
		version string
		want    bool
	}{
		{">=1.2.3", "1.2.3", true},
		{">=1.2.3", "1.2.2", false},
		{">1.2.3", "1.2.3", false},
		{">1.2.3", "1.3.0", true},
		{"<2.0.0", "1.9.9", true},
		{"<2.0.0", "2.0.0", false},
		{"<=2.0.0", "2.0.0", true},
	}
	for _, tc := range cases {
		c, err := plugin.ParseConstraint(tc.expr)
		require.NoError(t, err, tc.expr)
		assert.Equal(t, tc.want, c.IsSatisfiedBy(tc.version), "%s vs %s", tc.expr, tc.version)
	}
}

func TestCaretConstraint(t *testing.T) {
	c := plugin.MustConstraint("^1.0.0")

	assert.True(t, c.IsSatisfiedBy("1.0.0"))
	assert.True(t, c.IsSatisfiedBy("1.9.3"))
	assert.False(t, c.IsSatisfiedBy("2.0.0"))
	assert.False(t, c.IsSatisfiedBy("0.9.0"))
}

func TestTildeConstraint(t *testing.T) {
	c := plugin.MustConstraint("~1.2.0")

	assert.True(t, c.IsSatisfiedBy("1.2.0"))
	assert.True(t, c.IsSatisfiedBy("1.2.9"))
	assert.False(t, c.IsSatisfiedBy("1.3.0"))
	assert.False(t, c.IsSatisfiedBy("1.1.9"))
}

func TestParseConstraintRejectsGarbage(t *testing.T) {
	_, err := plugin.ParseConstraint("")
	assert.ErrorIs(t, err, plugin.ErrInvalidConstraint)

	_, err = plugin.ParseConstraint("not-a-version")
	assert.ErrorIs(t, err, plugin.ErrInvalidConstraint)
}

func TestZeroConstraintNeverSatisfied(t *testing.T) {
	var c plugin.Constraint
	assert.True(t, c.IsZero())
	assert.False(t, c.IsSatisfiedBy("1.0.0"))
}

func TestUnparsableVersionNeverSatisfies(t *testing.T) {
	c := plugin.MustConstraint("^1.0.0")
	assert.False(t, c.IsSatisfiedBy("garbage"))
}
