package keeneyes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keen-eyes/keeneyes"
	"github.com/keen-eyes/keeneyes/types"
)

func buildFamily(t *testing.T, w *keeneyes.World) (root, child, grandchild types.Entity) {
	t.Helper()
	var err error
	root, err = w.Spawn().Build()
	require.NoError(t, err)
	child, err = w.Spawn().Build()
	require.NoError(t, err)
	grandchild, err = w.Spawn().Build()
	require.NoError(t, err)
	require.NoError(t, w.SetParent(child, root))
	require.NoError(t, w.SetParent(grandchild, child))
	return root, child, grandchild
}

func TestSetParentAndGetParent(t *testing.T) {
	w := newTestWorld(t)
	root, child, _ := buildFamily(t, w)

	assert.Equal(t, root, w.GetParent(child))
	assert.Equal(t, types.Null, w.GetParent(root))
}

func TestSetParentNullDetaches(t *testing.T) {
	w := newTestWorld(t)
	root, child, _ := buildFamily(t, w)

	require.NoError(t, w.SetParent(child, types.Null))
	assert.Equal(t, types.Null, w.GetParent(child))
	assert.NotContains(t, w.GetChildren(root), child)
}

func TestSetParentReparents(t *testing.T) {
	w := newTestWorld(t)
	root, child, _ := buildFamily(t, w)

	other, err := w.Spawn().Build()
	require.NoError(t, err)
	require.NoError(t, w.SetParent(child, other))

	assert.Equal(t, other, w.GetParent(child))
	assert.Empty(t, w.GetChildren(root))
}

func TestCycleRefusedStrict(t *testing.T) {
	w := newTestWorld(t)
	root, _, grandchild := buildFamily(t, w)

	err := w.SetParent(root, grandchild)
	assert.ErrorIs(t, err, keeneyes.ErrHierarchyCycle)
	err = w.SetParent(root, root)
	assert.ErrorIs(t, err, keeneyes.ErrHierarchyCycle)
	// Hierarchy unchanged.
	assert.Equal(t, types.Null, w.GetParent(root))
}

func TestCycleIgnoredLenient(t *testing.T) {
	w := newTestWorld(t, keeneyes.WithStrictHierarchy(false))
	root, _, grandchild := buildFamily(t, w)

	require.NoError(t, w.SetParent(root, grandchild))
	assert.Equal(t, types.Null, w.GetParent(root))
}

func TestSetParentDeadEntities(t *testing.T) {
	w := newTestWorld(t)
	e, err := w.Spawn().Build()
	require.NoError(t, err)
	dead, err := w.Spawn().Build()
	require.NoError(t, err)
	require.NoError(t, w.Despawn(dead))

	assert.ErrorIs(t, w.SetParent(dead, e), keeneyes.ErrEntityNotFound)
	assert.ErrorIs(t, w.SetParent(e, dead), keeneyes.ErrEntityNotFound)
}

func TestRemoveChild(t *testing.T) {
	w := newTestWorld(t)
	root, child, _ := buildFamily(t, w)

	stranger, err := w.Spawn().Build()
	require.NoError(t, err)

	assert.False(t, w.RemoveChild(stranger, child))
	assert.Equal(t, root, w.GetParent(child))

	assert.True(t, w.RemoveChild(root, child))
	assert.Equal(t, types.Null, w.GetParent(child))
	assert.False(t, w.RemoveChild(root, child))
}

func TestDescendantsAndAncestors(t *testing.T) {
	w := newTestWorld(t)
	root, child, grandchild := buildFamily(t, w)

	assert.ElementsMatch(t, []types.Entity{child, grandchild}, w.GetDescendants(root))
	assert.Equal(t, []types.Entity{child, root}, w.GetAncestors(grandchild))
	assert.Empty(t, w.GetAncestors(root))
}

func TestGetRoot(t *testing.T) {
	w := newTestWorld(t)
	root, _, grandchild := buildFamily(t, w)

	assert.Equal(t, root, w.GetRoot(grandchild))
	assert.Equal(t, root, w.GetRoot(root))
}

func TestAddChildIsSetParentFlipped(t *testing.T) {
	w := newTestWorld(t)
	parent, err := w.Spawn().Build()
	require.NoError(t, err)
	child, err := w.Spawn().Build()
	require.NoError(t, err)

	require.NoError(t, w.AddChild(parent, child))
	assert.Equal(t, parent, w.GetParent(child))
	assert.Equal(t, []types.Entity{child}, w.GetChildren(parent))
}
