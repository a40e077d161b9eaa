package keeneyes_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keen-eyes/keeneyes"
	"github.com/keen-eyes/keeneyes/persist"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	w := newTestWorld(t)
	ctx := context.Background()

	_, err := w.Spawn().
		With(Position{X: 50, Y: 100}).
		WithName("Player").
		WithTag("hero").
		Build()
	require.NoError(t, err)

	info, err := w.SaveToSlot(ctx, "campaign")
	require.NoError(t, err)
	assert.Equal(t, 1, info.EntityCount)

	w.Clear()
	require.Equal(t, 0, w.EntityCount())

	idMap, err := w.LoadFromSlot(ctx, "campaign")
	require.NoError(t, err)
	assert.Len(t, idMap, 1)

	player, found := w.GetEntityByName("Player")
	require.True(t, found)
	assert.True(t, w.IsAlive(player))
	assert.True(t, w.HasTag(player, "hero"))

	pos, err := keeneyes.GetComponent[Position](w, player)
	require.NoError(t, err)
	assert.Equal(t, 50.0, pos.X)
	assert.Equal(t, 100.0, pos.Y)
}

func TestSaveLoadPreservesHierarchyAndTags(t *testing.T) {
	w := newTestWorld(t)
	ctx := context.Background()

	parent, err := w.Spawn().With(Position{X: 1}).WithName("base").Build()
	require.NoError(t, err)
	child, err := w.Spawn().With(Position{X: 2}).WithName("turret").WithTag("armed").Build()
	require.NoError(t, err)
	require.NoError(t, w.SetParent(child, parent))

	_, err = w.SaveToSlot(ctx, "structure")
	require.NoError(t, err)
	w.Clear()

	idMap, err := w.LoadFromSlot(ctx, "structure")
	require.NoError(t, err)

	newParent := idMap[parent]
	newChild := idMap[child]
	assert.Equal(t, newParent, w.GetParent(newChild))
	assert.Equal(t, []string{"armed"}, w.GetTags(newChild))
	assert.Equal(t, "base", w.GetName(newParent))
}

func TestSaveLoadTagComponents(t *testing.T) {
	w := newTestWorld(t)
	ctx := context.Background()

	e, err := w.Spawn().With(Position{}).With(PlayerTag{}).WithName("tagged").Build()
	require.NoError(t, err)
	require.True(t, keeneyes.HasComponent[PlayerTag](w, e))

	_, err = w.SaveToSlot(ctx, "tags")
	require.NoError(t, err)
	w.Clear()

	_, err = w.LoadFromSlot(ctx, "tags")
	require.NoError(t, err)

	loaded, found := w.GetEntityByName("tagged")
	require.True(t, found)
	assert.True(t, keeneyes.HasComponent[PlayerTag](w, loaded))
}

func TestLoadIsAdditive(t *testing.T) {
	w := newTestWorld(t)
	ctx := context.Background()

	_, err := w.Spawn().With(Counter{Value: 1}).WithName("saved").Build()
	require.NoError(t, err)
	_, err = w.SaveToSlot(ctx, "partial")
	require.NoError(t, err)
	w.Clear()

	survivor, err := w.Spawn().With(Counter{Value: 2}).WithName("survivor").Build()
	require.NoError(t, err)

	_, err = w.LoadFromSlot(ctx, "partial")
	require.NoError(t, err)

	assert.Equal(t, 2, w.EntityCount())
	assert.True(t, w.IsAlive(survivor))
	_, found := w.GetEntityByName("saved")
	assert.True(t, found)
}

func TestLoadSkipsUnregisteredComponents(t *testing.T) {
	dir := t.TempDir()
	w := newTestWorld(t, keeneyes.WithSaveDirectory(dir))
	ctx := context.Background()

	_, err := w.Spawn().With(Counter{Value: 7}).With(Position{X: 3}).WithName("mixed").Build()
	require.NoError(t, err)
	_, err = w.SaveToSlot(ctx, "mixed")
	require.NoError(t, err)

	// A fresh world that never registered Counter still loads the slot; the
	// unknown component is dropped with a warning.
	w2, err := keeneyes.NewWorld(keeneyes.WithSaveDirectory(dir))
	require.NoError(t, err)
	require.NoError(t, keeneyes.RegisterComponent[Position](w2))

	_, err = w2.LoadFromSlot(ctx, "mixed")
	require.NoError(t, err)

	loaded, found := w2.GetEntityByName("mixed")
	require.True(t, found)
	pos, err := keeneyes.GetComponent[Position](w2, loaded)
	require.NoError(t, err)
	assert.Equal(t, 3.0, pos.X)
	assert.False(t, keeneyes.HasComponent[Counter](w2, loaded))
}

func TestSaveLoadBinaryEncrypted(t *testing.T) {
	store, err := persist.NewFileStore(t.TempDir())
	require.NoError(t, err)
	manager := persist.NewManager(store,
		persist.WithFormat(persist.FormatBinary),
		persist.WithEncryption(persist.NewAESProvider("vault")),
	)
	w := newTestWorld(t, keeneyes.WithSaveManager(manager))
	ctx := context.Background()

	_, err = w.Spawn().With(Health{Current: 9, Max: 10}).WithName("knight").Build()
	require.NoError(t, err)

	info, err := w.SaveToSlot(ctx, "encrypted")
	require.NoError(t, err)
	assert.True(t, info.Encrypted)
	assert.Equal(t, persist.FormatBinary, info.Format)

	w.Clear()
	_, err = w.LoadFromSlot(ctx, "encrypted")
	require.NoError(t, err)

	knight, found := w.GetEntityByName("knight")
	require.True(t, found)
	hp, err := keeneyes.GetComponent[Health](w, knight)
	require.NoError(t, err)
	assert.Equal(t, 9, hp.Current)
}

func TestLoadMissingSlot(t *testing.T) {
	w := newTestWorld(t)
	_, err := w.LoadFromSlot(context.Background(), "void")
	assert.ErrorIs(t, err, persist.ErrSlotNotFound)
}
