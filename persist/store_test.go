package persist_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keen-eyes/keeneyes/persist"
)

func TestValidateSlotName(t *testing.T) {
	assert.NoError(t, persist.ValidateSlotName("save-01"))
	assert.NoError(t, persist.ValidateSlotName("autosave"))

	for _, bad := range []string{"", ".", "..", "a/b", `a\b`, "../escape"} {
		assert.ErrorIs(t, persist.ValidateSlotName(bad), persist.ErrInvalidSlotName, "%q", bad)
	}
}

func TestFileStoreHonorsCancelledContext(t *testing.T) {
	store, err := persist.NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Write(ctx, "slot", []byte("payload")), context.Canceled)
	_, err = store.Read(ctx, "slot")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, store.Delete(ctx, "slot"), context.Canceled)
	_, err = store.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func testStoreContract(t *testing.T, store persist.SlotStore) {
	t.Helper()
	ctx := context.Background()

	exists, err := store.Exists(ctx, "slot1")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = store.Read(ctx, "slot1")
	assert.ErrorIs(t, err, persist.ErrSlotNotFound)

	require.NoError(t, store.Write(ctx, "slot1", []byte("payload one")))
	require.NoError(t, store.Write(ctx, "slot2", []byte("payload two")))

	exists, err = store.Exists(ctx, "slot1")
	require.NoError(t, err)
	assert.True(t, exists)

	data, err := store.Read(ctx, "slot1")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload one"), data)

	// Overwrite.
	require.NoError(t, store.Write(ctx, "slot1", []byte("rewritten")))
	data, err = store.Read(ctx, "slot1")
	require.NoError(t, err)
	assert.Equal(t, []byte("rewritten"), data)

	slots, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"slot1", "slot2"}, slots)

	require.NoError(t, store.Delete(ctx, "slot1"))
	assert.ErrorIs(t, store.Delete(ctx, "slot1"), persist.ErrSlotNotFound)

	slots, err = store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"slot2"}, slots)
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	store, err := persist.NewFileStore(dir)
	require.NoError(t, err)

	testStoreContract(t, store)

	// Slots land on disk as <name>.ksave.
	require.NoError(t, store.Write(context.Background(), "ondisk", []byte("x")))
	_, err = os.Stat(filepath.Join(dir, "ondisk.ksave"))
	assert.NoError(t, err)
}

func TestFileStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "saves")
	_, err := persist.NewFileStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFileStoreRejectsBadSlotNames(t *testing.T) {
	store, err := persist.NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	assert.ErrorIs(t, store.Write(ctx, "../evil", []byte("x")), persist.ErrInvalidSlotName)
	_, err = store.Read(ctx, "")
	assert.ErrorIs(t, err, persist.ErrInvalidSlotName)
}

func TestRedisStore(t *testing.T) {
	srv := miniredis.RunT(t)
	store := persist.NewRedisStore(srv.Addr(), "", "test:save:")
	t.Cleanup(func() { _ = store.Close() })

	testStoreContract(t, store)
}
