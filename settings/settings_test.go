package settings_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keen-eyes/keeneyes/settings"
)

func TestDefaultsBeforeLoad(t *testing.T) {
	ctx := settings.NewContext(filepath.Join(t.TempDir(), "editor.json"))
	assert.Equal(t, settings.Defaults(), ctx.Current())
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	ctx := settings.NewContext(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, ctx.Load())
	assert.Equal(t, settings.Defaults(), ctx.Current())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "editor.json")

	ctx := settings.NewContext(path)
	ctx.Update(func(s *settings.EditorSettings) {
		s.LogLevel = "debug"
		s.AutoSaveIntervalSeconds = 60
	})
	require.NoError(t, ctx.Save())

	reloaded := settings.NewContext(path)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, "debug", reloaded.Current().LogLevel)
	assert.Equal(t, 60, reloaded.Current().AutoSaveIntervalSeconds)
}

func TestLoadCorruptFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "editor.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	ctx := settings.NewContext(path)
	assert.Error(t, ctx.Load())
	// Current settings are untouched on a failed load.
	assert.Equal(t, settings.Defaults(), ctx.Current())
}

func TestResetToDefaults(t *testing.T) {
	ctx := settings.NewContext(filepath.Join(t.TempDir(), "editor.json"))
	ctx.Update(func(s *settings.EditorSettings) { s.ShowEntityIDs = true })
	require.True(t, ctx.Current().ShowEntityIDs)

	ctx.ResetToDefaults()
	assert.False(t, ctx.Current().ShowEntityIDs)
}

func TestChangeNotification(t *testing.T) {
	ctx := settings.NewContext(filepath.Join(t.TempDir(), "editor.json"))

	var seen []string
	ctx.OnChange(func(s settings.EditorSettings) {
		seen = append(seen, s.LogLevel)
	})

	ctx.Update(func(s *settings.EditorSettings) { s.LogLevel = "warn" })
	ctx.ResetToDefaults()

	assert.Equal(t, []string{"warn", "info"}, seen)
}

func TestPartialFileFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "editor.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"logLevel":"error"}`), 0o644))

	ctx := settings.NewContext(path)
	require.NoError(t, ctx.Load())
	assert.Equal(t, "error", ctx.Current().LogLevel)
	// Unspecified fields keep their defaults.
	assert.Equal(t, 300, ctx.Current().AutoSaveIntervalSeconds)
}
