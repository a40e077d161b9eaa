package keeneyes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keen-eyes/keeneyes"
	"github.com/keen-eyes/keeneyes/plugin"
)

type Mana struct {
	Points int
}

func (Mana) Name() string { return "mana" }

// testPlugin is a minimal installable plugin recording lifecycle calls.
type testPlugin struct {
	manifest    plugin.Manifest
	installed   bool
	uninstalled bool
	onInstall   func(ctx *keeneyes.PluginContext) error
}

func (p *testPlugin) Manifest() plugin.Manifest { return p.manifest }

func (p *testPlugin) Install(ctx *keeneyes.PluginContext) error {
	p.installed = true
	if p.onInstall != nil {
		return p.onInstall(ctx)
	}
	return nil
}

func (p *testPlugin) Uninstall(*keeneyes.PluginContext) error {
	p.uninstalled = true
	return nil
}

func TestInstallPluginRegistersContent(t *testing.T) {
	w := newTestWorld(t)

	p := &testPlugin{
		manifest: plugin.Manifest{ID: "magic", Version: "1.0.0"},
		onInstall: func(ctx *keeneyes.PluginContext) error {
			if err := keeneyes.RegisterPluginComponent[Mana](ctx); err != nil {
				return err
			}
			return ctx.AddSystem("mana-regen", keeneyes.PhaseUpdate, 0, func(w *keeneyes.World) error {
				return nil
			})
		},
	}

	require.NoError(t, w.InstallPlugin(p))
	assert.True(t, p.installed)
	assert.Equal(t, []string{"magic"}, w.PluginIDs())
	assert.Contains(t, w.ComponentNames(), "mana")
	assert.Contains(t, w.SystemNames(), "mana-regen")
}

func TestInstallPluginDuplicate(t *testing.T) {
	w := newTestWorld(t)
	p := &testPlugin{manifest: plugin.Manifest{ID: "dup", Version: "1.0.0"}}

	require.NoError(t, w.InstallPlugin(p))
	err := w.InstallPlugin(&testPlugin{manifest: plugin.Manifest{ID: "dup", Version: "2.0.0"}})
	assert.ErrorIs(t, err, keeneyes.ErrPluginInstalled)
}

func TestInstallPluginMissingDependency(t *testing.T) {
	w := newTestWorld(t)
	p := &testPlugin{manifest: plugin.Manifest{
		ID: "needy", Version: "1.0.0",
		Dependencies: []plugin.Dependency{{ID: "absent"}},
	}}

	err := w.InstallPlugin(p)
	assert.Error(t, err)
	assert.False(t, p.installed)
	assert.Empty(t, w.PluginIDs())
}

func TestInstallPluginEditorVersionGate(t *testing.T) {
	w := newTestWorld(t, keeneyes.WithEditorVersion("1.0.0"))
	p := &testPlugin{manifest: plugin.Manifest{
		ID: "future", Version: "1.0.0", MinEditorVersion: "5.0.0",
	}}

	assert.Error(t, w.InstallPlugin(p))
}

func TestInstallPluginsResolvesOrder(t *testing.T) {
	w := newTestWorld(t)

	var order []string
	mk := func(id string, deps ...plugin.Dependency) *testPlugin {
		return &testPlugin{
			manifest: plugin.Manifest{ID: id, Version: "1.0.0", Dependencies: deps},
			onInstall: func(*keeneyes.PluginContext) error {
				order = append(order, id)
				return nil
			},
		}
	}

	app := mk("app", plugin.Dependency{ID: "ui"})
	ui := mk("ui", plugin.Dependency{ID: "core", Constraint: "^1.0.0"})
	core := mk("core")

	// Install order does not matter; dependency order does.
	require.NoError(t, w.InstallPlugins(app, ui, core))
	assert.Equal(t, []string{"core", "ui", "app"}, order)
}

func TestInstallPluginsRejectsCycle(t *testing.T) {
	w := newTestWorld(t)
	a := &testPlugin{manifest: plugin.Manifest{
		ID: "a", Version: "1.0.0", Dependencies: []plugin.Dependency{{ID: "b"}},
	}}
	b := &testPlugin{manifest: plugin.Manifest{
		ID: "b", Version: "1.0.0", Dependencies: []plugin.Dependency{{ID: "a"}},
	}}

	assert.Error(t, w.InstallPlugins(a, b))
	assert.False(t, a.installed)
	assert.False(t, b.installed)
}

func TestUninstallPluginBlockedByDependent(t *testing.T) {
	w := newTestWorld(t)
	core := &testPlugin{manifest: plugin.Manifest{ID: "core", Version: "1.0.0"}}
	ui := &testPlugin{manifest: plugin.Manifest{
		ID: "ui", Version: "1.0.0", Dependencies: []plugin.Dependency{{ID: "core"}},
	}}
	require.NoError(t, w.InstallPlugins(core, ui))

	err := w.UninstallPlugin("core")
	assert.ErrorContains(t, err, "ui")
	assert.False(t, core.uninstalled)

	// Disabling the dependent unblocks the uninstall.
	require.NoError(t, w.SetPluginEnabled("ui", false))
	require.NoError(t, w.UninstallPlugin("core"))
	assert.True(t, core.uninstalled)
	assert.Equal(t, []string{"ui"}, w.PluginIDs())
}

func TestUninstallUnknownPlugin(t *testing.T) {
	w := newTestWorld(t)
	assert.ErrorIs(t, w.UninstallPlugin("nothing"), keeneyes.ErrPluginNotInstalled)
}

type scoreboard interface {
	Score() int
}

type fixedScoreboard struct{ n int }

func (s fixedScoreboard) Score() int { return s.n }

func TestExtensions(t *testing.T) {
	w := newTestWorld(t)

	_, err := keeneyes.GetExtension[fixedScoreboard](w)
	assert.ErrorIs(t, err, keeneyes.ErrExtensionNotFound)

	keeneyes.SetExtension(w, fixedScoreboard{n: 42})
	got, err := keeneyes.GetExtension[fixedScoreboard](w)
	require.NoError(t, err)
	assert.Equal(t, 42, got.Score())
}

func TestCapabilities(t *testing.T) {
	w := newTestWorld(t)

	_, ok := keeneyes.GetCapability[scoreboard](w)
	assert.False(t, ok)

	keeneyes.SetCapability[scoreboard](w, fixedScoreboard{n: 7})
	got, ok := keeneyes.GetCapability[scoreboard](w)
	require.True(t, ok)
	assert.Equal(t, 7, got.Score())
}

func TestCapabilityWorldFallback(t *testing.T) {
	w := newTestWorld(t)

	// Nothing registered, but *World itself implements the bridge provider
	// surface, so the lookup falls back to the world.
	type entityCounter interface {
		EntityCount() int
	}
	got, ok := keeneyes.GetCapability[entityCounter](w)
	require.True(t, ok)
	assert.Equal(t, 0, got.EntityCount())
}
