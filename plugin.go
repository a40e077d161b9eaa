package keeneyes

import (
	"reflect"

	"github.com/rotisserie/eris"

	"github.com/keen-eyes/keeneyes/plugin"
	"github.com/keen-eyes/keeneyes/types"
)

// Plugin is an installable unit that registers components, systems,
// extensions, and capabilities into a world.
type Plugin interface {
	Manifest() plugin.Manifest
	Install(ctx *PluginContext) error
	Uninstall(ctx *PluginContext) error
}

// PluginContext is handed to a plugin during install and uninstall.
type PluginContext struct {
	world    *World
	manifest plugin.Manifest
}

// World returns the world the plugin is being installed into.
func (ctx *PluginContext) World() *World { return ctx.world }

// PluginID returns the id of the plugin the context belongs to.
func (ctx *PluginContext) PluginID() string { return ctx.manifest.ID }

// AddSystem registers a system on behalf of the plugin.
func (ctx *PluginContext) AddSystem(name string, phase Phase, order int, fn System) error {
	return ctx.world.RegisterSystem(name, phase, order, fn)
}

// RegisterPluginComponent registers data component T on behalf of a plugin.
func RegisterPluginComponent[T types.Component](ctx *PluginContext) error {
	return RegisterComponent[T](ctx.world)
}

// RegisterPluginTag registers tag component T on behalf of a plugin.
func RegisterPluginTag[T types.Component](ctx *PluginContext) error {
	return RegisterTag[T](ctx.world)
}

type installedPlugin struct {
	plugin  Plugin
	enabled bool
}

func (w *World) loadedPlugins() map[string]plugin.LoadedPlugin {
	out := make(map[string]plugin.LoadedPlugin, len(w.plugins))
	for id, ip := range w.plugins {
		out[id] = plugin.LoadedPlugin{Manifest: ip.plugin.Manifest(), Enabled: ip.enabled}
	}
	return out
}

// InstallPlugin validates the plugin against the installed set (declared
// dependencies, version constraints, editor version) and installs it.
func (w *World) InstallPlugin(p Plugin) error {
	manifest := p.Manifest()
	if _, dup := w.plugins[manifest.ID]; dup {
		return eris.Wrapf(ErrPluginInstalled, "plugin %q", manifest.ID)
	}

	resolver := plugin.NewResolver(w.cfg.EditorVersion)
	result := resolver.CanLoad(manifest, w.loadedPlugins())
	if !result.IsValid {
		return eris.Wrapf(result.Errors[0], "cannot install plugin %q", manifest.ID)
	}

	ctx := &PluginContext{world: w, manifest: manifest}
	if err := p.Install(ctx); err != nil {
		return eris.Wrapf(err, "plugin %q install failed", manifest.ID)
	}
	w.plugins[manifest.ID] = &installedPlugin{plugin: p, enabled: true}
	w.pluginOrder = append(w.pluginOrder, manifest.ID)
	w.logger.Info().
		Str("plugin", manifest.ID).
		Str("version", manifest.Version).
		Msg("plugin installed")
	return nil
}

// InstallPlugins resolves the whole set at once and installs in dependency
// order. All resolution errors are reported before anything is installed.
func (w *World) InstallPlugins(ps ...Plugin) error {
	byID := make(map[string]Plugin, len(ps))
	set := w.loadedPlugins()
	for _, p := range ps {
		m := p.Manifest()
		if _, dup := w.plugins[m.ID]; dup {
			return eris.Wrapf(ErrPluginInstalled, "plugin %q", m.ID)
		}
		byID[m.ID] = p
		set[m.ID] = plugin.LoadedPlugin{Manifest: m, Enabled: true}
	}

	resolver := plugin.NewResolver(w.cfg.EditorVersion)
	result := resolver.Resolve(set)
	if !result.IsValid {
		return eris.Wrapf(eris.New("plugin resolution failed"), "%d errors, first: %v",
			len(result.Errors), result.Errors[0])
	}

	for _, id := range result.LoadOrder {
		p, isNew := byID[id]
		if !isNew {
			continue // already installed before this call
		}
		ctx := &PluginContext{world: w, manifest: p.Manifest()}
		if err := p.Install(ctx); err != nil {
			return eris.Wrapf(err, "plugin %q install failed", id)
		}
		w.plugins[id] = &installedPlugin{plugin: p, enabled: true}
		w.pluginOrder = append(w.pluginOrder, id)
	}
	return nil
}

// UninstallPlugin removes the plugin unless an enabled dependent still
// references it, in which case the blocking dependents are reported.
func (w *World) UninstallPlugin(id string) error {
	ip, ok := w.plugins[id]
	if !ok {
		return eris.Wrapf(ErrPluginNotInstalled, "plugin %q", id)
	}
	if ok, blockers := plugin.CanUnload(id, w.loadedPlugins()); !ok {
		return eris.Errorf("cannot uninstall plugin %q: blocked by %v", id, blockers)
	}

	ctx := &PluginContext{world: w, manifest: ip.plugin.Manifest()}
	if err := ip.plugin.Uninstall(ctx); err != nil {
		return eris.Wrapf(err, "plugin %q uninstall failed", id)
	}
	delete(w.plugins, id)
	for i, pid := range w.pluginOrder {
		if pid == id {
			w.pluginOrder = append(w.pluginOrder[:i], w.pluginOrder[i+1:]...)
			break
		}
	}
	w.logger.Info().Str("plugin", id).Msg("plugin uninstalled")
	return nil
}

// SetPluginEnabled toggles a plugin's enabled flag, which is what CanUnload
// consults when deciding whether dependents block an unload.
func (w *World) SetPluginEnabled(id string, enabled bool) error {
	ip, ok := w.plugins[id]
	if !ok {
		return eris.Wrapf(ErrPluginNotInstalled, "plugin %q", id)
	}
	ip.enabled = enabled
	return nil
}

// PluginIDs returns the ids of installed plugins in install order.
func (w *World) PluginIDs() []string {
	out := make([]string, len(w.pluginOrder))
	copy(out, w.pluginOrder)
	return out
}

// SetExtension stores a typed extension instance on the world.
func SetExtension[T any](w *World, value T) {
	w.extensions[reflect.TypeOf((*T)(nil)).Elem()] = value
}

// GetExtension returns the stored extension of type T.
func GetExtension[T any](w *World) (T, error) {
	var zero T
	v, ok := w.extensions[reflect.TypeOf((*T)(nil)).Elem()]
	if !ok {
		return zero, eris.Wrapf(ErrExtensionNotFound, "extension %T", zero)
	}
	return v.(T), nil
}

// SetCapability exposes a typed capability instance on the world.
func SetCapability[T any](w *World, value T) {
	w.capabilities[reflect.TypeOf((*T)(nil)).Elem()] = value
}

// GetCapability returns the registered capability of interface type T. When
// nothing was registered explicitly, the world itself is offered: if *World
// implements T the world is returned. This keeps capability lookup a typed
// registry instead of reflection-driven duck typing.
func GetCapability[T any](w *World) (T, bool) {
	if v, ok := w.capabilities[reflect.TypeOf((*T)(nil)).Elem()]; ok {
		return v.(T), true
	}
	if self, ok := any(w).(T); ok {
		return self, true
	}
	var zero T
	return zero, false
}
