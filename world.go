// Package keeneyes implements the KeenEyes entity-component world: archetype
// storage, queries, parent/child hierarchy, tag and name indices, plugins,
// and save-slot persistence.
package keeneyes

import (
	"os"
	"reflect"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/keen-eyes/keeneyes/persist"
	"github.com/keen-eyes/keeneyes/storage"
	"github.com/keen-eyes/keeneyes/telemetry"
	"github.com/keen-eyes/keeneyes/types"
)

// World owns all archetypes, the entity id/generation table, the parent/child
// hierarchy, the name and tag indices, and singleton storage.
//
// A World is not internally synchronized for mutation. Callers must not
// mutate the same World from multiple goroutines except through the
// explicitly-parallel query APIs.
type World struct {
	cfg    WorldConfig
	logger zerolog.Logger

	registry *storage.Registry
	table    *storage.Table
	index    *storage.EntityIndex

	// Hierarchy
	parents  map[types.Entity]types.Entity
	children map[types.Entity]map[types.Entity]struct{}

	// Indices
	tags        map[string]map[types.Entity]struct{}
	entityTags  map[types.Entity]map[string]struct{}
	names       map[string]types.Entity
	entityNames map[types.Entity]string

	singletons map[string]any

	systems      []systemEntry
	systemNames  map[string]struct{}
	plugins      map[string]*installedPlugin
	pluginOrder  []string
	extensions   map[reflect.Type]any
	capabilities map[reflect.Type]any

	saves *persist.Manager
}

// NewWorld creates an empty world. Configuration is loaded from the
// environment and can be overridden through options.
func NewWorld(opts ...WorldOption) (*World, error) {
	cfg, err := loadWorldConfig()
	if err != nil {
		return nil, err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	w := &World{
		cfg:          cfg,
		logger:       logger,
		registry:     storage.NewRegistry(),
		table:        storage.NewTable(),
		index:        storage.NewEntityIndex(),
		parents:      map[types.Entity]types.Entity{},
		children:     map[types.Entity]map[types.Entity]struct{}{},
		tags:         map[string]map[types.Entity]struct{}{},
		entityTags:   map[types.Entity]map[string]struct{}{},
		names:        map[string]types.Entity{},
		entityNames:  map[types.Entity]string{},
		singletons:   map[string]any{},
		systemNames:  map[string]struct{}{},
		plugins:      map[string]*installedPlugin{},
		extensions:   map[reflect.Type]any{},
		capabilities: map[reflect.Type]any{},
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.cfg.StatsdAddress != "" {
		if err := telemetry.Init(w.cfg.StatsdAddress, nil); err != nil {
			w.logger.Warn().Err(err).Msg("failed to initialize statsd client")
		}
	}

	if w.saves == nil {
		store, err := persist.NewFileStore(w.cfg.SaveDirectory)
		if err != nil {
			return nil, eris.Wrap(err, "failed to open save directory")
		}
		w.saves = persist.NewManager(store, persist.WithLogger(w.logger))
	}

	w.logger.Debug().
		Str("editor_version", w.cfg.EditorVersion).
		Int("parallel_threshold", w.cfg.ParallelThreshold).
		Msg("world created")
	return w, nil
}

// Logger returns the world's logger.
func (w *World) Logger() zerolog.Logger { return w.logger }

// Config returns the configuration the world was built with.
func (w *World) Config() WorldConfig { return w.cfg }

// Spawn starts building a new entity. The entity is allocated when Build is
// called on the returned builder.
func (w *World) Spawn() *EntityBuilder {
	return &EntityBuilder{world: w}
}

// IsAlive reports whether the handle refers to a live entity. Stale handles
// whose generation no longer matches are reported dead.
func (w *World) IsAlive(e types.Entity) bool {
	return w.index.IsAlive(e)
}

// EntityCount returns the number of live entities.
func (w *World) EntityCount() int {
	return w.index.Count()
}

// Despawn removes the entity, frees its index for recycling, and clears its
// hierarchy edges, tags, and name. Children of the entity become roots.
func (w *World) Despawn(e types.Entity) error {
	if !w.index.IsAlive(e) {
		return eris.Wrapf(ErrEntityNotFound, "%s", e)
	}
	w.detachFromParent(e)
	for child := range w.children[e] {
		delete(w.parents, child)
	}
	delete(w.children, e)

	w.clearTags(e)
	w.clearName(e)

	return w.removeRow(e)
}

// DespawnRecursive despawns the entity and every transitive descendant,
// depth-first, and returns the number of entities removed. A dead or null
// handle removes nothing and returns 0.
func (w *World) DespawnRecursive(e types.Entity) int {
	if !w.index.IsAlive(e) {
		return 0
	}
	doomed := append([]types.Entity{e}, w.GetDescendants(e)...)
	count := 0
	// Despawn leaves-first so no child outlives its parent edge.
	for i := len(doomed) - 1; i >= 0; i-- {
		if err := w.Despawn(doomed[i]); err == nil {
			count++
		}
	}
	return count
}

// Clear removes all entities, archetypes, and indices. Registered component
// types, systems, and installed plugins are preserved.
func (w *World) Clear() {
	w.index.Clear()
	w.table.Clear()
	w.parents = map[types.Entity]types.Entity{}
	w.children = map[types.Entity]map[types.Entity]struct{}{}
	w.tags = map[string]map[types.Entity]struct{}{}
	w.entityTags = map[types.Entity]map[string]struct{}{}
	w.names = map[string]types.Entity{}
	w.entityNames = map[types.Entity]string{}
	w.singletons = map[string]any{}
	w.logger.Debug().Msg("world cleared")
}

// Stats returns a snapshot of world-level counters.
func (w *World) Stats() types.WorldStats {
	return types.WorldStats{
		EntityCount:    w.index.Count(),
		ArchetypeCount: w.table.Count(),
		ComponentCount: w.registry.Len(),
		TagCount:       len(w.tags),
		SystemCount:    len(w.systems),
	}
}

// removeRow deletes the entity's archetype row and frees its index slot.
func (w *World) removeRow(e types.Entity) error {
	loc, err := w.index.Location(e)
	if err != nil {
		return err
	}
	arch := w.table.Archetype(loc.Archetype)
	if arch == nil {
		return eris.Wrapf(storage.ErrArchetypeNotFound, "archetype %d", loc.Archetype)
	}
	moved := arch.SwapRemoveRow(loc.Row)
	if !moved.IsNull() {
		if err := w.index.SetLocation(moved, loc); err != nil {
			return err
		}
	}
	return w.index.Despawn(e)
}
