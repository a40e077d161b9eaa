package keeneyes

import (
	"strings"

	"github.com/keen-eyes/keeneyes/storage"
	"github.com/keen-eyes/keeneyes/types"
)

// EntityBuilder accumulates components, a name, and tags for an entity that
// is inserted into the world when Build is called.
type EntityBuilder struct {
	world      *World
	components []types.Component
	name       string
	tags       []string
	err        error
}

// With adds a component value. The component type must already be registered.
// Adding the same component type twice keeps the last value.
func (b *EntityBuilder) With(c types.Component) *EntityBuilder {
	b.components = append(b.components, c)
	return b
}

// WithName gives the entity a unique name resolvable via GetEntityByName.
func (b *EntityBuilder) WithName(name string) *EntityBuilder {
	if strings.TrimSpace(name) == "" {
		b.err = ErrInvalidName
		return b
	}
	b.name = name
	return b
}

// WithTag adds a tag to the entity at build time.
func (b *EntityBuilder) WithTag(tag string) *EntityBuilder {
	if strings.TrimSpace(tag) == "" {
		b.err = ErrInvalidTag
		return b
	}
	b.tags = append(b.tags, tag)
	return b
}

// Build allocates the entity and inserts it into the archetype matching the
// accumulated component set.
func (b *EntityBuilder) Build() (types.Entity, error) {
	if b.err != nil {
		return types.Null, b.err
	}
	w := b.world

	if b.name != "" {
		if _, taken := w.names[b.name]; taken {
			return types.Null, ErrNameTaken
		}
	}

	// Deduplicate by name, last value wins.
	byName := make(map[string]types.Component, len(b.components))
	order := make([]string, 0, len(b.components))
	for _, c := range b.components {
		if _, seen := byName[c.Name()]; !seen {
			order = append(order, c.Name())
		}
		byName[c.Name()] = c
	}

	metas := make([]types.ComponentMetadata, 0, len(order))
	values := make(map[types.ComponentID]any, len(order))
	for _, name := range order {
		md, err := w.registry.GetByName(name)
		if err != nil {
			return types.Null, err
		}
		metas = append(metas, md)
		if !md.IsTag() {
			values[md.ID()] = byName[name]
		}
	}

	arch, err := w.table.GetOrCreate(metas)
	if err != nil {
		return types.Null, err
	}

	e := w.index.Spawn()
	row, err := arch.PushRow(e, values)
	if err != nil {
		// Roll the allocation back so a failed build leaves no orphan handle.
		_ = w.index.Despawn(e)
		return types.Null, err
	}
	if err := w.index.SetLocation(e, storage.Location{Archetype: arch.ID(), Row: row}); err != nil {
		return types.Null, err
	}

	if b.name != "" {
		w.names[b.name] = e
		w.entityNames[e] = b.name
	}
	for _, tag := range b.tags {
		if _, err := w.AddTag(e, tag); err != nil {
			// Undo the spawn so a failed build leaves nothing behind. Despawn
			// also clears the name and any tags applied so far.
			_ = w.Despawn(e)
			return types.Null, err
		}
	}

	w.logger.Debug().
		Stringer("entity", e).
		Int("archetype_id", int(arch.ID())).
		Int("components", len(metas)).
		Msg("entity spawned")
	return e, nil
}
