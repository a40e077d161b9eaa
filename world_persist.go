package keeneyes

import (
	"context"
	"sort"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"

	"github.com/keen-eyes/keeneyes/filter"
	"github.com/keen-eyes/keeneyes/persist"
	"github.com/keen-eyes/keeneyes/storage"
	"github.com/keen-eyes/keeneyes/types"
)

// Saves returns the world's save-slot manager.
func (w *World) Saves() *persist.Manager { return w.saves }

// SaveToSlot captures every live entity (components, name, tags, parent edge)
// and writes the snapshot to the named slot, overwriting any existing slot.
func (w *World) SaveToSlot(ctx context.Context, slot string) (*persist.SlotInfo, error) {
	snap, err := w.captureSnapshot()
	if err != nil {
		return nil, err
	}
	info, err := w.saves.Save(ctx, slot, snap)
	if err != nil {
		return nil, err
	}
	return info, nil
}

// LoadFromSlot reads the named slot and spawns its entities into the world.
// The load is additive: entities already alive are untouched. Loaded entities
// get fresh handles, and the returned map translates each saved handle to the
// handle it was respawned under. Components no longer registered are skipped
// with a warning rather than failing the load.
func (w *World) LoadFromSlot(ctx context.Context, slot string) (map[types.Entity]types.Entity, error) {
	snap, err := w.saves.Load(ctx, slot)
	if err != nil {
		return nil, err
	}
	return w.applySnapshot(snap)
}

func (w *World) captureSnapshot() (*persist.Snapshot, error) {
	snap := persist.NewSnapshot()
	for _, archID := range w.table.SearchFrom(filter.All(), 0) {
		arch := w.table.Archetype(archID)
		comps := arch.Components()
		for row, e := range arch.Entities() {
			rec := persist.EntityRecord{
				Entity:     e,
				Name:       w.entityNames[e],
				Tags:       w.GetTags(e),
				Parent:     w.parents[e],
				Components: make(map[string]json.RawMessage, len(comps)),
			}
			for _, md := range comps {
				if md.IsTag() {
					// Tags carry no data; an empty object keeps the
					// component in the archetype signature on load.
					rec.Components[md.Name()] = json.RawMessage("{}")
					continue
				}
				v, err := arch.Value(md.ID(), row)
				if err != nil {
					return nil, err
				}
				encoded, err := md.Encode(v)
				if err != nil {
					return nil, eris.Wrapf(err, "failed to encode component %q on %s", md.Name(), e)
				}
				rec.Components[md.Name()] = encoded
			}
			snap.Entities = append(snap.Entities, rec)
		}
	}
	return snap, nil
}

func (w *World) applySnapshot(snap *persist.Snapshot) (map[types.Entity]types.Entity, error) {
	idMap := make(map[types.Entity]types.Entity, len(snap.Entities))

	for _, rec := range snap.Entities {
		metas := make([]types.ComponentMetadata, 0, len(rec.Components))
		values := make(map[types.ComponentID]any, len(rec.Components))
		for _, name := range sortedComponentNames(rec.Components) {
			md, err := w.registry.GetByName(name)
			if err != nil {
				w.logger.Warn().
					Str("component", name).
					Stringer("saved_entity", rec.Entity).
					Msg("skipping unregistered component in save slot")
				continue
			}
			metas = append(metas, md)
			if md.IsTag() {
				continue
			}
			v, err := md.Decode(rec.Components[name])
			if err != nil {
				return idMap, eris.Wrapf(err, "failed to decode component %q for %s", name, rec.Entity)
			}
			values[md.ID()] = v.(types.Component)
		}

		arch, err := w.table.GetOrCreate(metas)
		if err != nil {
			return idMap, err
		}
		e := w.index.Spawn()
		row, err := arch.PushRow(e, values)
		if err != nil {
			_ = w.index.Despawn(e)
			return idMap, err
		}
		if err := w.index.SetLocation(e, storage.Location{Archetype: arch.ID(), Row: row}); err != nil {
			return idMap, err
		}
		idMap[rec.Entity] = e

		if rec.Name != "" {
			if _, taken := w.names[rec.Name]; taken {
				w.logger.Warn().
					Str("name", rec.Name).
					Stringer("entity", e).
					Msg("saved entity name already in use, loading unnamed")
			} else {
				w.names[rec.Name] = e
				w.entityNames[e] = rec.Name
			}
		}
		for _, tag := range rec.Tags {
			if _, err := w.AddTag(e, tag); err != nil {
				return idMap, err
			}
		}
	}

	// Reattach hierarchy edges once every entity has its new handle.
	for _, rec := range snap.Entities {
		if rec.Parent.IsNull() {
			continue
		}
		child := idMap[rec.Entity]
		parent, ok := idMap[rec.Parent]
		if !ok {
			// Parent was not part of the snapshot; the child loads as a root.
			continue
		}
		if err := w.SetParent(child, parent); err != nil {
			return idMap, err
		}
	}

	w.logger.Info().
		Int("entities", len(idMap)).
		Str("snapshot_id", snap.ID.String()).
		Msg("snapshot loaded")
	return idMap, nil
}

func sortedComponentNames(m map[string]json.RawMessage) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
